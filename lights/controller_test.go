// Copyright (C) 2025 Mono Technologies Inc.
//
// This program is free software; you can redistribute it and/or
// modify it under the terms of the GNU General Public License
// as published by the Free Software Foundation; version 2.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.

package lights

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestController builds a controller over a fake sysfs tree with the
// LED directories the real driver exposes.
func newTestController(t *testing.T) (*Controller, string) {
	t.Helper()

	root := t.TempDir()
	for _, led := range []string{"lcd-backlight", "button-backlight", "red", "green", "blue"} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, led), 0755))
	}

	return New(root, nil), root
}

func readControl(t *testing.T, root, led, file string) string {
	t.Helper()

	data, err := os.ReadFile(filepath.Join(root, led, file))
	require.NoError(t, err, "control file %s/%s should exist", led, file)
	return string(data)
}

func setMaxBrightness(t *testing.T, root, value string) {
	t.Helper()
	require.NoError(t, os.WriteFile(
		filepath.Join(root, "lcd-backlight", "max_brightness"), []byte(value), 0644))
}

func TestBrightness(t *testing.T) {
	tests := []struct {
		name  string
		color uint32
		want  int
	}{
		{"black", 0xFF000000, 0},
		{"full white", 0xFFFFFFFF, 255},
		{"mid gray", 0xFF808080, 128},
		{"pure red", 0xFFFF0000, 76},
		{"pure green", 0xFF00FF00, 149},
		{"pure blue", 0xFF0000FF, 28},
		{"alpha ignored", 0x00FFFFFF, 255},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, brightness(tt.color))
		})
	}
}

func TestSetLightUnsupported(t *testing.T) {
	c, root := newTestController(t)

	err := c.SetLight(Type(99), State{Color: 0xFFFFFFFF})
	assert.ErrorIs(t, err, ErrNotSupported)

	// No device writes may happen for an unsupported type.
	for _, led := range []string{"lcd-backlight", "button-backlight", "red", "green", "blue"} {
		entries, err := os.ReadDir(filepath.Join(root, led))
		require.NoError(t, err)
		assert.Empty(t, entries, "no control files should be written under %s", led)
	}
}

func TestSupportedTypes(t *testing.T) {
	c, _ := newTestController(t)

	want := []Type{TypeAttention, TypeBacklight, TypeBattery, TypeButtons, TypeNotifications}
	assert.Equal(t, want, c.SupportedTypes())

	// Call history must not influence the supported set.
	require.NoError(t, c.SetLight(TypeBattery, State{Color: 0xFFFF0000}))
	require.Error(t, c.SetLight(Type(42), State{}))
	assert.Equal(t, want, c.SupportedTypes())
}

func TestBacklightScaling(t *testing.T) {
	tests := []struct {
		name          string
		maxBrightness string // empty = no max_brightness file
		color         uint32
		want          string
	}{
		{"native 255 panel", "255", 0xFFFFFFFF, "255"},
		{"128 panel rescales", "128", 0xFFFFFFFF, "128"},
		{"1023 panel rescales", "1023", 0xFFFFFFFF, "1023"},
		{"zero stays zero", "128", 0xFF000000, "0"},
		{"missing file defaults to 255", "", 0xFFFFFFFF, "255"},
		{"negative value defaults to 255", "-1", 0xFF808080, "128"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, root := newTestController(t)
			if tt.maxBrightness != "" {
				setMaxBrightness(t, root, tt.maxBrightness)
			}

			require.NoError(t, c.SetLight(TypeBacklight, State{Color: tt.color}))
			assert.Equal(t, tt.want, readControl(t, root, "lcd-backlight", "brightness"))
		})
	}
}

func TestButtonBacklight(t *testing.T) {
	c, root := newTestController(t)

	// Button backlight takes the raw luminance, no panel scaling.
	require.NoError(t, c.SetLight(TypeButtons, State{Color: 0xFF808080}))
	assert.Equal(t, "128", readControl(t, root, "button-backlight", "brightness"))
}

func TestRgbArbitrationPriority(t *testing.T) {
	c, root := newTestController(t)

	// Attention dark, notifications green, battery red: notifications
	// must win and battery must be masked.
	require.NoError(t, c.SetLight(TypeAttention, State{Color: 0xFF000000}))
	require.NoError(t, c.SetLight(TypeNotifications, State{Color: 0xFF00FF00}))
	require.NoError(t, c.SetLight(TypeBattery, State{Color: 0xFFFF0000}))

	assert.Equal(t, "0", readControl(t, root, "red", "brightness"))
	assert.Equal(t, "255", readControl(t, root, "green", "brightness"))
	assert.Equal(t, "0", readControl(t, root, "blue", "brightness"))
	assert.Equal(t, State{Color: 0xFF00FF00}, c.Rendered())

	// A lit attention light outranks both.
	require.NoError(t, c.SetLight(TypeAttention, State{Color: 0xFF0000FF}))

	assert.Equal(t, "0", readControl(t, root, "red", "brightness"))
	assert.Equal(t, "0", readControl(t, root, "green", "brightness"))
	assert.Equal(t, "255", readControl(t, root, "blue", "brightness"))
	assert.Equal(t, State{Color: 0xFF0000FF}, c.Rendered())
}

func TestRgbArbitrationFallback(t *testing.T) {
	c, root := newTestController(t)

	require.NoError(t, c.SetLight(TypeNotifications, State{Color: 0xFF00FF00}))
	require.NoError(t, c.SetLight(TypeNotifications, State{Color: 0xFF000000}))

	// All slots dark: slot 0 (attention, still zero) is rendered.
	for _, led := range []string{"red", "green", "blue"} {
		assert.Equal(t, "0", readControl(t, root, led, "brightness"))
	}
	assert.Equal(t, State{}, c.Rendered())
}

func TestRgbBlinkEncoding(t *testing.T) {
	tests := []struct {
		name     string
		onMs     int
		offMs    int
		wantStep string
		wantHi   string
		wantLo   string
	}{
		// 15ms * 16 steps = 240 > 160: squeeze the ramp into the on
		// phase and pause only in the off phase.
		{"short on phase", 160, 840, "10", "0", "840"},
		// Long on phase: max step duration, remainder in the pauses.
		{"long on phase", 2000, 1000, "15", "1760", "760"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, root := newTestController(t)

			state := State{
				Color: 0xFF00FF00,
				Flash: FlashTimed,
				OnMs:  tt.onMs,
				OffMs: tt.offMs,
			}
			require.NoError(t, c.SetLight(TypeNotifications, state))

			// Channel LUT ranges in assignment order: blue, green, red.
			assert.Equal(t, "0", readControl(t, root, "blue", "start_idx"))
			assert.Equal(t, "17", readControl(t, root, "green", "start_idx"))
			assert.Equal(t, "34", readControl(t, root, "red", "start_idx"))

			for _, led := range []string{"red", "green", "blue"} {
				assert.Equal(t, "95", readControl(t, root, led, "lut_flags"))
				assert.Equal(t, tt.wantStep, readControl(t, root, led, "ramp_step_ms"))
				assert.Equal(t, tt.wantHi, readControl(t, root, led, "pause_hi"))
				assert.Equal(t, tt.wantLo, readControl(t, root, led, "pause_lo"))
			}

			// Green ramps to full, red and blue stay dark.
			assert.Equal(t,
				"0,32,64,96,128,160,192,224,256,288,320,352,384,416,448,480,512",
				readControl(t, root, "green", "duty_pcts"))
			assert.Equal(t,
				"0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0",
				readControl(t, root, "red", "duty_pcts"))

			// The waveform is started by writing the channel value to blink.
			assert.Equal(t, "255", readControl(t, root, "green", "blink"))
			assert.Equal(t, "0", readControl(t, root, "red", "blink"))
			assert.Equal(t, "0", readControl(t, root, "blue", "blink"))
		})
	}
}

func TestRgbBlinkRequiresBothPhases(t *testing.T) {
	c, root := newTestController(t)

	// Timed flash with a zero off phase renders solid.
	state := State{Color: 0xFFFF0000, Flash: FlashTimed, OnMs: 500, OffMs: 0}
	require.NoError(t, c.SetLight(TypeBattery, state))

	assert.Equal(t, "255", readControl(t, root, "red", "brightness"))
	assert.Equal(t, "0", readControl(t, root, "red", "blink"))

	// Hardware flash mode is not supported by this driver: solid too.
	state = State{Color: 0xFFFF0000, Flash: FlashHardware, OnMs: 500, OffMs: 500}
	require.NoError(t, c.SetLight(TypeBattery, state))
	assert.Equal(t, "255", readControl(t, root, "red", "brightness"))
	assert.Equal(t, "0", readControl(t, root, "red", "blink"))
}

func TestBlinkDisabledBeforeSolid(t *testing.T) {
	c, root := newTestController(t)

	// Start a blink, then switch to solid: the blink control must be
	// reset so no stale waveform survives.
	blink := State{Color: 0xFF00FF00, Flash: FlashTimed, OnMs: 160, OffMs: 840}
	require.NoError(t, c.SetLight(TypeNotifications, blink))
	require.Equal(t, "255", readControl(t, root, "green", "blink"))

	require.NoError(t, c.SetLight(TypeNotifications, State{Color: 0xFF00FF00}))
	assert.Equal(t, "0", readControl(t, root, "green", "blink"))
	assert.Equal(t, "255", readControl(t, root, "green", "brightness"))
}

func TestSetLightIdempotent(t *testing.T) {
	c, root := newTestController(t)

	state := State{Color: 0xFF00FF00, Flash: FlashTimed, OnMs: 160, OffMs: 840}

	snapshot := func() map[string]string {
		files := make(map[string]string)
		for _, led := range []string{"red", "green", "blue"} {
			entries, err := os.ReadDir(filepath.Join(root, led))
			require.NoError(t, err)
			for _, e := range entries {
				files[led+"/"+e.Name()] = readControl(t, root, led, e.Name())
			}
		}
		return files
	}

	require.NoError(t, c.SetLight(TypeNotifications, state))
	first := snapshot()

	require.NoError(t, c.SetLight(TypeNotifications, state))
	assert.Equal(t, first, snapshot())
}

func TestSlots(t *testing.T) {
	c, _ := newTestController(t)

	require.NoError(t, c.SetLight(TypeBattery, State{Color: 0xFFFF0000}))
	slots := c.Slots()

	assert.Equal(t, State{}, slots[0])
	assert.Equal(t, State{}, slots[1])
	assert.Equal(t, State{Color: 0xFFFF0000}, slots[2])
}

func TestDutyPercents(t *testing.T) {
	assert.Equal(t,
		"0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0",
		dutyPercents(0))

	// Full brightness ramps linearly to the 512 duty ceiling.
	assert.Equal(t,
		"0,32,64,96,128,160,192,224,256,288,320,352,384,416,448,480,512",
		dutyPercents(255))
}
