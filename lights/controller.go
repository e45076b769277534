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
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/hashicorp/go-hclog"
)

const (
	backlightLED = "lcd-backlight"
	buttonLED    = "button-backlight"

	// The LED controller LUT has 63 entries, which would allow
	// 3 channels * 21 steps. The last entries misbehave, so each
	// channel uses 17 sample points (16 ramp steps) for 51 total.
	rampSteps     = 16
	rampMaxStepMs = 15
	lutFlags      = 95
	slotCount     = 3
)

// rgbChannels lists the RGB channel LEDs in the order their LUT ranges
// are assigned: start_idx 0, 17 and 34 respectively.
var rgbChannels = [3]struct {
	name  string
	shift uint
}{
	{"blue", 0},
	{"green", 8},
	{"red", 16},
}

// brightness reduces a color to a single luminance value using integer
// weights (77, 150, 29) over the low 24 bits.
func brightness(color uint32) int {
	c := color & 0x00ffffff
	return int((77*((c>>16)&0xff) + 150*((c>>8)&0xff) + 29*(c&0xff)) >> 8)
}

type handlerFunc func(State)

// Controller owns the dispatch table and the three-slot state array for
// the logical lights sharing the RGB LED. One mutex serializes every
// SetLight call across all light types.
type Controller struct {
	mu       sync.Mutex
	handlers map[Type]handlerFunc
	slots    [slotCount]State
	root     string
	log      hclog.Logger
}

// New builds a controller writing device files under root (SysfsRoot on
// real hardware). The dispatch table is immutable after construction.
func New(root string, log hclog.Logger) *Controller {
	if root == "" {
		root = SysfsRoot
	}
	if log == nil {
		log = hclog.NewNullLogger()
	}

	c := &Controller{
		root: root,
		log:  log.Named("lights"),
	}
	c.handlers = map[Type]handlerFunc{
		TypeAttention:     func(s State) { c.setRgbLight(s, 0) },
		TypeBacklight:     c.setBacklight,
		TypeBattery:       func(s State) { c.setRgbLight(s, 2) },
		TypeButtons:       c.setButtonBacklight,
		TypeNotifications: func(s State) { c.setRgbLight(s, 1) },
	}
	return c
}

// SetLight applies the desired state to the given light. Unknown types
// return ErrNotSupported without touching the hardware. Device write
// failures are swallowed, so a nil return does not guarantee the
// hardware changed.
func (c *Controller) SetLight(t Type, s State) error {
	handler, ok := c.handlers[t]
	if !ok {
		return ErrNotSupported
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	handler(s)
	return nil
}

// SupportedTypes returns the light types with a registered handler.
// The dispatch table is immutable, so no lock is taken.
func (c *Controller) SupportedTypes() []Type {
	types := make([]Type, 0, len(c.handlers))
	for t := range c.handlers {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// Slots returns a copy of the three RGB slot states in priority order
// (attention, notifications, battery).
func (c *Controller) Slots() [slotCount]State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.slots
}

// Rendered returns the slot state currently selected for the RGB LED.
func (c *Controller) Rendered() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.arbitrate()
}

// BacklightBrightness reads the current panel brightness, or def when
// the control file cannot be read.
func (c *Controller) BacklightBrightness(def int) int {
	return c.readInt(backlightLED, "brightness", def)
}

// arbitrate picks the first slot with any lit RGB bits, falling back to
// slot 0 when all three are dark. Fixed priority: attention outranks
// notifications outranks battery. Caller holds the lock.
func (c *Controller) arbitrate() State {
	use := c.slots[0]
	for _, s := range c.slots {
		if s.Color&0xffffff != 0 {
			use = s
			break
		}
	}
	return use
}

func (c *Controller) setBacklight(s State) {
	max := c.readInt(backlightLED, "max_brightness", -1)
	if max < 0 {
		max = 255
	}

	b := brightness(s.Color)

	// Panels whose native range differs from 255 get linear rescaling
	// that preserves 0 -> 0 and 255 -> max.
	if b > 0 && max != 255 {
		scaled := ((max-1)*(b-1))/254 + 1
		c.log.Debug("scaling backlight brightness", "from", b, "to", scaled)
		b = scaled
	}

	c.writeInt(backlightLED, "brightness", b)
}

func (c *Controller) setButtonBacklight(s State) {
	c.writeInt(buttonLED, "brightness", brightness(s.Color))
}

func (c *Controller) setRgbLight(s State, slot int) {
	c.slots[slot] = s
	use := c.arbitrate()

	var onMs, offMs int
	if use.Flash == FlashTimed {
		onMs, offMs = use.OnMs, use.OffMs
	}

	// Kill any running waveform before applying the new state so a
	// previous blink cannot bleed into it.
	for _, ch := range rgbChannels {
		c.writeInt(ch.name, "blink", 0)
	}

	if onMs > 0 && offMs > 0 {
		var stepDuration, pauseHi, pauseLo int
		if rampMaxStepMs*rampSteps > onMs {
			stepDuration = onMs / rampSteps
			pauseHi = 0
			pauseLo = offMs
		} else {
			stepDuration = rampMaxStepMs
			pauseHi = onMs - rampSteps*stepDuration
			pauseLo = offMs - rampSteps*stepDuration
		}

		startIdx := 0
		for _, ch := range rgbChannels {
			value := int((use.Color >> ch.shift) & 0xff)
			c.writeInt(ch.name, "lut_flags", lutFlags)
			c.writeInt(ch.name, "start_idx", startIdx)
			c.writeFile(ch.name, "duty_pcts", dutyPercents(value))
			c.writeInt(ch.name, "pause_lo", pauseLo)
			c.writeInt(ch.name, "pause_hi", pauseHi)
			c.writeInt(ch.name, "ramp_step_ms", stepDuration)
			startIdx += rampSteps + 1
		}

		for _, ch := range rgbChannels {
			c.writeInt(ch.name, "blink", int((use.Color>>ch.shift)&0xff))
		}
	} else {
		for _, ch := range rgbChannels {
			c.writeInt(ch.name, "brightness", int((use.Color>>ch.shift)&0xff))
		}
	}

	c.log.Debug("applied rgb light",
		"slot", slot,
		"mode", use.Flash.String(),
		"color", use.Color,
		"on_ms", onMs,
		"off_ms", offMs)
}

// dutyPercents renders the 17-sample linear ramp for one channel,
// scaled into the controller's 0-512 duty units.
func dutyPercents(brightness int) string {
	var b strings.Builder
	for i := 0; i <= rampSteps; i++ {
		if i != 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(i * 512 * brightness / (255 * rampSteps)))
	}
	return b.String()
}
