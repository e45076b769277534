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

// Package lights implements the device light controller: arbitration
// between logical light sources sharing one RGB LED and the sysfs
// encoding of solid and blinking states.
package lights

import (
	"errors"
	"fmt"
)

// ErrNotSupported is returned by SetLight when the requested light type
// has no registered handler.
var ErrNotSupported = errors.New("light type not supported")

// Type identifies a logical device light. The set is closed; there is
// no runtime registration.
type Type int

const (
	TypeAttention Type = iota
	TypeBacklight
	TypeBattery
	TypeButtons
	TypeNotifications
)

var typeNames = map[Type]string{
	TypeAttention:     "attention",
	TypeBacklight:     "backlight",
	TypeBattery:       "battery",
	TypeButtons:       "buttons",
	TypeNotifications: "notifications",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", int(t))
}

// ParseType resolves a light type name from the CLI/IPC surface.
// Unknown names return false; callers pass the invalid Type through to
// SetLight, which reports it as unsupported.
func ParseType(name string) (Type, bool) {
	for t, n := range typeNames {
		if n == name {
			return t, true
		}
	}
	return Type(-1), false
}

// FlashMode selects how a light state is rendered over time.
type FlashMode int

const (
	// FlashNone renders the color solid.
	FlashNone FlashMode = iota
	// FlashTimed blinks with the timing carried in the state.
	FlashTimed
	// FlashHardware requests hardware-managed blinking. The LED driver
	// here has no such mode, so it renders solid like FlashNone.
	FlashHardware
)

var flashNames = map[FlashMode]string{
	FlashNone:     "none",
	FlashTimed:    "timed",
	FlashHardware: "hardware",
}

func (m FlashMode) String() string {
	if name, ok := flashNames[m]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", int(m))
}

// ParseFlashMode resolves a flash mode name from the CLI surface.
func ParseFlashMode(name string) (FlashMode, bool) {
	for m, n := range flashNames {
		if n == name {
			return m, true
		}
	}
	return FlashNone, false
}

// State is the desired state of a light. Color is an ARGB integer; the
// alpha byte is ignored and only the low 24 bits are used. OnMs/OffMs
// apply only when Flash is FlashTimed.
type State struct {
	Color uint32    `json:"color"`
	Flash FlashMode `json:"flash_mode"`
	OnMs  int       `json:"flash_on_ms,omitempty"`
	OffMs int       `json:"flash_off_ms,omitempty"`
}
