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

// Package daemon implements the lightsd daemon server and IPC protocol.
package daemon

import "github.com/we-are-mono/lightsd/lights"

// Request represents a command sent to the daemon
type Request struct {
	Command string        `json:"command"`         // set-light, supported-types, status, history
	Light   string        `json:"light,omitempty"` // Light type name for set-light
	State   *lights.State `json:"state,omitempty"` // Desired state for set-light
	Limit   int           `json:"limit,omitempty"` // Row limit for history (0 = default)
}

// Response represents the daemon's response
type Response struct {
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
	Success bool        `json:"success"`
}
