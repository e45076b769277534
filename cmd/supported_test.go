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

package cmd

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/we-are-mono/lightsd/daemon"
)

func TestExecuteSupported(t *testing.T) {
	var buf bytes.Buffer
	mockCli := &mockClient{
		sendFunc: func(req daemon.Request) (*daemon.Response, error) {
			assert.Equal(t, "supported-types", req.Command)
			return &daemon.Response{
				Success: true,
				Data: []interface{}{
					"attention", "backlight", "battery", "buttons", "notifications",
				},
			}, nil
		},
	}

	err := executeSupported(&buf, mockCli)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "Supported lights:")
	for _, name := range []string{"attention", "backlight", "battery", "buttons", "notifications"} {
		assert.Contains(t, output, name)
	}
}

func TestExecuteSupportedErrors(t *testing.T) {
	tests := []struct {
		name           string
		mockResponse   *daemon.Response
		mockError      error
		wantErrContain string
	}{
		{
			name:           "connection error",
			mockError:      fmt.Errorf("failed to connect to daemon"),
			wantErrContain: "failed to connect",
		},
		{
			name:           "daemon error",
			mockResponse:   &daemon.Response{Success: false, Error: "internal error"},
			wantErrContain: "internal error",
		},
		{
			name:           "malformed data",
			mockResponse:   &daemon.Response{Success: true, Data: "not-a-list"},
			wantErrContain: "unexpected response format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			mockCli := &mockClient{
				sendFunc: func(req daemon.Request) (*daemon.Response, error) {
					if tt.mockError != nil {
						return nil, tt.mockError
					}
					return tt.mockResponse, nil
				},
			}

			err := executeSupported(&buf, mockCli)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErrContain)
		})
	}
}
