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

package client

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/we-are-mono/lightsd/daemon"
	"github.com/we-are-mono/lightsd/lights"
)

// startMockServer runs a one-request-per-connection JSON line server on
// the given socket.
func startMockServer(t *testing.T, sockPath string, handler func(daemon.Request) daemon.Response) func() {
	t.Helper()

	listener, err := net.Listen("unix", sockPath)
	require.NoError(t, err)

	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				return
			}

			go func(conn net.Conn) {
				defer conn.Close()

				reader := bufio.NewReader(conn)
				data, err := reader.ReadBytes('\n')
				if err != nil {
					return
				}

				var req daemon.Request
				if err := json.Unmarshal(data, &req); err != nil {
					return
				}

				respData, err := json.Marshal(handler(req))
				if err != nil {
					return
				}
				conn.Write(append(respData, '\n'))
			}(conn)
		}
	}()

	return func() { listener.Close() }
}

func TestSendSuccess(t *testing.T) {
	sockPath := filepath.Join(t.TempDir(), "lightsd.sock")
	t.Setenv("LIGHTSD_SOCKET_PATH", sockPath)

	var captured daemon.Request
	stop := startMockServer(t, sockPath, func(req daemon.Request) daemon.Response {
		captured = req
		return daemon.Response{
			Success: true,
			Message: "Set notifications to FF00FF00",
		}
	})
	defer stop()

	time.Sleep(50 * time.Millisecond)

	resp, err := Send(daemon.Request{
		Command: "set-light",
		Light:   "notifications",
		State:   &lights.State{Color: 0xFF00FF00},
	})
	require.NoError(t, err)
	require.NotNil(t, resp)

	assert.True(t, resp.Success)
	assert.Equal(t, "Set notifications to FF00FF00", resp.Message)
	assert.Equal(t, "set-light", captured.Command)
	assert.Equal(t, "notifications", captured.Light)
	require.NotNil(t, captured.State)
	assert.Equal(t, uint32(0xFF00FF00), captured.State.Color)
}

func TestSendConnectionFailure(t *testing.T) {
	sockPath := fmt.Sprintf("/tmp/nonexistent-lightsd-%d.sock", time.Now().UnixNano())
	t.Setenv("LIGHTSD_SOCKET_PATH", sockPath)

	resp, err := Send(daemon.Request{Command: "status"})
	require.Error(t, err)
	assert.Nil(t, resp)
	assert.Contains(t, err.Error(), "failed to connect")
}

func TestSendDaemonError(t *testing.T) {
	sockPath := filepath.Join(t.TempDir(), "lightsd.sock")
	t.Setenv("LIGHTSD_SOCKET_PATH", sockPath)

	stop := startMockServer(t, sockPath, func(req daemon.Request) daemon.Response {
		return daemon.Response{
			Success: false,
			Error:   "light type not supported: disco-ball",
		}
	})
	defer stop()

	time.Sleep(50 * time.Millisecond)

	resp, err := Send(daemon.Request{
		Command: "set-light",
		Light:   "disco-ball",
		State:   &lights.State{},
	})
	require.NoError(t, err)

	// Daemon-side failures come back in the response, not as errors.
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "not supported")
}
