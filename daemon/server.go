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

package daemon

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/sys/unix"

	"github.com/we-are-mono/lightsd/lights"
)

// handlerFunc is a function that handles a daemon command
type handlerFunc func(Request) Response

type Server struct {
	cfg      *Config
	lights   *lights.Controller
	history  *HistoryStore
	listener net.Listener
	done     chan struct{}
	handlers map[string]handlerFunc
	log      hclog.Logger
	started  time.Time
}

func NewServer(cfg *Config, log hclog.Logger) (*Server, error) {
	if log == nil {
		log = hclog.NewNullLogger()
	}

	os.Remove(cfg.SocketPath)

	listener, err := net.Listen("unix", cfg.SocketPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create socket: %w", err)
	}

	if err := os.Chmod(cfg.SocketPath, 0666); err != nil {
		listener.Close()
		return nil, fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s := &Server{
		cfg:      cfg,
		lights:   lights.New(cfg.SysfsRoot, log),
		listener: listener,
		done:     make(chan struct{}),
		log:      log,
		started:  time.Now(),
	}

	// History is an audit trail, not a dependency: a broken database
	// must not keep the lights from working.
	history, err := NewHistoryStore(cfg.HistoryDB, log)
	if err != nil {
		log.Warn("history store unavailable", "error", err)
	} else {
		s.history = history
	}

	// Initialize command handlers
	s.handlers = map[string]handlerFunc{
		"set-light":       s.handleSetLight,
		"supported-types": func(req Request) Response { return s.handleSupportedTypes() },
		"status":          func(req Request) Response { return s.handleStatus() },
		"history":         func(req Request) Response { return s.handleHistory(req.Limit) },
	}

	return s, nil
}

func (s *Server) Start() error {
	s.log.Info("daemon listening",
		"socket", s.cfg.SocketPath,
		"sysfs_root", s.cfg.SysfsRoot)

	// Accept connections
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			// Check if we're shutting down
			select {
			case <-s.done:
				return nil
			default:
				s.log.Error("failed to accept connection", "error", err)
				continue
			}
		}

		go s.handleConnection(conn)
	}
}

func (s *Server) Stop() error {
	close(s.done)
	if s.listener != nil {
		s.listener.Close()
	}
	if s.history != nil {
		s.history.Close()
	}
	os.Remove(s.cfg.SocketPath)
	return nil
}

func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)
	data, err := reader.ReadBytes('\n')
	if err != nil {
		return
	}

	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		s.sendResponse(conn, Response{
			Success: false,
			Error:   fmt.Sprintf("invalid request: %v", err),
		})
		return
	}

	resp := s.handleRequest(req)
	s.sendResponse(conn, resp)
}

func (s *Server) handleRequest(req Request) Response {
	handler, exists := s.handlers[req.Command]
	if !exists {
		return Response{
			Success: false,
			Error:   fmt.Sprintf("unknown command: %s", req.Command),
		}
	}
	return handler(req)
}

func (s *Server) handleSetLight(req Request) Response {
	if req.State == nil {
		return Response{Success: false, Error: "set-light requires a state"}
	}

	// Unknown names map to an invalid type so the controller reports
	// them through its single unsupported-type error path.
	t, ok := lights.ParseType(req.Light)
	if !ok {
		t = lights.Type(-1)
	}

	if err := s.lights.SetLight(t, *req.State); err != nil {
		if errors.Is(err, lights.ErrNotSupported) {
			return Response{
				Success: false,
				Error:   fmt.Sprintf("light type not supported: %s", req.Light),
			}
		}
		return Response{Success: false, Error: err.Error()}
	}

	if s.history != nil {
		s.history.Record(t.String(), req.State.Flash.String(),
			req.State.Color, req.State.OnMs, req.State.OffMs)
	}

	s.log.Debug("light updated",
		"light", t.String(),
		"color", fmt.Sprintf("%08X", req.State.Color),
		"mode", req.State.Flash.String())

	return Response{
		Success: true,
		Message: fmt.Sprintf("Set %s to %08X", t, req.State.Color),
	}
}

func (s *Server) handleSupportedTypes() Response {
	types := s.lights.SupportedTypes()
	names := make([]string, 0, len(types))
	for _, t := range types {
		names = append(names, t.String())
	}

	return Response{
		Success: true,
		Data:    names,
	}
}

func (s *Server) handleStatus() Response {
	data := map[string]interface{}{
		"pid":                  os.Getpid(),
		"uptime":               time.Since(s.started).Round(time.Second).String(),
		"socket":               s.cfg.SocketPath,
		"kernel":               kernelVersion(),
		"supported":            len(s.lights.SupportedTypes()),
		"rendered":             s.lights.Rendered(),
		"backlight_brightness": s.lights.BacklightBrightness(0),
	}

	if s.history != nil {
		if count, err := s.history.Count(); err == nil {
			data["history_count"] = count
		}
	}

	return Response{
		Success: true,
		Data:    data,
		Message: "Daemon status retrieved",
	}
}

func (s *Server) handleHistory(limit int) Response {
	if s.history == nil {
		return Response{Success: false, Error: "history store unavailable"}
	}

	events, err := s.history.Recent(limit)
	if err != nil {
		return Response{Success: false, Error: err.Error()}
	}

	return Response{
		Success: true,
		Data:    events,
		Message: fmt.Sprintf("%d event(s)", len(events)),
	}
}

func (s *Server) sendResponse(conn net.Conn, resp Response) {
	data, err := json.Marshal(resp)
	if err != nil {
		s.log.Error("failed to marshal response", "error", err)
		return
	}

	data = append(data, '\n')
	if _, err := conn.Write(data); err != nil {
		s.log.Error("failed to write response", "error", err)
	}
}

// kernelVersion reports the running kernel release for the status
// surface, or "unknown" when uname fails.
func kernelVersion() string {
	var uts unix.Utsname
	if err := unix.Uname(&uts); err != nil {
		return "unknown"
	}
	return unix.ByteSliceToString(uts.Release[:])
}
