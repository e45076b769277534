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

// Package cmd implements the CLI commands for lightsd using cobra.
package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	sd "github.com/coreos/go-systemd/v22/daemon"
	"github.com/coreos/go-systemd/v22/journal"
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
	"github.com/we-are-mono/lightsd/daemon"
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run lightsd as a daemon",
	Long:  `Starts the lightsd daemon which listens for commands on a Unix socket.`,
	Run:   runDaemon,
}

func init() {
	rootCmd.AddCommand(daemonCmd)
}

func runDaemon(cmd *cobra.Command, args []string) {
	cfg, err := daemon.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "[ERROR] %v\n", err)
		os.Exit(1)
	}

	// Check for existing daemon via PID file
	if err := checkExistingDaemon(cfg.PIDFile); err != nil {
		fmt.Fprintf(os.Stderr, "[ERROR] %v\n", err)
		os.Exit(1)
	}

	// Write our PID to file
	if err := writePIDFile(cfg.PIDFile); err != nil {
		fmt.Fprintf(os.Stderr, "[ERROR] Failed to write PID file: %v\n", err)
		os.Exit(1)
	}
	defer os.Remove(cfg.PIDFile)

	log := newDaemonLogger(cfg.LogLevel)

	server, err := daemon.NewServer(cfg, log)
	if err != nil {
		log.Error("failed to create server", "error", err)
		os.Exit(1)
	}

	// Handle shutdown gracefully
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info("shutting down...")
		sd.SdNotify(false, sd.SdNotifyStopping)
		if err := server.Stop(); err != nil {
			log.Error("failed to stop server", "error", err)
		}
		os.Remove(cfg.PIDFile)
		os.Exit(0)
	}()

	// Tell systemd we're ready once the listener exists.
	sd.SdNotify(false, sd.SdNotifyReady)

	if err := server.Start(); err != nil {
		log.Error("server failed", "error", err)
		os.Exit(1)
	}
}

// newDaemonLogger builds the daemon logger. Under systemd stderr lands
// in the journal, so plain un-timestamped output is used there; outside
// systemd the usual hclog format goes to stderr.
func newDaemonLogger(level string) hclog.Logger {
	opts := &hclog.LoggerOptions{
		Name:  "lightsd",
		Level: hclog.LevelFromString(level),
	}

	if journal.Enabled() {
		opts.DisableTime = true
		opts.Color = hclog.ColorOff
	}

	return hclog.New(opts)
}

// checkExistingDaemon checks if another daemon is already running
func checkExistingDaemon(pidFile string) error {
	data, err := os.ReadFile(pidFile)
	if err != nil {
		if os.IsNotExist(err) {
			// No PID file exists, we're good to start
			return nil
		}
		// PID file exists but can't be read - warn but allow start
		return fmt.Errorf("PID file exists but cannot be read: %w (remove %s manually if daemon is not running)", err, pidFile)
	}

	// Parse PID from file
	pidStr := strings.TrimSpace(string(data))
	pid, err := strconv.Atoi(pidStr)
	if err != nil {
		// Invalid PID in file - warn but allow start
		return fmt.Errorf("invalid PID in %s: %s (remove file manually if daemon is not running)", pidFile, pidStr)
	}

	// Check if process with this PID exists
	process, err := os.FindProcess(pid)
	if err != nil {
		// Process doesn't exist, safe to remove stale PID file
		os.Remove(pidFile)
		return nil
	}

	// Try to signal the process to see if it's actually running
	err = process.Signal(syscall.Signal(0))
	if err != nil {
		// Process doesn't exist or we can't signal it, remove stale PID file
		os.Remove(pidFile)
		return nil
	}

	// Process exists and is running
	return fmt.Errorf("daemon already running with PID %d (stop it first or remove %s if it's stale)", pid, pidFile)
}

// writePIDFile writes the current process PID to a file
func writePIDFile(pidFile string) error {
	pid := os.Getpid()
	return os.WriteFile(pidFile, []byte(fmt.Sprintf("%d\n", pid)), 0600)
}
