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
	"io"

	"github.com/spf13/cobra"
	"github.com/we-are-mono/lightsd/daemon"
	"github.com/we-are-mono/lightsd/lights"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon status",
	Long:  `Displays daemon status including the rendered RGB state and backlight level.`,
	Run:   runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) {
	if err := executeStatus(cmd.OutOrStdout(), defaultClient); err != nil {
		cmd.PrintErrln(fmt.Sprintf("[ERROR] %v", err))
		exitWithError()
	}
}

// executeStatus executes the status command with the given client.
func executeStatus(w io.Writer, client ClientInterface) error {
	resp, err := client.Send(daemon.Request{
		Command: "status",
	})

	if err != nil {
		return err
	}

	if !resp.Success {
		return fmt.Errorf("%s", resp.Error)
	}

	data, ok := resp.Data.(map[string]interface{})
	if !ok {
		return fmt.Errorf("unexpected response format")
	}

	fmt.Fprintln(w, "lightsd - Device Light Control Daemon")
	fmt.Fprintln(w, "=====================================")
	fmt.Fprintf(w, "[OK] Daemon:  Running (PID: %v)\n", data["pid"])
	fmt.Fprintf(w, "  Uptime:     %v\n", data["uptime"])
	fmt.Fprintf(w, "  Socket:     %v\n", data["socket"])
	fmt.Fprintf(w, "  Kernel:     %v\n", data["kernel"])
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Lights:       %v types supported\n", data["supported"])
	fmt.Fprintf(w, "  Backlight:  %v\n", data["backlight_brightness"])

	if rendered, ok := data["rendered"].(map[string]interface{}); ok {
		color := uint32(0)
		if c, ok := rendered["color"].(float64); ok {
			color = uint32(c)
		}
		mode := lights.FlashNone
		if m, ok := rendered["flash_mode"].(float64); ok {
			mode = lights.FlashMode(int(m))
		}
		fmt.Fprintf(w, "  RGB LED:    %08X (flash %s)\n", color, mode)
	}

	if count, ok := data["history_count"]; ok {
		fmt.Fprintf(w, "  History:    %v event(s) recorded\n", count)
	}

	return nil
}
