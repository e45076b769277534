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
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/we-are-mono/lightsd/daemon"
	"github.com/we-are-mono/lightsd/lights"
)

var (
	setFlash string
	setOnMs  int
	setOffMs int
)

var setCmd = &cobra.Command{
	Use:   "set [light] [color]",
	Short: "Set a light to a color",
	Long: `Sets a device light to an ARGB color, given in hex. The alpha byte is
ignored. Timed flashing takes the on/off phase lengths in milliseconds.

Examples:
  lightsd set backlight FFFFFFFF
  lightsd set buttons 80808080
  lightsd set notifications FF00FF00 --flash timed --on 160 --off 840
  lightsd set attention 00000000`,
	Args: cobra.ExactArgs(2),
	Run:  runSet,
}

func init() {
	rootCmd.AddCommand(setCmd)
	setCmd.Flags().StringVar(&setFlash, "flash", "none", "Flash mode: none, timed or hardware")
	setCmd.Flags().IntVar(&setOnMs, "on", 0, "Flash on phase in milliseconds (timed mode)")
	setCmd.Flags().IntVar(&setOffMs, "off", 0, "Flash off phase in milliseconds (timed mode)")
}

func runSet(cmd *cobra.Command, args []string) {
	if err := executeSet(cmd.OutOrStdout(), defaultClient, args, setFlash, setOnMs, setOffMs); err != nil {
		cmd.PrintErrln(fmt.Sprintf("[ERROR] %v", err))
		exitWithError()
	}
}

// parseColor parses an ARGB color in hex, with or without a leading
// "#" or "0x".
func parseColor(s string) (uint32, error) {
	trimmed := strings.TrimPrefix(strings.TrimPrefix(s, "#"), "0x")
	value, err := strconv.ParseUint(trimmed, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid color %q: expected hex ARGB like FF00FF00", s)
	}
	return uint32(value), nil
}

// executeSet executes the set command with the given client and arguments.
func executeSet(w io.Writer, client ClientInterface, args []string, flash string, onMs, offMs int) error {
	mode, ok := lights.ParseFlashMode(flash)
	if !ok {
		return fmt.Errorf("invalid flash mode %q: expected none, timed or hardware", flash)
	}

	color, err := parseColor(args[1])
	if err != nil {
		return err
	}

	state := lights.State{
		Color: color,
		Flash: mode,
		OnMs:  onMs,
		OffMs: offMs,
	}

	resp, err := client.Send(daemon.Request{
		Command: "set-light",
		Light:   args[0],
		State:   &state,
	})

	if err != nil {
		return err
	}

	if !resp.Success {
		return fmt.Errorf("%s", resp.Error)
	}

	fmt.Fprintln(w, resp.Message)
	return nil
}
