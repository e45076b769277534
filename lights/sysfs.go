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
	"strconv"
	"strings"
)

// SysfsRoot is the default base path for the LED class devices.
const SysfsRoot = "/sys/class/leds"

// writeFile writes a sysfs control file for the given LED. Failures are
// logged and swallowed: indicator hardware is best effort and a missing
// control file must never fail the caller.
func (c *Controller) writeFile(led, file, value string) {
	path := filepath.Join(c.root, led, file)
	if err := os.WriteFile(path, []byte(value), 0644); err != nil {
		c.log.Debug("sysfs write failed",
			"path", path, "value", value, "error", err)
	}
}

// writeInt writes an integer control value.
func (c *Controller) writeInt(led, file string, value int) {
	c.writeFile(led, file, strconv.Itoa(value))
}

// readInt reads an integer control file, returning def when the file
// cannot be read or does not parse.
func (c *Controller) readInt(led, file string, def int) int {
	path := filepath.Join(c.root, led, file)
	data, err := os.ReadFile(path)
	if err != nil {
		c.log.Debug("sysfs read failed", "path", path, "error", err)
		return def
	}
	value, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		c.log.Debug("sysfs value not an integer", "path", path, "error", err)
		return def
	}
	return value
}
