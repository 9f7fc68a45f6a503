// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"os"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

const defaultWidth = 80

// termWidth reports the column count of the terminal on stdout, or
// defaultWidth when stdout is not a terminal.
func termWidth() int {
	fd := int(os.Stdout.Fd())

	if !term.IsTerminal(fd) {
		return defaultWidth
	}

	size, err := unix.IoctlGetWinsize(fd, unix.TIOCGWINSZ)

	if err != nil || size.Col == 0 {
		return defaultWidth
	}

	return int(size.Col)
}

func clip(line string, width int) string {
	if width > 0 && len(line) > width {
		return line[:width]
	}

	return line
}
