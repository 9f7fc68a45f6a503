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

package assembler

import (
	"strings"
	"unicode"
)

type Line struct {
	Number    int
	Text      string
	Location  string
	Operation string
	Field     string

	LocationColumn  int
	OperationColumn int
	FieldColumn     int

	Remark bool
	Blank  bool
}

func column(text string, start int, end int) string {
	if start >= len(text) {
		return ""
	}

	if end > len(text) {
		end = len(text)
	}

	return text[start:end]
}

// SplitLine frames a source card. Cards follow the fixed-column layout:
//
//	1-6 location, 8-11 operation, 12-72 operand and comment
//
// A '*' in column 1 makes the whole card a remark. Lines containing a TAB
// are framed as location, operation and field separated by TABs instead.
func SplitLine(number int, text string) Line {
	text = strings.TrimRight(text, "\r\n")

	line := Line{
		Number:          number,
		Text:            text,
		LocationColumn:  COLUMN_LOCATION + 1,
		OperationColumn: COLUMN_OPERATION + 1,
		FieldColumn:     COLUMN_FIELD + 1,
	}

	if strings.TrimSpace(text) == "" {
		line.Blank = true
		return line
	}

	if text[0] == '*' {
		line.Remark = true
		line.Field = text[1:]
		line.FieldColumn = 2
		return line
	}

	if strings.ContainsRune(text, '\t') {
		parts := strings.SplitN(text, "\t", 3)

		line.Location = strings.TrimSpace(parts[0])

		if len(parts) > 1 {
			line.Operation = strings.TrimSpace(parts[1])
			line.OperationColumn = len(parts[0]) + 2
		}

		if len(parts) > 2 {
			line.Field = parts[2]
			line.FieldColumn = len(parts[0]) + len(parts[1]) + 3
		}

		return line
	}

	line.Location = strings.TrimSpace(
		column(text, COLUMN_LOCATION, COLUMN_LOCATION_END),
	)
	line.Operation = strings.TrimSpace(
		column(text, COLUMN_OPERATION, COLUMN_OPERATION_END),
	)
	line.Field = strings.TrimRightFunc(
		column(text, COLUMN_FIELD, COLUMN_FIELD_END), unicode.IsSpace,
	)

	return line
}

// SplitComment divides an operand-and-comment field at the first run of
// whitespace. A field that begins with a blank has an empty operand.
func SplitComment(field string) (operand string, comment string) {
	i := strings.IndexFunc(field, unicode.IsSpace)

	if i == -1 {
		return field, ""
	}

	return field[:i], strings.TrimSpace(field[i:])
}
