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

const (
	OP_INSTRUCTION OpKind = iota
	OP_ABS
	OP_BCD
	OP_BES
	OP_BSS
	OP_DEC
	OP_DEF
	OP_END
	OP_EQU
	OP_FUL
	OP_HED
	OP_LIB
	OP_OCT
	OP_ORG
	OP_REM
	OP_REP
	OP_SYN
)

const (
	STATE_CONSTRUCTED OpState = iota
	STATE_PARSED
	STATE_VALIDATED
	STATE_ALLOCATED
	STATE_ASSEMBLED
)

const (
	SEVERITY_WARNING Severity = iota
	SEVERITY_ERROR
)

const (
	FORMAT_ABSOLUTE Format = iota
	FORMAT_FULL
	FORMAT_ABSOLUTE_TRANSFER
)

// Card columns, zero based and end exclusive. Column 7 separates the
// location from the operation and is not read.
const (
	COLUMN_LOCATION      = 0
	COLUMN_LOCATION_END  = 6
	COLUMN_OPERATION     = 7
	COLUMN_OPERATION_END = 11
	COLUMN_FIELD         = 11
	COLUMN_FIELD_END     = 72
)

const (
	BIND_NONE binding = iota
	BIND_START
	BIND_END
)

const (
	BCD_DEFAULT_COUNT = 10
	BCD_GROUP         = 6
)
