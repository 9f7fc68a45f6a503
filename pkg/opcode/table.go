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

package opcode

import (
	"github.com/lassandro/go704/pkg/word"
)

// Type A orders: sign and prefix bits only, decrement is an operand.
func prefix(p int) word.Word {
	if p < 0 {
		return word.SignBit | word.Word(-p)<<word.PrefixShift
	}

	return word.Word(p) << word.PrefixShift
}

// Type B orders: signed four-digit octal opcode, optionally with a fixed
// address that selects a variant of the same opcode.
func order(op int, address word.Address) word.Word {
	if op < 0 {
		return word.SignBit | word.Word(-op)<<word.OpcodeShift | word.Word(address)
	}

	return word.Word(op)<<word.OpcodeShift | word.Word(address)
}

var table = []Spec{
	// Prefix constants
	{"PZE", prefix(0), "Plus zero", true},
	{"PON", prefix(1), "Plus one", true},
	{"PTW", prefix(2), "Plus two", true},
	{"PTH", prefix(3), "Plus three", true},
	{"MZE", word.SignBit, "Minus zero", true},
	{"MON", prefix(-1), "Minus one", true},
	{"MTW", prefix(-2), "Minus two", true},
	{"MTH", prefix(-3), "Minus three", true},

	// Index transfers
	{"TXI", prefix(1), "Transfer with index incremented", false},
	{"TIX", prefix(2), "Transfer on index", false},
	{"TXH", prefix(3), "Transfer on index high", false},
	{"TNX", prefix(-2), "Transfer on no index", false},
	{"TXL", prefix(-3), "Transfer on index low or equal", false},

	// Control
	{"HTR", order(0o0000, 0), "Halt and transfer", false},
	{"TRA", order(0o0020, 0), "Transfer", false},
	{"TTR", order(0o0021, 0), "Trap transfer", false},
	{"TLQ", order(0o0040, 0), "Transfer on low MQ", false},
	{"TSX", order(0o0074, 0), "Transfer and set index", false},
	{"TZE", order(0o0100, 0), "Transfer on zero", false},
	{"TNZ", order(-0o0100, 0), "Transfer on no zero", false},
	{"TPL", order(0o0120, 0), "Transfer on plus", false},
	{"TMI", order(-0o0120, 0), "Transfer on minus", false},
	{"XCA", order(0o0131, 0), "Exchange AC and MQ", false},
	{"TOV", order(0o0140, 0), "Transfer on overflow", false},
	{"TNO", order(-0o0140, 0), "Transfer on no overflow", false},
	{"TQO", order(0o0161, 0), "Transfer on MQ overflow", false},
	{"TQP", order(0o0162, 0), "Transfer on MQ plus", false},
	{"HPR", order(0o0420, 0), "Halt and proceed", false},
	{"NOP", order(0o0761, 0), "No operation", false},

	// Fixed point arithmetic
	{"MPY", order(0o0200, 0), "Multiply", false},
	{"MPR", order(-0o0200, 0), "Multiply and round", false},
	{"DVH", order(0o0220, 0), "Divide or halt", false},
	{"DVP", order(0o0221, 0), "Divide or proceed", false},
	{"ADD", order(0o0400, 0), "Add", false},
	{"ADM", order(0o0401, 0), "Add magnitude", false},
	{"SUB", order(0o0402, 0), "Subtract", false},
	{"SBM", order(-0o0400, 0), "Subtract magnitude", false},
	{"ACL", order(0o0361, 0), "Add and carry logical word", false},
	{"CAS", order(0o0340, 0), "Compare AC with storage", false},
	{"LAS", order(-0o0340, 0), "Logical compare AC with storage", false},

	// Floating point
	{"FDH", order(0o0240, 0), "Floating divide or halt", false},
	{"FDP", order(0o0241, 0), "Floating divide or proceed", false},
	{"FMP", order(0o0260, 0), "Floating multiply", false},
	{"FAD", order(0o0300, 0), "Floating add", false},
	{"UFA", order(-0o0300, 0), "Unnormalized floating add", false},
	{"FSB", order(0o0302, 0), "Floating subtract", false},
	{"UFS", order(-0o0302, 0), "Unnormalized floating subtract", false},
	{"FAM", order(0o0304, 0), "Floating add magnitude", false},
	{"UAM", order(-0o0304, 0), "Unnormalized add magnitude", false},
	{"FSM", order(0o0306, 0), "Floating subtract magnitude", false},
	{"USM", order(-0o0306, 0), "Unnormalized subtract magnitude", false},

	// Logical
	{"ANS", order(0o0320, 0), "AND to storage", false},
	{"ANA", order(-0o0320, 0), "AND to accumulator", false},
	{"ERA", order(0o0322, 0), "Exclusive OR to accumulator", false},
	{"ORA", order(-0o0501, 0), "OR to accumulator", false},
	{"ORS", order(-0o0602, 0), "OR to storage", false},

	// Load and store
	{"CLA", order(0o0500, 0), "Clear and add", false},
	{"CAL", order(-0o0500, 0), "Clear and add logical word", false},
	{"CLS", order(0o0502, 0), "Clear and subtract", false},
	{"LDQ", order(0o0560, 0), "Load MQ", false},
	{"STZ", order(0o0600, 0), "Store zero", false},
	{"STQ", order(-0o0600, 0), "Store MQ", false},
	{"STO", order(0o0601, 0), "Store", false},
	{"SLW", order(0o0602, 0), "Store logical word", false},
	{"SLQ", order(-0o0620, 0), "Store left half MQ", false},
	{"STA", order(0o0621, 0), "Store address", false},
	{"STD", order(0o0622, 0), "Store decrement", false},
	{"STP", order(0o0630, 0), "Store prefix", false},

	// Index registers
	{"LXA", order(0o0534, 0), "Load index from address", false},
	{"LXD", order(-0o0534, 0), "Load index from decrement", false},
	{"SXD", order(-0o0634, 0), "Store index in decrement", false},
	{"PAX", order(0o0734, 0), "Place address in index", false},
	{"PDX", order(-0o0734, 0), "Place decrement in index", false},
	{"PXD", order(-0o0754, 0), "Place index in decrement", false},

	// Shifts
	{"LLS", order(0o0763, 0), "Long left shift", false},
	{"LGL", order(-0o0763, 0), "Logical left shift", false},
	{"LRS", order(0o0765, 0), "Long right shift", false},
	{"ALS", order(0o0767, 0), "Accumulator left shift", false},
	{"ARS", order(0o0771, 0), "Accumulator right shift", false},
	{"RQL", order(-0o0773, 0), "Rotate MQ left", false},

	// Input and output
	{"CPY", order(0o0700, 0), "Copy and skip", false},
	{"CAD", order(-0o0700, 0), "Copy add and skip", false},
	{"RDS", order(0o0762, 0), "Read select", false},
	{"BSR", order(0o0764, 0), "Backspace record", false},
	{"BSF", order(-0o0764, 0), "Backspace file", false},
	{"WRS", order(0o0766, 0), "Write select", false},
	{"WEF", order(0o0770, 0), "Write end of file", false},
	{"REW", order(0o0772, 0), "Rewind", false},

	// Operate group, the address selects the operation
	{"CLM", order(0o0760, 0o0000), "Clear magnitude", false},
	{"LBT", order(0o0760, 0o0001), "Low order bit test", false},
	{"CHS", order(0o0760, 0o0002), "Change sign", false},
	{"SSP", order(0o0760, 0o0003), "Set sign plus", false},
	{"ENK", order(0o0760, 0o0004), "Enter keys", false},
	{"IOT", order(0o0760, 0o0005), "Input-output check test", false},
	{"COM", order(0o0760, 0o0006), "Complement magnitude", false},
	{"RND", order(0o0760, 0o0010), "Round", false},
	{"DCT", order(0o0760, 0o0012), "Divide check test", false},
	{"PSE", order(0o0760, 0o0000), "Plus sense", false},
	{"PBT", order(-0o0760, 0o0001), "P bit test", false},
	{"SSM", order(-0o0760, 0o0003), "Set sign minus", false},
	{"MSE", order(-0o0760, 0o0000), "Minus sense", false},
}
