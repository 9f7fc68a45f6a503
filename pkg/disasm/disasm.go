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

// Package disasm turns 704 words back into symbolic instructions using the
// nearest template in the opcode table.
package disasm

import (
	"fmt"
	"strings"

	"github.com/lassandro/go704/pkg/encoding"
	"github.com/lassandro/go704/pkg/opcode"
	"github.com/lassandro/go704/pkg/word"
)

type Instruction struct {
	Word      word.Word
	Mnemonic  string
	Address   word.Address
	Tag       uint64
	Decrement uint64
	Constant  bool

	// Known is false when no template lies at or below the word.
	Known bool
}

func Decode(w word.Word) Instruction {
	w &= word.Mask

	spec, ok := opcode.ByWord(w)

	if !ok {
		return Instruction{Word: w}
	}

	residual := w - spec.Template

	return Instruction{
		Word:      w,
		Mnemonic:  spec.Mnemonic,
		Address:   residual.Address(),
		Tag:       residual.Tag(),
		Decrement: residual.Decrement(),
		Constant:  spec.Constant,
		Known:     true,
	}
}

// String renders the instruction as an assembler card operand would read,
// with the fields in octal and trailing zero fields omitted.
func (inst Instruction) String() string {
	if !inst.Known {
		return "OCT " + inst.Word.String()
	}

	fields := []string{fmt.Sprintf("%o", uint16(inst.Address))}

	if inst.Tag != 0 || inst.Decrement != 0 {
		fields = append(fields, fmt.Sprintf("%o", inst.Tag))
	}

	if inst.Decrement != 0 {
		fields = append(fields, fmt.Sprintf("%o", inst.Decrement))
	}

	return fmt.Sprintf("%-4s %s", inst.Mnemonic, strings.Join(fields, ","))
}

// Line formats one word of a core dump: location, octal word, the decoded
// instruction and the word read as six BCD characters.
func Line(at word.Address, w word.Word) string {
	return fmt.Sprintf(
		"%s  %s  %-20s  %s",
		at,
		w.Signed(),
		Decode(w),
		printable(encoding.UnpackBCD(w)),
	)
}

func printable(s string) string {
	return strings.Map(func(r rune) rune {
		if r < ' ' || r > '~' {
			return '.'
		}

		return r
	}, s)
}
