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

// Package opcode is the static instruction table: mnemonic to template word,
// and template word back to mnemonic.
package opcode

import (
	"sort"
	"strings"

	"github.com/lassandro/go704/pkg/word"
)

type Spec struct {
	Mnemonic    string
	Template    word.Word
	Description string

	// Constant marks the prefix pseudo-operations (PZE, MON, ...) that only
	// set the sign and prefix bits and carry data rather than an order.
	Constant bool
}

// HasDecrement reports whether the decrement field is an operand: true for
// prefix (type A) instructions and constants, false when the opcode extends
// into it.
func (spec Spec) HasDecrement() bool {
	if spec.Constant {
		return true
	}

	return spec.Template.Field(word.OpcodeShift, word.PrefixShift-word.OpcodeShift) == 0 &&
		spec.Template.Field(word.PrefixShift, word.PrefixBits) != 0
}

var (
	byMnemonic = make(map[string]Spec, len(table))
	byWord     []Spec

	// Sense orders share their template with an operate order and take the
	// address as an operand. The entry listed last for a template wins.
	bySense = make(map[word.Word]Spec)
)

func init() {
	preferred := make(map[word.Word]int)

	for _, spec := range table {
		if _, exists := byMnemonic[spec.Mnemonic]; exists {
			panic("opcode: duplicate mnemonic " + spec.Mnemonic)
		}

		byMnemonic[spec.Mnemonic] = spec

		if !spec.Constant && spec.Template.Address() == 0 {
			bySense[spec.Template] = spec
		}

		if i, exists := preferred[spec.Template]; exists {
			if byWord[i].Constant && !spec.Constant {
				byWord[i] = spec
			}

			continue
		}

		preferred[spec.Template] = len(byWord)
		byWord = append(byWord, spec)
	}

	sort.SliceStable(byWord, func(i, j int) bool {
		return byWord[i].Template > byWord[j].Template
	})
}

func ByMnemonic(mnemonic string) (Spec, bool) {
	spec, ok := byMnemonic[strings.ToUpper(mnemonic)]
	return spec, ok
}

// ByWord returns the entry with the largest template not exceeding w, with
// the sign bit ordering negative opcodes above positive ones. Instructions
// win over constants sharing a template, and the first listed instruction
// wins over later ones.
func ByWord(w word.Word) (Spec, bool) {
	w &= word.Mask

	i := sort.Search(len(byWord), func(i int) bool {
		return byWord[i].Template <= w
	})

	if i == len(byWord) {
		return Spec{}, false
	}

	spec := byWord[i]

	// An operate word whose address selects no variant is a sense order.
	if fixed := spec.Template.Address(); fixed != 0 && w.Address() != fixed {
		if sense, ok := bySense[spec.Template&^word.Word(word.AddressMask)]; ok {
			return sense, true
		}
	}

	return spec, true
}

func All() []Spec {
	result := make([]Spec, len(table))
	copy(result, table)
	return result
}
