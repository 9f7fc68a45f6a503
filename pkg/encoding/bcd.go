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

package encoding

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lassandro/go704/pkg/word"
)

const (
	BCDBits      = 6
	BCDPerWord   = word.Bits / BCDBits
	BCDBlank     = 0o60
	BCDUndefined = '?'
)

var ErrInvalidCharacter = errors.New("Character has no BCD code")

var bcdCodes = map[rune]uint64{
	'0': 0o00, '1': 0o01, '2': 0o02, '3': 0o03, '4': 0o04,
	'5': 0o05, '6': 0o06, '7': 0o07, '8': 0o10, '9': 0o11,
	'=': 0o13, '#': 0o13, '\'': 0o14, '@': 0o14,
	'+': 0o20, '&': 0o20,
	'A': 0o21, 'B': 0o22, 'C': 0o23, 'D': 0o24, 'E': 0o25,
	'F': 0o26, 'G': 0o27, 'H': 0o30, 'I': 0o31,
	'.': 0o33, ')': 0o34,
	'-': 0o40,
	'J': 0o41, 'K': 0o42, 'L': 0o43, 'M': 0o44, 'N': 0o45,
	'O': 0o46, 'P': 0o47, 'Q': 0o50, 'R': 0o51,
	'$': 0o53, '*': 0o54,
	' ': 0o60, '/': 0o61,
	'S': 0o62, 'T': 0o63, 'U': 0o64, 'V': 0o65, 'W': 0o66,
	'X': 0o67, 'Y': 0o70, 'Z': 0o71,
	',': 0o73, '(': 0o74, '%': 0o74,
}

var bcdChars [1 << BCDBits]rune

func init() {
	for i := range bcdChars {
		bcdChars[i] = BCDUndefined
	}

	// Aliases are listed after their primary character so the primary wins.
	for _, r := range "0123456789=')+ABCDEFGHI.-JKLMNOPQR$* /STUVWXYZ,(" {
		bcdChars[bcdCodes[r]] = r
	}
}

func EncodeBCD(r rune) (uint64, bool) {
	code, ok := bcdCodes[r]

	if !ok && r >= 'a' && r <= 'z' {
		code, ok = bcdCodes[r-'a'+'A']
	}

	return code, ok
}

func DecodeBCD(code uint64) rune {
	return bcdChars[code&((1<<BCDBits)-1)]
}

// PackBCD packs up to six characters into a word, left justified and padded
// with blanks. Characters without a code are packed as blanks and reported.
func PackBCD(s string) (word.Word, error) {
	var result uint64
	var err error

	runes := []rune(s)

	if len(runes) > BCDPerWord {
		runes = runes[:BCDPerWord]
	}

	for i := 0; i < BCDPerWord; i++ {
		code := uint64(BCDBlank)

		if i < len(runes) {
			if c, ok := EncodeBCD(runes[i]); ok {
				code = c
			} else if err == nil {
				err = fmt.Errorf("%w '%c'", ErrInvalidCharacter, runes[i])
			}
		}

		result = result<<BCDBits | code
	}

	return word.Word(result), err
}

func UnpackBCD(w word.Word) string {
	var builder strings.Builder

	for i := BCDPerWord - 1; i >= 0; i-- {
		builder.WriteRune(DecodeBCD(uint64(w) >> (uint(i) * BCDBits)))
	}

	return builder.String()
}
