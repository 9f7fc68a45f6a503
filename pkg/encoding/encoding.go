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
	"math"
	"strconv"
	"strings"

	"github.com/lassandro/go704/pkg/word"
)

var (
	ErrEmptyLiteral  = errors.New("Empty literal")
	ErrDuplicateSign = errors.New("Duplicate sign")
	ErrInvalidDigit  = errors.New("Invalid digit")
)

const (
	floatCharacteristicBias = 128
	floatFractionBits       = 27
	binaryPointOrigin       = 35
)

func splitSign(s string) (bool, string, error) {
	if s == "" {
		return false, "", ErrEmptyLiteral
	}

	negative := false

	if s[0] == '+' || s[0] == '-' {
		negative = s[0] == '-'
		s = s[1:]
	}

	if s == "" {
		return false, "", missingDigits("after sign")
	}

	if s[0] == '+' || s[0] == '-' {
		return false, "", ErrDuplicateSign
	}

	return negative, s, nil
}

func invalidDigit(r rune) error {
	return fmt.Errorf("%w '%c'", ErrInvalidDigit, r)
}

// An empty literal is only one with no characters at all. A sign or scale
// marker without digits is malformed.
func missingDigits(where string) error {
	return fmt.Errorf("%w: no digits %s", ErrInvalidDigit, where)
}

// Decodes an octal literal in the formats: 17, +17, -17, 777777777777
// A twelve digit literal may set the sign bit directly. Wider literals are
// truncated to the word.
func DecodeOctal(s string) (word.Word, error) {
	negative, digits, err := splitSign(s)

	if err != nil {
		return 0, err
	}

	var result uint64

	for _, r := range digits {
		switch {
		case r == '+' || r == '-':
			return 0, ErrDuplicateSign
		case r < '0' || r > '7':
			return 0, invalidDigit(r)
		}

		result = result<<3 | uint64(r-'0')
	}

	w := word.Word(result) & word.Mask

	if negative {
		w |= word.SignBit
	}

	return w, nil
}

// Decodes a decimal literal in the formats:
//
//	12, -12       integer
//	5B17          integer with the binary point after bit 17
//	1.5, 15E-1    704 single precision floating point
//	1.5B4         fixed point fraction with the binary point after bit 4
func DecodeDecimal(s string) (word.Word, error) {
	negative, body, err := splitSign(s)

	if err != nil {
		return 0, err
	}

	mantissa, scale, scaled := strings.Cut(body, "B")
	point := 0

	if scaled {
		if point, err = decodeScale(scale); err != nil {
			return 0, err
		}
	}

	if err := checkMantissa(mantissa); err != nil {
		return 0, err
	}

	if !strings.ContainsAny(mantissa, ".E") {
		var n uint64

		for _, r := range mantissa {
			n = n*10 + uint64(r-'0')
		}

		if scaled {
			n = shiftPoint(n, point)
		}

		return word.New(negative, n), nil
	}

	v, err := strconv.ParseFloat(mantissa, 64)

	if err != nil {
		return 0, fmt.Errorf("%w in %q", ErrInvalidDigit, mantissa)
	}

	if scaled {
		n := math.Round(math.Ldexp(v, binaryPointOrigin-point))
		return word.New(negative, uint64(n)), nil
	}

	return word.New(negative, EncodeFloat(v)), nil
}

// EncodeFloat packs a non-negative value into the 35-bit magnitude of a 704
// floating point word: an excess-128 characteristic in bits 27-34 over a
// normalized 27-bit fraction.
func EncodeFloat(v float64) uint64 {
	if v == 0 {
		return 0
	}

	fraction, exp := math.Frexp(math.Abs(v))
	mantissa := uint64(math.Round(math.Ldexp(fraction, floatFractionBits)))

	if mantissa == 1<<floatFractionBits {
		mantissa >>= 1
		exp++
	}

	characteristic := exp + floatCharacteristicBias

	if characteristic < 0 {
		return 0
	}

	return uint64(characteristic&0xFF)<<floatFractionBits | mantissa
}

func DecodeFloat(magnitude uint64) float64 {
	fraction := magnitude & ((1 << floatFractionBits) - 1)
	characteristic := int(magnitude>>floatFractionBits) & 0xFF

	return math.Ldexp(
		float64(fraction), characteristic-floatCharacteristicBias-floatFractionBits,
	)
}

func checkMantissa(s string) error {
	if s == "" {
		return missingDigits("before scale")
	}

	seenPoint := false
	seenExp := false

	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r == '.' && !seenPoint && !seenExp:
			seenPoint = true
		case r == 'E' && !seenExp:
			seenExp = true
		case (r == '+' || r == '-') && i > 0 && s[i-1] == 'E':
		case (r == '+' || r == '-') && i == 0:
			return ErrDuplicateSign
		default:
			return invalidDigit(r)
		}
	}

	return nil
}

func decodeScale(s string) (int, error) {
	negative := false

	if s != "" && (s[0] == '+' || s[0] == '-') {
		negative = s[0] == '-'
		s = s[1:]
	}

	if s == "" {
		return 0, missingDigits("in binary scale")
	}

	n := 0

	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, invalidDigit(r)
		}

		n = n*10 + int(r-'0')
	}

	if negative {
		n = -n
	}

	return n, nil
}

func shiftPoint(n uint64, point int) uint64 {
	shift := binaryPointOrigin - point

	switch {
	case shift >= 64 || shift <= -64:
		return 0
	case shift >= 0:
		return n << uint(shift)
	default:
		return n >> uint(-shift)
	}
}
