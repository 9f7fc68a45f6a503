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

// Package word models the 704 storage word: a sign bit followed by a 35-bit
// magnitude, along with the instruction fields carved out of it.
package word

import (
	"fmt"
)

// Word layout, bit 0 being the least significant:
//
//	|S|P P|DECREMENT (15)         |TAG|ADDRESS (15)             |
//	 35 34 33                   18 17 15 14                      0
//
// Type B instructions keep their opcode in bits 24-35.
const (
	Bits = 36

	SignBit       Word = 1 << 35
	MagnitudeMask Word = SignBit - 1
	Mask          Word = (1 << Bits) - 1

	AddressShift   = 0
	AddressBits    = 15
	TagShift       = 15
	TagBits        = 3
	DecrementShift = 18
	DecrementBits  = 15
	PrefixShift    = 33
	PrefixBits     = 2
	OpcodeShift    = 24
	OpcodeBits     = 11
)

type Word uint64

func New(negative bool, magnitude uint64) Word {
	w := Word(magnitude) & MagnitudeMask

	if negative {
		w |= SignBit
	}

	return w
}

// FromInt converts a signed integer to sign-magnitude form. Magnitudes wider
// than 35 bits are truncated.
func FromInt(v int64) Word {
	if v < 0 {
		return New(true, uint64(-v))
	}

	return New(false, uint64(v))
}

func (w Word) Negative() bool {
	return w&SignBit != 0
}

func (w Word) Magnitude() uint64 {
	return uint64(w & MagnitudeMask)
}

func (w Word) Int() int64 {
	if w.Negative() {
		return -int64(w.Magnitude())
	}

	return int64(w.Magnitude())
}

func (w Word) Neg() Word {
	return (w ^ SignBit) & Mask
}

func (w Word) Add(v Word) Word {
	neg, mag := addSignMagnitude(
		w.Negative(), w.Magnitude(), v.Negative(), v.Magnitude(),
	)

	return New(neg, mag)
}

func (w Word) Sub(v Word) Word {
	return w.Add(v.Neg())
}

// Mul keeps the low 35 bits of the product magnitude. MulDouble retains the
// full product.
func (w Word) Mul(v Word) Word {
	return New(w.Negative() != v.Negative(), w.Magnitude()*v.Magnitude())
}

func (w Word) Field(shift, width uint) uint64 {
	return (uint64(w) >> shift) & ((1 << width) - 1)
}

func (w Word) SetField(shift, width uint, value uint64) Word {
	mask := Word((1<<width)-1) << shift
	return (w &^ mask) | ((Word(value) << shift) & mask)
}

func (w Word) Address() Address {
	return Address(w.Field(AddressShift, AddressBits))
}

func (w Word) Tag() uint64 {
	return w.Field(TagShift, TagBits)
}

func (w Word) Decrement() uint64 {
	return w.Field(DecrementShift, DecrementBits)
}

// Prefix returns the sign and the two prefix bits as a 3-bit value with the
// sign in the high position.
func (w Word) Prefix() uint64 {
	return w.Field(PrefixShift, PrefixBits+1)
}

// Opcode returns the sign and the 11 opcode bits of a type B instruction.
func (w Word) Opcode() uint64 {
	return w.Field(OpcodeShift, OpcodeBits+1)
}

func (w Word) WithAddress(a Address) Word {
	return w.SetField(AddressShift, AddressBits, uint64(a))
}

func (w Word) WithTag(tag uint64) Word {
	return w.SetField(TagShift, TagBits, tag)
}

func (w Word) WithDecrement(d uint64) Word {
	return w.SetField(DecrementShift, DecrementBits, d)
}

// String renders the word as twelve octal digits, sign bit included.
func (w Word) String() string {
	return fmt.Sprintf("%012o", uint64(w&Mask))
}

// Signed renders the word the way 704 listings print constants: sign
// followed by the octal magnitude.
func (w Word) Signed() string {
	if w.Negative() {
		return fmt.Sprintf("-%012o", w.Magnitude())
	}

	return fmt.Sprintf("+%012o", w.Magnitude())
}

func addSignMagnitude(an bool, a uint64, bn bool, b uint64) (bool, uint64) {
	if an == bn {
		return an, a + b
	}

	if a >= b {
		return an, a - b
	}

	return bn, b - a
}
