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

package word

import (
	"math/bits"
)

const (
	AccumulatorBits = 37
	DoubleBits      = 73

	accumulatorMagnitude = (1 << (AccumulatorBits - 1)) - 1
	storedBits           = Bits - 1
)

// Accumulator is the 37-bit AC register: sign, overflow bit P and the 35
// bits that are stored back into a Word.
type Accumulator struct {
	Negative  bool
	Magnitude uint64
}

func AccumulatorFrom(w Word) Accumulator {
	return Accumulator{w.Negative(), w.Magnitude()}
}

// Add returns the sign-magnitude sum. Carries out of P are lost.
func (ac Accumulator) Add(w Word) Accumulator {
	neg, mag := addSignMagnitude(
		ac.Negative, ac.Magnitude, w.Negative(), w.Magnitude(),
	)

	return Accumulator{neg, mag & accumulatorMagnitude}
}

func (ac Accumulator) Overflow() bool {
	return ac.Magnitude>>storedBits != 0
}

func (ac Accumulator) Word() Word {
	return New(ac.Negative, ac.Magnitude)
}

// Double is the 73-bit AC:MQ pair produced by multiplication: one sign and a
// magnitude kept as the AC and MQ halves.
type Double struct {
	Negative bool
	High     uint64
	Low      uint64
}

// MulDouble forms the full 70-bit product the way MPY leaves it: the high 35
// bits in AC, the low 35 bits in MQ, both carrying the product sign.
func (w Word) MulDouble(v Word) Double {
	hi, lo := bits.Mul64(w.Magnitude(), v.Magnitude())

	return Double{
		Negative: w.Negative() != v.Negative(),
		High:     (hi<<(64-storedBits) | lo>>storedBits) & uint64(MagnitudeMask),
		Low:      lo & uint64(MagnitudeMask),
	}
}

func (d Double) AC() Word {
	return New(d.Negative, d.High)
}

func (d Double) MQ() Word {
	return New(d.Negative, d.Low)
}
