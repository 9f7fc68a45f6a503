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
	"fmt"
)

const (
	AddressSpace = 1 << AddressBits
	AddressMask  = AddressSpace - 1
)

// Address is a core location. Values are kept reduced modulo AddressSpace,
// except for the exclusive upper bound of a segment ending at the top of
// core, which may equal AddressSpace.
type Address uint16

func (a Address) Add(delta int64) Address {
	return TruncateAddress(int64(a) + delta)
}

func (a Address) String() string {
	return fmt.Sprintf("%05o", uint16(a))
}

// Truncate keeps the low bits of v's two's-complement representation.
func Truncate(v int64, bits uint) uint64 {
	return uint64(v) & ((1 << bits) - 1)
}

func TruncateAddress(v int64) Address {
	return Address(Truncate(v, AddressBits))
}
