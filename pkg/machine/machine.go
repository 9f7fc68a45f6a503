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

// Package machine holds a 704 core image built from assembled segments.
package machine

import (
	"errors"
	"fmt"
	"io"

	"github.com/lassandro/go704/pkg/assembler"
	"github.com/lassandro/go704/pkg/binfile"
	"github.com/lassandro/go704/pkg/word"
)

var ErrTransferLength = errors.New("Transfer segment must hold one word")

func (state *CoreState) Reset() {
	for i := range state.Memory {
		state.Memory[i] = 0
		state.Loaded[i] = false
	}

	state.Transfer = 0
	state.HasTransfer = false
}

// Load places segments into core. A transfer segment sets the start
// address from its single word instead of occupying memory.
func (core *Core) Load(segments []assembler.Segment) error {
	for _, segment := range segments {
		if segment.Format == assembler.FORMAT_ABSOLUTE_TRANSFER {
			if len(segment.Words) != 1 {
				return fmt.Errorf("%w: have %d", ErrTransferLength, len(segment.Words))
			}

			core.State.Transfer = segment.Words[0].Address()
			core.State.HasTransfer = true
			continue
		}

		for i, value := range segment.Words {
			core.Write(segment.First.Add(int64(i)), value)
		}
	}

	return nil
}

func (core *Core) LoadBin(reader io.Reader) error {
	core.State.Reset()

	segments, err := binfile.NewReader(reader).ReadAll()

	if err != nil {
		return err
	}

	return core.Load(segments)
}

func (core *Core) Read(addr word.Address) word.Word {
	return core.State.Memory[addr&word.AddressMask]
}

func (core *Core) Write(addr word.Address, value word.Word) {
	addr &= word.AddressMask

	core.State.Memory[addr] = value & word.Mask
	core.State.Loaded[addr] = true
}

// Regions lists the loaded runs of core in address order.
func (core *Core) Regions() []Region {
	var result []Region

	for addr := 0; addr < word.AddressSpace; addr++ {
		if !core.State.Loaded[addr] {
			continue
		}

		if n := len(result); n > 0 && result[n-1].Last == addr {
			result[n-1].Last++
		} else {
			result = append(result, Region{word.Address(addr), addr + 1})
		}
	}

	return result
}
