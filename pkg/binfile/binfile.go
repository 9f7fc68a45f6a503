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

// Package binfile stores assembled segments. Each record is a format byte,
// the first and exclusive last address as big-endian 16-bit values, and
// then one big-endian 64-bit value per word.
package binfile

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/lassandro/go704/pkg/assembler"
	"github.com/lassandro/go704/pkg/word"
)

var ErrCorrupt = errors.New("Corrupt segment record")

type header struct {
	Format uint8
	First  uint16
	Last   uint16
}

type Writer struct {
	output *bufio.Writer
}

func NewWriter(output io.Writer) *Writer {
	return &Writer{bufio.NewWriter(output)}
}

func (w *Writer) WriteSegment(format assembler.Format, first, last word.Address, words []word.Word) error {
	if int(last)-int(first) != len(words) {
		return fmt.Errorf(
			"%w: [%s, %s) holds %d words", ErrCorrupt, first, last, len(words),
		)
	}

	err := binary.Write(w.output, binary.BigEndian, header{
		uint8(format), uint16(first), uint16(last),
	})

	if err != nil {
		return err
	}

	for _, value := range words {
		if err := binary.Write(w.output, binary.BigEndian, uint64(value&word.Mask)); err != nil {
			return err
		}
	}

	return nil
}

func (w *Writer) Flush() error {
	return w.output.Flush()
}

type Reader struct {
	input *bufio.Reader
}

func NewReader(input io.Reader) *Reader {
	return &Reader{bufio.NewReader(input)}
}

// ReadSegment returns the next record, or io.EOF once the input is
// exhausted between records.
func (r *Reader) ReadSegment() (assembler.Segment, error) {
	var hdr header

	if err := binary.Read(r.input, binary.BigEndian, &hdr); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return assembler.Segment{}, ErrCorrupt
		}

		return assembler.Segment{}, err
	}

	if hdr.Last < hdr.First || hdr.Last > word.AddressSpace ||
		hdr.Format > uint8(assembler.FORMAT_ABSOLUTE_TRANSFER) {
		return assembler.Segment{}, fmt.Errorf(
			"%w: header %+v", ErrCorrupt, hdr,
		)
	}

	words := make([]uint64, hdr.Last-hdr.First)

	if err := binary.Read(r.input, binary.BigEndian, words); err != nil {
		return assembler.Segment{}, fmt.Errorf("%w: %s", ErrCorrupt, err)
	}

	segment := assembler.Segment{
		Format: assembler.Format(hdr.Format),
		First:  word.Address(hdr.First),
		Last:   word.Address(hdr.Last),
		Words:  make([]word.Word, len(words)),
	}

	for i, value := range words {
		segment.Words[i] = word.Word(value) & word.Mask
	}

	return segment, nil
}

// ReadAll reads records until the end of input.
func (r *Reader) ReadAll() ([]assembler.Segment, error) {
	var result []assembler.Segment

	for {
		segment, err := r.ReadSegment()

		if err == io.EOF {
			return result, nil
		} else if err != nil {
			return result, err
		}

		result = append(result, segment)
	}
}
