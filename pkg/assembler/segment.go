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

package assembler

// Segments groups the assembled words into contiguous runs. A run ends when
// the format changes, when ORG, FUL or ABS is seen, at a reserved gap, or
// where the address wraps from 77777 to 0.
func (asm *Assembler) Segments() []Segment {
	var result []Segment
	var current *Segment

	flush := func() {
		if current != nil {
			result = append(result, *current)
			current = nil
		}
	}

	for _, op := range asm.Operations {
		if op.breaks {
			flush()
		}

		if op.Assembly == nil {
			continue
		}

		words := op.Assembly.Words

		if len(words) == 0 && op.Size > 0 {
			flush()
			continue
		}

		for i, w := range words {
			at := op.Base.Add(int64(i))

			if current != nil && (current.Format != op.Format || current.Last != at) {
				flush()
			}

			if current == nil {
				current = &Segment{Format: op.Format, First: at, Last: at}
			}

			current.Words = append(current.Words, w)
			current.Last++
		}
	}

	flush()

	return result
}

func (asm *Assembler) WriteSegments(writer SegmentWriter) error {
	for _, segment := range asm.Segments() {
		err := writer.WriteSegment(
			segment.Format, segment.First, segment.Last, segment.Words,
		)

		if err != nil {
			return err
		}
	}

	return nil
}

// Len is the number of words in the segment.
func (segment Segment) Len() int {
	return int(segment.Last) - int(segment.First)
}
