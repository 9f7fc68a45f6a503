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

import (
	"fmt"
	"io"
	"strings"

	"github.com/lassandro/go704/pkg/word"
)

// Print renders one operation as listing text: address and word columns
// followed by the source card, any further words on their own lines and
// the operation's reports underneath.
func (op *Operation) Print() string {
	var builder strings.Builder

	var words = op.Words()

	switch {
	case len(words) > 0:
		fmt.Fprintf(&builder, "%s  %s  ", op.Base, words[0].Signed())
	case op.Kind == OP_EQU || op.Kind == OP_SYN:
		fmt.Fprintf(&builder, "%5s  %s  ", "", op.Value.Signed())
	case op.Size > 0 || op.Kind == OP_ORG:
		fmt.Fprintf(&builder, "%s  %13s  ", op.Base, "")
	default:
		fmt.Fprintf(&builder, "%5s  %13s  ", "", "")
	}

	builder.WriteString(op.Line.Text)
	builder.WriteByte('\n')

	for i := 1; i < len(words); i++ {
		fmt.Fprintf(&builder, "%s  %s\n", op.Base.Add(int64(i)), words[i].Signed())
	}

	for _, report := range op.Reports {
		builder.WriteString(indent(report.Error()))
		builder.WriteByte('\n')
	}

	return builder.String()
}

func (op *Operation) Words() []word.Word {
	if op.Assembly == nil {
		return nil
	}

	return op.Assembly.Words
}

// Listing writes the program listing followed by the symbol table in
// definition order.
func (asm *Assembler) Listing(output io.Writer) error {
	for _, op := range asm.Operations {
		if _, err := io.WriteString(output, op.Print()); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(
		output,
		"\n%d errors, %d warnings\n\nSYMBOLS\n",
		asm.ErrorCount(),
		asm.WarningCount(),
	)

	if err != nil {
		return err
	}

	for _, name := range asm.Symbols.Order {
		value := asm.Symbols.Symbols[name]

		if _, err := fmt.Fprintf(output, "%-6s  %s\n", name, value.Signed()); err != nil {
			return err
		}
	}

	return nil
}
