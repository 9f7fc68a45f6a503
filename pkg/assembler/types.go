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
	"strings"

	"github.com/lassandro/go704/pkg/word"
)

type OpKind uint
type OpState uint
type Severity uint
type Format uint
type binding uint

type Cursor struct {
	Line   int
	Column int
}

type SymTable struct {
	Source  string
	Symbols map[string]word.Word
	Order   []string
}

func NewSymTable() SymTable {
	return SymTable{Symbols: make(map[string]word.Word)}
}

// Define binds name to value unless it is already bound. The first
// definition stands and later ones are dropped without complaint.
func (symtable *SymTable) Define(name string, value word.Word) bool {
	if _, exists := symtable.Symbols[name]; exists {
		return false
	}

	symtable.Symbols[name] = value
	symtable.Order = append(symtable.Order, name)

	return true
}

func (symtable *SymTable) Lookup(name string) (word.Word, bool) {
	value, exists := symtable.Symbols[name]
	return value, exists
}

type InstructionAssembly struct {
	Operation *Operation
	Base      word.Address
	Words     []word.Word
}

// Segment is a contiguous run of assembled words. Last is exclusive and may
// equal word.AddressSpace.
type Segment struct {
	Format Format
	First  word.Address
	Last   word.Address
	Words  []word.Word
}

type SegmentWriter interface {
	WriteSegment(format Format, first, last word.Address, words []word.Word) error
}

func (format Format) String() string {
	switch format {
	case FORMAT_ABSOLUTE:
		return "absolute"
	case FORMAT_FULL:
		return "full"
	case FORMAT_ABSOLUTE_TRANSFER:
		return "transfer"
	}

	return "<invalid>"
}

func (severity Severity) String() string {
	if severity == SEVERITY_ERROR {
		return "error"
	}

	return "warning"
}

type Report struct {
	Severity Severity
	Err      error
}

func (report Report) Error() string {
	return fmt.Sprintf("%s: %s", report.Severity, report.Err)
}

func (report Report) Unwrap() error {
	return report.Err
}

type PositionError interface {
	GetPosition() Cursor
}

type ParseError struct {
	Position Cursor
	Operand  string
	Err      error
}

func (err *ParseError) GetPosition() Cursor {
	return err.Position
}

func (err *ParseError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Invalid operand %q\n\t%s",
		err.Position.Line,
		err.Position.Column,
		err.Operand,
		err.Err,
	)
}

func (err *ParseError) Unwrap() error {
	return err.Err
}

type ArityError struct {
	Position Cursor
	Min      int
	Max      int
	Received int
}

func (err *ArityError) GetPosition() Cursor {
	return err.Position
}

func (err *ArityError) Error() string {
	var required string

	if err.Min == err.Max {
		required = fmt.Sprintf("%d", err.Min)
	} else {
		required = fmt.Sprintf("%d to %d", err.Min, err.Max)
	}

	return fmt.Sprintf(
		"%02d:%02d: Invalid number of operands\n\twant:%s\n\thave:%d",
		err.Position.Line,
		err.Position.Column,
		required,
		err.Received,
	)
}

type MissingLocationSymbolError struct {
	Position Cursor
	Mnemonic string
}

func (err *MissingLocationSymbolError) GetPosition() Cursor {
	return err.Position
}

func (err *MissingLocationSymbolError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: %s requires a location symbol",
		err.Position.Line,
		err.Position.Column,
		err.Mnemonic,
	)
}

type UndefinedSymbolError struct {
	Position Cursor
	Name     string
}

func (err *UndefinedSymbolError) GetPosition() Cursor {
	return err.Position
}

func (err *UndefinedSymbolError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Undefined symbol '%s'",
		err.Position.Line,
		err.Position.Column,
		err.Name,
	)
}

type DuplicateSignError struct {
	Position Cursor
	Literal  string
}

func (err *DuplicateSignError) GetPosition() Cursor {
	return err.Position
}

func (err *DuplicateSignError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Duplicate sign in literal '%s'",
		err.Position.Line,
		err.Position.Column,
		err.Literal,
	)
}

type InvalidDigitError struct {
	Position Cursor
	Literal  string
	Err      error
}

func (err *InvalidDigitError) GetPosition() Cursor {
	return err.Position
}

func (err *InvalidDigitError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Invalid literal '%s'\n\t%s",
		err.Position.Line,
		err.Position.Column,
		err.Literal,
		err.Err,
	)
}

func (err *InvalidDigitError) Unwrap() error {
	return err.Err
}

type InvalidCountError struct {
	Position Cursor
	Received rune
}

func (err *InvalidCountError) GetPosition() Cursor {
	return err.Position
}

func (err *InvalidCountError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Invalid character count '%c'",
		err.Position.Line,
		err.Position.Column,
		err.Received,
	)
}

type UnknownOperationError struct {
	Position Cursor
	Mnemonic string
}

func (err *UnknownOperationError) GetPosition() Cursor {
	return err.Position
}

func (err *UnknownOperationError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Unknown operation '%s'",
		err.Position.Line,
		err.Position.Column,
		err.Mnemonic,
	)
}

type EvaluationError struct {
	Position Cursor
	Err      error
}

func (err *EvaluationError) GetPosition() Cursor {
	return err.Position
}

func (err *EvaluationError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: %s",
		err.Position.Line,
		err.Position.Column,
		err.Err,
	)
}

func (err *EvaluationError) Unwrap() error {
	return err.Err
}

type StatementAfterEndError struct {
	Position Cursor
}

func (err *StatementAfterEndError) GetPosition() Cursor {
	return err.Position
}

func (err *StatementAfterEndError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Statement after END ignored",
		err.Position.Line,
		err.Position.Column,
	)
}

// indent renders a multi-line error message under a listing line.
func indent(s string) string {
	return "\t" + strings.ReplaceAll(s, "\n", "\n\t")
}
