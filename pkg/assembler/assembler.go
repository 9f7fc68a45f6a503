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
	"bufio"
	"io"

	"github.com/golang/glog"

	"github.com/lassandro/go704/pkg/word"
)

type Options struct {
	// Location is the counter value before the first card.
	Location word.Address
	Format   Format
}

type Assembler struct {
	Symbols    SymTable
	Operations []*Operation

	location word.Address
	format   Format

	anchor   word.Address
	anchored bool
	defined  bool
	ended    bool

	current *Operation
	image   map[word.Address]word.Word
}

func New(options Options) *Assembler {
	return &Assembler{
		Symbols:  NewSymTable(),
		location: options.Location,
		format:   options.Format,
		image:    make(map[word.Address]word.Word),
	}
}

func (asm *Assembler) CurrentLocation() word.Address {
	return asm.location
}

// LookupSymbol resolves name. A miss while a DEF anchor is active binds name
// to the anchor, which then moves on by one word.
func (asm *Assembler) LookupSymbol(name string) (word.Word, error) {
	if value, exists := asm.Symbols.Lookup(name); exists {
		return value, nil
	}

	if asm.anchored {
		value := word.Word(asm.anchor)
		asm.Symbols.Define(name, value)
		asm.anchor = asm.anchor.Add(1)

		glog.V(1).Infof("Anchored '%s' at %s", name, value.Address())

		return value, nil
	}

	var position Cursor

	if asm.current != nil {
		position = asm.current.operandPosition()
	}

	return 0, &UndefinedSymbolError{position, name}
}

func (asm *Assembler) define(name string, value word.Word) {
	if name == "" {
		return
	}

	if asm.Symbols.Define(name, value) {
		glog.V(1).Infof("Defined '%s' = %s", name, value.Signed())
	} else {
		glog.V(2).Infof("Kept first definition of '%s'", name)
	}
}

// reserve moves the counter past size words, binding the location symbol to
// the first or last of them.
func (asm *Assembler) reserve(op *Operation, size int, bind binding) {
	start := asm.location

	op.Base = start
	op.Size = size

	asm.location = start.Add(int64(size))

	switch bind {
	case BIND_START:
		asm.define(op.Location, word.Word(start))
	case BIND_END:
		asm.define(op.Location, word.Word(asm.location.Add(-1)))
	}
}

func (asm *Assembler) installAnchor(op *Operation, at word.Address) {
	if asm.defined {
		return
	}

	asm.defined = true
	asm.anchored = true
	asm.anchor = at

	glog.V(1).Infof("Anchor installed at %s by line %d", at, op.Line.Number)
}

// AddLine runs one card through parse, validate and allocate. Cards after
// END are kept as remarks.
func (asm *Assembler) AddLine(line Line) *Operation {
	op := newOperation(line)
	asm.current = op

	if asm.ended && op.Kind != OP_REM {
		op.Kind = OP_REM
		op.warn(&StatementAfterEndError{op.position(op.Line.OperationColumn)})
	}

	op.parseVariable(asm)
	op.validate(asm)
	op.allocate(asm)

	asm.Operations = append(asm.Operations, op)
	asm.current = nil

	return op
}

// Finish assembles every operation in source order. It must be called once,
// after the last AddLine.
func (asm *Assembler) Finish() {
	for _, op := range asm.Operations {
		asm.current = op
		op.assemble(asm)
	}

	asm.current = nil

	glog.V(1).Infof(
		"Assembled %d cards, %d symbols, %d errors, %d warnings",
		len(asm.Operations),
		len(asm.Symbols.Order),
		asm.ErrorCount(),
		asm.WarningCount(),
	)
}

func (asm *Assembler) Assemblies() []*InstructionAssembly {
	result := make([]*InstructionAssembly, 0, len(asm.Operations))

	for _, op := range asm.Operations {
		if op.Assembly != nil {
			result = append(result, op.Assembly)
		}
	}

	return result
}

// Reports returns every report in source order.
func (asm *Assembler) Reports() []Report {
	var result []Report

	for _, op := range asm.Operations {
		result = append(result, op.Reports...)
	}

	return result
}

func (asm *Assembler) count(severity Severity) int {
	var total int

	for _, report := range asm.Reports() {
		if report.Severity == severity {
			total++
		}
	}

	return total
}

func (asm *Assembler) ErrorCount() int {
	return asm.count(SEVERITY_ERROR)
}

func (asm *Assembler) WarningCount() int {
	return asm.count(SEVERITY_WARNING)
}

// AssembleLines assembles a complete program held in memory.
func AssembleLines(lines []string, options Options) (SymTable, []*InstructionAssembly, []Report) {
	asm := New(options)

	for i, text := range lines {
		asm.AddLine(SplitLine(i+1, text))
	}

	asm.Finish()

	return asm.Symbols, asm.Assemblies(), asm.Reports()
}

// AssembleSource streams cards from input. The returned error is only ever
// a read failure; assembly problems are in the Assembler's reports.
func AssembleSource(input io.Reader, options Options) (*Assembler, error) {
	asm := New(options)

	var scanner = bufio.NewScanner(input)
	var number int

	for scanner.Scan() {
		number++
		asm.AddLine(SplitLine(number, scanner.Text()))
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	asm.Finish()

	return asm, nil
}
