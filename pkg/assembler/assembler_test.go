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

package assembler_test

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"

	"github.com/lassandro/go704/pkg/assembler"
	"github.com/lassandro/go704/pkg/disasm"
	"github.com/lassandro/go704/pkg/opcode"
	"github.com/lassandro/go704/pkg/word"
)

// card lays out a fixed-column source line.
func card(location, operation, field string) string {
	return fmt.Sprintf("%-6s %-4s%s", location, operation, field)
}

func assemble(t *testing.T, options assembler.Options, lines ...string) *assembler.Assembler {
	t.Helper()

	asm, err := assembler.AssembleSource(
		strings.NewReader(strings.Join(lines, "\n")), options,
	)

	if err != nil {
		t.Fatal(err)
	}

	return asm
}

func expectClean(t *testing.T, asm *assembler.Assembler) {
	t.Helper()

	if reports := asm.Reports(); len(reports) > 0 {
		t.Fatalf("Unexpected reports\n%s", spew.Sdump(reports))
	}
}

func expectSymbol(t *testing.T, asm *assembler.Assembler, name string, want int64) {
	t.Helper()

	have, exists := asm.Symbols.Lookup(name)

	if !exists {
		t.Fatalf("Symbol '%s' undefined\n%s", name, spew.Sdump(asm.Symbols))
	}

	if have.Int() != want {
		t.Fatalf("Symbol '%s' mismatch\nwant:%o\nhave:%o", name, want, have.Int())
	}
}

func expectWords(t *testing.T, op *assembler.Operation, want ...word.Word) {
	t.Helper()

	have := op.Words()

	if len(have) != len(want) {
		t.Fatalf("Word count mismatch on line %d\nwant:%d\nhave:%d", op.Line.Number, len(want), len(have))
	}

	for i := range want {
		if have[i] != want[i] {
			t.Fatalf("Word mismatch on line %d [%d]\nwant:%s\nhave:%s", op.Line.Number, i, want[i], have[i])
		}
	}
}

// expectReport finds the first report on op whose error matches target.
func expectReport(t *testing.T, op *assembler.Operation, severity assembler.Severity, target interface{}) {
	t.Helper()

	for _, report := range op.Reports {
		if report.Severity == severity && errors.As(report.Err, target) {
			return
		}
	}

	t.Fatalf(
		"Missing %s %T on line %d\nhave:%s",
		severity, target, op.Line.Number, spew.Sdump(op.Reports),
	)
}

func template(mnemonic string) word.Word {
	spec, ok := opcode.ByMnemonic(mnemonic)

	if !ok {
		panic("no opcode " + mnemonic)
	}

	return spec.Template
}

func TestSplitLine(t *testing.T) {
	cases := []struct {
		Name  string
		Input string
		Want  assembler.Line
	}{
		{
			"Fixed",
			"START  CLA X    LOAD",
			assembler.Line{
				Location: "START", Operation: "CLA", Field: "X    LOAD",
				LocationColumn: 1, OperationColumn: 8, FieldColumn: 12,
			},
		},
		{
			"SeparatorColumn",
			"ABCDEFXCLA Y",
			assembler.Line{
				Location: "ABCDEF", Operation: "CLA", Field: "Y",
				LocationColumn: 1, OperationColumn: 8, FieldColumn: 12,
			},
		},
		{
			"Tabbed",
			"START\tCLA\tX LOAD",
			assembler.Line{
				Location: "START", Operation: "CLA", Field: "X LOAD",
				LocationColumn: 1, OperationColumn: 7, FieldColumn: 11,
			},
		},
		{
			"Remark",
			"* HELLO",
			assembler.Line{
				Field: " HELLO", Remark: true,
				LocationColumn: 1, OperationColumn: 8, FieldColumn: 2,
			},
		},
		{
			"Blank",
			"   ",
			assembler.Line{
				Blank: true, LocationColumn: 1, OperationColumn: 8, FieldColumn: 12,
			},
		},
		{
			"SequenceColumns",
			card("", "PZE", "1") + strings.Repeat(" ", 60) + "00010",
			assembler.Line{
				Operation: "PZE", Field: "1",
				LocationColumn: 1, OperationColumn: 8, FieldColumn: 12,
			},
		},
	}

	for _, test := range cases {
		t.Run(test.Name, func(t *testing.T) {
			have := assembler.SplitLine(1, test.Input)

			test.Want.Number = 1
			test.Want.Text = test.Input

			if !reflect.DeepEqual(have, test.Want) {
				t.Fatalf("Line mismatch\nwant:%s\nhave:%s", spew.Sdump(test.Want), spew.Sdump(have))
			}
		})
	}
}

func TestSplitComment(t *testing.T) {
	cases := []struct {
		Field   string
		Operand string
		Comment string
	}{
		{"X,1  LOAD IT", "X,1", "LOAD IT"},
		{"X", "X", ""},
		{" NOTHING", "", "NOTHING"},
		{"", "", ""},
	}

	for _, test := range cases {
		operand, comment := assembler.SplitComment(test.Field)

		if operand != test.Operand || comment != test.Comment {
			t.Fatalf(
				"Split mismatch for %q\nwant:%q %q\nhave:%q %q",
				test.Field, test.Operand, test.Comment, operand, comment,
			)
		}
	}
}

func TestOperandExpressions(t *testing.T) {
	cla := template("CLA")

	asm := assemble(t, assembler.Options{Location: 0o200},
		card("FOUR", "EQU", "4"),
		card("", "CLA", "5*4-1"),
		card("", "CLA", "1+5*4-1"),
		card("", "CLA", "-FOUR"),
		card("", "CLA", "**"),
		card("", "CLA", "*"),
		card("", "CLA", ""),
		card("", "CLA", "*+2"),
	)

	expectClean(t, asm)

	ops := asm.Operations

	expectWords(t, ops[1], cla|19)
	expectWords(t, ops[2], cla|20)
	expectWords(t, ops[3], cla|0o77774)
	expectWords(t, ops[4], cla)
	expectWords(t, ops[5], cla|0o204)
	expectWords(t, ops[6], cla)
	expectWords(t, ops[7], cla|0o210)
}

func TestInstructionFields(t *testing.T) {
	asm := assemble(t, assembler.Options{},
		card("", "TXI", "100,1,5"),
		card("", "CLA", "8,-1"),
		card("A", "", "5"),
		card("", "MON", "1,,2"),
	)

	expectClean(t, asm)

	ops := asm.Operations

	expectWords(t, ops[0], template("TXI")|5<<word.DecrementShift|1<<word.TagShift|100)
	expectWords(t, ops[1], template("CLA")|7<<word.TagShift|8)
	expectWords(t, ops[2], 5)
	expectWords(t, ops[3], template("MON")|2<<word.DecrementShift|1)

	if ops[2].Mnemonic != "PZE" {
		t.Fatalf("Blank operation mismatch\nwant:PZE\nhave:%s", ops[2].Mnemonic)
	}
}

func TestTypeBDecrement(t *testing.T) {
	asm := assemble(t, assembler.Options{},
		card("", "CLA", "5,0,64"),
		card("", "TIX", "5,1,64"),
	)

	ops := asm.Operations

	var arity *assembler.ArityError

	expectReport(t, ops[0], assembler.SEVERITY_WARNING, &arity)

	if arity.Max != 2 || arity.Received != 3 {
		t.Fatalf("Arity mismatch\nwant:2 of 3\nhave:%d of %d", arity.Max, arity.Received)
	}

	// The opcode survives and the decrement is dropped
	expectWords(t, ops[0], template("CLA")|5)

	if inst := disasm.Decode(ops[0].Words()[0]); inst.Mnemonic != "CLA" || inst.Decrement != 0 {
		t.Fatalf("Decode mismatch\nwant:CLA  5\nhave:%s", inst)
	}

	if len(ops[1].Reports) != 0 {
		t.Fatalf("Unexpected reports\n%s", spew.Sdump(ops[1].Reports))
	}

	expectWords(t, ops[1], template("TIX")|64<<word.DecrementShift|1<<word.TagShift|5)
}

func TestEquForwardReference(t *testing.T) {
	asm := assemble(t, assembler.Options{},
		card("B", "EQU", "C"),
		card("", "CLA", "D"),
		card("C", "EQU", "3"),
		card("D", "PZE", ""),
	)

	var undefined *assembler.UndefinedSymbolError

	expectReport(t, asm.Operations[0], assembler.SEVERITY_ERROR, &undefined)

	if undefined.Name != "C" {
		t.Fatalf("Symbol mismatch\nwant:C\nhave:%s", undefined.Name)
	}

	if _, exists := asm.Symbols.Lookup("B"); exists {
		t.Fatal("Expected B to stay undefined")
	}

	if len(asm.Operations[1].Reports) != 0 {
		t.Fatalf("Unexpected reports\n%s", spew.Sdump(asm.Operations[1].Reports))
	}

	expectWords(t, asm.Operations[1], template("CLA")|1)
	expectSymbol(t, asm, "C", 3)
}

func TestUndefinedInstructionOperand(t *testing.T) {
	asm := assemble(t, assembler.Options{}, card("", "CLA", "NOWHERE"))

	var undefined *assembler.UndefinedSymbolError

	expectReport(t, asm.Operations[0], assembler.SEVERITY_ERROR, &undefined)

	if undefined.Position.Line != 1 || undefined.Position.Column != 12 {
		t.Fatalf("Position mismatch\nwant:01:12\nhave:%+v", undefined.Position)
	}

	expectWords(t, asm.Operations[0], template("CLA"))
}

func TestLocationWraparound(t *testing.T) {
	asm := assemble(t, assembler.Options{Location: 0o77776},
		card("A", "CLA", "A"),
		card("B", "CLA", "B"),
		card("C", "CLA", "C"),
		card("D", "BSS", "3"),
		card("E", "PZE", ""),
	)

	expectClean(t, asm)

	expectSymbol(t, asm, "A", 0o77776)
	expectSymbol(t, asm, "B", 0o77777)
	expectSymbol(t, asm, "C", 0)
	expectSymbol(t, asm, "D", 1)
	expectSymbol(t, asm, "E", 4)

	segments := asm.Segments()

	if len(segments) != 3 {
		t.Fatalf("Segment count mismatch\nwant:3\nhave:%s", spew.Sdump(segments))
	}

	if segments[0].First != 0o77776 || segments[0].Last != word.AddressSpace || segments[0].Len() != 2 {
		t.Fatalf("Top segment mismatch\nhave:%s", spew.Sdump(segments[0]))
	}

	if segments[1].First != 0 || segments[1].Last != 1 {
		t.Fatalf("Wrapped segment mismatch\nhave:%s", spew.Sdump(segments[1]))
	}
}

func TestBlockReservation(t *testing.T) {
	asm := assemble(t, assembler.Options{Location: 100},
		card("A", "BSS", "5"),
		card("B", "BES", "5"),
		card("C", "PZE", ""),
		card("N", "EQU", "2"),
		card("D", "BSS", "N*2"),
		card("E", "PZE", ""),
	)

	expectClean(t, asm)

	expectSymbol(t, asm, "A", 100)
	expectSymbol(t, asm, "B", 109)
	expectSymbol(t, asm, "C", 110)
	expectSymbol(t, asm, "D", 111)
	expectSymbol(t, asm, "E", 115)
}

func TestBCD(t *testing.T) {
	asm := assemble(t, assembler.Options{},
		card("", "BCD", "1ABCDEF"),
		card("", "BCD", " HELLO"),
		card("", "BCD", "2AB"),
		card("", "BCD", "1ABCDEFGHI"),
		card("", "BCD", "X"),
	)

	ops := asm.Operations
	blank := word.Word(0o606060606060)

	expectWords(t, ops[0], 0o212223242526)

	words := ops[1].Words()

	if len(words) != 10 {
		t.Fatalf("Group count mismatch\nwant:10\nhave:%d", len(words))
	}

	if words[0] != 0o302543434660 {
		t.Fatalf("Word mismatch\nwant:302543434660\nhave:%s", words[0])
	}

	for _, w := range words[1:] {
		if w != blank {
			t.Fatalf("Padding mismatch\nwant:%s\nhave:%s", blank, w)
		}
	}

	expectWords(t, ops[2], 0o212260606060, blank)

	if ops[3].Comment != "GHI" {
		t.Fatalf("Comment mismatch\nwant:GHI\nhave:%q", ops[3].Comment)
	}

	var count *assembler.InvalidCountError

	expectReport(t, ops[4], assembler.SEVERITY_ERROR, &count)

	if count.Received != 'X' {
		t.Fatalf("Count mismatch\nwant:X\nhave:%c", count.Received)
	}

	if len(ops[4].Words()) != 10 {
		t.Fatalf("Group count mismatch\nwant:10\nhave:%d", len(ops[4].Words()))
	}
}

func TestLiteralLists(t *testing.T) {
	asm := assemble(t, assembler.Options{},
		card("A", "OCT", "1,-2,777777777777"),
		card("B", "DEC", "7,-7"),
		card("", "OCT", "--5"),
		card("", "OCT", "8"),
		card("", "DEC", "5B"),
		card("", "DEC", "-"),
		card("", "OCT", "+"),
		card("", "DEC", "3B-"),
		card("", "OCT", "1,,2"),
	)

	ops := asm.Operations

	expectWords(t, ops[0], 1, word.SignBit|2, 0o777777777777)
	expectWords(t, ops[1], 7, word.SignBit|7)
	expectSymbol(t, asm, "B", 3)

	var sign *assembler.DuplicateSignError
	var digit *assembler.InvalidDigitError

	expectReport(t, ops[2], assembler.SEVERITY_ERROR, &sign)
	expectReport(t, ops[3], assembler.SEVERITY_ERROR, &digit)

	// Parse problems do not stop the words being placed
	if ops[3].Base != 6 || len(ops[3].Words()) != 1 {
		t.Fatalf("Allocation mismatch\nhave:%s", spew.Sdump(ops[3].Base, ops[3].Words()))
	}

	// Signs and scales without digits are malformed, not empty
	for _, op := range ops[4:8] {
		expectReport(t, op, assembler.SEVERITY_ERROR, &digit)
	}

	if len(ops[8].Reports) != 0 {
		t.Fatalf("Unexpected reports\n%s", spew.Sdump(ops[8].Reports))
	}

	expectWords(t, ops[8], 1, 0, 2)
}

func TestDefAnchor(t *testing.T) {
	asm := assemble(t, assembler.Options{},
		card("", "DEF", "500"),
		card("", "CLA", "U1"),
		card("", "CLA", "U2"),
		card("", "CLA", "U1"),
		card("", "DEF", "900"),
		card("", "CLA", "U3"),
		card("K", "PZE", ""),
		card("", "CLA", "K"),
	)

	expectClean(t, asm)

	expectSymbol(t, asm, "U1", 500)
	expectSymbol(t, asm, "U2", 501)
	expectSymbol(t, asm, "U3", 502)
	expectSymbol(t, asm, "K", 4)

	expectWords(t, asm.Operations[3], template("CLA")|500)
}

func TestOrgSegments(t *testing.T) {
	asm := assemble(t, assembler.Options{},
		card("", "PZE", "1"),
		card("", "ORG", "100"),
		card("", "PZE", "2"),
		card("", "PZE", "3"),
		card("", "FUL", ""),
		card("", "PZE", "4"),
		card("", "ABS", ""),
		card("", "PZE", "5"),
	)

	expectClean(t, asm)

	have := asm.Segments()
	want := []assembler.Segment{
		{Format: assembler.FORMAT_ABSOLUTE, First: 0, Last: 1, Words: []word.Word{1}},
		{Format: assembler.FORMAT_ABSOLUTE, First: 100, Last: 102, Words: []word.Word{2, 3}},
		{Format: assembler.FORMAT_FULL, First: 102, Last: 103, Words: []word.Word{4}},
		{Format: assembler.FORMAT_ABSOLUTE, First: 103, Last: 104, Words: []word.Word{5}},
	}

	if !reflect.DeepEqual(have, want) {
		t.Fatalf("Segment mismatch\nwant:%s\nhave:%s", spew.Sdump(want), spew.Sdump(have))
	}
}

func TestRep(t *testing.T) {
	asm := assemble(t, assembler.Options{},
		card("", "OCT", "1,2"),
		card("R", "REP", "2,3"),
		card("N", "OCT", "7"),
	)

	expectClean(t, asm)

	expectWords(t, asm.Operations[1], 1, 2, 1, 2, 1, 2)
	expectSymbol(t, asm, "N", 8)

	if _, exists := asm.Symbols.Lookup("R"); exists {
		t.Fatal("Expected REP not to bind its location symbol")
	}
}

func TestEnd(t *testing.T) {
	asm := assemble(t, assembler.Options{Location: 0o100},
		card("START", "CLA", "START"),
		card("", "END", "START"),
		card("", "CLA", "1"),
		"",
		"* TRAILING REMARK",
	)

	ops := asm.Operations

	expectWords(t, ops[1], template("TRA")|0o100)

	if ops[1].Format != assembler.FORMAT_ABSOLUTE_TRANSFER {
		t.Fatalf("Format mismatch\nwant:%s\nhave:%s", assembler.FORMAT_ABSOLUTE_TRANSFER, ops[1].Format)
	}

	var after *assembler.StatementAfterEndError

	expectReport(t, ops[2], assembler.SEVERITY_WARNING, &after)

	if len(ops[2].Words()) != 0 || ops[2].Kind != assembler.OP_REM {
		t.Fatalf("Statement after END assembled\nhave:%s", spew.Sdump(ops[2].Words()))
	}

	if len(ops[3].Reports) != 0 || len(ops[4].Reports) != 0 {
		t.Fatal("Unexpected reports on trailing remarks")
	}

	if have := asm.ErrorCount(); have != 0 {
		t.Fatalf("Error count mismatch\nwant:0\nhave:%d", have)
	}

	segments := asm.Segments()

	if last := segments[len(segments)-1]; last.Format != assembler.FORMAT_ABSOLUTE_TRANSFER {
		t.Fatalf("Trailer segment mismatch\nhave:%s", spew.Sdump(last))
	}
}

func TestArity(t *testing.T) {
	asm := assemble(t, assembler.Options{},
		card("A", "BSS", "1,2"),
		card("", "CLA", "1,2,3,4"),
		card("", "REP", "1"),
		card("B", "PZE", ""),
	)

	var arity *assembler.ArityError

	for _, op := range asm.Operations[:3] {
		expectReport(t, op, assembler.SEVERITY_WARNING, &arity)
	}

	if have := asm.ErrorCount(); have != 0 {
		t.Fatalf("Error count mismatch\nwant:0\nhave:%d", have)
	}

	expectWords(t, asm.Operations[1], template("CLA")|2<<word.TagShift|1)

	if have := len(asm.Operations[1].Reports); have != 2 {
		t.Fatalf("Report count mismatch\nwant:2\nhave:%d\n%s", have, spew.Sdump(asm.Operations[1].Reports))
	}
	expectSymbol(t, asm, "B", 2)
}

func TestBlockedAllocation(t *testing.T) {
	asm := assemble(t, assembler.Options{},
		card("", "BSS", "5"),
		card("", "EQU", "5"),
		card("", "FOO", "5"),
		card("", "CLA", ")"),
		card("X", "PZE", ""),
	)

	ops := asm.Operations

	var missing *assembler.MissingLocationSymbolError
	var unknown *assembler.UnknownOperationError
	var parse *assembler.ParseError

	expectReport(t, ops[0], assembler.SEVERITY_ERROR, &missing)
	expectReport(t, ops[1], assembler.SEVERITY_ERROR, &missing)
	expectReport(t, ops[2], assembler.SEVERITY_ERROR, &unknown)
	expectReport(t, ops[3], assembler.SEVERITY_ERROR, &parse)

	if unknown.Mnemonic != "FOO" {
		t.Fatalf("Mnemonic mismatch\nwant:FOO\nhave:%s", unknown.Mnemonic)
	}

	for _, op := range ops[:3] {
		if len(op.Words()) != 0 || op.Size != 0 {
			t.Fatalf("Blocked operation allocated on line %d", op.Line.Number)
		}
	}

	// A malformed operand still takes its word
	expectWords(t, ops[3], template("CLA"))
	expectSymbol(t, asm, "X", 1)

	if have := asm.ErrorCount(); have != 4 {
		t.Fatalf("Error count mismatch\nwant:4\nhave:%d\n%s", have, spew.Sdump(asm.Reports()))
	}
}

var roundTripProgram = []string{
	"* FORWARD REFERENCES ONLY",
	card("", "ORG", "64"),
	card("START", "CLA", "X"),
	card("", "ADD", "Y"),
	card("", "SUB", "Y+1"),
	card("", "STO", "Z"),
	card("", "TXI", "LOOP,1,3"),
	card("", "HTR", "*+1"),
	card("", "PSE", "96"),
	card("", "MSE", "97"),
	card("LOOP", "TRA", "START"),
	card("X", "DEC", "1"),
	card("Y", "OCT", "2,3"),
	card("", "BCD", "1SAMPLE"),
	card("Z", "BSS", "1"),
	card("W", "BES", "2"),
	card("", "REP", "1,2"),
	card("", "END", "START"),
}

func TestDeterminism(t *testing.T) {
	first := assemble(t, assembler.Options{}, roundTripProgram...)
	second := assemble(t, assembler.Options{}, roundTripProgram...)

	expectClean(t, first)

	if !reflect.DeepEqual(first.Segments(), second.Segments()) {
		t.Fatalf(
			"Output mismatch\nwant:%s\nhave:%s",
			spew.Sdump(first.Segments()), spew.Sdump(second.Segments()),
		)
	}

	if !reflect.DeepEqual(first.Symbols, second.Symbols) {
		t.Fatal("Symbol table mismatch between runs")
	}
}

func TestDisassemblyRoundTrip(t *testing.T) {
	asm := assemble(t, assembler.Options{}, roundTripProgram...)

	expectClean(t, asm)

	var checked int

	for _, op := range asm.Operations {
		if op.Kind != assembler.OP_INSTRUCTION {
			continue
		}

		address, err := op.Exprs[0].Eval(symbolsAt{asm, op.Base})

		if err != nil {
			t.Fatal(err)
		}

		inst := disasm.Decode(op.Words()[0])

		if inst.Mnemonic != op.Mnemonic || inst.Address != word.TruncateAddress(address) {
			t.Fatalf(
				"Disassembly mismatch on line %d\nwant:%s %o\nhave:%s",
				op.Line.Number, op.Mnemonic, address, inst,
			)
		}

		checked++
	}

	if checked != 9 {
		t.Fatalf("Instruction count mismatch\nwant:9\nhave:%d", checked)
	}
}

type symbolsAt struct {
	asm  *assembler.Assembler
	here word.Address
}

func (env symbolsAt) CurrentLocation() word.Address {
	return env.here
}

func (env symbolsAt) LookupSymbol(name string) (word.Word, error) {
	return env.asm.LookupSymbol(name)
}

func TestAssembleLines(t *testing.T) {
	symbols, assemblies, reports := assembler.AssembleLines(
		[]string{card("A", "PZE", "A"), card("", "CLA", "NOPE")},
		assembler.Options{Location: 0o10},
	)

	if len(assemblies) != 2 || assemblies[0].Base != 0o10 {
		t.Fatalf("Assembly mismatch\nhave:%s", spew.Sdump(assemblies))
	}

	if value, _ := symbols.Lookup("A"); value != 0o10 {
		t.Fatalf("Symbol mismatch\nwant:10\nhave:%s", value)
	}

	if len(reports) != 1 || reports[0].Severity != assembler.SEVERITY_ERROR {
		t.Fatalf("Report mismatch\nhave:%s", spew.Sdump(reports))
	}
}

func TestListing(t *testing.T) {
	asm := assemble(t, assembler.Options{}, roundTripProgram...)

	var builder strings.Builder

	if err := asm.Listing(&builder); err != nil {
		t.Fatal(err)
	}

	listing := builder.String()

	for _, want := range []string{
		"00103  +060100000115",
		"0 errors, 0 warnings",
		"START   +000000000100",
	} {
		if !strings.Contains(listing, want) {
			t.Fatalf("Listing missing %q\n%s", want, listing)
		}
	}
}
