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
	"errors"
	"fmt"
	"strings"

	"github.com/golang/glog"

	"github.com/lassandro/go704/pkg/encoding"
	"github.com/lassandro/go704/pkg/expr"
	"github.com/lassandro/go704/pkg/opcode"
	"github.com/lassandro/go704/pkg/word"
)

var operations = map[string]OpKind{
	"ABS": OP_ABS,
	"BCD": OP_BCD,
	"BES": OP_BES,
	"BSS": OP_BSS,
	"DEC": OP_DEC,
	"DEF": OP_DEF,
	"END": OP_END,
	"EQU": OP_EQU,
	"FUL": OP_FUL,
	"HED": OP_HED,
	"LIB": OP_LIB,
	"OCT": OP_OCT,
	"ORG": OP_ORG,
	"REM": OP_REM,
	"REP": OP_REP,
	"SYN": OP_SYN,
}

// parseOperation selects the variant for a mnemonic. Anything that is not a
// pseudo-operation is a machine instruction, resolved against the opcode
// table during validation.
func parseOperation(mnemonic string) OpKind {
	if kind, exists := operations[strings.ToUpper(mnemonic)]; exists {
		return kind
	}

	return OP_INSTRUCTION
}

// Operation is one source card on its way through parse, validate,
// allocate and assemble, always in that order.
type Operation struct {
	Kind     OpKind
	State    OpState
	Line     Line
	Location string
	Mnemonic string
	Operand  string
	Comment  string
	Exprs    []expr.Expr
	Reports  []Report

	Spec     opcode.Spec
	Format   Format
	Base     word.Address
	Size     int
	Value    word.Word
	Assembly *InstructionAssembly

	data    []word.Word
	repeat  int
	blocked bool
	breaks  bool
}

func newOperation(line Line) *Operation {
	op := &Operation{
		Line:     line,
		Location: line.Location,
		Mnemonic: strings.ToUpper(line.Operation),
	}

	switch {
	case line.Remark, line.Blank:
		op.Kind = OP_REM
		op.Mnemonic = "*"
	case op.Mnemonic == "":
		op.Kind = OP_INSTRUCTION
		op.Mnemonic = "PZE"
	default:
		op.Kind = parseOperation(op.Mnemonic)
	}

	return op
}

func (op *Operation) position(column int) Cursor {
	return Cursor{Line: op.Line.Number, Column: column}
}

func (op *Operation) operandPosition() Cursor {
	return op.position(op.Line.FieldColumn)
}

func (op *Operation) report(severity Severity, err error) {
	op.Reports = append(op.Reports, Report{severity, err})
}

func (op *Operation) warn(err error) {
	op.report(SEVERITY_WARNING, err)
}

func (op *Operation) fail(err error) {
	op.report(SEVERITY_ERROR, err)
}

func (op *Operation) HasErrors() bool {
	for _, report := range op.Reports {
		if report.Severity == SEVERITY_ERROR {
			return true
		}
	}

	return false
}

func (op *Operation) advance(from OpState, to OpState) {
	if op.State != from {
		panic(fmt.Sprintf(
			"assembler: line %d moved to state %d from %d, want %d",
			op.Line.Number, to, op.State, from,
		))
	}

	op.State = to
}

func (op *Operation) parseVariable(asm *Assembler) {
	op.advance(STATE_CONSTRUCTED, STATE_PARSED)

	switch op.Kind {
	case OP_BCD:
		op.parseBCD()
		return
	case OP_REM:
		op.Comment = strings.TrimSpace(op.Line.Field)
		return
	}

	op.Operand, op.Comment = SplitComment(op.Line.Field)

	switch op.Kind {
	case OP_DEC:
		op.parseLiterals(encoding.DecodeDecimal)
	case OP_OCT:
		op.parseLiterals(encoding.DecodeOctal)
	case OP_HED, OP_LIB, OP_FUL, OP_ABS:
	default:
		exprs, errs := expr.Parse(op.Operand)

		for _, err := range errs {
			op.fail(&ParseError{op.operandPosition(), op.Operand, err})
		}

		op.Exprs = exprs
	}
}

// The character count sits in the first column of the field, blank meaning
// ten groups of six characters.
func (op *Operation) parseBCD() {
	field := op.Line.Field
	count := BCD_DEFAULT_COUNT

	if field != "" {
		switch c := rune(field[0]); {
		case c == ' ':
		case c >= '1' && c <= '9':
			count = int(c - '0')
		default:
			op.fail(&InvalidCountError{op.operandPosition(), c})
		}

		field = field[1:]
	}

	length := count * BCD_GROUP

	if len(field) > length {
		op.Comment = strings.TrimSpace(field[length:])
		field = field[:length]
	}

	op.Operand = field
	field += strings.Repeat(" ", length-len(field))

	for i := 0; i < count; i++ {
		packed, err := encoding.PackBCD(field[i*BCD_GROUP : (i+1)*BCD_GROUP])

		if err != nil {
			op.fail(&ParseError{op.operandPosition(), op.Operand, err})
		}

		op.data = append(op.data, packed)
	}
}

func (op *Operation) parseLiterals(decode func(string) (word.Word, error)) {
	for _, literal := range strings.Split(op.Operand, ",") {
		value, err := decode(literal)

		switch {
		case err == nil:
		case errors.Is(err, encoding.ErrEmptyLiteral):
		case errors.Is(err, encoding.ErrDuplicateSign):
			op.fail(&DuplicateSignError{op.operandPosition(), literal})
		default:
			op.fail(&InvalidDigitError{op.operandPosition(), literal, err})
		}

		op.data = append(op.data, value)
	}
}

func (op *Operation) validate(asm *Assembler) {
	op.advance(STATE_PARSED, STATE_VALIDATED)

	switch op.Kind {
	case OP_INSTRUCTION:
		if spec, ok := opcode.ByMnemonic(op.Mnemonic); ok {
			op.Spec = spec
		} else {
			op.block(&UnknownOperationError{
				op.position(op.Line.OperationColumn), op.Mnemonic,
			})
		}

		op.checkArity(1, 3)

		// Type B orders keep opcode bits in the decrement field.
		if !op.blocked && !op.Spec.HasDecrement() && len(op.Exprs) > 2 {
			op.warn(&ArityError{op.operandPosition(), 1, 2, len(op.Exprs)})
			op.Exprs = op.Exprs[:2]
		}

	case OP_BSS, OP_BES, OP_EQU, OP_SYN:
		op.checkArity(1, 1)
		op.requireLocation()

	case OP_ORG, OP_DEF, OP_END:
		op.checkArity(1, 1)

	case OP_REP:
		op.checkArity(2, 2)
	}
}

func (op *Operation) block(err error) {
	op.fail(err)
	op.blocked = true
}

// checkArity pads a short expression list with zeros and drops extras.
func (op *Operation) checkArity(min int, max int) {
	count := len(op.Exprs)

	if count >= min && count <= max {
		return
	}

	op.warn(&ArityError{op.operandPosition(), min, max, count})

	for len(op.Exprs) < min {
		op.Exprs = append(op.Exprs, expr.IntegerLiteral{})
	}

	if len(op.Exprs) > max {
		op.Exprs = op.Exprs[:max]
	}
}

func (op *Operation) requireLocation() {
	if op.Location == "" {
		op.block(&MissingLocationSymbolError{
			op.position(op.Line.LocationColumn), op.Mnemonic,
		})
	}
}

// resolve evaluates e, reporting a failure against the operation.
func (op *Operation) resolve(e expr.Expr, env expr.Environment) (int64, bool) {
	v, err := e.Eval(env)

	if err == nil {
		return v, true
	}

	var undefined *UndefinedSymbolError

	if errors.As(err, &undefined) {
		op.fail(err)
	} else {
		op.fail(&EvaluationError{op.operandPosition(), err})
	}

	return 0, false
}

func (op *Operation) eval(e expr.Expr, env expr.Environment) int64 {
	v, _ := op.resolve(e, env)
	return v
}

func (op *Operation) evalAddress(e expr.Expr, env expr.Environment) word.Address {
	return word.TruncateAddress(op.eval(e, env))
}

func (op *Operation) allocate(asm *Assembler) {
	op.advance(STATE_VALIDATED, STATE_ALLOCATED)

	op.Base = asm.location
	op.Format = asm.format

	if op.blocked {
		return
	}

	switch op.Kind {
	case OP_INSTRUCTION:
		asm.reserve(op, 1, BIND_START)

	case OP_BCD, OP_DEC, OP_OCT:
		asm.reserve(op, len(op.data), BIND_START)

	case OP_BSS:
		asm.reserve(op, int(op.evalAddress(op.Exprs[0], asm)), BIND_START)

	case OP_BES:
		asm.reserve(op, int(op.evalAddress(op.Exprs[0], asm)), BIND_END)

	case OP_EQU, OP_SYN:
		// Only symbols bound earlier in the source are visible here.
		v, ok := op.resolve(op.Exprs[0], asm)

		if !ok {
			return
		}

		op.Value = word.FromInt(v)
		asm.define(op.Location, op.Value)

	case OP_ORG:
		op.breaks = true
		asm.location = op.evalAddress(op.Exprs[0], asm)
		op.Base = asm.location

	case OP_REP:
		words := int(op.evalAddress(op.Exprs[0], asm))
		times := int(op.evalAddress(op.Exprs[1], asm))

		op.repeat = words
		asm.reserve(op, int(word.Truncate(int64(words*times), word.AddressBits)), BIND_NONE)

	case OP_DEF:
		asm.installAnchor(op, op.evalAddress(op.Exprs[0], asm))

	case OP_END:
		op.Format = FORMAT_ABSOLUTE_TRANSFER
		asm.reserve(op, 1, BIND_NONE)
		asm.ended = true

	case OP_FUL:
		op.breaks = true
		asm.format = FORMAT_FULL
		op.Format = asm.format

	case OP_ABS:
		op.breaks = true
		asm.format = FORMAT_ABSOLUTE
		op.Format = asm.format
	}
}

func (op *Operation) assemble(asm *Assembler) {
	op.advance(STATE_ALLOCATED, STATE_ASSEMBLED)

	op.Assembly = &InstructionAssembly{Operation: op, Base: op.Base}

	if op.blocked {
		return
	}

	env := &locationEnv{asm, op.Base}

	var words []word.Word

	switch op.Kind {
	case OP_INSTRUCTION:
		w := op.Spec.Template
		w |= word.Word(op.evalAddress(op.Exprs[0], env))

		if len(op.Exprs) > 1 {
			tag := word.Truncate(op.eval(op.Exprs[1], env), word.TagBits)
			w |= word.Word(tag) << word.TagShift
		}

		if len(op.Exprs) > 2 {
			decrement := word.Truncate(op.eval(op.Exprs[2], env), word.DecrementBits)
			w |= word.Word(decrement) << word.DecrementShift
		}

		words = append(words, w)

	case OP_BCD, OP_DEC, OP_OCT:
		words = append(words, op.data...)

	case OP_REP:
		for i := 0; i < op.Size; i++ {
			source := op.Base.Add(int64(i%op.repeat - op.repeat))
			words = append(words, asm.image[source])
		}

	case OP_END:
		tra, _ := opcode.ByMnemonic("TRA")
		words = append(words, tra.Template|word.Word(op.evalAddress(op.Exprs[0], env)))
	}

	for i, w := range words {
		asm.image[op.Base.Add(int64(i))] = w
	}

	if len(words) > 0 {
		glog.V(2).Infof("Emitting %d words at %s for line %d", len(words), op.Base, op.Line.Number)
	}

	op.Assembly.Words = words
}

type locationEnv struct {
	asm  *Assembler
	here word.Address
}

func (env *locationEnv) CurrentLocation() word.Address {
	return env.here
}

func (env *locationEnv) LookupSymbol(name string) (word.Word, error) {
	return env.asm.LookupSymbol(name)
}
