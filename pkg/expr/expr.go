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

// Package expr holds the operand expression language: an immutable AST
// evaluated against an Environment, and its parser.
package expr

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/lassandro/go704/pkg/word"
)

var ErrDivideByZero = errors.New("Division by zero")

// Environment is what an expression evaluates against: the location counter
// and the symbol table.
type Environment interface {
	CurrentLocation() word.Address
	LookupSymbol(name string) (word.Word, error)
}

// Expr is one of Add, Subtract, Multiply, Divide, Negate, IntegerLiteral,
// SymbolRef, HereRef or ZeroRef.
type Expr interface {
	Eval(env Environment) (int64, error)
	String() string

	expr()
}

type Add struct{ Left, Right Expr }
type Subtract struct{ Left, Right Expr }
type Multiply struct{ Left, Right Expr }
type Divide struct{ Left, Right Expr }
type Negate struct{ Value Expr }
type IntegerLiteral struct{ Value int64 }
type SymbolRef struct{ Name string }

// HereRef is '*', the location of the word being assembled.
type HereRef struct{}

// ZeroRef is '**', an explicit zero as opposed to an omitted operand.
type ZeroRef struct{}

func (Add) expr()            {}
func (Subtract) expr()       {}
func (Multiply) expr()       {}
func (Divide) expr()         {}
func (Negate) expr()         {}
func (IntegerLiteral) expr() {}
func (SymbolRef) expr()      {}
func (HereRef) expr()        {}
func (ZeroRef) expr()        {}

func evalPair(env Environment, l, r Expr) (int64, int64, error) {
	a, err := l.Eval(env)

	if err != nil {
		return 0, 0, err
	}

	b, err := r.Eval(env)

	if err != nil {
		return 0, 0, err
	}

	return a, b, nil
}

func (e Add) Eval(env Environment) (int64, error) {
	a, b, err := evalPair(env, e.Left, e.Right)
	return a + b, err
}

func (e Subtract) Eval(env Environment) (int64, error) {
	a, b, err := evalPair(env, e.Left, e.Right)
	return a - b, err
}

func (e Multiply) Eval(env Environment) (int64, error) {
	a, b, err := evalPair(env, e.Left, e.Right)
	return a * b, err
}

func (e Divide) Eval(env Environment) (int64, error) {
	a, b, err := evalPair(env, e.Left, e.Right)

	if err != nil {
		return 0, err
	}

	if b == 0 {
		return 0, ErrDivideByZero
	}

	return a / b, nil
}

func (e Negate) Eval(env Environment) (int64, error) {
	v, err := e.Value.Eval(env)
	return -v, err
}

func (e IntegerLiteral) Eval(env Environment) (int64, error) {
	return e.Value, nil
}

func (e SymbolRef) Eval(env Environment) (int64, error) {
	w, err := env.LookupSymbol(e.Name)

	if err != nil {
		return 0, err
	}

	return w.Int(), nil
}

func (e HereRef) Eval(env Environment) (int64, error) {
	return int64(env.CurrentLocation()), nil
}

func (e ZeroRef) Eval(env Environment) (int64, error) {
	return 0, nil
}

func (e Add) String() string      { return fmt.Sprintf("(%s+%s)", e.Left, e.Right) }
func (e Subtract) String() string { return fmt.Sprintf("(%s-%s)", e.Left, e.Right) }
func (e Multiply) String() string { return fmt.Sprintf("(%s*%s)", e.Left, e.Right) }
func (e Divide) String() string   { return fmt.Sprintf("(%s/%s)", e.Left, e.Right) }
func (e Negate) String() string   { return "-" + e.Value.String() }

func (e IntegerLiteral) String() string { return strconv.FormatInt(e.Value, 10) }
func (e SymbolRef) String() string      { return e.Name }
func (e HereRef) String() string        { return "*" }
func (e ZeroRef) String() string        { return "**" }

// EvalAddress evaluates e and keeps the low 15 bits of the result.
func EvalAddress(e Expr, env Environment) (word.Address, error) {
	v, err := e.Eval(env)

	if err != nil {
		return 0, err
	}

	return word.TruncateAddress(v), nil
}

// References lists the symbols e refers to, left to right.
func References(e Expr) []string {
	switch e := e.(type) {
	case Add:
		return append(References(e.Left), References(e.Right)...)
	case Subtract:
		return append(References(e.Left), References(e.Right)...)
	case Multiply:
		return append(References(e.Left), References(e.Right)...)
	case Divide:
		return append(References(e.Left), References(e.Right)...)
	case Negate:
		return References(e.Value)
	case SymbolRef:
		return []string{e.Name}
	}

	return nil
}
