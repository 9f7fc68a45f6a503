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

package expr

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle"
	"github.com/alecthomas/participle/lexer"
)

// Operands are single cards' worth of text, so the grammar works on one
// comma separated item at a time:
//
//	Expr   := Term (('+'|'-') Term)*
//	Term   := Signed (('*'|'/') Signed)*
//	Signed := ('-'|'+')? Atom?
//	Atom   := '**' | '*' | Symbol
//
// A missing atom is zero. A Symbol made only of digits is an integer.
const LexerRegex = `(\s+)` +
	`|(?P<Zero>\*\*)` +
	`|(?P<Operator>[-+*/])` +
	`|(?P<Symbol>[0-9A-Z#@_&.%]+)`

type exprNode struct {
	Left *termNode   `@@`
	Rest []*exprTail `{ @@ }`
}

type exprTail struct {
	Operator string    `@("+" | "-")`
	Right    *termNode `@@?`
}

type termNode struct {
	Left *signedNode `@@`
	Rest []*termTail `{ @@ }`
}

type termTail struct {
	Operator string      `@("*" | "/")`
	Right    *signedNode `@@?`
}

type signedNode struct {
	Sign string    `@("-" | "+")?`
	Atom *atomNode `@@?`
}

type atomNode struct {
	Zero   bool    `  @Zero`
	Here   bool    `| @"*"`
	Symbol *string `| @Symbol`
}

var parser = participle.MustBuild(
	&exprNode{},
	participle.Lexer(lexer.Must(lexer.Regexp(LexerRegex))),
	participle.UseLookahead(2),
)

type SyntaxError struct {
	Item    int
	Operand string
	Err     error
}

func (err *SyntaxError) Error() string {
	return fmt.Sprintf("item %d %q: %s", err.Item+1, err.Operand, err.Err)
}

func (err *SyntaxError) Unwrap() error {
	return err.Err
}

// Parse splits an operand field at commas and parses each item. An empty
// item is zero. Items that fail to parse are left out of the result and
// reported, so the list may come back shorter than the field.
func Parse(text string) (result []Expr, errs []error) {
	for i, item := range strings.Split(text, ",") {
		e, err := ParseItem(item)

		if err != nil {
			errs = append(errs, &SyntaxError{i, item, err})
			continue
		}

		result = append(result, e)
	}

	return
}

func ParseItem(text string) (Expr, error) {
	if strings.TrimSpace(text) == "" {
		return IntegerLiteral{0}, nil
	}

	node := &exprNode{}

	if err := parser.ParseString(text, node); err != nil {
		return nil, err
	}

	return node.ast(), nil
}

func (n *exprNode) ast() Expr {
	result := n.Left.ast()

	for _, tail := range n.Rest {
		right := tail.Right.ast()

		if tail.Operator == "-" {
			result = Subtract{result, right}
		} else {
			result = Add{result, right}
		}
	}

	return result
}

func (n *termNode) ast() Expr {
	if n == nil {
		return IntegerLiteral{0}
	}

	result := n.Left.ast()

	for _, tail := range n.Rest {
		right := tail.Right.ast()

		if tail.Operator == "/" {
			result = Divide{result, right}
		} else {
			result = Multiply{result, right}
		}
	}

	return result
}

func (n *signedNode) ast() Expr {
	if n == nil {
		return IntegerLiteral{0}
	}

	atom := n.Atom.ast()

	if n.Sign == "-" {
		return Negate{atom}
	}

	return atom
}

func (n *atomNode) ast() Expr {
	switch {
	case n == nil:
		return IntegerLiteral{0}
	case n.Zero:
		return ZeroRef{}
	case n.Here:
		return HereRef{}
	case n.Symbol == nil:
		return IntegerLiteral{0}
	}

	if v, ok := decodeInteger(*n.Symbol); ok {
		return IntegerLiteral{v}
	}

	return SymbolRef{*n.Symbol}
}

// Integers wider than 64 bits wrap; the caller truncates to its field anyway.
func decodeInteger(s string) (int64, bool) {
	var v int64

	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}

		v = v*10 + int64(r-'0')
	}

	return v, true
}
