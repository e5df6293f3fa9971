// Package celparser parses Common Expression Language (CEL) source text
// into an abstract syntax tree. It wires together the lexer, parser, and
// reporter packages behind the single Parse entry point.
package celparser

import (
	"github.com/kralicky/cel-parser/ast"
	"github.com/kralicky/cel-parser/parser"
	"github.com/kralicky/cel-parser/reporter"
)

// Parse parses source as a single CEL expression. On success it returns
// the parsed Expression and a nil Diagnostic. On failure it returns a nil
// Expression and a Diagnostic describing the first error encountered;
// parsing stops at the first error rather than accumulating more than
// one.
func Parse(source string) (ast.Expr, *reporter.Diagnostic) {
	p, err := parser.New(source)
	if err != nil {
		return nil, reporter.Diagnose(reporter.NewPositioner(source), err)
	}
	expr, err := p.Parse()
	if err != nil {
		return nil, reporter.Diagnose(reporter.NewPositioner(source), err)
	}
	return expr, nil
}
