// Package parser drives the CEL grammar described in the spec: a
// recursive-descent / precedence-climbing parser over the token stream
// produced by the lexer package, resolving precedence and associativity
// and disambiguating list/map/parenthesized/call/message-construction
// forms. It is a hand-written stand-in for the operator-precedence or
// generated LR table the grammar's shape would otherwise call for.
package parser

import (
	"github.com/kralicky/cel-parser/ast"
	"github.com/kralicky/cel-parser/lexer"
	"github.com/kralicky/cel-parser/reporter"
)

// Parser turns one token stream into one Expression. It is not reusable
// across sources and carries no state beyond what a single parse needs.
type Parser struct {
	lex *lexer.Lexer
	cur lexer.Token
}

// New creates a Parser over source and primes its first token.
func New(source string) (*Parser, reporter.ErrorWithPos) {
	p := &Parser{lex: lexer.New(source)}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p, nil
}

// Parse parses a full CEL expression from the Parser's source. It fails
// if any input remains after the expression (extra token) or if the
// grammar is violated anywhere along the way.
func (p *Parser) Parse() (ast.Expr, reporter.ErrorWithPos) {
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.cur.Kind != lexer.EOF {
		return nil, errExtraToken(p.cur)
	}
	return expr, nil
}

func (p *Parser) advance() reporter.ErrorWithPos {
	tok, err := p.lex.Next()
	if err != nil {
		return mapLexError(err)
	}
	p.cur = tok
	return nil
}

func (p *Parser) expect(kind lexer.Kind) reporter.ErrorWithPos {
	if p.cur.Kind != kind {
		if p.cur.Kind == lexer.EOF {
			return errUnrecognizedEOF()
		}
		return errUnrecognizedToken(p.cur)
	}
	return nil
}

// parseExpr is the grammar's entry point: the ternary level (lowest
// precedence).
func (p *Parser) parseExpr() (ast.Expr, reporter.ErrorWithPos) {
	return p.parseTernary()
}

// parseTernary: `orExpr ? expr : expr` | `orExpr`, right-associative (both
// branches recurse into parseExpr, which is this same ternary level, so
// `a ? b : c ? d : e` groups as `a ? b : (c ? d : e)`).
func (p *Parser) parseTernary() (ast.Expr, reporter.ErrorWithPos) {
	cond, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.cur.Kind != lexer.Question {
		return cond, nil
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	then, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expect(lexer.Colon); err != nil {
		return nil, err
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	els, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return ast.NewTernaryExpr(cond, then, els), nil
}

// parseOr: left-associative `||`.
func (p *Parser) parseOr() (ast.Expr, reporter.ErrorWithPos) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.cur.Kind == lexer.OrOr {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = ast.NewOrExpr(left, right)
	}
	return left, nil
}

// parseAnd: left-associative `&&`.
func (p *Parser) parseAnd() (ast.Expr, reporter.ErrorWithPos) {
	left, err := p.parseRelation()
	if err != nil {
		return nil, err
	}
	for p.cur.Kind == lexer.AndAnd {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseRelation()
		if err != nil {
			return nil, err
		}
		left = ast.NewAndExpr(left, right)
	}
	return left, nil
}

var relationOps = map[lexer.Kind]ast.RelationOp{
	lexer.EqEq:   ast.Equals,
	lexer.BangEq: ast.NotEquals,
	lexer.Lt:     ast.LessThan,
	lexer.Le:     ast.LessThanEq,
	lexer.Gt:     ast.GreaterThan,
	lexer.Ge:     ast.GreaterThanEq,
	lexer.In:     ast.In,
}

// parseRelation: left-associative `== != < <= > >= in`. The grammar does
// not forbid chaining (`a < b < c` parses as `(a<b)<c`).
func (p *Parser) parseRelation() (ast.Expr, reporter.ErrorWithPos) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := relationOps[p.cur.Kind]
		if !ok {
			return left, nil
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = ast.NewRelationExpr(left, op, right)
	}
}

// parseAdditive: left-associative `+ -`.
func (p *Parser) parseAdditive() (ast.Expr, reporter.ErrorWithPos) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for {
		var op ast.ArithmeticOp
		switch p.cur.Kind {
		case lexer.Plus:
			op = ast.Add
		case lexer.Minus:
			op = ast.Subtract
		default:
			return left, nil
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = ast.NewArithmeticExpr(left, op, right)
	}
}

// parseMultiplicative: left-associative `* / %`.
func (p *Parser) parseMultiplicative() (ast.Expr, reporter.ErrorWithPos) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		var op ast.ArithmeticOp
		switch p.cur.Kind {
		case lexer.Star:
			op = ast.Multiply
		case lexer.Slash:
			op = ast.Divide
		case lexer.Percent:
			op = ast.Modulus
		default:
			return left, nil
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = ast.NewArithmeticExpr(left, op, right)
	}
}

// parseUnary handles prefix `!`/`-`/`+`. A run of k consecutive identical
// operators collapses to ceil(k/2) operator nodes, with a trailing single
// node iff k is odd; unary numeric folding is deliberately not done here
// ("-3" is always Unary(Minus, Atom(Int(3)))).
func (p *Parser) parseUnary() (ast.Expr, reporter.ErrorWithPos) {
	switch p.cur.Kind {
	case lexer.Bang:
		return p.parsePrefixRun(lexer.Bang, ast.Not, ast.DoubleNot)
	case lexer.Minus:
		return p.parsePrefixRun(lexer.Minus, ast.Minus, ast.DoubleMinus)
	case lexer.Plus:
		return p.parsePrefixRun(lexer.Plus, ast.Plus, ast.DoublePlus)
	default:
		expr, _, err := p.parsePostfix()
		return expr, err
	}
}

func (p *Parser) parsePrefixRun(kind lexer.Kind, single, double ast.UnaryOp) (ast.Expr, reporter.ErrorWithPos) {
	count := 0
	for p.cur.Kind == kind {
		count++
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	inner, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	result := inner
	remaining := count
	for remaining >= 2 {
		result = ast.NewUnaryExpr(double, result)
		remaining -= 2
	}
	if remaining == 1 {
		result = ast.NewUnaryExpr(single, result)
	}
	return result, nil
}

// parsePostfix parses a primary expression followed by zero or more
// member/call/index postfix operators, left-associating the chain. The
// returned bool reports whether the result is still a "pure dotted
// identifier path" (a bare identifier, or an attribute-only chain off
// one) with no index/call/grouping applied yet - the look-left condition
// spec.md uses to disambiguate `{...}` as message construction rather
// than a map literal.
func (p *Parser) parsePostfix() (ast.Expr, bool, reporter.ErrorWithPos) {
	expr, isPath, err := p.parsePrimary()
	if err != nil {
		return nil, false, err
	}
	for {
		switch p.cur.Kind {
		case lexer.Dot:
			if err := p.advance(); err != nil {
				return nil, false, err
			}
			if err := p.expect(lexer.Ident); err != nil {
				return nil, false, err
			}
			name := p.cur.Ident
			if err := p.advance(); err != nil {
				return nil, false, err
			}
			if p.cur.Kind == lexer.LParen {
				if err := p.advance(); err != nil {
					return nil, false, err
				}
				args, err := p.parseArgList(lexer.RParen)
				if err != nil {
					return nil, false, err
				}
				if err := p.expect(lexer.RParen); err != nil {
					return nil, false, err
				}
				if err := p.advance(); err != nil { // consume ')'
					return nil, false, err
				}
				expr = ast.NewFunctionCallExpr(ast.NewIdentExpr(name), expr, args)
				isPath = false
			} else {
				expr = ast.NewMemberExpr(expr, ast.NewAttribute(name))
				// isPath unchanged: a dotted attribute chain is still a path
			}
		case lexer.LBracket:
			if err := p.advance(); err != nil {
				return nil, false, err
			}
			idx, err := p.parseExpr()
			if err != nil {
				return nil, false, err
			}
			if err := p.expect(lexer.RBracket); err != nil {
				return nil, false, err
			}
			if err := p.advance(); err != nil {
				return nil, false, err
			}
			expr = ast.NewMemberExpr(expr, ast.NewIndex(idx))
			isPath = false
		case lexer.LParen:
			ident, ok := expr.(*ast.IdentExpr)
			if !ok {
				return expr, isPath, nil
			}
			if err := p.advance(); err != nil {
				return nil, false, err
			}
			args, err := p.parseArgList(lexer.RParen)
			if err != nil {
				return nil, false, err
			}
			if err := p.expect(lexer.RParen); err != nil {
				return nil, false, err
			}
			if err := p.advance(); err != nil { // consume ')'
				return nil, false, err
			}
			expr = ast.NewFunctionCallExpr(ident, nil, args)
			isPath = false
		case lexer.LBrace:
			if !isPath {
				return expr, isPath, nil
			}
			if err := p.advance(); err != nil {
				return nil, false, err
			}
			inits, err := p.parseFieldInits()
			if err != nil {
				return nil, false, err
			}
			if err := p.expect(lexer.RBrace); err != nil {
				return nil, false, err
			}
			if err := p.advance(); err != nil {
				return nil, false, err
			}
			expr = ast.NewMemberExpr(expr, ast.NewFields(inits))
			isPath = false
		default:
			return expr, isPath, nil
		}
	}
}

// parsePrimary: literal atom | identifier | `(` expr `)` | list literal |
// map literal.
func (p *Parser) parsePrimary() (ast.Expr, bool, reporter.ErrorWithPos) {
	switch p.cur.Kind {
	case lexer.IntLit:
		v := ast.NewAtomExpr(ast.Int(p.cur.Int))
		return v, false, p.advance()
	case lexer.UIntLit:
		v := ast.NewAtomExpr(ast.UInt(p.cur.UInt))
		return v, false, p.advance()
	case lexer.FloatLit:
		v := ast.NewAtomExpr(ast.Float(p.cur.Float))
		return v, false, p.advance()
	case lexer.StringLit:
		v := ast.NewAtomExpr(ast.String(p.cur.Str))
		return v, false, p.advance()
	case lexer.BytesLit:
		v := ast.NewAtomExpr(ast.Bytes(p.cur.Bytes))
		return v, false, p.advance()
	case lexer.True:
		return ast.NewAtomExpr(ast.Bool(true)), false, p.advance()
	case lexer.False:
		return ast.NewAtomExpr(ast.Bool(false)), false, p.advance()
	case lexer.Null:
		return ast.NewAtomExpr(ast.Null()), false, p.advance()
	case lexer.Ident:
		name := p.cur.Ident
		if err := p.advance(); err != nil {
			return nil, false, err
		}
		return ast.NewIdentExpr(name), true, nil
	case lexer.LParen:
		if err := p.advance(); err != nil {
			return nil, false, err
		}
		inner, err := p.parseExpr()
		if err != nil {
			return nil, false, err
		}
		if err := p.expect(lexer.RParen); err != nil {
			return nil, false, err
		}
		return inner, false, p.advance()
	case lexer.LBracket:
		if err := p.advance(); err != nil {
			return nil, false, err
		}
		elems, err := p.parseExprListUntil(lexer.RBracket)
		if err != nil {
			return nil, false, err
		}
		if err := p.expect(lexer.RBracket); err != nil {
			return nil, false, err
		}
		return ast.NewListExpr(elems), false, p.advance()
	case lexer.LBrace:
		if err := p.advance(); err != nil {
			return nil, false, err
		}
		entries, err := p.parseMapEntries()
		if err != nil {
			return nil, false, err
		}
		if err := p.expect(lexer.RBrace); err != nil {
			return nil, false, err
		}
		return ast.NewMapExpr(entries), false, p.advance()
	case lexer.EOF:
		return nil, false, errUnrecognizedEOF()
	default:
		return nil, false, errUnrecognizedToken(p.cur)
	}
}

// parseArgList parses a comma-separated, optionally trailing-comma'd list
// of expressions terminated by (but not consuming) end.
func (p *Parser) parseArgList(end lexer.Kind) ([]ast.Expr, reporter.ErrorWithPos) {
	return p.parseExprListUntil(end)
}

func (p *Parser) parseExprListUntil(end lexer.Kind) ([]ast.Expr, reporter.ErrorWithPos) {
	var elems []ast.Expr
	if p.cur.Kind == end {
		return elems, nil
	}
	for {
		elem, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		elems = append(elems, elem)
		if p.cur.Kind != lexer.Comma {
			break
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.cur.Kind == end {
			break // trailing comma
		}
	}
	return elems, nil
}

// parseFieldInits parses `ident: expr` pairs, comma-separated, trailing
// comma allowed, for message-construction form.
func (p *Parser) parseFieldInits() ([]ast.FieldInit, reporter.ErrorWithPos) {
	var inits []ast.FieldInit
	if p.cur.Kind == lexer.RBrace {
		return inits, nil
	}
	for {
		if err := p.expect(lexer.Ident); err != nil {
			return nil, err
		}
		name := p.cur.Ident
		if err := p.advance(); err != nil {
			return nil, err
		}
		if err := p.expect(lexer.Colon); err != nil {
			return nil, err
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		inits = append(inits, ast.FieldInit{Name: name, Value: value})
		if p.cur.Kind != lexer.Comma {
			break
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.cur.Kind == lexer.RBrace {
			break
		}
	}
	return inits, nil
}

// parseMapEntries parses `expr: expr` pairs, comma-separated, trailing
// comma allowed, for a map literal. Keys may be arbitrary expressions.
func (p *Parser) parseMapEntries() ([]ast.MapEntry, reporter.ErrorWithPos) {
	var entries []ast.MapEntry
	if p.cur.Kind == lexer.RBrace {
		return entries, nil
	}
	for {
		key, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(lexer.Colon); err != nil {
			return nil, err
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		entries = append(entries, ast.MapEntry{Key: key, Value: value})
		if p.cur.Kind != lexer.Comma {
			break
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.cur.Kind == lexer.RBrace {
			break
		}
	}
	return entries, nil
}
