package parser

import (
	"fmt"

	"github.com/kralicky/cel-parser/lexer"
	"github.com/kralicky/cel-parser/reporter"
)

// errUnrecognizedToken reports a token the grammar did not expect at its
// position, carrying the offending lexeme.
func errUnrecognizedToken(tok lexer.Token) reporter.ErrorWithPos {
	return reporter.Error(fmt.Sprintf("unrecognized token: '%s'", tok.Lexeme), tok.Lo, tok.Hi)
}

// errExtraToken reports leftover input after a complete expression has
// already been parsed.
func errExtraToken(tok lexer.Token) reporter.ErrorWithPos {
	return reporter.Error(fmt.Sprintf("extra token: '%s'", tok.Lexeme), tok.Lo, tok.Hi)
}

// errInvalidToken reports a zero-width lexer failure: no token can begin
// at pos.
func errInvalidToken(pos int) reporter.ErrorWithPos {
	return reporter.Error("invalid token", pos, pos)
}

// errUnrecognizedEOF reports that the parser needed another token but the
// input ended. Per the public contract this is always reported at the
// fixed (0,0)-(0,0) span, regardless of where EOF actually occurred.
func errUnrecognizedEOF() reporter.ErrorWithPos {
	return reporter.ErrorNoSpan("unrecognized eof")
}

// mapLexError converts a lexer-level failure into the same ErrorWithPos
// form the parser itself produces, folding it into the "invalid token"
// bucket: both of the lexer's failure modes (an unrecognizable character,
// or a string/bytes literal that never closes) mean no valid token could
// be formed, which is exactly what "invalid token" reports. An
// unterminated string is pointed at its opening quote, per spec.
func mapLexError(err error) reporter.ErrorWithPos {
	switch e := err.(type) {
	case *lexer.InvalidTokenError:
		return errInvalidToken(e.Pos)
	case *lexer.UnterminatedStringError:
		return errInvalidToken(e.Lo)
	default:
		return reporter.Error(err.Error(), 0, 0)
	}
}
