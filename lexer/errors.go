package lexer

import "fmt"

// InvalidTokenError means no token could begin at Pos: the byte there is
// not part of any lexeme in the grammar.
type InvalidTokenError struct {
	Pos int
}

func (e *InvalidTokenError) Error() string {
	return fmt.Sprintf("invalid token at byte %d", e.Pos)
}

// UnterminatedStringError means end of input was reached while still
// inside a string or bytes literal opened at Lo.
type UnterminatedStringError struct {
	Lo int
}

func (e *UnterminatedStringError) Error() string {
	return fmt.Sprintf("unterminated string literal starting at byte %d", e.Lo)
}
