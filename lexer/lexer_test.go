package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kralicky/cel-parser/lexer"
)

// scanAll drains a Lexer, returning every token up to and including EOF.
func scanAll(t *testing.T, source string) []lexer.Token {
	t.Helper()
	l := lexer.New(source)
	var toks []lexer.Token
	for {
		tok, err := l.Next()
		require.NoError(t, err)
		toks = append(toks, tok)
		if tok.Kind == lexer.EOF {
			return toks
		}
	}
}

func kinds(toks []lexer.Token) []lexer.Kind {
	out := make([]lexer.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestLexerPunctuationAndOperators(t *testing.T) {
	toks := scanAll(t, "( ) [ ] { } , . : ? + - * / % ! && || == != < <= > >= =")
	got := kinds(toks)
	want := []lexer.Kind{
		lexer.LParen, lexer.RParen, lexer.LBracket, lexer.RBracket,
		lexer.LBrace, lexer.RBrace, lexer.Comma, lexer.Dot, lexer.Colon,
		lexer.Question, lexer.Plus, lexer.Minus, lexer.Star, lexer.Slash,
		lexer.Percent, lexer.Bang, lexer.AndAnd, lexer.OrOr, lexer.EqEq,
		lexer.BangEq, lexer.Lt, lexer.Le, lexer.Gt, lexer.Ge, lexer.Assign,
		lexer.EOF,
	}
	assert.Equal(t, want, got)
}

func TestLexerKeywordsAndIdents(t *testing.T) {
	toks := scanAll(t, "true false null in foo_bar _x")
	got := kinds(toks)
	want := []lexer.Kind{lexer.True, lexer.False, lexer.Null, lexer.In, lexer.Ident, lexer.Ident, lexer.EOF}
	assert.Equal(t, want, got)
	assert.Equal(t, "foo_bar", toks[4].Ident)
}

func TestLexerLineComment(t *testing.T) {
	toks := scanAll(t, "1 // trailing comment\n+ 2")
	assert.Equal(t, []lexer.Kind{lexer.IntLit, lexer.Plus, lexer.IntLit, lexer.EOF}, kinds(toks))
}

func TestLexerIntLiteral(t *testing.T) {
	toks := scanAll(t, "42")
	require.Len(t, toks, 2)
	assert.Equal(t, lexer.IntLit, toks[0].Kind)
	assert.Equal(t, int64(42), toks[0].Int)
}

func TestLexerUIntLiteralSuffix(t *testing.T) {
	toks := scanAll(t, "2u")
	require.Len(t, toks, 2)
	assert.Equal(t, lexer.UIntLit, toks[0].Kind)
	assert.Equal(t, uint64(2), toks[0].UInt)

	toks = scanAll(t, "7U")
	assert.Equal(t, lexer.UIntLit, toks[0].Kind)
	assert.Equal(t, uint64(7), toks[0].UInt)
}

func TestLexerHexLiteral(t *testing.T) {
	toks := scanAll(t, "0x1F")
	require.Len(t, toks, 2)
	assert.Equal(t, lexer.IntLit, toks[0].Kind)
	assert.Equal(t, int64(31), toks[0].Int)
}

func TestLexerFloatLiterals(t *testing.T) {
	cases := []struct {
		src  string
		want float64
	}{
		{"1.5", 1.5},
		{"1.", 1},
		{".5", 0.5},
		{"1e10", 1e10},
		{"1.5e-3", 1.5e-3},
		{"2E+2", 200},
	}
	for _, c := range cases {
		toks := scanAll(t, c.src)
		require.Lenf(t, toks, 2, "source %q", c.src)
		assert.Equalf(t, lexer.FloatLit, toks[0].Kind, "source %q", c.src)
		assert.Equalf(t, c.want, toks[0].Float, "source %q", c.src)
	}
}

func TestLexerTrailingDotBeforeMemberAccessIsNotSwallowed(t *testing.T) {
	// "1.foo" is not a valid CEL float followed by member access on an
	// int, but the lexer's job is only to not misparse the dot as part of
	// the number; whether the grammar accepts it is the parser's concern.
	toks := scanAll(t, "1.foo")
	assert.Equal(t, lexer.IntLit, toks[0].Kind)
	assert.Equal(t, lexer.Dot, toks[1].Kind)
	assert.Equal(t, lexer.Ident, toks[2].Kind)
}

func TestLexerStringLiteral(t *testing.T) {
	toks := scanAll(t, `"hello\nworld"`)
	require.Len(t, toks, 2)
	assert.Equal(t, lexer.StringLit, toks[0].Kind)
	assert.Equal(t, "hello\nworld", toks[0].Str)
}

func TestLexerSingleQuotedString(t *testing.T) {
	toks := scanAll(t, `'it\'s'`)
	assert.Equal(t, "it's", toks[0].Str)
}

func TestLexerTripleQuotedStringAllowsNewlines(t *testing.T) {
	toks := scanAll(t, "'''line one\nline two'''")
	require.Len(t, toks, 2)
	assert.Equal(t, lexer.StringLit, toks[0].Kind)
	assert.Equal(t, "line one\nline two", toks[0].Str)
}

func TestLexerRawStringDoesNotInterpretEscapes(t *testing.T) {
	toks := scanAll(t, `r"a\nb"`)
	require.Len(t, toks, 2)
	assert.Equal(t, lexer.StringLit, toks[0].Kind)
	assert.Equal(t, `a\nb`, toks[0].Str)

	toks = scanAll(t, `R'x\ty'`)
	assert.Equal(t, `x\ty`, toks[0].Str)
}

func TestLexerBytesLiteral(t *testing.T) {
	toks := scanAll(t, `b"\x01\x02"`)
	require.Len(t, toks, 2)
	assert.Equal(t, lexer.BytesLit, toks[0].Kind)
	assert.Equal(t, []byte{1, 2}, toks[0].Bytes)
}

func TestLexerRawBytesPrefixCombinations(t *testing.T) {
	for _, prefix := range []string{"br", "Br", "bR", "BR", "rb", "Rb", "rB", "RB"} {
		toks := scanAll(t, prefix+`"\x41"`)
		require.Lenf(t, toks, 2, "prefix %q", prefix)
		assert.Equalf(t, lexer.BytesLit, toks[0].Kind, "prefix %q", prefix)
		assert.Equalf(t, []byte(`\x41`), toks[0].Bytes, "prefix %q: raw means no escape decoding", prefix)
	}
}

func TestLexerUnicodeEscape(t *testing.T) {
	toks := scanAll(t, "\"\\u00e9\"")
	assert.Equal(t, "é", toks[0].Str)

	toks = scanAll(t, `"\U0001F600"`)
	assert.Equal(t, "😀", toks[0].Str)
}

func TestLexerOctalEscape(t *testing.T) {
	toks := scanAll(t, `"\101"`)
	assert.Equal(t, "A", toks[0].Str)
}

func TestLexerUnterminatedStringIsError(t *testing.T) {
	l := lexer.New(`"unterminated`)
	_, err := l.Next()
	require.Error(t, err)
	var unterminated *lexer.UnterminatedStringError
	assert.ErrorAs(t, err, &unterminated)
	assert.Equal(t, 0, unterminated.Lo)
}

func TestLexerBareNewlineInSingleQuotedStringIsUnterminated(t *testing.T) {
	l := lexer.New("\"abc\ndef\"")
	_, err := l.Next()
	require.Error(t, err)
	assert.IsType(t, &lexer.UnterminatedStringError{}, err)
}

func TestLexerInvalidByteIsError(t *testing.T) {
	l := lexer.New("$")
	_, err := l.Next()
	require.Error(t, err)
	var invalid *lexer.InvalidTokenError
	assert.ErrorAs(t, err, &invalid)
	assert.Equal(t, 0, invalid.Pos)
}

func TestLexerLoneAmpersandIsInvalid(t *testing.T) {
	l := lexer.New("&x")
	_, err := l.Next()
	require.Error(t, err)
	assert.IsType(t, &lexer.InvalidTokenError{}, err)
}

func TestLexerTokenSpans(t *testing.T) {
	l := lexer.New("ab + cd")
	tok, err := l.Next()
	require.NoError(t, err)
	assert.Equal(t, 0, tok.Lo)
	assert.Equal(t, 2, tok.Hi)

	tok, err = l.Next()
	require.NoError(t, err)
	assert.Equal(t, 3, tok.Lo)
	assert.Equal(t, 4, tok.Hi)
}

func TestLexerEmptySourceYieldsEOF(t *testing.T) {
	l := lexer.New("")
	tok, err := l.Next()
	require.NoError(t, err)
	assert.Equal(t, lexer.EOF, tok.Kind)
	assert.Equal(t, 0, tok.Lo)
	assert.Equal(t, 0, tok.Hi)
}
