package lexer

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

var keywords = map[string]Kind{
	"true":  True,
	"false": False,
	"null":  Null,
	"in":    In,
}

// cursor is a byte-offset reader over the source, grounded on the
// teacher's runeReader: readRune/unreadRune, peekRune for the next rune,
// and peekRuneAt for a byte offset further ahead. Callers that need to
// back out of a partial read save and restore pos directly.
type cursor struct {
	data []byte
	pos  int
}

func (c *cursor) readRune() (r rune, size int) {
	if c.pos >= len(c.data) {
		return 0, 0
	}
	r, size = utf8.DecodeRune(c.data[c.pos:])
	c.pos += size
	return r, size
}

func (c *cursor) unreadRune(size int) {
	c.pos -= size
}

func (c *cursor) peekRune() rune {
	r, size := c.readRune()
	c.unreadRune(size)
	return r
}

func (c *cursor) peekRuneAt(offset int) rune {
	pos := c.pos + offset
	if pos >= len(c.data) {
		return 0
	}
	r, _ := utf8.DecodeRune(c.data[pos:])
	return r
}

// Lexer produces a stream of Tokens from CEL source text.
type Lexer struct {
	src    []byte
	cur    cursor
	prevHi int
}

// New creates a Lexer over the given source text.
func New(source string) *Lexer {
	data := []byte(source)
	return &Lexer{src: data, cur: cursor{data: data}}
}

// Next returns the next token, or an error if the lexer cannot form one.
// Reaching the end of input is reported as a Token with Kind == EOF and a
// nil error; it is not itself an error (the parser decides whether EOF is
// acceptable at that point in the grammar).
func (l *Lexer) Next() (Token, error) {
	for {
		lo := l.cur.pos
		r, size := l.cur.readRune()
		if size == 0 {
			return Token{Kind: EOF, Lo: lo, Hi: lo}, nil
		}

		switch {
		case r == ' ' || r == '\t' || r == '\r' || r == '\n':
			continue
		case r == '/' && l.cur.peekRune() == '/':
			l.skipLineComment()
			continue
		}

		switch r {
		case '(':
			return l.simple(LParen, lo), nil
		case ')':
			return l.simple(RParen, lo), nil
		case '[':
			return l.simple(LBracket, lo), nil
		case ']':
			return l.simple(RBracket, lo), nil
		case '{':
			return l.simple(LBrace, lo), nil
		case '}':
			return l.simple(RBrace, lo), nil
		case ',':
			return l.simple(Comma, lo), nil
		case ':':
			return l.simple(Colon, lo), nil
		case '?':
			return l.simple(Question, lo), nil
		case '+':
			return l.simple(Plus, lo), nil
		case '-':
			return l.simple(Minus, lo), nil
		case '*':
			return l.simple(Star, lo), nil
		case '/':
			return l.simple(Slash, lo), nil
		case '%':
			return l.simple(Percent, lo), nil
		case '=':
			if l.cur.peekRune() == '=' {
				l.cur.readRune()
				return l.spanned(EqEq, lo), nil
			}
			return l.simple(Assign, lo), nil
		case '!':
			if l.cur.peekRune() == '=' {
				l.cur.readRune()
				return l.spanned(BangEq, lo), nil
			}
			return l.simple(Bang, lo), nil
		case '<':
			if l.cur.peekRune() == '=' {
				l.cur.readRune()
				return l.spanned(Le, lo), nil
			}
			return l.simple(Lt, lo), nil
		case '>':
			if l.cur.peekRune() == '=' {
				l.cur.readRune()
				return l.spanned(Ge, lo), nil
			}
			return l.simple(Gt, lo), nil
		case '&':
			if l.cur.peekRune() == '&' {
				l.cur.readRune()
				return l.spanned(AndAnd, lo), nil
			}
			return Token{}, &InvalidTokenError{Pos: lo}
		case '|':
			if l.cur.peekRune() == '|' {
				l.cur.readRune()
				return l.spanned(OrOr, lo), nil
			}
			return Token{}, &InvalidTokenError{Pos: lo}
		case '.':
			if isDigit(l.cur.peekRune()) {
				return l.readNumber(lo, r)
			}
			return l.simple(Dot, lo), nil
		case '\'', '"':
			return l.readQuoted(lo, r, false, false)
		}

		switch {
		case isIdentStart(r):
			return l.readIdentOrPrefixedLiteral(lo, r)
		case isDigit(r):
			return l.readNumber(lo, r)
		}

		l.cur.unreadRune(size)
		return Token{}, &InvalidTokenError{Pos: lo}
	}
}

func (l *Lexer) simple(kind Kind, lo int) Token {
	return Token{Kind: kind, Lo: lo, Hi: l.cur.pos, Lexeme: string(l.src[lo:l.cur.pos])}
}

func (l *Lexer) spanned(kind Kind, lo int) Token {
	return l.simple(kind, lo)
}

func (l *Lexer) skipLineComment() {
	l.cur.readRune() // consume the second '/'
	for {
		r, size := l.cur.readRune()
		if size == 0 || r == '\n' {
			if size != 0 {
				l.cur.unreadRune(size)
			}
			return
		}
	}
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isIdentStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isIdentCont(r rune) bool {
	return isIdentStart(r) || isDigit(r)
}

func isHexDigit(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

// readIdentOrPrefixedLiteral reads an identifier, then checks whether it
// is actually a string/bytes literal prefix (r, R, b, B, br, Rb, ...)
// immediately followed by a quote. If not, it is returned as a keyword or
// a plain identifier.
func (l *Lexer) readIdentOrPrefixedLiteral(lo int, first rune) (Token, error) {
	for {
		r, size := l.cur.readRune()
		if size == 0 || !isIdentCont(r) {
			if size != 0 {
				l.cur.unreadRune(size)
			}
			break
		}
	}
	name := string(l.src[lo:l.cur.pos])

	if isStringPrefix(name) && (l.cur.peekRune() == '\'' || l.cur.peekRune() == '"') {
		raw, bytesLit := false, false
		for _, c := range name {
			switch c {
			case 'r', 'R':
				raw = true
			case 'b', 'B':
				bytesLit = true
			}
		}
		quote, _ := l.cur.readRune()
		return l.readQuoted(lo, quote, raw, bytesLit)
	}

	if kind, ok := keywords[name]; ok {
		return Token{Kind: kind, Lo: lo, Hi: l.cur.pos, Lexeme: name, Ident: name}, nil
	}
	return Token{Kind: Ident, Lo: lo, Hi: l.cur.pos, Lexeme: name, Ident: name}, nil
}

// isStringPrefix reports whether name is a valid combination of the
// r/R raw marker and b/B bytes marker (each at most once), in either
// order: r, R, b, B, rb, Rb, rB, RB, br, Br, bR, BR.
func isStringPrefix(name string) bool {
	switch name {
	case "r", "R", "b", "B", "rb", "Rb", "rB", "RB", "br", "Br", "bR", "BR":
		return true
	default:
		return false
	}
}

// readNumber reads an integer or float literal. first is the rune already
// consumed (either a leading digit or the '.' of a dot-leading float).
func (l *Lexer) readNumber(lo int, first rune) (Token, error) {
	isFloat := first == '.'
	isHex := false

	if first == '0' && (l.cur.peekRune() == 'x' || l.cur.peekRune() == 'X') {
		isHex = true
		l.cur.readRune()
		for isHexDigit(l.cur.peekRune()) {
			l.cur.readRune()
		}
	} else {
		for isDigit(l.cur.peekRune()) {
			l.cur.readRune()
		}
		if !isFloat && l.cur.peekRune() == '.' {
			next := l.cur.peekRuneAt(1)
			switch {
			case isDigit(next):
				isFloat = true
				l.cur.readRune() // '.'
				for isDigit(l.cur.peekRune()) {
					l.cur.readRune()
				}
			case !isIdentStart(next) && next != '.':
				// trailing dot with no following digits, e.g. "1." - still
				// a float per the grammar (digits on at least one side of
				// '.'). A following identifier start means this is member
				// access on an int literal instead ("1.toString()" is not
				// valid CEL but the lexer still must not swallow the dot).
				isFloat = true
				l.cur.readRune()
			}
		}
		if !isHex && (l.cur.peekRune() == 'e' || l.cur.peekRune() == 'E') {
			save := l.cur.pos
			l.cur.readRune()
			if l.cur.peekRune() == '+' || l.cur.peekRune() == '-' {
				l.cur.readRune()
			}
			if isDigit(l.cur.peekRune()) {
				isFloat = true
				for isDigit(l.cur.peekRune()) {
					l.cur.readRune()
				}
			} else {
				l.cur.pos = save
			}
		}
	}

	lexeme := string(l.src[lo:l.cur.pos])

	if isFloat {
		f, err := strconv.ParseFloat(lexeme, 64)
		if err != nil {
			return Token{}, &InvalidTokenError{Pos: lo}
		}
		return Token{Kind: FloatLit, Lo: lo, Hi: l.cur.pos, Lexeme: lexeme, Float: f}, nil
	}

	unsigned := false
	if r := l.cur.peekRune(); r == 'u' || r == 'U' {
		unsigned = true
		l.cur.readRune()
	}

	digits := lexeme
	base := 10
	if isHex {
		base = 16
		digits = lexeme[2:]
	}
	hi := l.cur.pos
	fullLexeme := string(l.src[lo:hi])

	v, err := strconv.ParseUint(digits, base, 64)
	if err != nil {
		return Token{}, &InvalidTokenError{Pos: lo}
	}
	if unsigned {
		return Token{Kind: UIntLit, Lo: lo, Hi: hi, Lexeme: fullLexeme, UInt: v}, nil
	}
	return Token{Kind: IntLit, Lo: lo, Hi: hi, Lexeme: fullLexeme, Int: int64(v)}, nil
}

// readQuoted reads a string or bytes literal body, after the opening
// quote rune has already been consumed. It handles single-quoted,
// double-quoted, and triple-quoted ('''...'''/"""...""") forms.
func (l *Lexer) readQuoted(lo int, quote rune, raw, bytesLit bool) (Token, error) {
	triple := l.cur.peekRune() == quote && l.cur.peekRuneAt(1) == quote
	if triple {
		l.cur.readRune()
		l.cur.readRune()
	}

	var buf []byte
	for {
		r, size := l.cur.readRune()
		if size == 0 {
			return Token{}, &UnterminatedStringError{Lo: lo}
		}
		if r == quote {
			if !triple {
				break
			}
			if l.cur.peekRune() == quote && l.cur.peekRuneAt(1) == quote {
				l.cur.readRune()
				l.cur.readRune()
				break
			}
			buf = append(buf, string(r)...)
			continue
		}
		if r == '\n' && !triple {
			return Token{}, &UnterminatedStringError{Lo: lo}
		}
		if r == '\\' && !raw {
			decoded, err := l.readEscape()
			if err != nil {
				return Token{}, err
			}
			buf = append(buf, decoded...)
			continue
		}
		buf = append(buf, string(r)...)
	}

	hi := l.cur.pos
	lexeme := string(l.src[lo:hi])
	if bytesLit {
		return Token{Kind: BytesLit, Lo: lo, Hi: hi, Lexeme: lexeme, Bytes: buf}, nil
	}
	return Token{Kind: StringLit, Lo: lo, Hi: hi, Lexeme: lexeme, Str: string(buf)}, nil
}

// readEscape decodes one backslash escape sequence (the backslash itself
// has already been consumed) and returns its raw byte expansion.
func (l *Lexer) readEscape() ([]byte, error) {
	lo := l.cur.pos - 1
	r, size := l.cur.readRune()
	if size == 0 {
		return nil, &UnterminatedStringError{Lo: lo}
	}
	switch r {
	case 'a':
		return []byte{'\a'}, nil
	case 'b':
		return []byte{'\b'}, nil
	case 'f':
		return []byte{'\f'}, nil
	case 'n':
		return []byte{'\n'}, nil
	case 'r':
		return []byte{'\r'}, nil
	case 't':
		return []byte{'\t'}, nil
	case 'v':
		return []byte{'\v'}, nil
	case '\\':
		return []byte{'\\'}, nil
	case '\'':
		return []byte{'\''}, nil
	case '"':
		return []byte{'"'}, nil
	case '?':
		return []byte{'?'}, nil
	case 'x', 'X':
		return l.readFixedHexEscape(lo, 2, true)
	case 'u':
		return l.readFixedHexEscape(lo, 4, false)
	case 'U':
		return l.readFixedHexEscape(lo, 8, false)
	case '0', '1', '2', '3', '4', '5', '6', '7':
		return l.readOctalEscape(r)
	default:
		return nil, &InvalidTokenError{Pos: lo}
	}
}

func (l *Lexer) readFixedHexEscape(lo, n int, byteValued bool) ([]byte, error) {
	var digits strings.Builder
	for i := 0; i < n; i++ {
		r, size := l.cur.readRune()
		if size == 0 || !isHexDigit(r) {
			if size != 0 {
				l.cur.unreadRune(size)
			}
			return nil, &InvalidTokenError{Pos: lo}
		}
		digits.WriteRune(r)
	}
	v, err := strconv.ParseUint(digits.String(), 16, 32)
	if err != nil {
		return nil, &InvalidTokenError{Pos: lo}
	}
	if byteValued {
		return []byte{byte(v)}, nil
	}
	return []byte(string(rune(v))), nil
}

func (l *Lexer) readOctalEscape(first rune) ([]byte, error) {
	digits := []rune{first}
	for len(digits) < 3 {
		r := l.cur.peekRune()
		if r < '0' || r > '7' {
			break
		}
		l.cur.readRune()
		digits = append(digits, r)
	}
	v, err := strconv.ParseUint(string(digits), 8, 32)
	if err != nil {
		return nil, &InvalidTokenError{Pos: l.cur.pos}
	}
	return []byte{byte(v)}, nil
}
