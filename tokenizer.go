// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package jsonc

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"go4.org/mem"
)

// A Byte is a single byte of input annotated with its location.
type Byte struct {
	Pos Position
	Off int  // offset from the start of the input, 0-based
	B   byte // the byte value
}

// StringValue is the decoded content of a string literal.
//
// If Borrowed is true, Text is a view of the original input and no escape
// sequence was transformed. Otherwise, Text refers to a buffer that is not
// shared with the input. Decoded reports whether any escape sequence was
// transformed; a string without escapes read from an io.Reader is neither
// borrowed nor decoded.
type StringValue struct {
	Text     mem.RO
	Borrowed bool
	Decoded  bool
}

// String returns a copy of the text of s.
func (s StringValue) String() string { return s.Text.StringCopy() }

// Bytes returns a copy of the text of s.
func (s StringValue) Bytes() []byte { return mem.Append(make([]byte, 0, s.Text.Len()), s.Text) }

// A Tokenizer reads lexical elements of JSONC from an input stream with one
// byte of lookahead. Whitespace and comments are insignificant.
type Tokenizer struct {
	pr     posReader
	input  mem.RO // the complete input, if available; enables borrowing
	hasIn  bool
	raw    bool // copy escape sequences verbatim
	peeked bool
	cur    Byte
}

// NewTokenizer constructs a Tokenizer that consumes input from r.
// Strings read from r are never borrowed.
func NewTokenizer(r io.Reader) *Tokenizer {
	br, ok := r.(io.ByteReader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &Tokenizer{pr: posReader{r: br}}
}

// NewTokenizerBytes constructs a Tokenizer that consumes data.  String
// literals without escapes are returned as views of data.
func NewTokenizerBytes(data []byte) *Tokenizer { return newTokenizerRO(mem.B(data)) }

func newTokenizerRO(m mem.RO) *Tokenizer {
	return &Tokenizer{pr: posReader{r: &roReader{m: m}}, input: m, hasIn: true}
}

// PreserveEscapes configures t to copy escape sequences in string literals
// verbatim (true) or decode them (false). Escape sequences are checked for
// validity either way. When escapes are preserved, every string read from a
// byte slice is borrowed.
func (t *Tokenizer) PreserveEscapes(ok bool) { t.raw = ok }

// Pos returns the position of the next unconsumed byte of input, or the
// position just past the end of the input.
func (t *Tokenizer) Pos() Position {
	if t.peeked {
		return t.cur.Pos
	}
	return t.pr.pos
}

// Peek returns the next byte of input without consuming it.
// At the end of the input, Peek returns io.EOF.
func (t *Tokenizer) Peek() (Byte, error) {
	if !t.peeked {
		pos, off, b, err := t.pr.next()
		if err == io.EOF {
			return Byte{Pos: pos, Off: off}, err
		} else if err != nil {
			return Byte{Pos: pos, Off: off}, fmt.Errorf("read input at %s: %w", pos, err)
		}
		t.cur = Byte{Pos: pos, Off: off, B: b}
		t.peeked = true
	}
	return t.cur, nil
}

// Consume returns the next byte of input and advances past it.
// At the end of the input, Consume returns io.EOF.
func (t *Tokenizer) Consume() (Byte, error) {
	c, err := t.Peek()
	if err == nil {
		t.peeked = false
	}
	return c, err
}

// PeekSignificant discards whitespace and comments, and returns the next
// significant byte without consuming it. At the end of the input it returns
// io.EOF.
func (t *Tokenizer) PeekSignificant() (Byte, error) {
	for {
		c, err := t.Peek()
		if err != nil {
			return c, err
		}
		switch {
		case isSpace(c.B):
			t.peeked = false
		case c.B == '/':
			t.peeked = false
			if err := t.skipComment(); err != nil {
				return c, err
			}
		default:
			return c, nil
		}
	}
}

// ConsumeSignificant discards whitespace and comments, and returns the next
// significant byte, advancing past it. At the end of the input it returns
// io.EOF.
func (t *Tokenizer) ConsumeSignificant() (Byte, error) {
	c, err := t.PeekSignificant()
	if err == nil {
		t.peeked = false
	}
	return c, err
}

// skipComment discards the remainder of a comment whose leading "/" has
// already been consumed.
func (t *Tokenizer) skipComment() error {
	c, err := t.Consume()
	if err == io.EOF {
		return syntaxErr(UnexpectedEOF, Comment, c.Pos, 0)
	} else if err != nil {
		return err
	}
	switch c.B {
	case '/': // line comment to LF
		for {
			c, err := t.Consume()
			if err == io.EOF || (err == nil && c.B == '\n') {
				return nil
			} else if err != nil {
				return err
			}
		}

	case '*': // block comment
		var star bool
		for {
			c, err := t.Consume()
			if err == io.EOF {
				return syntaxErr(UnexpectedEOF, Comment, c.Pos, 0)
			} else if err != nil {
				return err
			} else if star && c.B == '/' {
				return nil
			}
			star = c.B == '*'
		}

	default:
		return syntaxErr(InvalidComment, Comment, c.Pos, c.B)
	}
}

// FoldToken discards insignificant input, then consumes bytes for as long as
// keep reports true for the bytes accumulated so far and the next byte.  It
// returns the accumulated bytes and their location. If no significant input
// remains, FoldToken reports an UnexpectedEOF error.
func (t *Tokenizer) FoldToken(keep func(acc []byte, next byte) bool) ([]byte, PosRange, error) {
	first, err := t.PeekSignificant()
	if err == io.EOF {
		return nil, PosRange{}, syntaxErr(UnexpectedEOF, Ident, first.Pos, 0)
	} else if err != nil {
		return nil, PosRange{}, err
	}
	rng := PosRange{Start: first.Pos, End: first.Pos}
	var buf []byte
	for {
		c, err := t.Peek()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, rng, err
		} else if !keep(buf, c.B) {
			break
		}
		t.peeked = false
		buf = append(buf, c.B)
		rng.End = c.Pos
	}
	return buf, rng, nil
}

// maxIdentLen bounds the length of a folded identifier. The longest valid
// identifier is "false".
const maxIdentLen = 10

// ParseIdent consumes an identifier and reports an error if it is not equal
// to want.
func (t *Tokenizer) ParseIdent(want string) error {
	got, rng, err := t.FoldToken(func(acc []byte, next byte) bool {
		return len(acc) < maxIdentLen && (isAlnum(next) || strings.IndexByte(want, next) >= 0)
	})
	if err != nil {
		return err
	} else if !mem.B(got).EqualString(want) {
		return &SyntaxError{Kind: UnexpectedIdent, Construct: Ident, Range: rng, Text: got, Want: want}
	}
	return nil
}

// ParseString consumes a quoted string literal and returns its content with
// escape sequences decoded.
func (t *Tokenizer) ParseString() (StringValue, error) {
	open, err := t.ConsumeSignificant()
	if err == io.EOF {
		return StringValue{}, syntaxErr(UnexpectedEOF, StringStart, open.Pos, 0)
	} else if err != nil {
		return StringValue{}, err
	} else if open.B != '"' {
		return StringValue{}, syntaxErr(UnexpectedByte, StringStart, open.Pos, open.B)
	}

	// While borrowing, buf is not used; the content is the span of input
	// between the quotes. The first transformed escape ends borrowing.
	start := open.Off + 1
	borrow := t.hasIn
	decoded := false
	var buf []byte
	for {
		c, err := t.Peek()
		if err == io.EOF {
			return StringValue{}, syntaxErr(UnexpectedEOF, StringEnd, c.Pos, 0)
		} else if err != nil {
			return StringValue{}, err
		}
		switch {
		case c.B == '"':
			t.peeked = false
			if borrow {
				return StringValue{Text: t.input.SliceFrom(start).SliceTo(c.Off - start), Borrowed: true}, nil
			}
			return StringValue{Text: mem.B(buf), Decoded: decoded}, nil

		case c.B == '\\':
			decoded = decoded || !t.raw
			if borrow && !t.raw {
				borrow = false
				buf = mem.Append(buf, t.input.SliceFrom(start).SliceTo(c.Off-start))
			}
			out, err := t.parseEscape(buf)
			if err != nil {
				return StringValue{}, err
			} else if !borrow {
				buf = out
			}

		case c.B < ' ':
			return StringValue{}, syntaxErr(ControlCharacter, StringEnd, c.Pos, c.B)

		default:
			t.peeked = false
			if !borrow {
				buf = append(buf, c.B)
			}
		}
	}
}

// parseEscape consumes a backslash escape sequence and appends its decoding
// to dst. In raw mode the sequence is appended verbatim.
func (t *Tokenizer) parseEscape(dst []byte) ([]byte, error) {
	bs, err := t.Consume()
	if err == io.EOF {
		return dst, syntaxErr(UnexpectedEOF, Escape, bs.Pos, 0)
	} else if err != nil {
		return dst, err
	} else if bs.B != '\\' {
		return dst, syntaxErr(UnexpectedByte, Escape, bs.Pos, bs.B)
	}
	c, err := t.Consume()
	if err == io.EOF {
		return dst, syntaxErr(UnexpectedEOF, Escape, c.Pos, 0)
	} else if err != nil {
		return dst, err
	}
	return t.escapeBody(dst, c)
}

// escapeBody decodes the escape sequence whose first byte after the
// backslash is c.
func (t *Tokenizer) escapeBody(dst []byte, c Byte) ([]byte, error) {
	var out byte
	switch c.B {
	case '"', '\\', '/':
		out = c.B
	case 'b':
		out = '\b'
	case 'f':
		out = '\f'
	case 'n':
		out = '\n'
	case 'r':
		out = '\r'
	case 't':
		out = '\t'
	case 'u':
		r, hex, err := t.readHex4()
		if err != nil {
			return dst, err
		} else if t.raw {
			return append(append(dst, '\\', 'u'), hex[:]...), nil
		}
		return t.appendCodePoint(dst, r)
	default:
		return dst, syntaxErr(InvalidEscape, Escape, c.Pos, c.B)
	}
	if t.raw {
		return append(dst, '\\', c.B), nil
	}
	return append(dst, out), nil
}

// appendCodePoint appends the UTF-8 encoding of r to dst. A high surrogate
// immediately followed by a \u escape for a low surrogate is combined into a
// single code point. Unpaired surrogates are encoded as U+FFFD.
func (t *Tokenizer) appendCodePoint(dst []byte, r rune) ([]byte, error) {
	if r < 0xd800 || r >= 0xdc00 {
		return utf8.AppendRune(dst, r), nil // includes lone low surrogates
	}
	c, err := t.Peek()
	if err == io.EOF || (err == nil && c.B != '\\') {
		return utf8.AppendRune(dst, utf8.RuneError), nil
	} else if err != nil {
		return dst, err
	}
	t.peeked = false
	e, err := t.Consume()
	if err == io.EOF {
		return dst, syntaxErr(UnexpectedEOF, Escape, e.Pos, 0)
	} else if err != nil {
		return dst, err
	}
	if e.B != 'u' {
		return t.escapeBody(utf8.AppendRune(dst, utf8.RuneError), e)
	}
	lo, _, err := t.readHex4()
	if err != nil {
		return dst, err
	}
	if pair := utf16.DecodeRune(r, lo); pair != utf8.RuneError {
		return utf8.AppendRune(dst, pair), nil
	}
	return t.appendCodePoint(utf8.AppendRune(dst, utf8.RuneError), lo)
}

// readHex4 consumes exactly 4 hexadecimal digits and returns their value
// along with the digits as written.
func (t *Tokenizer) readHex4() (rune, [4]byte, error) {
	var r rune
	var hex [4]byte
	for i := range hex {
		c, err := t.Consume()
		if err == io.EOF {
			return 0, hex, syntaxErr(UnexpectedEOF, Unicode, c.Pos, 0)
		} else if err != nil {
			return 0, hex, err
		}
		v, ok := hexValue(c.B)
		if !ok {
			return 0, hex, syntaxErr(InvalidUnicode, Unicode, c.Pos, c.B)
		}
		hex[i] = c.B
		r = r<<4 | rune(v)
	}
	return r, hex, nil
}

// ParseNumber consumes a number literal and returns a builder that can
// convert it to a concrete numeric type.
func (t *Tokenizer) ParseNumber() (NumberBuilder, error) {
	first, err := t.PeekSignificant()
	if err == io.EOF {
		return NumberBuilder{}, syntaxErr(UnexpectedEOF, Number, first.Pos, 0)
	} else if err != nil {
		return NumberBuilder{}, err
	} else if !isNumStart(first.B) {
		return NumberBuilder{}, syntaxErr(UnexpectedByte, Number, first.Pos, first.B)
	}
	t.peeked = false
	nb := NumberBuilder{Range: PosRange{Start: first.Pos, End: first.Pos}}
	nb.push(first)

	// If there is a leading sign, we need at least one digit. Otherwise, we
	// already have one in first.
	if first.B == '-' {
		if err := t.requireDigit(&nb); err != nil {
			return nb, err
		}
	}
	if _, err := t.readDigits(&nb); err != nil {
		return nb, err
	}
	if hasExtraLeadingZeroes(nb.buf) {
		return nb, &SyntaxError{Kind: InvalidNumber, Construct: Number, Range: nb.Range, Text: nb.buf}
	}

	// Fraction: "." followed by at least one digit.
	if c, err := t.Peek(); err == nil && c.B == '.' {
		t.peeked = false
		nb.visitFractionDot(c)
		if err := t.requireDigit(&nb); err != nil {
			return nb, err
		} else if _, err := t.readDigits(&nb); err != nil {
			return nb, err
		}
	} else if err != nil && err != io.EOF {
		return nb, err
	}

	// Exponent: "e" or "E", an optional sign, and at least one digit.
	if c, err := t.Peek(); err == nil && (c.B == 'e' || c.B == 'E') {
		t.peeked = false
		nb.visitExponent(c)
		if s, err := t.Peek(); err == nil && (s.B == '+' || s.B == '-') {
			t.peeked = false
			nb.push(s)
		}
		if err := t.requireDigit(&nb); err != nil {
			return nb, err
		} else if _, err := t.readDigits(&nb); err != nil {
			return nb, err
		}
	} else if err != nil && err != io.EOF {
		return nb, err
	}
	return nb, nil
}

func (t *Tokenizer) requireDigit(nb *NumberBuilder) error {
	c, err := t.Peek()
	if err == io.EOF {
		return syntaxErr(UnexpectedEOF, Number, c.Pos, 0)
	} else if err != nil {
		return err
	} else if !isDigit(c.B) {
		return syntaxErr(UnexpectedByte, Number, c.Pos, c.B)
	}
	t.peeked = false
	nb.push(c)
	return nil
}

// readDigits consumes decimal digits into nb until EOF or a non-digit, and
// reports how many were read.
func (t *Tokenizer) readDigits(nb *NumberBuilder) (int, error) {
	var nr int
	for {
		c, err := t.Peek()
		if err == io.EOF || (err == nil && !isDigit(c.B)) {
			return nr, nil
		} else if err != nil {
			return nr, err
		}
		t.peeked = false
		nb.push(c)
		nr++
	}
}

// roReader implements io.ByteReader over a read-only view.
type roReader struct {
	m mem.RO
	i int
}

func (r *roReader) ReadByte() (byte, error) {
	if r.i >= r.m.Len() {
		return 0, io.EOF
	}
	b := r.m.At(r.i)
	r.i++
	return b, nil
}

// isSpace reports whether ch is ASCII whitespace.
func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' || ch == '\f'
}

func isNumStart(ch byte) bool { return ch == '-' || isDigit(ch) }
func isDigit(ch byte) bool    { return '0' <= ch && ch <= '9' }

func isAlnum(ch byte) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func hexValue(ch byte) (byte, bool) {
	switch {
	case '0' <= ch && ch <= '9':
		return ch - '0', true
	case 'a' <= ch && ch <= 'f':
		return ch - 'a' + 10, true
	case 'A' <= ch && ch <= 'F':
		return ch - 'A' + 10, true
	}
	return 0, false
}

// hasExtraLeadingZeroes reports whether the representation of an integer in
// buf has redundant leading zeroes, disallowed by the grammar.
//
// OK: 0, 0.1, -1.0, -0.1 are all OK.
// Bad: -01, 01.2, -01.0, 00.1.
func hasExtraLeadingZeroes(buf []byte) bool {
	if buf[0] == '-' {
		buf = buf[1:] // skip leading sign
	}
	if buf[0] == '0' {
		// A leading zero is OK if it's the only digit.
		return len(buf) > 1
	}
	return false
}
