// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jsonc

import (
	"io"

	"github.com/creachadair/jsonc/internal/escape"
	"go4.org/mem"
)

// Quote encodes src as a JSONC string value. The contents are escaped and
// double quotation marks are added.
func Quote(src string) string { return string(escape.AppendQuote(nil, mem.S(src))) }

// Unquote decodes a JSONC string value. Double quotation marks are removed,
// and escape sequences are replaced with their unescaped equivalents. The
// input must consist of exactly one string literal, optionally surrounded by
// whitespace and comments.
func Unquote(src string) ([]byte, error) {
	t := newTokenizerRO(mem.S(src))
	b, err := t.PeekSignificant()
	if err == io.EOF {
		return nil, syntaxErr(UnexpectedEOF, StringStart, b.Pos, 0)
	} else if err != nil {
		return nil, err
	} else if b.B != '"' {
		return nil, syntaxErr(UnexpectedByte, StringStart, b.Pos, b.B)
	}
	s, err := t.ParseString()
	if err != nil {
		return nil, err
	}
	if c, err := t.PeekSignificant(); err == nil {
		return nil, syntaxErr(ExpectedEOF, Document, c.Pos, c.B)
	} else if err != io.EOF {
		return nil, err
	}
	return s.Bytes(), nil
}
