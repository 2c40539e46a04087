// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package escape implements the quoting of string values for JSONC output.
package escape

import (
	"unicode/utf8"

	"go4.org/mem"
)

var controlEsc = [...]byte{
	'\b': 'b',
	'\f': 'f',
	'\n': 'n',
	'\r': 'r',
	'\t': 't',
	' ':  ' ', // sentinel
}

var hexDigit = []byte("0123456789abcdef")

// AppendQuote appends src to dst as a double-quoted string literal, with
// control characters, quotation marks, and backslashes escaped. Invalid UTF-8
// sequences are replaced by U+FFFD.
func AppendQuote(dst []byte, src mem.RO) []byte {
	dst = append(dst, '"')
	for src.Len() != 0 {
		r, n := mem.DecodeRune(src)
		src = src.SliceFrom(n)
		if r < utf8.RuneSelf {
			if r < ' ' {
				if b := controlEsc[r]; b != 0 {
					dst = append(dst, '\\', b)
				} else {
					dst = append(dst, '\\', 'u', '0', '0', hexDigit[int(r>>4)], hexDigit[int(r&15)])
				}
			} else if r == '\\' || r == '"' {
				dst = append(dst, '\\', byte(r))
			} else {
				dst = append(dst, byte(r))
			}
			continue
		}

		switch r {
		case utf8.RuneError: // replacement rune, or an invalid sequence
			dst = append(dst, `\ufffd`...)
		case '\u2028': // line separator
			dst = append(dst, `\u2028`...)
		case '\u2029': // paragraph separator
			dst = append(dst, `\u2029`...)
		default:
			dst = utf8.AppendRune(dst, r)
		}
	}
	return append(dst, '"')
}
