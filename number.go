// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package jsonc

import "strconv"

// NumberKind classifies the text of a number literal.
type NumberKind byte

const (
	Integer NumberKind = iota // no fraction or exponent
	Float                     // with fraction and/or exponent
)

func (k NumberKind) String() string {
	if k == Float {
		return "float"
	}
	return "integer"
}

// A NumberBuilder accumulates the text of a number literal as it is read,
// and converts it to a concrete numeric type on request.
type NumberBuilder struct {
	Range PosRange // location of the literal

	buf  []byte
	kind NumberKind
}

func (n *NumberBuilder) push(c Byte) { n.buf = append(n.buf, c.B); n.Range.End = c.Pos }

func (n *NumberBuilder) visitFractionDot(c Byte) { n.kind = Float; n.push(c) }

func (n *NumberBuilder) visitExponent(c Byte) { n.kind = Float; n.push(c) }

// Kind reports whether n is an integer or a floating-point literal.
func (n NumberBuilder) Kind() NumberKind { return n.kind }

// Text returns the text of the literal as written.
func (n NumberBuilder) Text() string { return string(n.buf) }

// Int converts n to a signed integer of the given bit size (0 means int).
func (n NumberBuilder) Int(bits int) (int64, error) {
	v, err := strconv.ParseInt(string(n.buf), 10, bits)
	return v, n.checkErr(err)
}

// Uint converts n to an unsigned integer of the given bit size (0 means uint).
func (n NumberBuilder) Uint(bits int) (uint64, error) {
	v, err := strconv.ParseUint(string(n.buf), 10, bits)
	return v, n.checkErr(err)
}

// Float converts n to a floating-point value of the given bit size (32 or 64).
func (n NumberBuilder) Float(bits int) (float64, error) {
	v, err := strconv.ParseFloat(string(n.buf), bits)
	return v, n.checkErr(err)
}

func (n NumberBuilder) checkErr(err error) error {
	if err == nil {
		return nil
	}
	return &SyntaxError{Kind: InvalidNumber, Construct: Number, Range: n.Range, Text: n.buf, err: err}
}
