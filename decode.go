// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package jsonc

import (
	"io"

	"go4.org/mem"
)

// DefaultMaxDepth is the default limit on the nesting depth of arrays,
// objects, and enums accepted by a Decoder.
const DefaultMaxDepth = 10000

// A Decoder interprets JSONC input on demand. Each Decode method consumes one
// value of the requested shape from the input and reports it to a Visitor.
// Composite values re-enter the same decoder for each element, so at most one
// position in the input is active at any time.
//
// A Decoder is not safe for concurrent use.
type Decoder struct {
	tok      *Tokenizer
	depth    int
	maxDepth int
	strict   bool // reject unknown struct fields
}

// NewDecoder constructs a Decoder that consumes input from r.
func NewDecoder(r io.Reader) *Decoder { return newDecoder(NewTokenizer(r)) }

// NewDecoderBytes constructs a Decoder that consumes data. String values
// without escapes are borrowed from data.
func NewDecoderBytes(data []byte) *Decoder { return newDecoder(NewTokenizerBytes(data)) }

// NewDecoderString constructs a Decoder that consumes s. String values
// without escapes are borrowed from s.
func NewDecoderString(s string) *Decoder { return newDecoder(newTokenizerRO(mem.S(s))) }

func newDecoder(t *Tokenizer) *Decoder { return &Decoder{tok: t, maxDepth: DefaultMaxDepth} }

// PreserveEscapes configures d to report string values with escape sequences
// copied verbatim (true) or decoded (false).
func (d *Decoder) PreserveEscapes(ok bool) { d.tok.PreserveEscapes(ok) }

// MaxDepth sets the maximum nesting depth of composite values. If n ≤ 0, the
// depth is not limited.
func (d *Decoder) MaxDepth(n int) { d.maxDepth = n }

// DisallowUnknownFields configures Decode to report an error (true) or skip
// (false) object keys that do not match any field of a struct.
func (d *Decoder) DisallowUnknownFields(ok bool) { d.strict = ok }

// Tokenizer returns the tokenizer underlying d.
func (d *Decoder) Tokenizer() *Tokenizer { return d.tok }

// Peek returns the next significant byte of input without consuming it.
// It returns io.EOF if no significant input remains.
func (d *Decoder) Peek() (Byte, error) { return d.tok.PeekSignificant() }

// peek returns the next significant byte of input, reporting the end of
// input as a syntax error for c.
func (d *Decoder) peek(c Construct) (Byte, error) {
	b, err := d.tok.PeekSignificant()
	if err == io.EOF {
		return b, syntaxErr(UnexpectedEOF, c, b.Pos, 0)
	}
	return b, err
}

// consume is as peek, but advances past the byte.
func (d *Decoder) consume(c Construct) (Byte, error) {
	b, err := d.tok.ConsumeSignificant()
	if err == io.EOF {
		return b, syntaxErr(UnexpectedEOF, c, b.Pos, 0)
	}
	return b, err
}

// expect consumes the next significant byte and checks that it is want.
func (d *Decoder) expect(c Construct, want byte) (Byte, error) {
	b, err := d.consume(c)
	if err == nil && b.B != want {
		err = syntaxErr(UnexpectedByte, c, b.Pos, b.B)
	}
	return b, err
}

// Finish reports whether the input has been completely consumed. It
// succeeds if only whitespace and comments remain, and otherwise reports an
// ExpectedEOF error at the first significant byte.
func (d *Decoder) Finish() error {
	b, err := d.tok.ConsumeSignificant()
	if err == io.EOF {
		return nil
	} else if err != nil {
		return err
	}
	return syntaxErr(ExpectedEOF, Document, b.Pos, b.B)
}

// DecodeAny decodes a value of any type, chosen by the next significant byte.
func (d *Decoder) DecodeAny(v Visitor) error {
	b, err := d.peek(Value)
	if err != nil {
		return err
	}
	switch {
	case b.B == 'n':
		return d.DecodeNull(v)
	case b.B == 't' || b.B == 'f':
		return d.DecodeBool(v)
	case isNumStart(b.B):
		nb, err := d.tok.ParseNumber()
		if err != nil {
			return err
		}
		return locate(b.Pos, d.visitNumber(nb, v))
	case b.B == '"':
		return d.DecodeString(v)
	case b.B == '[':
		return d.DecodeSeq(v)
	case b.B == '{':
		return d.DecodeMap(v)
	default:
		return syntaxErr(UnexpectedByte, Value, b.Pos, b.B)
	}
}

func (d *Decoder) visitNumber(nb NumberBuilder, v Visitor) error {
	if nv, ok := v.(NumberVisitor); ok {
		return nv.VisitNumber(nb)
	}
	if nb.Kind() == Integer {
		if z, err := nb.Int(64); err == nil {
			return v.VisitInt(z)
		} else if u, err := nb.Uint(64); err == nil {
			return v.VisitUint(u)
		}
	}
	f, err := nb.Float(64)
	if err != nil {
		return err
	}
	return v.VisitFloat(f)
}

// DecodeBool decodes a Boolean constant, true or false.
func (d *Decoder) DecodeBool(v Visitor) error {
	b, err := d.peek(Bool)
	if err != nil {
		return err
	}
	switch b.B {
	case 't':
		if err := d.tok.ParseIdent("true"); err != nil {
			return err
		}
		return locate(b.Pos, v.VisitBool(true))
	case 'f':
		if err := d.tok.ParseIdent("false"); err != nil {
			return err
		}
		return locate(b.Pos, v.VisitBool(false))
	default:
		return syntaxErr(UnexpectedByte, Bool, b.Pos, b.B)
	}
}

// DecodeInt decodes a signed integer that fits in the given number of bits
// (0 means the size of int).
func (d *Decoder) DecodeInt(bits int, v Visitor) error {
	nb, err := d.tok.ParseNumber()
	if err != nil {
		return err
	}
	z, err := nb.Int(bits)
	if err != nil {
		return err
	}
	return locate(nb.Range.Start, v.VisitInt(z))
}

// DecodeUint decodes an unsigned integer that fits in the given number of
// bits (0 means the size of uint).
func (d *Decoder) DecodeUint(bits int, v Visitor) error {
	nb, err := d.tok.ParseNumber()
	if err != nil {
		return err
	}
	u, err := nb.Uint(bits)
	if err != nil {
		return err
	}
	return locate(nb.Range.Start, v.VisitUint(u))
}

// DecodeFloat decodes a floating-point number of the given bit size (32 or
// 64). Integer literals are accepted.
func (d *Decoder) DecodeFloat(bits int, v Visitor) error {
	nb, err := d.tok.ParseNumber()
	if err != nil {
		return err
	}
	f, err := nb.Float(bits)
	if err != nil {
		return err
	}
	return locate(nb.Range.Start, v.VisitFloat(f))
}

// DecodeString decodes a quoted string. The visitor receives a borrowed
// value if the string was read from a byte slice and required no decoding.
func (d *Decoder) DecodeString(v Visitor) error {
	b, err := d.peek(StringStart)
	if err != nil {
		return err
	} else if b.B != '"' {
		return syntaxErr(UnexpectedByte, StringStart, b.Pos, b.B)
	}
	s, err := d.tok.ParseString()
	if err != nil {
		return err
	}
	return locate(b.Pos, v.VisitString(s))
}

// DecodeBytes decodes a quoted string and reports its content as a slice of
// bytes owned by the visitor.
func (d *Decoder) DecodeBytes(v Visitor) error {
	b, err := d.peek(StringStart)
	if err != nil {
		return err
	} else if b.B != '"' {
		return syntaxErr(UnexpectedByte, StringStart, b.Pos, b.B)
	}
	s, err := d.tok.ParseString()
	if err != nil {
		return err
	}
	return locate(b.Pos, v.VisitBytes(s.Bytes()))
}

// DecodeOption decodes an optional value. If the next value is null, the
// visitor's VisitNull method is called. Otherwise, VisitSome is called and
// the visitor must decode the value.
func (d *Decoder) DecodeOption(v Visitor) error {
	b, err := d.peek(Value)
	if err != nil {
		return err
	} else if b.B == 'n' {
		if err := d.tok.ParseIdent("null"); err != nil {
			return err
		}
		return locate(b.Pos, v.VisitNull())
	}
	return locate(b.Pos, v.VisitSome(d))
}

// DecodeNull decodes the constant null.
func (d *Decoder) DecodeNull(v Visitor) error {
	b, err := d.peek(Null)
	if err != nil {
		return err
	} else if b.B != 'n' {
		return syntaxErr(UnexpectedByte, Null, b.Pos, b.B)
	}
	if err := d.tok.ParseIdent("null"); err != nil {
		return err
	}
	return locate(b.Pos, v.VisitNull())
}

// DecodeSeq decodes an array. The visitor's VisitSeq method receives a
// SeqAccess to read the elements.
func (d *Decoder) DecodeSeq(v Visitor) error {
	open, err := d.expect(ArrayStart, '[')
	if err != nil {
		return err
	} else if err := d.enter(open.Pos, ArrayStart); err != nil {
		return err
	}
	defer d.leave()
	if err := locate(open.Pos, v.VisitSeq(&SeqAccess{d: d})); err != nil {
		return err
	}
	_, err = d.expect(ArrayEnd, ']')
	return err
}

// DecodeMap decodes an object. The visitor's VisitMap method receives a
// MapAccess to read the members.
func (d *Decoder) DecodeMap(v Visitor) error {
	open, err := d.expect(ObjectStart, '{')
	if err != nil {
		return err
	} else if err := d.enter(open.Pos, ObjectStart); err != nil {
		return err
	}
	defer d.leave()
	if err := locate(open.Pos, v.VisitMap(&MapAccess{d: d})); err != nil {
		return err
	}
	_, err = d.expect(ObjectEnd, '}')
	return err
}

// DecodeStruct decodes a record. An object is decoded as by DecodeMap, and
// an array of positional field values as by DecodeSeq.
func (d *Decoder) DecodeStruct(v Visitor) error {
	b, err := d.peek(ObjectStart)
	if err != nil {
		return err
	}
	switch b.B {
	case '{':
		return d.DecodeMap(v)
	case '[':
		return d.DecodeSeq(v)
	default:
		return syntaxErr(UnexpectedByte, ObjectStart, b.Pos, b.B)
	}
}

// DecodeEnum decodes a tagged union encoded as an object with a single
// member, whose key names the variant:
//
//	{"Variant": payload}
//
// The visitor's VisitEnum method receives an EnumAccess to read the variant
// name and its payload.
func (d *Decoder) DecodeEnum(v Visitor) error {
	open, err := d.expect(EnumStart, '{')
	if err != nil {
		return err
	} else if err := d.enter(open.Pos, EnumStart); err != nil {
		return err
	}
	defer d.leave()
	if err := locate(open.Pos, v.VisitEnum(&EnumAccess{d: d})); err != nil {
		return err
	}
	_, err = d.expect(EnumEnd, '}')
	return err
}

// DecodeIgnored decodes and discards a value of any type.
func (d *Decoder) DecodeIgnored() error { return d.DecodeAny(ignore{}) }

func (d *Decoder) enter(pos Position, c Construct) error {
	d.depth++
	if d.maxDepth > 0 && d.depth > d.maxDepth {
		d.depth--
		return syntaxErr(DepthExceeded, c, pos, 0)
	}
	return nil
}

func (d *Decoder) leave() { d.depth-- }
