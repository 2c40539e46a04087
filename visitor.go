// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package jsonc

import "go4.org/mem"

// A Visitor receives a value from a Decoder. For each value, the decoder
// calls exactly one method of the visitor, chosen by the shape the caller
// requested and the next significant byte of the input.
//
// For composite values, the decoder passes an access adapter that the
// visitor uses to pull the elements, members, or variant payload. The
// adapter is only valid for the duration of the call.
type Visitor interface {
	VisitBool(bool) error
	VisitInt(int64) error
	VisitUint(uint64) error
	VisitFloat(float64) error
	VisitString(StringValue) error
	VisitBytes([]byte) error

	// VisitNull is called for null, and for the absent case of an optional.
	VisitNull() error

	// VisitSome is called for the present case of an optional. The visitor
	// should decode the value from d.
	VisitSome(d *Decoder) error

	VisitSeq(*SeqAccess) error
	VisitMap(*MapAccess) error
	VisitEnum(*EnumAccess) error
}

// NumberVisitor is an optional interface that a Visitor may implement to
// receive number literals from DecodeAny without conversion. If a visitor
// does not implement this interface, DecodeAny converts integers to int64
// (or uint64 if out of range) and other numbers to float64.
type NumberVisitor interface {
	VisitNumber(NumberBuilder) error
}

// Unexpected is a Visitor that rejects every value with a *TypeError. Embed
// it in a visitor that accepts only some shapes. The string is a description
// of the expected value, used in error messages.
type Unexpected string

func (u Unexpected) reject(got string) error { return &TypeError{Want: string(u), Got: got} }

func (u Unexpected) VisitBool(bool) error          { return u.reject("boolean") }
func (u Unexpected) VisitInt(int64) error          { return u.reject("integer") }
func (u Unexpected) VisitUint(uint64) error        { return u.reject("integer") }
func (u Unexpected) VisitFloat(float64) error      { return u.reject("float") }
func (u Unexpected) VisitString(StringValue) error { return u.reject("string") }
func (u Unexpected) VisitBytes([]byte) error       { return u.reject("bytes") }
func (u Unexpected) VisitNull() error              { return u.reject("null") }
func (u Unexpected) VisitSome(*Decoder) error      { return u.reject("optional value") }
func (u Unexpected) VisitSeq(*SeqAccess) error     { return u.reject("array") }
func (u Unexpected) VisitMap(*MapAccess) error     { return u.reject("object") }
func (u Unexpected) VisitEnum(*EnumAccess) error   { return u.reject("enum") }

// TextVisitor returns a Visitor that accepts a string and stores a copy of
// its text in *p.
func TextVisitor(p *string) Visitor { return textVisitor{Unexpected("string"), p} }

type textVisitor struct {
	Unexpected
	p *string
}

func (v textVisitor) VisitString(s StringValue) error { *v.p = s.String(); return nil }

// BorrowVisitor returns a Visitor that accepts a string only if it is
// borrowed from the input, and stores the view in *p.
func BorrowVisitor(p *mem.RO) Visitor { return borrowVisitor{Unexpected("borrowed string"), p} }

type borrowVisitor struct {
	Unexpected
	p *mem.RO
}

func (v borrowVisitor) VisitString(s StringValue) error {
	if !s.Borrowed {
		return v.reject(unborrowed(s))
	}
	*v.p = s.Text
	return nil
}

// unborrowed describes a string that is not borrowed from the input.
func unborrowed(s StringValue) string {
	if s.Decoded {
		return "string with escapes"
	}
	return "string read from a stream"
}

// NullVisitor is a Visitor that accepts only null.
var NullVisitor Visitor = nullVisitor{Unexpected("null")}

type nullVisitor struct{ Unexpected }

func (nullVisitor) VisitNull() error { return nil }

// ignore is a Visitor that accepts and discards any value.
type ignore struct{}

func (ignore) VisitBool(bool) error            { return nil }
func (ignore) VisitInt(int64) error            { return nil }
func (ignore) VisitUint(uint64) error          { return nil }
func (ignore) VisitFloat(float64) error        { return nil }
func (ignore) VisitNumber(NumberBuilder) error { return nil }
func (ignore) VisitString(StringValue) error   { return nil }
func (ignore) VisitBytes([]byte) error         { return nil }
func (ignore) VisitNull() error                { return nil }
func (ignore) VisitSome(d *Decoder) error      { return d.DecodeIgnored() }

func (ignore) VisitSeq(s *SeqAccess) error {
	for {
		ok, err := s.Next((*Decoder).DecodeIgnored)
		if err != nil || !ok {
			return err
		}
	}
}

func (ignore) VisitMap(m *MapAccess) error {
	for {
		ok, err := m.NextKey((*Decoder).DecodeIgnored)
		if err != nil || !ok {
			return err
		} else if err := m.NextValue((*Decoder).DecodeIgnored); err != nil {
			return err
		}
	}
}

func (ignore) VisitEnum(e *EnumAccess) error {
	if err := e.Variant((*Decoder).DecodeIgnored); err != nil {
		return err
	}
	return e.Newtype((*Decoder).DecodeIgnored)
}
