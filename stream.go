// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jsonc

import "io"

// A Handler handles events from parsing an input stream. If a method reports
// an error, parsing stops and that error is returned to the caller.
// The parser ensures objects and arrays are correctly balanced.
type Handler interface {
	// Begin a new object, whose open brace is at pos.
	BeginObject(pos Position) error

	// End the most-recently-opened object, whose close brace is at pos.
	EndObject(pos Position) error

	// Begin a new array, whose open bracket is at pos.
	BeginArray(pos Position) error

	// End the most-recently-opened array, whose close bracket is at pos.
	EndArray(pos Position) error

	// Begin a new object member with the given key, whose opening quote is
	// at pos. The key has escapes decoded.
	BeginMember(key string, pos Position) error

	// End the current object member.
	EndMember() error

	// Report a scalar value at pos. The concrete type of v is bool, string,
	// NumberBuilder, or nil for null.
	Value(v any, pos Position) error

	// EndOfInput reports the end of the input stream, at pos.
	EndOfInput(pos Position)
}

// Stream is a stream parser that consumes input and delivers events to a
// Handler corresponding with the structure of the input.
type Stream struct {
	d *Decoder
}

// NewStream constructs a new Stream that consumes input from r.
func NewStream(r io.Reader) *Stream { return &Stream{d: NewDecoder(r)} }

// NewStreamWithDecoder constructs a new Stream that consumes input from d.
func NewStreamWithDecoder(d *Decoder) *Stream { return &Stream{d: d} }

// Decoder returns the decoder underlying s.
func (s *Stream) Decoder() *Decoder { return s.d }

// Parse parses the input stream and delivers events to h until either an error
// occurs or the input is exhausted. The input may contain any number of
// values. In case of a syntax error, the returned error has type
// [*SyntaxError].
func (s *Stream) Parse(h Handler) error {
	for {
		if err := s.ParseOne(h); err == io.EOF {
			return nil
		} else if err != nil {
			return err
		}
	}
}

// ParseOne parses a single value from the input stream and delivers events to
// h until the value is complete or an error occurs. If no further value is
// available from the input, ParseOne calls h.EndOfInput and returns io.EOF.
// In case of a syntax error, the returned error has type [*SyntaxError].
func (s *Stream) ParseOne(h Handler) error {
	b, err := s.d.Peek()
	if err == io.EOF {
		h.EndOfInput(b.Pos)
		return err
	} else if err != nil {
		return err
	}
	return s.d.DecodeAny(streamVisitor{h: h, pos: b.Pos})
}

// streamVisitor forwards the values reported by a Decoder to a Handler.
type streamVisitor struct {
	h   Handler
	pos Position // location of the value
}

// element decodes the next value from d, recording its location.
func (v streamVisitor) element(d *Decoder) error {
	b, err := d.peek(Value)
	if err != nil {
		return err
	}
	return d.DecodeAny(streamVisitor{h: v.h, pos: b.Pos})
}

// closing returns the location of the closing delimiter of a composite.
func (v streamVisitor) closing(d *Decoder, c Construct) (Position, error) {
	b, err := d.peek(c)
	return b.Pos, err
}

func (v streamVisitor) VisitBool(b bool) error             { return v.h.Value(b, v.pos) }
func (v streamVisitor) VisitNumber(nb NumberBuilder) error { return v.h.Value(nb, v.pos) }
func (v streamVisitor) VisitString(s StringValue) error    { return v.h.Value(s.String(), v.pos) }
func (v streamVisitor) VisitNull() error                   { return v.h.Value(nil, v.pos) }
func (v streamVisitor) VisitInt(int64) error               { panic("unreachable") }
func (v streamVisitor) VisitUint(uint64) error             { panic("unreachable") }
func (v streamVisitor) VisitFloat(float64) error           { panic("unreachable") }
func (v streamVisitor) VisitBytes([]byte) error            { panic("unreachable") }
func (v streamVisitor) VisitSome(*Decoder) error           { panic("unreachable") }
func (v streamVisitor) VisitEnum(*EnumAccess) error        { panic("unreachable") }

func (v streamVisitor) VisitSeq(s *SeqAccess) error {
	if err := v.h.BeginArray(v.pos); err != nil {
		return err
	}
	for {
		ok, err := s.Next(v.element)
		if err != nil {
			return err
		} else if !ok {
			break
		}
	}
	end, err := v.closing(s.d, ArrayEnd)
	if err != nil {
		return err
	}
	return v.h.EndArray(end)
}

func (v streamVisitor) VisitMap(m *MapAccess) error {
	if err := v.h.BeginObject(v.pos); err != nil {
		return err
	}
	for {
		ok, err := m.NextKey(func(d *Decoder) error {
			b, err := d.peek(ObjectKey)
			if err != nil {
				return err
			}
			var key string
			if err := d.DecodeString(TextVisitor(&key)); err != nil {
				return err
			}
			return v.h.BeginMember(key, b.Pos)
		})
		if err != nil {
			return err
		} else if !ok {
			break
		}
		if err := m.NextValue(v.element); err != nil {
			return err
		} else if err := v.h.EndMember(); err != nil {
			return err
		}
	}
	end, err := v.closing(m.d, ObjectEnd)
	if err != nil {
		return err
	}
	return v.h.EndObject(end)
}
