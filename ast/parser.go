// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package ast

import (
	"errors"
	"io"
	"strconv"

	"github.com/creachadair/jsonc"
)

// Parse parses and returns a single JSONC value from r. The input must
// contain nothing but whitespace and comments after the value.
func Parse(r io.Reader) (Value, error) { return parseAll(jsonc.NewDecoder(r)) }

// ParseBytes parses and returns a single JSONC value from data, as Parse.
func ParseBytes(data []byte) (Value, error) { return parseAll(jsonc.NewDecoderBytes(data)) }

func parseAll(d *jsonc.Decoder) (Value, error) {
	v, err := Decode(d)
	if err != nil {
		return nil, err
	} else if err := d.Finish(); err != nil {
		return nil, err
	}
	return v, nil
}

// Decode decodes the next value of any type from d. Use Decode to embed a
// generic value in a type that implements jsonc.Unmarshaler.
func Decode(d *jsonc.Decoder) (Value, error) {
	var v Value
	if err := d.DecodeAny(builder{Unexpected: "value", out: &v}); err != nil {
		return nil, err
	}
	return v, nil
}

// builder is a jsonc.Visitor that constructs a Value.
type builder struct {
	jsonc.Unexpected
	out *Value
}

func (b builder) set(v Value) error { *b.out = v; return nil }

func (b builder) VisitBool(v bool) error                   { return b.set(Bool(v)) }
func (b builder) VisitInt(z int64) error                   { return b.set(Int(z)) }
func (b builder) VisitUint(u uint64) error                 { return b.set(Number{text: strconv.FormatUint(u, 10)}) }
func (b builder) VisitFloat(f float64) error               { return b.set(Float(f)) }
func (b builder) VisitNumber(nb jsonc.NumberBuilder) error { return b.set(numberOf(nb)) }
func (b builder) VisitString(s jsonc.StringValue) error    { return b.set(String(s.String())) }
func (b builder) VisitNull() error                         { return b.set(Null) }

func (b builder) VisitSeq(s *jsonc.SeqAccess) error {
	arr := Array{}
	for {
		ok, err := s.Next(func(d *jsonc.Decoder) error {
			v, err := Decode(d)
			arr = append(arr, v)
			return err
		})
		if err != nil {
			return err
		} else if !ok {
			return b.set(arr)
		}
	}
}

func (b builder) VisitMap(m *jsonc.MapAccess) error {
	obj := Object{}
	for {
		key, ok, err := m.NextKeyString()
		if err != nil {
			return err
		} else if !ok {
			return b.set(obj)
		}
		mem := &Member{Key: key}
		if err := m.NextValue(func(d *jsonc.Decoder) (err error) {
			mem.Value, err = Decode(d)
			return
		}); err != nil {
			return err
		}
		obj = append(obj, mem)
	}
}

// ParseAll parses and returns all the JSONC values from r, which may contain
// any number of values separated by whitespace or comments. In case of error,
// any complete values already parsed are returned along with the error.
func ParseAll(r io.Reader) ([]Value, error) {
	h := new(parseHandler)
	st := jsonc.NewStream(r)
	var vs []Value
	for {
		if err := st.ParseOne(h); err == io.EOF {
			return vs, nil
		} else if err != nil {
			return vs, err
		}
		if len(h.stk) != 1 {
			return vs, errors.New("incomplete value")
		}
		vs = append(vs, h.stk[0])
		h.stk = h.stk[:0]
	}
}

// A parseHandler implements the jsonc.Handler interface to construct abstract
// syntax trees for JSONC values.
type parseHandler struct {
	stk []Value
}

func (h *parseHandler) reduce() error {
	if len(h.stk) > 1 {
		v := h.pop()
		return h.reduceValue(v)
	}
	return nil
}

// reduceValue stores v into the composite atop the stack, or pushes it if
// the stack is empty.
func (h *parseHandler) reduceValue(v Value) error {
	if len(h.stk) == 0 {
		h.push(v)
		return nil
	}
	switch prev := h.stk[len(h.stk)-1].(type) {
	case *Member:
		prev.Value = v
	case *Array:
		*prev = append(*prev, v)
	case *Object:
		// already in the object
	}
	return nil
}

func (h *parseHandler) top() Value { return h.stk[len(h.stk)-1] }

func (h *parseHandler) pop() Value {
	last := h.top()
	h.stk = h.stk[:len(h.stk)-1]
	return last
}

func (h *parseHandler) push(v Value) { h.stk = append(h.stk, v) }

func (h *parseHandler) BeginObject(jsonc.Position) error { h.push(&Object{}); return nil }

func (h *parseHandler) EndObject(jsonc.Position) error { return h.finish() }

func (h *parseHandler) BeginArray(jsonc.Position) error { h.push(&Array{}); return nil }

func (h *parseHandler) EndArray(jsonc.Position) error { return h.finish() }

func (h *parseHandler) BeginMember(key string, _ jsonc.Position) error {
	// The object this member belongs to is atop the stack. Add a pointer to
	// the new member into its collection eagerly, so that when reducing the
	// stack after the value is known, we don't have to reduce multiple times.
	mem := &Member{Key: key}
	obj := h.top().(*Object)
	*obj = append(*obj, mem)
	h.push(mem)
	return nil
}

func (h *parseHandler) EndMember() error { return h.reduce() }

func (h *parseHandler) Value(v any, _ jsonc.Position) error {
	switch t := v.(type) {
	case nil:
		return h.reduceValue(Null)
	case bool:
		return h.reduceValue(Bool(t))
	case string:
		return h.reduceValue(String(t))
	case jsonc.NumberBuilder:
		return h.reduceValue(numberOf(t))
	default:
		return errors.New("unknown value type")
	}
}

func (h *parseHandler) EndOfInput(jsonc.Position) {}

// finish replaces the completed composite atop the stack with its value, and
// stores that value into its parent if there is one.
func (h *parseHandler) finish() error {
	var v Value
	switch t := h.pop().(type) {
	case *Object:
		v = *t
	case *Array:
		v = *t
	}
	return h.reduceValue(v)
}
