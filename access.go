// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package jsonc

// A SeqAccess reads the elements of an array for a Visitor.
type SeqAccess struct {
	d     *Decoder
	index int
}

// Index reports the number of elements read so far.
func (s *SeqAccess) Index() int { return s.index }

// Next reads the next element of the array by calling f with the decoder,
// and reports whether an element was read. When the array is exhausted, Next
// returns false without calling f.
func (s *SeqAccess) Next(f func(*Decoder) error) (bool, error) {
	b, err := s.d.peek(ArrayEnd)
	if err != nil {
		return false, err
	} else if b.B == ']' {
		return false, nil // leave the bracket for DecodeSeq
	}
	if err := f(s.d); err != nil {
		return false, err
	}
	s.index++

	// A comma here may be followed by "]", which the next call will see.
	return true, s.d.delimiter(ArrayEnd, ArrayElement, ']')
}

// delimiter consumes a comma or checks for the closing byte after an element
// or member. The end of input is reported for eof, and other bytes for bad.
func (d *Decoder) delimiter(eof, bad Construct, close byte) error {
	b, err := d.peek(eof)
	if err != nil {
		return err
	}
	switch b.B {
	case ',':
		_, err := d.tok.Consume()
		return err
	case close:
		return nil
	default:
		return syntaxErr(UnexpectedByte, bad, b.Pos, b.B)
	}
}

// A MapAccess reads the members of an object for a Visitor. Each successful
// call to NextKey must be followed by a call to NextValue.
type MapAccess struct {
	d     *Decoder
	index int
}

// Index reports the number of members read so far.
func (m *MapAccess) Index() int { return m.index }

// NextKey reads the key of the next member of the object by calling f with
// the decoder, and reports whether a key was read. When the object is
// exhausted, NextKey returns false without calling f.
func (m *MapAccess) NextKey(f func(*Decoder) error) (bool, error) {
	b, err := m.d.peek(ObjectKey)
	if err != nil {
		return false, err
	}
	switch b.B {
	case '"':
		return true, f(m.d)
	case '}':
		return false, nil // leave the brace for DecodeMap
	default:
		return false, syntaxErr(UnexpectedByte, ObjectKey, b.Pos, b.B)
	}
}

// NextKeyString is a shorthand for NextKey that returns a copy of the key.
func (m *MapAccess) NextKeyString() (string, bool, error) {
	var key string
	ok, err := m.NextKey(func(d *Decoder) error { return d.DecodeString(TextVisitor(&key)) })
	return key, ok, err
}

// NextValue reads the value of the current member by calling f with the
// decoder.
func (m *MapAccess) NextValue(f func(*Decoder) error) error {
	if _, err := m.d.expect(ObjectValue, ':'); err != nil {
		return err
	} else if err := f(m.d); err != nil {
		return err
	}
	m.index++
	return m.d.delimiter(ObjectValue, ObjectValue, '}')
}

// An EnumAccess reads the variant name and payload of an enum for a Visitor.
// Call Variant (or Tag) first, then exactly one of Unit, Newtype, Tuple, or
// Struct according to the shape of the variant.
//
// The forms of payload are:
//
//	{"Unit": null}
//	{"Newtype": value}
//	{"Tuple": [v1, v2, ...]}
//	{"Struct": {"field": value, ...}}
type EnumAccess struct {
	d *Decoder
}

// Variant reads the variant name by calling f with the decoder.
func (e *EnumAccess) Variant(f func(*Decoder) error) error { return f(e.d) }

// Tag reads the variant name and returns a copy of it.
func (e *EnumAccess) Tag() (string, error) {
	var tag string
	err := e.Variant(func(d *Decoder) error { return d.DecodeString(TextVisitor(&tag)) })
	return tag, err
}

func (e *EnumAccess) colon() error {
	_, err := e.d.expect(EnumValue, ':')
	return err
}

// Unit reads the payload of a variant without data, which must be null.
func (e *EnumAccess) Unit() error {
	if err := e.colon(); err != nil {
		return err
	}
	return e.d.DecodeNull(NullVisitor)
}

// Newtype reads the payload of a variant with a single value by calling f
// with the decoder.
func (e *EnumAccess) Newtype(f func(*Decoder) error) error {
	if err := e.colon(); err != nil {
		return err
	}
	return f(e.d)
}

// Tuple reads the payload of a variant with positional values as an array.
func (e *EnumAccess) Tuple(v Visitor) error {
	if err := e.colon(); err != nil {
		return err
	}
	return e.d.DecodeSeq(v)
}

// Struct reads the payload of a variant with named fields as an object.
func (e *EnumAccess) Struct(v Visitor) error {
	if err := e.colon(); err != nil {
		return err
	}
	return e.d.DecodeStruct(v)
}
