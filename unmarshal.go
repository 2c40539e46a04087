// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package jsonc

import (
	"encoding"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/creachadair/mds/mapset"
	"go4.org/mem"
)

// Unmarshaler is implemented by types that decode themselves. The method
// must consume exactly one value from d, typically by calling one of its
// Decode methods with a Visitor.
type Unmarshaler interface {
	UnmarshalJSONC(d *Decoder) error
}

// Parse decodes a single JSONC value of type T from data. The input must
// contain nothing but whitespace and comments after the value. On error, Parse
// returns the zero value of T.
func Parse[T any](data []byte) (T, error) {
	var v T
	err := NewDecoderBytes(data).decodeAll(&v)
	return v, err
}

// ParseString decodes a single JSONC value of type T from s, as Parse.
func ParseString[T any](s string) (T, error) {
	var v T
	err := NewDecoderString(s).decodeAll(&v)
	return v, err
}

// ParseReader decodes a single JSONC value of type T from r, as Parse.
func ParseReader[T any](r io.Reader) (T, error) {
	var v T
	err := NewDecoder(r).decodeAll(&v)
	return v, err
}

// ParseRaw decodes a single JSONC value of type T from data, as Parse, but
// copies escape sequences in strings verbatim instead of decoding them. In
// raw mode every string can be borrowed from data.
func ParseRaw[T any](data []byte) (T, error) {
	var v T
	d := NewDecoderBytes(data)
	d.PreserveEscapes(true)
	err := d.decodeAll(&v)
	return v, err
}

// Unmarshal decodes a single JSONC value from data into the value pointed to
// by v. The input must contain nothing but whitespace and comments after the
// value. The target is replaced by a freshly decoded value, and is not
// modified if an error is reported.
func Unmarshal(data []byte, v any) error { return NewDecoderBytes(data).decodeAll(v) }

// UnmarshalRaw is as Unmarshal, but copies escape sequences in strings
// verbatim instead of decoding them.
func UnmarshalRaw(data []byte, v any) error {
	d := NewDecoderBytes(data)
	d.PreserveEscapes(true)
	return d.decodeAll(v)
}

// decodeAll decodes a complete input into v. The result is assigned only if
// the whole input is valid, so v is not modified on error.
func (d *Decoder) decodeAll(v any) error {
	rv, err := targetOf(v)
	if err != nil {
		return err
	}
	tmp := reflect.New(rv.Type()).Elem()
	if err := decodeValue(d, tmp); err != nil {
		return err
	} else if err := d.Finish(); err != nil {
		return err
	}
	rv.Set(tmp)
	return nil
}

func targetOf(v any) (reflect.Value, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return reflect.Value{}, fmt.Errorf("jsonc: decode target must be a non-nil pointer, not %T", v)
	}
	return rv.Elem(), nil
}

// Decode decodes the next value from the input into the value pointed to by
// v. It does not check for trailing input; call Finish to do so. If an error
// is reported, *v may be partially updated.
//
// Go types are decoded as follows:
//
//	bool                  true or false
//	integers, floats      number, converted to the size of the type
//	string                string
//	[]byte                string, as raw bytes
//	mem.RO                string without escapes, borrowed from the input
//	pointer               null (nil) or the value pointed to
//	slice                 array
//	array                 array with exactly as many elements
//	map                   object, keys must be strings or integers
//	struct                object by field name, or array of fields by position
//	struct{}              null, or an empty object or array
//	any                   any value, as bool, int64, uint64, float64, string,
//	                      []any, map[string]any, or nil
//
// Struct fields are named by a `jsonc:"name"` tag if present, otherwise by
// the name of the field. A tag of "-" excludes the field. Types that
// implement Unmarshaler decode themselves, and types that implement
// encoding.TextUnmarshaler are decoded from a string.
func (d *Decoder) Decode(v any) error {
	rv, err := targetOf(v)
	if err != nil {
		return err
	}
	return decodeValue(d, rv)
}

var (
	roType        = reflect.TypeFor[mem.RO]()
	unmarshalType = reflect.TypeFor[Unmarshaler]()
	textType      = reflect.TypeFor[encoding.TextUnmarshaler]()
)

// decodeValue decodes the next value from d into rv, which must be settable.
func decodeValue(d *Decoder, rv reflect.Value) error {
	t := rv.Type()
	if rv.CanAddr() {
		if pt := reflect.PointerTo(t); pt.Implements(unmarshalType) {
			return rv.Addr().Interface().(Unmarshaler).UnmarshalJSONC(d)
		} else if pt.Implements(textType) {
			return d.DecodeString(textValue{Unexpected(t.String()), rv})
		}
	}
	if t == roType {
		return d.DecodeString(roValue{"borrowed string", rv})
	}

	want := Unexpected(t.String())
	switch t.Kind() {
	case reflect.Bool:
		return d.DecodeBool(boolValue{want, rv})
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return d.DecodeInt(t.Bits(), intValue{want, rv})
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return d.DecodeUint(t.Bits(), uintValue{want, rv})
	case reflect.Float32, reflect.Float64:
		return d.DecodeFloat(t.Bits(), floatValue{want, rv})
	case reflect.String:
		return d.DecodeString(stringValue{want, rv})
	case reflect.Pointer:
		return d.DecodeOption(pointerValue{want, rv})
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return d.DecodeBytes(bytesValue{want, rv})
		}
		return d.DecodeSeq(sliceValue{want, rv})
	case reflect.Array:
		return d.DecodeSeq(arrayValue{want, rv})
	case reflect.Map:
		if !isKeyType(t.Key()) {
			break
		}
		return d.DecodeMap(mapValue{want, rv})
	case reflect.Struct:
		if t.NumField() == 0 {
			if b, err := d.Peek(); err == nil && b.B == 'n' {
				return d.DecodeNull(NullVisitor)
			}
		}
		return d.DecodeStruct(structValue{want, rv, fieldsOf(t)})
	case reflect.Interface:
		if t.NumMethod() == 0 {
			return d.DecodeAny(anyValue{rv})
		}
	}
	return fmt.Errorf("jsonc: cannot decode into value of type %v", t)
}

type boolValue struct {
	Unexpected
	rv reflect.Value
}

func (v boolValue) VisitBool(b bool) error { v.rv.SetBool(b); return nil }

type intValue struct {
	Unexpected
	rv reflect.Value
}

func (v intValue) VisitInt(z int64) error { v.rv.SetInt(z); return nil }

type uintValue struct {
	Unexpected
	rv reflect.Value
}

func (v uintValue) VisitUint(u uint64) error { v.rv.SetUint(u); return nil }

type floatValue struct {
	Unexpected
	rv reflect.Value
}

func (v floatValue) VisitFloat(f float64) error { v.rv.SetFloat(f); return nil }

type stringValue struct {
	Unexpected
	rv reflect.Value
}

func (v stringValue) VisitString(s StringValue) error { v.rv.SetString(s.String()); return nil }

type bytesValue struct {
	Unexpected
	rv reflect.Value
}

func (v bytesValue) VisitBytes(b []byte) error { v.rv.SetBytes(b); return nil }

type roValue struct {
	Unexpected
	rv reflect.Value
}

func (v roValue) VisitString(s StringValue) error {
	if !s.Borrowed {
		return v.reject(unborrowed(s))
	}
	v.rv.Set(reflect.ValueOf(s.Text))
	return nil
}

type textValue struct {
	Unexpected
	rv reflect.Value
}

func (v textValue) VisitString(s StringValue) error {
	if err := v.rv.Addr().Interface().(encoding.TextUnmarshaler).UnmarshalText(s.Bytes()); err != nil {
		return &TypeError{Want: string(v.Unexpected), Got: "string", err: err}
	}
	return nil
}

type pointerValue struct {
	Unexpected
	rv reflect.Value
}

func (v pointerValue) VisitNull() error { v.rv.SetZero(); return nil }

func (v pointerValue) VisitSome(d *Decoder) error {
	if v.rv.IsNil() {
		v.rv.Set(reflect.New(v.rv.Type().Elem()))
	}
	return decodeValue(d, v.rv.Elem())
}

type sliceValue struct {
	Unexpected
	rv reflect.Value
}

func (v sliceValue) VisitSeq(s *SeqAccess) error {
	v.rv.Set(reflect.MakeSlice(v.rv.Type(), 0, 0))
	zero := reflect.Zero(v.rv.Type().Elem())
	for {
		ok, err := s.Next(func(d *Decoder) error {
			v.rv.Set(reflect.Append(v.rv, zero))
			return decodeValue(d, v.rv.Index(v.rv.Len()-1))
		})
		if err != nil || !ok {
			return err
		}
	}
}

type arrayValue struct {
	Unexpected
	rv reflect.Value
}

func (v arrayValue) VisitSeq(s *SeqAccess) error {
	n := v.rv.Len()
	for {
		ok, err := s.Next(func(d *Decoder) error {
			if s.Index() >= n {
				return v.reject(fmt.Sprintf("array with more than %d elements", n))
			}
			return decodeValue(d, v.rv.Index(s.Index()))
		})
		if err != nil {
			return err
		} else if !ok {
			break
		}
	}
	if s.Index() != n {
		return v.reject(fmt.Sprintf("array with %d elements", s.Index()))
	}
	return nil
}

type mapValue struct {
	Unexpected
	rv reflect.Value
}

func (v mapValue) VisitMap(m *MapAccess) error {
	t := v.rv.Type()
	if v.rv.IsNil() {
		v.rv.Set(reflect.MakeMap(t))
	}
	for {
		key := reflect.New(t.Key()).Elem()
		ok, err := m.NextKey(func(d *Decoder) error { return decodeKey(d, key) })
		if err != nil || !ok {
			return err
		}
		val := reflect.New(t.Elem()).Elem()
		if err := m.NextValue(func(d *Decoder) error { return decodeValue(d, val) }); err != nil {
			return err
		}
		v.rv.SetMapIndex(key, val)
	}
}

// isKeyType reports whether object keys can be decoded into type t.
func isKeyType(t reflect.Type) bool {
	if pt := reflect.PointerTo(t); pt.Implements(unmarshalType) || pt.Implements(textType) || t == roType {
		return true
	}
	switch t.Kind() {
	case reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	return false
}

// decodeKey decodes an object key into rv. Integer keys are parsed from the
// text of the key.
func decodeKey(d *Decoder, rv reflect.Value) error {
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if !reflect.PointerTo(rv.Type()).Implements(textType) {
			return d.DecodeString(intKey{Unexpected(rv.Type().String() + " key"), rv})
		}
	}
	return decodeValue(d, rv)
}

type intKey struct {
	Unexpected
	rv reflect.Value
}

func (v intKey) VisitString(s StringValue) error {
	var err error
	if v.rv.CanInt() {
		var z int64
		if z, err = strconv.ParseInt(s.String(), 10, v.rv.Type().Bits()); err == nil {
			v.rv.SetInt(z)
		}
	} else {
		var u uint64
		if u, err = strconv.ParseUint(s.String(), 10, v.rv.Type().Bits()); err == nil {
			v.rv.SetUint(u)
		}
	}
	if err != nil {
		return &TypeError{Want: string(v.Unexpected), Got: fmt.Sprintf("string %q", s.String()), err: err}
	}
	return nil
}

type structValue struct {
	Unexpected
	rv     reflect.Value
	fields *structFields
}

func (v structValue) VisitMap(m *MapAccess) error {
	seen := mapset.New[string]()
	for {
		key, ok, err := m.NextKeyString()
		if err != nil || !ok {
			return err
		}
		i, ok := v.fields.byName[key]
		if !ok {
			if m.d.strict {
				return v.reject(fmt.Sprintf("object with unknown field %q", key))
			}
			if err := m.NextValue((*Decoder).DecodeIgnored); err != nil {
				return err
			}
			continue
		}
		if seen.Has(key) {
			return v.reject(fmt.Sprintf("object with duplicate field %q", key))
		}
		seen.Add(key)
		field := v.rv.Field(v.fields.index[i])
		if err := m.NextValue(func(d *Decoder) error { return decodeValue(d, field) }); err != nil {
			return err
		}
	}
}

func (v structValue) VisitSeq(s *SeqAccess) error {
	n := len(v.fields.index)
	for {
		ok, err := s.Next(func(d *Decoder) error {
			if s.Index() >= n {
				return v.reject(fmt.Sprintf("array with more than %d fields", n))
			}
			return decodeValue(d, v.rv.Field(v.fields.index[s.Index()]))
		})
		if err != nil {
			return err
		} else if !ok {
			break
		}
	}
	if s.Index() != n {
		return v.reject(fmt.Sprintf("array with %d fields", s.Index()))
	}
	return nil
}

// structFields records the decodable fields of a struct type.
type structFields struct {
	index  []int          // field indexes in declaration order
	byName map[string]int // name → offset in index
}

var fieldCache sync.Map // reflect.Type → *structFields

func fieldsOf(t reflect.Type) *structFields {
	if f, ok := fieldCache.Load(t); ok {
		return f.(*structFields)
	}
	sf := &structFields{byName: make(map[string]int)}
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name := f.Name
		if tag, ok := f.Tag.Lookup("jsonc"); ok {
			tag, _, _ = strings.Cut(tag, ",")
			if tag == "-" {
				continue
			} else if tag != "" {
				name = tag
			}
		}
		sf.byName[name] = len(sf.index)
		sf.index = append(sf.index, i)
	}
	f, _ := fieldCache.LoadOrStore(t, sf)
	return f.(*structFields)
}

// anyValue decodes any value into an interface.
type anyValue struct{ rv reflect.Value }

func (v anyValue) set(x any) error { v.rv.Set(reflect.ValueOf(x)); return nil }

func (v anyValue) VisitBool(b bool) error          { return v.set(b) }
func (v anyValue) VisitInt(z int64) error          { return v.set(z) }
func (v anyValue) VisitUint(u uint64) error        { return v.set(u) }
func (v anyValue) VisitFloat(f float64) error      { return v.set(f) }
func (v anyValue) VisitString(s StringValue) error { return v.set(s.String()) }
func (v anyValue) VisitBytes(b []byte) error       { return v.set(b) }
func (v anyValue) VisitNull() error                { v.rv.SetZero(); return nil }
func (v anyValue) VisitSome(d *Decoder) error      { return d.DecodeAny(v) }

func (v anyValue) VisitSeq(s *SeqAccess) error {
	out := []any{}
	for {
		var elt any
		ok, err := s.Next(func(d *Decoder) error {
			return d.DecodeAny(anyValue{reflect.ValueOf(&elt).Elem()})
		})
		if err != nil {
			return err
		} else if !ok {
			return v.set(out)
		}
		out = append(out, elt)
	}
}

func (v anyValue) VisitMap(m *MapAccess) error {
	out := make(map[string]any)
	for {
		key, ok, err := m.NextKeyString()
		if err != nil {
			return err
		} else if !ok {
			return v.set(out)
		}
		var val any
		if err := m.NextValue(func(d *Decoder) error {
			return d.DecodeAny(anyValue{reflect.ValueOf(&val).Elem()})
		}); err != nil {
			return err
		}
		out[key] = val
	}
}

func (v anyValue) VisitEnum(e *EnumAccess) error {
	return errors.New("jsonc: cannot decode enum into an untyped value")
}
