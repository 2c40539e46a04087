// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package ast defines an abstract syntax tree for JSONC values,
// and a parser that constructs syntax trees from JSONC source.
//
// Comments are not retained in the tree. The writers emit plain JSON
// (JSON) or indented JSONC with trailing commas (Format).
package ast

import (
	"fmt"
	"math"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/creachadair/jsonc"
)

// A Value is an arbitrary JSONC value.
type Value interface {
	// JSON returns the compact JSON encoding of the value.
	JSON() string
}

// An Object is a collection of key-value members, in input order.
type Object []*Member

// Len reports the number of members in o.
func (o Object) Len() int { return len(o) }

// Find returns the first member of o with the given key, or nil.
func (o Object) Find(key string) *Member {
	for _, m := range o {
		if m.Key == key {
			return m
		}
	}
	return nil
}

// JSON satisfies the Value interface.
func (o Object) JSON() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, m := range o {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(m.JSON())
	}
	sb.WriteByte('}')
	return sb.String()
}

// A Member is a single key-value pair belonging to an Object.
type Member struct {
	Key   string
	Value Value
}

// Field constructs an object member with the given key and value.
// The value must be a Value or a type accepted by ToValue.
func Field(key string, val any) *Member { return &Member{Key: key, Value: ToValue(val)} }

// JSON satisfies the Value interface.
func (m *Member) JSON() string { return jsonc.Quote(m.Key) + ":" + m.Value.JSON() }

// An Array is a sequence of values.
type Array []Value

// Len reports the number of elements in a.
func (a Array) Len() int { return len(a) }

// JSON satisfies the Value interface.
func (a Array) JSON() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, v := range a {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(v.JSON())
	}
	sb.WriteByte(']')
	return sb.String()
}

// A String is a string value, with escapes decoded.
type String string

// JSON satisfies the Value interface.
func (s String) JSON() string { return jsonc.Quote(string(s)) }

// Len reports the length of s in bytes.
func (s String) Len() int { return len(s) }

// A Bool is a Boolean constant, true or false.
type Bool bool

// JSON satisfies the Value interface.
func (b Bool) JSON() string { return strconv.FormatBool(bool(b)) }

// Null represents the null constant.
var Null Value = nullValue{}

type nullValue struct{}

func (nullValue) JSON() string { return "null" }

// A Number is a numeric value. It retains the text of the literal, so that
// integers of any magnitude are represented exactly.
type Number struct {
	text string
	kind jsonc.NumberKind
}

// Int constructs a Number with the given integer value.
func Int(z int64) Number { return Number{text: strconv.FormatInt(z, 10)} }

// Float constructs a Number with the given floating-point value.
// It panics if f is infinite or NaN, which have no JSON encoding.
func Float(f float64) Number {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		panic(fmt.Sprintf("ast: invalid number %v", f))
	}
	n := Number{text: strconv.FormatFloat(f, 'g', -1, 64), kind: jsonc.Float}
	if !strings.ContainsAny(n.text, ".eE") {
		n.kind = jsonc.Integer
	}
	return n
}

func numberOf(nb jsonc.NumberBuilder) Number { return Number{text: nb.Text(), kind: nb.Kind()} }

// JSON satisfies the Value interface.
func (n Number) JSON() string { return n.text }

// IsInt reports whether n was written as an integer literal.
func (n Number) IsInt() bool { return n.kind == jsonc.Integer }

// Int64 returns the value of n as an int64. It panics if n is not an
// integer or does not fit.
func (n Number) Int64() int64 {
	v, err := strconv.ParseInt(n.text, 10, 64)
	if err != nil {
		panic(err)
	}
	return v
}

// Float64 returns the value of n as a float64. It panics if n is out of
// range.
func (n Number) Float64() float64 {
	v, err := strconv.ParseFloat(n.text, 64)
	if err != nil {
		panic(err)
	}
	return v
}

// ToValue converts a Go value into an equivalent Value. It accepts a Value,
// nil, bool, string, any integer or floating-point type, and slices and
// string-keyed maps of these. Map members are sorted by key. It panics for
// any other type.
func ToValue(v any) Value {
	if v == nil {
		return Null
	}
	switch t := v.(type) {
	case Value:
		return t
	case bool:
		return Bool(t)
	case string:
		return String(t)
	case []any:
		out := make(Array, len(t))
		for i, e := range t {
			out[i] = ToValue(e)
		}
		return out
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		out := make(Object, len(keys))
		for i, k := range keys {
			out[i] = Field(k, t[k])
		}
		return out
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return Number{text: strconv.FormatUint(rv.Uint(), 10)}
	case reflect.Float32, reflect.Float64:
		return Float(rv.Float())
	case reflect.String:
		return String(rv.String())
	case reflect.Slice:
		out := make(Array, rv.Len())
		for i := range out {
			out[i] = ToValue(rv.Index(i).Interface())
		}
		return out
	}
	panic(fmt.Sprintf("ast: cannot convert %T to a value", v))
}
