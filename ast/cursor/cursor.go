// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package cursor implements path traversal over ast values.
//
// A path is a sequence of components. A string component selects the value
// of an object member by key, and an int component selects an array element
// by offset, where negative offsets count backward from the end. Members are
// always resolved to their values, so a path never ends on an *ast.Member.
package cursor

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/creachadair/jsonc/ast"
)

// ErrNotFound is reported (wrapped in a *StepError) when a path component
// names a key or offset that is not present.
var ErrNotFound = errors.New("not found")

// A StepError reports the path component at which traversal stopped.
type StepError struct {
	Step int   // offset of the failing component in the path
	Elem any   // the failing component
	Err  error // the reason traversal failed
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (%#v): %v", e.Step, e.Elem, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// step resolves one path component relative to v.
func step(v ast.Value, elt any) (ast.Value, error) {
	v = unwrap(v)
	switch e := v.(type) {
	case ast.Object:
		key, ok := elt.(string)
		if !ok {
			return nil, fmt.Errorf("object key must be a string, not %T", elt)
		}
		if m := e.Find(key); m != nil {
			return m.Value, nil
		}
		return nil, fmt.Errorf("key %q: %w", key, ErrNotFound)

	case ast.Array:
		i, ok := elt.(int)
		if !ok {
			return nil, fmt.Errorf("array index must be an int, not %T", elt)
		}
		j := i
		if j < 0 {
			j += len(e)
		}
		if j < 0 || j >= len(e) {
			return nil, fmt.Errorf("index %d of %d: %w", i, len(e), ErrNotFound)
		}
		return e[j], nil

	case nil:
		return nil, errors.New("no value")
	}
	return nil, fmt.Errorf("cannot traverse %s", v.JSON())
}

func unwrap(v ast.Value) ast.Value {
	if m, ok := v.(*ast.Member); ok {
		return m.Value
	}
	return v
}

// Path traverses path from v and returns the value reached, which must have
// type T. If v is an object member, the path starts from its value.
func Path[T ast.Value](v ast.Value, path ...any) (T, error) {
	var zero T
	c := New(v).Down(path...)
	if err := c.Err(); err != nil {
		return zero, err
	}
	got, ok := c.Value().(T)
	if !ok {
		if got, ok = unwrap(c.Value()).(T); !ok {
			return zero, fmt.Errorf("value has type %T, not %T", unwrap(c.Value()), zero)
		}
	}
	return got, nil
}

// Query traverses a dotted path into the structure of v, and returns the
// value reached. Each dot-separated component is an object key, or a decimal
// offset when the value it applies to is an array. An empty query returns v
// itself.
//
// For example, given:
//
//	{"servers": [{"name": "a"}, {"name": "b"}]}
//
// the query "servers.1.name" returns the string "b".
func Query(v ast.Value, query string) (ast.Value, error) {
	if query == "" {
		return v, nil
	}
	cur := v
	for i, key := range strings.Split(query, ".") {
		var elt any = key
		if _, ok := unwrap(cur).(ast.Array); ok {
			if n, err := strconv.Atoi(key); err == nil {
				elt = n
			}
		}
		next, err := step(cur, elt)
		if err != nil {
			return nil, fmt.Errorf("query %q: %w", query, &StepError{Step: i, Elem: elt, Err: err})
		}
		cur = next
	}
	return cur, nil
}

// A Cursor records a position in the structure of a value, along with the
// values visited to reach it.
type Cursor struct {
	stk []ast.Value // stk[0] is the origin
	err error
}

// New constructs a new Cursor positioned at origin.
func New(origin ast.Value) *Cursor { return &Cursor{stk: []ast.Value{origin}} }

// AtOrigin reports whether c is at its origin.
func (c *Cursor) AtOrigin() bool { return len(c.stk) == 1 }

// Value reports the value under the cursor.
func (c *Cursor) Value() ast.Value { return c.stk[len(c.stk)-1] }

// Path returns the values from the origin to the current position of c.
func (c *Cursor) Path() []ast.Value { return append([]ast.Value(nil), c.stk...) }

// Err reports the error from the most recent call to Down, if any.
func (c *Cursor) Err() error { return c.err }

// Up moves the cursor one position toward its origin, if possible.
// It returns c to permit chaining.
func (c *Cursor) Up() *Cursor {
	if !c.AtOrigin() {
		c.stk = c.stk[:len(c.stk)-1]
	}
	return c
}

// Down traverses path from the current value. If a component cannot be
// resolved, the cursor stays at the last value reached and Err reports a
// *StepError for that component. It returns c to permit chaining.
func (c *Cursor) Down(path ...any) *Cursor {
	c.err = nil
	for i, elt := range path {
		next, err := step(c.Value(), elt)
		if err != nil {
			c.err = &StepError{Step: i, Elem: elt, Err: err}
			break
		}
		c.stk = append(c.stk, next)
	}
	return c
}
