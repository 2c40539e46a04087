// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package ast

import (
	"fmt"
	"io"
	"strings"
)

// A Formatter carries the settings for pretty-printing JSONC values.
// A zero value is ready for use with default settings.
type Formatter struct {
	// Indent is the text used for each level of indentation. If empty, two
	// spaces are used.
	Indent string

	// MaxLineItems is the largest number of scalar elements in an array that
	// will be rendered on a single line. If zero, 3 is used.
	MaxLineItems int
}

func (f Formatter) indent() string {
	if f.Indent == "" {
		return "  "
	}
	return f.Indent
}

func (f Formatter) maxLineItems() int {
	if f.MaxLineItems <= 0 {
		return 3
	}
	return f.MaxLineItems
}

// Format renders a pretty-printed representation of v to w with default
// settings.
func Format(w io.Writer, v Value) error {
	var f Formatter
	return f.Format(w, v)
}

// FormatToString formats v to a string with default settings.
func FormatToString(v Value) string {
	var sb strings.Builder
	Formatter{}.formatValue(&sb, v, "")
	return sb.String()
}

// Format renders a pretty-printed representation of v to w using the settings
// from f. Containers that span multiple lines have a comma after every
// element, including the last.
func (f Formatter) Format(w io.Writer, v Value) error {
	var sb strings.Builder
	f.formatValue(&sb, v, "")
	sb.WriteByte('\n')
	_, err := io.WriteString(w, sb.String())
	return err
}

// formatValue writes a representation of v to w indented by indent.
// The caller is responsible for any indentation before the first line.
func (f Formatter) formatValue(w *strings.Builder, v Value, indent string) {
	switch t := v.(type) {
	case Array:
		f.formatArray(w, t, indent)
	case *Array:
		f.formatArray(w, *t, indent)
	case Object:
		f.formatObject(w, t, indent)
	case *Object:
		f.formatObject(w, *t, indent)
	case *Member:
		fmt.Fprint(w, String(t.Key).JSON(), ": ")
		f.formatValue(w, t.Value, indent)
	default:
		w.WriteString(v.JSON())
	}
}

func (f Formatter) formatArray(w *strings.Builder, a Array, indent string) {
	if f.isBoring(a) {
		w.WriteByte('[')
		for i, v := range a {
			if i > 0 {
				w.WriteString(", ")
			}
			f.formatValue(w, v, "")
		}
		w.WriteByte(']')
		return
	}

	w.WriteString("[\n")
	adent := indent + f.indent()
	for _, v := range a {
		w.WriteString(adent)
		f.formatValue(w, v, adent)
		w.WriteString(",\n")
	}
	fmt.Fprint(w, indent, "]")
}

func (f Formatter) formatObject(w *strings.Builder, o Object, indent string) {
	if f.isBoring(o) {
		w.WriteByte('{')
		for i, m := range o {
			if i > 0 {
				w.WriteString(", ")
			}
			f.formatValue(w, m, "")
		}
		w.WriteByte('}')
		return
	}

	w.WriteString("{\n")
	mdent := indent + f.indent()
	prevBoring, curBoring := true, true
	for i, m := range o {
		// Leave extra space before the next member if either it or its
		// predecessor was non-boring.
		prevBoring, curBoring = curBoring, f.isBoring(m.Value)
		if i != 0 && !(prevBoring && curBoring) {
			w.WriteByte('\n')
		}
		w.WriteString(mdent)
		f.formatValue(w, m, mdent)
		w.WriteString(",\n")
	}
	fmt.Fprint(w, indent, "}")
}

// isBoring reports whether v has a simple enough structure that it can be
// rendered on one line.
func (f Formatter) isBoring(v Value) bool {
	switch t := v.(type) {
	case Array:
		for i, v := range t {
			if !f.isScalar(v) || i >= f.maxLineItems() {
				return false
			}
		}
		return true
	case *Array:
		return f.isBoring(*t)
	case Object:
		if len(t) == 1 {
			return f.isScalar(t[0].Value)
		}
		return len(t) == 0
	case *Object:
		return f.isBoring(*t)
	case *Member:
		return f.isBoring(t.Value)
	default:
		return true
	}
}

func (Formatter) isScalar(v Value) bool {
	switch v.(type) {
	case Array, *Array, Object, *Object, *Member:
		return false
	}
	return true
}
