// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jsonc_test

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/creachadair/jsonc"
	"github.com/google/go-cmp/cmp"
)

func TestStream(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ". @0:0"},
		{"   ", ". @0:3"},

		{"true false null", `
Value bool <true> @0:0
Value bool <false> @0:5
Value null @0:11
. @0:15`},

		{`0 5 -6.32 0.1e-2`, `
Value integer <0> @0:0
Value integer <5> @0:2
Value float <-6.32> @0:4
Value float <0.1e-2> @0:10
. @0:16`},

		{`"" "a b c" "a\tb" "a\u0020b"`, `
Value string "" @0:0
Value string "a b c" @0:3
Value string "a\tb" @0:11
Value string "a b" @0:18
. @0:28`},

		{`{}`, "BeginObject @0:0\nEndObject @0:1\n. @0:2"},

		{`{"a":15}`, `
BeginObject @0:0
BeginMember "a" @0:1
Value integer <15> @0:5
EndMember
EndObject @0:7
. @0:8`},

		{`{"x":null, "y":[true]}`, `
BeginObject @0:0
BeginMember "x" @0:1
Value null @0:5
EndMember
BeginMember "y" @0:11
BeginArray @0:15
Value bool <true> @0:16
EndArray @0:20
EndMember
EndObject @0:21
. @0:22`},

		{`[]`, "BeginArray @0:0\nEndArray @0:1\n. @0:2"},

		{"[1, /* two */ 2, // three\n3,]", `
BeginArray @0:0
Value integer <1> @0:1
Value integer <2> @0:14
Value integer <3> @1:0
EndArray @1:2
. @1:3`},
	}

	for _, test := range tests {
		st := jsonc.NewStream(strings.NewReader(test.input))
		th := new(testHandler)
		if err := st.Parse(th); err != nil {
			t.Errorf("Parse failed: %v", err)
		}

		if diff := diffStrings(test.want, th.output()); diff != "" {
			t.Errorf("Input: %#q\nOutput: (-want, +got)\n%s", test.input, diff)
		}
	}
}

func TestStreamErrors(t *testing.T) {
	tests := []struct {
		input string
		want  string
		estr  string
	}{
		// Various kinds of unbalanced object bits.
		{`{`, `BeginObject @0:0`,
			`at 0:1: unexpected end of input while parsing object key`},
		{`}`, ``, `at 0:0: unexpected '}' while parsing value`},
		{`{false:1}`, `BeginObject @0:0`,
			`at 0:1: unexpected 'f' while parsing object key`},
		{`{"true":}`, `
BeginObject @0:0
BeginMember "true" @0:1`,
			`at 0:8: unexpected '}' while parsing value`},
		{`{"true":1,`, `
BeginObject @0:0
BeginMember "true" @0:1
Value integer <1> @0:8
EndMember`,
			`at 0:10: unexpected end of input while parsing object key`},
		{`{"a" 1}`, `
BeginObject @0:0
BeginMember "a" @0:1`,
			`at 0:5: unexpected '1' while parsing object value`},

		// Unbalanced array bits.
		{`[`, `BeginArray @0:0`,
			`at 0:1: unexpected end of input while parsing end of array`},
		{`]`, ``, `at 0:0: unexpected ']' while parsing value`},
		{`[15,`, `
BeginArray @0:0
Value integer <15> @0:1`,
			`at 0:4: unexpected end of input while parsing end of array`},
		{`[15 16]`, `
BeginArray @0:0
Value integer <15> @0:1`,
			`at 0:4: unexpected '1' while parsing array element`},

		// Invalid values.
		{`1 2.0 forthright`, `
Value integer <1> @0:0
Value float <2.0> @0:2`,
			`at 0:6-15: found "forthright", want "false"`},
		{`"what did you`, ``,
			`at 0:13: unexpected end of input while parsing end of string`},

		// Invalid comments.
		{`[1 /* open`, `
BeginArray @0:0
Value integer <1> @0:1`,
			`at 0:10: unexpected end of input while parsing comment`},
		{`[1, /x]`, `
BeginArray @0:0
Value integer <1> @0:1`,
			`at 0:5: unexpected 'x' after "/"`},
	}

	for _, test := range tests {
		st := jsonc.NewStream(strings.NewReader(test.input))
		th := new(testHandler)
		err := st.Parse(th)
		if err == nil {
			t.Error("Parse did not report an error")
			continue
		}
		var serr *jsonc.SyntaxError
		if !errors.As(err, &serr) {
			t.Errorf("Input: %#q\nError: got %T, want *SyntaxError", test.input, err)
		}

		if diff := diffStrings(test.want, th.output()); diff != "" {
			t.Errorf("Input: %#q\nOutput: (-want, +got)\n%s", test.input, diff)
		}
		if diff := diffStrings(test.estr, err.Error()); diff != "" {
			t.Errorf("Input: %#q\nError: (-want, +got)\n%s", test.input, diff)
		}
	}
}

func TestStreamHandlerError(t *testing.T) {
	errStop := errors.New("stop")
	th := &testHandler{stopAt: "items"}
	th.stopErr = errStop

	st := jsonc.NewStream(strings.NewReader(`{"name": "x", "items": [1, 2, 3]}`))
	if err := st.Parse(th); !errors.Is(err, errStop) {
		t.Errorf("Parse: got error %v, want %v", err, errStop)
	}
	const want = `
BeginObject @0:0
BeginMember "name" @0:1
Value string "x" @0:9
EndMember`
	if diff := diffStrings(want, th.output()); diff != "" {
		t.Errorf("Output: (-want, +got)\n%s", diff)
	}
}

func TestParseOne(t *testing.T) {
	const input = `{ "love": true } [] "ok"`
	const want = `
BeginObject @0:0
BeginMember "love" @0:2
Value bool <true> @0:10
EndMember
EndObject @0:15
---
BeginArray @0:17
EndArray @0:18
---
Value string "ok" @0:20
---
. @0:24`
	th := new(testHandler)

	st := jsonc.NewStream(strings.NewReader(input))
	for {
		err := st.ParseOne(th)
		if err == io.EOF {
			break
		} else if err != nil {
			t.Fatalf("ParseOne failed: %v", err)
		}
		th.pr("---")
	}

	if diff := diffStrings(want, th.output()); diff != "" {
		t.Errorf("Input: %#q\nOutput: (-want, +got)\n%s", input, diff)
	}
}

func diffStrings(want, got string) string {
	return cmp.Diff(strings.Split(strings.TrimSpace(want), "\n"),
		strings.Split(strings.TrimSpace(got), "\n"))
}

type testHandler struct {
	buf bytes.Buffer

	stopAt  string // if set, BeginMember with this key reports stopErr
	stopErr error
}

func (t *testHandler) pr(msg string, args ...any) {
	if !strings.HasSuffix(msg, "\n") {
		msg += "\n"
	}
	fmt.Fprintf(&t.buf, msg, args...)
}

func (t *testHandler) output() string { return t.buf.String() }

func (t *testHandler) BeginObject(pos jsonc.Position) error { t.pr("BeginObject @%s", pos); return nil }
func (t *testHandler) EndObject(pos jsonc.Position) error   { t.pr("EndObject @%s", pos); return nil }
func (t *testHandler) BeginArray(pos jsonc.Position) error  { t.pr("BeginArray @%s", pos); return nil }
func (t *testHandler) EndArray(pos jsonc.Position) error    { t.pr("EndArray @%s", pos); return nil }
func (t *testHandler) EndMember() error                     { t.pr("EndMember"); return nil }
func (t *testHandler) EndOfInput(pos jsonc.Position)        { t.pr(". @%s", pos) }

func (t *testHandler) BeginMember(key string, pos jsonc.Position) error {
	if t.stopAt != "" && key == t.stopAt {
		return t.stopErr
	}
	t.pr("BeginMember %q @%s", key, pos)
	return nil
}

func (t *testHandler) Value(v any, pos jsonc.Position) error {
	switch x := v.(type) {
	case nil:
		t.pr("Value null @%s", pos)
	case bool:
		t.pr("Value bool <%v> @%s", x, pos)
	case string:
		t.pr("Value string %q @%s", x, pos)
	case jsonc.NumberBuilder:
		t.pr("Value %s <%s> @%s", x.Kind(), x.Text(), pos)
	default:
		return fmt.Errorf("unexpected value %T", v)
	}
	return nil
}
