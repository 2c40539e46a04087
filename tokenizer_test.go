// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package jsonc_test

import (
	"errors"
	"io"
	"strconv"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/creachadair/jsonc"
	"github.com/google/go-cmp/cmp"
)

// errInfo summarizes the comparable parts of a *jsonc.SyntaxError.
type errInfo struct {
	Kind      jsonc.ErrorKind
	Construct jsonc.Construct
	Pos       string
	Found     byte
}

func syntaxInfo(t *testing.T, err error) errInfo {
	t.Helper()
	var serr *jsonc.SyntaxError
	if !errors.As(err, &serr) {
		t.Fatalf("Got error %v (%T), want *SyntaxError", err, err)
	}
	return errInfo{serr.Kind, serr.Construct, serr.Range.String(), serr.Found}
}

func TestPositions(t *testing.T) {
	// [
	//   "foo",
	//   "bar"
	// ]
	input := strings.Join([]string{"[", `  "foo",`, `  "bar"`, "]", ""}, "\n")

	type posByte struct {
		Pos string
		Off int
		B   byte
	}
	var got []posByte
	tok := jsonc.NewTokenizer(strings.NewReader(input))
	for {
		c, err := tok.Consume()
		if err == io.EOF {
			break
		} else if err != nil {
			t.Fatalf("Consume: unexpected error: %v", err)
		}
		got = append(got, posByte{c.Pos.String(), c.Off, c.B})
	}
	want := []posByte{
		{"0:0", 0, '['}, {"0:1", 1, '\n'},
		{"1:0", 2, ' '}, {"1:1", 3, ' '}, {"1:2", 4, '"'}, {"1:3", 5, 'f'}, {"1:4", 6, 'o'},
		{"1:5", 7, 'o'}, {"1:6", 8, '"'}, {"1:7", 9, ','}, {"1:8", 10, '\n'},
		{"2:0", 11, ' '}, {"2:1", 12, ' '}, {"2:2", 13, '"'}, {"2:3", 14, 'b'}, {"2:4", 15, 'a'},
		{"2:5", 16, 'r'}, {"2:6", 17, '"'}, {"2:7", 18, '\n'},
		{"3:0", 19, ']'}, {"3:1", 20, '\n'},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Positions (-want, +got):\n%s", diff)
	}

	// The end of input is sticky, and reports the position past the last byte.
	for range 3 {
		if c, err := tok.Consume(); err != io.EOF {
			t.Errorf("Consume: got (%v, %v), want EOF", c, err)
		} else if c.Pos.String() != "4:0" {
			t.Errorf("Consume: EOF at %v, want 4:0", c.Pos)
		}
	}
	if got := tok.Pos().String(); got != "4:0" {
		t.Errorf("Pos: got %s, want 4:0", got)
	}
}

func TestPosRange(t *testing.T) {
	tests := []struct {
		input jsonc.PosRange
		want  string
	}{
		{jsonc.PosRange{}, "0:0"},
		{jsonc.PosRange{Start: jsonc.Position{Row: 2, Col: 5}, End: jsonc.Position{Row: 2, Col: 5}}, "2:5"},
		{jsonc.PosRange{Start: jsonc.Position{Row: 1, Col: 3}, End: jsonc.Position{Row: 1, Col: 9}}, "1:3-9"},
		{jsonc.PosRange{Start: jsonc.Position{Row: 1, Col: 3}, End: jsonc.Position{Row: 4, Col: 0}}, "1:3-4:0"},
	}
	for _, tc := range tests {
		if got := tc.input.String(); got != tc.want {
			t.Errorf("String %+v: got %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestTokenizer(t *testing.T) {
	const input = "\n  [\n    \"jsonc\",\n    123,\n    true,\n    false,\n    null,\n  ]\n"

	check := func(t *testing.T, tok *jsonc.Tokenizer, borrowed bool) {
		t.Helper()
		wantByte := func(c jsonc.Byte, err error, pos string, b byte) {
			t.Helper()
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			} else if c.Pos.String() != pos || c.B != b {
				t.Fatalf("Got %q at %v, want %q at %s", c.B, c.Pos, b, pos)
			}
		}
		delim := func() {
			t.Helper()
			if c, err := tok.Consume(); err != nil || c.B != ',' {
				t.Fatalf("Consume: got (%q, %v), want ','", c.B, err)
			}
		}

		c, err := tok.Peek()
		wantByte(c, err, "0:0", '\n')
		c, err = tok.Peek()
		wantByte(c, err, "0:0", '\n')
		c, err = tok.Consume()
		wantByte(c, err, "0:0", '\n')
		c, err = tok.Peek()
		wantByte(c, err, "1:0", ' ')

		c, err = tok.ConsumeSignificant()
		wantByte(c, err, "1:2", '[')
		c, err = tok.Peek()
		wantByte(c, err, "1:3", '\n')
		c, err = tok.PeekSignificant()
		wantByte(c, err, "2:4", '"')
		c, err = tok.PeekSignificant()
		wantByte(c, err, "2:4", '"')

		s, err := tok.ParseString()
		if err != nil {
			t.Fatalf("ParseString: unexpected error: %v", err)
		} else if s.String() != "jsonc" || s.Borrowed != borrowed {
			t.Errorf("ParseString: got %q (borrowed=%v), want %q (borrowed=%v)",
				s.String(), s.Borrowed, "jsonc", borrowed)
		}
		c, err = tok.Consume()
		wantByte(c, err, "2:11", ',')

		nb, err := tok.ParseNumber()
		if err != nil {
			t.Fatalf("ParseNumber: unexpected error: %v", err)
		} else if z, err := nb.Int(64); err != nil || z != 123 {
			t.Errorf("ParseNumber: got (%v, %v), want 123", z, err)
		} else if nb.Kind() != jsonc.Integer || nb.Range.String() != "3:4-6" {
			t.Errorf("ParseNumber: got %v at %v, want integer at 3:4-6", nb.Kind(), nb.Range)
		}
		delim()

		for _, id := range []string{"true", "false", "null"} {
			if err := tok.ParseIdent(id); err != nil {
				t.Fatalf("ParseIdent(%q): unexpected error: %v", id, err)
			}
			delim()
		}

		c, err = tok.ConsumeSignificant()
		wantByte(c, err, "7:2", ']')
		c, err = tok.Peek()
		wantByte(c, err, "7:3", '\n')
		if c, err := tok.ConsumeSignificant(); err != io.EOF {
			t.Errorf("ConsumeSignificant: got (%v, %v), want EOF", c, err)
		}
		if got := tok.Pos().String(); got != "8:0" {
			t.Errorf("Pos: got %s, want 8:0", got)
		}
	}

	t.Run("Reader", func(t *testing.T) {
		check(t, jsonc.NewTokenizer(strings.NewReader(input)), false)
	})
	t.Run("Bytes", func(t *testing.T) {
		check(t, jsonc.NewTokenizerBytes([]byte(input)), true)
	})
}

func TestComments(t *testing.T) {
	tests := []struct {
		input string
		pos   string
		want  byte
	}{
		{"1", "0:0", '1'},
		{"  \t\r\f1", "0:5", '1'},
		{"// line\n1", "1:0", '1'},
		{"/* block */1", "0:11", '1'},
		{"/**/1", "0:4", '1'},
		{"/***/1", "0:5", '1'},
		{"/* a * b / c **/ 1", "0:17", '1'},
		{"/* multi\nline */ 1", "1:8", '1'},
		{"/* // */ 1", "0:9", '1'},
		{"// /* \n 1", "1:1", '1'},
		{"  // one\n  // two\n  /* three */\n  [", "3:2", '['},
	}
	for _, tc := range tests {
		tok := jsonc.NewTokenizerBytes([]byte(tc.input))
		c, err := tok.ConsumeSignificant()
		if err != nil {
			t.Errorf("Input %#q: unexpected error: %v", tc.input, err)
		} else if c.Pos.String() != tc.pos || c.B != tc.want {
			t.Errorf("Input %#q: got %q at %v, want %q at %s", tc.input, c.B, c.Pos, tc.want, tc.pos)
		}
	}

	// A line comment may run to the end of input.
	if c, err := jsonc.NewTokenizerBytes([]byte("  // the end")).PeekSignificant(); err != io.EOF {
		t.Errorf("PeekSignificant: got (%v, %v), want EOF", c, err)
	}

	errTests := []struct {
		input string
		want  errInfo
	}{
		{"/", errInfo{jsonc.UnexpectedEOF, jsonc.Comment, "0:1", 0}},
		{"/* open", errInfo{jsonc.UnexpectedEOF, jsonc.Comment, "0:7", 0}},
		{"/* open *", errInfo{jsonc.UnexpectedEOF, jsonc.Comment, "0:9", 0}},
		{"/x", errInfo{jsonc.InvalidComment, jsonc.Comment, "0:1", 'x'}},
	}
	for _, tc := range errTests {
		c, err := jsonc.NewTokenizerBytes([]byte(tc.input)).ConsumeSignificant()
		if err == nil {
			t.Errorf("Input %#q: got %q, want error", tc.input, c.B)
			continue
		}
		if diff := cmp.Diff(tc.want, syntaxInfo(t, err)); diff != "" {
			t.Errorf("Input %#q: error (-want, +got):\n%s", tc.input, diff)
		}
	}
}

func TestParseString(t *testing.T) {
	tests := []struct {
		input    string
		want     string
		borrowed bool
	}{
		{`""`, "", true},
		{`"rust"`, "rust", true},
		{`  "leading space"`, "leading space", true},
		{`"\"quote\""`, `"quote"`, false},
		{`"back\\slash"`, `back\slash`, false},
		{`"escaped\/slash"`, "escaped/slash", false},
		{`"unescaped/slash"`, "unescaped/slash", true},
		{`"backspace\b formfeed\f"`, "backspace\x08 formfeed\x0c", false},
		{`"line\nfeed"`, "line\nfeed", false},
		{`"carriage\rreturn"`, "carriage\rreturn", false},
		{`"white\tspace"`, "white\tspace", false},
		{`"line\u000Afeed"`, "line\nfeed", false},
		{`"epsilon \u03b5"`, "epsilon \xce\xb5", false},
		{`"\u0F12"`, "\xe0\xbc\x92", false},
		{"\"\xf0\x9f\x92\xaf\"", "\xf0\x9f\x92\xaf", true},
		{"\"del \x7f is not a control\"", "del \x7f is not a control", true},
	}
	for _, tc := range tests {
		s, err := jsonc.NewTokenizerBytes([]byte(tc.input)).ParseString()
		if err != nil {
			t.Errorf("ParseString %#q: unexpected error: %v", tc.input, err)
		} else if got := s.String(); got != tc.want || s.Borrowed != tc.borrowed {
			t.Errorf("ParseString %#q: got %#q (borrowed=%v), want %#q (borrowed=%v)",
				tc.input, got, s.Borrowed, tc.want, tc.borrowed)
		}

		// Input from a reader is never borrowed.
		s, err = jsonc.NewTokenizer(strings.NewReader(tc.input)).ParseString()
		if err != nil {
			t.Errorf("ParseString %#q: unexpected error: %v", tc.input, err)
		} else if got := s.String(); got != tc.want || s.Borrowed {
			t.Errorf("ParseString %#q: got %#q (borrowed=%v), want %#q (not borrowed)",
				tc.input, got, s.Borrowed, tc.want)
		}
	}
}

func TestParseStringRaw(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{`"plain"`, "plain"},
		{`"line\nfeed"`, `line\nfeed`},
		{`"epsilon \u03b5"`, `epsilon \u03b5`},
		{`"pair \ud83d\ude00"`, `pair \ud83d\ude00`},
		{`"q\"q"`, `q\"q`},
	}
	for _, tc := range tests {
		tok := jsonc.NewTokenizerBytes([]byte(tc.input))
		tok.PreserveEscapes(true)
		s, err := tok.ParseString()
		if err != nil {
			t.Errorf("ParseString %#q: unexpected error: %v", tc.input, err)
		} else if got := s.String(); got != tc.want || !s.Borrowed {
			t.Errorf("ParseString %#q: got %#q (borrowed=%v), want %#q (borrowed)",
				tc.input, got, s.Borrowed, tc.want)
		}

		rtok := jsonc.NewTokenizer(strings.NewReader(tc.input))
		rtok.PreserveEscapes(true)
		if s, err := rtok.ParseString(); err != nil {
			t.Errorf("ParseString %#q: unexpected error: %v", tc.input, err)
		} else if got := s.String(); got != tc.want {
			t.Errorf("ParseString %#q: got %#q, want %#q", tc.input, got, tc.want)
		}
	}

	// Escapes are still validated in raw mode.
	tok := jsonc.NewTokenizerBytes([]byte(`"bad \x"`))
	tok.PreserveEscapes(true)
	if s, err := tok.ParseString(); err == nil {
		t.Errorf("ParseString: got %q, want error", s.String())
	} else if diff := cmp.Diff(errInfo{jsonc.InvalidEscape, jsonc.Escape, "0:6", 'x'}, syntaxInfo(t, err)); diff != "" {
		t.Errorf("ParseString error (-want, +got):\n%s", diff)
	}
}

func TestParseStringErrors(t *testing.T) {
	tests := []struct {
		input string
		want  errInfo
	}{
		{``, errInfo{jsonc.UnexpectedEOF, jsonc.StringStart, "0:0", 0}},
		{`x`, errInfo{jsonc.UnexpectedByte, jsonc.StringStart, "0:0", 'x'}},
		{`"ending...`, errInfo{jsonc.UnexpectedEOF, jsonc.StringEnd, "0:10", 0}},
		{"\"line\n    feed\"", errInfo{jsonc.ControlCharacter, jsonc.StringEnd, "0:5", '\n'}},
		{"\"tab\there\"", errInfo{jsonc.ControlCharacter, jsonc.StringEnd, "0:4", '\t'}},
		{"\"nul\x00\"", errInfo{jsonc.ControlCharacter, jsonc.StringEnd, "0:4", 0}},
		{`"escape EoF \`, errInfo{jsonc.UnexpectedEOF, jsonc.Escape, "0:13", 0}},
		{`"invalid escape sequence \a"`, errInfo{jsonc.InvalidEscape, jsonc.Escape, "0:26", 'a'}},
		{`"invalid unicode \uXXXX"`, errInfo{jsonc.InvalidUnicode, jsonc.Unicode, "0:19", 'X'}},
		{`"short \u12"`, errInfo{jsonc.InvalidUnicode, jsonc.Unicode, "0:11", '"'}},
		{`"eof \u12`, errInfo{jsonc.UnexpectedEOF, jsonc.Unicode, "0:9", 0}},
		{`"pair \ud800\u12x4"`, errInfo{jsonc.InvalidUnicode, jsonc.Unicode, "0:16", 'x'}},
		{`"pair \ud800\q"`, errInfo{jsonc.InvalidEscape, jsonc.Escape, "0:13", 'q'}},
	}
	for _, tc := range tests {
		s, err := jsonc.NewTokenizerBytes([]byte(tc.input)).ParseString()
		if err == nil {
			t.Errorf("ParseString %#q: got %#q, want error", tc.input, s.String())
			continue
		}
		t.Logf("ParseString %#q: got expected error: %v", tc.input, err)
		if diff := cmp.Diff(tc.want, syntaxInfo(t, err)); diff != "" {
			t.Errorf("ParseString %#q: error (-want, +got):\n%s", tc.input, diff)
		}
	}
}

func TestParseIdent(t *testing.T) {
	tests := []struct {
		input, want string
		text        string // if set, the error text
		rng         string // if set, the error range
	}{
		{"true", "true", "", ""},
		{"  false", "false", "", ""},
		{"null,", "null", "", ""},
		{"null]", "null", "", ""},
		{"tru", "true", "tru", "0:0-2"},
		{"truex", "true", "truex", "0:0-4"},
		{"nil", "null", "nil", "0:0-2"},
		{"  fals e", "false", "fals", "0:2-5"},
		{"trueeeeeeeeeeeeeeee", "true", "trueeeeeee", "0:0-9"},
	}
	for _, tc := range tests {
		err := jsonc.NewTokenizerBytes([]byte(tc.input)).ParseIdent(tc.want)
		if tc.text == "" {
			if err != nil {
				t.Errorf("ParseIdent(%q) %#q: unexpected error: %v", tc.want, tc.input, err)
			}
			continue
		}
		var serr *jsonc.SyntaxError
		if !errors.As(err, &serr) {
			t.Errorf("ParseIdent(%q) %#q: got %v, want *SyntaxError", tc.want, tc.input, err)
			continue
		}
		if serr.Kind != jsonc.UnexpectedIdent || string(serr.Text) != tc.text ||
			serr.Range.String() != tc.rng || serr.Want != tc.want {
			t.Errorf("ParseIdent(%q) %#q: got %v %q at %v, want %q at %s",
				tc.want, tc.input, serr.Kind, serr.Text, serr.Range, tc.text, tc.rng)
		}
	}

	// The end of input is reported for a missing identifier.
	err := jsonc.NewTokenizerBytes([]byte("  ")).ParseIdent("null")
	if diff := cmp.Diff(errInfo{jsonc.UnexpectedEOF, jsonc.Ident, "0:2", 0}, syntaxInfo(t, err)); diff != "" {
		t.Errorf("ParseIdent error (-want, +got):\n%s", diff)
	}
}

func TestFoldToken(t *testing.T) {
	tok := jsonc.NewTokenizerBytes([]byte(" /* c */ abc123-xyz"))
	isAlpha := func(_ []byte, b byte) bool { return 'a' <= b && b <= 'z' }
	got, rng, err := tok.FoldToken(isAlpha)
	if err != nil {
		t.Fatalf("FoldToken: unexpected error: %v", err)
	} else if string(got) != "abc" || rng.String() != "0:9-11" {
		t.Errorf("FoldToken: got %q at %v, want %q at 0:9-11", got, rng, "abc")
	}
	if c, err := tok.Peek(); err != nil || c.B != '1' {
		t.Errorf("Peek: got (%q, %v), want '1'", c.B, err)
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		input string
		kind  jsonc.NumberKind
		text  string
		rng   string
	}{
		{"0", jsonc.Integer, "0", "0:0"},
		{"-0", jsonc.Integer, "-0", "0:0-1"},
		{"123", jsonc.Integer, "123", "0:0-2"},
		{"  -15,", jsonc.Integer, "-15", "0:2-4"},
		{"0.5", jsonc.Float, "0.5", "0:0-2"},
		{"-1.0", jsonc.Float, "-1.0", "0:0-3"},
		{"3.25e-5", jsonc.Float, "3.25e-5", "0:0-6"},
		{"1E10]", jsonc.Float, "1E10", "0:0-3"},
		{"6e+2}", jsonc.Float, "6e+2", "0:0-3"},
		{"0e0", jsonc.Float, "0e0", "0:0-2"},
	}
	for _, tc := range tests {
		nb, err := jsonc.NewTokenizerBytes([]byte(tc.input)).ParseNumber()
		if err != nil {
			t.Errorf("ParseNumber %#q: unexpected error: %v", tc.input, err)
		} else if nb.Kind() != tc.kind || nb.Text() != tc.text || nb.Range.String() != tc.rng {
			t.Errorf("ParseNumber %#q: got %v %q at %v, want %v %q at %s",
				tc.input, nb.Kind(), nb.Text(), nb.Range, tc.kind, tc.text, tc.rng)
		}
	}

	errTests := []struct {
		input string
		want  errInfo
	}{
		{"", errInfo{jsonc.UnexpectedEOF, jsonc.Number, "0:0", 0}},
		{"+1", errInfo{jsonc.UnexpectedByte, jsonc.Number, "0:0", '+'}},
		{".5", errInfo{jsonc.UnexpectedByte, jsonc.Number, "0:0", '.'}},
		{"-", errInfo{jsonc.UnexpectedEOF, jsonc.Number, "0:1", 0}},
		{"-a", errInfo{jsonc.UnexpectedByte, jsonc.Number, "0:1", 'a'}},
		{"1.", errInfo{jsonc.UnexpectedEOF, jsonc.Number, "0:2", 0}},
		{"1.e5", errInfo{jsonc.UnexpectedByte, jsonc.Number, "0:2", 'e'}},
		{"1e", errInfo{jsonc.UnexpectedEOF, jsonc.Number, "0:2", 0}},
		{"1e+", errInfo{jsonc.UnexpectedEOF, jsonc.Number, "0:3", 0}},
		{"01", errInfo{jsonc.InvalidNumber, jsonc.Number, "0:0-1", 0}},
		{"-00.5", errInfo{jsonc.InvalidNumber, jsonc.Number, "0:0-2", 0}},
	}
	for _, tc := range errTests {
		nb, err := jsonc.NewTokenizerBytes([]byte(tc.input)).ParseNumber()
		if err == nil {
			t.Errorf("ParseNumber %#q: got %q, want error", tc.input, nb.Text())
			continue
		}
		if diff := cmp.Diff(tc.want, syntaxInfo(t, err)); diff != "" {
			t.Errorf("ParseNumber %#q: error (-want, +got):\n%s", tc.input, diff)
		}
	}
}

func TestNumberConversion(t *testing.T) {
	parse := func(t *testing.T, s string) jsonc.NumberBuilder {
		t.Helper()
		nb, err := jsonc.NewTokenizerBytes([]byte(s)).ParseNumber()
		if err != nil {
			t.Fatalf("ParseNumber %q: %v", s, err)
		}
		return nb
	}
	if z, err := parse(t, "-128").Int(8); err != nil || z != -128 {
		t.Errorf("Int(8): got (%v, %v), want -128", z, err)
	}
	if u, err := parse(t, "18446744073709551615").Uint(64); err != nil || u != 1<<64-1 {
		t.Errorf("Uint(64): got (%v, %v), want max uint64", u, err)
	}
	if f, err := parse(t, "1.5e3").Float(64); err != nil || f != 1500 {
		t.Errorf("Float(64): got (%v, %v), want 1500", f, err)
	}

	for _, tc := range []struct {
		input string
		conv  func(jsonc.NumberBuilder) error
		want  error
	}{
		{"300", func(nb jsonc.NumberBuilder) error { _, err := nb.Int(8); return err }, strconv.ErrRange},
		{"-1", func(nb jsonc.NumberBuilder) error { _, err := nb.Uint(64); return err }, strconv.ErrSyntax},
		{"1.5", func(nb jsonc.NumberBuilder) error { _, err := nb.Int(64); return err }, strconv.ErrSyntax},
		{"1e400", func(nb jsonc.NumberBuilder) error { _, err := nb.Float(64); return err }, strconv.ErrRange},
	} {
		err := tc.conv(parse(t, tc.input))
		if !errors.Is(err, tc.want) {
			t.Errorf("Convert %q: got %v, want %v", tc.input, err, tc.want)
		}
		if info := syntaxInfo(t, err); info.Kind != jsonc.InvalidNumber {
			t.Errorf("Convert %q: got kind %v, want %v", tc.input, info.Kind, jsonc.InvalidNumber)
		}
	}
}

func TestReadError(t *testing.T) {
	errBoom := errors.New("boom")
	tok := jsonc.NewTokenizer(io.MultiReader(strings.NewReader(`"abc`), iotest.ErrReader(errBoom)))
	_, err := tok.ParseString()
	if !errors.Is(err, errBoom) {
		t.Fatalf("ParseString: got %v, want %v", err, errBoom)
	}
	t.Logf("Got expected error: %v", err)
	if !strings.Contains(err.Error(), "0:4") {
		t.Errorf("Error %q does not mention the position", err)
	}
}
