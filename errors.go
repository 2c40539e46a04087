// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package jsonc

import (
	"errors"
	"fmt"
)

// ErrorKind classifies the failure reported by a SyntaxError.
type ErrorKind byte

// Constants defining the valid ErrorKind values.
const (
	UnexpectedEOF    ErrorKind = iota // input ended before the construct was complete
	UnexpectedByte                    // an out-of-place byte was found
	UnexpectedIdent                   // a keyword did not match the expected one
	InvalidEscape                     // unknown character after a backslash
	InvalidUnicode                    // non-hex digit in a \uXXXX escape
	ControlCharacter                  // unescaped control byte in a string
	InvalidNumber                     // number text not convertible to the target
	InvalidComment                    // "/" not followed by "/" or "*"
	ExpectedEOF                       // trailing data after the top-level value
	DepthExceeded                     // nesting exceeds the decoder's limit
)

var kindStr = [...]string{
	UnexpectedEOF:    "unexpected end of input",
	UnexpectedByte:   "unexpected byte",
	UnexpectedIdent:  "unexpected identifier",
	InvalidEscape:    "invalid escape sequence",
	InvalidUnicode:   "invalid unicode escape",
	ControlCharacter: "control character in string",
	InvalidNumber:    "invalid number",
	InvalidComment:   "invalid comment",
	ExpectedEOF:      "expected end of input",
	DepthExceeded:    "nesting too deep",
}

func (k ErrorKind) String() string {
	if int(k) < len(kindStr) {
		return kindStr[k]
	}
	return fmt.Sprintf("ErrorKind(%d)", k)
}

// Construct identifies the grammatical construct being parsed when a
// SyntaxError occurred.
type Construct byte

// Constants defining the valid Construct values.
const (
	Value        Construct = iota // any value
	Null                          // the constant null
	Bool                          // true or false
	Number                        // integer or floating-point number
	StringStart                   // opening quote of a string
	StringEnd                     // content and closing quote of a string
	Escape                        // backslash escape sequence
	Unicode                       // \uXXXX escape sequence
	Ident                         // identifier: true, false, null
	Comment                       // line or block comment
	ArrayStart                    // opening bracket of an array
	ArrayElement                  // delimiter after an array element
	ArrayEnd                      // closing bracket of an array
	ObjectStart                   // opening brace of an object
	ObjectKey                     // key of an object member
	ObjectValue                   // colon, value and delimiter of a member
	ObjectEnd                     // closing brace of an object
	EnumStart                     // opening brace of an enum
	EnumValue                     // colon and payload of an enum variant
	EnumEnd                       // closing brace of an enum
	Document                      // the whole input
)

var constructStr = [...]string{
	Value:        "value",
	Null:         "null",
	Bool:         "boolean",
	Number:       "number",
	StringStart:  "start of string",
	StringEnd:    "end of string",
	Escape:       "escape sequence",
	Unicode:      "unicode escape",
	Ident:        "identifier",
	Comment:      "comment",
	ArrayStart:   "start of array",
	ArrayElement: "array element",
	ArrayEnd:     "end of array",
	ObjectStart:  "start of object",
	ObjectKey:    "object key",
	ObjectValue:  "object value",
	ObjectEnd:    "end of object",
	EnumStart:    "start of enum",
	EnumValue:    "enum value",
	EnumEnd:      "end of enum",
	Document:     "document",
}

func (c Construct) String() string {
	if int(c) < len(constructStr) {
		return constructStr[c]
	}
	return fmt.Sprintf("Construct(%d)", c)
}

// SyntaxError is the concrete type of errors reported for malformed input.
type SyntaxError struct {
	Kind      ErrorKind
	Construct Construct
	Range     PosRange // location of the offending token

	Found byte   // the offending byte, if any
	Text  []byte // the offending identifier or number text, if any
	Want  string // the expected identifier, for UnexpectedIdent

	err error
}

// Error satisfies the error interface.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("at %s: %s", e.Range, e.message())
}

func (e *SyntaxError) message() string {
	switch e.Kind {
	case UnexpectedEOF:
		return fmt.Sprintf("unexpected end of input while parsing %s", e.Construct)
	case UnexpectedByte:
		return fmt.Sprintf("unexpected %q while parsing %s", e.Found, e.Construct)
	case UnexpectedIdent:
		return fmt.Sprintf("found %q, want %q", e.Text, e.Want)
	case InvalidEscape:
		return fmt.Sprintf("invalid escape %q", e.Found)
	case InvalidUnicode:
		return fmt.Sprintf("invalid hex digit %q in unicode escape", e.Found)
	case ControlCharacter:
		return fmt.Sprintf("unescaped control character %q in string", e.Found)
	case InvalidNumber:
		if e.err != nil {
			return fmt.Sprintf("invalid number %q: %v", e.Text, e.err)
		}
		return fmt.Sprintf("invalid number %q", e.Text)
	case InvalidComment:
		return fmt.Sprintf("unexpected %q after \"/\"", e.Found)
	case ExpectedEOF:
		return fmt.Sprintf("expected end of input, found %q", e.Found)
	case DepthExceeded:
		return fmt.Sprintf("%s nested too deeply", e.Construct)
	}
	return e.Kind.String()
}

// Unwrap supports error wrapping.
func (e *SyntaxError) Unwrap() error { return e.err }

// Is reports whether target is a *SyntaxError with the same kind and
// construct as e. This permits checks like
//
//	errors.Is(err, &jsonc.SyntaxError{Kind: jsonc.ExpectedEOF, Construct: jsonc.Document})
func (e *SyntaxError) Is(target error) bool {
	t, ok := target.(*SyntaxError)
	return ok && t.Kind == e.Kind && t.Construct == e.Construct
}

func syntaxErr(kind ErrorKind, c Construct, pos Position, found byte) *SyntaxError {
	return &SyntaxError{Kind: kind, Construct: c, Range: PosRange{pos, pos}, Found: found}
}

// A TypeError reports a syntactically valid value whose shape does not
// match the one requested by the target.
type TypeError struct {
	Want string   // description of the requested shape
	Got  string   // description of the value found
	Pos  Position // location of the start of the value

	located bool
	err     error
}

// Error satisfies the error interface.
func (e *TypeError) Error() string {
	msg := fmt.Sprintf("cannot decode %s as %s", e.Got, e.Want)
	if e.err != nil {
		msg += ": " + e.err.Error()
	}
	if e.located {
		return fmt.Sprintf("at %s: %s", e.Pos, msg)
	}
	return msg
}

// Unwrap supports error wrapping.
func (e *TypeError) Unwrap() error { return e.err }

// locate attaches pos to err if it is an unlocated *TypeError.
func locate(pos Position, err error) error {
	var te *TypeError
	if errors.As(err, &te) && !te.located {
		te.Pos, te.located = pos, true
	}
	return err
}
