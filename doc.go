// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package jsonc implements a decoder for JSONC, JSON extended with comments
// and trailing commas.
//
// JSONC permits line comments ("// ...") and block comments ("/* ... */")
// wherever whitespace is allowed, and a single trailing comma after the last
// element of an array or the last member of an object:
//
//	{
//	  // The name of the service.
//	  "name": "api",
//	  "ports": [80, 443,], /* both */
//	}
//
// # Decoding into Go values
//
// The simplest way to use the package is to decode into a Go value:
//
//	cfg, err := jsonc.Parse[Config](data)
//
// or, equivalently,
//
//	var cfg Config
//	err := jsonc.Unmarshal(data, &cfg)
//
// See [Decoder.Decode] for the mapping between Go types and JSONC values.
//
// # Visitors
//
// A Decoder reads values on demand. Each of its Decode methods reads one
// value of a requested shape and reports it to a Visitor. Composite values
// are reported with an access adapter the visitor uses to pull the elements
// one at a time:
//
//	Method        | Input                  | Visitor method
//	------------- | ---------------------- | -----------------------------
//	DecodeBool    | true, false            | VisitBool
//	DecodeInt     | number                 | VisitInt
//	DecodeUint    | number                 | VisitUint
//	DecodeFloat   | number                 | VisitFloat
//	DecodeString  | "..."                  | VisitString
//	DecodeBytes   | "..."                  | VisitBytes
//	DecodeNull    | null                   | VisitNull
//	DecodeOption  | null or any value      | VisitNull or VisitSome
//	DecodeSeq     | [ ... ]                | VisitSeq
//	DecodeMap     | { ... }                | VisitMap
//	DecodeStruct  | { ... } or [ ... ]     | VisitMap or VisitSeq
//	DecodeEnum    | {"Variant": payload}   | VisitEnum
//	DecodeAny     | any value              | chosen by the input
//
// Embed [Unexpected] in a visitor to reject the shapes it does not handle.
// A type that implements [Unmarshaler] can use these methods to decode
// itself.
//
// When the input is a byte slice or a string, string values that contain no
// escape sequences are borrowed from the input rather than copied. A visitor
// can retain a borrowed [StringValue] as long as the input is unmodified.
//
// # Streaming
//
// The Stream type implements an event-driven stream parser. The parser works
// by calling methods on a Handler value to report the structure of the input:
//
//	s := jsonc.NewStream(input)
//	if err := s.Parse(handler); err != nil {
//	   log.Fatalf("Parse failed: %v", err)
//	}
//
// # Errors
//
// Malformed input is reported as a [*SyntaxError] that records the kind of
// problem, the construct being parsed, and its location. Well-formed input
// that does not match the shape a visitor accepts is reported as a
// [*TypeError]. Locations are zero-based rows and columns.
package jsonc
