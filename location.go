// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package jsonc

import (
	"fmt"
	"io"
)

// A Position describes the location of a single byte of source text.
// Both fields are 0-based.
type Position struct {
	Row int // line number, incremented after each line feed
	Col int // byte offset of column in line
}

func (p Position) String() string { return fmt.Sprintf("%d:%d", p.Row, p.Col) }

// A PosRange describes the locations of the first and last bytes of a token.
// Both ends are inclusive.
type PosRange struct {
	Start, End Position
}

func (r PosRange) String() string {
	if r.Start == r.End {
		return r.Start.String()
	} else if r.Start.Row == r.End.Row {
		return fmt.Sprintf("%d:%d-%d", r.Start.Row, r.Start.Col, r.End.Col)
	}
	return fmt.Sprintf("%s-%s", r.Start, r.End)
}

// posReader annotates each byte read from r with its position.
type posReader struct {
	r   io.ByteReader
	pos Position
	off int // absolute offset of the next byte
}

// next reads the next byte from the input along with its position and
// offset. At the end of the input it reports io.EOF. If r reports any other
// error, the position does not advance, and a later call may try again.
func (p *posReader) next() (Position, int, byte, error) {
	pos, off := p.pos, p.off
	b, err := p.r.ReadByte()
	if err != nil {
		return pos, off, 0, err
	}
	p.off++
	if b == '\n' {
		p.pos.Row++
		p.pos.Col = 0
	} else {
		p.pos.Col++
	}
	return pos, off, b, nil
}
