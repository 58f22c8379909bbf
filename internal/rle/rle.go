// Package rle decodes and encodes cellular-automaton patterns in the
// standard run-length-encoded text format: a `x = W, y = H` header line
// followed by a stream of repeat-count-prefixed b/o/$ tokens terminated
// by `!`.
package rle

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"

	"gridlife/internal/core"
)

// ErrInvalidFormat reports a pattern whose header is missing or
// malformed. Body irregularities are never errors; the decoder degrades
// gracefully instead.
var ErrInvalidFormat = errors.New("invalid RLE format")

// Decode parses a pattern and returns a freshly allocated grid of the
// declared dimensions with the decoded cells alive. The body is a single
// linear scan: digits accumulate a pending repeat count, 'b' and 'o' emit
// dead and alive runs along the current row, '$' moves down to the start
// of a following row, '!' terminates, and every other byte is ignored.
// Decoding stops silently once the cursor leaves the grid; runs past the
// end of a row are clipped. The cursor is a (row, col) pair rather than a
// linear index: after a fully written row the two disagree about which
// row a '$' starts from, and only the pair gets it right.
func Decode(data []byte) (*core.Grid, error) {
	header, body, err := splitHeader(data)
	if err != nil {
		return nil, err
	}
	w, h, err := parseHeader(header)
	if err != nil {
		return nil, err
	}
	grid, err := core.NewGrid(w, h)
	if err != nil {
		return nil, err
	}

	total := grid.Len()
	cells := grid.Cells()
	row, col := 0, 0
	count := 0
	haveCount := false

	for _, ch := range body {
		switch {
		case ch >= '0' && ch <= '9':
			count = count*10 + int(ch-'0')
			// Any run at least as long as the grid is equivalent to one
			// exactly that long; clamping also catches integer wrap from
			// absurd digit strings.
			if count > total || count < 0 {
				count = total
			}
			haveCount = true
			continue
		case ch == 'b' || ch == 'o':
			n := count
			if !haveCount {
				n = 1
			}
			if ch == 'o' {
				for j := 0; j < n && col+j < w; j++ {
					cells[row*w+col+j].Alive = true
				}
			}
			col += n
		case ch == '$':
			n := count
			if !haveCount {
				n = 1
			}
			row += n
			col = 0
		case ch == '!':
			return grid, nil
		default:
			// Whitespace and anything else between tokens.
			continue
		}
		count = 0
		haveCount = false
		if row >= h {
			return grid, nil
		}
	}
	return grid, nil
}

// splitHeader scans lines, skipping blanks and '#' comments, until it
// finds the line starting with 'x'. It returns that line and everything
// after it.
func splitHeader(data []byte) (header, body []byte, err error) {
	rest := data
	for len(rest) > 0 {
		line := rest
		if i := bytes.IndexByte(rest, '\n'); i >= 0 {
			line = rest[:i]
			rest = rest[i+1:]
		} else {
			rest = nil
		}
		trimmed := bytes.TrimSpace(line)
		if len(trimmed) == 0 || trimmed[0] == '#' {
			continue
		}
		if trimmed[0] == 'x' {
			return trimmed, rest, nil
		}
	}
	return nil, nil, fmt.Errorf("%w: no header line found", ErrInvalidFormat)
}

// parseHeader extracts the dimensions from a `x = W, y = H` line. A
// trailing `rule = ...` field, which pattern-collection files carry almost
// universally, is tolerated and ignored; the rule here is fixed.
func parseHeader(line []byte) (w, h int, err error) {
	fields := bytes.Split(line, []byte(","))
	if len(fields) < 2 {
		return 0, 0, fmt.Errorf("%w: header %q must have x and y fields", ErrInvalidFormat, line)
	}
	w, err = headerValue(fields[0], "x")
	if err != nil {
		return 0, 0, err
	}
	h, err = headerValue(fields[1], "y")
	if err != nil {
		return 0, 0, err
	}
	for _, extra := range fields[2:] {
		kv := bytes.SplitN(extra, []byte("="), 2)
		if len(kv) != 2 || string(bytes.TrimSpace(kv[0])) != "rule" {
			return 0, 0, fmt.Errorf("%w: unexpected header field %q", ErrInvalidFormat, extra)
		}
	}
	return w, h, nil
}

func headerValue(field []byte, key string) (int, error) {
	kv := bytes.SplitN(field, []byte("="), 2)
	if len(kv) != 2 || string(bytes.TrimSpace(kv[0])) != key {
		return 0, fmt.Errorf("%w: header field %q is not a %s assignment", ErrInvalidFormat, field, key)
	}
	v, err := strconv.Atoi(string(bytes.TrimSpace(kv[1])))
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("%w: header field %q needs a positive integer", ErrInvalidFormat, field)
	}
	return v, nil
}

// Encode renders the grid back into pattern text with a canonical header,
// run-compressed rows, '$' separators, and a trailing '!'. Trailing dead
// cells in a row and trailing blank rows are omitted, matching common
// pattern-collection output.
func Encode(g *core.Grid) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "x = %d, y = %d\n", g.W, g.H)

	cells := g.Cells()
	prevRow := 0
	for row := 0; row < g.H; row++ {
		width := lastAliveCol(cells, row, g.W) + 1
		if width == 0 {
			continue
		}
		if skip := row - prevRow; skip > 0 {
			writeRun(&buf, skip, '$')
		}
		prevRow = row
		col := 0
		for col < width {
			alive := cells[row*g.W+col].Alive
			run := 1
			for col+run < width && cells[row*g.W+col+run].Alive == alive {
				run++
			}
			tag := byte('b')
			if alive {
				tag = 'o'
			}
			writeRun(&buf, run, tag)
			col += run
		}
	}
	buf.WriteByte('!')
	buf.WriteByte('\n')
	return buf.Bytes()
}

func lastAliveCol(cells []core.Cell, row, w int) int {
	for col := w - 1; col >= 0; col-- {
		if cells[row*w+col].Alive {
			return col
		}
	}
	return -1
}

func writeRun(buf *bytes.Buffer, n int, tag byte) {
	if n > 1 {
		buf.WriteString(strconv.Itoa(n))
	}
	buf.WriteByte(tag)
}
