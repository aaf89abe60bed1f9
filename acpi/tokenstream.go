package acpi

import (
	"bufio"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// ---- Line-oriented view over disassembled ACPI text ----

// Line is one source line plus its brace-depth delta.
type Line struct {
	Text  string
	Delta int // '{' count minus '}' count on this line
}

// TokenStream is a forward-only, line-indexed view of one disassembled
// table. Depth deltas are computed by character count; the dialect never
// embeds braces in quoted strings, so strings are treated as opaque.
type TokenStream struct {
	lines []Line
}

// NewTokenStream reads r to completion.
func NewTokenStream(r io.Reader) (*TokenStream, error) {
	ts := &TokenStream{}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		text := sc.Text()
		ts.lines = append(ts.lines, Line{
			Text:  text,
			Delta: strings.Count(text, "{") - strings.Count(text, "}"),
		})
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "reading table")
	}
	return ts, nil
}

// Lines returns the full line sequence, in order.
func (ts *TokenStream) Lines() []Line { return ts.lines }
