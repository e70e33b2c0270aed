// Package override parses the per-pixel override command: a run of
// "(index,r,g,b)" tuples with no separator required between them.
//
// Parsing is best effort. A malformed tuple degrades to zeros instead of
// rejecting the whole command, and an unterminated trailing tuple is dropped
// while the complete tuples before it are kept.
package override

import (
	"strings"

	"github.com/dokzlo13/stripd/internal/pixel"
)

// Entry is one parsed pixel assignment with index and channels clamped.
type Entry struct {
	Index int
	Color pixel.Color
}

// Result holds the parsed entries in input order plus the number of tuples
// that had to be dropped.
type Result struct {
	Entries []Entry
	Skipped int
}

// Parse reads tuples from input for a strip of n pixels.
func Parse(input string, n int) Result {
	p := parser{input: input, n: n}
	return p.run()
}

type parser struct {
	input string
	pos   int
	n     int
}

func (p *parser) run() Result {
	var res Result
	for {
		body, ok, found := p.nextTuple()
		if !found {
			return res
		}
		if !ok {
			res.Skipped++
			return res
		}
		if strings.TrimSpace(body) == "" {
			res.Skipped++
			continue
		}
		res.Entries = append(res.Entries, p.entry(body))
	}
}

// nextTuple advances past the next "(...)" and returns its body. found is
// false when no further "(" exists; ok is false when a "(" has no closing ")".
// A "(" met before the closing ")" restarts the tuple, so nested lists such as
// "((0, 255, 0, 0), (1, 0, 0, 255))" parse as their inner tuples.
func (p *parser) nextTuple() (body string, ok, found bool) {
	open := strings.IndexByte(p.input[p.pos:], '(')
	if open < 0 {
		return "", false, false
	}
	start := p.pos + open + 1
	for i := start; i < len(p.input); i++ {
		switch p.input[i] {
		case '(':
			start = i + 1
		case ')':
			p.pos = i + 1
			return p.input[start:i], true, true
		}
	}
	p.pos = len(p.input)
	return "", false, true
}

// entry splits a tuple body into index, r, g, b. Fields that cannot be
// located are zero.
func (p *parser) entry(body string) Entry {
	var fields [4]int
	rest := body
	for i := range fields {
		field, tail, more := strings.Cut(rest, ",")
		fields[i] = atoi(field)
		if !more {
			break
		}
		rest = tail
	}

	return Entry{
		Index: ClampIndex(fields[0], p.n),
		Color: pixel.Color{
			R: ClampChannel(fields[1]),
			G: ClampChannel(fields[2]),
			B: ClampChannel(fields[3]),
		},
	}
}

// ClampIndex clamps i into [0,n).
func ClampIndex(i, n int) int {
	if i < 0 || n <= 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// ClampChannel clamps v into [0,255].
func ClampChannel(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// atoi parses a leading signed decimal number after optional whitespace and
// stops at the first non-digit. Anything unparseable is 0.
func atoi(s string) int {
	s = strings.TrimLeft(s, " \t\r\n")
	neg := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		s = s[1:]
	}
	v := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			break
		}
		v = v*10 + int(c-'0')
		if v > 1<<20 {
			v = 1 << 20
		}
	}
	if neg {
		return -v
	}
	return v
}
