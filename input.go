package peg

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Eol selects which byte sequences count as a line break, both for the Newline
// rule and for line tracking in positions.
type Eol uint8

const (
	EolLFCRLF Eol = iota // "\n" or "\r\n"
	EolLF
	EolCR
	EolCRLF
	EolAny // "\n", "\r\n" or "\r"
)

var eolNames = map[Eol]string{
	EolLFCRLF: "lf_crlf",
	EolLF:     "lf",
	EolCR:     "cr",
	EolCRLF:   "crlf",
	EolAny:    "any",
}

func (e Eol) String() string {
	if s, ok := eolNames[e]; ok {
		return s
	}
	return fmt.Sprintf("eol(%d)", uint8(e))
}

// ParseEol maps a convention name as printed by String back to its value.
func ParseEol(s string) (Eol, error) {
	for e, name := range eolNames {
		if name == s {
			return e, nil
		}
	}
	return 0, fmt.Errorf("unknown end-of-line convention %q", s)
}

// match returns the length of the line break at the start of s, or 0.
func (e Eol) match(s string) int {
	switch {
	case strings.HasPrefix(s, "\r\n"):
		if e == EolCRLF || e == EolLFCRLF || e == EolAny {
			return 2
		}
		if e == EolCR {
			return 1
		}
	case strings.HasPrefix(s, "\n"):
		if e == EolLF || e == EolLFCRLF || e == EolAny {
			return 1
		}
	case strings.HasPrefix(s, "\r"):
		if e == EolCR || e == EolAny {
			return 1
		}
	}
	return 0
}

// breaksAt reports whether the byte at i ends a line break. A break is
// counted at its last byte, so a two byte break counts once and the
// column after it is 1.
func (e Eol) breaksAt(buf string, i int) bool {
	switch e {
	case EolLF, EolLFCRLF:
		return buf[i] == '\n'
	case EolCR:
		return buf[i] == '\r'
	case EolCRLF:
		return buf[i] == '\n' && i > 0 && buf[i-1] == '\r'
	case EolAny:
		return buf[i] == '\n' || (buf[i] == '\r' && (i+1 == len(buf) || buf[i+1] != '\n'))
	}
	return false
}

// Position is a point in an input. Line and Column are 1-based, Column
// counts bytes.
type Position struct {
	Source string
	Byte   int
	Line   int
	Column int
}

func (p Position) String() string {
	if p.Source == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.Source, p.Line, p.Column)
}

// Input is the cursor a parse runs against. It is owned by one parse and
// must not be shared between goroutines.
type Input struct {
	buf string
	eol Eol
	pos Position
}

func NewInput(source, data string, eol Eol) *Input {
	return NewInputAt(source, 1, data, eol)
}

// NewInputAt is NewInput for data that starts on the given line of source.
func NewInputAt(source string, line int, data string, eol Eol) *Input {
	if line < 1 {
		line = 1
	}
	return &Input{
		buf: data,
		eol: eol,
		pos: Position{Source: source, Line: line, Column: 1},
	}
}

func (in *Input) Source() string { return in.pos.Source }
func (in *Input) Eol() Eol        { return in.eol }

// Size is the number of unconsumed bytes.
func (in *Input) Size() int { return len(in.buf) - in.pos.Byte }

func (in *Input) Empty() bool { return in.pos.Byte >= len(in.buf) }

func (in *Input) Remaining() string { return in.buf[in.pos.Byte:] }

// Peek decodes the next rune without consuming it. The width is 0 at the
// end of input.
func (in *Input) Peek() (rune, int) {
	if in.Empty() {
		return utf8.RuneError, 0
	}
	return utf8.DecodeRuneInString(in.buf[in.pos.Byte:])
}

func (in *Input) HasPrefix(s string) bool {
	return strings.HasPrefix(in.buf[in.pos.Byte:], s)
}

// MatchEol returns the length of the line break at the cursor under the
// input's convention, or 0.
func (in *Input) MatchEol() int {
	return in.eol.match(in.buf[in.pos.Byte:])
}

// Bump consumes n bytes, tracking lines and columns.
func (in *Input) Bump(n int) {
	end := in.pos.Byte + n
	if end > len(in.buf) {
		end = len(in.buf)
	}
	for i := in.pos.Byte; i < end; i++ {
		if in.eol.breaksAt(in.buf, i) {
			in.pos.Line++
			in.pos.Column = 1
		} else {
			in.pos.Column++
		}
	}
	in.pos.Byte = end
}

func (in *Input) Position() Position { return in.pos }

// Mark returns a save point for Restore.
func (in *Input) Mark() Position { return in.pos }

func (in *Input) Restore(p Position) { in.pos = p }

func (in *Input) Slice(from, to Position) string {
	return in.buf[from.Byte:to.Byte]
}

// Line returns the text of the line containing p, without its line break.
func (in *Input) Line(p Position) string {
	start := p.Byte - (p.Column - 1)
	if start < 0 {
		start = 0
	}
	rest := in.buf[start:]
	for i := 0; i < len(rest); i++ {
		if in.eol.match(rest[i:]) > 0 {
			return rest[:i]
		}
	}
	return rest
}
