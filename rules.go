package peg

import (
	"fmt"
	"strings"
)

// OneRule matches a single rune from a set, or outside it when inverted.
type OneRule struct {
	set    []rune
	invert bool
}

func One(set ...rune) *OneRule    { return &OneRule{set: set} }
func NotOne(set ...rune) *OneRule { return &OneRule{set: set, invert: true} }

func (r *OneRule) Match(_ Env, in *Input) (bool, error) {
	c, n := in.Peek()
	if n == 0 {
		return false, nil
	}
	found := false
	for _, s := range r.set {
		if s == c {
			found = true
			break
		}
	}
	if found == r.invert {
		return false, nil
	}
	in.Bump(n)
	return true, nil
}

func (r *OneRule) Analyze() Analysis { return Analysis{Type: TypeAny} }

func (r *OneRule) String() string {
	if len(r.set) == 1 && !r.invert {
		return fmt.Sprintf("%q", r.set[0])
	}
	if r.invert {
		return fmt.Sprintf("[^%s]", quoteSet(string(r.set)))
	}
	return fmt.Sprintf("[%s]", quoteSet(string(r.set)))
}

// RangeRule matches a single rune in [lo, hi].
type RangeRule struct {
	lo, hi rune
}

func Range(lo, hi rune) *RangeRule { return &RangeRule{lo: lo, hi: hi} }

func (r *RangeRule) Match(_ Env, in *Input) (bool, error) {
	c, n := in.Peek()
	if n == 0 || c < r.lo || c > r.hi {
		return false, nil
	}
	in.Bump(n)
	return true, nil
}

func (r *RangeRule) Analyze() Analysis { return Analysis{Type: TypeAny} }
func (r *RangeRule) String() string    { return fmt.Sprintf("[%c-%c]", r.lo, r.hi) }

// StrRule matches a literal string.
type StrRule struct {
	s string
}

func Str(s string) *StrRule { return &StrRule{s: s} }

func (r *StrRule) Match(_ Env, in *Input) (bool, error) {
	if !in.HasPrefix(r.s) {
		return false, nil
	}
	in.Bump(len(r.s))
	return true, nil
}

func (r *StrRule) Analyze() Analysis {
	if r.s == "" {
		return Analysis{Type: TypeOpt}
	}
	return Analysis{Type: TypeAny}
}

func (r *StrRule) String() string { return fmt.Sprintf("%q", r.s) }

// AnyRule matches any single rune.
type AnyRule struct{}

func AnyRune() *AnyRule { return &AnyRule{} }

func (r *AnyRule) Match(_ Env, in *Input) (bool, error) {
	_, n := in.Peek()
	if n == 0 {
		return false, nil
	}
	in.Bump(n)
	return true, nil
}

func (r *AnyRule) Analyze() Analysis { return Analysis{Type: TypeAny} }
func (r *AnyRule) String() string    { return "." }

// EOFRule succeeds at the end of input without consuming.
type EOFRule struct{}

func EOF() *EOFRule { return &EOFRule{} }

func (r *EOFRule) Match(_ Env, in *Input) (bool, error) { return in.Empty(), nil }
func (r *EOFRule) Analyze() Analysis                    { return Analysis{Type: TypeOpt} }
func (r *EOFRule) String() string                       { return "EOF" }

// BOLRule succeeds at the beginning of a line without consuming.
type BOLRule struct{}

func BOL() *BOLRule { return &BOLRule{} }

func (r *BOLRule) Match(_ Env, in *Input) (bool, error) { return in.Position().Column == 1, nil }
func (r *BOLRule) Analyze() Analysis                    { return Analysis{Type: TypeOpt} }
func (r *BOLRule) String() string                       { return "BOL" }

// NewlineRule matches one line break under the input's convention.
type NewlineRule struct{}

func Newline() *NewlineRule { return &NewlineRule{} }

func (r *NewlineRule) Match(_ Env, in *Input) (bool, error) {
	n := in.MatchEol()
	if n == 0 {
		return false, nil
	}
	in.Bump(n)
	return true, nil
}

func (r *NewlineRule) Analyze() Analysis { return Analysis{Type: TypeAny} }
func (r *NewlineRule) String() string    { return "EOL" }

// SuccessRule always matches and consumes nothing.
type SuccessRule struct{}

func Success() *SuccessRule { return &SuccessRule{} }

func (r *SuccessRule) Match(Env, *Input) (bool, error) { return true, nil }
func (r *SuccessRule) Analyze() Analysis               { return Analysis{Type: TypeOpt} }
func (r *SuccessRule) String() string                  { return "success" }

// FailureRule never matches.
type FailureRule struct{}

func Failure() *FailureRule { return &FailureRule{} }

func (r *FailureRule) Match(Env, *Input) (bool, error) { return false, nil }
func (r *FailureRule) Analyze() Analysis               { return Analysis{Type: TypeSor} }
func (r *FailureRule) String() string                  { return "failure" }

// RaiseRule always fails fatally with its message.
type RaiseRule struct {
	msg string
}

func Raise(msg string) *RaiseRule { return &RaiseRule{msg: msg} }

func (r *RaiseRule) Match(_ Env, in *Input) (bool, error) {
	return false, NewParseError(in, r.msg)
}

func (r *RaiseRule) Analyze() Analysis { return Analysis{Type: TypeAny} }
func (r *RaiseRule) String() string    { return fmt.Sprintf("raise(%q)", r.msg) }

func quoteSet(s string) string {
	return strings.NewReplacer("\n", `\n`, "\r", `\r`, "\t", `\t`).Replace(s)
}
