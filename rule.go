// Package peg runs parsing expression grammars built from small rules that
// match directly against an input cursor.
//
// Every rule is evaluated through Dispatch, which wraps the rule's own
// matching with the hooks of an Env: a Control notified when a rule starts,
// succeeds, fails or raises, and an Action applied to what a rule matched.
// Two modes travel with the Env. ApplyMode switches actions on or off for a
// subtree, and RewindMode says whether a failed rule must put the cursor
// back where it found it.
//
//	digits := peg.Plus(peg.Range('0', '9'))
//	ok, err := peg.ParseString(digits, "input", "1234")
//
// Named rules are collected in a Grammar, which checks for missing and
// unused rules before parsing.
package peg

import (
	"fmt"
	"strings"
)

// Rule is the protocol every matcher implements. Match holds only the rule's
// own matching logic; hooks and rewinding are the job of Dispatch, and
// composite rules evaluate their sub-rules through it.
//
// Match returns true when a possibly empty prefix of the remaining input
// matched and the cursor has been advanced past it. A non-nil error is a
// fatal failure and must not be treated as an ordinary non-match.
type Rule interface {
	Match(env Env, in *Input) (bool, error)
}

// Env is everything threaded unchanged through a match. It is passed by
// value so a combinator can override a field for its subtree only.
type Env struct {
	Apply   ApplyMode
	Rewind  RewindMode
	Action  Action
	Control Control
	State   any
}

func (e Env) withDefaults() Env {
	if e.Action == nil {
		e.Action = NopAction{}
	}
	if e.Control == nil {
		e.Control = Normal{}
	}
	return e
}

// Skipper is implemented by rules that are pure composition artifacts. When
// SkipControl returns true the kernel fires no control hook and no action
// for the rule itself; its sub-rules are unaffected.
type Skipper interface {
	SkipControl() bool
}

func skipped(r Rule) bool {
	s, ok := r.(Skipper)
	return ok && s.SkipControl()
}

// RuleType is the shape of a rule as seen by the soundness analysis.
type RuleType uint8

const (
	// TypeAny always consumes input when it succeeds.
	TypeAny RuleType = iota
	// TypeOpt may succeed without consuming.
	TypeOpt
	// TypeSeq consumes when any of its rules consumes.
	TypeSeq
	// TypeSor consumes when all of its rules consume.
	TypeSor
)

func (t RuleType) String() string {
	switch t {
	case TypeAny:
		return "ANY"
	case TypeOpt:
		return "OPT"
	case TypeSeq:
		return "SEQ"
	case TypeSor:
		return "SOR"
	default:
		return fmt.Sprintf("RuleType(%d)", uint8(t))
	}
}

// Analysis is the static classification of a rule: its shape and the
// ordered sub-rules it is built from.
type Analysis struct {
	Type  RuleType
	Rules []Rule
}

// Analyzer is implemented by rules that declare a classification. Rules
// without one are treated as consuming leaves.
type Analyzer interface {
	Analyze() Analysis
}

// Classify returns the declared classification of r.
func Classify(r Rule) Analysis {
	if a, ok := r.(Analyzer); ok {
		return a.Analyze()
	}
	return Analysis{Type: TypeAny}
}

// Describe renders a rule for traces and diagnostics.
func Describe(r Rule) string {
	if s, ok := r.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", r)
}

func describeAll(rules []Rule, sep string) string {
	parts := make([]string, len(rules))
	for i, r := range rules {
		parts[i] = Describe(r)
	}
	return strings.Join(parts, sep)
}
