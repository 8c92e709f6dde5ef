// Package trace provides peg.Control implementations for watching a parse:
// a Recorder that keeps every hook call, a Logger that writes them to zap,
// and Multi to fan out to several controls at once.
package trace

import (
	"fmt"
	"strings"

	"github.com/tef/peg"
)

// Kind is the hook an event came from.
type Kind string

const (
	Start   Kind = "start"
	Success Kind = "success"
	Failure Kind = "failure"
	Raise   Kind = "raise"
)

// Event is one control hook call.
type Event struct {
	Kind  Kind         `json:"kind"`
	Rule  string       `json:"rule"`
	Pos   peg.Position `json:"pos"`
	Depth int          `json:"depth"`
	Err   string       `json:"error,omitempty"`
}

func (e Event) String() string {
	s := fmt.Sprintf("%s%s %s @%d:%d", strings.Repeat("  ", e.Depth), e.Kind, e.Rule, e.Pos.Line, e.Pos.Column)
	if e.Err != "" {
		s += " " + e.Err
	}
	return s
}

// Recorder keeps every event in order. The zero value is ready to use.
type Recorder struct {
	Events []Event
	depth  int
}

func (r *Recorder) add(kind Kind, rule peg.Rule, in *peg.Input, err error) {
	if kind != Start {
		r.depth--
	}
	e := Event{Kind: kind, Rule: peg.Describe(rule), Pos: in.Position(), Depth: r.depth}
	if err != nil {
		e.Err = err.Error()
	}
	r.Events = append(r.Events, e)
	if kind == Start {
		r.depth++
	}
}

func (r *Recorder) Start(rule peg.Rule, in *peg.Input, _ any)   { r.add(Start, rule, in, nil) }
func (r *Recorder) Success(rule peg.Rule, in *peg.Input, _ any) { r.add(Success, rule, in, nil) }
func (r *Recorder) Failure(rule peg.Rule, in *peg.Input, _ any) { r.add(Failure, rule, in, nil) }

func (r *Recorder) Raise(rule peg.Rule, in *peg.Input, _ any, err error) {
	r.add(Raise, rule, in, err)
}

// Count returns how many events of kind were recorded for the rule
// described as rule.
func (r *Recorder) Count(kind Kind, rule string) int {
	n := 0
	for _, e := range r.Events {
		if e.Kind == kind && e.Rule == rule {
			n++
		}
	}
	return n
}

// Text renders one event per line, indented by nesting depth.
func (r *Recorder) Text() string {
	var b strings.Builder
	for _, e := range r.Events {
		b.WriteString(e.String())
		b.WriteByte('\n')
	}
	return b.String()
}

func (r *Recorder) Reset() {
	r.Events = nil
	r.depth = 0
}

// Multi forwards every hook to each control in order.
type Multi []peg.Control

func (m Multi) Start(r peg.Rule, in *peg.Input, st any) {
	for _, c := range m {
		c.Start(r, in, st)
	}
}

func (m Multi) Success(r peg.Rule, in *peg.Input, st any) {
	for _, c := range m {
		c.Success(r, in, st)
	}
}

func (m Multi) Failure(r peg.Rule, in *peg.Input, st any) {
	for _, c := range m {
		c.Failure(r, in, st)
	}
}

func (m Multi) Raise(r peg.Rule, in *peg.Input, st any, err error) {
	for _, c := range m {
		c.Raise(r, in, st, err)
	}
}
