// Package analysis checks grammars for constructs that can loop forever
// without consuming input: left recursion, and repetition over a rule that
// can succeed without consuming.
//
// It works only from each rule's declared classification (peg.Classify):
// a rule type and an ordered list of sub-rules. For every reachable rule it
// computes whether a successful match always consumes input; reaching a
// rule again while it is still being evaluated, with nothing consumed since
// it was entered, is a cycle without progress.
package analysis

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/tef/peg"
)

// Problem is a cycle without progress found at Rule.
type Problem struct {
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

func (p Problem) Error() string {
	return fmt.Sprintf("%s: %s", p.Rule, p.Message)
}

// Report is the result of Analyze.
type Report struct {
	Problems []Problem `json:"problems"`

	order    []peg.Rule
	consumes map[peg.Rule]bool
}

// Rules is the number of distinct rules reachable from the root.
func (r *Report) Rules() int { return len(r.order) }

// Consumes reports whether a successful match of rule always consumes
// input. The second result is false when rule was not analyzed.
func (r *Report) Consumes(rule peg.Rule) (bool, bool) {
	if !comparable(rule) {
		return false, false
	}
	v, ok := r.consumes[rule]
	return v, ok
}

// Err joins every problem, or returns nil when there are none.
func (r *Report) Err() error {
	errs := make([]error, len(r.Problems))
	for i, p := range r.Problems {
		errs[i] = p
	}
	return errors.Join(errs...)
}

type analyzer struct {
	info     map[peg.Rule]peg.Analysis
	order    []peg.Rule
	cache    map[peg.Rule]bool
	stack    map[peg.Rule]bool
	reported map[peg.Rule]bool
	problems []Problem
}

// Analyze checks every rule reachable from root.
func Analyze(root peg.Rule) *Report {
	a := &analyzer{
		info:     make(map[peg.Rule]peg.Analysis),
		reported: make(map[peg.Rule]bool),
	}
	a.insert(root)

	report := &Report{
		order:    a.order,
		consumes: make(map[peg.Rule]bool, len(a.order)),
	}
	for _, r := range a.order {
		a.cache = make(map[peg.Rule]bool)
		a.stack = make(map[peg.Rule]bool)
		report.consumes[r] = a.work(r, false)
	}
	report.Problems = a.problems
	if report.Problems == nil {
		report.Problems = []Problem{}
	}
	return report
}

func comparable(r peg.Rule) bool {
	return r != nil && reflect.TypeOf(r).Comparable()
}

func (a *analyzer) insert(r peg.Rule) {
	if !comparable(r) {
		return
	}
	if _, ok := a.info[r]; ok {
		return
	}
	info := peg.Classify(r)
	a.info[r] = info
	a.order = append(a.order, r)
	for _, sub := range info.Rules {
		a.insert(sub)
	}
}

// work returns whether r always consumes on success. accum is whether
// input has been consumed since the analysis entered the current cycle.
func (a *analyzer) work(r peg.Rule, accum bool) bool {
	if !comparable(r) {
		return true
	}
	if v, ok := a.cache[r]; ok {
		return v
	}
	if a.stack[r] {
		if !accum {
			a.problem(r)
		}
		a.cache[r] = accum
		return accum
	}
	a.stack[r] = true
	defer delete(a.stack, r)

	info := a.info[r]
	var result bool
	switch info.Type {
	case peg.TypeAny, peg.TypeOpt, peg.TypeSeq:
		c := false
		for _, sub := range info.Rules {
			c = a.work(sub, accum || c) || c
		}
		switch info.Type {
		case peg.TypeAny:
			result = true
		case peg.TypeOpt:
			result = false
		default:
			result = c
		}
	case peg.TypeSor:
		result = true
		for _, sub := range info.Rules {
			if !a.work(sub, accum) {
				result = false
			}
		}
	}
	a.cache[r] = result
	return result
}

func (a *analyzer) problem(r peg.Rule) {
	if a.reported[r] {
		return
	}
	a.reported[r] = true
	a.problems = append(a.problems, Problem{
		Rule:    peg.Describe(r),
		Message: "cycle without progress",
	})
}
