package peg

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"sort"
)

// Def is a named rule. Names are what actions and traces key on.
type Def struct {
	name string
	body *SeqRule
}

func (d *Def) Name() string { return d.name }

func (d *Def) Match(env Env, in *Input) (bool, error) {
	return Dispatch(d.body, env, in)
}

func (d *Def) Analyze() Analysis { return Analysis{Type: TypeSeq, Rules: d.body.rules} }
func (d *Def) String() string    { return d.name }

// Call is a reference to a named rule of a grammar, resolved by name so
// rules can refer to each other before they are defined.
type Call struct {
	g    *Grammar
	name string
	pos  int
}

func (c *Call) Match(env Env, in *Input) (bool, error) {
	d := c.g.lookup(c.name)
	if d == nil {
		return false, NewParseError(in, fmt.Sprintf("missing rule %q", c.name))
	}
	return Dispatch(d, env, in)
}

func (c *Call) SkipControl() bool { return true }

func (c *Call) Analyze() Analysis {
	if d := c.g.lookup(c.name); d != nil {
		return Analysis{Type: TypeSeq, Rules: []Rule{d}}
	}
	return Analysis{Type: TypeAny}
}

func (c *Call) String() string { return c.name }

type position struct {
	file string
	line int
	rule string
}

func (p position) String() string {
	return fmt.Sprintf("%v:%v", p.file, p.line)
}

// GrammarError is a problem with how a grammar was put together, tagged with
// the file and line of the builder call that caused it.
type GrammarError struct {
	g       *Grammar
	pos     int
	message string
}

func (e *GrammarError) Error() string {
	p := e.g.posInfo[e.pos]
	if p.rule != "" {
		rulePos := e.g.posInfo[e.g.rulePos[e.g.nameIdx[p.rule]]]
		return fmt.Sprintf("%v: %v (inside %q at %v)", p, e.message, p.rule, rulePos)
	}
	return fmt.Sprintf("%v: %v", p, e.message)
}

// Grammar is a set of named rules with a start rule. Define and Call record
// where they were called from so Check can point at the offending line.
type Grammar struct {
	Start string

	defs    []*Def
	nameIdx map[string]int

	// list of pos for each called name
	callPos map[string][]int
	// pos for each numbered rule
	rulePos []int
	posInfo []position

	pos    int
	errors []error
	err    error
}

func NewGrammar(start string) *Grammar {
	g := &Grammar{
		Start:   start,
		nameIdx: make(map[string]int),
		callPos: make(map[string][]int),
	}
	g.pos = g.markPosition()
	return g
}

func (g *Grammar) Err() error {
	return g.err
}

func (g *Grammar) Errors() []error {
	if g.errors == nil {
		return []error{}
	}
	return g.errors
}

func (g *Grammar) Errorf(pos int, s string, args ...any) {
	err := &GrammarError{
		g:       g,
		message: fmt.Sprintf(s, args...),
		pos:     pos,
	}
	if g.err == nil {
		g.err = err
	}
	g.errors = append(g.errors, err)
}

func (g *Grammar) markPosition() int {
	_, file, no, ok := runtime.Caller(2)
	if !ok {
		file, no = "???", 0
	}
	if base, err := os.Getwd(); err == nil {
		if rel, err := filepath.Rel(base, file); err == nil {
			file = rel
		}
	}
	p := len(g.posInfo)
	g.posInfo = append(g.posInfo, position{file: file, line: no})
	return p
}

// Define adds a named rule matching rules in sequence.
func (g *Grammar) Define(name string, rules ...Rule) *Def {
	p := g.markPosition()
	d := &Def{name: name, body: seqOf(rules)}
	g.claimCalls(name, rules, map[Rule]bool{})

	if old, ok := g.nameIdx[name]; ok {
		oldPos := g.posInfo[g.rulePos[old]]
		g.Errorf(p, "cant redefine %q, already defined at %v", name, oldPos)
		return d
	}

	g.nameIdx[name] = len(g.defs)
	g.defs = append(g.defs, d)
	g.rulePos = append(g.rulePos, p)
	return d
}

// Call refers to a rule by name.
func (g *Grammar) Call(name string) *Call {
	p := g.markPosition()
	g.callPos[name] = append(g.callPos[name], p)
	return &Call{g: g, name: name, pos: p}
}

// claimCalls records name as the enclosing rule of the calls reachable from
// rules without passing through another named rule.
func (g *Grammar) claimCalls(name string, rules []Rule, seen map[Rule]bool) {
	for _, r := range rules {
		if r == nil || !reflect.TypeOf(r).Comparable() || seen[r] {
			continue
		}
		seen[r] = true
		switch r := r.(type) {
		case *Call:
			if r.g == g && g.posInfo[r.pos].rule == "" {
				g.posInfo[r.pos].rule = name
			}
		case *Def:
		default:
			g.claimCalls(name, Classify(r).Rules, seen)
		}
	}
}

func (g *Grammar) lookup(name string) *Def {
	if i, ok := g.nameIdx[name]; ok {
		return g.defs[i]
	}
	return nil
}

// Check reports calls to missing rules, defined rules nothing calls, and a
// missing start rule. It returns the first error; Errors has all of them.
func (g *Grammar) Check() error {
	if g.err != nil {
		return g.err
	}

	names := make([]string, 0, len(g.callPos))
	for name := range g.callPos {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, ok := g.nameIdx[name]; !ok {
			for _, p := range g.callPos[name] {
				g.Errorf(p, "missing rule %q", name)
			}
		}
	}

	for n, d := range g.defs {
		if d.name != g.Start && g.callPos[d.name] == nil {
			g.Errorf(g.rulePos[n], "unused rule %q", d.name)
		}
	}

	if g.Start == "" {
		g.Errorf(g.pos, "starting rule undefined")
	} else if _, ok := g.nameIdx[g.Start]; !ok {
		g.Errorf(g.pos, "starting rule %q is missing", g.Start)
	}

	return g.err
}

// Rule returns the named rule.
func (g *Grammar) Rule(name string) (Rule, bool) {
	d := g.lookup(name)
	if d == nil {
		return nil, false
	}
	return d, true
}

// Root returns the start rule, or nil when it is not defined.
func (g *Grammar) Root() Rule {
	if d := g.lookup(g.Start); d != nil {
		return d
	}
	return nil
}

func (g *Grammar) Names() []string {
	names := make([]string, len(g.defs))
	for i, d := range g.defs {
		names[i] = d.name
	}
	return names
}

// ErrInvalidGrammar wraps the first error Check found.
var ErrInvalidGrammar = errors.New("invalid grammar")

// Parse checks the grammar, then matches the start rule against the whole
// of text.
func (g *Grammar) Parse(source, text string, opts ...Option) (bool, error) {
	if err := g.Check(); err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidGrammar, err)
	}
	return ParseString(g.Root(), source, text, opts...)
}

// Accept reports whether text is in the language of the grammar.
func (g *Grammar) Accept(text string) bool {
	ok, err := g.Parse("", text)
	return ok && err == nil
}
