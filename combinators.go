package peg

import "fmt"

// SeqRule matches its rules in order and fails on the first that fails.
type SeqRule struct {
	rules []Rule
	// implicit sequences are built by other combinators around their
	// bodies and are skip-marked.
	implicit bool
}

func Seq(rules ...Rule) *SeqRule { return &SeqRule{rules: rules} }

func seqOf(rules []Rule) *SeqRule { return &SeqRule{rules: rules, implicit: true} }

func (s *SeqRule) Match(env Env, in *Input) (bool, error) {
	for _, r := range s.rules {
		ok, err := Dispatch(r, env, in)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

func (s *SeqRule) Rules() []Rule     { return s.rules }
func (s *SeqRule) SkipControl() bool { return s.implicit }
func (s *SeqRule) Analyze() Analysis { return Analysis{Type: TypeSeq, Rules: s.rules} }
func (s *SeqRule) String() string    { return body(s.rules, s.implicit) }

// body renders a rule list, dropping the parentheses around a single
// rule of an implicit sequence.
func body(rules []Rule, implicit bool) string {
	if implicit && len(rules) == 1 {
		return Describe(rules[0])
	}
	return "(" + describeAll(rules, " ") + ")"
}

// SorRule is ordered choice: the first alternative that matches wins.
// Every alternative but the last is dispatched with RewindRequired so the
// next one starts where the choice started.
type SorRule struct {
	rules []Rule
}

func Sor(rules ...Rule) *SorRule { return &SorRule{rules: rules} }

func (s *SorRule) Match(env Env, in *Input) (bool, error) {
	for i, r := range s.rules {
		e := env
		if i < len(s.rules)-1 {
			e.Rewind = RewindRequired
		}
		ok, err := Dispatch(r, e, in)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

func (s *SorRule) Analyze() Analysis { return Analysis{Type: TypeSor, Rules: s.rules} }
func (s *SorRule) String() string    { return "(" + describeAll(s.rules, " / ") + ")" }

// OptRule matches its sequence or nothing.
type OptRule struct {
	body *SeqRule
}

func Opt(rules ...Rule) *OptRule { return &OptRule{body: seqOf(rules)} }

func (o *OptRule) Match(env Env, in *Input) (bool, error) {
	env.Rewind = RewindRequired
	if _, err := Dispatch(o.body, env, in); err != nil {
		return false, err
	}
	return true, nil
}

func (o *OptRule) Analyze() Analysis { return Analysis{Type: TypeOpt, Rules: o.body.rules} }
func (o *OptRule) String() string    { return o.body.String() + "?" }

// StarRule matches its sequence zero or more times. Repetition stops when
// an iteration consumes nothing.
type StarRule struct {
	body *SeqRule
}

func Star(rules ...Rule) *StarRule { return &StarRule{body: seqOf(rules)} }

func (s *StarRule) Match(env Env, in *Input) (bool, error) {
	return repeat(s.body, env, in)
}

func repeat(body Rule, env Env, in *Input) (bool, error) {
	env.Rewind = RewindRequired
	for {
		before := in.Position().Byte
		ok, err := Dispatch(body, env, in)
		if err != nil {
			return false, err
		}
		if !ok || in.Position().Byte == before {
			return true, nil
		}
	}
}

func (s *StarRule) Analyze() Analysis {
	return Analysis{Type: TypeOpt, Rules: []Rule{s.body, s}}
}

func (s *StarRule) String() string { return s.body.String() + "*" }

// PlusRule matches its sequence one or more times.
type PlusRule struct {
	body *SeqRule
	rest *OptRule
}

func Plus(rules ...Rule) *PlusRule {
	p := &PlusRule{body: seqOf(rules)}
	p.rest = Opt(p)
	return p
}

func (p *PlusRule) Match(env Env, in *Input) (bool, error) {
	ok, err := Dispatch(p.body, env, in)
	if err != nil || !ok {
		return false, err
	}
	return repeat(p.body, env, in)
}

func (p *PlusRule) Analyze() Analysis {
	return Analysis{Type: TypeSeq, Rules: []Rule{p.body, p.rest}}
}

func (p *PlusRule) String() string { return p.body.String() + "+" }

// RepRule matches its sequence exactly n times.
type RepRule struct {
	n    int
	body *SeqRule
}

// Rep matches its sequence exactly n times. A negative n counts as 0.
func Rep(n int, rules ...Rule) *RepRule {
	if n < 0 {
		n = 0
	}
	return &RepRule{n: n, body: seqOf(rules)}
}

func (r *RepRule) Match(env Env, in *Input) (bool, error) {
	for i := 0; i < r.n; i++ {
		ok, err := Dispatch(r.body, env, in)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

func (r *RepRule) Analyze() Analysis {
	rules := make([]Rule, r.n)
	for i := range rules {
		rules[i] = r.body
	}
	return Analysis{Type: TypeSeq, Rules: rules}
}

func (r *RepRule) String() string { return fmt.Sprintf("%v{%d}", r.body, r.n) }

// AtRule is positive lookahead. It never consumes and never applies
// actions. Its body is dispatched with RewindOptional since the lookahead
// restores its own mark.
type AtRule struct {
	body *SeqRule
}

func At(rules ...Rule) *AtRule { return &AtRule{body: seqOf(rules)} }

func (a *AtRule) Match(env Env, in *Input) (bool, error) {
	return lookahead(a.body, env, in)
}

func lookahead(body Rule, env Env, in *Input) (bool, error) {
	mark := in.Mark()
	env.Apply = ApplyDisabled
	env.Rewind = RewindOptional
	ok, err := Dispatch(body, env, in)
	in.Restore(mark)
	return ok, err
}

func (a *AtRule) Analyze() Analysis { return Analysis{Type: TypeOpt, Rules: a.body.rules} }
func (a *AtRule) String() string    { return "&" + a.body.String() }

// NotAtRule is negative lookahead.
type NotAtRule struct {
	body *SeqRule
}

func NotAt(rules ...Rule) *NotAtRule { return &NotAtRule{body: seqOf(rules)} }

func (n *NotAtRule) Match(env Env, in *Input) (bool, error) {
	ok, err := lookahead(n.body, env, in)
	if err != nil {
		return false, err
	}
	return !ok, nil
}

func (n *NotAtRule) Analyze() Analysis { return Analysis{Type: TypeOpt, Rules: n.body.rules} }
func (n *NotAtRule) String() string    { return "!" + n.body.String() }

// MustRule requires each of its rules to match; a non-match becomes a
// fatal ParseError naming the rule that was expected.
type MustRule struct {
	rules []Rule
}

func Must(rules ...Rule) *MustRule { return &MustRule{rules: rules} }

func (m *MustRule) Match(env Env, in *Input) (bool, error) {
	for _, r := range m.rules {
		ok, err := Dispatch(r, env, in)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, NewParseError(in, "expected "+Describe(r))
		}
	}
	return true, nil
}

func (m *MustRule) Analyze() Analysis { return Analysis{Type: TypeSeq, Rules: m.rules} }
func (m *MustRule) String() string    { return "must" + body(m.rules, false) }

// List matches item (sep item)*.
func List(item, sep Rule) *SeqRule {
	return Seq(item, Star(sep, item))
}
