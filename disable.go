package peg

// DisableRule matches its rules in sequence with actions switched off for
// the whole subtree, whatever the caller's apply mode. Rewind mode and fatal
// errors pass through untouched. It is skip-marked, and classifies exactly
// like a Seq over the same rules since it matches the same input.
type DisableRule struct {
	body *SeqRule
}

// Disable embeds rules for their matching effect only. With no rules it
// always succeeds without consuming.
func Disable(rules ...Rule) *DisableRule { return &DisableRule{body: seqOf(rules)} }

func (d *DisableRule) Match(env Env, in *Input) (bool, error) {
	env.Apply = ApplyDisabled
	return Dispatch(d.body, env, in)
}

func (d *DisableRule) SkipControl() bool { return true }
func (d *DisableRule) Analyze() Analysis { return Analysis{Type: TypeSeq, Rules: d.body.rules} }
func (d *DisableRule) String() string    { return "disable" + body(d.body.rules, false) }

// EnableRule is the converse of DisableRule: actions fire inside it even
// when the caller disabled them.
type EnableRule struct {
	body *SeqRule
}

func Enable(rules ...Rule) *EnableRule { return &EnableRule{body: seqOf(rules)} }

func (e *EnableRule) Match(env Env, in *Input) (bool, error) {
	env.Apply = ApplyEnabled
	return Dispatch(e.body, env, in)
}

func (e *EnableRule) SkipControl() bool { return true }
func (e *EnableRule) Analyze() Analysis { return Analysis{Type: TypeSeq, Rules: e.body.rules} }
func (e *EnableRule) String() string    { return "enable" + body(e.body.rules, false) }
