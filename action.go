package peg

// Match is the range a successful rule consumed, handed to actions.
type Match struct {
	in         *Input
	begin, end Position
}

func (m Match) Begin() Position { return m.begin }
func (m Match) End() Position   { return m.end }
func (m Match) String() string  { return m.in.Slice(m.begin, m.end) }
func (m Match) Input() *Input   { return m.in }

// Action is the semantic hook invoked by the kernel after a rule succeeds
// under ApplyEnabled. A returned error turns the match into a fatal failure.
type Action interface {
	Apply(r Rule, m Match, state any) error
}

type ActionFunc func(r Rule, m Match, state any) error

func (f ActionFunc) Apply(r Rule, m Match, state any) error { return f(r, m, state) }

// NopAction is the inert default.
type NopAction struct{}

func (NopAction) Apply(Rule, Match, any) error { return nil }

// ActionMap runs the action registered under a named rule's name. Rules
// that are not named, or have no entry, are ignored.
type ActionMap map[string]ActionFunc

func (a ActionMap) Apply(r Rule, m Match, state any) error {
	n, ok := r.(interface{ Name() string })
	if !ok {
		return nil
	}
	if f := a[n.Name()]; f != nil {
		return f(r, m, state)
	}
	return nil
}
