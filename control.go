package peg

// Control receives the lifecycle of every match attempt of a rule that is
// not skip-marked. Implementations are used for tracing and diagnostics and
// must not move the cursor.
type Control interface {
	Start(r Rule, in *Input, state any)
	Success(r Rule, in *Input, state any)
	Failure(r Rule, in *Input, state any)
	Raise(r Rule, in *Input, state any, err error)
}

// Normal is the inert default control.
type Normal struct{}

func (Normal) Start(Rule, *Input, any)        {}
func (Normal) Success(Rule, *Input, any)      {}
func (Normal) Failure(Rule, *Input, any)      {}
func (Normal) Raise(Rule, *Input, any, error) {}
