package peg

// Dispatch runs r against in with the hooks of env.
//
// Control.Start fires before the attempt. On success the action is applied
// when env.Apply is ApplyEnabled, then Control.Success fires. On failure the
// cursor is restored when env.Rewind is RewindRequired, then Control.Failure
// fires. A fatal error restores the cursor the same way, fires Control.Raise
// and is returned unchanged, so every enclosing level sees it. Rules marked
// by Skipper get no hooks and no action of their own.
func Dispatch(r Rule, env Env, in *Input) (bool, error) {
	env = env.withDefaults()
	skip := skipped(r)

	if !skip {
		env.Control.Start(r, in, env.State)
	}
	mark := in.Mark()

	ok, err := r.Match(env, in)
	if err == nil && ok && env.Apply == ApplyEnabled && !skip {
		m := Match{in: in, begin: mark, end: in.Position()}
		if aerr := env.Action.Apply(r, m, env.State); aerr != nil {
			err = actionError(m, aerr)
		}
	}

	switch {
	case err != nil:
		if pe, ok := AsParseError(err); ok && pe.Rule == "" {
			if d, ok := r.(*Def); ok {
				pe.Rule = d.Name()
			}
		}
		if env.Rewind == RewindRequired {
			in.Restore(mark)
		}
		if !skip {
			env.Control.Raise(r, in, env.State, err)
		}
		return false, err
	case ok:
		if !skip {
			env.Control.Success(r, in, env.State)
		}
		return true, nil
	default:
		if env.Rewind == RewindRequired {
			in.Restore(mark)
		}
		if !skip {
			env.Control.Failure(r, in, env.State)
		}
		return false, nil
	}
}

// Option configures a top level parse.
type Option func(*Env)

func WithAction(a Action) Option {
	return func(e *Env) { e.Action = a }
}

func WithControl(c Control) Option {
	return func(e *Env) { e.Control = c }
}

func WithState(st any) Option {
	return func(e *Env) { e.State = st }
}

func WithApplyMode(m ApplyMode) Option {
	return func(e *Env) { e.Apply = m }
}

func WithRewindMode(m RewindMode) Option {
	return func(e *Env) { e.Rewind = m }
}

// Parse dispatches r at the current position of in. The default env applies
// actions, rewinds on failure, and uses inert hooks.
func Parse(r Rule, in *Input, opts ...Option) (bool, error) {
	env := Env{}
	for _, o := range opts {
		o(&env)
	}
	return Dispatch(r, env, in)
}

// ParseString parses text under the LF-or-CRLF convention. The rule must
// match the whole text.
func ParseString(r Rule, source, text string, opts ...Option) (bool, error) {
	return Parse(MustMatchAll(r), NewInput(source, text, EolLFCRLF), opts...)
}

// MustMatchAll is r followed by the end of input.
func MustMatchAll(r Rule) Rule {
	return Seq(r, EOF())
}
