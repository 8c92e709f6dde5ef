// Package infix evaluates arithmetic expressions with the usual precedence:
// unary minus binds tightest, then * and /, then + and -. An expression may
// carry a trailing annotation, "# expr", which must be well formed but is
// never evaluated.
package infix

import (
	"errors"
	"strconv"

	"github.com/tef/peg"
)

var Grammar = build()

func build() *peg.Grammar {
	g := peg.NewGrammar("statement")

	ws := peg.Star(peg.One(' ', '\t'))
	digits := peg.Plus(peg.Range('0', '9'))

	g.Define("statement", ws, peg.Must(g.Call("expression")), ws, peg.Opt(g.Call("annotation")), ws, peg.Must(peg.EOF()))
	g.Define("annotation", peg.One('#'), ws, peg.Disable(peg.Must(g.Call("expression"))))

	g.Define("expression", g.Call("term"), peg.Star(ws, peg.Sor(g.Call("add"), g.Call("sub"))))
	g.Define("add", peg.One('+'), ws, peg.Must(g.Call("term")))
	g.Define("sub", peg.One('-'), ws, peg.Must(g.Call("term")))

	g.Define("term", g.Call("factor"), peg.Star(ws, peg.Sor(g.Call("mul"), g.Call("div"))))
	g.Define("mul", peg.One('*'), ws, peg.Must(g.Call("factor")))
	g.Define("div", peg.One('/'), ws, peg.Must(g.Call("factor")))

	g.Define("factor", peg.Sor(g.Call("neg"), g.Call("number"), g.Call("group")))
	g.Define("neg", peg.One('-'), ws, peg.Must(g.Call("factor")))
	g.Define("group", peg.One('('), ws, peg.Must(g.Call("expression")), ws, peg.Must(peg.One(')')))
	g.Define("number", digits, peg.Opt(peg.One('.'), peg.Must(digits)))

	return g
}

var ErrDivisionByZero = errors.New("division by zero")

type stack struct {
	values []float64
}

func (s *stack) push(v float64) { s.values = append(s.values, v) }

func (s *stack) pop() float64 {
	v := s.values[len(s.values)-1]
	s.values = s.values[:len(s.values)-1]
	return v
}

func binary(op func(a, b float64) (float64, error)) peg.ActionFunc {
	return func(_ peg.Rule, _ peg.Match, st any) error {
		s := st.(*stack)
		b, a := s.pop(), s.pop()
		v, err := op(a, b)
		if err != nil {
			return err
		}
		s.push(v)
		return nil
	}
}

var actions = peg.ActionMap{
	"number": func(_ peg.Rule, m peg.Match, st any) error {
		v, err := strconv.ParseFloat(m.String(), 64)
		if err != nil {
			return err
		}
		st.(*stack).push(v)
		return nil
	},
	"neg": func(_ peg.Rule, _ peg.Match, st any) error {
		s := st.(*stack)
		s.push(-s.pop())
		return nil
	},
	"add": binary(func(a, b float64) (float64, error) { return a + b, nil }),
	"sub": binary(func(a, b float64) (float64, error) { return a - b, nil }),
	"mul": binary(func(a, b float64) (float64, error) { return a * b, nil }),
	"div": binary(func(a, b float64) (float64, error) {
		if b == 0 {
			return 0, ErrDivisionByZero
		}
		return a / b, nil
	}),
}

// Eval parses and evaluates text. Syntax errors and division by zero are
// returned as a *peg.ParseError.
func Eval(text string, opts ...peg.Option) (float64, error) {
	s := &stack{}
	opts = append([]peg.Option{peg.WithAction(actions), peg.WithState(s)}, opts...)
	ok, err := Grammar.Parse("", text, opts...)
	if err != nil {
		return 0, err
	}
	if !ok || len(s.values) != 1 {
		return 0, errors.New("infix: not an expression")
	}
	return s.values[0], nil
}
