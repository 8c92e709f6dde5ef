// Package json is a JSON grammar. Validate checks a document and reports
// the first problem with its position; Decode builds the same values
// encoding/json would produce for an interface{}.
package json

import (
	stdjson "encoding/json"
	"errors"
	"strconv"

	"github.com/tef/peg"
)

var Grammar = build()

func build() *peg.Grammar {
	g := peg.NewGrammar("document")

	ws := peg.Star(peg.One(' ', '\t', '\n', '\r'))
	digit := peg.Range('0', '9')
	digits := peg.Plus(digit)

	g.Define("document", ws, peg.Must(g.Call("value")), ws, peg.Must(peg.EOF()))

	g.Define("value", peg.Sor(
		g.Call("array"),
		g.Call("object"),
		g.Call("string"),
		g.Call("number"),
		g.Call("true"),
		g.Call("false"),
		g.Call("null"),
	))

	g.Define("array",
		g.Call("begin_array"), ws,
		peg.Opt(
			g.Call("value"), ws,
			peg.Star(peg.One(','), ws, peg.Must(g.Call("value")), ws),
		),
		peg.Must(peg.One(']')),
	)
	g.Define("begin_array", peg.One('['))

	g.Define("object",
		g.Call("begin_object"), ws,
		peg.Opt(
			g.Call("member"), ws,
			peg.Star(peg.One(','), ws, peg.Must(g.Call("member")), ws),
		),
		peg.Must(peg.One('}')),
	)
	g.Define("begin_object", peg.One('{'))
	g.Define("member", g.Call("string"), ws, peg.Must(peg.One(':')), ws, peg.Must(g.Call("value")))

	g.Define("string",
		peg.One('"'),
		peg.Star(peg.Sor(
			peg.Seq(peg.One('\\'), peg.Must(g.Call("escape"))),
			peg.Seq(peg.NotAt(peg.Range(0, 0x1f)), peg.NotOne('"', '\\')),
		)),
		peg.Must(peg.One('"')),
	)
	hex := peg.Sor(digit, peg.Range('a', 'f'), peg.Range('A', 'F'))
	g.Define("escape", peg.Sor(
		peg.Seq(peg.One('u'), peg.Must(peg.Rep(4, hex))),
		peg.One('"', '\\', '/', 'b', 'f', 'n', 'r', 't'),
	))

	g.Define("number",
		peg.Opt(peg.One('-')),
		peg.Sor(peg.One('0'), peg.Seq(peg.Range('1', '9'), peg.Star(digit))),
		peg.Opt(peg.One('.'), peg.Must(digits)),
		peg.Opt(peg.One('e', 'E'), peg.Opt(peg.One('+', '-')), peg.Must(digits)),
	)

	g.Define("true", peg.Str("true"))
	g.Define("false", peg.Str("false"))
	g.Define("null", peg.Str("null"))

	return g
}

// Validate returns nil when text is a single JSON value, optionally
// surrounded by whitespace. Otherwise it returns a *peg.ParseError.
func Validate(source, text string) error {
	_, err := Grammar.Parse(source, text, peg.WithApplyMode(peg.ApplyDisabled))
	return err
}

// mark separates the items of an open array or object on the stack.
type mark struct{}

type decoder struct {
	stack []any
}

func (d *decoder) push(v any) { d.stack = append(d.stack, v) }

// popMark removes and returns everything above the innermost mark.
func (d *decoder) popMark() []any {
	i := len(d.stack) - 1
	for ; i >= 0; i-- {
		if _, ok := d.stack[i].(mark); ok {
			break
		}
	}
	items := append([]any{}, d.stack[i+1:]...)
	d.stack = d.stack[:i]
	return items
}

func push(v any) peg.ActionFunc {
	return func(_ peg.Rule, _ peg.Match, st any) error {
		st.(*decoder).push(v)
		return nil
	}
}

var actions = peg.ActionMap{
	"begin_array":  push(mark{}),
	"begin_object": push(mark{}),
	"true":         push(true),
	"false":        push(false),
	"null":         push(nil),

	"array": func(_ peg.Rule, _ peg.Match, st any) error {
		d := st.(*decoder)
		d.push(d.popMark())
		return nil
	},
	"object": func(_ peg.Rule, _ peg.Match, st any) error {
		d := st.(*decoder)
		items := d.popMark()
		obj := make(map[string]any, len(items)/2)
		for i := 0; i+1 < len(items); i += 2 {
			obj[items[i].(string)] = items[i+1]
		}
		d.push(obj)
		return nil
	},
	"string": func(_ peg.Rule, m peg.Match, st any) error {
		var s string
		if err := stdjson.Unmarshal([]byte(m.String()), &s); err != nil {
			return err
		}
		st.(*decoder).push(s)
		return nil
	},
	"number": func(_ peg.Rule, m peg.Match, st any) error {
		f, err := strconv.ParseFloat(m.String(), 64)
		if err != nil {
			return err
		}
		st.(*decoder).push(f)
		return nil
	},
}

// Decode parses text into maps, slices, strings, float64s, bools and nil.
func Decode(source, text string) (any, error) {
	d := &decoder{}
	ok, err := Grammar.Parse(source, text, peg.WithAction(actions), peg.WithState(d))
	if err != nil {
		return nil, err
	}
	if !ok || len(d.stack) != 1 {
		return nil, errors.New("json: no value decoded")
	}
	return d.stack[0], nil
}
