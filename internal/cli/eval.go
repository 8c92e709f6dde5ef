package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tef/peg"
	"github.com/tef/peg/infix"
	"github.com/tef/peg/trace"
)

type EvalResult struct {
	Expression string        `json:"expression"`
	Value      float64       `json:"value"`
	Trace      []trace.Event `json:"trace,omitempty"`
}

func newEvalCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "eval <expression>",
		Short: "Evaluate an arithmetic expression",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(app, cmd, args[0])
		},
	}
}

func runEval(app *App, cmd *cobra.Command, expr string) error {
	f := app.formatter(cmd)
	control, rec := app.control()

	v, err := infix.Eval(expr, peg.WithControl(control))
	if err != nil {
		if pe, ok := peg.AsParseError(err); ok {
			return f.Error(ExitFatal, "eval", fmt.Errorf("%v\n%s", pe, pe.Caret()))
		}
		return f.Error(ExitFailure, "eval", err)
	}

	res := EvalResult{Expression: expr, Value: v}
	if rec != nil {
		res.Trace = rec.Events
	}
	return f.Result("ok", res, func(w io.Writer) {
		if rec != nil {
			io.WriteString(w, rec.Text())
		}
		fmt.Fprintln(w, strconv.FormatFloat(v, 'g', -1, 64))
	})
}
