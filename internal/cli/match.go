package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/tef/peg"
	"github.com/tef/peg/pegtest"
	"github.com/tef/peg/trace"
)

type matchOptions struct {
	file string
	rule string
}

// MatchResult is the outcome of one parse.
type MatchResult struct {
	Grammar  string        `json:"grammar"`
	Rule     string        `json:"rule"`
	Result   string        `json:"result"`
	Remain   int           `json:"remain"`
	Position peg.Position  `json:"position"`
	Error    string        `json:"error,omitempty"`
	Caret    string        `json:"caret,omitempty"`
	Trace    []trace.Event `json:"trace,omitempty"`
}

func newMatchCommand(app *App) *cobra.Command {
	opts := &matchOptions{}
	cmd := &cobra.Command{
		Use:   "match <grammar> [text]",
		Short: "Match a grammar rule against text",
		Long: `Match a rule of a built-in grammar against text given as an argument,
read from --file, or read from stdin with --file -. The rule does not
have to consume the whole input; the remaining byte count is reported.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMatch(app, opts, cmd, args)
		},
	}
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "read input from a file, - for stdin")
	cmd.Flags().StringVar(&opts.rule, "rule", "", "rule to match (default: the start rule)")
	return cmd
}

func readInput(cmd *cobra.Command, file string, args []string) (source, text string, err error) {
	switch {
	case len(args) > 0 && file != "":
		return "", "", fmt.Errorf("give either text or --file, not both")
	case len(args) > 0:
		return "arg", args[0], nil
	case file == "-":
		data, err := io.ReadAll(cmd.InOrStdin())
		return "stdin", string(data), err
	case file != "":
		data, err := os.ReadFile(file)
		return file, string(data), err
	default:
		return "", "", fmt.Errorf("no input: give text or --file")
	}
}

func runMatch(app *App, opts *matchOptions, cmd *cobra.Command, args []string) error {
	f := app.formatter(cmd)

	g, err := lookupGrammar(args[0])
	if err != nil {
		return f.Error(ExitCommandError, "match", err)
	}
	if err := g.Check(); err != nil {
		return f.Error(ExitCommandError, "invalid grammar", err)
	}
	ruleName := opts.rule
	if ruleName == "" {
		ruleName = g.Start
	}
	rule, ok := g.Rule(ruleName)
	if !ok {
		return f.Error(ExitCommandError, "match", fmt.Errorf("grammar %q has no rule %q", args[0], ruleName))
	}
	source, text, err := readInput(cmd, opts.file, args[1:])
	if err != nil {
		return f.Error(ExitCommandError, "reading input", err)
	}

	control, rec := app.control()
	in := peg.NewInput(source, text, app.eol)
	matched, perr := peg.Parse(rule, in, peg.WithControl(control))

	res := MatchResult{
		Grammar:  args[0],
		Rule:     ruleName,
		Remain:   in.Size(),
		Position: in.Position(),
	}
	var outcome pegtest.Result
	switch {
	case perr != nil:
		outcome = pegtest.GlobalFailure
		res.Error = perr.Error()
		if pe, ok := peg.AsParseError(perr); ok {
			res.Caret = pe.Caret()
			res.Position = pe.Pos
		}
	case matched:
		outcome = pegtest.Success
	default:
		outcome = pegtest.LocalFailure
	}
	res.Result = outcome.String()
	if rec != nil {
		res.Trace = rec.Events
	}

	status := "ok"
	if outcome != pegtest.Success {
		status = "fail"
	}
	if err := f.Result(status, res, func(w io.Writer) { writeMatch(w, res, rec) }); err != nil {
		return err
	}

	switch outcome {
	case pegtest.GlobalFailure:
		return NewExitError(ExitFatal, res.Error)
	case pegtest.LocalFailure:
		return NewExitError(ExitFailure, fmt.Sprintf("%s: no match for rule %q", source, ruleName))
	}
	return nil
}

func writeMatch(w io.Writer, res MatchResult, rec *trace.Recorder) {
	if rec != nil {
		io.WriteString(w, rec.Text())
	}
	switch res.Result {
	case pegtest.GlobalFailure.String():
		fmt.Fprintln(w, res.Error)
		if res.Caret != "" {
			fmt.Fprintln(w, res.Caret)
		}
	default:
		fmt.Fprintf(w, "%s: %d bytes remaining at %v\n", res.Result, res.Remain, res.Position)
	}
}
