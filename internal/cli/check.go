package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/tef/peg/analysis"
)

// CheckResult is the outcome of checking one grammar.
type CheckResult struct {
	Grammar  string             `json:"grammar"`
	Rules    int                `json:"rules"`
	Errors   []string           `json:"errors"`
	Problems []analysis.Problem `json:"problems"`
}

func (r CheckResult) ok() bool {
	return len(r.Errors) == 0 && len(r.Problems) == 0
}

func newCheckCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "check <grammar>...",
		Short: "Check grammars for missing rules and loops without progress",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(app, cmd, args)
		},
	}
}

func checkGrammar(name string) (CheckResult, error) {
	g, err := lookupGrammar(name)
	if err != nil {
		return CheckResult{}, err
	}
	res := CheckResult{Grammar: name, Errors: []string{}, Problems: []analysis.Problem{}}
	if g.Check() != nil {
		for _, err := range g.Errors() {
			res.Errors = append(res.Errors, err.Error())
		}
		return res, nil
	}
	report := analysis.Analyze(g.Root())
	res.Rules = report.Rules()
	res.Problems = report.Problems
	return res, nil
}

func runCheck(app *App, cmd *cobra.Command, args []string) error {
	f := app.formatter(cmd)

	results := make([]CheckResult, 0, len(args))
	failed := 0
	for _, name := range args {
		res, err := checkGrammar(name)
		if err != nil {
			return f.Error(ExitCommandError, "check", err)
		}
		if !res.ok() {
			failed++
		}
		results = append(results, res)
	}

	status := "ok"
	if failed > 0 {
		status = "fail"
	}
	err := f.Result(status, results, func(w io.Writer) {
		for _, res := range results {
			if res.ok() {
				fmt.Fprintf(w, "ok %s (%d rules)\n", res.Grammar, res.Rules)
				continue
			}
			fmt.Fprintf(w, "FAIL %s\n", res.Grammar)
			for _, e := range res.Errors {
				fmt.Fprintf(w, "  %s\n", e)
			}
			for _, p := range res.Problems {
				fmt.Fprintf(w, "  %v\n", p)
			}
		}
	})
	if err != nil {
		return err
	}
	if failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d grammar(s) failed checks", failed))
	}
	return nil
}
