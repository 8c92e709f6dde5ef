package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/tef/peg/pegtest"
)

func newVerifyCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "verify <suite.yaml>...",
		Short: "Run YAML suites of rule checks",
		Long: `Run suites of rule checks. Each suite names one of the built-in grammars
and lists cases of rule, input, expected result (success, local_failure or
global_failure) and expected remaining bytes.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(app, cmd, args)
		},
	}
}

func runVerify(app *App, cmd *cobra.Command, paths []string) error {
	f := app.formatter(cmd)

	reports := make([]*pegtest.Report, 0, len(paths))
	failed := 0
	for _, path := range paths {
		suite, err := pegtest.LoadSuite(path)
		if err != nil {
			return f.Error(ExitCommandError, "loading suite", err)
		}
		g, err := lookupGrammar(suite.Grammar)
		if err != nil {
			return f.Error(ExitCommandError, path, err)
		}
		report := suite.Run(g)
		if report.Suite == "" {
			report.Suite = path
		}
		failed += report.Failed
		reports = append(reports, report)
	}

	status := "ok"
	if failed > 0 {
		status = "fail"
	}
	err := f.Result(status, reports, func(w io.Writer) {
		for _, r := range reports {
			if r.OK() {
				fmt.Fprintf(w, "ok %s (%d cases)\n", r.Suite, r.Passed)
				continue
			}
			fmt.Fprintf(w, "FAIL %s (%d of %d cases failed)\n", r.Suite, r.Failed, r.Passed+r.Failed)
			for _, o := range r.Outcomes {
				switch {
				case o.Mismatch != nil:
					fmt.Fprintf(w, "  %v\n", o.Mismatch)
				case o.Error != "":
					fmt.Fprintf(w, "  %v: %s\n", o.Location, o.Error)
				}
			}
		}
	})
	if err != nil {
		return err
	}
	if failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d case(s) failed", failed))
	}
	return nil
}
