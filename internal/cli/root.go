// Package cli implements the peg command.
package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/tef/peg"
	"github.com/tef/peg/trace"
)

// Config is the merged result of flags, PEG_* environment variables and
// the optional config file, in that order of precedence.
type Config struct {
	Eol     string `mapstructure:"eol"`
	Format  string `mapstructure:"format"`
	Verbose bool   `mapstructure:"verbose"`
	Trace   bool   `mapstructure:"trace"`
}

// ValidFormats are the values --format accepts.
var ValidFormats = []string{"text", "json"}

// App is the state shared by every command of one invocation.
type App struct {
	Config Config

	v   *viper.Viper
	eol peg.Eol
	log *zap.Logger
}

func NewRootCommand() *cobra.Command {
	app := &App{v: viper.New(), log: zap.NewNop()}

	cmd := &cobra.Command{
		Use:   "peg",
		Short: "Run and check parsing expression grammars",
		Long: `Run the built-in grammars against input, check them for rules that can
loop without consuming, and run YAML suites of rule checks.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: app.load,
		PersistentPostRun: func(*cobra.Command, []string) { _ = app.log.Sync() },
	}

	flags := cmd.PersistentFlags()
	flags.String("config", "", "config file (yaml)")
	flags.String("format", "text", "output format (text|json)")
	flags.BoolP("verbose", "v", false, "log every rule attempt to stderr")
	flags.String("eol", peg.EolLFCRLF.String(), "end-of-line convention (lf_crlf|lf|cr|crlf|any)")
	flags.Bool("trace", false, "print the rule trace of a parse")
	_ = app.v.BindPFlags(flags)

	app.v.SetEnvPrefix("PEG")
	app.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	app.v.AutomaticEnv()

	cmd.AddCommand(newMatchCommand(app))
	cmd.AddCommand(newCheckCommand(app))
	cmd.AddCommand(newVerifyCommand(app))
	cmd.AddCommand(newEvalCommand(app))

	return cmd
}

func (a *App) load(cmd *cobra.Command, _ []string) error {
	f := &Formatter{Format: "text", Writer: cmd.OutOrStdout(), ErrWriter: cmd.ErrOrStderr()}
	if path := a.v.GetString("config"); path != "" {
		a.v.SetConfigFile(path)
		if err := a.v.ReadInConfig(); err != nil {
			return f.Error(ExitCommandError, "reading config", err)
		}
	}
	if err := a.v.Unmarshal(&a.Config); err != nil {
		return f.Error(ExitCommandError, "decoding config", err)
	}

	if !isValidFormat(a.Config.Format) {
		return f.Error(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", a.Config.Format, ValidFormats), nil)
	}
	eol, err := peg.ParseEol(a.Config.Eol)
	if err != nil {
		return f.Error(ExitCommandError, "invalid eol", err)
	}
	a.eol = eol

	if a.Config.Verbose {
		log, err := zap.NewDevelopment()
		if err != nil {
			return f.Error(ExitCommandError, "creating logger", err)
		}
		a.log = log
	}
	return nil
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

func (a *App) formatter(cmd *cobra.Command) *Formatter {
	return &Formatter{
		Format:    a.Config.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
	}
}

// control returns the hooks for a parse: the zap logger, plus a recorder
// when --trace is set.
func (a *App) control() (peg.Control, *trace.Recorder) {
	controls := trace.Multi{trace.NewLogger(a.log)}
	if !a.Config.Trace {
		return controls, nil
	}
	rec := &trace.Recorder{}
	return append(controls, rec), rec
}
