// Command sumflow evaluates calculation notebooks.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"nickandperla.net/sumflow/internal/config"
	"nickandperla.net/sumflow/internal/diag"
	"nickandperla.net/sumflow/internal/render"
	"nickandperla.net/sumflow/pkg/sumflow"
)

func main() {
	if err := newRootCmd(os.Stdin, os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app carries what every subcommand needs once flags are parsed.
type app struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	configPath string
	cfg        config.Config
	logger     *slog.Logger
}

func newRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	a := &app{in: in, out: out, errOut: errOut}
	d := config.Defaults()

	root := &cobra.Command{
		Use:           "sumflow",
		Short:         "Notebook calculator with units, currencies and named results",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configPath, cmd.Flags())
			if err != nil {
				return err
			}
			level, err := diag.ParseLevel(cfg.LogLevel)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = diag.NewLogger(a.errOut, level)
			return nil
		},
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "config file (default: sumflow.yaml in . or $HOME/.config/sumflow)")
	pf.String("db", d.DB, "SQLite database path")
	pf.String("log-level", d.LogLevel, "log level: debug, info, warn or error")
	pf.String("locale", d.Locale, "locale for number grouping")
	pf.Int("precision", d.Precision, "significant digits shown for quantities")
	pf.Bool("color", d.Color, "colorize output when writing to a terminal")

	root.AddCommand(
		newEvalCmd(a),
		newReplCmd(a),
		newSheetCmd(a),
		newUnitsCmd(a),
		newCheckCmd(a),
	)

	return root
}

// runtimeOptions builds the runtime options from the resolved config.
// persistent selects the SQLite store; otherwise sheets live in memory.
func (a *app) runtimeOptions(persistent bool) []sumflow.Option {
	opts := []sumflow.Option{
		sumflow.WithLogger(a.logger),
		sumflow.WithLocale(a.cfg.Tag()),
		sumflow.WithPrecision(a.cfg.Precision),
		sumflow.WithRates(a.cfg.Rates),
	}
	if persistent {
		opts = append(opts, sumflow.WithSQLiteStore(a.cfg.DB))
	} else {
		opts = append(opts, sumflow.WithMemoryStore())
	}
	return opts
}

func (a *app) openRuntime(persistent bool) (*sumflow.Runtime, error) {
	return sumflow.New(a.runtimeOptions(persistent)...)
}

// renderer colors output only when enabled and out is a terminal.
func (a *app) renderer() *render.Renderer {
	return render.New(a.cfg.Color && isTerminal(a.out))
}

func isTerminal(w any) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
