package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"nickandperla.net/sumflow/internal/eval"
	"nickandperla.net/sumflow/pkg/sumflow"
)

// jsonLine is the --json form of one line result.
type jsonLine struct {
	Line       int    `json:"line"`
	Text       string `json:"text"`
	State      string `json:"state"`
	Formatted  string `json:"formatted,omitempty"`
	Variable   string `json:"variable,omitempty"`
	Expression string `json:"expression,omitempty"`
	Error      string `json:"error,omitempty"`
	ErrorKind  string `json:"errorKind,omitempty"`
}

func newEvalCmd(a *app) *cobra.Command {
	var (
		asJSON bool
		exprs  []string
	)
	cmd := &cobra.Command{
		Use:   "eval [file]",
		Short: "Evaluate a notebook file, stdin, or -e lines",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := a.evalInput(args, exprs)
			if err != nil {
				return err
			}

			rt, err := a.openRuntime(false)
			if err != nil {
				return err
			}
			defer rt.Close()

			lines := splitLines(text)
			results := rt.Evaluate(lines)
			if asJSON {
				return writeJSONResults(a.out, lines, results)
			}
			return a.renderer().Sheet(a.out, lines, results)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "write results as JSON")
	cmd.Flags().StringArrayVarP(&exprs, "expr", "e", nil, "line to evaluate (repeatable)")
	return cmd
}

func (a *app) evalInput(args, exprs []string) (string, error) {
	switch {
	case len(exprs) > 0 && len(args) > 0:
		return "", fmt.Errorf("use either a file or -e, not both")
	case len(exprs) > 0:
		return strings.Join(exprs, "\n"), nil
	case len(args) == 1:
		return readSource(a.in, args[0])
	}
	return readSource(a.in, "-")
}

// splitLines splits text into lines, dropping the empty line after a
// trailing newline.
func splitLines(text string) []string {
	text = strings.TrimSuffix(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

// writeJSONResults writes one JSON object per line of input.
func writeJSONResults(w io.Writer, lines []string, results []sumflow.LineResult) error {
	enc := json.NewEncoder(w)
	for i, r := range results {
		jl := jsonLine{
			Line:       r.Line,
			Text:       lines[i],
			State:      r.State.String(),
			Formatted:  r.Formatted,
			Variable:   r.Variable,
			Expression: r.Expression,
		}
		if r.Err != nil {
			jl.Error = r.Err.Error()
			jl.ErrorKind = eval.KindOf(r.Err).String()
		}
		if err := enc.Encode(jl); err != nil {
			return err
		}
	}
	return nil
}
