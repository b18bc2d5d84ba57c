package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"nickandperla.net/sumflow/internal/eval"
)

func newUnitsCmd(a *app) *cobra.Command {
	var dimension string
	cmd := &cobra.Command{
		Use:   "units",
		Short: "List units and currencies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := a.openRuntime(false)
			if err != nil {
				return err
			}
			defer rt.Close()

			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "DIMENSION\tUNIT\tFACTOR\tALIASES")
			for _, u := range rt.Units() {
				if dimension != "" && !strings.EqualFold(dimension, u.Dimension) {
					continue
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
					u.Dimension, u.Name, eval.FormatSignificant(u.Factor, a.cfg.Precision), strings.Join(u.Aliases, ", "))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&dimension, "dimension", "", "only list units of this dimension")
	return cmd
}
