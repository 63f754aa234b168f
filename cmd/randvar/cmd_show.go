package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexshd/randvar"
)

func newShowCommand(a *app) *cobra.Command {
	var describe bool

	cmd := &cobra.Command{
		Use:   "show [id...]",
		Short: "Print distributions of the model as tables",
		Long: `Print the distributions with the given ids, or all distributions of the
model in file order.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.loadModel()
			if err != nil {
				return err
			}
			dists, err := m.Lookup(args...)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			for i, d := range dists {
				if i > 0 {
					fmt.Fprintln(w)
				}
				if describe {
					fmt.Fprintf(w, "%#v\n", d)
					continue
				}
				fmt.Fprintln(w, randvar.Render(d, a.renderOptions()))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&describe, "describe", false, "print the constructor form instead of a table")

	return cmd
}
