package main

import (
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/alexshd/randvar"
)

func newStatsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats [id...]",
		Short: "Print summary statistics of model distributions",
		Long: `Print size, range, expected value, variance, standard deviation, median
and mode for the given ids, or for every distribution of the model.

Numbers are formatted for --locale, e.g. "de" prints 3,5 for 3.5.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.loadModel()
			if err != nil {
				return err
			}
			dists, err := m.Lookup(args...)
			if err != nil {
				return err
			}

			p := message.NewPrinter(language.Make(a.settings.Locale))
			w := cmd.OutOrStdout()
			for _, d := range dists {
				s, err := randvar.Describe(d)
				if err != nil {
					return err
				}
				p.Fprintf(w, "%s\n", s.Name)
				p.Fprintf(w, "  outcomes  %d (%d distinct)\n", s.Size, s.Distinct)
				p.Fprintf(w, "  range     [%v, %v]\n", s.Min, s.Max)
				p.Fprintf(w, "  E         %.4f\n", s.Mean)
				p.Fprintf(w, "  D         %.4f\n", s.Variance)
				p.Fprintf(w, "  σ         %.4f\n", s.StdDev)
				p.Fprintf(w, "  median    %v\n", s.Median)
				p.Fprintf(w, "  mode      %v\n", s.Mode)
			}
			return nil
		},
	}
}
