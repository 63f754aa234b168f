package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexshd/randvar"
)

var checkedLaws = []randvar.Law{randvar.LawCommutative, randvar.LawAssociative, randvar.LawIdentity}

func newLawsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "laws",
		Short: "Check algebraic laws of + - * over the model distributions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := a.loadModel()
			if err != nil {
				return err
			}
			samples, err := m.Lookup()
			if err != nil {
				return err
			}

			checker := randvar.NewLawChecker(a.algebra())
			w := cmd.OutOrStdout()

			header := []string{"op"}
			for _, law := range checkedLaws {
				header = append(header, string(law))
			}
			fmt.Fprintln(w, strings.Join(header, "  "))

			for _, op := range []randvar.Operator{randvar.OpAdd, randvar.OpSub, randvar.OpMul} {
				verified, err := checker.Verify(op, samples...)
				if err != nil {
					return err
				}

				row := []string{fmt.Sprintf("%-2s", op)}
				for _, law := range checkedLaws {
					mark := "✗"
					if verified.Holds(law) {
						mark = "✓"
					}
					row = append(row, fmt.Sprintf("%-*s", len(law), mark))
				}
				fmt.Fprintln(w, strings.TrimRight(strings.Join(row, "  "), " "))
				if verified.Detail != "" {
					a.logger.Debug("counterexample", "op", op.String(), "detail", verified.Detail)
				}
			}
			return nil
		},
	}
}
