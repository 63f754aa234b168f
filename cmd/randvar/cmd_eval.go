package main

import (
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/alexshd/randvar"
	"github.com/alexshd/randvar/calc"
)

func newEvalCommand(a *app) *cobra.Command {
	var stats bool

	cmd := &cobra.Command{
		Use:   "eval <expression> [expression...]",
		Short: "Evaluate expressions over the model",
		Long: `Evaluate each expression and print its result in argument order.

Expressions are evaluated concurrently. Identifiers refer to model ids:

  randvar eval -m dice.yaml "2*ksi + mu + 3" "E(ksi**2)" "Cov(ksi, mu)"

An operator with one id on both sides (ksi*ksi, ksi - ksi) and a product of
a single id (ksi*ksi*ksi) treat it as one variable. Other repeated uses are
independent copies.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ev, err := a.evaluator()
			if err != nil {
				return err
			}

			results := make([]calc.Result, len(args))
			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(runtime.GOMAXPROCS(0))
			for i, expression := range args {
				g.Go(func() error {
					if err := ctx.Err(); err != nil {
						return err
					}
					res, err := ev.Eval(expression)
					if err != nil {
						return err
					}
					results[i] = res
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			for i, res := range results {
				if i > 0 {
					fmt.Fprintln(w)
				}
				if err := a.printResult(w, res, stats); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&stats, "stats", false, "print E, D and σ below each distribution")

	return cmd
}

func (a *app) printResult(w io.Writer, res calc.Result, stats bool) error {
	if res.IsScalar() {
		fmt.Fprintf(w, "%s = %s\n", res.Expression, res)
		return nil
	}

	fmt.Fprintln(w, randvar.Render(res.Distribution, a.renderOptions()))
	if !stats {
		return nil
	}

	s, err := randvar.Describe(res.Distribution)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "E = %g, D = %g, σ = %g\n", s.Mean, s.Variance, s.StdDev)
	return nil
}
