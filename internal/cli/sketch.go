package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rvodden/rvodden.github.io/internal/sketch"
)

func sketchCmd() *cobra.Command {
	var x1, y1, x2, y2 float64

	c := &cobra.Command{
		Use:   "sketch",
		Short: "Resolve a line between two constrained points",
		Long: "Builds points p and q, links the start and end of line l to them and\n" +
			"resolves the line through the constraint links. Point c is placed on l.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()

			p := sketch.NewFixedPoint("p", x1, y1)
			q := sketch.NewFixedPoint("q", x2, y2)
			l := sketch.NewLine("l")
			if err := l.SetStart(p); err != nil {
				return err
			}
			if err := l.SetEnd(q); err != nil {
				return err
			}

			c := sketch.NewPoint("c")
			if err := c.ConstrainWith(sketch.Coincident(l)); err != nil {
				return err
			}

			fmt.Fprint(w, l.Describe())
			fmt.Fprint(w, c.Describe())
			for _, pt := range []*sketch.Point{l.Start(), l.End()} {
				x, y, err := pt.Resolve()
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%s = (%g, %g)\n", pt.Name(), x, y)
			}

			length, err := l.Length()
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "length(%s) = %g\n", l.Name(), length)
			return nil
		},
	}

	c.Flags().Float64Var(&x1, "x1", 0, "x of the start point")
	c.Flags().Float64Var(&y1, "y1", 0, "y of the start point")
	c.Flags().Float64Var(&x2, "x2", 3, "x of the end point")
	c.Flags().Float64Var(&y2, "y2", 4, "y of the end point")
	return c
}
