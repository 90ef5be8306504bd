package app

import (
	"fmt"
	"text/tabwriter"

	"ricecast/internal/delta"
	"ricecast/internal/render"
)

// Delta computes the change between two prices without contacting the
// forecast service.
func (a *App) Delta(opts DeltaOptions) error {
	res := delta.Compute(opts.Estimated, opts.Previous)

	writer := tabwriter.NewWriter(a.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(writer, "Estimated\t%s\n", render.Rupiah(opts.Estimated))
	fmt.Fprintf(writer, "Previous\t%s\n", render.Rupiah(opts.Previous))
	fmt.Fprintf(writer, "Absolute\t%s\n", res.Absolute.String())
	fmt.Fprintf(writer, "Percentage\t%s\n", res.PercentString())
	fmt.Fprintf(writer, "Direction\t%s\n", res.Direction)
	fmt.Fprintf(writer, "Badge\t%s\n", res.Badge())
	return writer.Flush()
}
