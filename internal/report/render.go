package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
)

// Render writes r as an aligned table with columns index, file, tokens and
// cost (4 decimal places), followed by a total line.
func Render(w io.Writer, r Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "index\tfile\ttokens\tcost\t")
	for _, row := range r.Rows {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%.4f\t\n", row.Index, row.Path, row.Tokens, row.Cost)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	t := r.Total()
	_, err := fmt.Fprintf(w, "total: %d files, %s tokens, $%.4f (%s)\n",
		len(r.Rows), humanize.Comma(int64(t.Tokens)), t.Cost, r.Model)
	return err
}
