package ragseed

import (
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"
)

var (
	headerColor = color.New(color.FgCyan, color.Bold)
	okColor     = color.New(color.FgGreen)
	warnColor   = color.New(color.FgYellow)
)

// Report prints the run outcome: the upserted count, the index statistics and
// any recovered stage failures.
func Report(w io.Writer, res Result) {
	if res.DryRun {
		_, _ = headerColor.Fprintf(w, "Dry run: %d records validated\n", res.Records)
		return
	}

	_, _ = okColor.Fprintf(w, "Upserted count: %d\n", res.Upserted)
	if len(res.Collisions) > 0 {
		_, _ = warnColor.Fprintf(w, "Collapsed duplicate ids: %d\n", len(res.Collisions))
	}

	_, _ = headerColor.Fprintln(w, "Index stats:")
	if res.Stats == nil {
		_, _ = warnColor.Fprintln(w, "  unavailable")
	} else {
		st := res.Stats
		_, _ = fmt.Fprintf(w, "  dimension:          %d\n", st.Dimension)
		_, _ = fmt.Fprintf(w, "  index fullness:     %g\n", st.IndexFullness)
		_, _ = fmt.Fprintf(w, "  total vector count: %d\n", st.TotalVectorCount)
		if len(st.Namespaces) > 0 {
			_, _ = fmt.Fprintln(w, "  namespaces:")
			names := make([]string, 0, len(st.Namespaces))
			for name := range st.Namespaces {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				label := name
				if label == "" {
					label = `""`
				}
				_, _ = fmt.Fprintf(w, "    %s: %d vectors\n", label, st.Namespaces[name].VectorCount)
			}
		}
	}

	for _, se := range res.Warnings {
		_, _ = warnColor.Fprintf(w, "warning: %s\n", se.Error())
	}
}
