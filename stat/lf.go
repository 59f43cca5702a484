package stat

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/revelaction/rwe/label"
)

// LFSummary describes the votes of one labeling function over a label
// matrix. Coverage, Overlaps and Conflicts are fractions of the rows.
type LFSummary struct {
	Name string

	// Polarity is the sorted set of the non abstain votes.
	Polarity []int

	// Coverage: rows with a vote.
	Coverage float64

	// Overlaps: rows with a vote of this and of another LF.
	Overlaps float64

	// Conflicts: rows where another LF votes differently.
	Conflicts float64

	Accepts int
	Rejects int
}

type Summary struct {
	Rows int

	// Coverage is the fraction of rows with at least one vote.
	Coverage float64

	LFs []LFSummary
}

// Summarize stacks the group matrices and summarizes the votes of every
// column. names are the LF names in column order.
func Summarize(names []string, ms ...*label.Matrix) (Summary, error) {
	if len(ms) == 0 {
		ms = []*label.Matrix{label.Zeros(0, len(names))}
	}

	m, err := label.VStack(ms...)
	if err != nil {
		return Summary{}, err
	}

	rows, cols := m.Shape()
	if cols != len(names) {
		return Summary{}, fmt.Errorf("%w: %d LF names for %d columns", label.ErrShape, len(names), cols)
	}

	lfs := make([]LFSummary, cols)
	polarity := make([]map[int]bool, cols)
	for j := range lfs {
		lfs[j].Name = names[j]
		polarity[j] = map[int]bool{}
	}

	covered := 0
	for i := range rows {
		row := m.Row(i)

		votes := 0
		for _, v := range row {
			if v != 0 {
				votes++
			}
		}
		if votes == 0 {
			continue
		}
		covered++

		for j, v := range row {
			if v == 0 {
				continue
			}

			s := &lfs[j]
			s.Coverage++
			polarity[j][v] = true

			switch v {
			case label.Accept:
				s.Accepts++
			case label.Reject:
				s.Rejects++
			}

			if votes > 1 {
				s.Overlaps++
			}

			for k, w := range row {
				if k != j && w != 0 && w != v {
					s.Conflicts++
					break
				}
			}
		}
	}

	for j := range lfs {
		s := &lfs[j]
		for v := range polarity[j] {
			s.Polarity = append(s.Polarity, v)
		}
		sort.Ints(s.Polarity)

		if rows > 0 {
			s.Coverage /= float64(rows)
			s.Overlaps /= float64(rows)
			s.Conflicts /= float64(rows)
		}
	}

	sum := Summary{Rows: rows, LFs: lfs}
	if rows > 0 {
		sum.Coverage = float64(covered) / float64(rows)
	}
	return sum, nil
}

// Write prints the summary as an aligned table.
func (s Summary) Write(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "LF\tPolarity\tCoverage\tOverlaps\tConflicts\tAccept\tReject\n")
	for _, lf := range s.LFs {
		fmt.Fprintf(tw, "%s\t%v\t%.3f\t%.3f\t%.3f\t%d\t%d\n",
			lf.Name, lf.Polarity, lf.Coverage, lf.Overlaps, lf.Conflicts, lf.Accepts, lf.Rejects)
	}
	fmt.Fprintf(tw, "candidates %d\t\tcoverage %.3f\n", s.Rows, s.Coverage)
	return tw.Flush()
}
