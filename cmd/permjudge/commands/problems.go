package commands

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/permjudge/pkg/judge"
	"github.com/Sumatoshi-tech/permjudge/pkg/score"
)

const (
	problemsCmdUse   = "problems"
	problemsCmdShort = "List the preset problems and their score budgets"

	flagLength = "n"
)

// NewProblemsCommand creates the problems subcommand.
func NewProblemsCommand() *cobra.Command {
	var n int

	cmd := &cobra.Command{
		Use:   problemsCmdUse,
		Short: problemsCmdShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), renderProblems(judge.Problems(), n))

			return err
		},
	}

	cmd.Flags().IntVar(&n, flagLength, 0, "also show the edit budgets for a sequence of this length")

	return cmd
}

func renderProblems(problems []*judge.Problem, n int) string {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)

	header := table.Row{"Name", "Record", "Param", "Backend", "Baseline", "Max"}
	if n > 0 {
		header = append(header, "Baseline @N", "Max @N")
	}

	header = append(header, "Summary")
	tbl.AppendHeader(header)

	for _, p := range problems {
		row := table.Row{
			p.Name,
			fmt.Sprintf("%d ints", p.Fields),
			p.Param,
			string(p.Backend),
			formatThreshold(p.Baseline),
			formatThreshold(p.Max),
		}

		if n > 0 {
			row = append(row, humanize.Commaf(p.Baseline.At(n)), humanize.Commaf(p.Max.At(n)))
		}

		tbl.AppendRow(append(row, p.Summary))
	}

	if n > 0 {
		tbl.AppendFooter(table.Row{fmt.Sprintf("N = %s", humanize.Comma(int64(n)))})
	}

	return tbl.Render()
}

func formatThreshold(t score.Threshold) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%gN", t.PerN)

	if t.Const != 0 {
		fmt.Fprintf(&b, " %+g", t.Const)
	}

	return b.String()
}
