package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/permjudge/pkg/judge"
	"github.com/Sumatoshi-tech/permjudge/pkg/score"
)

const (
	rampCmdUse   = "ramp"
	rampCmdShort = "Render a problem's score ramp as an HTML line chart"

	flagOutput = "output"
	flagPoints = "points"

	defaultRampPoints = 50
	minRampPoints     = 2
	// rampOverscan extends the x axis past the maximum so the zero tail shows.
	rampOverscan = 1.1
	rampHeight   = "500px"
)

var (
	// ErrNoOutput is returned when --output is not set.
	ErrNoOutput = errors.New("output file is required (use --output)")
	// ErrBadLength is returned for a sequence length below 1.
	ErrBadLength = errors.New("sequence length must be positive (use --n)")
	// ErrTooFewPoints is returned when fewer than two samples are requested.
	ErrTooFewPoints = errors.New("a ramp needs at least two points")
)

type rampOptions struct {
	problem string
	n       int
	points  int
	output  string
}

// NewRampCommand creates the ramp subcommand.
func NewRampCommand() *cobra.Command {
	var o rampOptions

	cmd := &cobra.Command{
		Use:   rampCmdUse,
		Short: rampCmdShort,
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runRamp(o)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&o.problem, flagProblem, "p", judge.ProblemBlockRotate, "preset problem name")
	f.IntVar(&o.n, flagLength, 0, "sequence length")
	f.IntVar(&o.points, flagPoints, defaultRampPoints, "number of samples along the edit axis")
	f.StringVarP(&o.output, flagOutput, "o", "", "output HTML file")

	return cmd
}

func runRamp(o rampOptions) (err error) {
	switch {
	case o.output == "":
		return ErrNoOutput
	case o.n < 1:
		return ErrBadLength
	case o.points < minRampPoints:
		return ErrTooFewPoints
	}

	p, err := judge.Lookup(o.problem)
	if err != nil {
		return err
	}

	curve, err := p.Curve(o.n)
	if err != nil {
		return err
	}

	f, err := os.Create(o.output)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}

	defer func() {
		err = errors.Join(err, f.Close())
	}()

	return renderRamp(f, p, o.n, curve, o.points)
}

// renderRamp samples curve at evenly spaced edit counts from 0 past Max.
func renderRamp(w io.Writer, p *judge.Problem, n int, curve score.Curve, points int) error {
	limit := curve.Max * rampOverscan
	labels := make([]string, points)
	data := make([]opts.LineData, points)

	for i := range points {
		ops := int(limit * float64(i) / float64(points-1))
		labels[i] = strconv.Itoa(ops)
		data[i] = opts.LineData{Value: curve.Ratio(ops)}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "permjudge " + p.Name,
			Width:     "100%",
			Height:    rampHeight,
		}),
		charts.WithTitleOpts(opts.Title{
			Title: p.Name + " score ramp",
			Subtitle: fmt.Sprintf("N=%s, ratio 1 up to %s edits, 0 from %s",
				humanize.Comma(int64(n)), humanize.Commaf(curve.Baseline), humanize.Commaf(curve.Max)),
			Left: "center",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "edits"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "ratio", Min: score.None, Max: score.Full}),
	)
	line.SetXAxis(labels)
	line.AddSeries("ratio", data, charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}))

	if err := line.Render(w); err != nil {
		return fmt.Errorf("render ramp: %w", err)
	}

	return nil
}
