// Package commands implements the permjudge subcommands.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/permjudge/pkg/alg/seqtree"
	"github.com/Sumatoshi-tech/permjudge/pkg/config"
	"github.com/Sumatoshi-tech/permjudge/pkg/judge"
	"github.com/Sumatoshi-tech/permjudge/pkg/observability"
	"github.com/Sumatoshi-tech/permjudge/pkg/score"
	"github.com/Sumatoshi-tech/permjudge/pkg/transcript"
	"github.com/Sumatoshi-tech/permjudge/pkg/version"
)

const (
	judgeCmdUse   = "judge"
	judgeCmdShort = "Replay a transcript against an instance and score it"

	flagProblem         = "problem"
	flagInput           = "input"
	flagTranscript      = "transcript"
	flagBackend         = "backend"
	flagSeed            = "seed"
	flagFormat          = "format"
	flagMetricsFile     = "metrics-file"
	flagConfig          = "config"
	flagCheckInvariants = "check-invariants"
	flagNoColor         = "no-color"
)

var (
	// ErrNoInput is returned when --input is not set.
	ErrNoInput = errors.New("instance file is required (use --input)")
	// ErrNoTranscript is returned when --transcript is not set.
	ErrNoTranscript = errors.New("transcript file is required (use --transcript)")
	// ErrRejected is returned after printing a non-accepted result so the
	// process exits non-zero.
	ErrRejected = errors.New("transcript rejected")
)

type judgeOptions struct {
	problem         string
	input           string
	transcript      string
	backend         string
	seed            uint64
	format          string
	metricsFile     string
	configPath      string
	checkInvariants bool
	noColor         bool
}

// NewJudgeCommand creates the judge subcommand.
func NewJudgeCommand() *cobra.Command {
	var o judgeOptions

	cmd := &cobra.Command{
		Use:   judgeCmdUse,
		Short: judgeCmdShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if o.input == "" {
				return ErrNoInput
			}

			if o.transcript == "" {
				return ErrNoTranscript
			}

			cfg, err := config.LoadConfig(o.configPath)
			if err != nil {
				return err
			}

			if err = o.override(cmd, cfg); err != nil {
				return err
			}

			return runJudge(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), o, cfg)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&o.problem, flagProblem, "p", "", "preset problem name (see `permjudge problems`)")
	f.StringVarP(&o.input, flagInput, "i", "", "instance file: N then the initial permutation")
	f.StringVarP(&o.transcript, flagTranscript, "t", "", "transcript file: param, count, then the records")
	f.StringVar(&o.backend, flagBackend, "", "sequence backend override (treap|splay)")
	f.Uint64Var(&o.seed, flagSeed, config.DefaultSeed, "seed for treap priorities")
	f.StringVarP(&o.format, flagFormat, "f", config.DefaultOutputFormat, "output format (text|json|yaml)")
	f.StringVar(&o.metricsFile, flagMetricsFile, "", "write a Prometheus text snapshot of run metrics to this file")
	f.StringVar(&o.configPath, flagConfig, "", "config file (default: ./permjudge.yaml if present)")
	f.BoolVar(&o.checkInvariants, flagCheckInvariants, false, "validate tree invariants after the replay")
	f.BoolVar(&o.noColor, flagNoColor, false, "disable coloured output")

	return cmd
}

// override applies explicitly set flags over cfg and validates the result.
func (o *judgeOptions) override(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()

	if flags.Changed(flagProblem) {
		cfg.Judge.Problem = o.problem
	}

	if flags.Changed(flagBackend) {
		cfg.Judge.Backend = o.backend
	}

	if flags.Changed(flagSeed) {
		cfg.Judge.Seed = o.seed
	}

	if flags.Changed(flagCheckInvariants) {
		cfg.Judge.CheckInvariants = o.checkInvariants
	}

	if flags.Changed(flagFormat) {
		cfg.Output.Format = o.format
	}

	if flags.Changed(flagMetricsFile) {
		cfg.Telemetry.MetricsFile = o.metricsFile
	}

	if o.noColor {
		cfg.Output.Color = false
	}

	if _, err := judge.Lookup(cfg.Judge.Problem); err != nil {
		return err
	}

	if cfg.Judge.Backend != "" {
		if _, err := seqtree.ParseBackend(cfg.Judge.Backend); err != nil {
			return err
		}
	}

	return validateFormat(cfg.Output.Format)
}

func observabilityConfig(cfg *config.Config, logOut io.Writer) (observability.Config, error) {
	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceVersion = version.Version
	obsCfg.Environment = cfg.Telemetry.Environment
	obsCfg.OTLPEndpoint = cfg.Telemetry.OTLPEndpoint
	obsCfg.OTLPInsecure = cfg.Telemetry.OTLPInsecure
	obsCfg.OTLPHeaders = observability.ParseOTLPHeaders(os.Getenv("OTEL_EXPORTER_OTLP_HEADERS"))
	obsCfg.SampleRatio = cfg.Telemetry.SampleRatio
	obsCfg.LogJSON = cfg.Logging.Format == "json"
	obsCfg.LogOutput = logOut
	obsCfg.Prometheus = cfg.Telemetry.MetricsFile != ""

	level, err := observability.ParseLogLevel(cfg.Logging.Level)
	if err != nil {
		return obsCfg, err
	}

	obsCfg.LogLevel = level

	return obsCfg, nil
}

func runJudge(ctx context.Context, out, errOut io.Writer, o judgeOptions, cfg *config.Config) (err error) {
	if ctx == nil {
		ctx = context.Background()
	}

	obsCfg, err := observabilityConfig(cfg, errOut)
	if err != nil {
		return err
	}

	providers, err := observability.Init(obsCfg)
	if err != nil {
		return fmt.Errorf("init observability: %w", err)
	}

	defer func() {
		err = errors.Join(err, providers.Shutdown(context.WithoutCancel(ctx)))
	}()

	metrics, err := observability.NewJudgeMetrics(providers.Meter)
	if err != nil {
		return err
	}

	p, err := judge.Lookup(cfg.Judge.Problem)
	if err != nil {
		return err
	}

	inst, err := readInstance(o.input)
	if err != nil {
		return err
	}

	j := judge.New(providers.Logger, providers.Tracer, metrics)
	res, err := judgeFile(ctx, j, p, inst, o.transcript, judge.Options{
		Backend:         seqtree.Backend(cfg.Judge.Backend),
		Seed:            cfg.Judge.Seed,
		CheckInvariants: cfg.Judge.CheckInvariants,
	})
	if err != nil {
		return err
	}

	if err = writeResult(out, res, cfg.Output.Format, cfg.Output.Color); err != nil {
		return err
	}

	if providers.Metrics != nil {
		if err = providers.Metrics.WriteFile(cfg.Telemetry.MetricsFile); err != nil {
			return err
		}
	}

	if !res.Accepted() {
		return fmt.Errorf("%w: %s", ErrRejected, res.Verdict)
	}

	return nil
}

func readInstance(path string) (*transcript.Instance, error) {
	f, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	inst, err := transcript.ReadInstance(f)
	if err != nil {
		return nil, fmt.Errorf("instance %s: %w", path, err)
	}

	return inst, nil
}

// judgeFile reads the transcript at path and runs it. A transcript that
// cannot be parsed is a malformed submission, not a command failure.
func judgeFile(
	ctx context.Context, j *judge.Judge, p *judge.Problem, inst *transcript.Instance, path string, opts judge.Options,
) (judge.Result, error) {
	f, err := openInput(path)
	if err != nil {
		return judge.Result{}, err
	}
	defer f.Close()

	limit := transcript.Unlimited
	if curve, curveErr := p.Curve(inst.Len()); curveErr == nil {
		limit = budgetLimit(curve)
	}

	tr, err := transcript.Read(f, p.Fields, limit)
	if err != nil {
		res := judge.Malformed(p, inst.Len(), err)
		j.Observe(ctx, res)

		return res, nil
	}

	return j.Run(ctx, p, inst, tr, opts), nil
}

// budgetLimit is the largest record count the curve accepts.
func budgetLimit(c score.Curve) int {
	return int(c.Max)
}
