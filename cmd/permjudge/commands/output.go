package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/permjudge/pkg/config"
	"github.com/Sumatoshi-tech/permjudge/pkg/judge"
)

// ErrUnknownFormat is returned for an output format other than text, json, or yaml.
var ErrUnknownFormat = errors.New("unknown output format")

func validateFormat(format string) error {
	if !slices.Contains(config.Formats, format) {
		return fmt.Errorf("%w: %q (want %s)", ErrUnknownFormat, format, strings.Join(config.Formats, "|"))
	}

	return nil
}

func writeResult(w io.Writer, res judge.Result, format string, useColor bool) error {
	switch format {
	case config.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		if err := enc.Encode(res); err != nil {
			return fmt.Errorf("encode result: %w", err)
		}

		return nil
	case config.FormatYAML:
		enc := yaml.NewEncoder(w)
		defer enc.Close()

		if err := enc.Encode(res); err != nil {
			return fmt.Errorf("encode result: %w", err)
		}

		return nil
	case config.FormatText:
		return writeText(w, res, useColor)
	default:
		return validateFormat(format)
	}
}

func verdictColor(v judge.Verdict) *color.Color {
	switch v {
	case judge.VerdictAccepted:
		return color.New(color.FgGreen, color.Bold)
	case judge.VerdictWrongAnswer, judge.VerdictIllegalEdit:
		return color.New(color.FgRed, color.Bold)
	default:
		return color.New(color.FgYellow, color.Bold)
	}
}

func writeText(w io.Writer, res judge.Result, useColor bool) error {
	c := verdictColor(res.Verdict)
	if !useColor {
		c.DisableColor()
	}

	var b strings.Builder

	c.Fprintf(&b, "%s", strings.ToUpper(string(res.Verdict)))
	fmt.Fprintf(&b, "  %s on %s, N=%s, %s edits (baseline %s, max %s)\n",
		res.Problem, res.Backend,
		humanize.Comma(int64(res.N)),
		humanize.Comma(int64(res.Operations)),
		humanize.Commaf(res.Baseline),
		humanize.Commaf(res.Max),
	)

	if res.Message != "" {
		fmt.Fprintf(&b, "%s\n", res.Message)
	}

	fmt.Fprintf(&b, "Value: %d. Ratio: %.4f, RatioUnbounded: %.4f\n", res.Operations, res.Ratio, res.RatioUnbounded)

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("write result: %w", err)
	}

	return nil
}
