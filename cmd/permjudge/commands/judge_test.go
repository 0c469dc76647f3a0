package commands

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/permjudge/pkg/config"
	"github.com/Sumatoshi-tech/permjudge/pkg/judge"
	"github.com/Sumatoshi-tech/permjudge/pkg/observability"
	"github.com/Sumatoshi-tech/permjudge/pkg/transcript"
)

const (
	testSwapInstance   = "4\n2 1 4 3\n"
	testSwapTranscript = "2 2\n1 1 0\n2 1 4\n"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

// executeJudge runs the judge command with a fresh empty config file.
func executeJudge(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	cfgPath := writeFile(t, t.TempDir(), "permjudge.yaml", "")

	var out, errOut bytes.Buffer

	cmd := NewJudgeCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--config", cfgPath, "--no-color"}, args...))

	err = cmd.Execute()

	return out.String(), errOut.String(), err
}

func TestJudgeCommand_Accepted(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := writeFile(t, dir, "in.txt", testSwapInstance)
	tr := writeFile(t, dir, "out.txt", testSwapTranscript)

	stdout, stderr, err := executeJudge(t, "-p", judge.ProblemBlockSwap, "-i", input, "-t", tr)
	require.NoError(t, err)

	assert.Contains(t, stdout, "ACCEPTED")
	assert.Contains(t, stdout, "Value: 2. Ratio: 1.0000, RatioUnbounded: 1.0000")
	assert.Contains(t, stderr, "transcript accepted")
}

func TestJudgeCommand_EnvironmentLabel(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := writeFile(t, dir, "in.txt", testSwapInstance)
	tr := writeFile(t, dir, "out.txt", testSwapTranscript)
	cfgPath := writeFile(t, dir, "permjudge.yaml", "telemetry:\n  environment: ci\n")

	var out, errOut bytes.Buffer

	cmd := NewJudgeCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs([]string{"--config", cfgPath, "-p", judge.ProblemBlockSwap, "-i", input, "-t", tr})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, errOut.String(), "env=ci")
	assert.Contains(t, errOut.String(), "mode=cli")
}

func TestObservabilityConfig_Environment(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{}
	cfg.Telemetry.Environment = "staging"
	cfg.Telemetry.SampleRatio = 1
	cfg.Logging.Level = "warn"

	obsCfg, err := observabilityConfig(cfg, io.Discard)
	require.NoError(t, err)

	assert.Equal(t, "staging", obsCfg.Environment)
	assert.Equal(t, observability.ModeCLI, obsCfg.Mode)
	assert.Equal(t, slog.LevelWarn, obsCfg.LogLevel)
}

func TestJudgeCommand_JSONAndBackend(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := writeFile(t, dir, "in.txt", testSwapInstance)
	tr := writeFile(t, dir, "out.txt", testSwapTranscript)

	stdout, _, err := executeJudge(t,
		"-p", judge.ProblemBlockSwap, "-i", input, "-t", tr, "-f", "json", "--backend", "splay", "--check-invariants")
	require.NoError(t, err)

	var res judge.Result

	require.NoError(t, json.Unmarshal([]byte(stdout), &res))
	assert.Equal(t, judge.VerdictAccepted, res.Verdict)
	assert.Equal(t, "splay", res.Backend)
	assert.Equal(t, 2, res.Operations)
	assert.InDelta(t, 92.0, res.Baseline, 1e-9)
}

func TestJudgeCommand_RejectedYAML(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := writeFile(t, dir, "in.txt", "5\n1 2 3 4 5\n")
	tr := writeFile(t, dir, "out.txt", "1 1\n2 0 3\n")

	stdout, _, err := executeJudge(t, "-p", judge.ProblemBlockSwap, "-i", input, "-t", tr, "-f", "yaml")
	require.ErrorIs(t, err, ErrRejected)

	var res map[string]any

	require.NoError(t, yaml.Unmarshal([]byte(stdout), &res))
	assert.Equal(t, string(judge.VerdictIllegalEdit), res["verdict"])
	assert.Equal(t, 0, res["ratio"])
	assert.Contains(t, res["message"], "position out of range")
}

func TestJudgeCommand_MalformedTranscript(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := writeFile(t, dir, "in.txt", "3\n3 1 2\n")
	tr := writeFile(t, dir, "out.txt", "3 2\n1 0\n")

	stdout, stderr, err := executeJudge(t, "-p", judge.ProblemBlockRotate, "-i", input, "-t", tr)
	require.ErrorIs(t, err, ErrRejected)

	assert.Contains(t, stdout, "MALFORMED")
	assert.Contains(t, stdout, "Value: 0. Ratio: 0.0000")
	assert.Contains(t, stderr, "transcript rejected")
}

func TestJudgeCommand_CompressedTranscript(t *testing.T) {
	t.Parallel()

	var compressed bytes.Buffer

	zw := lz4.NewWriter(&compressed)
	_, err := zw.Write([]byte(testSwapTranscript))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	dir := t.TempDir()
	input := writeFile(t, dir, "in.txt", testSwapInstance)
	tr := writeFile(t, dir, "out.txt.lz4", compressed.String())

	stdout, _, err := executeJudge(t, "-p", judge.ProblemBlockSwap, "-i", input, "-t", tr)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Value: 2.")
}

func TestJudgeCommand_MetricsFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := writeFile(t, dir, "in.txt", testSwapInstance)
	tr := writeFile(t, dir, "out.txt", testSwapTranscript)
	metricsPath := filepath.Join(dir, "metrics.prom")

	_, _, err := executeJudge(t, "-p", judge.ProblemBlockSwap, "-i", input, "-t", tr, "--metrics-file", metricsPath)
	require.NoError(t, err)

	data, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "permjudge_runs_total")
	assert.Contains(t, string(data), `verdict="accepted"`)
}

func TestJudgeCommand_FlagErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := writeFile(t, dir, "in.txt", testSwapInstance)
	tr := writeFile(t, dir, "out.txt", testSwapTranscript)

	_, _, err := executeJudge(t, "-t", tr)
	require.ErrorIs(t, err, ErrNoInput)

	_, _, err = executeJudge(t, "-i", input)
	require.ErrorIs(t, err, ErrNoTranscript)

	_, _, err = executeJudge(t, "-i", input, "-t", tr, "-f", "xml")
	require.ErrorIs(t, err, ErrUnknownFormat)

	_, _, err = executeJudge(t, "-i", input, "-t", tr, "-p", "sorting")
	require.ErrorIs(t, err, judge.ErrUnknownProblem)

	_, _, err = executeJudge(t, "-i", filepath.Join(dir, "absent.txt"), "-t", tr)
	require.ErrorIs(t, err, os.ErrNotExist)

	bad := writeFile(t, dir, "bad.txt", "3\n1 1 2\n")
	_, _, err = executeJudge(t, "-i", bad, "-t", tr)
	require.ErrorIs(t, err, transcript.ErrNotPermutation)
}

func TestWriteText_Colour(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	res := judge.Result{Problem: judge.ProblemSpanReverse, Backend: "splay", Verdict: judge.VerdictAccepted, N: 12000, Operations: 1500}
	require.NoError(t, writeResult(&buf, res, "text", false))

	assert.Contains(t, buf.String(), "ACCEPTED  span-reverse on splay, N=12,000, 1,500 edits")
	assert.NotContains(t, buf.String(), "\x1b[")
}
