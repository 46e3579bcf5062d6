package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/scope-inspector/configs"
	"github.com/RyanBlaney/scope-inspector/internal/inspect"
	"github.com/RyanBlaney/scope-inspector/pkg/waveform/common"
	"github.com/RyanBlaney/scope-inspector/pkg/waveform/summary"
)

type stubSummarizer struct {
	text   string
	err    error
	prompt string
}

func (s *stubSummarizer) Summarize(_ context.Context, prompt string) (string, error) {
	s.prompt = prompt
	return s.text, s.err
}

// threePhaseCSV renders a 50 Hz capture sampled at 6400 Sa/s
func threePhaseCSV(n int) string {
	var b strings.Builder
	b.WriteString("Sampling Rate:6.4kSa/s\nData Unit:V\nTime,CH1,CH2\n")
	for i := range n {
		t := float64(i) / 6400
		u := 10 * math.Sin(2*math.Pi*50*t)
		v := 10 * math.Sin(2*math.Pi*50*t-2*math.Pi/3)
		fmt.Fprintf(&b, "%g,%g,%g\n", t, u, v)
	}
	return b.String()
}

func newTestApp(t *testing.T, ctx *Context) (*InspectApp, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	ctx.Stdout = out
	if ctx.Stdin == nil {
		ctx.Stdin = strings.NewReader(threePhaseCSV(1024))
	}
	app, err := newInspectApp(ctx, configs.GetDefaultConfig())
	require.NoError(t, err)
	return app, out
}

func TestAnalyzeJSON(t *testing.T) {
	app, out := newTestApp(t, &Context{Mode: ModeAnalyze, OutputFormat: "json", Quiet: true})

	require.NoError(t, app.Run(context.Background()))

	var decoded struct {
		Metadata   common.SignalMetadata      `json:"metadata"`
		Statistics []common.ChannelStatistics `json:"statistics"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))

	assert.Equal(t, 6400.0, decoded.Metadata.SampleRate)
	assert.Equal(t, "V", decoded.Metadata.YUnit)
	require.Len(t, decoded.Statistics, 2)
	assert.InDelta(t, 50, decoded.Statistics[0].DominantFrequency, 1e-9)
	assert.InDelta(t, 10/math.Sqrt2, decoded.Statistics[1].RMS, 0.05)
}

func TestSpectrumCSV(t *testing.T) {
	app, out := newTestApp(t, &Context{Mode: ModeSpectrum, OutputFormat: "csv", Quiet: true})

	require.NoError(t, app.Run(context.Background()))

	text := out.String()
	assert.True(t, strings.HasPrefix(text, "# Dominant Frequencies\nchannel,frequency\nch0,50\n"))
	assert.Contains(t, text, "# Spectrum\nfrequency,ch0,ch1\n")
}

func TestPowerModeRequiresPhases(t *testing.T) {
	app, _ := newTestApp(t, &Context{Mode: ModePower, OutputFormat: "json", Quiet: true})
	assert.Error(t, app.Run(context.Background()))

	app, out := newTestApp(t, &Context{Mode: ModePower, OutputFormat: "table", PhaseU: "ch0", PhaseV: "ch1", Quiet: true})
	require.NoError(t, app.Run(context.Background()))
	assert.Contains(t, out.String(), "Harmonics")
	assert.Contains(t, out.String(), "Fundamental Frequency")
}

func TestSummarize(t *testing.T) {
	stub := &stubSummarizer{text: "  Balanced 50 Hz supply.  "}
	app, out := newTestApp(t, &Context{Mode: ModeSummarize, OutputFormat: "json", Quiet: true})
	app.WithSummarizer(stub)

	require.NoError(t, app.Run(context.Background()))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, "Balanced 50 Hz supply.", decoded["summary"])
	assert.Contains(t, stub.prompt, "## Channel Statistics")
}

func TestSummarizeFailureStillReportsInspection(t *testing.T) {
	stub := &stubSummarizer{err: fmt.Errorf("%w: boom", summary.ErrSummarizerUnavailable)}
	app, out := newTestApp(t, &Context{Mode: ModeSummarize, OutputFormat: "json", Quiet: true})
	app.WithSummarizer(stub)

	err := app.Run(context.Background())
	assert.True(t, errors.Is(err, summary.ErrSummarizerUnavailable))
	assert.Contains(t, out.String(), "\"inspection\"")
}

func TestWriteToFile(t *testing.T) {
	target := filepath.Join(t.TempDir(), "nested", "report.yaml")
	app, out := newTestApp(t, &Context{Mode: ModeAnalyze, OutputFormat: "yaml", OutputFile: target, Quiet: true})

	require.NoError(t, app.Run(context.Background()))

	assert.Zero(t, out.Len())
	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(data), "statistics:")
}

func TestProfileMerging(t *testing.T) {
	dir := t.TempDir()
	profilePath := filepath.Join(dir, "profile.yaml")
	require.NoError(t, os.WriteFile(profilePath, []byte(`
window: blackman
scope: full
view: {start: 10, end: 500}
math_channels:
  - {op: sub, a: ch0, b: ch1}
phase_u: ch0
phase_v: ch1
harmonic_orders: 7
`), 0644))

	profile, err := loadProfileFromFile(profilePath)
	require.NoError(t, err)
	require.NoError(t, profile.Validate())

	opts, err := mergeOptions(configs.GetDefaultConfig(), profile, &Context{
		Window:       "hamming",
		MathChannels: []string{"div:ch0:Math1"},
	})
	require.NoError(t, err)

	assert.Equal(t, common.WindowHamming, opts.Window)
	assert.Equal(t, common.ScopeFull, opts.Scope)
	assert.Equal(t, 10, opts.View.Start)
	assert.Equal(t, 500, opts.View.End)
	require.Len(t, opts.MathChannels, 2)
	assert.Equal(t, common.MathDiv, opts.MathChannels[1].Op)
	assert.Equal(t, "ch0", opts.PhaseU)
	assert.Equal(t, 7, opts.Power.HarmonicOrders)
	assert.Equal(t, 2, opts.Power.PeakSearchRadius)
}

func TestProfileJSONAndValidation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profile.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"window":"kaiser"}`), 0644))

	profile, err := loadProfileFromFile(path)
	require.NoError(t, err)
	assert.Error(t, profile.Validate())

	assert.Error(t, (&Profile{PhaseU: "ch0"}).Validate())
	assert.Error(t, (&Profile{View: &inspect.ViewRange{Start: 5, End: 5}}).Validate())

	_, err = loadProfileFromFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestGenerateAndValidateExampleProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "example.yaml")
	require.NoError(t, GenerateExampleProfile(path))
	assert.NoError(t, ValidateProfile(path))
}

func TestParseMathSpec(t *testing.T) {
	spec, err := parseMathSpec("SUB: ch0 : ch1")
	require.NoError(t, err)
	assert.Equal(t, common.MathSub, spec.Op)
	assert.Equal(t, "ch0", spec.A)
	assert.Equal(t, "ch1", spec.B)

	for _, bad := range []string{"add:ch0", "pow:ch0:ch1", "add::ch1"} {
		_, err := parseMathSpec(bad)
		assert.Error(t, err, bad)
	}
}
