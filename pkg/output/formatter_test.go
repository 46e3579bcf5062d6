package output

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type reading struct {
	Channel string             `json:"channel"`
	RMS     float64            `json:"rms"`
	Peak    float64            `json:"peak"`
	Secret  string             `json:"-"`
	Note    string             `json:"note,omitempty"`
	Bins    map[string]float64 `json:"bins"`
}

type report struct {
	rows []reading
}

func (r report) Tables() []Table {
	t := Table{Title: "Channel Statistics", Columns: []string{"channel", "rms"}}
	for _, row := range r.rows {
		t.Rows = append(t.Rows, []any{row.Channel, row.RMS})
	}
	return []Table{t, {Title: "Notes", Columns: []string{"key", "value"}, Rows: [][]any{{"points", 3}}}}
}

func TestSanitizeReplacesNonFinite(t *testing.T) {
	in := reading{
		Channel: "ch0",
		RMS:     math.NaN(),
		Peak:    math.Inf(1),
		Secret:  "token",
		Bins:    map[string]float64{"50": math.Inf(-1)},
	}

	out, ok := Sanitize(&in).(map[string]any)
	require.True(t, ok)

	assert.Equal(t, "ch0", out["channel"])
	assert.Equal(t, 0.0, out["rms"])
	assert.Equal(t, 0.0, out["peak"])
	assert.NotContains(t, out, "Secret")
	assert.NotContains(t, out, "note")
	assert.Equal(t, map[string]any{"50": 0.0}, out["bins"])
}

func TestJSONFormatter(t *testing.T) {
	data, err := NewFormatter("json", 4).Format(reading{Channel: "ch1", RMS: math.NaN()}, true)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "ch1", decoded["channel"])
	assert.Equal(t, 0.0, decoded["rms"])
	assert.Contains(t, string(data), "\n  ")
}

func TestYAMLFormatter(t *testing.T) {
	data, err := NewFormatter("yaml", 4).Format(map[string]any{"fundamental": 50.5, "phases": []string{"U", "V", "W"}}, true)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Equal(t, 50.5, decoded["fundamental"])
	assert.Len(t, decoded["phases"], 3)
}

func TestCSVFormatterTabular(t *testing.T) {
	data, err := NewFormatter("csv", 3).Format(report{rows: []reading{{Channel: "ch0", RMS: 0.70710678}}}, false)
	require.NoError(t, err)

	want := "# Channel Statistics\nchannel,rms\nch0,0.707\n\n# Notes\nkey,value\npoints,3\n"
	assert.Equal(t, want, string(data))
}

func TestTableFormatterFlattensPlainData(t *testing.T) {
	data, err := NewFormatter("table", 2).Format(map[string]any{
		"metadata": map[string]any{"sample_rate": 1000.0, "unit": "V"},
		"points":   []float64{1.005, 2},
	}, true)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 5)
	assert.True(t, strings.HasPrefix(lines[0], "Key"))
	assert.Contains(t, lines[1], "metadata.sample_rate")
	assert.True(t, strings.HasSuffix(lines[1], "1000"))
	assert.Contains(t, lines[3], "points[0]")
	assert.True(t, strings.HasSuffix(lines[4], "2"))
}

func TestTableFormatterHeaders(t *testing.T) {
	data, err := (&TableFormatter{}).Format(report{rows: []reading{{Channel: "ch0", RMS: 1}}}, true)
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, "Channel Statistics\n==================\n")
	assert.Contains(t, out, "Channel  Rms")
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "1.5", FormatValue(1.5, 4))
	assert.Equal(t, "0", FormatValue(math.NaN(), 4))
	assert.Equal(t, "0", FormatValue(-0.00001, 2))
	assert.Equal(t, "12", FormatValue(12, 4))
	assert.Equal(t, "", FormatValue(nil, 4))
	assert.Equal(t, "3.1416", FormatValue(math.Pi, 4))
}
