package summary

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/scope-inspector/pkg/waveform/common"
)

func promptFixture() PromptInput {
	w := common.Waveform{Channels: []string{"ch0", "ch1"}}
	for i := range 30 {
		w.Samples = append(w.Samples, common.Sample{Time: float64(i) / 1000, Values: []float64{float64(i), -float64(i)}})
	}
	return PromptInput{
		Metadata: &common.SignalMetadata{
			SampleRate:          1000,
			SamplingRateDisplay: "1 kSa/s",
			YUnit:               "mV",
			Channels:            w.Channels,
			Points:              30,
		},
		Statistics: []common.ChannelStatistics{
			{Channel: "ch0", Min: 0, Max: 29, Average: 14.5, RMS: 16.9, ACRMS: 8.66, DominantFrequency: 50},
		},
		Waveform:    w,
		ExcerptRows: 5,
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt(promptFixture())

	assert.Contains(t, prompt, "Sampling Rate: 1 kSa/s")
	assert.Contains(t, prompt, "Unit: mV")
	assert.Contains(t, prompt, "Time Base: Unknown")
	assert.Contains(t, prompt, "ch0,0,29,14.5,16.9,8.66,50\n")
	assert.Contains(t, prompt, "## Data Excerpt (first 5 rows)")
	assert.Contains(t, prompt, "time,ch0,ch1\n")
	assert.Contains(t, prompt, "0.004,4,-4\n")
	assert.NotContains(t, prompt, "0.005,5,-5")
	assert.NotContains(t, prompt, "## Power Quality")
}

func TestBuildPromptWithPower(t *testing.T) {
	in := promptFixture()
	in.Power = &common.PowerQualityResult{
		FundamentalFrequency: 50,
		Unbalance:            1.5,
		Phases: []common.PhaseResult{
			{Phase: common.PhaseU, RMS: 7.07, THD: 3},
			{Phase: common.PhaseV, RMS: 7.07, PhaseAngle: -120},
			{Phase: common.PhaseW, RMS: 7.07, PhaseAngle: 120},
		},
	}

	prompt := BuildPrompt(in)

	assert.Contains(t, prompt, "## Power Quality")
	assert.Contains(t, prompt, "Fundamental Frequency Hz: 50")
	assert.Contains(t, prompt, "Phase V: rms=7.07 angle=-120 thd=0%")
}

func TestBuildPromptEmptyCapture(t *testing.T) {
	prompt := BuildPrompt(PromptInput{})
	assert.Contains(t, prompt, "## Data Excerpt (first 0 rows)")
}

func TestClientSummarize(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"A clean 50 Hz sine."}}]}`))
	}))
	defer srv.Close()

	client := NewClient(Config{Endpoint: srv.URL, Model: "test-model", APIKey: "secret", Timeout: time.Second})

	text, err := client.Summarize(context.Background(), "prompt body")
	require.NoError(t, err)
	assert.Equal(t, "A clean 50 Hz sine.", text)

	assert.Equal(t, "test-model", got.Model)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "user", got.Messages[1].Role)
	assert.Equal(t, "prompt body", got.Messages[1].Content)
}

func TestClientFailuresAreUnavailable(t *testing.T) {
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer failing.Close()

	empty := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer empty.Close()

	closed := httptest.NewServer(http.NotFoundHandler())
	closedURL := closed.URL
	closed.Close()

	for name, endpoint := range map[string]string{
		"unconfigured": "",
		"status":       failing.URL,
		"empty":        empty.URL,
		"unreachable":  closedURL,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := NewClient(Config{Endpoint: endpoint, Timeout: time.Second}).Summarize(context.Background(), "x")
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrSummarizerUnavailable)
		})
	}
}

func TestClientHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient(Config{Endpoint: srv.URL}).Summarize(ctx, "x")
	assert.ErrorIs(t, err, ErrSummarizerUnavailable)
	assert.True(t, strings.Contains(err.Error(), "context canceled"))
}
