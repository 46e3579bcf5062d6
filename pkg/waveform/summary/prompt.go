package summary

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/RyanBlaney/scope-inspector/pkg/waveform/common"
)

// DefaultExcerptRows is the number of raw rows quoted in a prompt
const DefaultExcerptRows = 20

var titleCaser = cases.Title(language.English)

// PromptInput is everything a summary prompt is built from. Power is optional.
type PromptInput struct {
	Metadata    *common.SignalMetadata
	Statistics  []common.ChannelStatistics
	Waveform    common.Waveform
	Power       *common.PowerQualityResult
	ExcerptRows int
	Precision   int
}

// BuildPrompt formats the metadata, the per-channel statistics and a short
// literal excerpt of the capture into the text block sent to the summarizer
func BuildPrompt(in PromptInput) string {
	precision := in.Precision
	if precision <= 0 {
		precision = 4
	}
	excerpt := in.ExcerptRows
	if excerpt <= 0 {
		excerpt = DefaultExcerptRows
	}
	num := func(v float64) string {
		return strconv.FormatFloat(v, 'g', precision, 64)
	}

	var b strings.Builder
	b.WriteString("Analyze the following oscilloscope capture and describe the signal behaviour, ")
	b.WriteString("notable anomalies and likely signal sources.\n\n")

	b.WriteString("## Metadata\n")
	if meta := in.Metadata; meta != nil {
		writeField(&b, "sampling rate", meta.SamplingRateDisplay)
		writeField(&b, "sample rate hz", num(meta.SampleRate))
		writeField(&b, "time base", meta.TimeBase)
		writeField(&b, "amplitude scale", meta.AmplitudeScale)
		writeField(&b, "unit", meta.YUnit)
		writeField(&b, "points", strconv.Itoa(meta.Points))
		writeField(&b, "channels", strings.Join(meta.Channels, ", "))
	}

	b.WriteString("\n## Channel Statistics\n")
	b.WriteString("channel,min,max,average,rms,ac_rms,dominant_frequency_hz\n")
	for _, s := range in.Statistics {
		fmt.Fprintf(&b, "%s,%s,%s,%s,%s,%s,%s\n",
			s.Channel, num(s.Min), num(s.Max), num(s.Average), num(s.RMS), num(s.ACRMS), num(s.DominantFrequency))
	}

	if p := in.Power; p != nil {
		b.WriteString("\n## Power Quality\n")
		writeField(&b, "fundamental frequency hz", num(p.FundamentalFrequency))
		writeField(&b, "unbalance percent", num(p.Unbalance))
		for _, ph := range p.Phases {
			fmt.Fprintf(&b, "Phase %s: rms=%s angle=%s thd=%s%%\n",
				ph.Phase, num(ph.RMS), num(ph.PhaseAngle), num(ph.THD))
		}
	}

	n := min(excerpt, in.Waveform.Len())
	fmt.Fprintf(&b, "\n## Data Excerpt (first %d rows)\n", n)
	b.WriteString("time")
	for _, ch := range in.Waveform.Channels {
		b.WriteString("," + ch)
	}
	b.WriteString("\n")
	for i := range n {
		b.WriteString(num(in.Waveform.Samples[i].Time))
		for ch := range in.Waveform.Channels {
			b.WriteString("," + num(in.Waveform.Value(i, ch)))
		}
		b.WriteString("\n")
	}

	return b.String()
}

func writeField(b *strings.Builder, label, value string) {
	if value == "" {
		value = common.UnknownDisplay
	}
	fmt.Fprintf(b, "%s: %s\n", titleCaser.String(label), value)
}
