package parser

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/RyanBlaney/scope-inspector/pkg/waveform/common"
)

// headerScan is the shared state the extraction rules read and fill in.
// lines holds every non-empty line of the input; the header region is
// lines[:headerEnd].
type headerScan struct {
	config    *Config
	lines     []string
	headerEnd int

	dataStart int // -1 when no data line exists
	headerRow int // -1 when no column header row exists
	columns   []string

	unit         string
	sampleRate   float64
	rateDeclared bool

	timeColumn int // -1 when no time column
	rawHeader  map[string]string
	headerKeys []string // raw header keys in first-seen order

	timeBase       string
	samplingRate   string
	amplitudeScale string
}

// HeaderRule is one independent heuristic run over the header region
type HeaderRule interface {
	Name() string
	Apply(scan *headerScan)
}

// defaultRules lists the heuristics in evaluation order. Data start goes
// first because the key/value and time-column rules depend on it.
func defaultRules() []HeaderRule {
	return []HeaderRule{
		dataStartRule{},
		unitRule{},
		sampleRateRule{},
		keyValueRule{},
		timeColumnRule{},
		displayRule{},
	}
}

var (
	prefixedUnitPattern = regexp.MustCompile(`(?i)(?:data|vert)\s*(?:unit|uint)\s*[:=]\s*([a-zµμΩ]+)`)
	unitPattern         = regexp.MustCompile(`(?i)(?:unit|uint)\s*[:=]\s*([a-zµμΩ]+)`)
	sampleRatePattern   = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?(?:e[+-]?\d+)?)\s*([km]?)sa/s`)
	keyValuePattern     = regexp.MustCompile(`^([^:=]+)[:=](.*)$`)
	trailingKeyPattern  = regexp.MustCompile(`[A-Za-z][A-Za-z _/()\-.]*$`)
)

// dataStartRule finds the first numeric data line. A "Time,..." line is a
// column header and data begins on the next line; otherwise the first
// header-region line starting with a digit and holding a comma; otherwise
// the first line anywhere whose first field is a number.
type dataStartRule struct{}

func (dataStartRule) Name() string { return "data_start" }

func (dataStartRule) Apply(scan *headerScan) {
	for i := range scan.headerEnd {
		line := scan.lines[i]
		if hasPrefixFold(line, "time") && strings.Contains(line, ",") {
			scan.headerRow = i
			scan.columns = splitFields(line)
			if i+1 < len(scan.lines) {
				scan.dataStart = i + 1
			}
			return
		}
	}

	for i := range scan.headerEnd {
		line := scan.lines[i]
		if startsWithDigit(line) && strings.Contains(line, ",") {
			scan.dataStart = i
			return
		}
	}

	for i, line := range scan.lines {
		if _, ok := parseNumber(strings.SplitN(line, ",", 2)[0]); ok {
			scan.dataStart = i
			return
		}
	}
}

// unitRule extracts the vertical unit. "Uint" is a common vendor typo.
type unitRule struct{}

func (unitRule) Name() string { return "unit" }

func (unitRule) Apply(scan *headerScan) {
	for _, pattern := range []*regexp.Regexp{prefixedUnitPattern, unitPattern} {
		for _, line := range scan.headerLines() {
			if m := pattern.FindStringSubmatch(line); m != nil {
				scan.unit = m[1]
				return
			}
		}
	}
}

// sampleRateRule extracts "<number><k|M>Sa/s"
type sampleRateRule struct{}

func (sampleRateRule) Name() string { return "sample_rate" }

func (sampleRateRule) Apply(scan *headerScan) {
	for _, line := range scan.headerLines() {
		m := sampleRatePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		value, err := strconv.ParseFloat(m[1], 64)
		if err != nil || !(value > 0) || math.IsInf(value, 0) {
			continue
		}
		switch strings.ToLower(m[2]) {
		case "k":
			value *= 1e3
		case "m":
			value *= 1e6
		}
		scan.sampleRate = value
		scan.rateDeclared = true
		return
	}
}

// keyValueRule records every "key:value" or "key=value" line ahead of the
// data. Keys glued to a previous value keep only their trailing alphabetic
// run. Later duplicates overwrite earlier ones.
type keyValueRule struct{}

func (keyValueRule) Name() string { return "key_value" }

func (keyValueRule) Apply(scan *headerScan) {
	end := scan.headerEnd
	if scan.dataStart >= 0 {
		end = min(end, scan.dataStart)
	}

	for i := range end {
		if i == scan.headerRow {
			continue
		}
		m := keyValuePattern.FindStringSubmatch(scan.lines[i])
		if m == nil {
			continue
		}

		key := strings.TrimSpace(m[1])
		if key != "" && !unicode.IsLetter(rune(key[0])) {
			key = strings.TrimSpace(trailingKeyPattern.FindString(key))
		}
		if key == "" {
			continue
		}

		if _, seen := scan.rawHeader[key]; !seen {
			scan.headerKeys = append(scan.headerKeys, key)
		}
		scan.rawHeader[key] = common.CleanHeaderValue(m[2])
	}
}

// timeColumnRule decides whether one column carries time. With a column
// header row it matches "time", "s" or "second"; without one it checks that
// the first field rises strictly across the first, second and probe rows.
type timeColumnRule struct{}

func (timeColumnRule) Name() string { return "time_column" }

func (timeColumnRule) Apply(scan *headerScan) {
	if scan.headerRow >= 0 {
		for i, col := range scan.columns {
			c := strings.ToLower(col)
			if strings.Contains(c, "time") || c == "s" || c == "second" {
				scan.timeColumn = i
				return
			}
		}
		return
	}

	if scan.dataStart < 0 {
		return
	}

	last := len(scan.lines) - 1
	probes := []int{scan.dataStart, scan.dataStart + 1, scan.dataStart + scan.config.TimeProbeRow}

	var firsts []float64
	prev := -1
	for _, idx := range probes {
		idx = min(idx, last)
		if idx <= prev {
			continue
		}
		prev = idx
		v, ok := parseNumber(strings.SplitN(scan.lines[idx], ",", 2)[0])
		if !ok {
			return
		}
		firsts = append(firsts, v)
	}

	if len(firsts) < 2 {
		return
	}
	for i := 1; i < len(firsts); i++ {
		if firsts[i] <= firsts[i-1] {
			return
		}
	}
	scan.timeColumn = 0
}

// displayRule derives the human-readable metadata strings
type displayRule struct{}

func (displayRule) Name() string { return "display" }

func (displayRule) Apply(scan *headerScan) {
	scan.timeBase = scan.lookupHeader("timebase", "time/div", "horizontalscale", "horscale")
	scan.amplitudeScale = scan.lookupHeader("verticalscale", "vertscale", "volts/div", "v/div", "amplitude")
	scan.samplingRate = scan.lookupHeader("samplingrate", "samplerate", "samplingfrequency")

	if scan.samplingRate == common.UnknownDisplay && scan.rateDeclared {
		scan.samplingRate = common.FormatSampleRate(scan.sampleRate)
	}
}

func (scan *headerScan) headerLines() []string {
	return scan.lines[:scan.headerEnd]
}

// lookupHeader returns the value of the first raw header key whose compacted
// lower-case form contains one of the needles. Needles are tried in order.
func (scan *headerScan) lookupHeader(needles ...string) string {
	for _, needle := range needles {
		for _, key := range scan.headerKeys {
			compact := strings.ToLower(strings.ReplaceAll(key, " ", ""))
			if value := scan.rawHeader[key]; strings.Contains(compact, needle) && value != "" {
				return value
			}
		}
	}
	return common.UnknownDisplay
}

func splitFields(line string) []string {
	fields := strings.Split(line, ",")
	for i, f := range fields {
		fields[i] = common.CleanHeaderValue(f)
	}
	return fields
}

// numericFields parses every comma-separated field and drops the ones that
// are not finite numbers
func numericFields(line string) []float64 {
	fields := strings.Split(line, ",")
	out := make([]float64, 0, len(fields))
	for _, f := range fields {
		if v, ok := parseNumber(f); ok {
			out = append(out, v)
		}
	}
	return out
}

func parseNumber(field string) (float64, bool) {
	field = common.CleanHeaderValue(field)
	if field == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(field, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

func startsWithDigit(s string) bool {
	return s != "" && s[0] >= '0' && s[0] <= '9'
}
