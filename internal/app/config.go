package app

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/RyanBlaney/scope-inspector/configs"
	"github.com/RyanBlaney/scope-inspector/internal/inspect"
	"github.com/RyanBlaney/scope-inspector/pkg/waveform/analyzers"
	"github.com/RyanBlaney/scope-inspector/pkg/waveform/common"
)

// Profile is a saved inspection setup. Every field is optional and
// overrides the application configuration.
type Profile struct {
	Name             string                    `json:"name,omitempty" yaml:"name,omitempty"`
	Description      string                    `json:"description,omitempty" yaml:"description,omitempty"`
	Window           string                    `json:"window,omitempty" yaml:"window,omitempty"`
	Scope            string                    `json:"scope,omitempty" yaml:"scope,omitempty"`
	View             *inspect.ViewRange        `json:"view,omitempty" yaml:"view,omitempty"`
	Channels         []string                  `json:"channels,omitempty" yaml:"channels,omitempty"`
	MathChannels     []inspect.MathChannelSpec `json:"math_channels,omitempty" yaml:"math_channels,omitempty"`
	PhaseU           string                    `json:"phase_u,omitempty" yaml:"phase_u,omitempty"`
	PhaseV           string                    `json:"phase_v,omitempty" yaml:"phase_v,omitempty"`
	HarmonicOrders   int                       `json:"harmonic_orders,omitempty" yaml:"harmonic_orders,omitempty"`
	PeakSearchRadius *int                      `json:"peak_search_radius,omitempty" yaml:"peak_search_radius,omitempty"`
	DisplayPoints    *int                      `json:"display_points,omitempty" yaml:"display_points,omitempty"`
	Detailed         bool                      `json:"detailed,omitempty" yaml:"detailed,omitempty"`
}

// Validate checks the values a profile sets
func (p *Profile) Validate() error {
	if p.Window != "" {
		if _, err := common.ParseWindowType(p.Window); err != nil {
			return err
		}
	}
	if p.Scope != "" {
		if _, err := common.ParseScope(p.Scope); err != nil {
			return err
		}
	}
	if p.View != nil && p.View.End <= p.View.Start {
		return fmt.Errorf("view end (%d) must be after view start (%d)", p.View.End, p.View.Start)
	}
	for i, m := range p.MathChannels {
		if err := validateMathSpec(m); err != nil {
			return fmt.Errorf("math channel %d: %w", i+1, err)
		}
	}
	if (p.PhaseU == "") != (p.PhaseV == "") {
		return fmt.Errorf("both phase_u and phase_v must be set for power analysis")
	}
	if p.HarmonicOrders < 0 {
		return fmt.Errorf("harmonic orders cannot be negative")
	}
	if p.PeakSearchRadius != nil && *p.PeakSearchRadius < 0 {
		return fmt.Errorf("peak search radius cannot be negative")
	}
	if p.DisplayPoints != nil && *p.DisplayPoints < 0 {
		return fmt.Errorf("display points cannot be negative")
	}
	return nil
}

// loadProfileFromFile loads an inspection profile from YAML or JSON
func loadProfileFromFile(filePath string) (*Profile, error) {
	// Check if file exists
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("profile file does not exist: %s", filePath)
	}

	data, err := readFile(filePath)
	if err != nil {
		return nil, err
	}

	// Determine file format
	switch filepath.Ext(filePath) {
	case ".yaml", ".yml":
		return parseProfileYAML(data)
	case ".json":
		return parseProfileJSON(data)
	default:
		// Try YAML first, then JSON
		if profile, err := parseProfileYAML(data); err == nil {
			return profile, nil
		}
		return parseProfileJSON(data)
	}
}

func readFile(filePath string) ([]byte, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open profile file: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile file: %w", err)
	}
	return data, nil
}

func parseProfileYAML(data []byte) (*Profile, error) {
	var profile Profile
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse YAML profile: %w", err)
	}
	return &profile, nil
}

func parseProfileJSON(data []byte) (*Profile, error) {
	var profile Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse JSON profile: %w", err)
	}
	return &profile, nil
}

// mergeOptions layers the base configuration, the profile and the CLI flags
// into the options of one run
func mergeOptions(baseConfig *configs.Config, profile *Profile, ctx *Context) (inspect.Options, error) {
	opts := inspect.DefaultOptions()

	// Base configuration
	window, err := common.ParseWindowType(baseConfig.Analysis.WindowFunction)
	if err != nil {
		return opts, err
	}
	scope, err := common.ParseScope(baseConfig.Analysis.Scope)
	if err != nil {
		return opts, err
	}
	opts.Window = window
	opts.Scope = scope
	opts.MinViewSamples = baseConfig.Analysis.MinViewSamples
	opts.DisplayPoints = baseConfig.Analysis.DisplayPoints
	opts.PhaseU = baseConfig.Power.PhaseU
	opts.PhaseV = baseConfig.Power.PhaseV
	opts.Power = &analyzers.PowerQualityConfig{
		HarmonicOrders:   baseConfig.Power.HarmonicOrders,
		PeakSearchRadius: baseConfig.Power.PeakSearchRadius,
	}

	// Profile overrides
	if profile != nil {
		if profile.Window != "" {
			opts.Window, _ = common.ParseWindowType(profile.Window)
		}
		if profile.Scope != "" {
			opts.Scope, _ = common.ParseScope(profile.Scope)
		}
		if profile.View != nil {
			view := *profile.View
			opts.View = &view
		}
		if len(profile.Channels) > 0 {
			opts.Channels = profile.Channels
		}
		opts.MathChannels = append(opts.MathChannels, profile.MathChannels...)
		if profile.PhaseU != "" {
			opts.PhaseU, opts.PhaseV = profile.PhaseU, profile.PhaseV
		}
		if profile.HarmonicOrders > 0 {
			opts.Power.HarmonicOrders = profile.HarmonicOrders
		}
		if profile.PeakSearchRadius != nil {
			opts.Power.PeakSearchRadius = *profile.PeakSearchRadius
		}
		if profile.DisplayPoints != nil {
			opts.DisplayPoints = *profile.DisplayPoints
		}
		opts.Detailed = opts.Detailed || profile.Detailed
	}

	// Override with CLI flags
	if ctx.Window != "" {
		if opts.Window, err = common.ParseWindowType(ctx.Window); err != nil {
			return opts, err
		}
	}
	if ctx.Scope != "" {
		if opts.Scope, err = common.ParseScope(ctx.Scope); err != nil {
			return opts, err
		}
	}
	if ctx.ViewEnd > 0 {
		opts.View = &inspect.ViewRange{Start: ctx.ViewStart, End: ctx.ViewEnd}
	}
	if len(ctx.Channels) > 0 {
		opts.Channels = ctx.Channels
	}
	for _, expr := range ctx.MathChannels {
		spec, err := parseMathSpec(expr)
		if err != nil {
			return opts, err
		}
		opts.MathChannels = append(opts.MathChannels, spec)
	}
	if ctx.PhaseU != "" || ctx.PhaseV != "" {
		opts.PhaseU, opts.PhaseV = ctx.PhaseU, ctx.PhaseV
	}
	opts.Detailed = opts.Detailed || ctx.DetailedAnalysis

	return opts, nil
}

// parseMathSpec reads "op:a:b", e.g. "sub:ch0:ch1"
func parseMathSpec(expr string) (inspect.MathChannelSpec, error) {
	parts := strings.Split(expr, ":")
	if len(parts) != 3 {
		return inspect.MathChannelSpec{}, fmt.Errorf("invalid math channel %q, expected op:a:b", expr)
	}

	spec := inspect.MathChannelSpec{
		Op: common.MathOp(strings.ToLower(strings.TrimSpace(parts[0]))),
		A:  strings.TrimSpace(parts[1]),
		B:  strings.TrimSpace(parts[2]),
	}
	if err := validateMathSpec(spec); err != nil {
		return inspect.MathChannelSpec{}, fmt.Errorf("invalid math channel %q: %w", expr, err)
	}
	return spec, nil
}

func validateMathSpec(spec inspect.MathChannelSpec) error {
	switch spec.Op {
	case common.MathAdd, common.MathSub, common.MathMul, common.MathDiv:
	default:
		return fmt.Errorf("unsupported operation %q", spec.Op)
	}
	if spec.A == "" || spec.B == "" {
		return fmt.Errorf("both operands are required")
	}
	return nil
}

// GenerateExampleProfile writes an example inspection profile
func GenerateExampleProfile(outputFile string) error {
	radius := 2
	points := 2000
	example := &Profile{
		Name:        "three-phase",
		Description: "Power quality on the first two channels with a zoomed view",
		Window:      string(common.WindowHanning),
		Scope:       string(common.ScopeFull),
		View:        &inspect.ViewRange{Start: 0, End: 4096},
		MathChannels: []inspect.MathChannelSpec{
			{Op: common.MathSub, A: "ch0", B: "ch1"},
		},
		PhaseU:           "ch0",
		PhaseV:           "ch1",
		HarmonicOrders:   15,
		PeakSearchRadius: &radius,
		DisplayPoints:    &points,
	}

	data, err := yaml.Marshal(example)
	if err != nil {
		return fmt.Errorf("failed to marshal example profile: %w", err)
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(outputFile), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(outputFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write profile file: %w", err)
	}

	fmt.Printf("✅ Example inspection profile written to: %s\n", outputFile)
	return nil
}

// ValidateProfile validates a profile file
func ValidateProfile(profileFile string) error {
	profile, err := loadProfileFromFile(profileFile)
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}

	if err := profile.Validate(); err != nil {
		return fmt.Errorf("profile validation failed: %w", err)
	}

	if _, err := mergeOptions(configs.GetDefaultConfig(), profile, &Context{}); err != nil {
		return fmt.Errorf("profile validation failed: %w", err)
	}

	fmt.Printf("✅ Inspection profile is valid: %s\n", profileFile)
	fmt.Printf("   - Window: %s\n", valueOr(profile.Window, "(config default)"))
	fmt.Printf("   - Math channels: %d\n", len(profile.MathChannels))
	fmt.Printf("   - Power analysis: %t\n", profile.PhaseU != "")

	return nil
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
