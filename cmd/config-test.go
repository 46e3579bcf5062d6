package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/RyanBlaney/scope-inspector/configs"
)

const (
	colorGreen = "\033[32m"
	colorRed   = "\033[31m"
	colorReset = "\033[0m"
)

// configTestCmd represents the config test command
var configTestCmd = &cobra.Command{
	Use:   "config-test",
	Short: "Test and display all configuration values",
	Long: `Test configuration loading and display all values to verify proper parsing.

This command loads the configuration, applies defaults and validation, and
displays every value so you can check how your YAML file and environment
variables were interpreted.

Examples:
  # Test with default config file
  scope-inspector config-test

  # Test with specific config file
  scope-inspector --config /path/to/config.yaml config-test`,
	RunE: runConfigTest,
}

func init() {
	rootCmd.AddCommand(configTestCmd)
}

func runConfigTest(cmd *cobra.Command, args []string) error {
	fmt.Println("SCOPE INSPECTOR CONFIGURATION TEST")
	fmt.Println(strings.Repeat("=", 80))

	// Load configuration
	config, err := configs.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	printSection("APPLICATION SETTINGS")
	printKeyValue("Verbose", fmt.Sprintf("%t", config.Verbose))
	printKeyValue("Log Level", config.LogLevel)
	printKeyValue("Log Format", config.LogFormat)
	printKeyValue("Output Format", config.OutputFormat)
	printKeyValue("Config Directory", config.ConfigDir)

	printSection("PARSER CONFIGURATION")
	printKeyValue("Default Sample Rate", fmt.Sprintf("%g Hz", config.Parser.DefaultSampleRate))
	printKeyValue("Default Unit", config.Parser.DefaultUnit)
	printKeyValue("Header Scan Lines", fmt.Sprintf("%d", config.Parser.HeaderScanLines))
	printKeyValue("Time Probe Row", fmt.Sprintf("%d", config.Parser.TimeProbeRow))

	printSection("ANALYSIS CONFIGURATION")
	printKeyValue("Window Function", config.Analysis.WindowFunction)
	printKeyValue("Scope", config.Analysis.Scope)
	printKeyValue("Min View Samples", fmt.Sprintf("%d", config.Analysis.MinViewSamples))
	printKeyValue("Display Points", fmt.Sprintf("%d", config.Analysis.DisplayPoints))

	printSection("POWER QUALITY CONFIGURATION")
	printKeyValue("Harmonic Orders", fmt.Sprintf("%d", config.Power.HarmonicOrders))
	printKeyValue("Peak Search Radius", fmt.Sprintf("±%d bins", config.Power.PeakSearchRadius))
	printKeyValue("Phase U", valueOrNone(config.Power.PhaseU))
	printKeyValue("Phase V", valueOrNone(config.Power.PhaseV))

	printSection("SUMMARIZER CONFIGURATION")
	printKeyValue("Endpoint", valueOrNone(config.Summarizer.Endpoint))
	printKeyValue("Model", valueOrNone(config.Summarizer.Model))
	printKeyValue("API Key", maskSecret(config.Summarizer.APIKey))
	printKeyValue("Timeout", config.Summarizer.Timeout.String())
	printKeyValue("Excerpt Rows", fmt.Sprintf("%d", config.Summarizer.ExcerptRows))

	printSection("OUTPUT CONFIGURATION")
	printKeyValue("Precision", fmt.Sprintf("%d", config.Output.Precision))
	printKeyValue("Include Metadata", fmt.Sprintf("%t", config.Output.IncludeMetadata))
	printKeyValue("Include Display", fmt.Sprintf("%t", config.Output.IncludeDisplay))

	fmt.Println()
	if err := configs.ValidateConfig(config); err != nil {
		fmt.Println(colorRed + strings.Repeat("-", 80))
		fmt.Printf("CONFIGURATION INVALID: %v\n", err)
		fmt.Println(strings.Repeat("=", 80) + colorReset)
		return err
	}

	fmt.Println(colorGreen + strings.Repeat("-", 80))
	fmt.Println("CONFIGURATION TEST COMPLETED SUCCESSFULLY")
	fmt.Printf("Config file: %s\n", valueOrNone(viper.ConfigFileUsed()))
	fmt.Println(strings.Repeat("=", 80) + colorReset)

	return nil
}

func printSection(title string) {
	fmt.Printf("\n%s\n", title)
	fmt.Println(strings.Repeat("-", len(title)))
}

func printKeyValue(key, value string) {
	if value == "" {
		fmt.Printf("%-35s\n", key)
	} else {
		fmt.Printf("%-35s %s\n", key+":", value)
	}
}

func valueOrNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

func maskSecret(s string) string {
	if s == "" {
		return "(none)"
	}
	if len(s) <= 4 {
		return "****"
	}
	return strings.Repeat("*", len(s)-4) + s[len(s)-4:]
}
