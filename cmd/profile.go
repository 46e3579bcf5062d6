package cmd

import (
	"github.com/spf13/cobra"

	"github.com/RyanBlaney/scope-inspector/internal/app"
)

// profileCmd groups inspection profile helpers
var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Create and validate inspection profiles",
}

var profileInitCmd = &cobra.Command{
	Use:   "init <file>",
	Short: "Write an example inspection profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.GenerateExampleProfile(args[0])
	},
}

var profileValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check an inspection profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.ValidateProfile(args[0])
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(profileInitCmd)
	profileCmd.AddCommand(profileValidateCmd)
}
