package cmd

import (
	"github.com/spf13/cobra"

	"github.com/atlbridge/atlbridge/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize atlbridge configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure the Jira and Confluence connections and generates a .atlbridge.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
