package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "atlbridge",
	Short: "MCP bridge exposing Jira and Confluence read tools to AI agents",
	Long: `atlbridge serves Model Context Protocol (MCP) tools for reading Jira
issues and Confluence pages, including inline expansion of embedded
Gliffy diagrams, full descendant page trees, and AI-generated
descriptions of image attachments.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".atlbridge.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
