package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/atlbridge/atlbridge/internal/config"
	"github.com/atlbridge/atlbridge/internal/confluence"
	"github.com/atlbridge/atlbridge/internal/jira"
	mcpserver "github.com/atlbridge/atlbridge/internal/mcp"
	"github.com/atlbridge/atlbridge/internal/rest"
	"github.com/atlbridge/atlbridge/internal/server"
	"github.com/atlbridge/atlbridge/internal/vision"
)

var serveHTTPAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server for AI agent integration",
	Long: `Starts a Model Context Protocol (MCP) server on stdio, exposing Jira and
Confluence read tools for AI agents like Claude Code. With --http, the
server is exposed as a streamable HTTP endpoint instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		timeout := cfg.RequestTimeout()

		jiraREST, err := rest.New(cfg.Jira.BaseURL, cfg.Jira.Token, timeout)
		if err != nil {
			return fmt.Errorf("creating Jira client: %w", err)
		}
		confREST, err := rest.New(cfg.Confluence.BaseURL, cfg.Confluence.Token, timeout)
		if err != nil {
			return fmt.Errorf("creating Confluence client: %w", err)
		}

		issues := jira.New(jiraREST)
		pages := confluence.New(confREST)

		// Image description is optional; the describe_image tools report a
		// configuration error when Azure OpenAI settings are absent.
		var describer mcpserver.ImageDescriber
		if cfg.OpenAI.Configured() {
			describer = vision.New(cfg.OpenAI.Endpoint, cfg.OpenAI.APIKey, cfg.OpenAI.APIVersion, cfg.OpenAI.Deployment)
		} else {
			fmt.Fprintln(os.Stderr, "Warning: Azure OpenAI not configured; image description tools are disabled.")
		}

		mcpserver.Version = Version
		srv := mcpserver.NewServer(issues, pages, describer, confluence.MissPolicy(cfg.Rewrite.MissPolicy))

		addr := serveHTTPAddr
		if addr == "" {
			addr = cfg.HTTP.Addr
		}
		if addr != "" {
			httpSrv := server.New(server.Config{Addr: addr, AllowAll: cfg.HTTP.AllowAll}, srv.HTTPHandler())

			// Graceful shutdown.
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			go func() {
				<-ctx.Done()
				fmt.Fprintln(os.Stderr, "\nShutting down server...")
				httpSrv.Shutdown(context.Background())
			}()

			fmt.Fprintf(os.Stderr, "atlbridge MCP server listening on %s (jira=%s, confluence=%s)\n",
				addr, cfg.Jira.BaseURL, cfg.Confluence.BaseURL)
			return httpSrv.Start()
		}

		fmt.Fprintf(os.Stderr, "atlbridge MCP server started on stdio (jira=%s, confluence=%s)\n",
			cfg.Jira.BaseURL, cfg.Confluence.BaseURL)
		return srv.Serve()
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHTTPAddr, "http", "", "serve MCP over HTTP on this address instead of stdio (e.g. :8080)")
	rootCmd.AddCommand(serveCmd)
}
