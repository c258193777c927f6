package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to the given path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to atlbridge! Let's configure your Atlassian connections.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Jira base URL.
	jiraPrompt := promptui.Prompt{
		Label:    "Jira base URL (e.g. https://jira.example.com)",
		Validate: validateBaseURL,
	}
	jiraURL, err := jiraPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("jira base URL: %w", err)
	}
	cfg.Jira.BaseURL = strings.TrimRight(jiraURL, "/")

	// 2. Confluence base URL.
	confluencePrompt := promptui.Prompt{
		Label:    "Confluence base URL (e.g. https://confluence.example.com)",
		Validate: validateBaseURL,
	}
	confluenceURL, err := confluencePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("confluence base URL: %w", err)
	}
	cfg.Confluence.BaseURL = strings.TrimRight(confluenceURL, "/")

	// 3. Gliffy miss policy.
	missPrompt := promptui.Select{
		Label: "When a Gliffy diagram attachment is missing",
		Items: []string{
			"drop — remove the macro from the page content",
			"keep — leave the original macro untouched",
		},
	}
	missIdx, _, err := missPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("miss policy selection: %w", err)
	}
	policies := []MissPolicy{MissDrop, MissKeep}
	cfg.Rewrite.MissPolicy = policies[missIdx]

	// Check for tokens.
	for _, envVar := range []string{"JIRA_PERSONAL_ACCESS_TOKEN", "CONFLUENCE_PERSONAL_ACCESS_TOKEN"} {
		if os.Getenv(envVar) == "" {
			fmt.Printf("\nNote: Set %s in your environment before running atlbridge serve.\n", envVar)
		}
	}

	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

// validateBaseURL accepts http(s) URLs without trailing junk.
func validateBaseURL(s string) error {
	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		return fmt.Errorf("must start with http:// or https://")
	}
	return nil
}
