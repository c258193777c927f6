// Package jira provides read access to Jira issues and their attachments.
package jira

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/atlbridge/atlbridge/internal/rest"
)

// issueFields is the fixed field set requested for every issue, matching
// what agents need to reason about an issue without a follow-up call.
var issueFields = strings.Join([]string{
	"assignee",
	"attachment",
	"comment",
	"components",
	"created",
	"description",
	"issuetype",
	"labels",
	"reporter",
	"status",
	"summary",
	"updated",
}, ",")

// Client reads issues from a Jira instance.
type Client struct {
	rest *rest.Client
}

// New creates a Jira client on top of the shared REST layer.
func New(rc *rest.Client) *Client {
	return &Client{rest: rc}
}

// GetIssue retrieves an issue by ID or key (e.g. "PROJ-123") and returns the
// raw REST payload. The structure is passed through to the agent untouched,
// so it is decoded into a generic map rather than a typed struct.
func (c *Client) GetIssue(ctx context.Context, issueIDOrKey string) (map[string]any, error) {
	q := url.Values{}
	q.Set("fields", issueFields)

	var issue map[string]any
	if err := c.rest.GetJSON(ctx, "/rest/api/2/issue/"+issueIDOrKey, q, &issue); err != nil {
		return nil, fmt.Errorf("fetching issue %s: %w", issueIDOrKey, err)
	}
	return issue, nil
}

// FetchAttachment downloads an attachment by its absolute content URL, as
// reported in the issue's attachment metadata.
func (c *Client) FetchAttachment(ctx context.Context, contentURL string) ([]byte, error) {
	body, err := c.rest.GetURL(ctx, contentURL)
	if err != nil {
		return nil, fmt.Errorf("fetching attachment %s: %w", contentURL, err)
	}
	return body, nil
}
