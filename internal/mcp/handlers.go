package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/atlbridge/atlbridge/internal/confluence"
	"github.com/atlbridge/atlbridge/internal/rest"
)

// handleGetJiraIssue returns the raw issue payload for an issue ID or key.
func (s *Server) handleGetJiraIssue(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	issueIDOrKey, err := request.RequireString("issue_id_or_key")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: issue_id_or_key"), nil
	}

	issue, err := s.issues.GetIssue(ctx, issueIDOrKey)
	if err != nil {
		if errors.Is(err, rest.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("issue %q not found", issueIDOrKey)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("fetching issue failed: %v", err)), nil
	}

	return jsonResult(issue)
}

// handleDescribeJiraImage downloads a Jira attachment by URL and describes it.
func (s *Server) handleDescribeJiraImage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	url, err := request.RequireString("url")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: url"), nil
	}
	mimeType, err := request.RequireString("mime_type")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: mime_type"), nil
	}
	prompt, err := request.RequireString("prompt")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: prompt"), nil
	}

	if s.vision == nil {
		return mcp.NewToolResultError(visionUnconfiguredMsg), nil
	}

	image, err := s.issues.FetchAttachment(ctx, url)
	if err != nil {
		if errors.Is(err, rest.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("attachment not found at %s", url)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("fetching attachment failed: %v", err)), nil
	}

	return s.describe(ctx, image, mimeType, prompt)
}

// handleGetConfluencePageID resolves a space key and title to a page ID.
func (s *Server) handleGetConfluencePageID(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	spaceKey, err := request.RequireString("space_key")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: space_key"), nil
	}
	title, err := request.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: title"), nil
	}

	id, err := s.pages.FindPageID(ctx, spaceKey, title)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("page lookup failed: %v", err)), nil
	}

	return mcp.NewToolResultText(id), nil
}

// handleGetConfluencePage returns a page's payload with Gliffy macros in the
// storage body rewritten into code blocks.
func (s *Server) handleGetConfluencePage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pageID, err := request.RequireString("page_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: page_id"), nil
	}

	page, err := s.pages.GetPage(ctx, pageID)
	if err != nil {
		if errors.Is(err, rest.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("page %q not found", pageID)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("fetching page failed: %v", err)), nil
	}

	markup, ok := storageValue(page)
	if ok {
		rewritten, err := s.rewriter.Rewrite(ctx, pageID, markup)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("expanding gliffy diagrams failed: %v", err)), nil
		}
		setStorageValue(page, rewritten)
	}

	return jsonResult(page)
}

// handleDescribeConfluenceImage fetches a page attachment and describes it.
func (s *Server) handleDescribeConfluenceImage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pageID, err := request.RequireString("page_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: page_id"), nil
	}
	filename, err := request.RequireString("filename")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: filename"), nil
	}
	mimeType, err := request.RequireString("mime_type")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: mime_type"), nil
	}
	prompt, err := request.RequireString("prompt")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: prompt"), nil
	}

	if s.vision == nil {
		return mcp.NewToolResultError(visionUnconfiguredMsg), nil
	}

	image, err := s.pages.FetchAttachment(ctx, pageID, filename)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("fetching attachment failed: %v", err)), nil
	}

	return s.describe(ctx, image, mimeType, prompt)
}

// handleGetConfluencePageTree walks and returns the full descendant tree.
func (s *Server) handleGetConfluencePageTree(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pageID, err := request.RequireString("page_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: page_id"), nil
	}
	title := request.GetString("title", "")

	root, err := confluence.BuildTree(ctx, s.pages, pageID, title)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("walking page tree failed: %v", err)), nil
	}

	return jsonResult(root)
}

const visionUnconfiguredMsg = "image description is not configured: set AZURE_OPENAI_ENDPOINT, AZURE_OPENAI_API_KEY, and AZURE_OPENAI_CHAT_DEPLOYMENT_NAME"

// describe runs the vision call and returns the provider response as JSON.
func (s *Server) describe(ctx context.Context, image []byte, mimeType, prompt string) (*mcp.CallToolResult, error) {
	if len(image) == 0 {
		return mcp.NewToolResultError("image content is empty"), nil
	}

	resp, err := s.vision.Describe(ctx, image, mimeType, prompt)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("image description failed: %v", err)), nil
	}

	return jsonResult(resp)
}

// jsonResult marshals v and wraps it in a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding result failed: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// storageValue extracts body.storage.value from a raw page payload.
func storageValue(page map[string]any) (string, bool) {
	body, ok := page["body"].(map[string]any)
	if !ok {
		return "", false
	}
	storage, ok := body["storage"].(map[string]any)
	if !ok {
		return "", false
	}
	value, ok := storage["value"].(string)
	return value, ok
}

// setStorageValue writes body.storage.value back into the page payload. Only
// called after storageValue succeeded, so the path is known to exist.
func setStorageValue(page map[string]any, value string) {
	page["body"].(map[string]any)["storage"].(map[string]any)["value"] = value
}
