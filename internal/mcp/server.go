package mcp

import (
	"context"
	"net/http"

	"github.com/mark3labs/mcp-go/server"
	openai "github.com/sashabaranov/go-openai"

	"github.com/atlbridge/atlbridge/internal/confluence"
)

// Version is set via ldflags at build time.
var Version = "dev"

// IssueSource reads Jira issues and their attachments.
type IssueSource interface {
	GetIssue(ctx context.Context, issueIDOrKey string) (map[string]any, error)
	FetchAttachment(ctx context.Context, contentURL string) ([]byte, error)
}

// PageSource reads Confluence pages, attachments, and child listings.
type PageSource interface {
	FindPageID(ctx context.Context, spaceKey, title string) (string, error)
	GetPage(ctx context.Context, pageID string) (map[string]any, error)
	FetchAttachment(ctx context.Context, pageID, filename string) ([]byte, error)
	ListChildren(ctx context.Context, pageID string) ([]confluence.PageRef, error)
}

// ImageDescriber produces AI descriptions of image bytes.
type ImageDescriber interface {
	Describe(ctx context.Context, image []byte, mimeType, prompt string) (*openai.ChatCompletionResponse, error)
}

// Server wraps an MCP server exposing Jira and Confluence read tools.
type Server struct {
	issues   IssueSource
	pages    PageSource
	rewriter *confluence.Rewriter
	vision   ImageDescriber
	mcp      *server.MCPServer
}

// NewServer creates a new MCP server with the given dependencies. vision may
// be nil; the describe_image tools then report a configuration error.
func NewServer(issues IssueSource, pages PageSource, vision ImageDescriber, miss confluence.MissPolicy) *Server {
	s := &Server{
		issues:   issues,
		pages:    pages,
		rewriter: confluence.NewRewriter(pages, miss),
		vision:   vision,
	}

	s.mcp = server.NewMCPServer(
		"atlbridge",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(getJiraIssueTool, s.handleGetJiraIssue)
	s.mcp.AddTool(describeJiraImageTool, s.handleDescribeJiraImage)
	s.mcp.AddTool(getConfluencePageIDTool, s.handleGetConfluencePageID)
	s.mcp.AddTool(getConfluencePageTool, s.handleGetConfluencePage)
	s.mcp.AddTool(describeConfluenceImageTool, s.handleDescribeConfluenceImage)
	s.mcp.AddTool(getConfluencePageTreeTool, s.handleGetConfluencePageTree)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}

// HTTPHandler exposes the same tool set as a streamable HTTP endpoint, for
// mounting under an HTTP router.
func (s *Server) HTTPHandler() http.Handler {
	return server.NewStreamableHTTPServer(s.mcp)
}
