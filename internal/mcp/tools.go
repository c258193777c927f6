package mcp

import "github.com/mark3labs/mcp-go/mcp"

// getJiraIssueTool defines the get_issue_content_jira MCP tool.
var getJiraIssueTool = mcp.NewTool("get_issue_content_jira",
	mcp.WithDescription("Get detailed information about a Jira issue by its ID or key, including summary, description, status, assignee, comments, and attachment metadata."),
	mcp.WithString("issue_id_or_key",
		mcp.Required(),
		mcp.Description("The issue ID or key of the Jira issue to retrieve (e.g. \"PROJ-123\")"),
	),
)

// describeJiraImageTool defines the describe_image_jira MCP tool.
var describeJiraImageTool = mcp.NewTool("describe_image_jira",
	mcp.WithDescription("Generate an AI description of an image attachment on a Jira issue, given the attachment's download URL from the issue's attachment metadata."),
	mcp.WithString("url",
		mcp.Required(),
		mcp.Description("The direct download URL of the image attachment"),
	),
	mcp.WithString("mime_type",
		mcp.Required(),
		mcp.Description("The MIME type of the image file (e.g. \"image/png\")"),
	),
	mcp.WithString("prompt",
		mcp.Required(),
		mcp.Description("The prompt guiding the AI's description of the image"),
	),
)

// getConfluencePageIDTool defines the get_page_id_confluence MCP tool.
var getConfluencePageIDTool = mcp.NewTool("get_page_id_confluence",
	mcp.WithDescription("Look up the unique Confluence page ID for a page identified by its space key and title. The ID is needed by the other Confluence tools."),
	mcp.WithString("space_key",
		mcp.Required(),
		mcp.Description("The key of the Confluence space (e.g. \"ENG\")"),
	),
	mcp.WithString("title",
		mcp.Required(),
		mcp.Description("The title of the Confluence page as shown in the UI"),
	),
)

// getConfluencePageTool defines the get_page_content_with_gliffy_confluence MCP tool.
var getConfluencePageTool = mcp.NewTool("get_page_content_with_gliffy_confluence",
	mcp.WithDescription("Get a Confluence page's content with embedded Gliffy diagram macros expanded inline: each diagram is replaced by a code block containing the diagram's JSON source. All other markup is preserved."),
	mcp.WithString("page_id",
		mcp.Required(),
		mcp.Description("The unique identifier of the Confluence page (e.g. \"123456\")"),
	),
)

// describeConfluenceImageTool defines the describe_image_confluence MCP tool.
var describeConfluenceImageTool = mcp.NewTool("describe_image_confluence",
	mcp.WithDescription("Generate an AI description of an image attached to a Confluence page."),
	mcp.WithString("page_id",
		mcp.Required(),
		mcp.Description("The unique identifier of the Confluence page holding the attachment"),
	),
	mcp.WithString("filename",
		mcp.Required(),
		mcp.Description("The filename of the attached image (e.g. \"diagram.png\")"),
	),
	mcp.WithString("mime_type",
		mcp.Required(),
		mcp.Description("The MIME type of the image file (e.g. \"image/png\")"),
	),
	mcp.WithString("prompt",
		mcp.Required(),
		mcp.Description("The prompt guiding the AI's description of the image"),
	),
)

// getConfluencePageTreeTool defines the get_descendant_pages_confluence MCP tool.
var getConfluencePageTreeTool = mcp.NewTool("get_descendant_pages_confluence",
	mcp.WithDescription("Get the full hierarchical tree of descendant pages under a Confluence page, as nested {id, title, children} objects."),
	mcp.WithString("page_id",
		mcp.Required(),
		mcp.Description("The unique identifier of the root Confluence page"),
	),
	mcp.WithString("title",
		mcp.Description("The title of the root page, echoed into the tree root (optional)"),
	),
)
