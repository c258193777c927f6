// Package confluence provides read access to Confluence pages, attachments,
// and page hierarchies, plus the Gliffy macro rewriter.
package confluence

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/atlbridge/atlbridge/internal/rest"
)

// ErrPageNotFound is returned when a space/title lookup matches no page.
var ErrPageNotFound = errors.New("page not found")

// ErrAttachmentNotFound marks a resolution miss: the referenced attachment
// does not exist on the page. Distinct from transport failures.
var ErrAttachmentNotFound = errors.New("attachment not found")

// childPageLimit is the page size used when enumerating child pages. The
// children listing is paginated upstream; ListChildren loops until a short
// page so callers always see the complete ordered set.
const childPageLimit = 25

// PageRef identifies a page in a children listing.
type PageRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Client reads content from a Confluence instance.
type Client struct {
	rest       *rest.Client
	childLimit int
}

// New creates a Confluence client on top of the shared REST layer.
func New(rc *rest.Client) *Client {
	return &Client{rest: rc, childLimit: childPageLimit}
}

// FindPageID resolves a space key and page title to the page's internal ID.
func (c *Client) FindPageID(ctx context.Context, spaceKey, title string) (string, error) {
	q := url.Values{}
	q.Set("spaceKey", spaceKey)
	q.Set("title", title)

	var resp struct {
		Results []struct {
			ID string `json:"id"`
		} `json:"results"`
	}
	if err := c.rest.GetJSON(ctx, "/rest/api/content", q, &resp); err != nil {
		return "", fmt.Errorf("looking up page %q in space %s: %w", title, spaceKey, err)
	}
	if len(resp.Results) == 0 {
		return "", fmt.Errorf("page %q in space %s: %w", title, spaceKey, ErrPageNotFound)
	}
	return resp.Results[0].ID, nil
}

// GetPage retrieves a page with its storage-format body expanded. The raw
// REST payload is returned so callers can pass it through unchanged apart
// from targeted rewriting of the body.
func (c *Client) GetPage(ctx context.Context, pageID string) (map[string]any, error) {
	q := url.Values{}
	q.Set("expand", "body.storage")

	var page map[string]any
	if err := c.rest.GetJSON(ctx, "/rest/api/content/"+pageID, q, &page); err != nil {
		return nil, fmt.Errorf("fetching page %s: %w", pageID, err)
	}
	return page, nil
}

// FetchAttachment downloads the named attachment of a page. A missing
// attachment is reported as ErrAttachmentNotFound; any other failure is a
// transport error.
func (c *Client) FetchAttachment(ctx context.Context, pageID, filename string) ([]byte, error) {
	// The path goes to rest.Get unescaped; the REST layer escapes it once
	// when the URL is serialized, so filenames with spaces survive intact.
	path := "/download/attachments/" + pageID + "/" + filename
	body, err := c.rest.Get(ctx, path, nil)
	if err != nil {
		if errors.Is(err, rest.ErrNotFound) {
			return nil, fmt.Errorf("attachment %q on page %s: %w", filename, pageID, ErrAttachmentNotFound)
		}
		return nil, fmt.Errorf("fetching attachment %q on page %s: %w", filename, pageID, err)
	}
	return body, nil
}

// ListChildren returns the immediate child pages of a page, in the order the
// server reports them. All result pages are drained so deep hierarchies with
// wide fan-out are never silently truncated.
func (c *Client) ListChildren(ctx context.Context, pageID string) ([]PageRef, error) {
	var children []PageRef
	for start := 0; ; start += c.childLimit {
		q := url.Values{}
		q.Set("start", strconv.Itoa(start))
		q.Set("limit", strconv.Itoa(c.childLimit))

		var resp struct {
			Results []PageRef `json:"results"`
		}
		if err := c.rest.GetJSON(ctx, "/rest/api/content/"+pageID+"/child/page", q, &resp); err != nil {
			return nil, fmt.Errorf("listing children of page %s: %w", pageID, err)
		}
		children = append(children, resp.Results...)
		if len(resp.Results) < c.childLimit {
			return children, nil
		}
	}
}
