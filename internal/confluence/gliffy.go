package confluence

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// MissPolicy selects what the rewriter does when a diagram's attachment
// cannot be resolved.
type MissPolicy string

const (
	// MissDrop replaces the whole macro with nothing.
	MissDrop MissPolicy = "drop"
	// MissKeep passes the original macro through untouched.
	MissKeep MissPolicy = "keep"
)

// AttachmentFetcher resolves a filename to attachment bytes, scoped to a
// page. A miss must be reported as ErrAttachmentNotFound.
type AttachmentFetcher interface {
	FetchAttachment(ctx context.Context, pageID, filename string) ([]byte, error)
}

// gliffyMacroRe matches one Gliffy structured macro, capturing the diagram
// filename from its name parameter. (?s) lets the macro body span lines;
// the non-greedy quantifiers keep well-formed sibling macros from merging
// into one match. A macro without a name parameter never matches on its
// own, but when a named sibling follows, the leading .*? runs past the
// unnamed macro's closing tag and one match spans both macros: the sibling's
// filename is captured and the whole span is replaced by its code macro.
var gliffyMacroRe = regexp.MustCompile(
	`(?s)<ac:structured-macro[^>]+ac:name="gliffy"[^>]*>` +
		`.*?<ac:parameter ac:name="name">(.*?)</ac:parameter>.*?` +
		`</ac:structured-macro>`)

// Rewriter replaces Gliffy diagram macros in storage-format markup with
// code macros embedding the diagram's JSON source.
type Rewriter struct {
	fetcher AttachmentFetcher
	miss    MissPolicy
}

// NewRewriter creates a Rewriter that resolves attachments through fetcher.
func NewRewriter(fetcher AttachmentFetcher, miss MissPolicy) *Rewriter {
	if miss == "" {
		miss = MissDrop
	}
	return &Rewriter{fetcher: fetcher, miss: miss}
}

// Rewrite scans markup for Gliffy macros and splices each diagram's
// attachment content back in as a code macro. Everything outside matched
// macros is copied through byte for byte. Attachments are fetched in match
// order; a missing attachment is handled per the miss policy, while any
// other fetch failure aborts the whole rewrite.
func (r *Rewriter) Rewrite(ctx context.Context, pageID, markup string) (string, error) {
	matches := gliffyMacroRe.FindAllStringSubmatchIndex(markup, -1)
	if len(matches) == 0 {
		return markup, nil
	}

	var b strings.Builder
	b.Grow(len(markup))
	last := 0
	for _, m := range matches {
		b.WriteString(markup[last:m[0]])
		last = m[1]

		filename := markup[m[2]:m[3]]
		content, err := r.fetcher.FetchAttachment(ctx, pageID, filename)
		switch {
		case errors.Is(err, ErrAttachmentNotFound):
			if r.miss == MissKeep {
				b.WriteString(markup[m[0]:m[1]])
			}
		case err != nil:
			return "", fmt.Errorf("resolving gliffy diagram %q on page %s: %w", filename, pageID, err)
		case len(content) == 0:
			// Empty attachment body is a miss, not an error.
			if r.miss == MissKeep {
				b.WriteString(markup[m[0]:m[1]])
			}
		default:
			b.WriteString(codeMacro(content))
		}
	}
	b.WriteString(markup[last:])
	return b.String(), nil
}

// codeMacro wraps attachment content in a code structured macro. The CDATA
// section is the storage format's literal-body convention; the content is
// embedded as-is.
func codeMacro(content []byte) string {
	return `<ac:structured-macro ac:name="code">` +
		`<ac:parameter ac:name="language">json</ac:parameter>` +
		`<ac:plain-text-body><![CDATA[` + string(content) + `]]></ac:plain-text-body>` +
		`</ac:structured-macro>`
}
