package confluence

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

// fakeFetcher resolves filenames from an in-memory map and records fetch
// order.
type fakeFetcher struct {
	attachments map[string][]byte
	err         error
	fetched     []string
}

func (f *fakeFetcher) FetchAttachment(_ context.Context, pageID, filename string) ([]byte, error) {
	f.fetched = append(f.fetched, filename)
	if f.err != nil {
		return nil, f.err
	}
	content, ok := f.attachments[filename]
	if !ok {
		return nil, fmt.Errorf("attachment %q on page %s: %w", filename, pageID, ErrAttachmentNotFound)
	}
	return content, nil
}

func gliffyMacro(filename string) string {
	return `<ac:structured-macro ac:name="gliffy" ac:schema-version="1">` +
		`<ac:parameter ac:name="name">` + filename + `</ac:parameter>` +
		`<ac:parameter ac:name="version">3</ac:parameter>` +
		`</ac:structured-macro>`
}

func TestRewriteIdentityWithoutMacros(t *testing.T) {
	fetcher := &fakeFetcher{}
	r := NewRewriter(fetcher, MissDrop)

	markup := `<p>plain text</p><ac:structured-macro ac:name="toc"></ac:structured-macro>`
	got, err := r.Rewrite(context.Background(), "1", markup)
	if err != nil {
		t.Fatalf("Rewrite failed: %v", err)
	}
	if got != markup {
		t.Errorf("expected identity transform, got %q", got)
	}
	if len(fetcher.fetched) != 0 {
		t.Errorf("no fetches expected, got %v", fetcher.fetched)
	}
}

func TestRewriteEndToEnd(t *testing.T) {
	fetcher := &fakeFetcher{attachments: map[string][]byte{
		"diagram1": []byte(`{"a":1}`),
	}}
	r := NewRewriter(fetcher, MissDrop)

	markup := `<p>intro</p>` + gliffyMacro("diagram1") + `<p>outro</p>`
	got, err := r.Rewrite(context.Background(), "123", markup)
	if err != nil {
		t.Fatalf("Rewrite failed: %v", err)
	}

	want := `<p>intro</p>` +
		`<ac:structured-macro ac:name="code">` +
		`<ac:parameter ac:name="language">json</ac:parameter>` +
		`<ac:plain-text-body><![CDATA[{"a":1}]]></ac:plain-text-body>` +
		`</ac:structured-macro>` +
		`<p>outro</p>`
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestRewriteMultilineBody(t *testing.T) {
	fetcher := &fakeFetcher{attachments: map[string][]byte{
		"flow": []byte(`{"nodes":[]}`),
	}}
	r := NewRewriter(fetcher, MissDrop)

	markup := "<ac:structured-macro ac:name=\"gliffy\" ac:schema-version=\"1\">\n" +
		"  <ac:parameter ac:name=\"name\">flow</ac:parameter>\n" +
		"  <ac:parameter ac:name=\"pageid\">42</ac:parameter>\n" +
		"</ac:structured-macro>"
	got, err := r.Rewrite(context.Background(), "42", markup)
	if err != nil {
		t.Fatalf("Rewrite failed: %v", err)
	}
	if got == markup {
		t.Error("multi-line macro was not matched")
	}
	if fetcher.fetched[0] != "flow" {
		t.Errorf("fetched %v", fetcher.fetched)
	}
}

func TestRewriteSiblingMacrosNotMerged(t *testing.T) {
	fetcher := &fakeFetcher{attachments: map[string][]byte{
		"first":  []byte(`{"n":1}`),
		"second": []byte(`{"n":2}`),
	}}
	r := NewRewriter(fetcher, MissDrop)

	markup := gliffyMacro("first") + `<p>between</p>` + gliffyMacro("second")
	got, err := r.Rewrite(context.Background(), "1", markup)
	if err != nil {
		t.Fatalf("Rewrite failed: %v", err)
	}

	// Non-greedy matching must keep the two macros separate, preserving the
	// text between them and fetching in match order.
	if want := []string{"first", "second"}; len(fetcher.fetched) != 2 ||
		fetcher.fetched[0] != want[0] || fetcher.fetched[1] != want[1] {
		t.Errorf("fetched %v, want %v", fetcher.fetched, want)
	}
	wantMid := `]]></ac:plain-text-body></ac:structured-macro><p>between</p><ac:structured-macro ac:name="code">`
	if !containsSub(got, wantMid) {
		t.Errorf("sibling macros merged or separator lost:\n%s", got)
	}
	if !containsSub(got, `{"n":1}`) || !containsSub(got, `{"n":2}`) {
		t.Errorf("both diagram payloads expected:\n%s", got)
	}
}

func TestRewriteMissDrop(t *testing.T) {
	fetcher := &fakeFetcher{attachments: map[string][]byte{}}
	r := NewRewriter(fetcher, MissDrop)

	markup := `<p>before</p>` + gliffyMacro("gone") + `<p>after</p>`
	got, err := r.Rewrite(context.Background(), "1", markup)
	if err != nil {
		t.Fatalf("a miss must not be an error: %v", err)
	}
	if got != `<p>before</p><p>after</p>` {
		t.Errorf("got %q", got)
	}
}

func TestRewriteMissKeep(t *testing.T) {
	fetcher := &fakeFetcher{attachments: map[string][]byte{}}
	r := NewRewriter(fetcher, MissKeep)

	markup := `<p>before</p>` + gliffyMacro("gone") + `<p>after</p>`
	got, err := r.Rewrite(context.Background(), "1", markup)
	if err != nil {
		t.Fatalf("a miss must not be an error: %v", err)
	}
	if got != markup {
		t.Errorf("keep policy must pass the macro through, got %q", got)
	}
}

func TestRewriteEmptyAttachmentIsMiss(t *testing.T) {
	fetcher := &fakeFetcher{attachments: map[string][]byte{
		"empty": {},
	}}
	r := NewRewriter(fetcher, MissDrop)

	got, err := r.Rewrite(context.Background(), "1", gliffyMacro("empty"))
	if err != nil {
		t.Fatalf("Rewrite failed: %v", err)
	}
	if got != "" {
		t.Errorf("empty content should drop the macro, got %q", got)
	}
}

func TestRewriteTransportFailureAborts(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("upstream 503")}
	r := NewRewriter(fetcher, MissDrop)

	_, err := r.Rewrite(context.Background(), "1", gliffyMacro("diagram"))
	if err == nil {
		t.Fatal("transport failures must propagate")
	}
}

func TestRewriteMacroWithoutNameIsUntouched(t *testing.T) {
	fetcher := &fakeFetcher{}
	r := NewRewriter(fetcher, MissDrop)

	// A gliffy macro missing its name parameter never matches the pattern
	// on its own and passes through as ordinary markup.
	markup := `<ac:structured-macro ac:name="gliffy" ac:schema-version="1">` +
		`<ac:parameter ac:name="version">3</ac:parameter>` +
		`</ac:structured-macro>`
	got, err := r.Rewrite(context.Background(), "1", markup)
	if err != nil {
		t.Fatalf("Rewrite failed: %v", err)
	}
	if got != markup {
		t.Errorf("malformed macro must pass through, got %q", got)
	}
	if len(fetcher.fetched) != 0 {
		t.Errorf("no fetches expected, got %v", fetcher.fetched)
	}
}

func TestRewriteUnnamedMacroBeforeNamedSibling(t *testing.T) {
	fetcher := &fakeFetcher{attachments: map[string][]byte{
		"second": []byte(`{"n":2}`),
	}}
	r := NewRewriter(fetcher, MissDrop)

	unnamed := `<ac:structured-macro ac:name="gliffy" ac:schema-version="1">` +
		`<ac:parameter ac:name="version">3</ac:parameter>` +
		`</ac:structured-macro>`
	markup := unnamed + `<p>between</p>` + gliffyMacro("second")
	got, err := r.Rewrite(context.Background(), "1", markup)
	if err != nil {
		t.Fatalf("Rewrite failed: %v", err)
	}

	// The pattern's leading .*? runs past the unnamed macro's closing tag,
	// so one match spans both macros and the text between them. The named
	// sibling's filename wins and the whole span collapses into its code
	// macro.
	if want := []string{"second"}; len(fetcher.fetched) != 1 || fetcher.fetched[0] != want[0] {
		t.Errorf("fetched %v, want %v", fetcher.fetched, want)
	}
	if want := codeMacro([]byte(`{"n":2}`)); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestRewritePreservesSurroundingBytes(t *testing.T) {
	fetcher := &fakeFetcher{attachments: map[string][]byte{
		"d1": []byte(`1`),
		"d2": []byte(`2`),
	}}
	r := NewRewriter(fetcher, MissDrop)

	prefix := "<h1>Title</h1>\n<p>emoji éè bytes</p>"
	mid := "\n<table><tr><td>cell</td></tr></table>\n"
	suffix := "<p>tail</p>"
	markup := prefix + gliffyMacro("d1") + mid + gliffyMacro("d2") + suffix

	got, err := r.Rewrite(context.Background(), "1", markup)
	if err != nil {
		t.Fatalf("Rewrite failed: %v", err)
	}
	want := prefix + codeMacro([]byte(`1`)) + mid + codeMacro([]byte(`2`)) + suffix
	if got != want {
		t.Errorf("bytes outside matches must be preserved exactly\ngot:  %q\nwant: %q", got, want)
	}
}

func containsSub(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
