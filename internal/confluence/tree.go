package confluence

import (
	"context"
	"fmt"
)

// PageNode is one page in a descendant tree. Children always marshals as an
// array, never null, so consumers can recurse without nil checks.
type PageNode struct {
	ID       string      `json:"id"`
	Title    string      `json:"title"`
	Children []*PageNode `json:"children"`
}

// ChildLister enumerates the immediate children of a page, in server order.
type ChildLister interface {
	ListChildren(ctx context.Context, pageID string) ([]PageRef, error)
}

// BuildTree materializes the full descendant tree rooted at rootID using
// breadth-first expansion over an explicit FIFO frontier. Each discovered
// page is expanded exactly once; a node's children preserve the order of
// its own listing call regardless of discovery order. Any listing failure
// aborts the whole traversal with no partial tree.
//
// rootTitle is caller-supplied metadata and is not verified upstream.
func BuildTree(ctx context.Context, lister ChildLister, rootID, rootTitle string) (*PageNode, error) {
	root := &PageNode{ID: rootID, Title: rootTitle, Children: []*PageNode{}}

	frontier := []*PageNode{root}
	for len(frontier) > 0 {
		node := frontier[0]
		frontier = frontier[1:]

		children, err := lister.ListChildren(ctx, node.ID)
		if err != nil {
			return nil, fmt.Errorf("walking descendants of page %s: %w", rootID, err)
		}
		for _, ref := range children {
			child := &PageNode{ID: ref.ID, Title: ref.Title, Children: []*PageNode{}}
			node.Children = append(node.Children, child)
			frontier = append(frontier, child)
		}
	}
	return root, nil
}
