package source

import (
	"path"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/notifly-tech/notifly-mcp-server/pkg/types"
)

// markdown is reused across parses; goldmark keeps no state between calls.
var markdown = goldmark.New()

// indexEntry is one parsed link-list row, before it is shaped into a DocPage
// or SDKFile.
type indexEntry struct {
	Title       string
	URL         string
	Description string
	Section     string
}

// ParseDocIndex parses an llms.txt-style markdown index into doc pages.
//
// The expected shape is a link list grouped under headings:
//
//	## Client SDK
//
//	- [iOS Push Notification Setup](https://docs.notifly.tech/sdk/ios/push): Register for APNs
//
// The link text becomes the title, the destination the URL, the text after
// the colon the description, and the nearest enclosing heading the section.
// Rows that are not links are skipped.
func ParseDocIndex(src []byte) []types.DocPage {
	entries := extractEntries(src)
	pages := make([]types.DocPage, 0, len(entries))
	for _, e := range entries {
		pages = append(pages, types.DocPage{
			Title:       e.Title,
			Description: e.Description,
			URL:         e.URL,
			Section:     e.Section,
		})
	}
	return pages
}

// ParseSDKIndex parses a per-platform file index. Rows look like:
//
//	- [Sources/Notifly/NotiflyMessaging.swift](https://raw.githubusercontent.com/.../NotiflyMessaging.swift)
//
// The link text is the repository-relative path; the destination is where the
// raw file content can be fetched.
func ParseSDKIndex(platform types.Platform, src []byte) []types.SDKFile {
	entries := extractEntries(src)
	files := make([]types.SDKFile, 0, len(entries))
	for _, e := range entries {
		files = append(files, types.SDKFile{
			Platform: platform,
			Path:     e.Title,
			Name:     path.Base(e.Title),
			URL:      e.URL,
		})
	}
	return files
}

// extractEntries walks the markdown AST collecting link-list rows and the
// heading each row sits under.
func extractEntries(src []byte) []indexEntry {
	root := markdown.Parser().Parse(text.NewReader(src))

	var entries []indexEntry
	section := ""
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			// Level-1 headings title the whole index; deeper levels open a
			// section.
			if node.Level >= 2 {
				section = nodeText(node, src)
			} else {
				section = ""
			}
			return ast.WalkSkipChildren, nil
		case *ast.ListItem:
			if entry, ok := parseListItem(node, src); ok {
				entry.Section = section
				entries = append(entries, entry)
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return entries
}

// parseListItem pulls the first link out of a list item; trailing text after
// the link, minus a leading colon, is the description.
func parseListItem(item *ast.ListItem, src []byte) (indexEntry, bool) {
	block := item.FirstChild()
	if block == nil {
		return indexEntry{}, false
	}

	var link *ast.Link
	var after strings.Builder
	for child := block.FirstChild(); child != nil; child = child.NextSibling() {
		if l, ok := child.(*ast.Link); ok && link == nil {
			link = l
			continue
		}
		if link != nil {
			after.WriteString(nodeText(child, src))
		}
	}
	if link == nil {
		return indexEntry{}, false
	}

	title := strings.TrimSpace(nodeText(link, src))
	url := strings.TrimSpace(string(link.Destination))
	if title == "" || url == "" {
		return indexEntry{}, false
	}

	desc := strings.TrimSpace(after.String())
	desc = strings.TrimSpace(strings.TrimPrefix(desc, ":"))

	return indexEntry{Title: title, URL: url, Description: desc}, true
}

// nodeText concatenates the text segments under n.
func nodeText(n ast.Node, src []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			if t, ok := c.(*ast.Text); ok {
				b.Write(t.Segment.Value(src))
			}
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}
