package scoring

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/jordan/jobtrack/internal/store"
)

// greenhousePayload carries the fields the scorer reads from a
// Greenhouse posting payload.
type greenhousePayload struct {
	Title   string `json:"title"`
	Content string `json:"content"` // HTML
}

// leverPayload carries the fields the scorer reads from a Lever
// posting payload.
type leverPayload struct {
	Text             string `json:"text"`
	Description      string `json:"description"`      // may be HTML
	DescriptionPlain string `json:"descriptionPlain"` // preferred
}

// rssPayload carries the fields the scorer reads from an RSS item
// payload.
type rssPayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// ExtractText builds the searchable text blob for a job from its raw
// payload. Unknown or missing payloads fall back to whatever text the
// payload contains.
func ExtractText(source store.Source, raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	switch source {
	case store.SourceGreenhouse:
		var p greenhousePayload
		if err := json.Unmarshal(raw, &p); err == nil {
			return strings.TrimSpace(stripHTML(p.Content) + " " + p.Title)
		}
	case store.SourceLever:
		var p leverPayload
		if err := json.Unmarshal(raw, &p); err == nil {
			desc := p.DescriptionPlain
			if desc == "" {
				desc = p.Description
			}
			return strings.TrimSpace(stripHTML(desc) + " " + p.Text)
		}
	case store.SourceRSS:
		var p rssPayload
		if err := json.Unmarshal(raw, &p); err == nil {
			return strings.TrimSpace(stripHTML(p.Description) + " " + p.Title)
		}
	}

	// Fallback: flatten the whole payload.
	return stripHTML(string(raw))
}

// stripHTML extracts the text content of an HTML fragment and
// collapses whitespace. Text nodes are joined with a space so words
// never fuse across element boundaries (<li>go</li><li>rust</li>
// must not become "gorust"). Plain text passes through unchanged
// apart from the whitespace normalization.
func stripHTML(s string) string {
	if s == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.Join(strings.Fields(s), " ")
	}
	var parts []string
	for _, root := range doc.Nodes {
		collectText(root, &parts)
	}
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}

// collectText appends every text node under n to parts, in document
// order.
func collectText(n *html.Node, parts *[]string) {
	if n.Type == html.TextNode {
		*parts = append(*parts, n.Data)
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, parts)
	}
}
