package ingest

import (
	"encoding/json"
	"encoding/xml"
	"fmt"

	"github.com/jordan/jobtrack/internal/store"
)

// RSS normalizes RSS 2.0 job feeds. Feed is the board slug used in
// the job id; there is no company in most feeds, so the feed title is
// used when an item carries none.
type RSS struct {
	Feed string
}

// NewRSS creates a normalizer for one feed slug.
func NewRSS(feed string) *RSS {
	return &RSS{Feed: feed}
}

// Source returns the source tag for RSS payloads.
func (r *RSS) Source() store.Source { return store.SourceRSS }

type rssDocument struct {
	Channel struct {
		Title string    `xml:"title"`
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
}

type rssItem struct {
	Title       string `xml:"title" json:"title"`
	Link        string `xml:"link" json:"link"`
	GUID        string `xml:"guid" json:"guid"`
	PubDate     string `xml:"pubDate" json:"pub_date"`
	Description string `xml:"description" json:"description,omitempty"`
	Author      string `xml:"author" json:"author,omitempty"`
}

// Normalize converts an RSS feed document into job records. The
// opaque payload for each job is the item re-encoded as JSON, since
// the store's raw_json column holds JSON for every source.
func (r *RSS) Normalize(payload []byte) ([]store.Job, error) {
	var doc rssDocument
	if err := xml.Unmarshal(payload, &doc); err != nil {
		return nil, &PayloadError{Source: r.Source(), Message: "decoding feed", Cause: err}
	}

	jobs := make([]store.Job, 0, len(doc.Channel.Items))
	for _, item := range doc.Channel.Items {
		nativeID := item.GUID
		if nativeID == "" {
			nativeID = item.Link
		}
		if nativeID == "" {
			return nil, &PayloadError{Source: r.Source(), Message: "item has neither guid nor link"}
		}

		raw, err := json.Marshal(item)
		if err != nil {
			return nil, &PayloadError{Source: r.Source(), Message: "encoding item payload", Cause: err}
		}

		jobs = append(jobs, store.Job{
			ID:       fmt.Sprintf("rss:%s:%s", r.Feed, nativeID),
			Source:   store.SourceRSS,
			Company:  doc.Channel.Title,
			Title:    item.Title,
			URL:      item.Link,
			PostedAt: NormalizeTimestamp(rssPubDate(item.PubDate)),
			RawJSON:  raw,
		})
	}
	return jobs, nil
}

// rssPubDate converts the RFC 1123 dates feeds use into something
// NormalizeTimestamp understands; unparseable values pass through.
func rssPubDate(pubDate string) any {
	if pubDate == "" {
		return nil
	}
	if t, ok := parseRFC1123(pubDate); ok {
		return t.Unix()
	}
	return pubDate
}
