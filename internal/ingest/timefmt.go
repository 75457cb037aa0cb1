package ingest

import (
	"strconv"
	"time"
)

// epochMsThreshold separates second from millisecond epochs; anything
// above it is treated as milliseconds.
const epochMsThreshold = 10_000_000_000

// isoLayouts are tried in order when a timestamp arrives as a string.
var isoLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// NormalizeTimestamp converts a source-supplied timestamp (epoch
// seconds or milliseconds, as number or numeric string, or an ISO 8601
// string) to RFC 3339 UTC with a Z suffix. Values it cannot interpret
// pass through verbatim: posted_at is best-effort, not a hard format.
func NormalizeTimestamp(val any) string {
	switch v := val.(type) {
	case nil:
		return ""
	case float64:
		return epochToUTC(v)
	case int64:
		return epochToUTC(float64(v))
	case string:
		if v == "" {
			return ""
		}
		for _, layout := range isoLayouts {
			if t, err := time.Parse(layout, v); err == nil {
				return t.UTC().Format(time.RFC3339)
			}
		}
		if num, err := strconv.ParseFloat(v, 64); err == nil {
			return epochToUTC(num)
		}
		return v
	default:
		return ""
	}
}

// parseRFC1123 parses the date formats RSS feeds use.
func parseRFC1123(s string) (time.Time, bool) {
	for _, layout := range []string{time.RFC1123Z, time.RFC1123} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func epochToUTC(num float64) string {
	if num > epochMsThreshold {
		num = num / 1000.0
	}
	sec := int64(num)
	nsec := int64((num - float64(sec)) * 1e9)
	return time.Unix(sec, nsec).UTC().Format(time.RFC3339)
}
