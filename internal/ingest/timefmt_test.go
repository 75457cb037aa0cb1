package ingest

import "testing"

func TestNormalizeTimestamp(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"nil", nil, ""},
		{"empty string", "", ""},
		{"epoch seconds", float64(1700000000), "2023-11-14T22:13:20Z"},
		{"epoch milliseconds", float64(1700000000000), "2023-11-14T22:13:20Z"},
		{"epoch seconds as string", "1700000000", "2023-11-14T22:13:20Z"},
		{"epoch milliseconds as string", "1700000000000", "2023-11-14T22:13:20Z"},
		{"iso utc", "2024-01-02T10:00:00Z", "2024-01-02T10:00:00Z"},
		{"iso with offset", "2024-01-02T10:00:00+02:00", "2024-01-02T08:00:00Z"},
		{"iso without zone", "2024-01-02T10:00:00", "2024-01-02T10:00:00Z"},
		{"date only", "2024-01-02", "2024-01-02T00:00:00Z"},
		{"unparseable passes through", "last Tuesday", "last Tuesday"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeTimestamp(tt.input); got != tt.expected {
				t.Errorf("NormalizeTimestamp(%v) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParseRFC1123(t *testing.T) {
	if _, ok := parseRFC1123("Tue, 14 Nov 2023 22:13:20 +0000"); !ok {
		t.Error("expected RFC1123Z date to parse")
	}
	if _, ok := parseRFC1123("Tue, 14 Nov 2023 22:13:20 UTC"); !ok {
		t.Error("expected RFC1123 date to parse")
	}
	if _, ok := parseRFC1123("yesterday"); ok {
		t.Error("expected garbage to fail")
	}
}
