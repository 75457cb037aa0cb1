package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jordan/jobtrack/internal/store"
)

const greenhousePayload = `{
	"jobs": [
		{
			"id": 5922987,
			"title": "Data Governance Lead",
			"absolute_url": "https://boards.greenhouse.io/stripe/jobs/5922987",
			"updated_at": "2024-03-01T09:30:00Z",
			"location": {"name": "Zurich, Switzerland"},
			"content": "<p>Own data governance.</p>"
		},
		{
			"id": 5922988,
			"title": "Platform Engineer",
			"absolute_url": "https://boards.greenhouse.io/stripe/jobs/5922988",
			"created_at": "2024-02-20T08:00:00+01:00",
			"location": {"name": "Remote"}
		}
	]
}`

func TestGreenhouseNormalize(t *testing.T) {
	jobs, err := NewGreenhouse("stripe").Normalize([]byte(greenhousePayload))
	require.NoError(t, err)
	require.Len(t, jobs, 2)

	first := jobs[0]
	assert.Equal(t, "greenhouse:stripe:5922987", first.ID)
	assert.Equal(t, store.SourceGreenhouse, first.Source)
	assert.Equal(t, "stripe", first.Company)
	assert.Equal(t, "Data Governance Lead", first.Title)
	assert.Equal(t, "Zurich, Switzerland", first.Location)
	assert.Equal(t, "https://boards.greenhouse.io/stripe/jobs/5922987", first.URL)
	assert.Equal(t, "2024-03-01T09:30:00Z", first.PostedAt)
	assert.Contains(t, string(first.RawJSON), "Own data governance")

	// created_at is the fallback when updated_at is absent.
	assert.Equal(t, "2024-02-20T07:00:00Z", jobs[1].PostedAt)
}

func TestGreenhouseNormalize_BadPayload(t *testing.T) {
	_, err := NewGreenhouse("stripe").Normalize([]byte(`{"jobs": [{"title": "no id"}]}`))
	require.Error(t, err)

	var payloadErr *PayloadError
	require.ErrorAs(t, err, &payloadErr)
	assert.Equal(t, store.SourceGreenhouse, payloadErr.Source)
}

const leverPayload = `[
	{
		"id": "a1b2c3",
		"text": "Site Reliability Engineer",
		"hostedUrl": "https://jobs.lever.co/datadog/a1b2c3",
		"createdAt": 1700000000000,
		"categories": {"location": "Paris, France", "team": "Infrastructure"}
	},
	{
		"id": "d4e5f6",
		"text": "Engineering Manager",
		"hostedUrl": "https://jobs.lever.co/datadog/d4e5f6",
		"createdAt": 1700000000000,
		"categories": {"team": "Platform", "commitment": "Full-time"}
	}
]`

func TestLeverNormalize(t *testing.T) {
	jobs, err := NewLever("datadog").Normalize([]byte(leverPayload))
	require.NoError(t, err)
	require.Len(t, jobs, 2)

	first := jobs[0]
	assert.Equal(t, "lever:datadog:a1b2c3", first.ID)
	assert.Equal(t, store.SourceLever, first.Source)
	assert.Equal(t, "datadog", first.Company)
	assert.Equal(t, "Site Reliability Engineer", first.Title)
	assert.Equal(t, "Paris, France", first.Location)
	assert.Equal(t, "2023-11-14T22:13:20Z", first.PostedAt)

	// No location category: joined fallback from the remaining ones.
	assert.Equal(t, "Platform, Full-time", jobs[1].Location)
}

func TestLeverNormalize_BadPayload(t *testing.T) {
	_, err := NewLever("datadog").Normalize([]byte(`{"not": "an array"}`))
	require.Error(t, err)

	_, err = NewLever("datadog").Normalize([]byte(`[{"text": "no id"}]`))
	require.Error(t, err)
}

const rssPayload = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Acme Careers</title>
    <item>
      <title>Backend Engineer</title>
      <link>https://acme.example/jobs/42</link>
      <guid>acme-42</guid>
      <pubDate>Tue, 14 Nov 2023 22:13:20 +0000</pubDate>
      <description>Build services.</description>
    </item>
    <item>
      <title>Data Engineer</title>
      <link>https://acme.example/jobs/43</link>
      <pubDate>not a date</pubDate>
    </item>
  </channel>
</rss>`

func TestRSSNormalize(t *testing.T) {
	jobs, err := NewRSS("acme").Normalize([]byte(rssPayload))
	require.NoError(t, err)
	require.Len(t, jobs, 2)

	first := jobs[0]
	assert.Equal(t, "rss:acme:acme-42", first.ID)
	assert.Equal(t, store.SourceRSS, first.Source)
	assert.Equal(t, "Acme Careers", first.Company)
	assert.Equal(t, "Backend Engineer", first.Title)
	assert.Equal(t, "https://acme.example/jobs/42", first.URL)
	assert.Equal(t, "2023-11-14T22:13:20Z", first.PostedAt)
	assert.JSONEq(t, `{
		"title": "Backend Engineer",
		"link": "https://acme.example/jobs/42",
		"guid": "acme-42",
		"pub_date": "Tue, 14 Nov 2023 22:13:20 +0000",
		"description": "Build services."
	}`, string(first.RawJSON))

	// Missing guid falls back to the link; bad dates pass through.
	assert.Equal(t, "rss:acme:https://acme.example/jobs/43", jobs[1].ID)
	assert.Equal(t, "not a date", jobs[1].PostedAt)
}

func TestCustomNormalize(t *testing.T) {
	payload := `[
		{"native_id": "eng-7", "company": "Initech", "title": "Staff Engineer",
		 "url": "https://initech.example/careers/eng-7", "posted_at": 1700000000}
	]`

	jobs, err := NewCustom("initech").Normalize([]byte(payload))
	require.NoError(t, err)
	require.Len(t, jobs, 1)

	job := jobs[0]
	assert.Equal(t, "custom:initech:eng-7", job.ID)
	assert.Equal(t, store.SourceCustom, job.Source)
	assert.Equal(t, "Initech", job.Company)
	assert.Equal(t, "2023-11-14T22:13:20Z", job.PostedAt)
}

func TestCustomNormalize_BoardAsCompanyFallback(t *testing.T) {
	jobs, err := NewCustom("initech").Normalize([]byte(`[{"native_id": "eng-8", "title": "SRE"}]`))
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "initech", jobs[0].Company)
}

func TestCustomNormalize_MissingNativeID(t *testing.T) {
	_, err := NewCustom("initech").Normalize([]byte(`[{"title": "SRE"}]`))
	require.Error(t, err)
}
