// internal/stores/internships/search_test.go
package internships

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"internship-match-workers/internal/common/logger"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
)

func newSearchTestServer(t *testing.T, capture *string, response string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		if r.Body != nil {
			body, _ := io.ReadAll(r.Body)
			*capture = string(body)
		}
		fmt.Fprint(w, response)
	}))
}

func TestSearchStore_Search(t *testing.T) {
	response := `{
		"hits": {
			"total": {"value": 1},
			"hits": [{"_source": {
				"id": "i1",
				"title": "Data Analyst Intern",
				"sector": "Analytics",
				"orgName": "DataWorks",
				"remote": true,
				"minEducation": "UNDERGRADUATE",
				"applicationUrl": "https://example.com/apply",
				"deadline": "2027-01-15T00:00:00Z",
				"active": true,
				"requiredSkills": ["Python", "SQL"]
			}}]
		}
	}`

	var capturedQuery string
	server := newSearchTestServer(t, &capturedQuery, response)
	defer server.Close()

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{server.URL}})
	assert.NoError(t, err)

	store := NewSearchStore(client, "", logger.NewTestLogger(t))
	listings, total, err := store.Search(context.Background(), SearchQuery{
		Keywords: "python dashboards",
		Sectors:  []string{"Analytics", "IT"},
		Now:      time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, listings, 1)
	assert.Equal(t, "i1", listings[0].ID)
	assert.Equal(t, []string{"Python", "SQL"}, listings[0].RequiredSkills)

	// The query carries keyword relevance plus open/sector filters.
	var query map[string]interface{}
	assert.NoError(t, json.Unmarshal([]byte(capturedQuery), &query))
	assert.Contains(t, capturedQuery, "multi_match")
	assert.Contains(t, capturedQuery, "python dashboards")
	assert.Contains(t, capturedQuery, "analytics")
	assert.Contains(t, capturedQuery, "deadline")
}

func TestSearchStore_Search_MatchAllWithoutKeywords(t *testing.T) {
	var capturedQuery string
	server := newSearchTestServer(t, &capturedQuery, `{"hits":{"total":{"value":0},"hits":[]}}`)
	defer server.Close()

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{server.URL}})
	assert.NoError(t, err)

	store := NewSearchStore(client, "internships", logger.NewTestLogger(t))
	listings, total, err := store.Search(context.Background(), SearchQuery{RemoteOnly: true})

	assert.NoError(t, err)
	assert.Equal(t, int64(0), total)
	assert.Empty(t, listings)
	assert.Contains(t, capturedQuery, "match_all")
	assert.Contains(t, capturedQuery, `"remote":true`)
}

func TestSearchStore_Search_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"error":"boom"}`)
	}))
	defer server.Close()

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{server.URL}})
	assert.NoError(t, err)

	store := NewSearchStore(client, "internships", logger.NewTestLogger(t))
	_, _, err = store.Search(context.Background(), SearchQuery{Keywords: "python"})

	assert.Error(t, err)
}
