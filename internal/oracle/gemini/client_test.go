// internal/oracle/gemini/client_test.go
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"internship-match-workers/internal/common/logger"
	"internship-match-workers/internal/models"
	"internship-match-workers/internal/recommend"

	"github.com/stretchr/testify/assert"
)

// ==========================
// Test Helper Functions
// ==========================

func testCandidate() *models.CandidateProfile {
	return &models.CandidateProfile{
		Name:            "Asha",
		EducationLevel:  models.EducationUndergraduate,
		Skills:          []string{"Python", "SQL"},
		SectorInterests: []string{"Analytics"},
	}
}

func testItems() []recommend.RerankItem {
	return []recommend.RerankItem{
		{ID: "a", Title: "Data Analyst Intern", Sector: "Analytics", Remote: true, BaseScore: 82.5},
		{ID: "b", Title: "QA Intern", Sector: "IT", City: "Pune", State: "Maharashtra", BaseScore: 40},
	}
}

func generateContentResponse(text string) string {
	resp := map[string]interface{}{
		"candidates": []map[string]interface{}{
			{
				"content": map[string]interface{}{
					"parts": []map[string]string{{"text": text}},
				},
			},
		},
	}
	b, _ := json.Marshal(resp)
	return string(b)
}

func newTestClient(t *testing.T, serverURL string) *Client {
	return NewClient(Config{
		BaseURL: serverURL,
		APIKey:  "test-key",
		Timeout: 2 * time.Second,
	}, logger.NewTestLogger(t))
}

// ==========================
// Rerank Tests
// ==========================

func TestClient_Rerank_Success(t *testing.T) {
	var gotPrompt string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Contents []struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"contents"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		gotPrompt = req.Contents[0].Parts[0].Text

		text := "```json\n" + `[{"id":"b","rerankScore":91,"reasons":["Better growth track","Strong mentorship"]}]` + "\n```"
		fmt.Fprint(w, generateContentResponse(text))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	results, err := client.Rerank(context.Background(), testCandidate(), testItems())

	assert.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, "b", results[0].ID)
	assert.InDelta(t, 91.0, results[0].RerankScore, 1e-9)
	assert.Equal(t, []string{"Better growth track", "Strong mentorship"}, results[0].Reasons)

	// Prompt carries the candidate summary and per-item baselines.
	assert.Contains(t, gotPrompt, "Python, SQL")
	assert.Contains(t, gotPrompt, "id=a")
	assert.Contains(t, gotPrompt, "baseline 82.5")
}

func TestClient_Rerank_ModelFallback(t *testing.T) {
	var calledModels []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		parts := strings.Split(r.URL.Path, "/")
		calledModels = append(calledModels, strings.TrimSuffix(parts[len(parts)-1], ":generateContent"))

		if len(calledModels) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, generateContentResponse(`[{"id":"a","rerankScore":75,"reasons":["Close skill fit"]}]`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	results, err := client.Rerank(context.Background(), testCandidate(), testItems())

	assert.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, []string{"gemini-2.5-flash", "gemini-1.5-flash"}, calledModels)
}

func TestClient_Rerank_AllModelsFail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	results, err := client.Rerank(context.Background(), testCandidate(), testItems())

	assert.Error(t, err)
	assert.Nil(t, results)
}

func TestClient_Rerank_MissingAPIKey(t *testing.T) {
	client := NewClient(Config{}, logger.NewTestLogger(t))

	results, err := client.Rerank(context.Background(), testCandidate(), testItems())

	assert.ErrorIs(t, err, ErrMissingAPIKey)
	assert.Nil(t, results)
}

func TestClient_Rerank_EmptyItems(t *testing.T) {
	client := NewClient(Config{APIKey: "test-key"}, logger.NewTestLogger(t))

	results, err := client.Rerank(context.Background(), testCandidate(), nil)

	assert.NoError(t, err)
	assert.Nil(t, results)
}

func TestClient_Rerank_MalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, generateContentResponse("I cannot rank these internships."))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.Rerank(context.Background(), testCandidate(), testItems())

	assert.Error(t, err)
}

// ==========================
// Parsing Tests
// ==========================

func TestParseResults_ClampsAndCaps(t *testing.T) {
	text := `Here you go: [
		{"id":"a","rerankScore":250,"reasons":["one","two","three"]},
		{"id":"b","rerankScore":-10,"reasons":[]}
	] done`

	results, err := parseResults(text)

	assert.NoError(t, err)
	assert.Len(t, results, 2)
	assert.InDelta(t, 100.0, results[0].RerankScore, 1e-9)
	assert.Len(t, results[0].Reasons, 2)
	assert.InDelta(t, 0.0, results[1].RerankScore, 1e-9)
}

func TestParseResults_NoArray(t *testing.T) {
	_, err := parseResults("no structured content here")
	assert.Error(t, err)
}
