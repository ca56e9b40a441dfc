// internal/oracle/gemini/client.go
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"internship-match-workers/internal/common/logger"
	"internship-match-workers/internal/models"
	"internship-match-workers/internal/recommend"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultModel   = "gemini-2.5-flash"
	defaultTimeout = 8 * time.Second
)

// Older models kept as a compatibility chain when the preferred one
// rejects the request.
var fallbackModels = []string{"gemini-1.5-flash", "gemini-1.5-pro"}

var (
	ErrMissingAPIKey = errors.New("gemini api key is not set")
	ErrEmptyResponse = errors.New("no text in gemini response")
)

type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// Client is a semantic re-ranking oracle backed by the Gemini
// generateContent API. It satisfies recommend.Oracle; callers treat
// every error as a signal to keep the deterministic ranking.
type Client struct {
	config Config
	client *http.Client
	logger logger.Logger
}

func NewClient(config Config, log logger.Logger) *Client {
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	if config.Model == "" {
		config.Model = defaultModel
	}
	if config.Timeout <= 0 {
		config.Timeout = defaultTimeout
	}

	return &Client{
		config: config,
		// No client timeout, the per-call context governs
		client: &http.Client{},
		logger: log.WithFields(map[string]interface{}{"component": "gemini-oracle"}),
	}
}

func (c *Client) Rerank(ctx context.Context, candidate *models.CandidateProfile, items []recommend.RerankItem) ([]recommend.RerankResult, error) {
	if c.config.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if len(items) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	text, err := c.generateText(ctx, buildPrompt(candidate, items))
	if err != nil {
		return nil, err
	}

	results, err := parseResults(text)
	if err != nil {
		return nil, err
	}

	c.logger.Info("rerank completed", map[string]interface{}{
		"offered": len(items),
		"scored":  len(results),
	})
	return results, nil
}

// generateText calls the preferred model and walks the fallback chain
// on failure, keeping the first successful response.
func (c *Client) generateText(ctx context.Context, prompt string) (string, error) {
	modelChain := append([]string{c.config.Model}, fallbackModels...)

	var lastErr error
	for _, model := range modelChain {
		text, err := c.callModel(ctx, model, prompt)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		c.logger.Warn("gemini model failed, trying fallback", map[string]interface{}{
			"model": model,
			"error": err.Error(),
		})
	}
	return "", lastErr
}

func (c *Client) callModel(ctx context.Context, model, prompt string) (string, error) {
	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"role":  "user",
				"parts": []map[string]string{{"text": prompt}},
			},
		},
	}

	body, _ := json.Marshal(reqBody)
	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		c.config.BaseURL, url.PathEscape(model), url.QueryEscape(c.config.APIKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini api status %d", resp.StatusCode)
	}

	var apiResponse struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		return "", err
	}

	if len(apiResponse.Candidates) == 0 {
		return "", ErrEmptyResponse
	}

	var sb strings.Builder
	for _, p := range apiResponse.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	if sb.Len() == 0 {
		return "", ErrEmptyResponse
	}
	return sb.String(), nil
}

func buildPrompt(candidate *models.CandidateProfile, items []recommend.RerankItem) string {
	var parts []string

	parts = append(parts, "You are an internship advisor re-ranking matches for a candidate.")
	parts = append(parts, fmt.Sprintf("Candidate: Skills: %s | Interests: %s | Locations: %s | Education: %s",
		strings.Join(candidate.Skills, ", "),
		strings.Join(candidate.SectorInterests, ", "),
		strings.Join(candidate.PreferredLocations, ", "),
		candidate.EducationLevel))

	parts = append(parts, "\nInternships with their baseline scores:")
	for i, item := range items {
		location := fmt.Sprintf("%s, %s", item.City, item.State)
		if item.Remote {
			location = "Remote"
		}
		parts = append(parts, fmt.Sprintf("%d. id=%s %s (%s) [%s] | skills: %s | baseline %.1f",
			i+1, item.ID, item.Title, item.Sector, location,
			strings.Join(item.RequiredSkills, ", "), item.BaseScore))
	}

	parts = append(parts, "\nRe-score each internship for this candidate on a 0-100 scale.")
	parts = append(parts, `Respond with ONLY a JSON array, no prose: [{"id": "...", "rerankScore": 0, "reasons": ["...", "..."]}]`)
	parts = append(parts, "Give at most 2 short reasons per item (max 12 words each).")

	return strings.Join(parts, "\n")
}

// parseResults tolerates markdown fences and surrounding prose by
// extracting the outermost JSON array before unmarshaling.
func parseResults(text string) ([]recommend.RerankResult, error) {
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON array in oracle response")
	}

	var results []recommend.RerankResult
	if err := json.Unmarshal([]byte(text[start:end+1]), &results); err != nil {
		return nil, fmt.Errorf("decode oracle response: %w", err)
	}

	for i := range results {
		if results[i].RerankScore < 0 {
			results[i].RerankScore = 0
		}
		if results[i].RerankScore > 100 {
			results[i].RerankScore = 100
		}
		if len(results[i].Reasons) > 2 {
			results[i].Reasons = results[i].Reasons[:2]
		}
	}
	return results, nil
}
