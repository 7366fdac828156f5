package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"pathfinder/guide-api/config"
)

const (
	mockRecommendation = "mock suggestion: build projects, learn data structures, apply to internships"
	promptFormat       = "Make a short career recommendation for goals: %s and profile: %s"
)

// Recommender produces the result payload of a recommendation request.
// Without an API key it only ever returns the mock suggestion. Provider
// failures are reported inside the payload, never as an error.
type Recommender struct {
	cfg    config.AIConfig
	client *http.Client
}

func NewRecommender(cfg config.AIConfig) *Recommender {
	return &Recommender{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

type providerRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

// Prompt renders the text sent to the provider. profile is compacted so
// the prompt stays on one line.
func Prompt(profile json.RawMessage, goals string) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, profile); err != nil {
		buf.Reset()
		buf.WriteString("{}")
	}

	return fmt.Sprintf(promptFormat, goals, buf.String())
}

func (r *Recommender) Recommend(ctx context.Context, profile json.RawMessage, goals string) map[string]any {
	result := map[string]any{"recommendation": mockRecommendation}

	if r.cfg.APIKey == "" {
		return result
	}

	ctx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	body, status, err := r.call(ctx, Prompt(profile, goals))
	if err != nil {
		result["error"] = err.Error()
		return result
	}

	if status != http.StatusOK {
		result["api_error"] = string(body)
		return result
	}

	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		result["error"] = err.Error()
		return result
	}

	obj, ok := decoded.(map[string]any)
	if !ok {
		result["error"] = fmt.Sprintf("unexpected provider response, expected a JSON object but got %s", jsonKind(decoded))
		return result
	}

	result["recommendation"] = obj
	if !isEmptyValue(obj["output"]) {
		result["recommendation"] = obj["output"]
	}

	return result
}

func (r *Recommender) call(ctx context.Context, prompt string) ([]byte, int, error) {
	payload, err := json.Marshal(providerRequest{Model: r.cfg.Model, Input: prompt})
	if err != nil {
		return nil, 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.cfg.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, 0, err
	}

	req.Header.Set("Authorization", "Bearer "+r.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, err
	}

	return body, resp.StatusCode, nil
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "a string"
	case bool:
		return "a boolean"
	case float64:
		return "a number"
	case []any:
		return "an array"
	}

	return "an unknown value"
}

// isEmptyValue reports whether a decoded JSON value carries nothing.
func isEmptyValue(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case bool:
		return !val
	case float64:
		return val == 0
	case []any:
		return len(val) == 0
	case map[string]any:
		return len(val) == 0
	}

	return false
}

