// Package vision calls an Anthropic-style messages API to estimate
// nutrition facts from a food photo.
package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/AlexTheWizardL/nutrisnap-backend/internal/domain"
)

const systemPrompt = `You are a nutrition expert AI assistant. Analyze the food image and provide detailed nutritional information.

IMPORTANT: Return ONLY valid JSON, no markdown, no code blocks, just raw JSON.

Response format:
{
  "foodName": "Main dish name",
  "description": "Brief description of the meal",
  "foodItems": [
    {
      "name": "Individual food item",
      "estimatedPortion": "portion with unit (e.g., '150g', '1 cup')",
      "calories": number,
      "protein": number (grams),
      "carbs": number (grams),
      "fat": number (grams),
      "fiber": number (grams),
      "sugar": number (grams)
    }
  ],
  "confidence": number between 0 and 1,
  "suggestions": ["nutritional tips or observations"]
}

Be accurate with portion estimates. If unsure, provide conservative estimates.
Consider cooking methods (fried adds fat, grilled is leaner).
Include all visible items including sauces, dressings, and sides.`

type Request struct {
	ImageBase64 string
	Context     string
}

type Result struct {
	FoodName    string            `json:"foodName"`
	Description string            `json:"description"`
	FoodItems   []domain.FoodItem `json:"foodItems"`
	Confidence  float64           `json:"confidence"`
	Suggestions []string          `json:"suggestions"`
}

type Client interface {
	AnalyzeImage(ctx context.Context, req Request) (*Result, error)
}

type httpClient struct {
	baseURL   string
	apiKey    string
	model     string
	maxTokens int
	client    *http.Client
}

func NewHTTPClient(baseURL, apiKey, model string, maxTokens int, timeout time.Duration) Client {
	return &httpClient{baseURL: baseURL, apiKey: apiKey, model: model, maxTokens: maxTokens, client: &http.Client{Timeout: timeout}}
}

var dataURLRe = regexp.MustCompile(`^data:([^;]+);base64,(.+)$`)

func (c *httpClient) AnalyzeImage(ctx context.Context, req Request) (*Result, error) {
	mediaType := "image/jpeg"
	data := req.ImageBase64
	if m := dataURLRe.FindStringSubmatch(data); m != nil {
		mediaType = m[1]
		data = m[2]
	}

	userMessage := "Analyze this food image and provide nutritional information."
	if req.Context != "" {
		userMessage = fmt.Sprintf("Analyze this food image. Additional context: %s", req.Context)
	}

	payload := map[string]interface{}{
		"model":      c.model,
		"max_tokens": c.maxTokens,
		"system":     systemPrompt,
		"messages": []map[string]interface{}{
			{
				"role": "user",
				"content": []map[string]interface{}{
					{
						"type": "image",
						"source": map[string]string{
							"type":       "base64",
							"media_type": mediaType,
							"data":       data,
						},
					},
					{"type": "text", "text": userMessage},
				},
			},
		},
	}

	var resp struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := c.post(ctx, "/v1/messages", payload, &resp); err != nil {
		return nil, err
	}

	var text string
	for _, block := range resp.Content {
		if block.Type == "text" {
			text = block.Text
			break
		}
	}
	if text == "" {
		return nil, fmt.Errorf("vision api returned no text content")
	}

	return parseResult(text)
}

// parseResult decodes the model's JSON answer, tolerating a stray
// markdown code fence despite the prompt.
func parseResult(text string) (*Result, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	var result Result
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &result); err != nil {
		return nil, fmt.Errorf("vision response parse failed: %w", err)
	}
	if result.FoodName == "" && len(result.FoodItems) == 0 {
		return nil, fmt.Errorf("vision response missing food data")
	}
	return &result, nil
}

func (c *httpClient) post(ctx context.Context, path string, payload interface{}, out interface{}) error {
	op := func() error {
		body, err := json.Marshal(payload)
		if err != nil {
			return backoff.Permanent(err)
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s%s", c.baseURL, path), bytes.NewReader(body))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-api-key", c.apiKey)
		req.Header.Set("anthropic-version", "2023-06-01")
		res, err := c.client.Do(req)
		if err != nil {
			return err
		}
		defer res.Body.Close()
		if res.StatusCode >= 500 || res.StatusCode == http.StatusTooManyRequests {
			return fmt.Errorf("vision api error: %d", res.StatusCode)
		}
		if res.StatusCode >= 400 {
			return backoff.Permanent(fmt.Errorf("vision api error: %d", res.StatusCode))
		}
		if out != nil {
			if err := json.NewDecoder(res.Body).Decode(out); err != nil {
				return backoff.Permanent(err)
			}
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 500 * time.Millisecond
	bo.MaxElapsedTime = 30 * time.Second
	return backoff.Retry(op, backoff.WithContext(bo, ctx))
}
