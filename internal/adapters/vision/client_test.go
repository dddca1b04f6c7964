package vision

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestParseResultPlainJSON(t *testing.T) {
	result, err := parseResult(`{"foodName":"Pasta","confidence":0.9,"foodItems":[{"name":"Spaghetti","calories":400}]}`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if result.FoodName != "Pasta" || len(result.FoodItems) != 1 || result.FoodItems[0].Calories != 400 {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestParseResultStripsCodeFence(t *testing.T) {
	text := "```json\n{\"foodName\":\"Soup\",\"confidence\":0.7}\n```"
	result, err := parseResult(text)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if result.FoodName != "Soup" {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestParseResultRejectsEmptyAnswer(t *testing.T) {
	if _, err := parseResult(`{"confidence":0.5}`); err == nil {
		t.Fatalf("expected error for response without food data")
	}
	if _, err := parseResult("not json at all"); err == nil {
		t.Fatalf("expected error for non-json response")
	}
}

func TestAnalyzeImage(t *testing.T) {
	var gotPath, gotAPIKey string
	var gotPayload map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAPIKey = r.Header.Get("x-api-key")
		_ = json.NewDecoder(r.Body).Decode(&gotPayload)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"content": []map[string]string{
				{"type": "text", "text": `{"foodName":"Burger","description":"A burger","confidence":0.85}`},
			},
		})
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "key-123", "test-model", 1000, 5*time.Second)
	result, err := client.AnalyzeImage(context.Background(), Request{
		ImageBase64: "data:image/png;base64,aGVsbG8=",
		Context:     "dinner",
	})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if result.FoodName != "Burger" || result.Confidence != 0.85 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if gotPath != "/v1/messages" || gotAPIKey != "key-123" {
		t.Fatalf("request wrong: path=%s key=%s", gotPath, gotAPIKey)
	}
	if gotPayload["model"] != "test-model" {
		t.Fatalf("model not set: %v", gotPayload["model"])
	}
	// data URL prefix must be stripped before the API sees the image
	messages := gotPayload["messages"].([]interface{})
	content := messages[0].(map[string]interface{})["content"].([]interface{})
	source := content[0].(map[string]interface{})["source"].(map[string]interface{})
	if source["data"] != "aGVsbG8=" || source["media_type"] != "image/png" {
		t.Fatalf("image source wrong: %+v", source)
	}
}

func TestAnalyzeImageClientErrorIsNotRetried(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "key", "model", 100, 5*time.Second)
	if _, err := client.AnalyzeImage(context.Background(), Request{ImageBase64: "aGVsbG8="}); err == nil {
		t.Fatalf("expected error")
	}
	if calls != 1 {
		t.Fatalf("4xx retried %d times", calls)
	}
}
