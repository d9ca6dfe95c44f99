package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gael-paolo/st-parts-track/config"
	"github.com/gael-paolo/st-parts-track/model"
)

func testPairs() []SummaryPair {
	return []SummaryPair{
		{Reference: "00123", StatusLabel: model.LabelInTransit},
		{Reference: "00124", StatusLabel: model.LabelArrived},
	}
}

func geminiTestService(url string, retries int) *GeminiService {
	return NewGeminiService(&config.SummarizerConfig{
		APIURL:    url,
		APIKey:    "test-key",
		Model:     "gemini-pro",
		TimeoutMs: 5000,
		Retries:   retries,
	})
}

func TestGeminiServiceSummarize(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "models/gemini-pro:generateContent") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		// Data minimization: the prompt must carry references and labels,
		// and nothing else about the order lines.
		if !strings.Contains(string(body), "00123") {
			t.Error("expected reference in prompt payload")
		}
		if strings.Contains(string(body), "Garcia") {
			t.Error("client names must never reach the summarizer")
		}

		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{
					{"text": "  Of the 2 order lines, 1 has arrived and 1 is in transit.  "},
				}}},
			},
		})
	}))
	defer server.Close()

	svc := geminiTestService(server.URL, 0)
	text, err := svc.Summarize(context.Background(), testPairs())
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if text != "Of the 2 order lines, 1 has arrived and 1 is in transit." {
		t.Errorf("unexpected summary %q", text)
	}
}

func TestGeminiServiceAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{
				"code":    429,
				"message": "Resource has been exhausted",
				"status":  "RESOURCE_EXHAUSTED",
			},
		})
	}))
	defer server.Close()

	svc := geminiTestService(server.URL, 0)
	_, err := svc.Summarize(context.Background(), testPairs())
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "RESOURCE_EXHAUSTED") {
		t.Errorf("error should carry the API status, got: %v", err)
	}
}

func TestGeminiServiceRetries(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("{}"))
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{{"text": "ok"}}}},
			},
		})
	}))
	defer server.Close()

	svc := geminiTestService(server.URL, 1)
	text, err := svc.Summarize(context.Background(), testPairs())
	if err != nil {
		t.Fatalf("Summarize after retry: %v", err)
	}
	if text != "ok" {
		t.Errorf("summary = %q", text)
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want 2", calls.Load())
	}
}

func TestGeminiServiceNoCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates": []}`))
	}))
	defer server.Close()

	svc := geminiTestService(server.URL, 0)
	_, err := svc.Summarize(context.Background(), testPairs())
	if err == nil {
		t.Fatal("expected error for empty candidates")
	}
}

func TestGeminiServiceEmptyPayload(t *testing.T) {
	svc := geminiTestService("http://localhost:1", 0)
	if _, err := svc.Summarize(context.Background(), nil); err == nil {
		t.Fatal("expected error for empty payload")
	}
}

func TestGeminiServiceNetworkError(t *testing.T) {
	svc := geminiTestService("http://localhost:1", 0)
	if _, err := svc.Summarize(context.Background(), testPairs()); err == nil {
		t.Fatal("expected network error")
	}
}

func TestSummaryPairsMinimal(t *testing.T) {
	inv := "INV-1"
	results := []model.AnalysisResult{
		{
			OrderLine:   model.OrderLine{Reference: "00123", Client: "Garcia Motors", InvoiceID: &inv},
			StatusLabel: model.LabelInTransit,
		},
	}
	pairs := SummaryPairs(results)
	if len(pairs) != 1 {
		t.Fatalf("pairs = %d", len(pairs))
	}
	if pairs[0].Reference != "00123" || pairs[0].StatusLabel != model.LabelInTransit {
		t.Errorf("unexpected pair %+v", pairs[0])
	}

	encoded, err := json.Marshal(pairs)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(encoded), "Garcia") || strings.Contains(string(encoded), "INV-1") {
		t.Errorf("payload leaks non-minimal fields: %s", encoded)
	}
}
