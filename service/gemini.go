package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gael-paolo/st-parts-track/config"
	"github.com/gael-paolo/st-parts-track/model"
)

// GeminiService calls the generative-text API to summarize classified
// order lines. It only ever receives (reference, status_label) pairs; no
// other column crosses this boundary.
type GeminiService struct {
	config     *config.SummarizerConfig
	httpClient *http.Client
}

// SummaryPair is the minimal payload unit handed to the summarizer.
type SummaryPair struct {
	Reference   string `json:"reference"`
	StatusLabel string `json:"status_label"`
}

// SummaryPairs projects classified results down to the minimal payload.
func SummaryPairs(results []model.AnalysisResult) []SummaryPair {
	pairs := make([]SummaryPair, len(results))
	for i, r := range results {
		pairs[i] = SummaryPair{Reference: r.Reference, StatusLabel: r.StatusLabel}
	}
	return pairs
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

const summaryInstructions = `You are an AI assistant specialized in logistics. Analyze the already-classified
order lines below and give a clear, brief conclusion.

Instructions:
1. Each line has already been classified; its state is the "status_label" field.
2. Base your analysis only on the number of lines and their status labels. Do not
   infer pieces, quantities, or any other values.
3. Be professional, brief, and precise. Do not add information that is not
   explicitly derivable from the data.

Objective:
- Summarize the state of the order lines by their distinct status labels.
- Count how many lines are in each state (for example, how many are in transit,
  how many have arrived, how many were cancelled).

Example answers:
- "Of the 10 order lines, 8 have arrived at the warehouse and 2 are in transit."
- "The order shows possible delays on 3 lines, while 7 have already arrived."

Apply these rules to the following data:
`

func NewGeminiService(cfg *config.SummarizerConfig) *GeminiService {
	timeout := time.Duration(cfg.TimeoutMs) * time.Millisecond
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &GeminiService{
		config: cfg,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Summarize sends the minimal payload to the model and returns its prose.
// One bounded retry per config; callers treat any error as a non-fatal
// notice next to the already-classified table.
func (s *GeminiService) Summarize(ctx context.Context, pairs []SummaryPair) (string, error) {
	if len(pairs) == 0 {
		return "", fmt.Errorf("nothing to summarize")
	}

	payload, err := json.Marshal(pairs)
	if err != nil {
		return "", fmt.Errorf("failed to marshal payload: %w", err)
	}

	attempts := 1 + s.config.Retries
	var lastErr error
	for i := 0; i < attempts; i++ {
		text, err := s.generate(ctx, summaryInstructions+string(payload))
		if err == nil {
			return text, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}
	return "", lastErr
}

func (s *GeminiService) generate(ctx context.Context, prompt string) (string, error) {
	reqBody := geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		s.config.APIURL, s.config.Model, s.config.APIKey)

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var result geminiResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if result.Error != nil {
		return "", fmt.Errorf("summarizer API error (%s): %s", result.Error.Status, result.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("summarizer API returned status %d", resp.StatusCode)
	}
	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("summarizer returned no candidates")
	}

	return strings.TrimSpace(result.Candidates[0].Content.Parts[0].Text), nil
}
