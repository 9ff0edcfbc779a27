package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rajasatyajit/roadside/config"
	apperrors "github.com/rajasatyajit/roadside/internal/errors"
)

const (
	// maxResponseBytes bounds how much of a model response is read
	maxResponseBytes = 1 << 20

	promptTemplate = `The user is in a roadside emergency. The description provided is: %q.

Categorize the issue and determine severity.
Provide a suggested action for the user.

Return the result EXACTLY in this JSON format:
{
    "issueType": "one of [Tyre, Battery, Engine, Accident, General]",
    "severity": "one of [Low, Medium, High, Critical]",
    "suggestedAction": "brief advice for the user"
}`
)

// Analysis is the structured answer of the remote text classifier
type Analysis struct {
	IssueType       string `json:"issueType"`
	Severity        string `json:"severity"`
	SuggestedAction string `json:"suggestedAction"`
}

// Analyzer is the narrow interface to an external text classifier
type Analyzer interface {
	Analyze(ctx context.Context, text string) (*Analysis, error)
	Enabled() bool
}

// GeminiAnalyzer calls the Gemini generateContent REST endpoint
type GeminiAnalyzer struct {
	apiKey     string
	model      string
	endpoint   string
	enabled    bool
	httpClient *http.Client
}

// NewGemini creates an analyzer from classifier configuration
func NewGemini(cfg config.ClassifierConfig) *GeminiAnalyzer {
	return &GeminiAnalyzer{
		apiKey:   cfg.APIKey,
		model:    cfg.Model,
		endpoint: strings.TrimRight(cfg.Endpoint, "/"),
		enabled:  cfg.Enabled(),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     30 * time.Second,
			},
		},
	}
}

// Enabled reports whether an API key is configured
func (g *GeminiAnalyzer) Enabled() bool {
	return g.enabled
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig struct {
		ResponseMimeType string `json:"responseMimeType"`
	} `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// Analyze sends text to the model and parses its JSON answer
func (g *GeminiAnalyzer) Analyze(ctx context.Context, text string) (*Analysis, error) {
	if !g.enabled {
		return nil, apperrors.ClassifierError{Stage: "config", Err: apperrors.ErrClassifierUnavailable}
	}

	var reqBody geminiRequest
	reqBody.Contents = []geminiContent{{Parts: []geminiPart{{Text: fmt.Sprintf(promptTemplate, text)}}}}
	reqBody.GenerationConfig.ResponseMimeType = "application/json"

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, apperrors.ClassifierError{Stage: "encode", Err: err}
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", g.endpoint, g.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, apperrors.ClassifierError{Stage: "request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.ClassifierError{Stage: "request", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, apperrors.ClassifierError{Stage: "read", Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.ClassifierError{
			Stage: "status",
			Err:   fmt.Errorf("HTTP %d: %s", resp.StatusCode, truncate(string(body), 200)),
		}
	}

	var gr geminiResponse
	if err := json.Unmarshal(body, &gr); err != nil {
		return nil, apperrors.ClassifierError{Stage: "decode", Err: err}
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return nil, apperrors.ClassifierError{Stage: "decode", Err: fmt.Errorf("empty candidates")}
	}

	return parseAnalysis(gr.Candidates[0].Content.Parts[0].Text)
}

// parseAnalysis decodes the model text, tolerating markdown code fences
func parseAnalysis(text string) (*Analysis, error) {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
		text = strings.TrimSpace(text)
	}

	var a Analysis
	if err := json.Unmarshal([]byte(text), &a); err != nil {
		return nil, apperrors.ClassifierError{Stage: "parse", Err: err}
	}
	return &a, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
