// Package llm calls an OpenAI-compatible chat completions endpoint and
// coerces the model's output into the structured answer contract.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"github.com/mitchellh/mapstructure"

	"github.com/paperqa/paperqa/pkg/types"
)

const (
	defaultModel   = "llama3.1"
	defaultAPIKey  = "EMPTY"
	defaultTimeout = 120 * time.Second

	systemPrompt = "You are a careful assistant. Return ONLY valid JSON."
)

// Config holds the connection settings for the completion endpoint.
type Config struct {
	BaseURL string        `json:"base_url" mapstructure:"base_url"`
	APIKey  string        `json:"api_key" mapstructure:"api_key"`
	Model   string        `json:"model" mapstructure:"model"`
	Timeout time.Duration `json:"-" mapstructure:"-"`
}

// ConfigFromEnv reads the OPENAI_* variables the service has always honored.
func ConfigFromEnv() Config {
	cfg := Config{
		BaseURL: os.Getenv("OPENAI_BASE_URL"),
		APIKey:  os.Getenv("OPENAI_API_KEY"),
		Model:   os.Getenv("OPENAI_MODEL"),
	}
	return cfg
}

type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	logger     logr.Logger
}

func NewClient(cfg Config, logger logr.Logger) *Client {
	if cfg.APIKey == "" {
		cfg.APIKey = defaultAPIKey
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Ask sends the prompt and returns a structured answer. Failures never
// escape as errors: transport and API problems come back as an "LLM error"
// answer, undecodable model output as a "Parsing error" answer, matching the
// behavior callers and clients have always seen.
func (c *Client) Ask(ctx context.Context, prompt string) types.QueryResponse {
	content, err := c.complete(ctx, prompt)
	if err != nil {
		c.logger.Error(err, "LLM request failed")
		return types.QueryResponse{Answer: fmt.Sprintf("LLM error: %v", err), References: []string{}}
	}

	response, err := decodeAnswer(content)
	if err != nil {
		c.logger.Error(err, "Failed to decode LLM output")
		return types.QueryResponse{Answer: fmt.Sprintf("Parsing error: %v", err), References: []string{}}
	}
	return response
}

func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature:    0,
		ResponseFormat: &responseFormat{Type: "json_object"},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	var response chatResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", err
	}
	if len(response.Choices) == 0 {
		return "", fmt.Errorf("response contained no choices")
	}
	return strings.TrimSpace(response.Choices[0].Message.Content), nil
}

var codeFence = regexp.MustCompile("^```(?:json)?\\s*|\\s*```$")

// stripToJSON undoes the two ways models wrap JSON in prose: markdown code
// fences and leading/trailing commentary around the outermost object.
func stripToJSON(text string) string {
	if strings.Contains(text, "```") {
		text = codeFence.ReplaceAllString(strings.TrimSpace(text), "")
	}
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start != -1 && end > start {
		return text[start : end+1]
	}
	return text
}

// decodeAnswer parses model output into a QueryResponse. Decoding is weak on
// purpose: models occasionally return "references" as a bare string.
func decodeAnswer(content string) (types.QueryResponse, error) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		if err = json.Unmarshal([]byte(stripToJSON(content)), &raw); err != nil {
			return types.QueryResponse{}, err
		}
	}

	var response types.QueryResponse
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &response,
		TagName:          "json",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return types.QueryResponse{}, err
	}
	if err := decoder.Decode(raw); err != nil {
		return types.QueryResponse{}, err
	}
	if response.References == nil {
		response.References = []string{}
	}
	return response, nil
}
