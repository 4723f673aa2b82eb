// Package client is the HTTP client for the paper Q&A service used by the
// ask CLI.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/paperqa/paperqa/pkg/types"
)

// DefaultServer is where a locally run service listens.
const DefaultServer = "http://127.0.0.1:8000"

// ErrEmptyQuestion is returned for empty or whitespace-only questions. No
// request is sent in that case.
var ErrEmptyQuestion = errors.New("question cannot be empty")

// NormalizeQuestion trims surrounding whitespace and rejects empty input.
func NormalizeQuestion(question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", ErrEmptyQuestion
	}
	return question, nil
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultServer
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// AskPaper POSTs the question to /ask-paper and returns the raw response
// body. The body comes back for any HTTP status: interpreting the answer is
// the caller's business, only transport failures are errors.
func (c *Client) AskPaper(ctx context.Context, question string) ([]byte, error) {
	question, err := NormalizeQuestion(question)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(types.QueryRequest{Query: question})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/ask-paper", bytes.NewBuffer(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", c.baseURL, err)
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}

// Ping hits the service health check and returns its body.
func (c *Client) Ping(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/ping", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", c.baseURL, err)
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}
