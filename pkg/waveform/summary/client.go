package summary

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

	"github.com/RyanBlaney/scope-inspector/pkg/logging"
)

// ErrSummarizerUnavailable is returned for every failure to obtain a summary
var ErrSummarizerUnavailable = errors.New("could not reach summarizer")

const systemPrompt = "You are an electronics engineer reviewing oscilloscope captures. " +
	"Answer in concise prose."

// Summarizer turns a prompt into free-form prose
type Summarizer interface {
	Summarize(ctx context.Context, prompt string) (string, error)
}

// Config points the client at an OpenAI-compatible chat completions endpoint
type Config struct {
	Endpoint string        `json:"endpoint" yaml:"endpoint"`
	Model    string        `json:"model" yaml:"model"`
	APIKey   string        `json:"-" yaml:"-"`
	Timeout  time.Duration `json:"timeout" yaml:"timeout"`
}

// Client is the HTTP summarizer. The response text is returned verbatim.
type Client struct {
	config     Config
	httpClient *http.Client
	logger     logging.Logger
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model,omitempty"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// NewClient creates a summarizer client
func NewClient(config Config) *Client {
	if config.Timeout <= 0 {
		config.Timeout = 60 * time.Second
	}
	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		logger: logging.WithFields(logging.Fields{
			"component": "summarizer",
		}),
	}
}

// Summarize posts the prompt and returns the first choice's content
func (c *Client) Summarize(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(c.config.Endpoint) == "" {
		return "", fmt.Errorf("%w: no endpoint configured", ErrSummarizerUnavailable)
	}

	body, err := json.Marshal(chatRequest{
		Model: c.config.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode summary request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSummarizerUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Summarizer request failed", logging.Fields{
			"endpoint": c.config.Endpoint,
			"error":    err.Error(),
		})
		return "", fmt.Errorf("%w: %w", ErrSummarizerUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("%w: unexpected status code %d: %s",
			ErrSummarizerUnavailable, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var decoded chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("%w: invalid response: %w", ErrSummarizerUnavailable, err)
	}
	if len(decoded.Choices) == 0 {
		return "", fmt.Errorf("%w: empty response", ErrSummarizerUnavailable)
	}

	c.logger.Debug("Summary received", logging.Fields{
		"duration_ms": time.Since(start).Milliseconds(),
		"characters":  len(decoded.Choices[0].Message.Content),
	})

	return decoded.Choices[0].Message.Content, nil
}
