package inference

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

	"github.com/wgomg/oratoria/internal/config"
	"github.com/wgomg/oratoria/internal/utils"
)

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	limiter    *Limiter
	logger     *utils.Logger
	cfg        *config.InferenceConfig
}

func NewClient(cfg *config.Config, logger *utils.Logger) (*Client, error) {
	if cfg.Inference.URL == "" || cfg.Inference.Token == "" {
		return nil, fmt.Errorf("INFERENCE_URL and HUGGINGFACE_API_KEY are required")
	}

	return &Client{
		baseURL: cfg.Inference.URL,
		token:   cfg.Inference.Token,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.App.HttpTimeoutSeconds) * time.Second,
		},
		limiter: NewLimiter(cfg.Inference.MaxConcurrent),
		logger:  logger,
		cfg:     &cfg.Inference,
	}, nil
}

// Classify runs zero-shot classification of inputs against candidateLabels
// with the configured classifier model.
func (c *Client) Classify(ctx context.Context, inputs string, candidateLabels []string) (Classification, error) {
	reqBody := ZeroShotRequest{
		Inputs:     inputs,
		Parameters: ZeroShotParameters{CandidateLabels: candidateLabels},
		Model:      c.cfg.ClassifierModel,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return Classification{}, fmt.Errorf("failed to marshal request body: %w", err)
	}

	body, err := c.post(ctx, c.cfg.ClassifierModel, jsonBody, "application/json")
	if err != nil {
		return Classification{}, err
	}

	result, err := decodeClassification(body)
	if err != nil {
		return Classification{}, fmt.Errorf("failed to decode response: %w", err)
	}

	return result, nil
}

func (c *Client) Summarize(ctx context.Context, text string) (string, error) {
	jsonBody, err := json.Marshal(SummarizationRequest{Inputs: text, Parameters: map[string]any{}})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	body, err := c.post(ctx, c.cfg.SummarizerModel, jsonBody, "application/json")
	if err != nil {
		return "", err
	}

	var results []summarizationResult
	if err := json.Unmarshal(body, &results); err != nil {
		var single summarizationResult
		if err := json.Unmarshal(body, &single); err != nil {
			return "", fmt.Errorf("failed to decode response: %w", err)
		}
		return strings.TrimSpace(single.SummaryText), nil
	}
	if len(results) == 0 {
		return "", nil
	}

	return strings.TrimSpace(results[0].SummaryText), nil
}

func (c *Client) Generate(ctx context.Context, prompt string, maxNewTokens int) (string, error) {
	jsonBody, err := json.Marshal(GenerationRequest{
		Inputs:     prompt,
		Parameters: GenerationParameters{MaxNewTokens: maxNewTokens},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	body, err := c.post(ctx, c.cfg.GeneratorModel, jsonBody, "application/json")
	if err != nil {
		return "", err
	}

	var results []generationResult
	if err := json.Unmarshal(body, &results); err != nil {
		var single generationResult
		if err := json.Unmarshal(body, &single); err != nil {
			return "", fmt.Errorf("failed to decode response: %w", err)
		}
		return strings.TrimSpace(single.GeneratedText), nil
	}
	if len(results) == 0 {
		return "", nil
	}

	return strings.TrimSpace(results[0].GeneratedText), nil
}

// Transcribe forwards an audio blob untouched to the speech model.
func (c *Client) Transcribe(ctx context.Context, audio []byte, contentType string) (string, error) {
	if len(audio) == 0 {
		return "", fmt.Errorf("no audio data provided")
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	body, err := c.post(ctx, c.cfg.TranscriberModel, audio, contentType)
	if err != nil {
		return "", err
	}

	var result TranscriptionResult
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	return result.Text, nil
}

func (c *Client) post(ctx context.Context, model string, payload []byte, contentType string) ([]byte, error) {
	url := fmt.Sprintf("%s/models/%s", c.baseURL, model)
	backoff := time.Duration(c.cfg.RetryBackoffMs) * time.Millisecond

	var lastErr error
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			c.logger.Debug(nil, "Retrying %s (attempt %d/%d): %v", model, attempt, c.cfg.MaxRetries, lastErr)
			if err := sleepCtx(ctx, backoff<<(attempt-1)); err != nil {
				return nil, err
			}
		}

		body, err := c.do(ctx, url, payload, contentType)
		if err == nil {
			return body, nil
		}
		if !isTransient(ctx, err) {
			return nil, err
		}
		lastErr = err
	}

	return nil, fmt.Errorf("inference request to %s failed after %d attempts: %w", model, c.cfg.MaxRetries+1, lastErr)
}

func (c *Client) do(ctx context.Context, url string, payload []byte, contentType string) ([]byte, error) {
	if err := c.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer c.limiter.Release()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	c.setAuthHeaders(req)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	if c.logger.RawBodyLog && contentType == "application/json" {
		c.logger.Debug(nil, "Sending inference request to %s: %s", url, string(payload))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.handleAPIError(resp)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if c.logger.RawBodyLog {
		c.logger.Debug(nil, "Raw inference response: %s", string(body))
	}

	return body, nil
}

func (c *Client) setAuthHeaders(req *http.Request) {
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.token))
}

func (c *Client) handleAPIError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)
	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    http.StatusText(resp.StatusCode),
		Body:       string(body),
	}
}

// isTransient reports whether err is worth another attempt. Cancellation of
// the caller's context never is.
func isTransient(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests || apiErr.StatusCode >= 500
	}

	return !errors.Is(err, context.Canceled)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
