package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/wgomg/oratoria/internal/config"
	"github.com/wgomg/oratoria/internal/utils"
	"github.com/wgomg/oratoria/internal/utils/httputils"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *utils.Logger
}

func NewClient(cfg *config.Config, logger *utils.Logger) (*Client, error) {
	if cfg.Search.URL == "" {
		return nil, fmt.Errorf("SEARCH_URL is required")
	}

	return &Client{
		baseURL: cfg.Search.URL,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.App.HttpTimeoutSeconds) * time.Second,
		},
		logger: logger,
	}, nil
}

// Snippets returns the text of every related topic for query, in response
// order. A response without related topics yields an empty slice.
func (c *Client) Snippets(ctx context.Context, query string) ([]string, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("no_html", "1")
	reqURL := fmt.Sprintf("%s?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug(nil, "Searching related topics: %s", utils.Preview(query, 80))
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
			Body:       string(body),
		}
	}

	if _, err := httputils.LogResponseBody(resp, c.logger, ""); err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var answer InstantAnswer
	if err := json.NewDecoder(resp.Body).Decode(&answer); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	snippets := flattenTopics(answer.RelatedTopics, []string{})
	c.logger.Debug(nil, "Found %d related topics", len(snippets))

	return snippets, nil
}

func flattenTopics(topics []Topic, acc []string) []string {
	for _, t := range topics {
		if text := strings.TrimSpace(t.Text); text != "" {
			acc = append(acc, text)
		}
		if len(t.Topics) > 0 {
			acc = flattenTopics(t.Topics, acc)
		}
	}
	return acc
}
