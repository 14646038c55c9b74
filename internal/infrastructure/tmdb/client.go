package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/carloscrcalderonr/finmaq-test/internal/domain"
	"github.com/carloscrcalderonr/finmaq-test/internal/ports"
)

// Client talks to a TMDB-style provider. Every request carries the api_key
// query parameter and is attempted exactly once; transport errors and non-2xx
// statuses are logged and returned, never retried.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *slog.Logger
}

var _ ports.MovieAPI = (*Client)(nil)

// NewClient wires an HTTP client; a nil client gets a 20s timeout default.
func NewClient(baseURL, apiKey string, client *http.Client, logger *slog.Logger) *Client {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		client:  client,
		logger:  logger,
	}
}

type popularResponse struct {
	Page    int                   `json:"page"`
	Results []domain.MovieSummary `json:"results"`
}

// PopularMovies fetches one page of the popular-movies catalog.
func (c *Client) PopularMovies(ctx context.Context, page int) ([]domain.MovieSummary, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))

	var response popularResponse
	if err := c.fetch(ctx, "/movie/popular", params, &response); err != nil {
		return nil, fmt.Errorf("popular page %d: %w", page, err)
	}

	return response.Results, nil
}

// MovieDetail fetches the detail record for a single movie id.
func (c *Client) MovieDetail(ctx context.Context, id int) (domain.MovieDetail, error) {
	var detail domain.MovieDetail
	if err := c.fetch(ctx, fmt.Sprintf("/movie/%d", id), nil, &detail); err != nil {
		return domain.MovieDetail{}, fmt.Errorf("detail %d: %w", id, err)
	}

	return detail, nil
}

func (c *Client) fetch(ctx context.Context, endpoint string, params url.Values, result any) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)
	requestURL := c.baseURL + endpoint + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.warn("request failed", "endpoint", endpoint, "error", err)
		return fmt.Errorf("request %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		c.warn("unexpected status", "endpoint", endpoint, "status", resp.Status)
		return fmt.Errorf("provider returned %s for %s", resp.Status, endpoint)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decode %s: %w", endpoint, err)
	}

	return nil
}

func (c *Client) warn(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Warn(msg, args...)
	}
}
