package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/lehigh-university-libraries/moviebasket/internal/models"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL      = "https://api.themoviedb.org/3"
	DefaultImageBaseURL = "https://image.tmdb.org/t/p/w500"
)

// Fetcher returns one page of raw catalog records
type Fetcher interface {
	FetchPage(ctx context.Context, page int) ([]models.RawItem, error)
}

// Client fetches popular movies from The Movie Database API
type Client struct {
	BaseURL    string
	APIKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a new TMDB client. requestsPerSecond <= 0 disables rate limiting.
func NewClient(baseURL, apiKey string, requestsPerSecond float64) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	limit := rate.Inf
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
	}
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter: rate.NewLimiter(limit, 1),
	}
}

// popularResponse is the subset of /movie/popular we use
type popularResponse struct {
	Page         int `json:"page"`
	TotalPages   int `json:"total_pages"`
	TotalResults int `json:"total_results"`
	Results      []struct {
		ID         int64  `json:"id"`
		Title      string `json:"title"`
		PosterPath string `json:"poster_path"`
	} `json:"results"`
}

// FetchPage fetches one page of popular movies
func (c *Client) FetchPage(ctx context.Context, page int) ([]models.RawItem, error) {
	if page < 1 {
		return nil, fmt.Errorf("invalid page %d", page)
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	q := url.Values{}
	q.Set("api_key", c.APIKey)
	q.Set("page", strconv.Itoa(page))
	pageURL := fmt.Sprintf("%s/movie/popular?%s", c.BaseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create TMDB request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch from TMDB: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("TMDB API returned status %d: %s", resp.StatusCode, string(body))
	}

	var popular popularResponse
	if err := json.NewDecoder(resp.Body).Decode(&popular); err != nil {
		return nil, fmt.Errorf("failed to decode TMDB response: %w", err)
	}

	items := make([]models.RawItem, 0, len(popular.Results))
	for _, r := range popular.Results {
		items = append(items, models.RawItem{
			ID:         r.ID,
			Title:      r.Title,
			PosterPath: r.PosterPath,
		})
	}

	return items, nil
}
