package leaderboard

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hetfly/snake-demo/pkg/config"
)

const restPath = "/rest/v1/leaderboard"

// ErrSecretKey is returned when the service reports that a secret key was
// used where the public (anon) key belongs.
var ErrSecretKey = errors.New("invalid API key: use the anon/public key, not the service_role key")

// StatusError is a non-2xx answer from the leaderboard service.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("leaderboard service returned %d %s", e.Code, http.StatusText(e.Code))
	}
	return fmt.Sprintf("leaderboard service returned %d: %s", e.Code, e.Message)
}

// errorBody is the error payload of the REST service.
type errorBody struct {
	Message string `json:"message"`
	Hint    string `json:"hint"`
}

// RemoteClient talks to the leaderboard REST service.
type RemoteClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewRemoteClient creates a client for baseURL authenticated with apiKey.
// A nil httpClient gets one with config.DefaultHTTPTimeout.
func NewRemoteClient(baseURL, apiKey string, httpClient *http.Client) *RemoteClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.DefaultHTTPTimeout}
	}
	return &RemoteClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    httpClient,
	}
}

// Submit posts a score and returns the stored row.
func (c *RemoteClient) Submit(ctx context.Context, playerName string, score int) (Entry, error) {
	body, err := json.Marshal(struct {
		PlayerName string `json:"player_name"`
		Score      int    `json:"score"`
	}{playerName, score})
	if err != nil {
		return Entry{}, fmt.Errorf("failed to encode score: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+restPath, bytes.NewReader(body))
	if err != nil {
		return Entry{}, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=representation")
	c.authorize(req)

	raw, err := c.do(req)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to submit score: %w", err)
	}

	// The service answers with either the row or an array of rows
	var rows []Entry
	if err := json.Unmarshal(raw, &rows); err == nil {
		if len(rows) == 0 {
			return Entry{}, errors.New("failed to submit score: empty response")
		}
		return rows[0], nil
	}
	var row Entry
	if err := json.Unmarshal(raw, &row); err != nil {
		return Entry{}, fmt.Errorf("failed to decode submitted score: %w", err)
	}
	return row, nil
}

// Top fetches up to limit entries ordered by score descending.
func (c *RemoteClient) Top(ctx context.Context, limit int) ([]Entry, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("order", "score.desc")
	q.Set("limit", strconv.Itoa(limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+restPath+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	c.authorize(req)

	raw, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch leaderboard: %w", err)
	}
	var rows []Entry
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode leaderboard: %w", err)
	}
	return rows, nil
}

func (c *RemoteClient) authorize(req *http.Request) {
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
}

func (c *RemoteClient) do(req *http.Request) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		_ = json.Unmarshal(raw, &eb)
		if strings.Contains(eb.Message, "secret API key") || strings.Contains(eb.Hint, "secret API key") {
			return nil, ErrSecretKey
		}
		return nil, &StatusError{Code: resp.StatusCode, Message: eb.Message}
	}
	return raw, nil
}

// requestTimeout bounds a single call when the caller's context has no deadline.
func requestTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok || d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
