// Package nasa talks to the NASA open APIs: the Astronomy Picture of the Day
// endpoint and the NASA Image and Video Library search index.
package nasa

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultAPODURL   = "https://api.nasa.gov/planetary/apod"
	DefaultSearchURL = "https://images-api.nasa.gov/search"

	// DefaultTimeout bounds every request when the caller does not supply an http.Client.
	DefaultTimeout = 30 * time.Second
)

var (
	ErrNoResults         = errors.New("no results")
	ErrNetwork           = errors.New("network failure")
	ErrMalformedResponse = errors.New("malformed response")
	ErrEmptyPage         = errors.New("empty result page")
	ErrMalformedAsset    = errors.New("malformed asset collection")
	ErrNotImage          = errors.New("media is not an image")
)

// Client represents a NASA API client
type Client struct {
	APODURL    string
	SearchURL  string
	APIKey     string
	httpClient *http.Client
}

// NewClient creates a new NASA API client. A nil httpClient gets one with DefaultTimeout.
func NewClient(apiKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{
		APODURL:    DefaultAPODURL,
		SearchURL:  DefaultSearchURL,
		APIKey:     apiKey,
		httpClient: httpClient,
	}
}

// apiError covers both error shapes returned by api.nasa.gov.
type apiError struct {
	Msg   string `json:"msg"`
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (e apiError) message() string {
	if e.Msg != "" {
		return e.Msg
	}
	return e.Error.Message
}

// get issues a single GET request and returns the response body.
// Transport failures and non-200 statuses are reported as ErrNetwork.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint %q: %w", endpoint, err)
	}
	if len(params) > 0 {
		q := u.Query()
		for k, vs := range params {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	slog.Debug("NASA API request", "url", redact(u))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: GET %s: %w", ErrNetwork, u.Host+u.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", ErrNetwork, u.Host+u.Path, err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		msg := strings.TrimSpace(string(body))
		if json.Unmarshal(body, &apiErr) == nil && apiErr.message() != "" {
			msg = apiErr.message()
		}
		if len(msg) > 200 {
			msg = msg[:200]
		}
		return nil, fmt.Errorf("%w: %s returned status %d: %s", ErrNetwork, u.Host+u.Path, resp.StatusCode, msg)
	}

	return body, nil
}

// redact hides the API key in logged URLs.
func redact(u *url.URL) string {
	q := u.Query()
	if q.Has("api_key") {
		q.Set("api_key", "***")
	}
	r := *u
	r.RawQuery = q.Encode()
	return r.String()
}
