package nasa

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	// PageSize is the number of items the search endpoint returns per page.
	PageSize = 100
	// MaxPages is the highest page number the search endpoint will serve.
	MaxPages = 100
	// FirstPage is the index of the first page; the search endpoint is 1-indexed.
	FirstPage = 1
)

// SearchQuery is a sparse set of search filters. Empty fields are not sent.
type SearchQuery struct {
	Q            string
	Center       string
	Location     string
	NASAID       string
	Photographer string
	Title        string
	YearStart    string
	YearEnd      string
}

func (q SearchQuery) values() url.Values {
	v := url.Values{}
	v.Set("media_type", "image")
	for _, f := range []struct{ key, val string }{
		{"q", q.Q},
		{"center", q.Center},
		{"location", q.Location},
		{"nasa_id", q.NASAID},
		{"photographer", q.Photographer},
		{"title", q.Title},
		{"year_start", q.YearStart},
		{"year_end", q.YearEnd},
	} {
		if s := strings.TrimSpace(f.val); s != "" {
			v.Set(f.key, s)
		}
	}
	return v
}

type searchResponse struct {
	Collection struct {
		Metadata struct {
			TotalHits uint64 `json:"total_hits"`
		} `json:"metadata"`
		Items []searchItem `json:"items"`
	} `json:"collection"`
}

type searchItem struct {
	Href string     `json:"href"`
	Data []itemData `json:"data"`
}

type itemData struct {
	NASAID      string `json:"nasa_id"`
	Title       string `json:"title"`
	Center      string `json:"center"`
	Description string `json:"description"`
	DateCreated string `json:"date_created"`
}

// MediaAsset is one image picked from the NASA Image Library.
type MediaAsset struct {
	ID          string `json:"nasa_id" yaml:"nasa_id"`
	Title       string `json:"title" yaml:"title"`
	Center      string `json:"center" yaml:"center"`
	Description string `json:"description" yaml:"description"`
	Date        string `json:"date" yaml:"date"`
	URL         string `json:"url" yaml:"url"`
}

func (m MediaAsset) String() string {
	return fmt.Sprintf("Title: %s\nDate: %s\nExplanation: %s\nCenter: %s\nNASA id: %s",
		m.Title, m.Date, m.Description, m.Center, m.ID)
}

// Rand is the source of randomness used to pick pages and items.
type Rand interface {
	IntN(n int) int
}

type processRand struct{}

func (processRand) IntN(n int) int { return rand.IntN(n) }

// Sampler picks a random image matching a SearchQuery.
type Sampler struct {
	client *Client
	rand   Rand
}

// NewSampler creates a sampler. A nil r uses the process-level generator.
func NewSampler(client *Client, r Rand) *Sampler {
	if r == nil {
		r = processRand{}
	}
	return &Sampler{client: client, rand: r}
}

// PageCount returns how many pages can be requested for totalHits results.
// The count is ceil(totalHits/PageSize) capped at MaxPages, so every page in
// [FirstPage, FirstPage+PageCount) exists and is within the API's page cap.
func PageCount(totalHits uint64) int {
	pages := (totalHits + PageSize - 1) / PageSize
	if pages > MaxPages {
		pages = MaxPages
	}
	return int(pages)
}

// TruncateDate keeps the calendar date part of an ISO-8601 timestamp.
// The cut is textual: the first 10 characters are kept.
func TruncateDate(s string) string {
	if utf8.RuneCountInString(s) <= 10 {
		return s
	}
	return string([]rune(s)[:10])
}

// pick returns a uniform index in [0, n).
func (s *Sampler) pick(n int) (int, error) {
	if n <= 0 {
		return 0, fmt.Errorf("cannot pick from empty range [0, %d)", n)
	}
	i := s.rand.IntN(n)
	if i < 0 || i >= n {
		return 0, fmt.Errorf("random source returned %d outside [0, %d)", i, n)
	}
	return i, nil
}

// Sample searches the image library and returns one result chosen at random:
// first a random page, then a random item on that page.
func (s *Sampler) Sample(ctx context.Context, q SearchQuery) (*MediaAsset, error) {
	params := q.values()

	first, err := s.client.search(ctx, params)
	if err != nil {
		return nil, err
	}

	totalHits := first.Collection.Metadata.TotalHits
	if totalHits == 0 {
		return nil, ErrNoResults
	}

	offset, err := s.pick(PageCount(totalHits))
	if err != nil {
		return nil, err
	}
	page := FirstPage + offset
	slog.Debug("Selected search page", "total_hits", totalHits, "pages", PageCount(totalHits), "page", page)

	resp := first
	if page != FirstPage {
		params.Set("page", strconv.Itoa(page))
		resp, err = s.client.search(ctx, params)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", page, err)
		}
	}

	items := resp.Collection.Items
	if items == nil {
		return nil, fmt.Errorf("%w: collection.items missing on page %d", ErrMalformedResponse, page)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: page %d has no items (total_hits=%d)", ErrEmptyPage, page, totalHits)
	}

	index, err := s.pick(len(items))
	if err != nil {
		return nil, err
	}
	item := items[index]
	slog.Debug("Selected search item", "page", page, "index", index, "items", len(items))

	if item.Href == "" {
		return nil, fmt.Errorf("%w: collection.items[%d].href missing", ErrMalformedResponse, index)
	}
	if len(item.Data) == 0 {
		return nil, fmt.Errorf("%w: collection.items[%d].data missing", ErrMalformedResponse, index)
	}
	data := item.Data[0]

	assetURL, err := s.client.assetURL(ctx, item.Href)
	if err != nil {
		return nil, err
	}

	return &MediaAsset{
		ID:          data.NASAID,
		Title:       data.Title,
		Center:      data.Center,
		Description: data.Description,
		Date:        TruncateDate(data.DateCreated),
		URL:         assetURL,
	}, nil
}

func (c *Client) search(ctx context.Context, params url.Values) (*searchResponse, error) {
	body, err := c.get(ctx, c.SearchURL, params)
	if err != nil {
		return nil, err
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: search: %w", ErrMalformedResponse, err)
	}
	return &resp, nil
}

// assetURL resolves an asset collection href to the first listed file URL.
func (c *Client) assetURL(ctx context.Context, href string) (string, error) {
	body, err := c.get(ctx, href, nil)
	if err != nil {
		return "", fmt.Errorf("asset collection: %w", err)
	}

	var urls []string
	if err := json.Unmarshal(body, &urls); err != nil {
		return "", fmt.Errorf("%w: expected a list of URLs: %w", ErrMalformedAsset, err)
	}
	if len(urls) == 0 || urls[0] == "" {
		return "", fmt.Errorf("%w: no asset URLs listed at %s", ErrMalformedAsset, href)
	}
	return urls[0], nil
}
