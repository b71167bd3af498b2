package nasa

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"
	_ "time/tzdata"
)

// DateLayout is the date format the APOD endpoint accepts and returns.
const DateLayout = "2006-01-02"

// APOD is an Astronomy Picture of the Day entry.
type APOD struct {
	Copyright   string `json:"copyright,omitempty"`
	Date        string `json:"date"`
	Explanation string `json:"explanation"`
	HDURL       string `json:"hdurl,omitempty"`
	MediaType   string `json:"media_type"`
	Title       string `json:"title"`
	URL         string `json:"url"`
}

func (a APOD) String() string {
	return fmt.Sprintf("Title: %s\nDate: %s\nExplanation: %s\nCopyright: %s",
		a.Title, a.Date, a.Explanation, a.Copyright)
}

// ImageURL returns the image to download, preferring the HD variant when hd is set.
// Days whose media is a video return ErrNotImage.
func (a APOD) ImageURL(hd bool) (string, error) {
	if a.MediaType != "image" {
		return "", fmt.Errorf("%w: APOD for %s is %q", ErrNotImage, a.Date, a.MediaType)
	}
	if hd && a.HDURL != "" {
		return a.HDURL, nil
	}
	return a.URL, nil
}

// TodayEastern returns the current APOD date. APOD publishes on US Eastern time.
func TodayEastern(now time.Time) string {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		loc = time.FixedZone("EST", -5*60*60)
	}
	return now.In(loc).Format(DateLayout)
}

// APOD fetches the picture for date (YYYY-MM-DD). An empty date lets the API pick today.
func (c *Client) APOD(ctx context.Context, date string) (*APOD, error) {
	params := url.Values{}
	params.Set("api_key", c.APIKey)
	if date != "" {
		params.Set("date", date)
	}

	body, err := c.get(ctx, c.APODURL, params)
	if err != nil {
		return nil, fmt.Errorf("apod: %w", err)
	}

	var apod APOD
	if err := json.Unmarshal(body, &apod); err != nil {
		return nil, fmt.Errorf("%w: apod: %w", ErrMalformedResponse, err)
	}
	if apod.URL == "" {
		return nil, fmt.Errorf("%w: apod: url missing", ErrMalformedResponse)
	}
	return &apod, nil
}
