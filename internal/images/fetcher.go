package images

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/docker/go-units"
	"github.com/google/uuid"
)

// DefaultMaxBytes caps a single download when no limit is configured.
const DefaultMaxBytes = 64 * units.MiB

var (
	ErrTooLarge     = errors.New("download too large")
	ErrEmptyPayload = errors.New("download is empty")
)

// Fetcher retrieves wallpaper images
type Fetcher struct {
	HTTPClient *http.Client
	MaxBytes   int64
}

// NewFetcher creates a new image fetcher
func NewFetcher(timeout time.Duration, maxBytes int64) *Fetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Fetcher{
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
		MaxBytes: maxBytes,
	}
}

// Download fetches the image at imageURL into memory.
func (f *Fetcher) Download(ctx context.Context, imageURL string) ([]byte, error) {
	slog.Info("Downloading image", "url", imageURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create image request: %w", err)
	}

	resp, err := f.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image URL returned status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(io.LimitReader(resp.Body, f.MaxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	if int64(len(imageData)) > f.MaxBytes {
		return nil, fmt.Errorf("%w: more than %s", ErrTooLarge, units.BytesSize(float64(f.MaxBytes)))
	}
	if len(imageData) == 0 {
		return nil, ErrEmptyPayload
	}

	slog.Debug("Downloaded image", "url", imageURL, "size", units.HumanSize(float64(len(imageData))))
	return imageData, nil
}

// ExtFor picks the file extension for an image URL. Anything that is not
// a PNG is stored as JPEG.
func ExtFor(imageURL string) string {
	p := imageURL
	if u, err := url.Parse(imageURL); err == nil {
		p = u.Path
	}
	if strings.EqualFold(path.Ext(p), ".png") {
		return ".png"
	}
	return ".jpg"
}

// Save writes data to a new uniquely named file in dir and returns its path.
// The bytes go to a temporary file first, so a failed write leaves nothing behind.
func Save(dir string, data []byte, ext string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".nasa-wallpaper-*.part")
	if err != nil {
		return "", fmt.Errorf("failed to create wallpaper file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write wallpaper file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to write wallpaper file: %w", err)
	}

	finalPath := filepath.Join(dir, fmt.Sprintf("nasa-wallpaper-%s%s", uuid.NewString(), ext))
	if err := os.Rename(tmp.Name(), finalPath); err != nil {
		return "", fmt.Errorf("failed to move wallpaper file into place: %w", err)
	}

	slog.Info("Saved wallpaper", "path", finalPath, "size", units.HumanSize(float64(len(data))))
	return finalPath, nil
}
