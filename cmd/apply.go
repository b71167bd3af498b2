package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/nasa-wallpaper/nasa-wallpaper/internal/images"
	"github.com/nasa-wallpaper/nasa-wallpaper/internal/overlay"
)

const (
	msgChanging = "Changing wallpaper..."
	msgDone     = "Done"
)

// apply downloads imageURL, draws the caption when one is given, stores the
// result in the output directory, and hands it to the wallpaper setter.
func (a *app) apply(ctx context.Context, out io.Writer, imageURL string, caption *overlay.Caption) error {
	data, err := a.fetcher.Download(ctx, imageURL)
	if err != nil {
		return fmt.Errorf("download image: %w", err)
	}

	ext := images.ExtFor(imageURL)
	if caption != nil {
		slog.Debug("Drawing caption", "title", caption.Title)
		data, err = a.compositor.Composite(data, caption.Title, caption.Body)
		if err != nil {
			return fmt.Errorf("overlay caption: %w", err)
		}
		ext = ".jpg"
	}

	path, err := images.Save(a.cfg.OutputDir, data, ext)
	if err != nil {
		return fmt.Errorf("save image: %w", err)
	}

	if a.noSet {
		fmt.Fprintln(out, path)
		return nil
	}

	fmt.Fprintln(out, msgChanging)
	if err := a.setter.SetFromFile(path); err != nil {
		return err
	}
	fmt.Fprintln(out, msgDone)
	return nil
}
