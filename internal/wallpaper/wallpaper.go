// Package wallpaper hands finished image files to the operating system's
// desktop background facility.
package wallpaper

import (
	"fmt"
	"log/slog"

	"github.com/reujab/wallpaper"
)

// Setter sets the desktop background from a local file.
type Setter interface {
	SetFromFile(path string) error
}

// System sets the wallpaper of the current desktop session.
type System struct{}

var _ Setter = System{}

func (System) SetFromFile(path string) error {
	if previous, err := wallpaper.Get(); err == nil {
		slog.Debug("Replacing wallpaper", "previous", previous)
	}
	if err := wallpaper.SetFromFile(path); err != nil {
		return fmt.Errorf("failed to set wallpaper: %w", err)
	}
	return nil
}
