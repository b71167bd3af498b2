package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nasa-wallpaper/nasa-wallpaper/internal/nasa"
	"github.com/nasa-wallpaper/nasa-wallpaper/internal/overlay"
	"github.com/spf13/cobra"
)

const msgNoResults = "Couldn't find the file you're looking for. Try another tag."

func newSearchCmd(a *app) *cobra.Command {
	var q nasa.SearchQuery
	var withOverlay bool

	cmd := &cobra.Command{
		Use:     "search",
		Aliases: []string{"nasa-image"},
		Short:   "Use a random image from the NASA Image Library",
		Long: `Searches the NASA Image and Video Library (https://images.nasa.gov) and sets a
random matching image as the wallpaper.

All filters are optional; without any, the whole image library is sampled.`,
		Example: `  # A random image of the Moon
  nasa-wallpaper search -q moon

  # Something from the Jet Propulsion Laboratory in the 1990s, captioned
  nasa-wallpaper search --center JPL --year-start 1990 --year-end 1999 --overlay`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for flag, year := range map[string]string{"year-start": q.YearStart, "year-end": q.YearEnd} {
				if err := validateYear(year); err != nil {
					return fmt.Errorf("invalid --%s: %w", flag, err)
				}
			}

			out := cmd.OutOrStdout()
			asset, err := nasa.NewSampler(a.client, nil).Sample(cmd.Context(), q)
			if errors.Is(err, nasa.ErrNoResults) {
				fmt.Fprintln(out, msgNoResults)
				return nil
			}
			if err != nil {
				return fmt.Errorf("search image library: %w", err)
			}

			fmt.Fprintln(out, asset)

			var caption *overlay.Caption
			if withOverlay {
				caption = &overlay.Caption{Title: asset.Title, Body: asset.Description}
			}
			return a.apply(cmd.Context(), out, asset.URL, caption)
		},
	}

	cmd.Flags().StringVarP(&q.Q, "query", "q", "", "Free text search terms to compare to all indexed metadata")
	cmd.Flags().StringVarP(&q.Center, "center", "c", "", "NASA center which published the media")
	cmd.Flags().StringVarP(&q.Location, "location", "o", "", "Terms to search for in \"Location\" fields")
	cmd.Flags().StringVarP(&q.NASAID, "nasa-id", "i", "", "The media asset's NASA ID")
	cmd.Flags().StringVarP(&q.Photographer, "photographer", "p", "", "The primary photographer's name")
	cmd.Flags().StringVarP(&q.Title, "title", "t", "", "Terms to search for in \"Title\" fields")
	cmd.Flags().StringVar(&q.YearStart, "year-start", "", "The start year for results (YYYY)")
	cmd.Flags().StringVar(&q.YearEnd, "year-end", "", "The end year for results (YYYY)")
	cmd.Flags().BoolVar(&withOverlay, "overlay", false, "Draw the title and description onto the image")

	return cmd
}

func validateYear(year string) error {
	if year == "" {
		return nil
	}
	if len(year) != 4 || strings.Trim(year, "0123456789") != "" {
		return fmt.Errorf("%q is not a YYYY year", year)
	}
	return nil
}
