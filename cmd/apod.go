package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/nasa-wallpaper/nasa-wallpaper/internal/nasa"
	"github.com/nasa-wallpaper/nasa-wallpaper/internal/overlay"
	"github.com/spf13/cobra"
)

func newAPODCmd(a *app) *cobra.Command {
	var date string
	var low bool
	var withOverlay bool

	cmd := &cobra.Command{
		Use:   "apod",
		Short: "Use the Astronomy Picture of the Day",
		Long: `Downloads the APOD (Astronomy Picture of the Day) and sets it as the wallpaper.

The HD image is used unless --low is given. Days whose APOD is a video
print a link to the content instead of changing the wallpaper.

Get your own API key at https://api.nasa.gov; DEMO_KEY is rate limited.`,
		Example: `  # Today's picture
  nasa-wallpaper apod

  # A specific day, with the title and explanation drawn on the image
  nasa-wallpaper apod --date 2024-04-08 --overlay`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			day := date
			if day == "" {
				day = nasa.TodayEastern(time.Now())
			} else if _, err := time.Parse(nasa.DateLayout, day); err != nil {
				return fmt.Errorf("invalid --date %q: expected YYYY-MM-DD", day)
			}

			apod, err := a.client.APOD(cmd.Context(), day)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, apod)

			imageURL, err := apod.ImageURL(!low)
			if errors.Is(err, nasa.ErrNotImage) {
				fmt.Fprintf(out, "The date you have chosen for the APOD has no image. If you want, you can see the content in: %s\n", apod.URL)
				return nil
			}
			if err != nil {
				return err
			}

			var caption *overlay.Caption
			if withOverlay {
				caption = &overlay.Caption{Title: apod.Title, Body: apod.Explanation}
			}
			return a.apply(cmd.Context(), out, imageURL, caption)
		},
	}

	cmd.Flags().StringVarP(&date, "date", "d", "", "Download the APOD from another date than today (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&a.flags.APIKey, "key", "k", "", "NASA API key (default: $NASA_API_KEY or DEMO_KEY)")
	cmd.Flags().BoolVarP(&low, "low", "l", false, "Use the low definition image; faster than the HD photo")
	cmd.Flags().BoolVar(&withOverlay, "overlay", false, "Draw the title and explanation onto the image")

	return cmd
}
