package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/joho/godotenv"
	"github.com/nasa-wallpaper/nasa-wallpaper/internal/config"
	"github.com/nasa-wallpaper/nasa-wallpaper/internal/images"
	"github.com/nasa-wallpaper/nasa-wallpaper/internal/nasa"
	"github.com/nasa-wallpaper/nasa-wallpaper/internal/overlay"
	"github.com/nasa-wallpaper/nasa-wallpaper/internal/wallpaper"
	"github.com/spf13/cobra"
)

// app is what every subcommand shares once flags and configuration are resolved.
type app struct {
	configPath string
	verbose    bool
	noSet      bool
	flags      config.Config

	cfg        *config.Config
	client     *nasa.Client
	fetcher    *images.Fetcher
	compositor *overlay.Compositor
	setter     wallpaper.Setter
}

func NewRootCmd() *cobra.Command {
	return newRootCmd(wallpaper.System{})
}

func newRootCmd(setter wallpaper.Setter) *cobra.Command {
	a := &app{setter: setter}

	cmd := &cobra.Command{
		Use:   "nasa-wallpaper",
		Short: "Change the desktop wallpaper with NASA photographs",
		Long: `nasa-wallpaper changes the desktop wallpaper with NASA photographs.

It can use the Astronomy Picture of the Day or a random image from the
NASA Image and Video Library (https://images.nasa.gov). When a search
matches more than one photo, a random one is chosen.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
			setupLogging(cmd.ErrOrStderr(), a.verbose)
			return a.init()
		},
	}

	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Config file (default: "+config.DefaultPath()+")")
	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Verbose logging")
	cmd.PersistentFlags().BoolVar(&a.noSet, "no-set", false, "Save the image and print its path without changing the wallpaper")
	cmd.PersistentFlags().StringVar(&a.flags.OutputDir, "output-dir", "", "Directory for downloaded wallpapers")
	cmd.PersistentFlags().StringVar(&a.flags.Timeout, "timeout", "", "Timeout for each network request (e.g. 30s)")

	cmd.AddCommand(newAPODCmd(a))
	cmd.AddCommand(newSearchCmd(a))
	cmd.AddCommand(newLicenseCmd())

	return cmd
}

func setupLogging(w io.Writer, verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

func (a *app) init() error {
	path, required := a.configPath, true
	if path == "" {
		path, required = config.DefaultPath(), false
	}

	cfg, err := config.Load(path, required)
	if err != nil {
		return err
	}
	if err := cfg.Finalize(&a.flags); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	slog.Debug("Configuration loaded", "path", path, "output_dir", cfg.OutputDir, "timeout", cfg.TimeoutDuration())

	// The caption font ships inside the binary; failing to parse it is a packaging defect.
	compositor, err := overlay.New(cfg.JPEGQuality)
	if err != nil {
		return err
	}

	client := nasa.NewClient(cfg.APIKey, &http.Client{Timeout: cfg.TimeoutDuration()})
	client.APODURL = cfg.APODURL
	client.SearchURL = cfg.SearchURL

	a.cfg = cfg
	a.client = client
	a.fetcher = images.NewFetcher(cfg.TimeoutDuration(), cfg.MaxDownloadBytes())
	a.compositor = compositor
	return nil
}
