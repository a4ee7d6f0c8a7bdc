package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/handiism/bandcamp-unzip/internal/config"
	"github.com/handiism/bandcamp-unzip/internal/extract"
	"github.com/handiism/bandcamp-unzip/internal/logging"
)

var version = "dev"

// batchError reports archives that failed while the batch itself ran to
// the end.
type batchError struct {
	failed int
	total  int
}

func (e *batchError) Error() string {
	return fmt.Sprintf("%d of %d archive(s) failed", e.failed, e.total)
}

type options struct {
	configPath     string
	source         string
	dest           string
	recursive      bool
	jobs           int
	logFile        string
	logLevel       string
	playlist       bool
	playlistFormat string
	tag            bool
	dryRun         bool
}

func newRootCommand() *cobra.Command {
	var opts options

	rootCmd := &cobra.Command{
		Use:   "bandcamp-unzip",
		Short: "Extract Bandcamp album downloads into an Artist/Album tree",
		Long: `bandcamp-unzip - extract Bandcamp album downloads

Every "Artist - Album.zip" in the source directory is extracted into
<dest>/Artist/Album/ with whitespace-free, title-cased file names:

  zip/Band - Best Of.zip  ->  music/Band/Best_Of/03_-Hit.mp3

Badly named archives are reported and skipped.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings(opts, cmd.Flags())
			if err != nil {
				return err
			}
			return run(cmd.Context(), cmd.OutOrStdout(), settings, opts.dryRun)
		},
	}

	flags := rootCmd.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "Settings file (.json or .toml)")
	flags.StringVarP(&opts.source, "source", "s", "", `Directory with the downloaded zip files (default "zip")`)
	flags.StringVarP(&opts.dest, "dest", "d", "", `Destination music directory (default "music")`)
	flags.BoolVarP(&opts.recursive, "recursive", "r", false, "Also look for archives in subdirectories")
	flags.IntVarP(&opts.jobs, "jobs", "j", 1, "Number of archives extracted at the same time")
	flags.StringVar(&opts.logFile, "log-file", "", `Log file, empty string disables it (default "bandcamp-extract.log")`)
	flags.StringVar(&opts.logLevel, "log-level", "", `Log level: debug, info, warn, error (default "info")`)
	flags.BoolVar(&opts.playlist, "playlist", false, "Write a playlist into every album directory")
	flags.StringVar(&opts.playlistFormat, "playlist-format", "", `Playlist format: m3u, pls, wpl, zpl (default "m3u")`)
	flags.BoolVar(&opts.tag, "tag", false, "Rewrite artist, album and track number ID3 tags")
	flags.BoolVar(&opts.dryRun, "dry-run", false, "Show where every member would go without extracting")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("bandcamp-unzip {{.Version}}\n")

	return rootCmd
}

// loadSettings reads the settings file, if any, and lets explicitly set
// flags override it.
func loadSettings(opts options, flags *pflag.FlagSet) (*config.Settings, error) {
	settings := config.DefaultSettings()
	if opts.configPath != "" {
		var err error
		settings, err = config.Load(opts.configPath)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
	}

	if flags.Changed("source") {
		settings.SourcePath = opts.source
	}
	if flags.Changed("dest") {
		settings.DestinationPath = opts.dest
	}
	if flags.Changed("recursive") {
		settings.Recursive = opts.recursive
	}
	if flags.Changed("jobs") {
		settings.MaxConcurrentArchives = opts.jobs
	}
	if flags.Changed("log-file") {
		settings.LogFile = opts.logFile
	}
	if flags.Changed("log-level") {
		settings.LogLevel = opts.logLevel
	}
	if flags.Changed("playlist") {
		settings.CreatePlaylist = opts.playlist
	}
	if flags.Changed("playlist-format") {
		settings.PlaylistFormat = opts.playlistFormat
	}
	if flags.Changed("tag") {
		settings.ModifyTags = opts.tag
	}

	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	return settings, nil
}

func run(ctx context.Context, out io.Writer, settings *config.Settings, dryRun bool) error {
	logOpts := logging.Options{
		File:    settings.LogFile,
		Level:   settings.LogLevel,
		Console: out,
	}
	if dryRun {
		logOpts.File = ""
	}
	logger, closeLog, err := logging.New(logOpts)
	if err != nil {
		return err
	}
	defer closeLog()

	manager := extract.NewManager(settings, logger, func(event extract.ProgressEvent) {
		event.Log(logger)
	})
	if err := manager.Initialize(ctx); err != nil {
		return err
	}

	if dryRun {
		fmt.Fprintln(out, renderPlan(manager.Plan(ctx)))
		return ctx.Err()
	}

	err = manager.StartExtractions(ctx)
	results := manager.Results()
	if len(results) > 0 {
		fmt.Fprintln(out, renderSummary(results))
	}
	if err != nil {
		return err
	}

	if failed := manager.Failed(); failed > 0 {
		return &batchError{failed: failed, total: len(results)}
	}
	return nil
}
