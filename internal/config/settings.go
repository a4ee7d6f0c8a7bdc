package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	ioutils "github.com/handiism/bandcamp-unzip/internal/io"
	"github.com/handiism/bandcamp-unzip/internal/logging"
	"github.com/handiism/bandcamp-unzip/internal/model"
)

// Settings holds all configuration options.
type Settings struct {
	// Locations
	SourcePath      string `json:"source_path" toml:"source_path"`
	DestinationPath string `json:"destination_path" toml:"destination_path"`
	Recursive       bool   `json:"recursive" toml:"recursive"`

	// Logging
	LogFile  string `json:"log_file" toml:"log_file"`
	LogLevel string `json:"log_level" toml:"log_level"` // debug, info, warn, error

	// Batch behavior
	MaxConcurrentArchives int  `json:"max_concurrent_archives" toml:"max_concurrent_archives"`
	LockDestination       bool `json:"lock_destination" toml:"lock_destination"`

	// Tag settings
	ModifyTags bool `json:"modify_tags" toml:"modify_tags"`

	// Cover art settings
	SaveCoverArtInTags   bool `json:"save_cover_art_in_tags" toml:"save_cover_art_in_tags"`
	CoverArtResize       bool `json:"cover_art_resize" toml:"cover_art_resize"`
	CoverArtMaxSize      int  `json:"cover_art_max_size" toml:"cover_art_max_size"`
	ConvertCoverArtToJPG bool `json:"convert_cover_art_to_jpg" toml:"convert_cover_art_to_jpg"`

	// Playlist settings
	CreatePlaylist bool   `json:"create_playlist" toml:"create_playlist"`
	PlaylistFormat string `json:"playlist_format" toml:"playlist_format"` // m3u, pls, wpl, zpl
	M3UExtended    bool   `json:"m3u_extended" toml:"m3u_extended"`
}

// DefaultSettings returns settings with default values.
//
// The defaults reproduce a plain run in the download directory: archives
// from ./zip are extracted into ./music one at a time, and the files are
// otherwise left as Bandcamp shipped them.
func DefaultSettings() *Settings {
	return &Settings{
		SourcePath:      "zip",
		DestinationPath: "music",
		Recursive:       false,

		LogFile:  "bandcamp-extract.log",
		LogLevel: "info",

		MaxConcurrentArchives: 1,
		LockDestination:       true,

		ModifyTags: false,

		SaveCoverArtInTags:   false,
		CoverArtResize:       false,
		CoverArtMaxSize:      1000,
		ConvertCoverArtToJPG: false,

		CreatePlaylist: false,
		PlaylistFormat: "m3u",
		M3UExtended:    true,
	}
}

// Load reads settings from a file. Files ending in .toml are decoded as
// TOML, anything else as JSON. Fields missing from the file keep their
// default value, and a missing file yields DefaultSettings.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if isTOML(path) {
		err = toml.Unmarshal(data, settings)
	} else {
		err = json.Unmarshal(data, settings)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return settings, nil
}

// Save writes settings to a file, in TOML or JSON depending on the extension.
func (s *Settings) Save(path string) error {
	var (
		data []byte
		err  error
	)
	if isTOML(path) {
		data, err = toml.Marshal(s)
	} else {
		data, err = json.MarshalIndent(s, "", "  ")
	}
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := ioutils.EnsureDir(dir); err != nil {
		return err
	}
	return ioutils.WriteFile(dir, filepath.Base(path), data)
}

// Validate reports every setting that would make a run fail.
func (s *Settings) Validate() error {
	var errs []error

	if strings.TrimSpace(s.SourcePath) == "" {
		errs = append(errs, errors.New("source_path must not be empty"))
	}
	if strings.TrimSpace(s.DestinationPath) == "" {
		errs = append(errs, errors.New("destination_path must not be empty"))
	}
	if s.MaxConcurrentArchives < 1 {
		errs = append(errs, fmt.Errorf("max_concurrent_archives must be at least 1, got %d", s.MaxConcurrentArchives))
	}
	if _, ok := model.ParsePlaylistFormat(s.PlaylistFormat); !ok {
		errs = append(errs, fmt.Errorf("unknown playlist_format %q", s.PlaylistFormat))
	}
	if _, err := logging.ParseLevel(s.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if s.CoverArtResize && s.CoverArtMaxSize < 1 {
		errs = append(errs, fmt.Errorf("cover_art_max_size must be positive, got %d", s.CoverArtMaxSize))
	}

	return errors.Join(errs...)
}

// Playlist returns the configured playlist format, M3U when unknown.
func (s *Settings) Playlist() model.PlaylistFormat {
	pf, _ := model.ParsePlaylistFormat(s.PlaylistFormat)
	return pf
}

// CoverOptions converts the cover art settings for the image service.
func (s *Settings) CoverOptions() ioutils.CoverOptions {
	opts := ioutils.CoverOptions{ToJPEG: s.ConvertCoverArtToJPG}
	if s.CoverArtResize {
		opts.MaxSize = s.CoverArtMaxSize
	}
	return opts
}

// LockPath is the advisory lock file guarding the destination tree.
func (s *Settings) LockPath() string {
	return filepath.Join(s.DestinationPath, ".bandcamp-unzip.lock")
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}
