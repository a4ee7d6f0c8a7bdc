// Package config provides configuration management for bandcamp-unzip.
//
// This package handles:
//   - Loading and saving settings from JSON or TOML files
//   - Default configuration values
//   - Validation and conversion for the other packages
//
// # Default Settings
//
//	settings := config.DefaultSettings()
//	// Reads ./zip, extracts into ./music
//	// One archive at a time
//	// Tags, cover art and playlists left alone
//
// # Loading from File
//
//	settings, err := config.Load("bandcamp-unzip.toml")
//	if err != nil {
//	    // A missing file is not an error: defaults are returned
//	}
//	if err := settings.Validate(); err != nil {
//	    return err
//	}
//
// # Saving Settings
//
//	settings.DestinationPath = "/srv/music"
//	err := settings.Save("bandcamp-unzip.json")
package config
