package model

import (
	"path/filepath"
	"strings"
)

// Album represents a Bandcamp album laid out on disk after extraction.
//
// Album contains everything the post-processing steps need:
//   - Artist and Title parsed from the archive file name
//   - Stem, the archive file name without its extension
//   - Path, the normalized <root>/<Artist>/<Album> directory
//   - ArtworkPath, the extracted cover image (if the archive has one)
//
// Example:
//
//	album := NewAlbum("Riot City", "Burn The Night", "Riot City - Burn The Night",
//	    "/music/Riot_City/Burn_The_Night")
//	album.Tracks = append(album.Tracks, track)
type Album struct {
	// Artist is the title-cased album artist.
	Artist string

	// Title is the title-cased album title.
	Title string

	// Stem is the archive file name without extension, as found on disk.
	Stem string

	// Tracks contains every extracted member of the archive, audio or not,
	// in archive listing order.
	Tracks []*Track

	// Path is the directory the archive members are extracted into.
	Path string

	// ArtworkPath is the extracted cover image.
	// Empty if the archive carries no cover.
	ArtworkPath string

	// PlaylistPath is where a generated playlist is written, without extension.
	PlaylistPath string
}

// NewAlbum creates a new Album rooted at path.
func NewAlbum(artist, title, stem, path string) *Album {
	return &Album{
		Artist:       artist,
		Title:        title,
		Stem:         stem,
		Path:         path,
		PlaylistPath: filepath.Join(path, filepath.Base(path)),
	}
}

// HasArtwork returns true if a cover image was found among the members.
func (a *Album) HasArtwork() bool {
	return a.ArtworkPath != ""
}

// AudioTracks returns the tracks that are audio files, in listing order.
func (a *Album) AudioTracks() []*Track {
	var tracks []*Track
	for _, t := range a.Tracks {
		if t.IsAudio() {
			tracks = append(tracks, t)
		}
	}
	return tracks
}

// AddTrack appends a track and picks it up as artwork when it is a cover image.
func (a *Album) AddTrack(t *Track) {
	t.Album = a
	a.Tracks = append(a.Tracks, t)
	if a.ArtworkPath == "" && t.IsCoverArt() {
		a.ArtworkPath = t.Path
	}
}

// PlaylistFormat represents supported playlist file formats.
type PlaylistFormat int

const (
	// PlaylistFormatM3U creates .m3u playlist files (most widely supported).
	PlaylistFormatM3U PlaylistFormat = iota

	// PlaylistFormatPLS creates .pls playlist files (used by Winamp).
	PlaylistFormatPLS

	// PlaylistFormatWPL creates .wpl playlist files (Windows Media Player).
	PlaylistFormatWPL

	// PlaylistFormatZPL creates .zpl playlist files (Zune Media Player).
	PlaylistFormatZPL
)

// ParsePlaylistFormat maps a settings value (m3u, pls, wpl, zpl) to a
// PlaylistFormat. The second result is false for unknown names.
func ParsePlaylistFormat(name string) (PlaylistFormat, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "m3u":
		return PlaylistFormatM3U, true
	case "pls":
		return PlaylistFormatPLS, true
	case "wpl":
		return PlaylistFormatWPL, true
	case "zpl":
		return PlaylistFormatZPL, true
	default:
		return PlaylistFormatM3U, false
	}
}

// Extension returns the file extension for the playlist format, including the dot.
func (pf PlaylistFormat) Extension() string {
	switch pf {
	case PlaylistFormatM3U:
		return ".m3u"
	case PlaylistFormatPLS:
		return ".pls"
	case PlaylistFormatWPL:
		return ".wpl"
	case PlaylistFormatZPL:
		return ".zpl"
	default:
		return ".m3u"
	}
}
