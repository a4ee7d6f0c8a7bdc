package model

import (
	"path/filepath"
	"strings"
)

var audioExtensions = map[string]bool{
	".mp3":  true,
	".flac": true,
	".ogg":  true,
	".m4a":  true,
	".aac":  true,
	".wav":  true,
	".aiff": true,
	".alac": true,
	".opus": true,
}

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

// Track represents a single member of a Bandcamp archive.
//
// Despite the name, a Track may also be the cover image or a text file;
// use IsAudio to tell them apart.
//
// Example:
//
//	track := NewTrack("Band - Best Of - 03 Hit.mp3", "03_-Hit.mp3", album.Path, 3, "Hit")
//	// track.Path = "/music/Band/Best_Of/03_-Hit.mp3"
type Track struct {
	// Album is a reference to the parent album. Set by Album.AddTrack.
	Album *Album

	// Member is the raw entry name inside the archive.
	Member string

	// FileName is the normalized name the member is extracted to.
	FileName string

	// Path is the full path of the extracted file.
	Path string

	// Number is the track number parsed from the member name, 0 if absent.
	Number int

	// Title is the human readable track title (spaces, no number prefix).
	Title string

	// Duration is the track length in seconds, 0 when unknown.
	Duration float64
}

// NewTrack creates a Track extracted to dir/fileName.
func NewTrack(member, fileName, dir string, number int, title string) *Track {
	return &Track{
		Member:   member,
		FileName: fileName,
		Path:     filepath.Join(dir, fileName),
		Number:   number,
		Title:    title,
	}
}

// Ext returns the lower-cased extension of the extracted file.
func (t *Track) Ext() string {
	return strings.ToLower(filepath.Ext(t.FileName))
}

// IsAudio reports whether the member is an audio file.
func (t *Track) IsAudio() bool {
	return audioExtensions[t.Ext()]
}

// IsMP3 reports whether the member can carry ID3v2 tags.
func (t *Track) IsMP3() bool {
	return t.Ext() == ".mp3"
}

// IsCoverArt reports whether the member is Bandcamp's cover image
// (cover.jpg, cover.png, ...).
func (t *Track) IsCoverArt() bool {
	if !imageExtensions[t.Ext()] {
		return false
	}
	stem := strings.TrimSuffix(t.FileName, filepath.Ext(t.FileName))
	return strings.EqualFold(stem, "cover")
}
