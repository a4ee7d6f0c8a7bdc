package audio

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/bogem/id3v2"
	"github.com/handiism/bandcamp-unzip/internal/model"
)

// TagEditAction defines how to handle individual ID3 tags.
//
// Each tag field can be configured independently to determine whether
// it should be modified, cleared, or left unchanged.
type TagEditAction int

const (
	// TagEmpty clears the tag value.
	TagEmpty TagEditAction = iota

	// TagModify rewrites the tag from the archive and member names.
	TagModify

	// TagDoNotModify leaves the existing tag value unchanged.
	TagDoNotModify
)

// TagConfig holds tagging configuration for each ID3 field.
//
// Bandcamp already tags the files it ships, so by default only the
// fields derived from the archive name are rewritten and everything else
// is left alone.
type TagConfig struct {
	// Artist controls the TPE1 (Lead artist) frame.
	Artist TagEditAction

	// AlbumArtist controls the TPE2 (Album artist) frame.
	AlbumArtist TagEditAction

	// Album controls the TALB (Album title) frame.
	Album TagEditAction

	// TrackNumber controls the TRCK (Track number) frame.
	TrackNumber TagEditAction

	// TrackTitle controls the TIT2 (Title) frame.
	TrackTitle TagEditAction

	// Comments controls the COMM (Comments) frame.
	Comments TagEditAction
}

// DefaultTagConfig returns the default tag configuration.
func DefaultTagConfig() *TagConfig {
	return &TagConfig{
		Artist:      TagModify,
		AlbumArtist: TagModify,
		Album:       TagModify,
		TrackNumber: TagModify,
		TrackTitle:  TagDoNotModify,
		Comments:    TagDoNotModify,
	}
}

// KeepTagConfig leaves every text frame alone. Used when only cover art
// is embedded.
func KeepTagConfig() *TagConfig {
	return &TagConfig{
		Artist:      TagDoNotModify,
		AlbumArtist: TagDoNotModify,
		Album:       TagDoNotModify,
		TrackNumber: TagDoNotModify,
		TrackTitle:  TagDoNotModify,
		Comments:    TagDoNotModify,
	}
}

// Tagger writes ID3 tags to extracted MP3 files.
//
// Example:
//
//	tagger := NewTagger(DefaultTagConfig())
//	for _, track := range album.AudioTracks() {
//	    if err := tagger.SaveTags(track, album, cover); err != nil {
//	        log.Printf("Failed to tag %s: %v", track.Path, err)
//	    }
//	}
type Tagger struct {
	config *TagConfig
}

// NewTagger creates a new Tagger with the given configuration.
//
// If config is nil, DefaultTagConfig() is used.
func NewTagger(config *TagConfig) *Tagger {
	if config == nil {
		config = DefaultTagConfig()
	}
	return &Tagger{config: config}
}

// SaveTags writes ID3 tags to the track's file.
//
// Non-MP3 tracks are skipped without error. When artwork is non-nil it
// replaces any embedded front cover.
func (t *Tagger) SaveTags(track *model.Track, album *model.Album, artwork []byte) error {
	if !track.IsMP3() {
		return nil
	}

	tag, err := id3v2.Open(track.Path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("open tags: %w", err)
	}
	defer tag.Close()

	t.updateStringTags(tag, track, album)

	if artwork != nil {
		updateArtwork(tag, artwork)
	}

	return tag.Save()
}

// updateStringTags updates text-based ID3 frames based on configuration.
func (t *Tagger) updateStringTags(tag *id3v2.Tag, track *model.Track, album *model.Album) {
	tag.SetDefaultEncoding(id3v2.EncodingUTF8)

	// Artist (TPE1)
	switch t.config.Artist {
	case TagEmpty:
		tag.SetArtist("")
	case TagModify:
		tag.SetArtist(album.Artist)
	}

	// Album Artist (TPE2)
	switch t.config.AlbumArtist {
	case TagEmpty:
		tag.DeleteFrames("TPE2")
	case TagModify:
		tag.AddTextFrame("TPE2", id3v2.EncodingUTF8, album.Artist)
	}

	// Album (TALB)
	switch t.config.Album {
	case TagEmpty:
		tag.SetAlbum("")
	case TagModify:
		tag.SetAlbum(album.Title)
	}

	// Track Number (TRCK); unnumbered members keep whatever they had
	switch t.config.TrackNumber {
	case TagEmpty:
		tag.DeleteFrames("TRCK")
	case TagModify:
		if track.Number > 0 {
			tag.AddTextFrame("TRCK", id3v2.EncodingUTF8, strconv.Itoa(track.Number))
		}
	}

	// Track Title (TIT2)
	switch t.config.TrackTitle {
	case TagEmpty:
		tag.SetTitle("")
	case TagModify:
		if track.Title != "" {
			tag.SetTitle(track.Title)
		}
	}

	// Comments (COMM)
	if t.config.Comments == TagEmpty {
		tag.DeleteFrames(tag.CommonID("Comments"))
	}
}

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

// updateArtwork embeds cover art as an attached picture frame.
func updateArtwork(tag *id3v2.Tag, artwork []byte) {
	tag.DeleteFrames(tag.CommonID("Attached picture"))

	mime := "image/jpeg"
	if bytes.HasPrefix(artwork, pngMagic) {
		mime = "image/png"
	}

	pic := id3v2.PictureFrame{
		Encoding:    id3v2.EncodingUTF8,
		MimeType:    mime,
		PictureType: id3v2.PTFrontCover,
		Description: "Cover",
		Picture:     artwork,
	}
	tag.AddAttachedPicture(pic)
}

// ReadDuration returns the track length in seconds from the TLEN frame.
//
// Returns 0 without error when the file has no tag or no TLEN frame;
// Bandcamp MP3s usually omit it.
func ReadDuration(path string) (float64, error) {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return 0, err
	}
	defer tag.Close()

	text := strings.TrimSpace(tag.GetTextFrame("TLEN").Text)
	if text == "" {
		return 0, nil
	}

	ms, err := strconv.Atoi(text)
	if err != nil {
		return 0, fmt.Errorf("parse TLEN %q: %w", text, err)
	}
	return float64(ms) / 1000, nil
}
