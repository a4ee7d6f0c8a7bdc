package audio

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/handiism/bandcamp-unzip/internal/model"
)

// playlistGenerator is written into the ZPL head.
const playlistGenerator = "bandcamp-unzip"

// PlaylistCreator renders a playlist for an extracted album.
//
// Only audio members are listed; the cover image and any liner notes in
// the archive are left out. Entries are bare file names, so the playlist
// must live in the album directory (see model.Album.PlaylistPath).
//
// Example:
//
//	creator := NewPlaylistCreator(model.PlaylistFormatM3U, true)
//	content := creator.CreatePlaylist(album)
//	// #EXTM3U
//	// #EXTINF:-1,Band - Hit
//	// 03_-Hit.mp3
type PlaylistCreator struct {
	format   model.PlaylistFormat
	extended bool // M3U only: emit #EXTM3U and #EXTINF lines
}

// NewPlaylistCreator creates a new PlaylistCreator. extended is ignored for
// formats other than M3U.
func NewPlaylistCreator(format model.PlaylistFormat, extended bool) *PlaylistCreator {
	return &PlaylistCreator{
		format:   format,
		extended: extended,
	}
}

// Format returns the format the creator writes.
func (p *PlaylistCreator) Format() model.PlaylistFormat {
	return p.format
}

// FileName returns the playlist path for album, extension included.
func (p *PlaylistCreator) FileName(album *model.Album) string {
	return album.PlaylistPath + p.format.Extension()
}

// CreatePlaylist renders the playlist content for album.
func (p *PlaylistCreator) CreatePlaylist(album *model.Album) string {
	tracks := album.AudioTracks()

	switch p.format {
	case model.PlaylistFormatPLS:
		return createPLS(tracks)
	case model.PlaylistFormatWPL:
		return createSMIL(album, tracks, false)
	case model.PlaylistFormatZPL:
		return createSMIL(album, tracks, true)
	default:
		return p.createM3U(album, tracks)
	}
}

// createM3U renders an M3U playlist. Unknown durations are written as -1,
// which players read as "length not known".
func (p *PlaylistCreator) createM3U(album *model.Album, tracks []*model.Track) string {
	var sb strings.Builder

	if p.extended {
		sb.WriteString("#EXTM3U\n")
	}
	for _, track := range tracks {
		if p.extended {
			fmt.Fprintf(&sb, "#EXTINF:%d,%s - %s\n", seconds(track), album.Artist, displayTitle(track))
		}
		sb.WriteString(filepath.Base(track.Path) + "\n")
	}
	return sb.String()
}

// createPLS renders an INI-style PLS playlist.
func createPLS(tracks []*model.Track) string {
	var sb strings.Builder

	sb.WriteString("[playlist]\n")
	for i, track := range tracks {
		n := i + 1
		fmt.Fprintf(&sb, "File%d=%s\n", n, filepath.Base(track.Path))
		fmt.Fprintf(&sb, "Title%d=%s\n", n, displayTitle(track))
		fmt.Fprintf(&sb, "Length%d=%d\n", n, seconds(track))
	}
	fmt.Fprintf(&sb, "NumberOfEntries=%d\n", len(tracks))
	sb.WriteString("Version=2\n")
	return sb.String()
}

// createSMIL renders the SMIL body shared by WPL and ZPL. ZPL carries a
// couple of extra head entries and per-track metadata attributes.
func createSMIL(album *model.Album, tracks []*model.Track, zune bool) string {
	var sb strings.Builder

	if zune {
		sb.WriteString("<?zpl version=\"2.0\"?>\n")
	} else {
		sb.WriteString("<?wpl version=\"1.0\"?>\n")
	}
	sb.WriteString("<smil>\n  <head>\n")
	fmt.Fprintf(&sb, "    <title>%s</title>\n", escapeXML(album.Title))
	if zune {
		fmt.Fprintf(&sb, "    <meta name=\"Generator\" content=\"%s\"/>\n", playlistGenerator)
		fmt.Fprintf(&sb, "    <meta name=\"ItemCount\" content=\"%d\"/>\n", len(tracks))
	}
	sb.WriteString("  </head>\n  <body>\n    <seq>\n")

	for _, track := range tracks {
		src := escapeXML(filepath.Base(track.Path))
		if !zune {
			fmt.Fprintf(&sb, "      <media src=\"%s\"/>\n", src)
			continue
		}
		fmt.Fprintf(&sb, "      <media src=\"%s\" albumTitle=\"%s\" albumArtist=\"%s\" trackTitle=\"%s\" trackArtist=\"%s\" duration=\"%d\"/>\n",
			src,
			escapeXML(album.Title),
			escapeXML(album.Artist),
			escapeXML(displayTitle(track)),
			escapeXML(album.Artist),
			int64(track.Duration*1000))
	}

	sb.WriteString("    </seq>\n  </body>\n</smil>\n")
	return sb.String()
}

// seconds returns the whole track length, or -1 when it is not known.
func seconds(track *model.Track) int {
	if track.Duration <= 0 {
		return -1
	}
	return int(track.Duration)
}

// displayTitle falls back to the file name for members without a title.
func displayTitle(track *model.Track) string {
	if track.Title != "" {
		return track.Title
	}
	return strings.TrimSuffix(track.FileName, filepath.Ext(track.FileName))
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
