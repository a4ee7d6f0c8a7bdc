package bandcamp

import (
	"path"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Separator splits artist, album and track title in Bandcamp file names.
const Separator = " - "

// trackSeparator is inserted between a leading track number and the title.
const trackSeparator = "_-"

// trackPrefix matches "NN", "NN title", "NN - title" at the start of a
// prefix-stripped member stem.
var trackPrefix = regexp.MustCompile(`^(\d\d)(?:\s*-\s*|\s+|$)`)

// ParseStem splits an archive stem into artist and album.
//
// Bandcamp names downloads "Artist - Album.zip". Compilations and some
// self-titled releases come out as "Artist - Artist - Album.zip"; the
// duplicated artist is accepted and dropped. Any other shape is rejected.
//
// The returned names are title-cased but otherwise untouched (spaces are
// kept); see Normalize for the on-disk form.
//
// Example:
//
//	ParseStem("Riot City - Riot City - Burn The Night") // "Riot City", "Burn The Night", true
//	ParseStem("A - B - C")                              // "", "", false
func ParseStem(stem string) (artist, album string, ok bool) {
	parts := strings.Split(stem, Separator)
	switch {
	case len(parts) == 2:
		return TitleCase(parts[0]), TitleCase(parts[1]), true
	case len(parts) == 3 && parts[0] == parts[1]:
		return TitleCase(parts[0]), TitleCase(parts[2]), true
	default:
		return "", "", false
	}
}

// Stem returns the base name of an archive path without its extension.
func Stem(archivePath string) string {
	base := filepath.Base(archivePath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Normalize trims surrounding whitespace and collapses every inner
// whitespace run into a single underscore.
//
//	Normalize("  a  b ") // "a_b"
func Normalize(s string) string {
	return strings.Join(strings.Fields(s), "_")
}

// StartsWithTwoDigits reports whether the first two bytes of s are ASCII
// decimal digits.
//
//	StartsWithTwoDigits("05 Song") // true
//	StartsWithTwoDigits("5 Song")  // false
func StartsWithTwoDigits(s string) bool {
	return len(s) >= 2 && isDigit(s[0]) && isDigit(s[1])
}

// TitleCase upper-cases the first letter of each word and lower-cases the rest.
func TitleCase(s string) string {
	// A Caser keeps state between calls, so one is built per call to stay
	// safe for concurrent extractions.
	return cases.Title(language.Und).String(s)
}

// DirName is the on-disk form of an artist or album name.
func DirName(name string) string {
	return Normalize(TitleCase(name))
}

// MemberName computes the on-disk file name of an archive member.
//
// The member's directory part is discarded, the "<stem> - " prefix Bandcamp
// puts on every track is removed, the rest is title-cased, the original
// extension is put back, whitespace is normalized, and a leading track
// number is separated from the title with "_-":
//
//	MemberName("Artist - Album", "Artist - Album - 01 Song Title.mp3") // "01_-Song_Title.mp3"
//	MemberName("Artist - Album", "cover.jpg")                          // "Cover.jpg"
func MemberName(stem, member string) string {
	base, ext := splitMember(member)
	name := TitleCase(strings.TrimPrefix(base, stem+Separator)) + ext
	return separateTrackNumber(Normalize(name))
}

// ParseTrack returns the track number and display title encoded in a
// member name. Number is 0 when the member has no two-digit prefix.
//
//	ParseTrack("Band - Best Of", "Band - Best Of - 03 Hit.mp3") // 3, "Hit"
func ParseTrack(stem, member string) (number int, title string) {
	base, _ := splitMember(member)
	base = strings.TrimSpace(strings.TrimPrefix(base, stem+Separator))

	if m := trackPrefix.FindStringSubmatch(base); m != nil {
		number, _ = strconv.Atoi(m[1])
		base = base[len(m[0]):]
	}
	return number, TitleCase(strings.Join(strings.Fields(base), " "))
}

// splitMember returns the base name of a zip entry without extension, and
// the extension. Zip entries always use forward slashes.
func splitMember(member string) (base, ext string) {
	base = path.Base(member)
	ext = path.Ext(base)
	if ext == base {
		// dotfile such as ".nfo": no stem to speak of
		ext = ""
	}
	return strings.TrimSuffix(base, ext), ext
}

// separateTrackNumber inserts "_-" after a leading two-digit track number.
// The underscore left by normalizing "01 Title" is folded into the
// separator, and names already separated are returned unchanged.
func separateTrackNumber(name string) string {
	if !StartsWithTwoDigits(name) {
		return name
	}
	rest := strings.TrimPrefix(name[2:], "_")
	if strings.HasPrefix(rest, "-") {
		return name
	}
	return name[:2] + trackSeparator + rest
}

func isDigit(b byte) bool {
	return '0' <= b && b <= '9'
}
