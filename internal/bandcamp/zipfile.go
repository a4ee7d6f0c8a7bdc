package bandcamp

import (
	"fmt"
	"path/filepath"
	"strings"

	ioutils "github.com/handiism/bandcamp-unzip/internal/io"
	"github.com/handiism/bandcamp-unzip/internal/model"
)

// ZipFile is a Bandcamp download archive.
//
// The archive file name carries the artist and album; ZipFile parses it on
// construction and extracts members into <root>/<Artist>/<Album>/ with
// normalized names.
//
// Example usage:
//
//	zf, err := bandcamp.Open("zip/Band - Best Of.zip")
//	if err != nil {
//	    return err // InvalidArchiveNameError for badly named files
//	}
//	defer zf.Close()
//
//	if err := zf.ExtractAll("music"); err != nil {
//	    return err
//	}
//	// music/Band/Best_Of/03_-Hit.mp3
//
// A ZipFile must not be used from more than one goroutine at a time.
type ZipFile struct {
	// Filename is the path the archive was opened from.
	Filename string

	// Stem is the base file name without extension.
	Stem string

	// Artist is the title-cased artist parsed from Stem.
	Artist string

	// Album is the title-cased album parsed from Stem.
	Album string

	archive Archive
}

// Open validates the archive name and opens the zip file at path.
//
// Returns an *InvalidArchiveNameError before touching the file when the
// name does not follow the Bandcamp convention.
func Open(path string) (*ZipFile, error) {
	zf, err := parseName(path)
	if err != nil {
		return nil, err
	}

	archive, err := OpenZip(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	zf.archive = archive
	return zf, nil
}

// New builds a ZipFile named filename over an already opened archive.
// The ZipFile takes ownership of archive and closes it in Close.
func New(filename string, archive Archive) (*ZipFile, error) {
	zf, err := parseName(filename)
	if err != nil {
		return nil, err
	}
	zf.archive = archive
	return zf, nil
}

func parseName(filename string) (*ZipFile, error) {
	stem := Stem(filename)
	artist, album, ok := ParseStem(stem)
	if !ok {
		return nil, &InvalidArchiveNameError{Filename: filename}
	}
	return &ZipFile{
		Filename: filename,
		Stem:     stem,
		Artist:   artist,
		Album:    album,
	}, nil
}

// Names returns the member names in archive order.
func (z *ZipFile) Names() []string {
	return z.archive.Names()
}

// Size returns the total uncompressed size of the members.
func (z *ZipFile) Size() int64 {
	return z.archive.Size()
}

// MemberName returns the on-disk file name for a raw member name.
func (z *ZipFile) MemberName(member string) string {
	return MemberName(z.Stem, member)
}

// TargetDir returns root/<Artist>/<Album> with both components normalized.
func (z *ZipFile) TargetDir(root string) string {
	return filepath.Join(root, DirName(z.Artist), DirName(z.Album))
}

// Layout describes where ExtractAll puts every member, without doing any I/O.
func (z *ZipFile) Layout(root string) *model.Album {
	dir := z.TargetDir(root)
	album := model.NewAlbum(z.Artist, z.Album, z.Stem, dir)
	for _, member := range z.Names() {
		if isDirEntry(member) {
			continue
		}
		number, title := ParseTrack(z.Stem, member)
		album.AddTrack(model.NewTrack(member, z.MemberName(member), dir, number, title))
	}
	return album
}

// ExtractAll extracts every member into TargetDir(root).
//
// The target directory and its parents are created when missing; an
// existing directory is reused, so running ExtractAll twice is fine and
// simply overwrites the files. Each member is streamed into a temporary
// file inside the target directory and then renamed to its normalized
// name. Directory entries are skipped.
//
// The first failure aborts the extraction. Members extracted before the
// failure stay on disk.
func (z *ZipFile) ExtractAll(root string) error {
	dir := z.TargetDir(root)
	if err := ioutils.EnsureDir(dir); err != nil {
		return fmt.Errorf("create album directory: %w", err)
	}

	for _, member := range z.Names() {
		if isDirEntry(member) {
			continue
		}
		if err := z.extract(member, dir); err != nil {
			return err
		}
	}
	return nil
}

func (z *ZipFile) extract(member, dir string) error {
	rc, err := z.archive.Open(member)
	if err != nil {
		return fmt.Errorf("open member %q: %w", member, err)
	}
	defer rc.Close()

	if _, err := ioutils.WriteFromReader(dir, z.MemberName(member), rc); err != nil {
		return fmt.Errorf("extract member %q: %w", member, err)
	}
	return nil
}

// Close releases the underlying archive.
func (z *ZipFile) Close() error {
	if z.archive == nil {
		return nil
	}
	return z.archive.Close()
}

func (z *ZipFile) String() string {
	return fmt.Sprintf("Filename: %s\nStem: %s\nArtist: %s\nAlbum: %s", z.Filename, z.Stem, z.Artist, z.Album)
}

func isDirEntry(member string) bool {
	return strings.HasSuffix(member, "/")
}
