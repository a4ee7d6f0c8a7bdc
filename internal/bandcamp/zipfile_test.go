package bandcamp

import (
	"archive/zip"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type member struct {
	name    string
	content string
}

func writeZip(t *testing.T, dir, name string, members ...member) string {
	t.Helper()

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := zip.NewWriter(f)
	for _, m := range members {
		fw, err := w.Create(m.name)
		require.NoError(t, err)
		if !strings.HasSuffix(m.name, "/") {
			_, err = fw.Write([]byte(m.content))
			require.NoError(t, err)
		}
	}
	require.NoError(t, w.Close())
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

// fakeArchive serves members from memory and can fail on chosen names.
type fakeArchive struct {
	names  []string
	data   map[string]string
	broken map[string]bool
	closed bool
}

func (a *fakeArchive) Names() []string { return a.names }

func (a *fakeArchive) Open(name string) (io.ReadCloser, error) {
	if a.broken[name] {
		return io.NopCloser(io.MultiReader(strings.NewReader("partial"), errReader{})), nil
	}
	return io.NopCloser(strings.NewReader(a.data[name])), nil
}

func (a *fakeArchive) Size() int64 { return 0 }

func (a *fakeArchive) Close() error {
	a.closed = true
	return nil
}

type errReader struct{}

func (errReader) Read([]byte) (int, error) { return 0, errors.New("zip: checksum error") }

func TestOpen_ParsesName(t *testing.T) {
	dir := t.TempDir()
	path := writeZip(t, dir, "Riot City - Riot City - Burn The Night.zip")

	zf, err := Open(path)
	require.NoError(t, err)
	defer zf.Close()

	assert.Equal(t, path, zf.Filename)
	assert.Equal(t, "Riot City - Riot City - Burn The Night", zf.Stem)
	assert.Equal(t, "Riot City", zf.Artist)
	assert.Equal(t, "Burn The Night", zf.Album)
	assert.Equal(t, filepath.Join("music", "Riot_City", "Burn_The_Night"), zf.TargetDir("music"))
}

func TestOpen_InvalidName(t *testing.T) {
	// the file does not exist: the name is rejected before any I/O
	_, err := Open("/nowhere/A - B - C.zip")
	require.Error(t, err)

	assert.True(t, IsInvalidArchiveName(err))
	var nameErr *InvalidArchiveNameError
	require.ErrorAs(t, err, &nameErr)
	assert.Equal(t, "/nowhere/A - B - C.zip", nameErr.Filename)
	assert.Contains(t, err.Error(), "A - B - C.zip")
}

func TestOpen_NotAZip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Band - Best Of.zip")
	require.NoError(t, os.WriteFile(path, []byte("definitely not a zip"), 0o644))

	_, err := Open(path)
	require.Error(t, err)
	assert.False(t, IsInvalidArchiveName(err))
}

func TestExtractAll_EndToEnd(t *testing.T) {
	src := t.TempDir()
	dest := filepath.Join(t.TempDir(), "music")

	path := writeZip(t, src, "Band - Best Of.zip",
		member{"Band - Best Of - 03 Hit.mp3", "hit bytes"},
		member{"cover.jpg", "jpeg bytes"},
	)

	zf, err := Open(path)
	require.NoError(t, err)
	defer zf.Close()

	require.NoError(t, zf.ExtractAll(dest))

	assert.Equal(t, "hit bytes", readFile(t, filepath.Join(dest, "Band", "Best_Of", "03_-Hit.mp3")))
	assert.Equal(t, "jpeg bytes", readFile(t, filepath.Join(dest, "Band", "Best_Of", "Cover.jpg")))

	entries, err := os.ReadDir(filepath.Join(dest, "Band", "Best_Of"))
	require.NoError(t, err)
	assert.Len(t, entries, 2, "no temp files should be left behind")
}

func TestExtractAll_LongMemberName(t *testing.T) {
	src := t.TempDir()
	dest := t.TempDir()

	title := strings.Repeat("a", 240)
	path := writeZip(t, src, "Band - Best Of.zip",
		member{"Band - Best Of - 03 " + title + ".mp3", "long"},
	)

	zf, err := Open(path)
	require.NoError(t, err)
	defer zf.Close()

	want := "03_-A" + title[1:] + ".mp3"
	require.Len(t, want, 248)

	require.NoError(t, zf.ExtractAll(dest))
	assert.Equal(t, "long", readFile(t, filepath.Join(dest, "Band", "Best_Of", want)))
}

func TestExtractAll_TwiceIntoSameDestination(t *testing.T) {
	src := t.TempDir()
	dest := t.TempDir()

	path := writeZip(t, src, "Artist - Album.zip",
		member{"Artist - Album - 01 Song Title.mp3", "v1"},
	)

	zf, err := Open(path)
	require.NoError(t, err)
	defer zf.Close()

	require.NoError(t, zf.ExtractAll(dest))
	require.NoError(t, zf.ExtractAll(dest))

	assert.Equal(t, "v1", readFile(t, filepath.Join(dest, "Artist", "Album", "01_-Song_Title.mp3")))
}

func TestExtractAll_OverwritesExistingFile(t *testing.T) {
	dest := t.TempDir()
	target := filepath.Join(dest, "Artist", "Album")
	require.NoError(t, os.MkdirAll(target, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(target, "01_-Song.mp3"), []byte("stale"), 0o644))

	zf, err := New("Artist - Album.zip", &fakeArchive{
		names: []string{"Artist - Album - 01 Song.mp3"},
		data:  map[string]string{"Artist - Album - 01 Song.mp3": "fresh"},
	})
	require.NoError(t, err)

	require.NoError(t, zf.ExtractAll(dest))
	assert.Equal(t, "fresh", readFile(t, filepath.Join(target, "01_-Song.mp3")))
}

func TestExtractAll_SkipsDirectoryEntries(t *testing.T) {
	src := t.TempDir()
	dest := t.TempDir()

	path := writeZip(t, src, "Artist - Album.zip",
		member{name: "extras/"},
		member{"extras/Artist - Album - 02 B Side.mp3", "b side"},
	)

	zf, err := Open(path)
	require.NoError(t, err)
	defer zf.Close()

	require.NoError(t, zf.ExtractAll(dest))

	entries, err := os.ReadDir(filepath.Join(dest, "Artist", "Album"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "02_-B_Side.mp3", entries[0].Name())
}

func TestExtractAll_DirectoryCreationFails(t *testing.T) {
	dest := t.TempDir()
	// a regular file where the artist directory should go
	require.NoError(t, os.WriteFile(filepath.Join(dest, "Artist"), []byte("x"), 0o644))

	zf, err := New("Artist - Album.zip", &fakeArchive{
		names: []string{"Artist - Album - 01 Song.mp3"},
		data:  map[string]string{"Artist - Album - 01 Song.mp3": "song"},
	})
	require.NoError(t, err)

	err = zf.ExtractAll(dest)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create album directory")
}

func TestExtractAll_AbortsOnCorruptMember(t *testing.T) {
	dest := t.TempDir()

	archive := &fakeArchive{
		names: []string{
			"Artist - Album - 01 First.mp3",
			"Artist - Album - 02 Broken.mp3",
			"Artist - Album - 03 Never.mp3",
		},
		data: map[string]string{
			"Artist - Album - 01 First.mp3": "first",
			"Artist - Album - 03 Never.mp3": "never",
		},
		broken: map[string]bool{"Artist - Album - 02 Broken.mp3": true},
	}
	zf, err := New("Artist - Album.zip", archive)
	require.NoError(t, err)

	err = zf.ExtractAll(dest)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "02 Broken")

	dir := filepath.Join(dest, "Artist", "Album")
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	// extracted members stay, the failing one leaves nothing behind
	assert.Equal(t, []string{"01_-First.mp3"}, names)
}

func TestLayout(t *testing.T) {
	zf, err := New("Band - Best Of.zip", &fakeArchive{
		names: []string{
			"Band - Best Of - 01 Opener.mp3",
			"Band - Best Of - 02 Closer.mp3",
			"cover.png",
			"bonus/",
		},
	})
	require.NoError(t, err)

	album := zf.Layout("music")

	dir := filepath.Join("music", "Band", "Best_Of")
	assert.Equal(t, dir, album.Path)
	assert.Equal(t, "Band", album.Artist)
	assert.Equal(t, "Best Of", album.Title)
	require.Len(t, album.Tracks, 3)

	assert.Equal(t, 1, album.Tracks[0].Number)
	assert.Equal(t, "Opener", album.Tracks[0].Title)
	assert.Equal(t, filepath.Join(dir, "01_-Opener.mp3"), album.Tracks[0].Path)
	assert.Equal(t, "Band - Best Of - 01 Opener.mp3", album.Tracks[0].Member)

	assert.Equal(t, filepath.Join(dir, "Cover.png"), album.ArtworkPath)
	assert.Len(t, album.AudioTracks(), 2)
}

func TestClose_ReleasesArchive(t *testing.T) {
	archive := &fakeArchive{}
	zf, err := New("Artist - Album.zip", archive)
	require.NoError(t, err)

	require.NoError(t, zf.Close())
	assert.True(t, archive.closed)
}

func TestNew_InvalidNameLeavesArchiveOpen(t *testing.T) {
	archive := &fakeArchive{}
	_, err := New("just a name.zip", archive)

	require.Error(t, err)
	assert.True(t, IsInvalidArchiveName(err))
	assert.False(t, archive.closed)
}

func TestZipArchive_SizeAndOrder(t *testing.T) {
	src := t.TempDir()
	path := writeZip(t, src, "Artist - Album.zip",
		member{"b.txt", "12345"},
		member{"a.txt", "123"},
	)

	archive, err := OpenZip(path)
	require.NoError(t, err)
	defer archive.Close()

	assert.Equal(t, []string{"b.txt", "a.txt"}, archive.Names())
	assert.Equal(t, int64(8), archive.Size())

	_, err = archive.Open("missing.txt")
	assert.Error(t, err)
}
