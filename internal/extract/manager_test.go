package extract

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/bogem/id3v2"
	"github.com/gofrs/flock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/handiism/bandcamp-unzip/internal/config"
)

type member struct {
	name    string
	content string
}

func writeZip(t *testing.T, dir, name string, members ...member) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := zip.NewWriter(f)
	for _, m := range members {
		fw, err := w.Create(m.name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(m.content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return path
}

// recorder collects progress events from concurrent archives.
type recorder struct {
	mu     sync.Mutex
	events []ProgressEvent
}

func (r *recorder) record(e ProgressEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) messages(level ProgressLevel) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, e := range r.events {
		if e.Level == level {
			out = append(out, e.Message)
		}
	}
	return out
}

func testSettings(t *testing.T) *config.Settings {
	t.Helper()
	s := config.DefaultSettings()
	s.SourcePath = t.TempDir()
	s.DestinationPath = filepath.Join(t.TempDir(), "music")
	return s
}

const hitAudio = "not really an mp3 but long enough to stand in for one"

func TestManager_ExtractsValidAndReportsInvalid(t *testing.T) {
	s := testSettings(t)
	good := writeZip(t, s.SourcePath, "Band - Best Of.zip",
		member{"Band - Best Of - 03 Hit.mp3", hitAudio},
		member{"cover.jpg", "jpeg bytes"},
	)
	bad := writeZip(t, s.SourcePath, "Not Bandcamp.zip", member{"a.txt", "a"})
	require.NoError(t, os.WriteFile(filepath.Join(s.SourcePath, "notes.txt"), []byte("x"), 0o644))

	rec := &recorder{}
	m := NewManager(s, nil, rec.record)
	ctx := context.Background()

	require.NoError(t, m.Initialize(ctx))
	assert.Equal(t, []string{good, bad}, m.Archives())

	require.NoError(t, m.StartExtractions(ctx))

	assert.Equal(t, []string{"[+] " + good}, rec.messages(LevelSuccess))
	assert.Equal(t, []string{"[-] bad Bandcamp zipfile name, " + bad}, rec.messages(LevelError))

	got, err := os.ReadFile(filepath.Join(s.DestinationPath, "Band", "Best_Of", "03_-Hit.mp3"))
	require.NoError(t, err)
	assert.Equal(t, hitAudio, string(got))
	assert.FileExists(t, filepath.Join(s.DestinationPath, "Band", "Best_Of", "Cover.jpg"))

	results := m.Results()
	require.Len(t, results, 2)
	assert.Equal(t, "ok", results[0].Status())
	assert.Equal(t, int64(len(hitAudio)+len("jpeg bytes")), results[0].Bytes)
	assert.Equal(t, "failed", results[1].Status())
	assert.Equal(t, 1, m.Failed())

	done, total, extracted, totalBytes := m.GetProgress()
	assert.Equal(t, int32(2), done)
	assert.Equal(t, int32(2), total)
	assert.Equal(t, totalBytes, extracted)
}

func TestManager_CorruptArchiveDoesNotStopBatch(t *testing.T) {
	s := testSettings(t)
	require.NoError(t, os.WriteFile(filepath.Join(s.SourcePath, "Artist - Broken.zip"), []byte("not a zip"), 0o644))
	writeZip(t, s.SourcePath, "Artist - Fine.zip", member{"Artist - Fine - 01 Song.mp3", "song"})

	rec := &recorder{}
	m := NewManager(s, nil, rec.record)
	require.NoError(t, m.Initialize(context.Background()))
	require.NoError(t, m.StartExtractions(context.Background()))

	errs := rec.messages(LevelError)
	require.Len(t, errs, 1)
	assert.True(t, strings.HasPrefix(errs[0], "[-] open "))
	assert.FileExists(t, filepath.Join(s.DestinationPath, "Artist", "Fine", "01_-Song.mp3"))
}

func TestManager_Recursive(t *testing.T) {
	s := testSettings(t)
	writeZip(t, s.SourcePath, "Top - Level.zip", member{"x.txt", "x"})
	writeZip(t, s.SourcePath, filepath.Join("2024", "Deep - Down.zip"), member{"y.txt", "y"})

	m := NewManager(s, nil, nil)
	require.NoError(t, m.Initialize(context.Background()))
	assert.Len(t, m.Archives(), 1)

	s.Recursive = true
	m = NewManager(s, nil, nil)
	require.NoError(t, m.Initialize(context.Background()))
	assert.Equal(t, []string{
		filepath.Join(s.SourcePath, "2024", "Deep - Down.zip"),
		filepath.Join(s.SourcePath, "Top - Level.zip"),
	}, m.Archives())
}

func TestManager_InitializeMissingSource(t *testing.T) {
	s := testSettings(t)
	s.SourcePath = filepath.Join(s.SourcePath, "missing")

	err := NewManager(s, nil, nil).Initialize(context.Background())
	assert.Error(t, err)
}

func TestManager_DestinationLocked(t *testing.T) {
	s := testSettings(t)
	writeZip(t, s.SourcePath, "Artist - Album.zip", member{"Artist - Album - 01 Song.mp3", "song"})
	require.NoError(t, os.MkdirAll(s.DestinationPath, 0o755))

	held := flock.New(s.LockPath())
	ok, err := held.TryLock()
	require.NoError(t, err)
	require.True(t, ok)
	defer held.Unlock()

	m := NewManager(s, nil, nil)
	require.NoError(t, m.Initialize(context.Background()))
	assert.ErrorIs(t, m.StartExtractions(context.Background()), ErrDestinationLocked)
	assert.NoDirExists(t, filepath.Join(s.DestinationPath, "Artist"))
}

func TestManager_Cancelled(t *testing.T) {
	s := testSettings(t)
	writeZip(t, s.SourcePath, "Artist - Album.zip", member{"Artist - Album - 01 Song.mp3", "song"})

	m := NewManager(s, nil, nil)
	require.NoError(t, m.Initialize(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, m.StartExtractions(ctx), context.Canceled)
	assert.NoDirExists(t, filepath.Join(s.DestinationPath, "Artist"))
	assert.Equal(t, "skipped", m.Results()[0].Status())
	assert.Equal(t, 0, m.Failed())
}

func TestManager_ConcurrentArchives(t *testing.T) {
	s := testSettings(t)
	s.MaxConcurrentArchives = 3
	for _, name := range []string{"A - One.zip", "B - Two.zip", "C - Three.zip", "D - Four.zip"} {
		stem := strings.TrimSuffix(name, ".zip")
		writeZip(t, s.SourcePath, name, member{stem + " - 01 Intro.mp3", stem})
	}

	rec := &recorder{}
	m := NewManager(s, nil, rec.record)
	require.NoError(t, m.Initialize(context.Background()))
	require.NoError(t, m.StartExtractions(context.Background()))

	assert.Len(t, rec.messages(LevelSuccess), 4)
	assert.Equal(t, 0, m.Failed())
	assert.FileExists(t, filepath.Join(s.DestinationPath, "C", "Three", "01_-Intro.mp3"))
}

func TestManager_PlaylistAndTags(t *testing.T) {
	s := testSettings(t)
	s.CreatePlaylist = true
	s.ModifyTags = true
	writeZip(t, s.SourcePath, "Band - Best Of.zip",
		member{"Band - Best Of - 01 Opener.mp3", hitAudio},
		member{"Band - Best Of - 02 Closer.mp3", hitAudio},
		member{"cover.jpg", "jpeg bytes"},
	)

	rec := &recorder{}
	m := NewManager(s, nil, rec.record)
	require.NoError(t, m.Initialize(context.Background()))
	require.NoError(t, m.StartExtractions(context.Background()))
	assert.Empty(t, rec.messages(LevelWarning))

	dir := filepath.Join(s.DestinationPath, "Band", "Best_Of")
	playlist, err := os.ReadFile(filepath.Join(dir, "Best_Of.m3u"))
	require.NoError(t, err)
	assert.Equal(t,
		"#EXTM3U\n#EXTINF:-1,Band - Opener\n01_-Opener.mp3\n#EXTINF:-1,Band - Closer\n02_-Closer.mp3\n",
		string(playlist))

	tag, err := id3v2.Open(filepath.Join(dir, "02_-Closer.mp3"), id3v2.Options{Parse: true})
	require.NoError(t, err)
	defer tag.Close()
	assert.Equal(t, "Band", tag.Artist())
	assert.Equal(t, "Best Of", tag.Album())
	assert.Equal(t, "2", tag.GetTextFrame("TRCK").Text)
}

func TestManager_UnreadableCoverIsAWarning(t *testing.T) {
	s := testSettings(t)
	s.SaveCoverArtInTags = true
	writeZip(t, s.SourcePath, "Band - Best Of.zip",
		member{"Band - Best Of - 01 Opener.mp3", hitAudio},
		member{"cover.jpg", "not an image"},
	)

	rec := &recorder{}
	m := NewManager(s, nil, rec.record)
	require.NoError(t, m.Initialize(context.Background()))
	require.NoError(t, m.StartExtractions(context.Background()))

	assert.Len(t, rec.messages(LevelWarning), 1)
	assert.Len(t, rec.messages(LevelSuccess), 1)
	assert.Equal(t, 0, m.Failed())
}

func TestManager_Plan(t *testing.T) {
	s := testSettings(t)
	writeZip(t, s.SourcePath, "Band - Best Of.zip", member{"Band - Best Of - 03 Hit.mp3", "hit"})
	writeZip(t, s.SourcePath, "nonsense.zip", member{"a", "a"})

	m := NewManager(s, nil, nil)
	require.NoError(t, m.Initialize(context.Background()))

	plans := m.Plan(context.Background())
	require.Len(t, plans, 2)

	require.NoError(t, plans[0].Err)
	require.Len(t, plans[0].Album.Tracks, 1)
	assert.Equal(t,
		filepath.Join(s.DestinationPath, "Band", "Best_Of", "03_-Hit.mp3"),
		plans[0].Album.Tracks[0].Path)

	assert.Error(t, plans[1].Err)
	assert.NoDirExists(t, s.DestinationPath, "a dry run must not write anything")
}

func TestProgressEvent_Log(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := zap.New(core)

	ProgressEvent{Message: "[+] a.zip", Level: LevelSuccess}.Log(logger)
	ProgressEvent{Message: "[-] b.zip", Level: LevelError}.Log(logger)
	ProgressEvent{Message: "Tagged: c.mp3", Level: LevelVerbose}.Log(logger)
	ProgressEvent{Message: "no cover", Level: LevelWarning}.Log(logger)

	entries := logs.AllUntimed()
	require.Len(t, entries, 4)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	assert.Equal(t, zapcore.DebugLevel, entries[2].Level)
	assert.Equal(t, zapcore.WarnLevel, entries[3].Level)
	assert.Equal(t, "[-] b.zip", entries[1].Message)
}
