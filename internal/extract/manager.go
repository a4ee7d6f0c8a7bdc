package extract

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/gofrs/flock"
	"github.com/karrick/godirwalk"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/handiism/bandcamp-unzip/internal/audio"
	"github.com/handiism/bandcamp-unzip/internal/bandcamp"
	"github.com/handiism/bandcamp-unzip/internal/config"
	ioutils "github.com/handiism/bandcamp-unzip/internal/io"
	"github.com/handiism/bandcamp-unzip/internal/model"
)

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents an extraction progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// Log writes the event to logger at the matching level. Verbose events go
// to debug.
func (e ProgressEvent) Log(logger *zap.Logger) {
	switch e.Level {
	case LevelError:
		logger.Error(e.Message)
	case LevelWarning:
		logger.Warn(e.Message)
	case LevelVerbose:
		logger.Debug(e.Message)
	default:
		logger.Info(e.Message)
	}
}

// ErrDestinationLocked is returned by StartExtractions when another run
// holds the destination lock.
var ErrDestinationLocked = errors.New("destination is locked by another bandcamp-unzip run")

// Result is the outcome of one archive.
type Result struct {
	// Archive is the archive path as discovered in the source directory.
	Archive string

	// Album is the extracted layout. Nil when the archive could not be opened.
	Album *model.Album

	// Bytes is the uncompressed size of the archive members.
	Bytes int64

	// Err is the failure that stopped the archive, nil on success.
	Err error
}

// OK reports whether the archive was handled without error.
func (r Result) OK() bool {
	return r.Err == nil && r.Album != nil
}

// Status is a one-word summary: ok, failed, or skipped for archives the
// batch never got to.
func (r Result) Status() string {
	switch {
	case r.Err != nil:
		return "failed"
	case r.Album == nil:
		return "skipped"
	default:
		return "ok"
	}
}

// Manager coordinates the extraction of every archive in a source directory.
//
//	m := extract.NewManager(settings, logger, func(e extract.ProgressEvent) {
//	    fmt.Println(e.Message)
//	})
//	if err := m.Initialize(ctx); err != nil {
//	    return err
//	}
//	err := m.StartExtractions(ctx)
type Manager struct {
	settings     *config.Settings
	logger       *zap.Logger
	tagger       *audio.Tagger
	playlist     *audio.PlaylistCreator
	imageService *ioutils.ImageService

	archives       []string
	results        []Result
	totalBytes     int64
	extractedBytes int64
	doneArchives   int32

	onProgress func(ProgressEvent)
	mu         sync.RWMutex
}

// NewManager creates a new extraction Manager. A nil logger discards
// diagnostics; onProgress may be nil.
func NewManager(settings *config.Settings, logger *zap.Logger, onProgress func(ProgressEvent)) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}

	tagConfig := audio.KeepTagConfig()
	if settings.ModifyTags {
		tagConfig = audio.DefaultTagConfig()
	}

	return &Manager{
		settings:     settings,
		logger:       logger,
		tagger:       audio.NewTagger(tagConfig),
		playlist:     audio.NewPlaylistCreator(settings.Playlist(), settings.M3UExtended),
		imageService: ioutils.NewImageService(),
		onProgress:   onProgress,
	}
}

// Initialize finds the archives to extract in the source directory.
//
// Only files with a .zip extension are picked up; subdirectories are
// searched when Recursive is set. Archives are processed in lexical path
// order.
func (m *Manager) Initialize(ctx context.Context) error {
	archives, err := findArchives(m.settings.SourcePath, m.settings.Recursive)
	if err != nil {
		return fmt.Errorf("scan %s: %w", m.settings.SourcePath, err)
	}

	m.mu.Lock()
	m.archives = archives
	m.results = make([]Result, len(archives))
	for i, path := range archives {
		m.results[i].Archive = path
	}
	m.mu.Unlock()

	m.calculateTotals(ctx)

	m.progress(ProgressEvent{
		Message: fmt.Sprintf("Found %d archive(s) in %s", len(archives), m.settings.SourcePath),
		Level:   LevelInfo,
	})
	return nil
}

// Archives returns the archive paths found by Initialize.
func (m *Manager) Archives() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.archives...)
}

// StartExtractions extracts every archive found by Initialize.
//
// A failing archive is reported with a "[-]" event and the batch moves on;
// a successful one gets a "[+]" event. The returned error is reserved for
// problems that stop the whole batch: the destination lock or a cancelled
// context. Use Results to see per-archive outcomes.
func (m *Manager) StartExtractions(ctx context.Context) error {
	if err := ioutils.EnsureDir(m.settings.DestinationPath); err != nil {
		return fmt.Errorf("create destination: %w", err)
	}

	if m.settings.LockDestination {
		lock := flock.New(m.settings.LockPath())
		ok, err := lock.TryLock()
		if err != nil {
			return fmt.Errorf("acquire lock: %w", err)
		}
		if !ok {
			return ErrDestinationLocked
		}
		defer func() {
			if err := lock.Unlock(); err != nil {
				m.logger.Warn("failed to release destination lock", zap.Error(err))
			}
		}()
		m.logger.Debug("destination locked", zap.String("lock", m.settings.LockPath()))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.settings.MaxConcurrentArchives)

	for i, path := range m.Archives() {
		if gctx.Err() != nil {
			break
		}
		i, path := i, path
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			m.extractArchive(gctx, i, path)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// Plan opens every archive and returns where its members would go,
// without writing anything.
func (m *Manager) Plan(ctx context.Context) []Result {
	archives := m.Archives()
	plans := make([]Result, 0, len(archives))

	for _, path := range archives {
		if ctx.Err() != nil {
			break
		}
		plan := Result{Archive: path}

		zf, err := bandcamp.Open(path)
		if err != nil {
			plan.Err = err
			plans = append(plans, plan)
			continue
		}
		plan.Album = zf.Layout(m.settings.DestinationPath)
		plan.Bytes = zf.Size()
		_ = zf.Close()

		plans = append(plans, plan)
	}
	return plans
}

// GetProgress returns the archives handled so far and the bytes extracted.
func (m *Manager) GetProgress() (doneArchives, totalArchives int32, extracted, total int64) {
	m.mu.RLock()
	totalArchives = int32(len(m.archives))
	m.mu.RUnlock()
	return atomic.LoadInt32(&m.doneArchives), totalArchives,
		atomic.LoadInt64(&m.extractedBytes), atomic.LoadInt64(&m.totalBytes)
}

// Results returns per-archive outcomes in archive order.
func (m *Manager) Results() []Result {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Result(nil), m.results...)
}

// Failed returns the number of archives that ended in error.
func (m *Manager) Failed() int {
	failed := 0
	for _, r := range m.Results() {
		if r.Err != nil {
			failed++
		}
	}
	return failed
}

// calculateTotals sums the uncompressed sizes for progress reporting.
// Archives that cannot be opened are left out; they fail later with a
// proper error.
func (m *Manager) calculateTotals(ctx context.Context) {
	var total int64
	for _, path := range m.Archives() {
		if ctx.Err() != nil {
			return
		}
		zf, err := bandcamp.Open(path)
		if err != nil {
			continue
		}
		total += zf.Size()
		_ = zf.Close()
	}
	atomic.StoreInt64(&m.totalBytes, total)
}

func (m *Manager) extractArchive(ctx context.Context, idx int, path string) {
	defer atomic.AddInt32(&m.doneArchives, 1)

	result := Result{Archive: path}
	defer func() { m.setResult(idx, result) }()

	zf, err := bandcamp.Open(path)
	if err != nil {
		result.Err = err
		m.progress(ProgressEvent{Message: "[-] " + err.Error(), Level: LevelError})
		return
	}
	defer zf.Close()

	m.logger.Debug("extracting archive",
		zap.String("archive", path),
		zap.String("artist", zf.Artist),
		zap.String("album", zf.Album))

	album := zf.Layout(m.settings.DestinationPath)
	result.Album = album

	if err := zf.ExtractAll(m.settings.DestinationPath); err != nil {
		result.Err = fmt.Errorf("%s: %w", path, err)
		m.progress(ProgressEvent{Message: "[-] " + result.Err.Error(), Level: LevelError})
		return
	}
	result.Bytes = zf.Size()
	atomic.AddInt64(&m.extractedBytes, result.Bytes)

	m.postProcess(ctx, album)

	m.progress(ProgressEvent{Message: "[+] " + zf.Filename, Level: LevelSuccess})
}

// postProcess runs the optional steps on an extracted album. Failures are
// reported as warnings: the files are on disk either way.
func (m *Manager) postProcess(ctx context.Context, album *model.Album) {
	for _, track := range album.AudioTracks() {
		if !track.IsMP3() {
			continue
		}
		duration, err := audio.ReadDuration(track.Path)
		if err != nil {
			m.logger.Debug("no track length", zap.String("track", track.Path), zap.Error(err))
			continue
		}
		track.Duration = duration
	}

	var artwork []byte
	if m.settings.SaveCoverArtInTags && album.HasArtwork() {
		var err error
		artwork, err = m.loadArtwork(ctx, album)
		if err != nil {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Error preparing artwork for %s: %v", album.Title, err), Level: LevelWarning})
		}
	}

	if m.settings.ModifyTags || artwork != nil {
		for _, track := range album.AudioTracks() {
			if err := m.tagger.SaveTags(track, album, artwork); err != nil {
				m.progress(ProgressEvent{Message: fmt.Sprintf("Error tagging %s: %v", track.FileName, err), Level: LevelWarning})
				continue
			}
			m.progress(ProgressEvent{Message: fmt.Sprintf("Tagged: %s", track.FileName), Level: LevelVerbose})
		}
	}

	if m.settings.CreatePlaylist {
		content := m.playlist.CreatePlaylist(album)
		name := filepath.Base(m.playlist.FileName(album))
		if err := ioutils.WriteFile(album.Path, name, []byte(content)); err != nil {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Error creating playlist: %v", err), Level: LevelWarning})
		} else {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Created playlist for %s", album.Title), Level: LevelVerbose})
		}
	}
}

// loadArtwork reads the extracted cover and shapes it for embedding.
// The cover file itself is left as shipped.
func (m *Manager) loadArtwork(ctx context.Context, album *model.Album) ([]byte, error) {
	data, err := os.ReadFile(album.ArtworkPath)
	if err != nil {
		return nil, err
	}

	data, _, err = m.imageService.ProcessCover(ctx, data, m.settings.CoverOptions())
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (m *Manager) setResult(idx int, result Result) {
	m.mu.Lock()
	m.results[idx] = result
	m.mu.Unlock()
}

func (m *Manager) progress(event ProgressEvent) {
	if m.onProgress != nil {
		m.onProgress(event)
	}
}

// findArchives lists the .zip files under root, sorted. Without recursive
// only the top level of root is looked at.
func findArchives(root string, recursive bool) ([]string, error) {
	root = filepath.Clean(root)
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	var found []string
	err = godirwalk.Walk(root, &godirwalk.Options{
		Callback: func(path string, de *godirwalk.Dirent) error {
			if de.IsDir() {
				if !recursive && path != root {
					return godirwalk.SkipThis
				}
				return nil
			}
			if strings.EqualFold(filepath.Ext(path), ".zip") {
				found = append(found, path)
			}
			return nil
		},
		Unsorted: true,
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(found)
	return found, nil
}
