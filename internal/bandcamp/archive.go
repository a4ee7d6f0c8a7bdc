package bandcamp

import (
	"archive/zip"
	"fmt"
	"io"
)

// Archive is the read side of an archive that ZipFile consumes.
//
// Names lists member names in the archive's own order. Open returns the
// decompressed bytes of one member; the caller closes it.
type Archive interface {
	Names() []string
	Open(name string) (io.ReadCloser, error)
	Size() int64
	Close() error
}

// zipArchive adapts archive/zip to Archive.
type zipArchive struct {
	rc    *zip.ReadCloser
	r     *zip.Reader
	names []string
	files map[string]*zip.File
}

// OpenZip opens a zip file on disk.
func OpenZip(path string) (Archive, error) {
	rc, err := zip.OpenReader(path)
	if err != nil {
		return nil, err
	}
	a := newZipArchive(&rc.Reader)
	a.rc = rc
	return a, nil
}

// NewZipArchive wraps an already opened zip.Reader. Close is a no-op.
func NewZipArchive(r *zip.Reader) Archive {
	return newZipArchive(r)
}

func newZipArchive(r *zip.Reader) *zipArchive {
	a := &zipArchive{
		r:     r,
		names: make([]string, 0, len(r.File)),
		files: make(map[string]*zip.File, len(r.File)),
	}
	for _, f := range r.File {
		if _, dup := a.files[f.Name]; !dup {
			a.names = append(a.names, f.Name)
		}
		// last entry wins for duplicated names, like unzip(1)
		a.files[f.Name] = f
	}
	return a
}

func (a *zipArchive) Names() []string {
	return a.names
}

func (a *zipArchive) Open(name string) (io.ReadCloser, error) {
	f, ok := a.files[name]
	if !ok {
		return nil, fmt.Errorf("no member named %q in archive", name)
	}
	return f.Open()
}

func (a *zipArchive) Size() int64 {
	var total int64
	for _, name := range a.names {
		total += int64(a.files[name].UncompressedSize64)
	}
	return total
}

func (a *zipArchive) Close() error {
	if a.rc == nil {
		return nil
	}
	return a.rc.Close()
}
