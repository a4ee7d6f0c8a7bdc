package ioutils

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// tempPattern names in-flight files inside the target directory.
const tempPattern = ".bandcamp-unzip-*.part"

// renameFunc is swapped in tests to simulate EXDEV and permission errors.
var renameFunc = os.Rename

// CrossDeviceError reports a rename that failed because source and
// destination live on different file systems (EXDEV).
//
// Temp files are always created next to their destination, so seeing this
// error means the destination directory itself is a mount point boundary.
type CrossDeviceError struct {
	Src string
	Dst string
	Err error
}

func (e *CrossDeviceError) Error() string {
	return fmt.Sprintf("cross-device rename %q -> %q: %v", e.Src, e.Dst, e.Err)
}

func (e *CrossDeviceError) Unwrap() error { return e.Err }

// IsCrossDevice reports whether err is (or wraps) a CrossDeviceError.
func IsCrossDevice(err error) bool {
	var e *CrossDeviceError
	return errors.As(err, &e)
}

// EnsureDir creates a directory and all parent directories if they don't exist.
//
// Directories are created with mode 0755 (rwxr-xr-x).
// If the directory already exists, no error is returned. Any other failure
// (permission denied, a regular file in the way) is returned as is.
//
// Example:
//
//	err := EnsureDir("/music/Artist/Album")
//	// Creates /music, /music/Artist, and /music/Artist/Album if needed
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

// Rename wraps os.Rename, marking EXDEV failures as CrossDeviceError.
// An existing file at dst is replaced.
func Rename(src, dst string) error {
	if err := renameFunc(src, dst); err != nil {
		if isEXDEV(err) {
			return &CrossDeviceError{Src: src, Dst: dst, Err: err}
		}
		return err
	}
	return nil
}

// WriteFromReader streams r into dir/name.
//
// The data is first written to a hidden, fixed-length temporary file in dir and renamed
// into place once complete, so a reader never observes a half-written
// name. The temporary file is removed on every failure path. An existing
// dir/name is overwritten.
//
// Returns the number of bytes written.
func WriteFromReader(dir, name string, r io.Reader) (int64, error) {
	// the temp name must not grow with name: a final name close to the
	// file system limit still has to fit
	tmp, err := os.CreateTemp(dir, tempPattern)
	if err != nil {
		return 0, err
	}
	tmpName := tmp.Name()
	renamed := false
	defer func() {
		_ = tmp.Close()
		if !renamed {
			_ = os.Remove(tmpName)
		}
	}()

	n, err := io.Copy(tmp, r)
	if err != nil {
		return n, err
	}
	// CreateTemp makes the file private; extracted files get regular permissions
	if err := tmp.Chmod(0o644); err != nil {
		return n, err
	}
	if err := tmp.Sync(); err != nil {
		return n, err
	}
	if err := tmp.Close(); err != nil {
		return n, err
	}

	if err := Rename(tmpName, filepath.Join(dir, name)); err != nil {
		return n, err
	}
	renamed = true
	return n, nil
}

// WriteFile writes data to dir/name through WriteFromReader.
func WriteFile(dir, name string, data []byte) error {
	_, err := WriteFromReader(dir, name, bytes.NewReader(data))
	return err
}
