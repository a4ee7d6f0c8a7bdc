package bandcamp

import (
	"errors"
	"fmt"
)

// InvalidArchiveNameError reports an archive whose file name does not
// follow "Artist - Album.zip" or "Artist - Artist - Album.zip".
//
// Batch callers skip such archives and keep going.
type InvalidArchiveNameError struct {
	Filename string
}

func (e *InvalidArchiveNameError) Error() string {
	return fmt.Sprintf("bad Bandcamp zipfile name, %s", e.Filename)
}

// IsInvalidArchiveName reports whether err is (or wraps) an
// InvalidArchiveNameError.
func IsInvalidArchiveName(err error) bool {
	var e *InvalidArchiveNameError
	return errors.As(err, &e)
}
