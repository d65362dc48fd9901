package fs

import (
	"errors"
	iofs "io/fs"
	"os"
	"time"

	"go.trai.ch/stale/internal/core/domain"
	"go.trai.ch/zerr"
)

// Touch sets the access and modification times of path to now, creating an
// empty file when it does not exist. The parent directory must exist.
func Touch(path string) error {
	return TouchAt(path, time.Now())
}

// TouchAt is Touch with an explicit timestamp.
func TouchAt(path string, t time.Time) error {
	err := os.Chtimes(path, t, t)
	if err == nil {
		return nil
	}
	if !errors.Is(err, iofs.ErrNotExist) {
		return touchError(path, err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o644) //nolint:gosec // Touch targets are user supplied.
	if err != nil {
		return touchError(path, err)
	}
	if err := f.Close(); err != nil {
		return touchError(path, err)
	}
	if err := os.Chtimes(path, t, t); err != nil {
		return touchError(path, err)
	}
	return nil
}

func touchError(path string, err error) error {
	return errors.Join(domain.ErrIO, domain.ErrTouchFailed, zerr.With(zerr.Wrap(err, "touch"), "path", path))
}
