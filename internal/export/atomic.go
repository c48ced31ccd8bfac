package export

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// WriteFileAtomic creates path by streaming write into a hidden temporary
// file next to it, syncing, and renaming. On any error the temporary file is
// removed and the error wraps ErrWriteFailure.
func WriteFileAtomic(path string, write func(w io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("%w: create directory %s: %w", ErrWriteFailure, dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %w", ErrWriteFailure, err)
	}
	tmpPath := tmp.Name()

	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	bw := bufio.NewWriter(tmp)
	if err = write(bw); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWriteFailure, filepath.Base(path), err)
	}
	if err = bw.Flush(); err != nil {
		return fmt.Errorf("%w: flush %s: %w", ErrWriteFailure, filepath.Base(path), err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("%w: sync %s: %w", ErrWriteFailure, filepath.Base(path), err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %w", ErrWriteFailure, filepath.Base(path), err)
	}
	if err = os.Chmod(tmpPath, 0o644); err != nil { //nolint:gosec // published pages are meant to be readable
		return fmt.Errorf("%w: chmod %s: %w", ErrWriteFailure, filepath.Base(path), err)
	}
	if err = os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("%w: rename onto %s: %w", ErrWriteFailure, path, err)
	}
	return nil
}

// WriteBytesAtomic is WriteFileAtomic for an in-memory payload.
func WriteBytesAtomic(path string, data []byte) error {
	return WriteFileAtomic(path, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}

// IsTempName reports whether a file name belongs to an in-flight atomic write.
func IsTempName(name string) bool {
	return len(name) > 0 && name[0] == '.'
}
