// Package fsutil holds small file helpers shared by the pipelines.
package fsutil

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/albatross-proto/albatross-data/internal/errors"
)

const (
	// PermFile is the mode of generated data files, readable by the web server.
	PermFile os.FileMode = 0o644
	// PermDir is the mode of created output directories.
	PermDir os.FileMode = 0o755
)

// WriteFileAtomic writes data to a temporary file next to path and renames it
// over path, creating parent directories as needed. Readers see either the old
// or the new content, never a partial file. Concurrent writers race; the last
// rename wins.
func WriteFileAtomic(path string, data []byte) error {
	return WriteAtomic(path, func(w io.Writer) error {
		_, err := io.Copy(w, bytes.NewReader(data))
		return err
	})
}

// WriteAtomic is WriteFileAtomic for content produced by a streaming writer.
// If write fails, path is left untouched.
func WriteAtomic(path string, write func(w io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, PermDir); err != nil {
		return errors.New(fmt.Errorf("failed to create directory %s: %w", dir, err)).
			Category(errors.CategoryFileIO).
			FileContext(path, 0).
			Context("operation", "mkdir").
			Build()
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.New(fmt.Errorf("failed to create temporary file: %w", err)).
			Category(errors.CategoryFileIO).
			FileContext(path, 0).
			Context("operation", "create-temp").
			Build()
	}
	tmpPath := tmp.Name()

	// Remove the temp file on every failure path; after a successful rename it no longer exists.
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if err := write(tmp); err != nil {
		return errors.New(fmt.Errorf("failed to write %s: %w", path, err)).
			Category(errors.CategoryFileIO).
			FileContext(path, 0).
			Context("operation", "write").
			Build()
	}
	if err := tmp.Sync(); err != nil {
		return errors.FileError(fmt.Errorf("failed to sync temporary file: %w", err), path, 0)
	}
	if err := tmp.Close(); err != nil {
		return errors.FileError(fmt.Errorf("failed to close temporary file: %w", err), path, 0)
	}
	if err := os.Chmod(tmpPath, PermFile); err != nil {
		return errors.FileError(fmt.Errorf("failed to set permissions: %w", err), path, 0)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return errors.New(fmt.Errorf("failed to replace %s: %w", path, err)).
			Category(errors.CategoryFileIO).
			FileContext(path, 0).
			Context("operation", "rename").
			Build()
	}
	committed = true

	return nil
}
