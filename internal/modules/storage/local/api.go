package local

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

var ErrFilesystem = errors.New("filesystem error")

// SaveFileExclusive streams f into path. Creating the file fails with an
// ErrFilesystem error matching os.ErrExist if path is already taken, so an
// existing file is never overwritten. A partially written file is removed
// when the copy fails; copy errors are returned unwrapped.
func SaveFileExclusive(f io.Reader, path string) (int64, error) {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrFilesystem, err)
	}
	n, err := io.Copy(file, f)
	if err != nil {
		file.Close()
		os.Remove(path)
		return n, err
	}
	if err = file.Close(); err != nil {
		os.Remove(path)
		return n, err
	}
	return n, nil
}

// CheckWritableDir returns the absolute form of dir after checking that it is
// an existing directory in which files can be created.
func CheckWritableDir(dir string) (string, error) {
	if dir == "" {
		return "", fmt.Errorf("%w: empty directory path", ErrFilesystem)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFilesystem, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFilesystem, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s is not a directory", ErrFilesystem, abs)
	}
	probe, err := os.CreateTemp(abs, ".imagine-*")
	if err != nil {
		return "", fmt.Errorf("%w: %s is not writable: %v", ErrFilesystem, abs, err)
	}
	probe.Close()
	os.Remove(probe.Name())
	return abs, nil
}
