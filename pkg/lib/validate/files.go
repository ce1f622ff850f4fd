package validate

import (
	"os"
)

// IsFile checks if the path points to a regular file.
// It returns an error if the path is not a regular file, using the provided message and arguments.
func IsFile(path string, msg string, args ...any) error {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return createError(msg, args...)
	}
	return nil
}

// IsDirectory checks if the path points to a directory.
func IsDirectory(path string, msg string, args ...any) error {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return createError(msg, args...)
	}
	return nil
}

// MaxFileSize checks if the file size is not larger than the specified maximum size in bytes.
// Key files are tiny, so anything larger is rejected before being read into memory.
func MaxFileSize(path string, maxSize int64, msg string, args ...any) error {
	info, err := os.Stat(path)
	if err != nil || info.Size() > maxSize {
		return createError(msg, args...)
	}
	return nil
}
