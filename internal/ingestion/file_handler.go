package ingestion

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// DefaultChunkSize is the transfer chunk used when none is configured.
const DefaultChunkSize = 1 << 20

// ProgressFunc receives the fraction (0..1) of a file written so far.
type ProgressFunc func(name string, fraction float64)

// FileHandler manages the local resumes directory.
type FileHandler struct {
	resumesDir string
	chunkSize  int
}

// NewFileHandler creates a new file handler
func NewFileHandler(resumesDir string, chunkSize int) *FileHandler {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &FileHandler{
		resumesDir: resumesDir,
		chunkSize:  chunkSize,
	}
}

// Dir returns the resumes directory.
func (fh *FileHandler) Dir() string {
	return fh.resumesDir
}

// PathFor returns the local path for a remote display name, creating the
// resumes directory if needed. Only the base name is used so a display name
// can never escape the directory.
func (fh *FileHandler) PathFor(displayName string) (string, error) {
	name := filepath.Base(strings.TrimSpace(displayName))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return "", fmt.Errorf("unusable file name %q", displayName)
	}

	if err := os.MkdirAll(fh.resumesDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create resumes directory: %w", err)
	}

	return filepath.Join(fh.resumesDir, name), nil
}

// Exists reports whether a regular file is already present at path.
func (fh *FileHandler) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Save streams content to path in chunks, reporting progress after each one.
// size may be zero when unknown. Data is written to a ".part" sibling and
// renamed into place only after the stream completes, so a failed transfer
// never leaves a file that Exists would report.
func (fh *FileHandler) Save(path string, content io.Reader, size int64, progress ProgressFunc) error {
	tmpPath := path + ".part"
	file, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	fail := func(err error) error {
		file.Close()
		os.Remove(tmpPath)
		return err
	}

	name := filepath.Base(path)
	buf := make([]byte, fh.chunkSize)
	var written int64
	reported := 0.0

	for {
		n, readErr := io.ReadFull(content, buf)
		if n > 0 {
			if _, err := file.Write(buf[:n]); err != nil {
				return fail(fmt.Errorf("failed to write file: %w", err))
			}
			written += int64(n)
			if size > 0 && progress != nil {
				reported = min(float64(written)/float64(size), 1)
				progress(name, reported)
			}
		}
		if errors.Is(readErr, io.EOF) || errors.Is(readErr, io.ErrUnexpectedEOF) {
			break
		}
		if readErr != nil {
			return fail(fmt.Errorf("failed to read content: %w", readErr))
		}
	}

	if size > 0 && written < size {
		return fail(fmt.Errorf("short transfer: got %d of %d bytes", written, size))
	}

	if err := file.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to move file into place: %w", err)
	}

	if progress != nil && reported < 1 {
		progress(name, 1)
	}
	return nil
}
