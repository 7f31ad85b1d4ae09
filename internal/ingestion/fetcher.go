package ingestion

import (
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/fmuoria/ai-recruiter/internal/logger"
)

// FileInfo is the remote metadata needed to materialise a resume.
type FileInfo struct {
	Name string
	Size int64
}

// FileStore is a remote file backend addressed by opaque identifiers.
type FileStore interface {
	Metadata(ctx context.Context, fileID string) (FileInfo, error)
	Open(ctx context.Context, fileID string) (io.ReadCloser, error)
}

// Fetcher materialises resumes referenced by shareable links into the local
// resumes directory.
type Fetcher struct {
	store    FileStore
	files    *FileHandler
	logger   *zap.Logger
	progress ProgressFunc
}

// NewFetcher creates a fetcher. Download progress is debug-logged unless
// SetProgressFunc overrides it.
func NewFetcher(store FileStore, files *FileHandler, log *zap.Logger) *Fetcher {
	f := &Fetcher{
		store:  store,
		files:  files,
		logger: logger.WithFields(log),
	}
	f.progress = f.logProgress
	return f
}

// SetProgressFunc replaces the download progress callback.
func (f *Fetcher) SetProgressFunc(fn ProgressFunc) {
	if fn == nil {
		fn = func(string, float64) {}
	}
	f.progress = fn
}

// Download returns the local path of the resume behind link, fetching it only
// when no file with the same display name exists yet.
//
// The display name is the only identity: two candidates whose resumes share a
// name resolve to the same local file.
func (f *Fetcher) Download(ctx context.Context, link string) (string, error) {
	fileID, err := ParseFileID(strings.TrimSpace(link))
	if err != nil {
		return "", err
	}

	info, err := f.store.Metadata(ctx, fileID)
	if err != nil {
		return "", fmt.Errorf("%w: file %s: %v", ErrMetadataFetch, fileID, err)
	}

	path, err := f.files.PathFor(info.Name)
	if err != nil {
		return "", fmt.Errorf("%w: file %s: %v", ErrMetadataFetch, fileID, err)
	}

	if f.files.Exists(path) {
		f.logger.Info("resume already downloaded", zap.String("path", path))
		return path, nil
	}

	body, err := f.store.Open(ctx, fileID)
	if err != nil {
		return "", fmt.Errorf("%w: file %s: %v", ErrDownload, fileID, err)
	}
	defer body.Close()

	if err := f.files.Save(path, body, info.Size, f.progress); err != nil {
		return "", fmt.Errorf("%w: file %s: %v", ErrDownload, fileID, err)
	}

	f.logger.Info("resume downloaded", zap.String("file_id", fileID), zap.String("path", path))
	return path, nil
}

func (f *Fetcher) logProgress(name string, fraction float64) {
	f.logger.Debug("download progress",
		zap.String("file", name),
		zap.Int("percent", int(fraction*100)),
	)
}
