package ingestion

import (
	"context"
	"fmt"
	"io"

	"golang.org/x/time/rate"
	"google.golang.org/api/drive/v3"

	"github.com/fmuoria/ai-recruiter/internal/google"
)

// DriveStore reads resumes from Google Drive.
type DriveStore struct {
	svc     *drive.Service
	limiter *rate.Limiter
}

// NewDriveStore wraps svc. requestsPerSecond paces API calls; zero disables
// pacing.
func NewDriveStore(svc *drive.Service, requestsPerSecond float64) *DriveStore {
	limiter := rate.NewLimiter(rate.Inf, 1)
	if requestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), max(1, int(requestsPerSecond)))
	}
	return &DriveStore{svc: svc, limiter: limiter}
}

// Metadata returns the display name and size of a Drive file.
func (s *DriveStore) Metadata(ctx context.Context, fileID string) (FileInfo, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return FileInfo{}, err
	}

	file, err := s.svc.Files.Get(fileID).
		Fields("id", "name", "size").
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return FileInfo{}, fmt.Errorf("get file: %w", google.WrapError(err))
	}

	return FileInfo{Name: file.Name, Size: file.Size}, nil
}

// Open starts a media download of a Drive file.
func (s *DriveStore) Open(ctx context.Context, fileID string) (io.ReadCloser, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := s.svc.Files.Get(fileID).
		SupportsAllDrives(true).
		Context(ctx).
		Download()
	if err != nil {
		return nil, fmt.Errorf("download file: %w", google.WrapError(err))
	}
	return resp.Body, nil
}
