package ingestion

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeStore struct {
	files       map[string]FileInfo
	content     map[string][]byte
	metaErr     error
	openErr     error
	openedCount int
}

func (s *fakeStore) Metadata(_ context.Context, fileID string) (FileInfo, error) {
	if s.metaErr != nil {
		return FileInfo{}, s.metaErr
	}
	info, ok := s.files[fileID]
	if !ok {
		return FileInfo{}, errors.New("not found")
	}
	return info, nil
}

func (s *fakeStore) Open(_ context.Context, fileID string) (io.ReadCloser, error) {
	s.openedCount++
	if s.openErr != nil {
		return nil, s.openErr
	}
	return io.NopCloser(bytes.NewReader(s.content[fileID])), nil
}

func newTestFetcher(t *testing.T, store FileStore) (*Fetcher, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "resumes")
	return NewFetcher(store, NewFileHandler(dir, 8), zap.NewNop()), dir
}

func TestDownload_FetchesOnce(t *testing.T) {
	store := &fakeStore{
		files:   map[string]FileInfo{"abc": {Name: "jane.pdf", Size: 12}},
		content: map[string][]byte{"abc": []byte("%PDF-1.4 cv!")},
	}
	fetcher, dir := newTestFetcher(t, store)

	var last float64
	fetcher.SetProgressFunc(func(_ string, fraction float64) { last = fraction })

	path, err := fetcher.Download(context.Background(), "https://drive.google.com/file/d/abc/view")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "jane.pdf"), path)
	assert.Equal(t, 1.0, last)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 cv!", string(data))

	again, err := fetcher.Download(context.Background(), "https://drive.google.com/file/d/abc/view")
	require.NoError(t, err)
	assert.Equal(t, path, again)
	assert.Equal(t, 1, store.openedCount)
}

func TestDownload_Errors(t *testing.T) {
	tests := []struct {
		name  string
		link  string
		store *fakeStore
		want  error
	}{
		{
			name:  "invalid link",
			link:  "https://example.com/resume.pdf",
			store: &fakeStore{},
			want:  ErrInvalidLink,
		},
		{
			name:  "metadata failure",
			link:  "https://drive.google.com/file/d/abc/view",
			store: &fakeStore{metaErr: errors.New("403")},
			want:  ErrMetadataFetch,
		},
		{
			name:  "unusable display name",
			link:  "https://drive.google.com/file/d/abc/view",
			store: &fakeStore{files: map[string]FileInfo{"abc": {Name: ""}}},
			want:  ErrMetadataFetch,
		},
		{
			name: "download failure",
			link: "https://drive.google.com/file/d/abc/view",
			store: &fakeStore{
				files:   map[string]FileInfo{"abc": {Name: "cv.pdf"}},
				openErr: errors.New("connection reset"),
			},
			want: ErrDownload,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher, _ := newTestFetcher(t, tt.store)
			path, err := fetcher.Download(context.Background(), tt.link)
			assert.ErrorIs(t, err, tt.want)
			assert.Empty(t, path)
		})
	}
}
