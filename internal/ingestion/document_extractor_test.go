package ingestion

import (
	"archive/zip"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRunner struct {
	output []byte
	err    error
	name   string
	args   []string
}

func (m *mockRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	m.name = name
	m.args = args
	return m.output, m.err
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestIsBinaryData(t *testing.T) {
	var noisy strings.Builder
	noisy.WriteString(strings.Repeat("\x01", 400))
	noisy.WriteString(strings.Repeat("x", 600))

	tests := []struct {
		name    string
		content string
		want    bool
	}{
		{name: "empty", content: "", want: false},
		{name: "plain text", content: "John Doe\nSoftware Engineer\n5 years experience", want: false},
		{name: "tabs and newlines", content: "Name:\tJohn\nTitle:\tEngineer", want: false},
		{name: "few control chars", content: "John Doe\x00\nExperience: 5 years\nEducation: BS", want: false},
		{name: "pdf header", content: "%PDF-1.7\n%%EOF", want: true},
		{name: "zip header", content: "PK\x03\x04\x14\x00", want: true},
		{name: "mostly control chars", content: noisy.String(), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsBinaryData(tt.content))
		})
	}
}

func TestExtractText_PDFJoinsPages(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "cv.pdf", []byte("%PDF-1.4"))

	runner := &mockRunner{output: []byte("  Page one\n\fPage two\n\f")}
	text, err := NewExtractorWithRunner(runner).ExtractText(context.Background(), path)

	require.NoError(t, err)
	assert.Equal(t, "Page one\n\nPage two", text)
	assert.Equal(t, "pdftotext", runner.name)
	assert.Contains(t, runner.args, path)
}

func TestExtractText_PDFWithoutExtensionIsSniffed(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "resume", []byte("%PDF-1.7\nbinary"))

	runner := &mockRunner{output: []byte("Sniffed content")}
	text, err := NewExtractorWithRunner(runner).ExtractText(context.Background(), path)

	require.NoError(t, err)
	assert.Equal(t, "Sniffed content", text)
}

func TestExtractText_RunnerFailure(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "broken.pdf", []byte("%PDF-1.4"))

	runner := &mockRunner{err: errors.New("Syntax Error: Couldn't read xref table")}
	_, err := NewExtractorWithRunner(runner).ExtractText(context.Background(), path)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExtraction)
}

func TestExtractText_PlainText(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "cv.txt", []byte("\n  Jane Doe\nData Analyst  \n"))

	text, err := NewExtractor().ExtractText(context.Background(), path)

	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\nData Analyst", text)
}

func TestExtractText_TextExtensionWithBinaryContent(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "cv.txt", []byte("%PDF-1.4 not really text"))

	_, err := NewExtractor().ExtractText(context.Background(), path)

	assert.ErrorIs(t, err, ErrExtraction)
}

func TestExtractText_InvalidUTF8IsDropped(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "cv.txt", []byte("Caf\xe9 manager"))

	text, err := NewExtractor().ExtractText(context.Background(), path)

	require.NoError(t, err)
	assert.Equal(t, "Caf manager", text)
}

func TestExtractText_DOCX(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cv.docx")

	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>` +
		`<w:document><w:body>` +
		`<w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>Marketing &amp; Sales</w:t></w:r></w:p>` +
		`</w:body></w:document>`))
	require.NoError(t, err)
	rels, err := zw.Create("word/_rels/document.xml.rels")
	require.NoError(t, err)
	_, err = rels.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>` +
		`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	text, err := NewExtractor().ExtractText(context.Background(), path)

	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\nMarketing & Sales", text)
}

func TestExtractText_MissingFile(t *testing.T) {
	_, err := NewExtractor().ExtractText(context.Background(), filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, ErrExtraction)
}

func TestExtractText_UnsupportedType(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "photo.jpg", []byte{0xff, 0xd8, 0x00, 0x01, 0x02, 0x03, 0x04, 0x05})

	_, err := NewExtractor().ExtractText(context.Background(), path)

	assert.ErrorIs(t, err, ErrExtraction)
}
