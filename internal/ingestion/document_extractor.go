package ingestion

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/nguyenthenguyen/docx"
)

const (
	// BinarySampleSize is the number of bytes to sample for binary detection
	BinarySampleSize = 1000
	// BinaryThreshold is the proportion of non-printable characters that indicates binary data
	BinaryThreshold = 0.3

	formatPDF  = "pdf"
	formatDOCX = "docx"
	formatText = "txt"
)

// CommandRunner executes external commands.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(stderr.String()))
	}
	return out, nil
}

// Extractor turns a local resume file into plain text.
type Extractor struct {
	runner CommandRunner
}

// NewExtractor returns an extractor that shells out to pdftotext for PDFs.
func NewExtractor() *Extractor {
	return &Extractor{runner: execRunner{}}
}

// NewExtractorWithRunner returns an extractor using runner for PDFs.
func NewExtractorWithRunner(runner CommandRunner) *Extractor {
	return &Extractor{runner: runner}
}

// ExtractText returns the concatenated text of every page of the document at
// path, trimmed of surrounding whitespace. Pages are joined with a newline.
func (e *Extractor) ExtractText(ctx context.Context, path string) (string, error) {
	format, err := detectFormat(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtraction, err)
	}

	var pages []string
	switch format {
	case formatPDF:
		pages, err = e.extractPDF(ctx, path)
	case formatDOCX:
		pages, err = extractDOCX(path)
	case formatText:
		pages, err = extractPlain(path)
	default:
		err = fmt.Errorf("unsupported file type: %s", filepath.Ext(path))
	}
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrExtraction, filepath.Base(path), err)
	}

	text := strings.Join(pages, "\n")
	return strings.TrimSpace(strings.ToValidUTF8(text, "")), nil
}

// extractPDF runs pdftotext and splits its output on form feeds, one per page.
func (e *Extractor) extractPDF(ctx context.Context, path string) ([]string, error) {
	out, err := e.runner.Run(ctx, "pdftotext", "-layout", "-enc", "UTF-8", path, "-")
	if err != nil {
		return nil, fmt.Errorf("PDF extraction requires 'pdftotext' (install poppler-utils): %w", err)
	}

	pages := strings.Split(string(out), "\f")
	if n := len(pages); n > 1 && strings.TrimSpace(pages[n-1]) == "" {
		pages = pages[:n-1]
	}
	return pages, nil
}

var (
	docxTag       = regexp.MustCompile(`<[^>]+>`)
	docxParagraph = strings.NewReplacer("</w:p>", "\n", "<w:tab/>", "\t", "<w:br/>", "\n")
)

// extractDOCX reads the main document part. A DOCX has no fixed pagination so
// the whole body is a single page.
func extractDOCX(path string) ([]string, error) {
	doc, err := docx.ReadDocxFile(path)
	if err != nil {
		return nil, fmt.Errorf("open docx: %w", err)
	}
	defer doc.Close()

	body := docxParagraph.Replace(doc.Editable().GetContent())
	body = html.UnescapeString(docxTag.ReplaceAllString(body, ""))
	return []string{body}, nil
}

func extractPlain(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if IsBinaryData(string(data)) {
		return nil, fmt.Errorf("file has a text extension but binary content")
	}
	return []string{string(data)}, nil
}

// detectFormat uses the extension when it is known and otherwise sniffs the
// leading bytes, since Drive display names often lack an extension.
func detectFormat(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return formatPDF, nil
	case ".docx":
		return formatDOCX, nil
	case ".txt", ".text", ".md":
		return formatText, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	head := make([]byte, 8)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", err
	}
	head = head[:n]

	switch {
	case bytes.HasPrefix(head, []byte("%PDF-")):
		return formatPDF, nil
	case bytes.HasPrefix(head, []byte("PK")):
		return formatDOCX, nil
	case !IsBinaryData(string(head)):
		return formatText, nil
	}
	return "", fmt.Errorf("unsupported file type: %s", filepath.Ext(path))
}

// IsBinaryData checks if content appears to be binary (PDF/ZIP markers)
func IsBinaryData(content string) bool {
	if len(content) == 0 {
		return false
	}

	if strings.HasPrefix(content, "%PDF-") {
		return true
	}

	if strings.HasPrefix(content, "PK") {
		return true
	}

	sampleSize := min(BinarySampleSize, len(content))
	nonPrintable := 0
	for i := 0; i < sampleSize; i++ {
		ch := content[i]
		if ch < 32 && ch != '\n' && ch != '\r' && ch != '\t' && ch != '\f' {
			nonPrintable++
		}
	}

	return float64(nonPrintable)/float64(sampleSize) > BinaryThreshold
}
