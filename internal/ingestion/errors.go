package ingestion

import "errors"

// Resume ingestion failures. Callers treat every one of them as "no resume
// available" for the candidate.
var (
	ErrInvalidLink   = errors.New("invalid resume link")
	ErrMetadataFetch = errors.New("resume metadata fetch failed")
	ErrDownload      = errors.New("resume download failed")
	ErrExtraction    = errors.New("resume text extraction failed")
)
