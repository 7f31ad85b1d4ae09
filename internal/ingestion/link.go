package ingestion

import (
	"fmt"
	"strings"
)

// fileIDMarker precedes the file identifier in shareable Drive links such as
// https://drive.google.com/file/d/<id>/view?usp=sharing.
const fileIDMarker = "/d/"

// ParseFileID extracts the file identifier from a shareable link.
func ParseFileID(link string) (string, error) {
	_, rest, found := strings.Cut(link, fileIDMarker)
	if !found {
		return "", fmt.Errorf("%w: %q has no %s segment", ErrInvalidLink, link, fileIDMarker)
	}

	id, _, _ := strings.Cut(rest, "/")
	if id == "" {
		return "", fmt.Errorf("%w: %q has an empty file id", ErrInvalidLink, link)
	}
	return id, nil
}
