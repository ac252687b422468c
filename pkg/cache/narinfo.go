package cache

import (
	"bytes"
	"fmt"
	"strings"

	pkgerrors "github.com/glorpus-work/narget/pkg/errors"
	"github.com/nix-community/go-nix/pkg/narinfo"
)

// ArchivePath returns the relative archive path carried by a narinfo document: the value of
// its second "key: value" line, taken after the first ": " separator.
func ArchivePath(body string) (string, error) {
	lines := strings.Split(body, "\n")
	if len(lines) <= archivePathLine {
		return "", pkgerrors.New(pkgerrors.KindMalformedReference, "narinfo has no archive path line", nil)
	}
	line := strings.TrimRight(lines[archivePathLine], "\r")
	_, value, ok := strings.Cut(line, ": ")
	if !ok || value == "" {
		return "", pkgerrors.New(pkgerrors.KindMalformedReference, fmt.Sprintf("narinfo line %q", line), nil)
	}
	return value, nil
}

// ParseNarInfo decodes the full narinfo document of a hit.
func ParseNarInfo(hit *Hit) (*narinfo.NarInfo, error) {
	info, err := narinfo.Parse(bytes.NewReader(hit.Body))
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.KindMalformedReference, hit.URL, err)
	}
	return info, nil
}
