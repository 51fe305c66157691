package models

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Kind defines the payload kinds a clip record can carry.
type Kind string

const (
	KindText  Kind = "text"
	KindImage Kind = "image"
	KindFile  Kind = "file"
)

const (
	// PreviewMaxRunes bounds the derived text preview length.
	PreviewMaxRunes = 100
)

var validKinds = map[Kind]struct{}{
	KindText:  {},
	KindImage: {},
	KindFile:  {},
}

// IsValidKind reports whether kind is a known payload kind.
func IsValidKind(kind Kind) bool {
	_, ok := validKinds[kind]
	return ok
}

// ParseKind validates and normalizes a raw kind string.
func ParseKind(raw string) (Kind, error) {
	value := Kind(strings.ToLower(strings.TrimSpace(raw)))
	if value == "" {
		return "", fmt.Errorf("clip kind is required")
	}
	if _, ok := validKinds[value]; !ok {
		return "", fmt.Errorf("invalid clip kind: %s", value)
	}
	return value, nil
}

// ClipRecord describes one captured clip. The payload itself lives in a
// blob file; the record only carries metadata and the blob reference.
//
// Records are owned by the catalog engine. Callers receive copies and must
// route changes back through engine operations.
type ClipRecord struct {
	ID        string    `json:"id" yaml:"id"`
	Kind      Kind      `json:"kind" yaml:"kind"`
	CreatedAt time.Time `json:"date" yaml:"date"`
	BlobRef   string    `json:"path" yaml:"path"`
	Pinned    bool      `json:"pinned" yaml:"pinned"`
	Preview   string    `json:"preview,omitempty" yaml:"preview,omitempty"`
	FileName  string    `json:"originalFilename,omitempty" yaml:"originalFilename,omitempty"`
}

// Validate checks structural invariants of a record.
func (r *ClipRecord) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return fmt.Errorf("record id is required")
	}
	if !IsValidKind(r.Kind) {
		return fmt.Errorf("invalid clip kind: %s", r.Kind)
	}
	if strings.TrimSpace(r.BlobRef) == "" {
		return fmt.Errorf("record blob reference is required")
	}
	if r.CreatedAt.IsZero() {
		return fmt.Errorf("record timestamp is required")
	}
	if r.Preview != "" && r.Kind != KindText {
		return fmt.Errorf("preview is only valid for text records")
	}
	if r.FileName != "" && r.Kind != KindFile {
		return fmt.Errorf("originalFilename is only valid for file records")
	}
	return nil
}

// DerivePreview returns the single-line preview snippet for text content:
// leading/trailing space trimmed, newlines collapsed, at most
// PreviewMaxRunes runes.
func DerivePreview(text string) string {
	snippet := strings.Join(strings.Fields(text), " ")
	runes := []rune(snippet)
	if len(runes) > PreviewMaxRunes {
		return string(runes[:PreviewMaxRunes])
	}
	return snippet
}

// SortRecords orders records in place for presentation: pinned records
// first, then unpinned, newest first within each group. Ties on timestamp
// keep their existing relative order so lists already in insertion order
// stay deterministic.
func SortRecords(records []ClipRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Pinned != records[j].Pinned {
			return records[i].Pinned
		}
		if !records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].CreatedAt.After(records[j].CreatedAt)
		}
		return false
	})
}
