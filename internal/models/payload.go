package models

import (
	"fmt"
	"strings"
)

// FileList is the payload of a file-kind clip: the captured paths plus the
// display name shown in place of the raw path list.
type FileList struct {
	DisplayName string   `json:"display_name,omitempty"`
	Paths       []string `json:"paths"`
}

// Validate checks that the list references at least one path.
func (f *FileList) Validate() error {
	if len(f.Paths) == 0 {
		return fmt.Errorf("file list requires at least one path")
	}
	for _, p := range f.Paths {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("file list contains an empty path")
		}
	}
	return nil
}

// Payload is the decoded content of one clip. Exactly the field matching
// Kind is populated.
type Payload struct {
	Kind  Kind
	Text  string
	Image []byte
	Files FileList
}

// TextPayload wraps text content.
func TextPayload(text string) Payload {
	return Payload{Kind: KindText, Text: text}
}

// ImagePayload wraps encoded image bytes.
func ImagePayload(data []byte) Payload {
	return Payload{Kind: KindImage, Image: data}
}

// FilesPayload wraps a file-reference list.
func FilesPayload(files FileList) Payload {
	return Payload{Kind: KindFile, Files: files}
}
