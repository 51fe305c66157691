package blobstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"clipvault/internal/models"
)

const tmpDirName = "tmp"

var kindExtensions = map[models.Kind]string{
	models.KindText:  ".txt",
	models.KindImage: ".png",
	models.KindFile:  ".files",
}

// LocalStore keeps one payload file per record id inside a base directory.
// Writes go through a temp file and an atomic rename so readers never see a
// partially written blob.
type LocalStore struct {
	root   string
	logger *slog.Logger
}

// NewLocalStore creates a local blob store rooted at root.
func NewLocalStore(root string, logger *slog.Logger) (*LocalStore, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, fmt.Errorf("blob store root is required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Join(abs, tmpDirName), 0o755); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &LocalStore{root: abs, logger: logger}, nil
}

// Extension returns the file suffix used for a payload kind.
func Extension(kind models.Kind) (string, error) {
	ext, ok := kindExtensions[kind]
	if !ok {
		return "", fmt.Errorf("no blob extension for kind %s", kind)
	}
	return ext, nil
}

// Write persists payload under id and returns the relative blob path.
func (s *LocalStore) Write(id string, payload models.Payload) (string, error) {
	if strings.TrimSpace(id) == "" {
		return "", fmt.Errorf("blob id is required")
	}
	ext, err := Extension(payload.Kind)
	if err != nil {
		return "", err
	}

	data, err := encodePayload(payload)
	if err != nil {
		return "", err
	}

	relPath := id + ext
	tmp, err := os.CreateTemp(filepath.Join(s.root, tmpDirName), "blob-*")
	if err != nil {
		return "", fmt.Errorf("create temp blob: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("write blob %s: %w", relPath, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("close blob %s: %w", relPath, err)
	}
	if err := os.Rename(tmpPath, filepath.Join(s.root, relPath)); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("store blob %s: %w", relPath, err)
	}

	return relPath, nil
}

// Read loads and decodes the payload at relPath. ok is false when the file
// does not exist.
func (s *LocalStore) Read(relPath string, kind models.Kind) (models.Payload, bool, error) {
	var zero models.Payload

	path, err := s.pathFromRef(relPath)
	if err != nil {
		return zero, false, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return zero, false, nil
		}
		return zero, false, fmt.Errorf("read blob %s: %w", relPath, err)
	}

	payload, err := decodePayload(kind, data)
	if err != nil {
		return zero, true, fmt.Errorf("decode blob %s: %w", relPath, err)
	}
	return payload, true, nil
}

// Delete removes a blob file. Missing files and removal failures are
// swallowed; a failed delete must never block a catalog mutation.
func (s *LocalStore) Delete(relPath string) {
	path, err := s.pathFromRef(relPath)
	if err != nil {
		s.logger.Warn("invalid blob reference on delete", "path", relPath, "error", err)
		return
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.logger.Warn("blob delete failed", "path", relPath, "error", err)
	}
}

// Size reports the stored byte size of a blob.
func (s *LocalStore) Size(relPath string) (int64, bool) {
	path, err := s.pathFromRef(relPath)
	if err != nil {
		return 0, false
	}
	info, err := os.Stat(path)
	if err != nil {
		return 0, false
	}
	return info.Size(), true
}

// EncodedSize returns the byte size payload will occupy on disk. Used for
// quota projection before a blob is admitted.
func EncodedSize(payload models.Payload) (int64, error) {
	data, err := encodePayload(payload)
	if err != nil {
		return 0, err
	}
	return int64(len(data)), nil
}

func encodePayload(payload models.Payload) ([]byte, error) {
	switch payload.Kind {
	case models.KindText:
		return []byte(payload.Text), nil
	case models.KindImage:
		if len(payload.Image) == 0 {
			return nil, fmt.Errorf("image payload is empty")
		}
		return payload.Image, nil
	case models.KindFile:
		if err := payload.Files.Validate(); err != nil {
			return nil, err
		}
		return json.Marshal(payload.Files)
	default:
		return nil, fmt.Errorf("unknown payload kind: %s", payload.Kind)
	}
}

func decodePayload(kind models.Kind, data []byte) (models.Payload, error) {
	switch kind {
	case models.KindText:
		return models.TextPayload(string(data)), nil
	case models.KindImage:
		return models.ImagePayload(data), nil
	case models.KindFile:
		var files models.FileList
		if err := json.Unmarshal(data, &files); err != nil {
			return models.Payload{}, err
		}
		return models.FilesPayload(files), nil
	default:
		return models.Payload{}, fmt.Errorf("unknown payload kind: %s", kind)
	}
}

func (s *LocalStore) pathFromRef(relPath string) (string, error) {
	relPath = strings.TrimSpace(relPath)
	if relPath == "" {
		return "", fmt.Errorf("blob reference is required")
	}
	if filepath.IsAbs(relPath) {
		return "", fmt.Errorf("blob reference must be relative")
	}
	clean := filepath.Clean(filepath.FromSlash(relPath))
	if clean == "." || strings.HasPrefix(clean, "..") {
		return "", fmt.Errorf("invalid blob reference")
	}
	return filepath.Join(s.root, clean), nil
}
