// Package assets stores uploaded files under a local directory and builds
// their public URLs.
package assets

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// URLPrefix is the route the upload directory is served under.
const URLPrefix = "/uploads"

var ErrInvalidUpload = errors.New("invalid upload")

type Store struct {
	dir     string
	baseURL string
}

func NewStore(dir, baseURL string) *Store {
	return &Store{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (s *Store) Dir() string {
	return s.dir
}

// Resolve turns a client supplied picture into a stored asset path.
//
// Data URIs are decoded and saved under folder. A URL pointing back at
// this store is reduced to its path. Anything else is returned as is.
func (s *Store) Resolve(folder, value string) (string, error) {
	switch {
	case strings.HasPrefix(value, "data:"):
		return s.saveDataURI(folder, value)
	case s.baseURL != "" && strings.HasPrefix(value, s.baseURL+URLPrefix+"/"):
		return strings.TrimPrefix(value, s.baseURL), nil
	}
	return value, nil
}

// URL returns the public URL of a stored asset path. Absolute URLs are
// returned unchanged.
func (s *Store) URL(assetPath string) string {
	if assetPath == "" || strings.HasPrefix(assetPath, "http://") || strings.HasPrefix(assetPath, "https://") {
		return assetPath
	}
	if !strings.HasPrefix(assetPath, "/") {
		assetPath = "/" + assetPath
	}
	return s.baseURL + assetPath
}

func (s *Store) saveDataURI(folder, uri string) (string, error) {
	header, payload, ok := strings.Cut(strings.TrimPrefix(uri, "data:"), ",")
	if !ok || !strings.HasSuffix(header, ";base64") {
		return "", fmt.Errorf("%w: expected a base64 data URI", ErrInvalidUpload)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidUpload, err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty payload", ErrInvalidUpload)
	}

	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return "", fmt.Errorf("%w: %s is not an image", ErrInvalidUpload, mt.String())
	}

	dir := filepath.Join(s.dir, folder)
	err = os.MkdirAll(dir, 0o755)
	if err != nil {
		return "", fmt.Errorf("failed to create upload dir: %w", err)
	}

	name := uuid.NewString() + mt.Extension()
	err = os.WriteFile(filepath.Join(dir, name), data, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to write upload: %w", err)
	}
	return path.Join(URLPrefix, folder, name), nil
}
