package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/vidtube/backend/internal/apperrors"
	"github.com/vidtube/backend/internal/logging"
)

const multipartMemory = 32 << 20

// UploadConfig controls where multipart files are staged before they reach object storage.
type UploadConfig struct {
	Dir      string
	MaxBytes int64
}

// stagedFiles maps form field names onto local temporary files.
type stagedFiles map[string]string

// parseUpload reads a multipart request and stages the named file fields on disk.
// Missing fields are skipped. The returned cleanup removes every staged file.
func (u UploadConfig) parseUpload(w http.ResponseWriter, r *http.Request, fields ...string) (stagedFiles, func(), error) {
	files := stagedFiles{}
	cleanup := func() {
		for _, path := range files {
			if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
				logging.FromContext(r.Context()).Warn("remove staged upload", "path", path, "error", err)
			}
		}
	}

	if u.MaxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, u.MaxBytes)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, cleanup, apperrors.BadRequest(fmt.Sprintf("upload exceeds %d MB", tooLarge.Limit>>20))
		}
		return nil, cleanup, apperrors.BadRequest("expected a multipart form")
	}

	dir := u.Dir
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, cleanup, apperrors.Internal("prepare upload directory", err)
	}

	for _, field := range fields {
		path, err := stage(r, field, dir)
		if errors.Is(err, http.ErrMissingFile) {
			continue
		}
		if err != nil {
			return nil, cleanup, err
		}
		files[field] = path
	}
	return files, cleanup, nil
}

func stage(r *http.Request, field, dir string) (string, error) {
	src, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", err
		}
		return "", apperrors.BadRequest("invalid " + field + " upload")
	}
	defer src.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	dst, err := os.CreateTemp(dir, "upload-*"+ext)
	if err != nil {
		return "", apperrors.Internal("stage upload", err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(dst.Name())
		return "", apperrors.Internal("stage upload", err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(dst.Name())
		return "", apperrors.Internal("stage upload", err)
	}
	return dst.Name(), nil
}
