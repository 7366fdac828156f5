package validators

import (
	"errors"
	"mime/multipart"
	"path/filepath"
	"strings"
)

var (
	ErrNoFile          = errors.New("no file provided")
	ErrFileNameEmpty   = errors.New("file name can't be empty")
	ErrFileNameTooLong = errors.New("file name is too long")
	ErrFileTooLarge    = errors.New("file too large")
)

// Leaves room for the random prefix on disk
const maxFileNameSize = 200

// FileValidator checks a multipart file part and returns its sanitized
// name: directory components are dropped so the name can't escape the
// upload directory.
func FileValidator(fh *multipart.FileHeader, maxSize int64) (string, error) {
	if fh == nil {
		return "", ErrNoFile
	}

	name := filepath.Base(filepath.Clean("/" + strings.ReplaceAll(fh.Filename, `\`, "/")))
	if name == "/" || name == "." || name == "" {
		return "", ErrFileNameEmpty
	}

	if len(name) > maxFileNameSize {
		return "", ErrFileNameTooLong
	}

	if maxSize > 0 && fh.Size > maxSize {
		return "", ErrFileTooLarge
	}

	return name, nil
}
