package ingest

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/wonny/tradelens/internal/validation"
)

// MaxFileSize upload size limit in bytes
const MaxFileSize = 10 * 1024 * 1024

// AllowedExtensions accepted upload types
var AllowedExtensions = []string{".json", ".csv"}

var (
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrFileTooLarge    = errors.New("file exceeds maximum size")
	ErrMalformed       = errors.New("malformed upload")
)

// UploadError locates a structural defect in an upload.
// Line is 1-based; 0 means the whole file.
type UploadError struct {
	Line    int         `json:"line"`
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
	Err     error       `json:"-"`
}

func (e *UploadError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s: %s", e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// Upload parsed file contents ready for validation
type Upload struct {
	FileName   string                      `json:"fileName"`
	ReceivedAt time.Time                   `json:"receivedAt"`
	Records    []validation.CandidateTrade `json:"records"`
}

// ReadFile opens path and parses it by extension
func ReadFile(path string) (*Upload, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat upload: %w", err)
	}
	if info.Size() > MaxFileSize {
		return nil, &UploadError{Field: "file", Message: fmt.Sprintf("%d bytes exceeds %d", info.Size(), MaxFileSize), Err: ErrFileTooLarge}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	return Parse(filepath.Base(path), f)
}

// Parse decodes r according to the extension of name
func Parse(name string, r io.Reader) (*Upload, error) {
	ext := strings.ToLower(filepath.Ext(name))
	if !allowed(ext) {
		return nil, &UploadError{Field: "file", Message: fmt.Sprintf("extension %q not in %v", ext, AllowedExtensions), Value: name, Err: ErrUnsupportedType}
	}

	data, err := io.ReadAll(io.LimitReader(r, MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(data) > MaxFileSize {
		return nil, &UploadError{Field: "file", Message: fmt.Sprintf("exceeds %d bytes", MaxFileSize), Err: ErrFileTooLarge}
	}

	var records []validation.CandidateTrade
	switch ext {
	case ".json":
		records, err = parseJSON(data)
	case ".csv":
		records, err = parseCSV(data)
	}
	if err != nil {
		return nil, err
	}

	return &Upload{
		FileName:   name,
		ReceivedAt: time.Now().UTC(),
		Records:    records,
	}, nil
}

func allowed(ext string) bool {
	for _, a := range AllowedExtensions {
		if a == ext {
			return true
		}
	}
	return false
}
