package validation

import (
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	apierrors "ysianalyzer/internal/errors"
)

// DefaultUploadExtensions are the file types instrument exports arrive as.
var DefaultUploadExtensions = []string{".csv", ".txt", ".tsv"}

// FileValidator checks uploaded instrument files and the scratch directory.
type FileValidator struct {
	logger     *slog.Logger
	maxBytes   int64
	extensions []string
}

// NewFileValidator creates a validator accepting uploads up to maxBytes
// with one of extensions. A zero maxBytes disables the size check and nil
// extensions means DefaultUploadExtensions.
func NewFileValidator(logger *slog.Logger, maxBytes int64, extensions []string) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	if extensions == nil {
		extensions = DefaultUploadExtensions
	}
	return &FileValidator{
		logger:     logger.With(slog.String("component", "file_validator")),
		maxBytes:   maxBytes,
		extensions: extensions,
	}
}

// ValidateUpload checks the uploaded file in form field.
func (v *FileValidator) ValidateUpload(field string, fh *multipart.FileHeader) error {
	if fh == nil {
		return apierrors.ErrValidation(field, fmt.Sprintf("%s is required", field))
	}

	name := filepath.Base(fh.Filename)
	if name == "." || name == "" || strings.HasPrefix(name, "~$") {
		v.logger.Warn("rejected upload with unusable filename",
			slog.String("field", field),
			slog.String("filename", fh.Filename))
		return apierrors.ErrValidation(field, "uploaded file has no usable name")
	}

	ext := strings.ToLower(filepath.Ext(name))
	if !v.allowed(ext) {
		v.logger.Warn("rejected upload with unexpected extension",
			slog.String("field", field),
			slog.String("extension", ext))
		return apierrors.ErrValidation(field,
			fmt.Sprintf("%s must be one of %s (got %q)", field, strings.Join(v.extensions, ", "), ext))
	}

	if fh.Size == 0 {
		return apierrors.InvalidUpload(field, fmt.Errorf("file %s is empty", name))
	}
	if v.maxBytes > 0 && fh.Size > v.maxBytes {
		return apierrors.NewWithDetails(http.StatusRequestEntityTooLarge, apierrors.CodePayloadTooLarge,
			fmt.Sprintf("%s exceeds the maximum upload size", field),
			map[string]interface{}{"max_size": v.maxBytes, "size": fh.Size})
	}

	v.logger.Debug("upload validated",
		slog.String("field", field),
		slog.String("filename", name),
		slog.Int64("size", fh.Size))
	return nil
}

func (v *FileValidator) allowed(ext string) bool {
	for _, e := range v.extensions {
		if strings.EqualFold(e, ext) {
			return true
		}
	}
	return false
}

// ValidateScratchDirectory ensures dir exists (creating it if needed) and is
// writable. An empty dir means the system temp directory.
func (v *FileValidator) ValidateScratchDirectory(dir string) error {
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create scratch directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to create scratch directory %s: %w", dir, err)
	}

	probe, err := os.CreateTemp(dir, ".write_test_*")
	if err != nil {
		v.logger.Error("Scratch directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("scratch directory %s is not writable: %w", dir, err)
	}
	probe.Close()
	os.Remove(probe.Name())

	v.logger.Info("Scratch directory validated", slog.String("directory", dir))
	return nil
}
