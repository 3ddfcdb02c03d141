package http

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	apierrors "ysianalyzer/internal/errors"
)

// multipartMemory is how much of a form is kept in memory before parts
// spill to temporary files.
const multipartMemory = 8 << 20

// parseMultipart reads the analysis form, bounded by maxBytes. The caller
// must call RemoveAll on the returned form.
func parseMultipart(w http.ResponseWriter, r *http.Request, maxBytes int64) (*multipart.Form, error) {
	if maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, err
		}
		return nil, apierrors.InvalidRequestWithError(fmt.Errorf("invalid multipart form: %w", err))
	}
	return r.MultipartForm, nil
}

// attachment sets the headers of a file download.
func attachment(w http.ResponseWriter, filename, contentType string, size int) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", size))
	w.Header().Set("Cache-Control", "no-store")
}
