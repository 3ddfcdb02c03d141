package testutil

import (
	"bytes"
	"mime/multipart"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

// Upload is one file part of a test form.
type Upload struct {
	Filename string
	Content  string
}

// MultipartBody encodes values and files as a multipart/form-data body and
// returns it with its Content-Type header value. Fields are written in
// sorted order so bodies are reproducible.
func MultipartBody(t *testing.T, values map[string]string, files map[string]Upload) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, k := range sortedKeys(values) {
		require.NoError(t, w.WriteField(k, values[k]))
	}
	fileKeys := make([]string, 0, len(files))
	for k := range files {
		fileKeys = append(fileKeys, k)
	}
	sort.Strings(fileKeys)
	for _, k := range fileKeys {
		part, err := w.CreateFormFile(k, files[k].Filename)
		require.NoError(t, err)
		_, err = part.Write([]byte(files[k].Content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	return &buf, w.FormDataContentType()
}

// MultipartForm builds a parsed *multipart.Form from values and files.
func MultipartForm(t *testing.T, values map[string]string, files map[string]Upload) *multipart.Form {
	t.Helper()

	body, contentType := MultipartBody(t, values, files)
	boundary := contentType[len("multipart/form-data; boundary="):]
	form, err := multipart.NewReader(body, boundary).ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })
	return form
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
