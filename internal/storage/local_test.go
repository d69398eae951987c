package storage

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileHeader(t *testing.T, field, name string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile(field, name)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File[field][0]
}

func TestLocalStore_SaveAndPath(t *testing.T) {
	t.Parallel()

	s, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	stored, err := s.Save(fileHeader(t, "media_file", "Photo.JPG", []byte("img")))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stored, "uploads/"))
	assert.True(t, strings.HasSuffix(stored, ".jpg"))

	full, err := s.Path(stored)
	require.NoError(t, err)
	data, err := os.ReadFile(full)
	require.NoError(t, err)
	assert.Equal(t, []byte("img"), data)

	other, err := s.Save(fileHeader(t, "media_file", "Photo.JPG", []byte("img")))
	require.NoError(t, err)
	assert.NotEqual(t, stored, other)

	require.NoError(t, s.Remove(stored))
	_, err = s.Path(stored)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStore_PathRejectsTraversal(t *testing.T) {
	t.Parallel()

	s, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	for _, p := range []string{"", "uploads/", "uploads/../secret", "../etc/passwd", "uploads/a/b.jpg", "uploads/missing.jpg"} {
		_, err := s.Path(p)
		assert.ErrorIs(t, err, ErrNotFound, p)
	}
}
