package utils

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveImageWithoutFileIsOptional(t *testing.T) {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	require.NoError(t, form.WriteField("name", "Masala Dosa"))
	require.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", form.FormDataContentType())

	url, err := NewUploader().SaveImage(req, "image", "items")
	require.NoError(t, err)
	assert.Empty(t, url)
}

func TestSaveImageIgnoresNonMultipartBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("name=Masala+Dosa"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	url, err := NewUploader().SaveImage(req, "image", "items")
	require.NoError(t, err)
	assert.Empty(t, url)
}

func TestSaveImageRejectsMalformedMultipart(t *testing.T) {
	// multipart content type with no boundary parameter
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("garbage"))
	req.Header.Set("Content-Type", "multipart/form-data")

	_, err := NewUploader().SaveImage(req, "image", "items")
	assert.Error(t, err)
}
