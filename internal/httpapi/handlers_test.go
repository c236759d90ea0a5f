package httpapi

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseID(t *testing.T) {
	id, err := parseID(" 42 ")
	require.NoError(t, err)
	require.Equal(t, int64(42), id)

	for _, raw := range []string{"", "abc", "0", "-3"} {
		_, err := parseID(raw)
		require.Error(t, err, "raw=%q", raw)
	}
}

func TestWriteErrorShape(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, http.StatusNotFound, "Invoice not found")

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "Invoice not found", body["detail"])
}

func multipartUpload(t *testing.T, filename string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload-pdf/", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestUploadPDFRejectsNonPDF(t *testing.T) {
	h := NewHandler(nil, nil, 5<<20)
	rec := httptest.NewRecorder()
	h.UploadPDF(rec, multipartUpload(t, "invoice.txt", []byte("not a pdf")))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "Please upload a PDF file.", body["detail"])
}

func TestUploadPDFRejectsOversize(t *testing.T) {
	h := NewHandler(nil, nil, 64)
	rec := httptest.NewRecorder()
	h.UploadPDF(rec, multipartUpload(t, "invoice.pdf", bytes.Repeat([]byte("x"), 128)))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "File size exceeds 5MB.", body["detail"])
}

func TestUploadPDFRequiresFile(t *testing.T) {
	h := NewHandler(nil, nil, 5<<20)
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload-pdf/", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	h.UploadPDF(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}
