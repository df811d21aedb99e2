package httpx

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var usersPage = strings.Repeat("<tr><td>Ana Pérez</td><td>ana@b.com</td></tr>", 200)

func servePage(contentType string, status int, body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	})
}

func compressed(t *testing.T, h http.Handler, method, acceptEncoding string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, "/dashboard/users", nil)
	if acceptEncoding != "" {
		req.Header.Set("Accept-Encoding", acceptEncoding)
	}
	rec := httptest.NewRecorder()
	Compression(CompressionConfig{Level: 6})(h).ServeHTTP(rec, req)
	return rec
}

func gunzip(t *testing.T, body io.Reader) string {
	t.Helper()
	zr, err := gzip.NewReader(body)
	require.NoError(t, err)
	defer zr.Close()
	out, err := io.ReadAll(zr)
	require.NoError(t, err)
	return string(out)
}

func TestCompression_GzipsPages(t *testing.T) {
	rec := compressed(t, servePage("text/html; charset=utf-8", http.StatusOK, usersPage), http.MethodGet, "gzip, deflate")

	assert.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))
	assert.Contains(t, rec.Header().Values("Vary"), "Accept-Encoding")
	assert.Less(t, rec.Body.Len(), len(usersPage))
	assert.Equal(t, usersPage, gunzip(t, rec.Body))
}

func TestCompression_Skips(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		acceptEncoding string
		contentType    string
		status         int
	}{
		{name: "no accept-encoding", method: http.MethodGet, contentType: "text/html", status: http.StatusOK},
		{name: "deflate only", method: http.MethodGet, acceptEncoding: "deflate, br", contentType: "text/html", status: http.StatusOK},
		{name: "gzip refused", method: http.MethodGet, acceptEncoding: "gzip;q=0, deflate", contentType: "text/html", status: http.StatusOK},
		{name: "head request", method: http.MethodHead, acceptEncoding: "gzip", contentType: "text/html", status: http.StatusOK},
		{name: "image", method: http.MethodGet, acceptEncoding: "gzip", contentType: "image/png", status: http.StatusOK},
		{name: "not modified", method: http.MethodGet, acceptEncoding: "gzip", contentType: "text/css", status: http.StatusNotModified},
		{name: "no content", method: http.MethodGet, acceptEncoding: "gzip", contentType: "text/html", status: http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := usersPage
			if tt.status == http.StatusNotModified || tt.status == http.StatusNoContent {
				body = ""
			}
			rec := compressed(t, servePage(tt.contentType, tt.status, body), tt.method, tt.acceptEncoding)

			assert.Equal(t, tt.status, rec.Code)
			assert.Empty(t, rec.Header().Get("Content-Encoding"))
			assert.Equal(t, body, rec.Body.String())
		})
	}
}

func TestCompression_ErrorPagesAreCompressed(t *testing.T) {
	rec := compressed(t, servePage("text/html", http.StatusNotFound, usersPage), http.MethodGet, "gzip")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))
	assert.Equal(t, usersPage, gunzip(t, rec.Body))
}

func TestCompression_DetectsContentType(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "<!DOCTYPE html><html><body>"+usersPage+"</body></html>")
	})
	rec := compressed(t, h, http.MethodGet, "gzip")

	assert.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, gunzip(t, rec.Body), "Ana Pérez")
}

func TestCompression_PreEncodedBodyUntouched(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/css")
		w.Header().Set("Content-Encoding", "br")
		_, _ = io.WriteString(w, "already-brotli")
	})
	rec := compressed(t, h, http.MethodGet, "gzip, br")

	assert.Equal(t, "br", rec.Header().Get("Content-Encoding"))
	assert.Equal(t, "already-brotli", rec.Body.String())
}

func TestCompression_WriterReuse(t *testing.T) {
	mw := Compression(CompressionConfig{})(servePage("application/json", http.StatusOK, `{"ok":true}`))
	for range 3 {
		req := httptest.NewRequest(http.MethodGet, "/auth/status", nil)
		req.Header.Set("Accept-Encoding", "gzip")
		rec := httptest.NewRecorder()
		mw.ServeHTTP(rec, req)
		assert.Equal(t, `{"ok":true}`, gunzip(t, rec.Body))
	}
}

func TestAcceptsGzip(t *testing.T) {
	tests := map[string]bool{
		"":                     false,
		"gzip":                 true,
		"GZIP":                 true,
		"deflate, gzip;q=0.5":  true,
		"gzip;q=0":             false,
		"gzip; q=0.0":          false,
		"*":                    true,
		"*;q=0":                false,
		"br, *;q=0.1":          true,
		"gzip;q=0, *":          false,
		"x-gzip":               false,
		"gzip;q=bogus":         true,
		"identity, deflate":    false,
	}
	for header, want := range tests {
		assert.Equal(t, want, acceptsGzip(header), "acceptsGzip(%q)", header)
	}
}
