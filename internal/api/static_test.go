package api

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"rank-boost/internal/common/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentType(t *testing.T) {
	tests := map[string]string{
		"index.html":   "text/html",
		"APP.JS":       "text/javascript",
		"style.css":    "text/css",
		"logo.png":     "image/png",
		"photo.jpg":    "image/jpg",
		"font.woff":    "application/font-woff",
		"module.wasm":  "application/wasm",
		"archive.zip":  "application/octet-stream",
		"no-extension": "application/octet-stream",
	}
	for name, want := range tests {
		assert.Equal(t, want, ContentType(name), name)
	}
}

func TestStatic_ServesFiles(t *testing.T) {
	r := newStoreRouter(t)

	w := do(r, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html", w.Header().Get("Content-Type"))
	assert.Equal(t, "<h1>下单</h1>", w.Body.String())

	w = do(r, http.MethodGet, "/app.js", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/javascript", w.Header().Get("Content-Type"))

	w = do(r, http.MethodGet, "/data.bin", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/octet-stream", w.Header().Get("Content-Type"))
}

func TestStatic_NotFound(t *testing.T) {
	r := newStoreRouter(t)

	for _, target := range []string{"/missing.css", "/../../etc/passwd", "/%2e%2e/%2e%2e/etc/hosts"} {
		w := do(r, http.MethodGet, target, "")
		assert.Equal(t, http.StatusNotFound, w.Code, target)
		assert.Equal(t, "text/html", w.Header().Get("Content-Type"))
		assert.Equal(t, "<h1>404</h1>", w.Body.String())
	}
}

func TestStatic_DirectoryIsServerError(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "assets"), 0o755))

	r := gin.New()
	r.NoRoute(NewStaticHandler(root, "404.html", logger.NewTestLogger(t)).Serve)

	w := do(r, http.MethodGet, "/assets", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "服务器错误: EISDIR\n", w.Body.String())
}

func TestStatic_MissingNotFoundPage(t *testing.T) {
	r := gin.New()
	r.NoRoute(NewStaticHandler(t.TempDir(), "404.html", logger.NewTestLogger(t)).Serve)

	w := do(r, http.MethodGet, "/nothing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, w.Body.String())
}
