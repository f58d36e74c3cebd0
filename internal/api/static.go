// internal/api/static.go
package api

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"syscall"

	"rank-boost/internal/common/logger"

	"github.com/gin-gonic/gin"
)

const defaultContentType = "application/octet-stream"

var mimeTypes = map[string]string{
	".html": "text/html",
	".js":   "text/javascript",
	".css":  "text/css",
	".json": "application/json",
	".png":  "image/png",
	".jpg":  "image/jpg",
	".gif":  "image/gif",
	".svg":  "image/svg+xml",
	".wav":  "audio/wav",
	".mp4":  "video/mp4",
	".woff": "application/font-woff",
	".ttf":  "application/font-ttf",
	".eot":  "application/vnd.ms-fontobject",
	".otf":  "application/font-otf",
	".wasm": "application/wasm",
}

// ContentType maps a file name to the content type it is served with.
func ContentType(name string) string {
	if ct, ok := mimeTypes[strings.ToLower(filepath.Ext(name))]; ok {
		return ct
	}
	return defaultContentType
}

// StaticHandler serves files from a single root directory.
type StaticHandler struct {
	root     string
	notFound string
	logger   logger.Logger
}

func NewStaticHandler(root, notFound string, log logger.Logger) *StaticHandler {
	return &StaticHandler{root: root, notFound: notFound, logger: log}
}

// Serve writes the requested file, the not-found page with 404 when the file
// does not exist, or 500 with the error code for any other read failure.
func (h *StaticHandler) Serve(c *gin.Context) {
	name := path.Clean("/" + c.Request.URL.Path)
	if name == "/" {
		name = "/index.html"
	}

	content, err := os.ReadFile(filepath.Join(h.root, filepath.FromSlash(name)))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			h.serveNotFound(c)
			return
		}
		h.logger.Error("static file read failed", map[string]interface{}{
			"path":  name,
			"error": err,
		})
		c.String(http.StatusInternalServerError, "服务器错误: %s\n", errorCode(err))
		return
	}

	c.Data(http.StatusOK, ContentType(name), content)
}

func (h *StaticHandler) serveNotFound(c *gin.Context) {
	content, err := os.ReadFile(filepath.Join(h.root, h.notFound))
	if err != nil {
		h.logger.Warn("not-found page missing", map[string]interface{}{
			"page":  h.notFound,
			"error": err,
		})
		content = nil
	}
	c.Data(http.StatusNotFound, "text/html", content)
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, syscall.EISDIR):
		return "EISDIR"
	case errors.Is(err, fs.ErrPermission):
		return "EACCES"
	case errors.Is(err, syscall.ENAMETOOLONG):
		return "ENAMETOOLONG"
	default:
		return "EIO"
	}
}
