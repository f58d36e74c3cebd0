// internal/common/errors/handler.go
package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ResponseHandler turns request errors into the failure envelope
type ResponseHandler struct {
	logger Logger
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
}

func NewResponseHandler(logger Logger) *ResponseHandler {
	return &ResponseHandler{logger: logger}
}

// HandleRequestError logs err and writes {success:false, message} with HTTP 500.
// Every core failure maps to 500; callers distinguish failures by message.
func (h *ResponseHandler) HandleRequestError(c *gin.Context, prefix string, err error) {
	stdErr := Normalize(err)

	h.logError(c, stdErr)

	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"message": prefix + stdErr.UserMessage(),
	})
}

func (h *ResponseHandler) logError(c *gin.Context, stdErr *StandardError) {
	fields := map[string]interface{}{
		"method":        c.Request.Method,
		"path":          c.Request.URL.Path,
		"errorCode":     string(stdErr.Code),
		"message":       stdErr.Message,
		"details":       stdErr.Details,
		"retryable":     stdErr.Retryable,
		"errorCategory": GetErrorCategory(stdErr.Code),
	}
	if rid, ok := c.Get("requestId"); ok {
		fields["requestId"] = rid
	}
	for k, v := range stdErr.Metadata {
		fields[k] = v
	}
	h.logger.Error("request failed", fields)
}
