package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	appErr "github.com/xxxsen/imgwall/internal/pkg/errors"
	"github.com/xxxsen/imgwall/internal/pkg/response"
)

// handleError is the single place where service failures turn into
// client-facing statuses. The message keeps the underlying cause.
func handleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	logutil.GetLogger(c.Request.Context()).Warn("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
	switch {
	case errors.Is(err, appErr.ErrInvalid):
		response.Error(c, http.StatusBadRequest, "invalid", err.Error())
	case errors.Is(err, appErr.ErrNotFound):
		response.Error(c, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, appErr.ErrBlobMissing):
		response.Error(c, http.StatusNotFound, "file_not_found", err.Error())
	case errors.Is(err, appErr.ErrDelete):
		response.Error(c, http.StatusInternalServerError, "delete_failed", err.Error())
	case errors.Is(err, appErr.ErrPersistence):
		response.Error(c, http.StatusInternalServerError, "persistence_error", err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "internal", err.Error())
	}
}

func requestBaseURL(c *gin.Context) string {
	proto := c.GetHeader("X-Forwarded-Proto")
	if proto == "" {
		if c.Request.TLS != nil {
			proto = "https"
		} else {
			proto = "http"
		}
	}
	host := c.GetHeader("X-Forwarded-Host")
	if host == "" {
		host = c.Request.Host
	}
	return proto + "://" + host
}
