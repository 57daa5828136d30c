package handler

import (
	"errors"
	"net/http"

	"github.com/annazecevic/song-service/domain"
	"github.com/annazecevic/song-service/logger"
	"github.com/gin-gonic/gin"
)

const (
	messageKey = "message"
	// createMessageKey is capitalised in create responses; existing clients read it.
	createMessageKey = "Message"
)

// respondError is the only place that turns service errors into HTTP statuses.
func (h *SongHandler) respondError(c *gin.Context, key string, err error) {
	_ = c.Error(err)

	switch {
	case errors.Is(err, domain.ErrValidation):
		logger.Warn(logger.EventValidationFailure, "Invalid song request", logger.Fields(
			"path", c.Request.URL.Path,
			"error", err.Error(),
		))
		c.JSON(http.StatusBadRequest, gin.H{key: err.Error()})
	case errors.Is(err, domain.ErrSongNotFound):
		c.JSON(http.StatusNotFound, gin.H{messageKey: err.Error()})
	case errors.Is(err, domain.ErrDuplicateSong):
		status := http.StatusConflict
		if h.legacyStatusCodes {
			status = http.StatusFound
		}
		c.JSON(status, gin.H{key: err.Error()})
	case errors.Is(err, domain.ErrStorageUnavailable) && !h.legacyStatusCodes:
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
