package handler

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/annazecevic/song-service/domain"
	"github.com/annazecevic/song-service/dto"
	"github.com/annazecevic/song-service/service"
	"github.com/gin-gonic/gin"
)

const maxBodyBytes = 1 << 20

type SongHandler struct {
	svc service.SongService
	// legacyStatusCodes answers 302 for duplicate creates, 201 for updates and
	// 500 for every storage failure.
	legacyStatusCodes bool
}

func NewSongHandler(svc service.SongService, legacyStatusCodes bool) *SongHandler {
	return &SongHandler{svc: svc, legacyStatusCodes: legacyStatusCodes}
}

func (h *SongHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)
	r.GET("/count", h.Count)

	g := r.Group("/song")
	g.GET("", h.ListSongs)
	g.GET("/:id", h.GetSong)
	g.POST("", h.CreateSong)
	g.PUT("/:id", h.UpdateSong)
	g.DELETE("/:id", h.DeleteSong)
}

// GET /health
func (h *SongHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, dto.HealthResponse{Status: "OK"})
}

// GET /count
func (h *SongHandler) Count(c *gin.Context) {
	c.JSON(http.StatusOK, dto.CountResponse{Count: h.svc.SeedCount()})
}

// GET /song
func (h *SongHandler) ListSongs(c *gin.Context) {
	songs, err := h.svc.ListSongs(c.Request.Context())
	if err != nil {
		h.respondError(c, messageKey, err)
		return
	}
	if songs == nil {
		songs = []domain.Song{}
	}
	c.JSON(http.StatusOK, dto.SongsResponse{Songs: songs})
}

// GET /song/:id
func (h *SongHandler) GetSong(c *gin.Context) {
	id, ok := songID(c)
	if !ok {
		return
	}

	song, err := h.svc.GetSong(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, messageKey, err)
		return
	}
	c.JSON(http.StatusOK, song)
}

// POST /song
func (h *SongHandler) CreateSong(c *gin.Context) {
	song, err := bindSong(c)
	if err != nil {
		h.respondError(c, createMessageKey, err)
		return
	}

	insertedID, err := h.svc.CreateSong(c.Request.Context(), song)
	if err != nil {
		h.respondError(c, createMessageKey, err)
		return
	}
	c.JSON(http.StatusCreated, dto.InsertedResponse{InsertedID: insertedID})
}

// PUT /song/:id
func (h *SongHandler) UpdateSong(c *gin.Context) {
	id, ok := songID(c)
	if !ok {
		return
	}

	fields, err := bindSong(c)
	if err != nil {
		h.respondError(c, messageKey, err)
		return
	}

	updated, changed, err := h.svc.UpdateSong(c.Request.Context(), id, fields)
	if err != nil {
		h.respondError(c, messageKey, err)
		return
	}
	if !changed {
		c.JSON(http.StatusOK, gin.H{messageKey: "song found, but nothing updated"})
		return
	}

	status := http.StatusOK
	if h.legacyStatusCodes {
		status = http.StatusCreated
	}
	c.JSON(status, updated)
}

// DELETE /song/:id
func (h *SongHandler) DeleteSong(c *gin.Context) {
	id, ok := songID(c)
	if !ok {
		return
	}

	if err := h.svc.DeleteSong(c.Request.Context(), id); err != nil {
		h.respondError(c, messageKey, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// songID accepts only non-negative decimal integers; anything else does not
// name a song route and answers 404.
func songID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 63)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{messageKey: "song not found"})
		return 0, false
	}
	return int64(id), true
}

func bindSong(c *gin.Context) (domain.Song, error) {
	ct := strings.ToLower(c.ContentType())
	if ct != "application/json" && !strings.HasSuffix(ct, "+json") {
		return nil, domain.Invalid("Request body must be JSON")
	}

	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes))
	if err != nil {
		return nil, domain.Invalid("Request body could not be read: " + err.Error())
	}
	return domain.DecodeSong(body)
}
