package api

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"

	"docuchat/internal/chatbot_service/rag/pipeline"
	"docuchat/internal/chatbot_service/rag/storages/vectorstore"
	"docuchat/internal/chatbot_service/service"
	"docuchat/internal/chatbot_service/store"

	"github.com/gin-gonic/gin"
)

// Handler bundles the chatbot endpoint handlers.
type Handler struct {
	service *service.Service
}

// NewHandler creates a new Handler.
func NewHandler(s *service.Service) *Handler {
	return &Handler{service: s}
}

// Ingest accepts a multipart form with any combination of files, plain text
// and a website URL, and replaces the retrievable corpus with the combined
// content.
func (h *Handler) Ingest(c *gin.Context) {
	var identity struct {
		UserID   uint   `form:"user_id" binding:"required"`
		Username string `form:"username" binding:"required"`
	}
	if err := c.ShouldBind(&identity); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	setCaller(c, identity.UserID, identity.Username)

	in := service.IngestInput{
		PlainText:  c.PostForm("plain_text"),
		WebsiteURL: c.PostForm("website_url"),
	}

	form, err := c.MultipartForm()
	if err == nil && form != nil {
		tempDir, err := os.MkdirTemp("", "ingest-*")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot spool uploads"})
			return
		}
		defer os.RemoveAll(tempDir)

		for _, file := range form.File["files"] {
			dst := filepath.Join(tempDir, filepath.Base(file.Filename))
			if err := c.SaveUploadedFile(file, dst); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot spool uploads"})
				return
			}
			in.Files = append(in.Files, service.UploadedFile{Path: dst, Name: file.Filename})
		}
	}

	chunkCount, err := h.service.Ingest(c.Request.Context(), identity.UserID, identity.Username, in)
	if err != nil {
		if errors.Is(err, service.ErrNoContent) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "content ingested successfully, build the index to make it searchable",
		"chunk_count": chunkCount,
	})
}

// BuildIndex builds the nearest-neighbor index over the current corpus.
func (h *Handler) BuildIndex(c *gin.Context) {
	manifest, err := h.service.BuildIndex(c.Request.Context())
	if err != nil {
		if errors.Is(err, vectorstore.ErrNoCorpus) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "index built successfully",
		"chunk_count": manifest.ChunkCount,
	})
}

// AskRequest is the JSON body of a question.
type AskRequest struct {
	Question  string `json:"question" binding:"required"`
	UserID    uint   `json:"user_id" binding:"required"`
	Username  string `json:"username" binding:"required"`
	SessionID string `json:"session_id"`
}

// Ask answers a question within a conversation session, creating a new
// session when none is supplied.
func (h *Handler) Ask(c *gin.Context) {
	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	setCaller(c, req.UserID, req.Username)

	answer, sessionID, err := h.service.Ask(c.Request.Context(), req.UserID, req.Username, req.SessionID, req.Question)
	if err != nil {
		status := askErrorStatus(err)
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"answer": answer, "session_id": sessionID})
}

// askErrorStatus maps the pipeline error taxonomy to HTTP statuses: input
// errors are client errors, a missing index is a conflict the caller can
// resolve, generation failures are upstream errors.
func askErrorStatus(err error) int {
	switch {
	case errors.Is(err, store.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrSessionForbidden):
		return http.StatusForbidden
	case errors.Is(err, vectorstore.ErrNoCorpus), errors.Is(err, vectorstore.ErrNotBuilt):
		return http.StatusConflict
	case errors.Is(err, pipeline.ErrGenerate):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ClearMemoryRequest optionally names a single session to clear.
type ClearMemoryRequest struct {
	SessionID string `json:"session_id"`
}

// ClearMemory empties the prompt memory of one session, or of all sessions
// when no session is named.
func (h *Handler) ClearMemory(c *gin.Context) {
	var req ClearMemoryRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	if err := h.service.ClearMemory(c.Request.Context(), req.SessionID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "chat memory has been cleared successfully"})
}

// SessionChats returns the durable history of one session, oldest first.
func (h *Handler) SessionChats(c *gin.Context) {
	sessionID := c.Param("session_id")

	var identity struct {
		UserID uint `form:"user_id" binding:"required"`
	}
	if err := c.ShouldBindQuery(&identity); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	history, err := h.service.SessionChats(c.Request.Context(), identity.UserID, sessionID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrSessionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, store.ErrSessionForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, history)
}
