package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"notedeck/api/internal/ids"
	"notedeck/api/internal/middleware"
	"notedeck/api/internal/models"
	"notedeck/api/internal/repository"
)

type noteListItemResponse struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

func (h HandlerSet) ListNotes(c *gin.Context) {
	ownerID := c.GetString(middleware.UserIDKey)

	items, err := h.notes.ListByOwner(c.Request.Context(), ownerID)
	if err != nil {
		h.log.Error().Err(err).Msg("list notes failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_server_error"})
		return
	}

	resp := make([]noteListItemResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, noteListItemResponse{ID: item.ID, Title: item.Title})
	}

	c.JSON(http.StatusOK, gin.H{"noteListItems": resp})
}

type noteResponse struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

func (h HandlerSet) GetNote(c *gin.Context) {
	ownerID := c.GetString(middleware.UserIDKey)
	noteID := c.Param("noteId")

	note, err := h.notes.GetForOwner(c.Request.Context(), ownerID, noteID)
	if err != nil {
		if errors.Is(err, repository.ErrNoteNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
			return
		}
		h.log.Error().Err(err).Msg("get note failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_server_error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"note": noteResponse{ID: note.ID, Title: note.Title, Body: note.Body},
	})
}

type createNoteForm struct {
	Title string `form:"title" binding:"required"`
	Body  string `form:"body" binding:"required"`
}

func (h HandlerSet) CreateNote(c *gin.Context) {
	ownerID := c.GetString(middleware.UserIDKey)

	var form createNoteForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": noteFieldErrors(err)})
		return
	}

	note := models.Note{
		ID:     ids.New(),
		UserID: ownerID,
		Title:  form.Title,
		Body:   form.Body,
	}

	if err := h.notes.Create(c.Request.Context(), note); err != nil {
		h.log.Error().Err(err).Msg("create note failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_server_error"})
		return
	}

	c.Redirect(http.StatusFound, "/notes/"+note.ID)
}

func (h HandlerSet) DeleteNote(c *gin.Context) {
	ownerID := c.GetString(middleware.UserIDKey)
	noteID := c.Param("noteId")

	if err := h.notes.DeleteForOwner(c.Request.Context(), ownerID, noteID); err != nil {
		if errors.Is(err, repository.ErrNoteNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
			return
		}
		h.log.Error().Err(err).Msg("delete note failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_server_error"})
		return
	}

	c.Status(http.StatusNoContent)
}

func noteFieldErrors(err error) gin.H {
	out := gin.H{}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out["title"] = "Title is required"
		return out
	}

	for _, fe := range verrs {
		switch fe.Field() {
		case "Title":
			out["title"] = "Title is required"
		case "Body":
			out["body"] = "Body is required"
		}
	}
	return out
}
