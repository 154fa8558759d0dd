package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BubbleCoding/Spellfinder-PF1E/internal/app"
	"github.com/BubbleCoding/Spellfinder-PF1E/internal/transport/http/response"
)

type SpellbookHandler struct {
	bookService *app.SpellbookService
}

type SpellbookNameRequest struct {
	Name string `json:"name" binding:"required,min=1,max=128"`
}

type AddSpellRequest struct {
	SpellID int `json:"spell_id" binding:"required,min=1"`
}

type SetPreparedRequest struct {
	Prepared *bool `json:"prepared" binding:"required"`
}

type ImportRequest struct {
	Token  string `json:"token" binding:"required"`
	Rename string `json:"rename"`
}

func NewSpellbookHandler(bookService *app.SpellbookService) *SpellbookHandler {
	return &SpellbookHandler{bookService: bookService}
}

func (h *SpellbookHandler) List(c *gin.Context) {
	books, err := h.bookService.List(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list spellbooks failed")
		return
	}
	response.OK(c, books)
}

func (h *SpellbookHandler) Get(c *gin.Context) {
	id, ok := h.bookID(c)
	if !ok {
		return
	}
	detail, err := h.bookService.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err, "get spellbook failed")
		return
	}
	response.OK(c, detail)
}

func (h *SpellbookHandler) Create(c *gin.Context) {
	var req SpellbookNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	book, err := h.bookService.Create(c.Request.Context(), req.Name)
	if err != nil {
		h.writeError(c, err, "create spellbook failed")
		return
	}
	response.OK(c, book)
}

func (h *SpellbookHandler) Rename(c *gin.Context) {
	id, ok := h.bookID(c)
	if !ok {
		return
	}
	var req SpellbookNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	if err := h.bookService.Rename(c.Request.Context(), id, req.Name); err != nil {
		h.writeError(c, err, "rename spellbook failed")
		return
	}
	response.OK(c, nil)
}

func (h *SpellbookHandler) Delete(c *gin.Context) {
	id, ok := h.bookID(c)
	if !ok {
		return
	}
	if err := h.bookService.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err, "delete spellbook failed")
		return
	}
	response.OK(c, nil)
}

func (h *SpellbookHandler) AddSpell(c *gin.Context) {
	id, ok := h.bookID(c)
	if !ok {
		return
	}
	var req AddSpellRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	if err := h.bookService.AddSpell(c.Request.Context(), id, req.SpellID); err != nil {
		h.writeError(c, err, "add spell failed")
		return
	}
	response.OK(c, nil)
}

func (h *SpellbookHandler) RemoveSpell(c *gin.Context) {
	id, ok := h.bookID(c)
	if !ok {
		return
	}
	spellID, ok := h.spellID(c)
	if !ok {
		return
	}
	if err := h.bookService.RemoveSpell(c.Request.Context(), id, spellID); err != nil {
		h.writeError(c, err, "remove spell failed")
		return
	}
	response.OK(c, nil)
}

func (h *SpellbookHandler) SetPrepared(c *gin.Context) {
	id, ok := h.bookID(c)
	if !ok {
		return
	}
	spellID, ok := h.spellID(c)
	if !ok {
		return
	}
	var req SetPreparedRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Prepared == nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	if err := h.bookService.SetPrepared(c.Request.Context(), id, spellID, *req.Prepared); err != nil {
		h.writeError(c, err, "set prepared failed")
		return
	}
	response.OK(c, nil)
}

func (h *SpellbookHandler) ResetPrepared(c *gin.Context) {
	id, ok := h.bookID(c)
	if !ok {
		return
	}
	if err := h.bookService.ResetPrepared(c.Request.Context(), id); err != nil {
		h.writeError(c, err, "reset prepared failed")
		return
	}
	response.OK(c, nil)
}

func (h *SpellbookHandler) Summary(c *gin.Context) {
	id, ok := h.bookID(c)
	if !ok {
		return
	}
	summary, err := h.bookService.Summarize(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err, "summarize spellbook failed")
		return
	}
	response.OK(c, summary)
}

func (h *SpellbookHandler) Export(c *gin.Context) {
	id, ok := h.bookID(c)
	if !ok {
		return
	}
	token, err := h.bookService.Export(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err, "export spellbook failed")
		return
	}
	response.OK(c, gin.H{"token": token})
}

func (h *SpellbookHandler) Import(c *gin.Context) {
	var req ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	book, err := h.bookService.Import(c.Request.Context(), req.Token, req.Rename)
	if err != nil {
		h.writeError(c, err, "import spellbook failed")
		return
	}
	response.OK(c, book)
}

func (h *SpellbookHandler) bookID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid spellbook id")
		return 0, false
	}
	return uint(id), true
}

func (h *SpellbookHandler) spellID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("spellID"))
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid spell id")
		return 0, false
	}
	return id, true
}

func (h *SpellbookHandler) writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, app.ErrInvalidInput):
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
	case errors.Is(err, app.ErrInvalidToken):
		response.Error(c, http.StatusBadRequest, response.CodeInvalidToken, err.Error())
	case errors.Is(err, app.ErrSpellbookNotFound):
		response.Error(c, http.StatusNotFound, response.CodeSpellbookNotFound, err.Error())
	case errors.Is(err, app.ErrSpellNotFound):
		response.Error(c, http.StatusNotFound, response.CodeSpellNotFound, err.Error())
	case errors.Is(err, app.ErrNotInSpellbook):
		response.Error(c, http.StatusNotFound, response.CodeNotInSpellbook, err.Error())
	case errors.Is(err, app.ErrNameConflict):
		response.Error(c, http.StatusConflict, response.CodeNameConflict, err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, fallback)
	}
}
