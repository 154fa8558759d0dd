package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BubbleCoding/Spellfinder-PF1E/internal/app"
	"github.com/BubbleCoding/Spellfinder-PF1E/internal/search"
	"github.com/BubbleCoding/Spellfinder-PF1E/internal/transport/http/response"
)

type SpellHandler struct {
	searchService *app.SearchService
}

func NewSpellHandler(searchService *app.SearchService) *SpellHandler {
	return &SpellHandler{searchService: searchService}
}

func (h *SpellHandler) Search(c *gin.Context) {
	filters := make(map[string][]string)
	for _, name := range search.FilterNames() {
		if values := c.QueryArray(name); len(values) > 0 {
			filters[name] = values
		}
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

	input := app.SearchInput{
		Text:       c.Query("q"),
		Filters:    filters,
		Flags:      c.QueryArray("flag"),
		Exclusions: c.QueryArray("exclude"),
		IDs:        c.QueryArray("id"),
		Sort:       c.Query("sort"),
		Page:       page,
		PerPage:    c.Query("per_page"),
	}

	result, err := h.searchService.Search(c.Request.Context(), input)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "search failed")
		return
	}
	response.OK(c, result)
}

func (h *SpellHandler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid spell id")
		return
	}

	spell, err := h.searchService.Get(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, app.ErrSpellNotFound):
			response.Error(c, http.StatusNotFound, response.CodeSpellNotFound, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "fetch spell failed")
		}
		return
	}
	response.OK(c, spell)
}
