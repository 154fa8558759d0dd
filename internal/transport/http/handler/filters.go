package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BubbleCoding/Spellfinder-PF1E/internal/app"
	"github.com/BubbleCoding/Spellfinder-PF1E/internal/transport/http/response"
)

type FilterHandler struct {
	filterService *app.FilterService
}

func NewFilterHandler(filterService *app.FilterService) *FilterHandler {
	return &FilterHandler{filterService: filterService}
}

func (h *FilterHandler) Options(c *gin.Context) {
	options, err := h.filterService.Options(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "load filter options failed")
		return
	}
	response.OK(c, options)
}
