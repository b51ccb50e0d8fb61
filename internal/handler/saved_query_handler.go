package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xxxsen/galasaui/internal/pkg/errcode"
	"github.com/xxxsen/galasaui/internal/pkg/response"
	"github.com/xxxsen/galasaui/internal/service"
)

type SavedQueryHandler struct {
	service *service.SavedQueryService
}

func NewSavedQueryHandler(service *service.SavedQueryService) *SavedQueryHandler {
	return &SavedQueryHandler{service: service}
}

type savedQueryCreateRequest struct {
	Name  string `json:"name"`
	Query string `json:"query"`
}

func (h *SavedQueryHandler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context(), getLoginID(c))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, items)
}

func (h *SavedQueryHandler) Create(c *gin.Context) {
	var req savedQueryCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	item, err := h.service.Create(c.Request.Context(), getLoginID(c), service.SavedQueryCreateInput{
		Name:  req.Name,
		Query: req.Query,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, item)
}

func (h *SavedQueryHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), getLoginID(c), c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"ok": true})
}
