package handler

import (
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/xxxsen/galasaui/internal/pkg/errcode"
	"github.com/xxxsen/galasaui/internal/pkg/response"
	"github.com/xxxsen/galasaui/internal/service"
)

type ExportHandler struct {
	export *service.ExportService
}

func NewExportHandler(export *service.ExportService) *ExportHandler {
	return &ExportHandler{export: export}
}

type exportCreateRequest struct {
	Query string `json:"query"`
}

// Create exports every run matching the query string, in the column layout
// of the table design it carries.
func (h *ExportHandler) Create(c *gin.Context) {
	var req exportCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	values, err := url.ParseQuery(strings.TrimPrefix(req.Query, "?"))
	if err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid query")
		return
	}
	item, err := h.export.Create(c.Request.Context(), getLoginID(c), values)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, item)
}

func (h *ExportHandler) Get(c *gin.Context) {
	key := c.Param("key")
	rc, err := h.export.Open(c.Request.Context(), getLoginID(c), key)
	if err != nil {
		handleError(c, err)
		return
	}
	defer func() { _ = rc.Close() }()
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="test-runs-`+key+`"`)
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, rc); err != nil {
		logError(c, err)
	}
}
