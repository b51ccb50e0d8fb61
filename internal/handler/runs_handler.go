package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xxxsen/galasaui/internal/columns"
	"github.com/xxxsen/galasaui/internal/model"
	"github.com/xxxsen/galasaui/internal/pkg/response"
	"github.com/xxxsen/galasaui/internal/runtable"
	"github.com/xxxsen/galasaui/internal/service"
)

type RunsHandler struct {
	runs *service.RunService
	loc  *time.Location
}

func NewRunsHandler(runs *service.RunService, loc *time.Location) *RunsHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &RunsHandler{runs: runs, loc: loc}
}

type runsResponse struct {
	Columns       []columns.Column `json:"columns"`
	TimeFrameText string           `json:"timeFrameText"`
	runtable.Page
}

// List answers one page of flattened rows for the criteria, design and
// paging parameters of the query string.
func (h *RunsHandler) List(c *gin.Context) {
	values := c.Request.URL.Query()
	snap := h.runs.Load(c.Request.Context(), values)
	if snap.State == runtable.StateFailed {
		handleError(c, snap.Err)
		return
	}
	design := columns.DesignFromQuery(values)
	rows := runtable.Flatten(snap.Runs, h.loc)
	page := runtable.Paginate(rows, atoiDefault(c.Query(paramPage), 1), atoiDefault(c.Query(paramPageSize), runtable.DefaultPageSize))
	response.Success(c, runsResponse{
		Columns:       design.Visible(),
		TimeFrameText: runtable.TimeFrameText(snap.Runs, h.loc),
		Page:          page,
	})
}

func (h *RunsHandler) Get(c *gin.Context) {
	run, err := h.runs.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	rows := runtable.Flatten([]model.Run{*run}, h.loc)
	response.Success(c, gin.H{"run": run, "row": rows[0]})
}

// Options lists the values offered by the requestor and result filters.
// A failing source yields an empty list.
func (h *RunsHandler) Options(c *gin.Context) {
	data := struct {
		Requestors  []string `json:"requestors"`
		ResultNames []string `json:"resultNames"`
	}{Requestors: []string{}, ResultNames: []string{}}
	if items, err := h.runs.Requestors(c.Request.Context()); err == nil {
		data.Requestors = items
	}
	if items, err := h.runs.ResultNames(c.Request.Context()); err == nil {
		data.ResultNames = items
	}
	response.Success(c, data)
}
