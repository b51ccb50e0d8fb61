package runtable

import (
	"time"

	"github.com/xxxsen/galasaui/internal/columns"
	"github.com/xxxsen/galasaui/internal/model"
)

type ViewKind int

const (
	ViewLoading ViewKind = iota
	ViewError
	ViewEmpty
	ViewTable
)

type View struct {
	Kind          ViewKind
	Message       string
	TimeFrameText string
	Headers       []columns.Column
	Page          Page
}

func (v View) IsTable() bool {
	return v.Kind == ViewTable
}

// Build renders a snapshot into the table view for one page.
func Build(s Snapshot, headers []columns.Column, page, pageSize int, loc *time.Location) View {
	switch s.State {
	case StateLoading:
		return View{Kind: ViewLoading, Message: "Loading test runs..."}
	case StateFailed:
		return View{Kind: ViewError, Message: "Something went wrong while fetching test runs."}
	}
	return BuildFromRuns(s.Runs, headers, page, pageSize, loc)
}

func BuildFromRuns(runs []model.Run, headers []columns.Column, page, pageSize int, loc *time.Location) View {
	rows := Flatten(runs, loc)
	if len(rows) == 0 {
		return View{Kind: ViewEmpty, Message: NoRunsText}
	}
	return View{
		Kind:          ViewTable,
		TimeFrameText: TimeFrameText(runs, loc),
		Headers:       headers,
		Page:          Paginate(rows, page, pageSize),
	}
}
