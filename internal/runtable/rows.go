// Package runtable turns run lists fetched from the API server into the rows,
// pages and summaries rendered by the results table.
package runtable

import (
	"strings"
	"time"

	"github.com/xxxsen/galasaui/internal/columns"
	"github.com/xxxsen/galasaui/internal/model"
)

const (
	notAvailable = "N/A"
	timeLayout   = "1/2/2006 15:04:05"
)

type Row struct {
	ID          string `json:"id"`
	SubmittedAt string `json:"submittedAt"`
	RunName     string `json:"runName"`
	Requestor   string `json:"requestor"`
	Group       string `json:"group"`
	Bundle      string `json:"bundle"`
	Package     string `json:"package"`
	TestName    string `json:"testName"`
	Status      string `json:"status"`
	Result      string `json:"result"`
}

// Value returns the cell for a column key.
func (r Row) Value(key string) string {
	switch key {
	case columns.SubmittedAt:
		return r.SubmittedAt
	case columns.RunName:
		return r.RunName
	case columns.Requestor:
		return r.Requestor
	case columns.Group:
		return r.Group
	case columns.Bundle:
		return r.Bundle
	case columns.Package:
		return r.Package
	case columns.TestName:
		return r.TestName
	case columns.Status:
		return r.Status
	case columns.Result:
		return r.Result
	}
	return ""
}

// Flatten projects runs into table rows. Missing fields become "N/A".
func Flatten(runs []model.Run, loc *time.Location) []Row {
	if loc == nil {
		loc = time.Local
	}
	rows := make([]Row, 0, len(runs))
	for _, run := range runs {
		s := run.Structure()
		rows = append(rows, Row{
			ID:          run.RunID,
			SubmittedAt: formatTime(s.Queued, loc),
			RunName:     orNA(s.RunName),
			Requestor:   orNA(s.Requestor),
			Group:       orNA(s.Group),
			Bundle:      orNA(s.Bundle),
			Package:     orNA(packageOf(s.TestName)),
			TestName:    orNA(firstNonEmpty(s.TestShortName, s.TestName)),
			Status:      orNA(s.Status),
			Result:      orNA(s.Result),
		})
	}
	return rows
}

func packageOf(testName string) string {
	idx := strings.LastIndex(testName, ".")
	if idx <= 0 {
		return ""
	}
	return testName[:idx]
}

func formatTime(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return notAvailable
	}
	return t.In(loc).Format(timeLayout)
}

func orNA(v string) string {
	if v == "" {
		return notAvailable
	}
	return v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
