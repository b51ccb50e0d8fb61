package galasaapi

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/xxxsen/galasaui/internal/model"
)

// RunQuery narrows a run listing. Empty fields are not sent.
type RunQuery struct {
	From         time.Time
	To           time.Time
	RunName      string
	Requestor    string
	Group        string
	Bundle       string
	SubmissionID string
	TestName     string
	Tags         string
	Statuses     []string
	Results      []string
	Size         int
	Cursor       string
}

func (q RunQuery) values() url.Values {
	v := url.Values{}
	if !q.From.IsZero() {
		v.Set("from", q.From.UTC().Format(time.RFC3339))
	}
	if !q.To.IsZero() {
		v.Set("to", q.To.UTC().Format(time.RFC3339))
	}
	set := func(key, value string) {
		if value != "" {
			v.Set(key, value)
		}
	}
	set("runname", q.RunName)
	set("requestor", q.Requestor)
	set("group", q.Group)
	set("bundle", q.Bundle)
	set("submissionId", q.SubmissionID)
	set("testname", q.TestName)
	set("tags", q.Tags)
	set("status", strings.Join(q.Statuses, ","))
	set("result", strings.Join(q.Results, ","))
	if q.Size > 0 {
		v.Set("size", strconv.Itoa(q.Size))
	}
	v.Set("sort", "from:desc")
	v.Set("includeCursor", "true")
	set("cursor", q.Cursor)
	return v
}

func (c *Client) GetRuns(ctx context.Context, q RunQuery) (*model.RunsPage, error) {
	var out model.RunsPage
	if err := c.do(ctx, "get runs", http.MethodGet, "/ras/runs", q.values(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetAllRuns follows cursors until max runs are collected or the server has
// no more pages.
func (c *Client) GetAllRuns(ctx context.Context, q RunQuery, max int) ([]model.Run, error) {
	runs := make([]model.Run, 0)
	seen := make(map[string]struct{})
	for {
		page, err := c.GetRuns(ctx, q)
		if err != nil {
			return nil, err
		}
		runs = append(runs, page.Runs...)
		if max > 0 && len(runs) >= max {
			return runs[:max], nil
		}
		if page.NextCursor == "" || len(page.Runs) == 0 {
			return runs, nil
		}
		if _, dup := seen[page.NextCursor]; dup {
			return runs, nil
		}
		seen[page.NextCursor] = struct{}{}
		q.Cursor = page.NextCursor
	}
}

func (c *Client) GetRunByID(ctx context.Context, runID string) (*model.Run, error) {
	var out model.Run
	if err := c.do(ctx, "get run", http.MethodGet, "/ras/runs/"+url.PathEscape(runID), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type requestorsResponse struct {
	Requestors []string `json:"requestors"`
}

func (c *Client) GetRequestors(ctx context.Context) ([]string, error) {
	query := url.Values{}
	query.Set("sort", "requestor:asc")
	var out requestorsResponse
	if err := c.do(ctx, "get requestors", http.MethodGet, "/ras/requestors", query, nil, &out); err != nil {
		return nil, err
	}
	return out.Requestors, nil
}

type resultNamesResponse struct {
	ResultNames []string `json:"resultnames"`
}

func (c *Client) GetResultNames(ctx context.Context) ([]string, error) {
	query := url.Values{}
	query.Set("sort", "resultnames:asc")
	var out resultNamesResponse
	if err := c.do(ctx, "get result names", http.MethodGet, "/ras/resultnames", query, nil, &out); err != nil {
		return nil, err
	}
	return out.ResultNames, nil
}
