package handler

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/galasaui/internal/columns"
	"github.com/xxxsen/galasaui/internal/criteria"
	"github.com/xxxsen/galasaui/internal/featureflag"
	"github.com/xxxsen/galasaui/internal/i18n"
	"github.com/xxxsen/galasaui/internal/model"
	appErr "github.com/xxxsen/galasaui/internal/pkg/errors"
	"github.com/xxxsen/galasaui/internal/runtable"
	"github.com/xxxsen/galasaui/internal/service"
	"github.com/xxxsen/galasaui/internal/status"
	"github.com/xxxsen/galasaui/internal/tabs"
	"github.com/xxxsen/galasaui/internal/view"
)

const (
	testRunsPath = "/test-runs"

	paramPage     = "page"
	paramPageSize = "pageSize"
	// paramFilter remembers which search criterion the editor has open.
	paramFilter = "filter"

	optionsTimeout = 2 * time.Second
)

type PageHandler struct {
	runs     *service.RunService
	saved    *service.SavedQueryService
	renderer *view.Renderer
	catalog  *i18n.Catalog
	flags    *featureflag.Set
	loc      *time.Location
}

func NewPageHandler(runs *service.RunService, saved *service.SavedQueryService, renderer *view.Renderer,
	catalog *i18n.Catalog, flags *featureflag.Set, loc *time.Location) *PageHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &PageHandler{runs: runs, saved: saved, renderer: renderer, catalog: catalog, flags: flags, loc: loc}
}

func (h *PageHandler) localizer(c *gin.Context) *i18n.Localizer {
	if h.flags.Enabled(featureflag.Internationalization) {
		return h.catalog.Localizer(c.GetHeader("Accept-Language"))
	}
	return h.catalog.DefaultLocalizer()
}

func (h *PageHandler) Home(c *gin.Context) {
	c.Redirect(http.StatusFound, testRunsPath)
}

func (h *PageHandler) TestRuns(c *gin.Context) {
	ctx := c.Request.Context()
	values := c.Request.URL.Query()
	l := h.localizer(c)

	set := tabs.New()
	set.SelectSlug(values.Get(tabs.ParamTab))
	design := columns.DesignFromQuery(values)

	data := h.runs.LoadPage(ctx, values)
	editor := criteria.NewEditor(criteria.Catalogue(h.runs.Sources()), criteria.NewURLStore(testRunsPath, values, nil))
	if key := values.Get(paramFilter); key != "" {
		_ = editor.Select(key)
	}
	optCtx, cancel := context.WithTimeout(ctx, optionsTimeout)
	options, optionsOK := editor.Options(optCtx)
	cancel()

	table := runtable.Build(data.Snapshot, design.Visible(),
		atoiDefault(values.Get(paramPage), 1), atoiDefault(values.Get(paramPageSize), runtable.DefaultPageSize), h.loc)
	table = h.localizeTable(l, table)

	var saved []model.SavedQuery
	if login := getLoginID(c); login != "" && h.saved != nil {
		items, err := h.saved.List(ctx, login)
		if err != nil {
			logutil.GetLogger(ctx).Warn("list saved queries failed", zap.Error(err))
		}
		saved = items
	}

	renderPage(c, h.renderer, view.PageTestRuns, view.TestRunsPage{
		L:            l,
		Lang:         l.Language().String(),
		LoginID:      getLoginID(c),
		Query:        values.Encode(),
		Tabs:         h.renderer.Tabs(set, l, testRunsPath, values),
		Design:       design.Rows(),
		Editor:       view.Editor(editor, options, optionsOK),
		Table:        table,
		Rows:         view.Rows(table.Page, table.Headers),
		Pager:        view.Pager(table.Page, testRunsPath, values),
		SavedQueries: saved,
	})
}

func (h *PageHandler) localizeTable(l *i18n.Localizer, v runtable.View) runtable.View {
	switch v.Kind {
	case runtable.ViewLoading:
		v.Message = l.T("TestRunsTable.loading")
	case runtable.ViewError:
		v.Message = l.T("TestRunsTable.error")
	case runtable.ViewEmpty:
		v.Message = l.T("TestRunsTable.noRuns")
	}
	return v
}

func (h *PageHandler) RunDetail(c *gin.Context) {
	run, err := h.runs.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handlePlainError(c, err)
		return
	}
	rows := runtable.Flatten([]model.Run{*run}, h.loc)
	l := h.localizer(c)
	page := view.RunDetailPage{
		L:       l,
		Lang:    l.Language().String(),
		LoginID: getLoginID(c),
		Run:     rows[0],
		Raw:     run,
		Tags:    run.Structure().Tags,
		BackURL: testRunsPath + "?" + tabs.ParamTab + "=results",
	}
	if ind, ok := status.Resolve(run.Structure().Result); ok {
		page.Result = &ind
	}
	renderPage(c, h.renderer, view.PageRunDetail, page)
}

// parseFormQuery reads the page query carried in a hidden form field. The
// page number never survives a change of criteria or design.
func parseFormQuery(c *gin.Context) (url.Values, error) {
	values, err := url.ParseQuery(strings.TrimPrefix(c.PostForm("query"), "?"))
	if err != nil {
		return nil, appErr.ErrInvalid
	}
	values.Del(paramPage)
	return values, nil
}

// Criteria drives the search criteria editor: select a filter, submit its
// draft or cancel it. The browser is sent to the URL the store replaced.
func (h *PageHandler) Criteria(c *gin.Context) {
	values, err := parseFormQuery(c)
	if err != nil {
		handlePlainError(c, err)
		return
	}
	nav := &criteria.RecordingNavigator{}
	store := criteria.NewURLStore(testRunsPath, values, nav)
	editor := criteria.NewEditor(criteria.Catalogue(criteria.Sources{}), store)
	if err := editor.Select(c.PostForm("filter")); err != nil {
		handlePlainError(c, appErr.ErrInvalid)
		return
	}

	switch c.PostForm("action") {
	case "select":
		next := store.Values()
		next.Set(paramFilter, editor.SelectedKey())
		c.Redirect(http.StatusSeeOther, testRunsPath+"?"+next.Encode())
		return
	case "submit":
		if editor.Selected().Kind == criteria.KindMultiSelect {
			editor.SetDraftItems(c.PostFormArray("items"))
		} else {
			editor.SetDraft(c.PostForm("value"))
		}
		editor.Submit()
	case "cancel":
		editor.Cancel()
	default:
		handlePlainError(c, appErr.ErrInvalid)
		return
	}
	target, _, ok := nav.Last()
	if !ok {
		target = store.URL()
	}
	c.Redirect(http.StatusSeeOther, target)
}

// Design applies one table design operation. Ops: toggle:<key>, up:<i>,
// down:<i>, move:<from>:<to>, selectAll, selectNone.
func (h *PageHandler) Design(c *gin.Context) {
	values, err := parseFormQuery(c)
	if err != nil {
		handlePlainError(c, err)
		return
	}
	design := columns.DesignFromQuery(values)
	if err := applyDesignOp(design, c.PostForm("op")); err != nil {
		handlePlainError(c, err)
		return
	}
	design.Apply(values)
	values.Set(tabs.ParamTab, "table-design")
	c.Redirect(http.StatusSeeOther, testRunsPath+"?"+values.Encode())
}

func applyDesignOp(d *columns.Design, op string) error {
	parts := strings.Split(op, ":")
	index := func(i int) (int, error) {
		if len(parts) <= i {
			return 0, appErr.ErrInvalid
		}
		v, err := strconv.Atoi(parts[i])
		if err != nil {
			return 0, appErr.ErrInvalid
		}
		return v, nil
	}
	switch parts[0] {
	case "selectAll":
		d.SelectAll()
	case "selectNone":
		d.SelectNone()
	case "toggle":
		if len(parts) != 2 || !d.Toggle(parts[1]) {
			return appErr.ErrInvalid
		}
	case "up", "down":
		i, err := index(1)
		if err != nil {
			return err
		}
		ok := false
		if parts[0] == "up" {
			ok = d.MoveUp(i)
		} else {
			ok = d.MoveDown(i)
		}
		if !ok {
			return appErr.ErrInvalid
		}
	case "move":
		from, err := index(1)
		if err != nil {
			return err
		}
		to, err := index(2)
		if err != nil {
			return err
		}
		if !d.Move(from, to) {
			return appErr.ErrInvalid
		}
	default:
		return appErr.ErrInvalid
	}
	return nil
}
