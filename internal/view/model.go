package view

import (
	"html/template"
	"net/url"
	"strconv"

	"github.com/xxxsen/galasaui/internal/columns"
	"github.com/xxxsen/galasaui/internal/criteria"
	"github.com/xxxsen/galasaui/internal/i18n"
	"github.com/xxxsen/galasaui/internal/model"
	"github.com/xxxsen/galasaui/internal/runtable"
	"github.com/xxxsen/galasaui/internal/status"
	"github.com/xxxsen/galasaui/internal/tabs"
)

type TabView struct {
	Label    string
	Slug     string
	URL      string
	Body     template.HTML
	Selected bool
}

type OptionView struct {
	Value   string
	Checked bool
}

type EditorView struct {
	Key         string
	Label       string
	Description string
	Placeholder string
	Multi       bool
	Draft       string
	Options     []OptionView
	// OptionsUnavailable is set when the option source failed; the editor
	// still works as free text.
	OptionsUnavailable bool
	Rows               []criteria.Row
}

type CellView struct {
	Text      string
	Indicator *status.Indicator
}

type RowView struct {
	ID    string
	URL   string
	Cells []CellView
}

type PagerView struct {
	Page       int
	TotalPages int
	PageSize   int
	PageSizes  []int
	TotalItems int
	PrevURL    string
	NextURL    string
}

type TestRunsPage struct {
	L            *i18n.Localizer
	Lang         string
	LoginID      string
	Query        string
	Tabs         []TabView
	Design       []columns.Row
	Editor       EditorView
	Table        runtable.View
	Rows         []RowView
	Pager        PagerView
	SavedQueries []model.SavedQuery
}

type RunDetailPage struct {
	L       *i18n.Localizer
	Lang    string
	LoginID string
	Run     runtable.Row
	Raw     *model.Run
	Result  *status.Indicator
	Tags    []string
	BackURL string
}

type TokenCreatedPage struct {
	L           *i18n.Localizer
	Lang        string
	LoginID     string
	Description string
	Token       string
}

// Tabs builds the tab strip; each tab links to the current query with its
// slug as the tab parameter.
func (r *Renderer) Tabs(set *tabs.Set, l *i18n.Localizer, path string, values url.Values) []TabView {
	out := make([]TabView, 0, len(set.Tabs()))
	for i, tab := range set.Tabs() {
		q := cloneValues(values)
		q.Set(tabs.ParamTab, tab.Slug)
		out = append(out, TabView{
			Label:    l.T("TestRunsTabs." + tab.Key),
			Slug:     tab.Slug,
			URL:      path + "?" + q.Encode(),
			Body:     r.TabBody(tab.Slug),
			Selected: i == set.SelectedIndex(),
		})
	}
	return out
}

// Rows renders one page of the results table. Result cells carry a status
// indicator when the value is recognised.
func Rows(page runtable.Page, headers []columns.Column) []RowView {
	out := make([]RowView, 0, len(page.Rows))
	for _, row := range page.Rows {
		cells := make([]CellView, 0, len(headers))
		for _, h := range headers {
			cell := CellView{Text: row.Value(h.Key)}
			if h.Key == columns.Result {
				if ind, ok := status.Resolve(row.Result); ok {
					cell.Indicator = &ind
				}
			}
			cells = append(cells, cell)
		}
		out = append(out, RowView{ID: row.ID, URL: "/test-runs/" + url.PathEscape(row.ID), Cells: cells})
	}
	return out
}

// Pager builds the page links. The page parameter is dropped on page 1.
func Pager(page runtable.Page, path string, values url.Values) PagerView {
	link := func(n int) string {
		q := cloneValues(values)
		if n <= 1 {
			q.Del("page")
		} else {
			q.Set("page", strconv.Itoa(n))
		}
		return path + "?" + q.Encode()
	}
	p := PagerView{
		Page:       page.Page,
		TotalPages: page.TotalPages,
		PageSize:   page.PageSize,
		PageSizes:  runtable.PageSizes,
		TotalItems: page.TotalItems,
	}
	if page.HasPrev() {
		p.PrevURL = link(page.Page - 1)
	}
	if page.HasNext() {
		p.NextURL = link(page.Page + 1)
	}
	return p
}

func Editor(e *criteria.Editor, options []string, optionsOK bool) EditorView {
	f := e.Selected()
	v := EditorView{
		Key:                f.Key,
		Label:              f.Label,
		Description:        f.Description,
		Placeholder:        f.Placeholder,
		Multi:              f.Kind == criteria.KindMultiSelect,
		Draft:              e.Draft(),
		OptionsUnavailable: !optionsOK,
		Rows:               e.Rows(),
	}
	items := e.DraftItems()
	checked := make(map[string]bool, len(items))
	for _, item := range items {
		checked[item] = true
	}
	listed := make(map[string]bool, len(options))
	for _, opt := range options {
		listed[opt] = true
		v.Options = append(v.Options, OptionView{Value: opt, Checked: checked[opt]})
	}
	// Values outside the option list stay selectable, otherwise the next
	// submit would drop them.
	if v.Multi {
		for _, item := range items {
			if !listed[item] {
				listed[item] = true
				v.Options = append(v.Options, OptionView{Value: item, Checked: true})
			}
		}
	}
	return v
}

func cloneValues(values url.Values) url.Values {
	out := make(url.Values, len(values))
	for k, v := range values {
		out[k] = append([]string(nil), v...)
	}
	return out
}
