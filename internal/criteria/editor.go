package criteria

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownFilter = errors.New("unknown filter")

// Editor is the search criteria editor. Exactly one filter is selected at a
// time and Select is the only way to change it. Drafts are kept per filter
// and only reach the store on Submit.
type Editor struct {
	filters   []Filter
	index     map[string]int
	store     Store
	selected  string
	committed map[string]string
	drafts    map[string]string
}

// NewEditor builds an editor whose committed values are read from store.
// The first filter starts selected.
func NewEditor(filters []Filter, store Store) *Editor {
	e := &Editor{
		filters:   filters,
		index:     make(map[string]int, len(filters)),
		store:     store,
		committed: make(map[string]string),
		drafts:    make(map[string]string),
	}
	for i, f := range filters {
		e.index[f.Key] = i
		if v, ok := store.Get(f.Key); ok && strings.TrimSpace(v) != "" {
			e.committed[f.Key] = v
			e.drafts[f.Key] = e.display(f, v)
		}
	}
	if len(filters) > 0 {
		e.selected = filters[0].Key
	}
	return e
}

func (e *Editor) Select(key string) error {
	if _, ok := e.index[key]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownFilter, key)
	}
	e.selected = key
	return nil
}

func (e *Editor) Selected() Filter {
	if i, ok := e.index[e.selected]; ok {
		return e.filters[i]
	}
	return Filter{}
}

func (e *Editor) SelectedKey() string {
	return e.selected
}

// SetDraft replaces the draft of the selected filter.
func (e *Editor) SetDraft(value string) {
	e.drafts[e.selected] = value
}

// SetDraftItems replaces the draft of the selected multi-select filter.
func (e *Editor) SetDraftItems(items []string) {
	e.drafts[e.selected] = DisplayList(dedupe(items))
}

func (e *Editor) Draft() string {
	return e.drafts[e.selected]
}

func (e *Editor) DraftItems() []string {
	return SplitList(e.drafts[e.selected])
}

// Submit commits the selected filter's draft. An empty value removes the
// filter from the store instead of storing an empty string.
func (e *Editor) Submit() {
	f := e.Selected()
	value := e.normalize(f, e.drafts[f.Key])
	if value == "" {
		delete(e.committed, f.Key)
		delete(e.drafts, f.Key)
		e.store.Delete(f.Key)
		return
	}
	e.committed[f.Key] = value
	e.drafts[f.Key] = e.display(f, value)
	e.store.Set(f.Key, value)
}

// Cancel throws the selected filter's draft away.
func (e *Editor) Cancel() {
	f := e.Selected()
	if v, ok := e.committed[f.Key]; ok {
		e.drafts[f.Key] = e.display(f, v)
		return
	}
	delete(e.drafts, f.Key)
}

// Committed returns the display form of a filter's committed value.
func (e *Editor) Committed(key string) string {
	i, ok := e.index[key]
	if !ok {
		return ""
	}
	v, ok := e.committed[key]
	if !ok {
		return ""
	}
	return e.display(e.filters[i], v)
}

type Row struct {
	Key      string
	Label    string
	Value    string
	Selected bool
}

func (e *Editor) Rows() []Row {
	rows := make([]Row, 0, len(e.filters))
	for _, f := range e.filters {
		rows = append(rows, Row{
			Key:      f.Key,
			Label:    f.Label,
			Value:    e.Committed(f.Key),
			Selected: f.Key == e.selected,
		})
	}
	return rows
}

// Options lists the choices for the selected filter. ok is false when the
// source failed or the context ran out first.
func (e *Editor) Options(ctx context.Context) ([]string, bool) {
	f := e.Selected()
	if f.Source == nil {
		return f.Options, true
	}
	items, err := f.Source(ctx)
	if err != nil {
		return f.Options, false
	}
	return items, true
}

func (e *Editor) normalize(f Filter, raw string) string {
	if f.Kind == KindMultiSelect {
		return JoinList(dedupe(SplitList(raw)))
	}
	return strings.TrimSpace(raw)
}

func (e *Editor) display(f Filter, v string) string {
	if f.Kind == KindMultiSelect {
		return DisplayList(SplitList(v))
	}
	return v
}

func dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
