package columns

import (
	"net/url"
	"strings"
)

const (
	ParamVisible = "visibleColumns"
	ParamOrder   = "columnsOrder"
)

// Design is the ordered, selectable list behind the "Table Design" tab.
// Rows never reorder themselves; every move goes through the Design.
type Design struct {
	order    []string
	selected map[string]bool
}

func DefaultDesign() *Design {
	d := &Design{order: Keys(), selected: make(map[string]bool)}
	for _, k := range d.order {
		d.selected[k] = true
	}
	return d
}

// DesignFromQuery restores a design from visibleColumns / columnsOrder.
// Keys missing from columnsOrder are appended in default order so the list
// always covers every column.
func DesignFromQuery(values url.Values) *Design {
	d := DefaultDesign()
	if raw, ok := values[ParamOrder]; ok && len(raw) > 0 {
		order := ParseKeys(raw[0])
		seen := make(map[string]struct{}, len(order))
		for _, k := range order {
			seen[k] = struct{}{}
		}
		for _, k := range Keys() {
			if _, ok := seen[k]; !ok {
				order = append(order, k)
			}
		}
		d.order = order
	}
	if raw, ok := values[ParamVisible]; ok && len(raw) > 0 {
		d.selected = make(map[string]bool)
		for _, k := range ParseKeys(raw[0]) {
			d.selected[k] = true
		}
	}
	return d
}

func (d *Design) Len() int {
	return len(d.order)
}

func (d *Design) Order() []string {
	out := make([]string, len(d.order))
	copy(out, d.order)
	return out
}

func (d *Design) IsSelected(key string) bool {
	return d.selected[key]
}

func (d *Design) Toggle(key string) bool {
	if _, ok := byKey[key]; !ok {
		return false
	}
	d.selected[key] = !d.selected[key]
	return true
}

func (d *Design) SelectAll() {
	for _, k := range d.order {
		d.selected[k] = true
	}
}

func (d *Design) SelectNone() {
	d.selected = make(map[string]bool)
}

func (d *Design) MoveUp(index int) bool {
	return d.Move(index, index-1)
}

func (d *Design) MoveDown(index int) bool {
	return d.Move(index, index+1)
}

// Move relocates the row at from to position to, shifting the rows between.
func (d *Design) Move(from, to int) bool {
	n := len(d.order)
	if from < 0 || from >= n || to < 0 || to >= n || from == to {
		return false
	}
	key := d.order[from]
	rest := append(d.order[:from:from], d.order[from+1:]...)
	moved := make([]string, 0, n)
	moved = append(moved, rest[:to]...)
	moved = append(moved, key)
	moved = append(moved, rest[to:]...)
	d.order = moved
	return true
}

// Visible returns the selected columns in design order.
func (d *Design) Visible() []Column {
	out := make([]Column, 0, len(d.order))
	for _, k := range d.order {
		if d.selected[k] {
			out = append(out, byKey[k])
		}
	}
	return out
}

// Apply writes the design into values. A design equal to the default
// removes both parameters.
func (d *Design) Apply(values url.Values) {
	if d.isDefault() {
		values.Del(ParamOrder)
		values.Del(ParamVisible)
		return
	}
	values.Set(ParamOrder, strings.Join(d.order, ","))
	visible := make([]string, 0, len(d.order))
	for _, k := range d.order {
		if d.selected[k] {
			visible = append(visible, k)
		}
	}
	values.Set(ParamVisible, strings.Join(visible, ","))
}

func (d *Design) isDefault() bool {
	for i, k := range Keys() {
		if d.order[i] != k || !d.selected[k] {
			return false
		}
	}
	return true
}

type Row struct {
	Key      string
	Label    string
	Index    int
	Selected bool
	ShowUp   bool
	ShowDown bool
}

func (d *Design) Rows() []Row {
	rows := make([]Row, 0, len(d.order))
	for i, k := range d.order {
		rows = append(rows, Row{
			Key:      k,
			Label:    byKey[k].Header,
			Index:    i,
			Selected: d.selected[k],
			ShowUp:   i > 0,
			ShowDown: i < len(d.order)-1,
		})
	}
	return rows
}
