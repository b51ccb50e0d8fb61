package tabs

import "strings"

type Tab struct {
	Label string
	Slug  string
	// Key names the tab's label in the message catalogue.
	Key string
	// Body is markdown shown above the tab's own widgets.
	Body string
}

var All = []Tab{
	{
		Label: "Timeframe",
		Slug:  "timeframe",
		Key:   "timeframe",
		Body:  "This page is under construction. Currently, all results for the **last 24 hours** are shown in the Results tab.",
	},
	{
		Label: "Table Design",
		Slug:  "table-design",
		Key:   "tableDesign",
		Body:  "Choose which columns are visible and their order.",
	},
	{
		Label: "Search Criteria",
		Slug:  "search-criteria",
		Key:   "searchCriteria",
		Body:  "Edit search criteria to describe the test results you wish to view",
	},
	{
		Label: "Results",
		Slug:  "results",
		Key:   "results",
		Body:  "Results are displayed here based on the selected timeframe and search criteria.",
	},
}

const ParamTab = "tab"

type Set struct {
	tabs     []Tab
	selected int
}

func New() *Set {
	return &Set{tabs: All}
}

// Select clamps index into range.
func (s *Set) Select(index int) {
	switch {
	case index < 0:
		index = 0
	case index >= len(s.tabs):
		index = len(s.tabs) - 1
	}
	s.selected = index
}

// SelectSlug selects a tab by slug; unknown slugs keep the current tab.
func (s *Set) SelectSlug(slug string) bool {
	slug = strings.ToLower(strings.TrimSpace(slug))
	for i, t := range s.tabs {
		if t.Slug == slug {
			s.selected = i
			return true
		}
	}
	return false
}

func (s *Set) Selected() Tab {
	return s.tabs[s.selected]
}

func (s *Set) SelectedIndex() int {
	return s.selected
}

func (s *Set) Tabs() []Tab {
	return s.tabs
}
