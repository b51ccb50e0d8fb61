package criteria

import (
	"context"
	"strings"
)

type Kind int

const (
	KindText Kind = iota
	KindMultiSelect
)

// OptionSource lists the values a filter offers. A source that fails or is
// still pending never blocks the editor; the filter just has no suggestions.
type OptionSource func(ctx context.Context) ([]string, error)

type Filter struct {
	Key         string
	Label       string
	Description string
	Placeholder string
	Kind        Kind
	Options     []string
	Source      OptionSource
}

const (
	KeyRunName      = "runName"
	KeyRequestor    = "requestor"
	KeyGroup        = "group"
	KeyBundle       = "bundle"
	KeySubmissionID = "submissionId"
	KeyTestName     = "testName"
	KeyStatus       = "status"
	KeyTags         = "tags"
	KeyResult       = "result"
)

var RunStatuses = []string{
	"Queued", "Started", "Generating", "Building", "Provstart",
	"Running", "Rundone", "Ending", "Finished",
}

// Sources supplies the option lists that come from the API server.
type Sources struct {
	Requestors  OptionSource
	ResultNames OptionSource
}

// Catalogue returns the filters in display order. The first entry is the
// one selected when the editor opens.
func Catalogue(src Sources) []Filter {
	return []Filter{
		{Key: KeyRunName, Label: "Test Run Name", Description: "Type the name of one test run.", Placeholder: "any", Kind: KindText},
		{Key: KeyRequestor, Label: "Requestor", Description: "Type the name of a requestor.", Placeholder: "any", Kind: KindText, Source: src.Requestors},
		{Key: KeyGroup, Label: "Group", Description: "Type the name of a group.", Placeholder: "any", Kind: KindText},
		{Key: KeyBundle, Label: "Bundle", Description: "Type the name of a bundle.", Placeholder: "any", Kind: KindText},
		{Key: KeySubmissionID, Label: "Submission ID", Description: "Type the submission ID of a test run.", Placeholder: "any", Kind: KindText},
		{Key: KeyTestName, Label: "Test Name", Description: "Type the name of a test.", Placeholder: "any", Kind: KindText},
		{Key: KeyStatus, Label: "Status", Description: "Select the statuses of interest.", Kind: KindMultiSelect, Options: RunStatuses},
		{Key: KeyTags, Label: "Tags", Description: "Type a tag.", Placeholder: "any", Kind: KindText},
		{Key: KeyResult, Label: "Result", Description: "Select the results of interest.", Kind: KindMultiSelect, Source: src.ResultNames},
	}
}

// Keys returns every filter key of the catalogue.
func Keys() []string {
	filters := Catalogue(Sources{})
	keys := make([]string, 0, len(filters))
	for _, f := range filters {
		keys = append(keys, f.Key)
	}
	return keys
}

// SplitList parses a comma separated multi-select value.
func SplitList(raw string) []string {
	out := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		if v := strings.TrimSpace(part); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func JoinList(items []string) string {
	return strings.Join(items, ",")
}

func DisplayList(items []string) string {
	return strings.Join(items, ", ")
}
