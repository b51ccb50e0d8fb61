package columns

import "strings"

type Column struct {
	Key    string
	Header string
}

const (
	SubmittedAt = "submittedAt"
	RunName     = "runName"
	Requestor   = "requestor"
	Group       = "group"
	Bundle      = "bundle"
	Package     = "package"
	TestName    = "testName"
	Status      = "status"
	Result      = "result"
)

// Results lists the result table columns in their default order.
var Results = []Column{
	{Key: SubmittedAt, Header: "Submitted at"},
	{Key: RunName, Header: "Test Run Name"},
	{Key: Requestor, Header: "Requestor"},
	{Key: Group, Header: "Group"},
	{Key: Bundle, Header: "Bundle"},
	{Key: Package, Header: "Package"},
	{Key: TestName, Header: "Test Name"},
	{Key: Status, Header: "Status"},
	{Key: Result, Header: "Result"},
}

var byKey = func() map[string]Column {
	m := make(map[string]Column, len(Results))
	for _, c := range Results {
		m[c.Key] = c
	}
	return m
}()

func Lookup(key string) (Column, bool) {
	c, ok := byKey[key]
	return c, ok
}

func Keys() []string {
	keys := make([]string, 0, len(Results))
	for _, c := range Results {
		keys = append(keys, c.Key)
	}
	return keys
}

// ParseKeys splits a comma separated key list, dropping unknown and
// duplicate keys.
func ParseKeys(raw string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		key := strings.TrimSpace(part)
		if _, ok := byKey[key]; !ok {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	return out
}
