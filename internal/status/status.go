// Package status maps run status and result strings to the icon and label
// shown next to them in the results table.
package status

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type Kind int

const (
	KindOther Kind = iota
	KindPassed
	KindFailed
	KindRequeued
	KindCancelled
	KindHung
)

type Style struct {
	Icon  string
	Class string
}

var styles = map[Kind]Style{
	KindOther:     {Icon: "Help", Class: "status-other"},
	KindPassed:    {Icon: "CheckmarkFilled", Class: "status-passed"},
	KindFailed:    {Icon: "ErrorFilled", Class: "status-failed"},
	KindRequeued:  {Icon: "Renew", Class: "status-requeued"},
	KindCancelled: {Icon: "StopFilled", Class: "status-cancelled"},
	KindHung:      {Icon: "WarningFilled", Class: "status-hung"},
}

var kinds = map[string]Kind{
	"passed":    KindPassed,
	"failed":    KindFailed,
	"envfail":   KindFailed,
	"requeued":  KindRequeued,
	"cancelled": KindCancelled,
	"hung":      KindHung,
}

func (k Kind) Style() Style {
	if s, ok := styles[k]; ok {
		return s
	}
	return styles[KindOther]
}

func (k Kind) String() string {
	switch k {
	case KindPassed:
		return "passed"
	case KindFailed:
		return "failed"
	case KindRequeued:
		return "requeued"
	case KindCancelled:
		return "cancelled"
	case KindHung:
		return "hung"
	default:
		return "other"
	}
}

type Indicator struct {
	Kind  Kind
	Icon  string
	Class string
	Label string
}

// KindOf classifies a status string. Unknown values are KindOther.
func KindOf(status string) Kind {
	if k, ok := kinds[strings.ToLower(strings.TrimSpace(status))]; ok {
		return k
	}
	return KindOther
}

// Resolve returns the indicator for status. ok is false for an empty status,
// in which case nothing should be rendered.
func Resolve(status string) (Indicator, bool) {
	if status == "" {
		return Indicator{}, false
	}
	kind := KindOf(status)
	style := kind.Style()
	return Indicator{
		Kind:  kind,
		Icon:  style.Icon,
		Class: style.Class,
		Label: capitalize(status),
	}, true
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
