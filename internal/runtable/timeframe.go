package runtable

import (
	"fmt"
	"time"

	"github.com/xxxsen/galasaui/internal/model"
)

const NoRunsText = "No test runs found in the last 24 hours."

// TimeFrameText summarises the queued-time span of runs.
func TimeFrameText(runs []model.Run, loc *time.Location) string {
	if len(runs) == 0 {
		return NoRunsText
	}
	if loc == nil {
		loc = time.Local
	}
	var earliest, latest time.Time
	for i, run := range runs {
		q := run.Structure().Queued
		if q.IsZero() {
			q = time.Unix(0, 0)
		}
		if i == 0 || q.Before(earliest) {
			earliest = q
		}
		if i == 0 || q.After(latest) {
			latest = q
		}
	}
	return fmt.Sprintf("Showing test runs submitted between %s and %s",
		earliest.In(loc).Format(timeLayout), latest.In(loc).Format(timeLayout))
}
