package model

import "time"

type TestStructure struct {
	RunName       string    `json:"runName,omitempty"`
	Bundle        string    `json:"bundle,omitempty"`
	TestName      string    `json:"testName,omitempty"`
	TestShortName string    `json:"testShortName,omitempty"`
	Requestor     string    `json:"requestor,omitempty"`
	Group         string    `json:"group,omitempty"`
	SubmissionID  string    `json:"submissionId,omitempty"`
	Status        string    `json:"status,omitempty"`
	Result        string    `json:"result,omitempty"`
	Queued        time.Time `json:"queued,omitempty"`
	StartTime     time.Time `json:"startTime,omitempty"`
	EndTime       time.Time `json:"endTime,omitempty"`
	Tags          []string  `json:"tags,omitempty"`
}

// Run mirrors the API server's run record. The web tier never mutates it.
type Run struct {
	RunID         string         `json:"runId"`
	TestStructure *TestStructure `json:"testStructure,omitempty"`
}

func (r Run) Structure() TestStructure {
	if r.TestStructure == nil {
		return TestStructure{}
	}
	return *r.TestStructure
}

type RunsPage struct {
	PageSize     int    `json:"pageSize"`
	AmountOfRuns int    `json:"amountOfRuns"`
	NextCursor   string `json:"nextCursor,omitempty"`
	Runs         []Run  `json:"runs"`
}
