package entity

import "time"

type Screenshot struct {
	Data   []byte
	Format string
	Width  int
	Height int
}

// QueryRecord describes one completed element query.
type QueryRecord struct {
	Locator         Locator
	WaitEnabled     bool
	CheckVisibility bool
	CheckEnabled    bool
	ExpectedCount   int
	Timeout         time.Duration
	IgnoredKinds    []string
	Conditions      int

	Elapsed time.Duration
	Found   int
	Err     error
}

func (r QueryRecord) Succeeded() bool {
	return r.Err == nil
}
