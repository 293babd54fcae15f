package pipeline

import "fmt"

// Status is the final state of one manifest entry
type Status string

const (
	StatusSuccess Status = "success"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// Outcome records what happened to one manifest entry
type Outcome struct {
	Index     int // 1-based manifest position
	Name      string
	Site      string
	ContentID string
	Part      string
	Status    Status
	Reason    string // why the entry failed or was skipped
}

// Tally counts entry outcomes for a run
type Tally struct {
	Total   int
	Success int
	Skipped int
}

// Failed is everything that neither succeeded nor was skipped
func (t Tally) Failed() int {
	return t.Total - t.Success - t.Skipped
}

// String renders the end-of-run summary line
func (t Tally) String() string {
	return fmt.Sprintf("success (%d/%d), skipped %d, failed %d", t.Success, t.Total, t.Skipped, t.Failed())
}

// Report is the result of a pipeline run
type Report struct {
	Tally    Tally
	Outcomes []Outcome
}

func (r *Report) record(o Outcome) {
	r.Outcomes = append(r.Outcomes, o)
	switch o.Status {
	case StatusSuccess:
		r.Tally.Success++
	case StatusSkipped:
		r.Tally.Skipped++
	}
}
