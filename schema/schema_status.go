package schema

import "time"

// StoreStatus represents the status of the record store.
type StoreStatus struct {
	Backend        string     `json:"backend"`
	Connected      bool       `json:"connected"`
	TotalRecords   int64      `json:"total_records"`
	EarliestDate   *time.Time `json:"earliest_date,omitempty"`
	LatestDate     *time.Time `json:"latest_date,omitempty"`
	Boroughs       int64      `json:"boroughs"` // Distinct non-null boroughs
	TableSizeBytes int64      `json:"table_size_bytes"`
}

// StepResult is the outcome of one cleaning step.
type StepResult struct {
	Name        StepName `json:"name"`
	RowsDeleted int64    `json:"rows_deleted"`
	Skipped     bool     `json:"skipped"`
	Err         error    `json:"-"`
	Error       string   `json:"error,omitempty"`
}

// Failed reports whether the step ran and did not commit.
func (s StepResult) Failed() bool {
	return s.Err != nil
}

// CleaningReport is the outcome of a full cleaning pipeline run.
type CleaningReport struct {
	Steps          []StepResult `json:"steps"`
	RemainingRows  int64        `json:"remaining_rows"`
	TargetBorough  string       `json:"target_borough"`
	SeasonsApplied []DateRange  `json:"seasons"`
}

// Err returns the error of the first failed step, if any.
func (r CleaningReport) Err() error {
	for _, s := range r.Steps {
		if s.Err != nil {
			return s.Err
		}
	}
	return nil
}

// TotalDeleted returns the number of records removed across all steps.
func (r CleaningReport) TotalDeleted() int64 {
	var total int64
	for _, s := range r.Steps {
		total += s.RowsDeleted
	}
	return total
}
