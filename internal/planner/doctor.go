package planner

import (
	"fmt"

	"github.com/julianstephens/pdcaflow/internal/engine"
)

// Problem is one invariant violation found in a stored record.
type Problem struct {
	Date string
	Err  error
}

func (p Problem) String() string {
	return fmt.Sprintf("%s: %v", p.Date, p.Err)
}

// Diagnose validates every stored record as it is on disk, without reconciling.
func (p *Planner) Diagnose() ([]Problem, int, error) {
	records, err := p.store.GetAllRecords()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load records: %w", err)
	}
	var problems []Problem
	for _, r := range records {
		for _, err := range engine.Validate(r) {
			problems = append(problems, Problem{Date: r.Date, Err: err})
		}
	}
	return problems, len(records), nil
}
