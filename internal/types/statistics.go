package types

type Statistics struct {
	Checked int `json:"checked" yaml:"checked"`
	Deleted int `json:"deleted" yaml:"deleted"`
	Kept    int `json:"kept" yaml:"kept"`
	Errors  int `json:"errors" yaml:"errors"`
}

// Add folds one outcome into the counters. Floor-exempt tags are never
// checked and leave the statistics untouched.
func (s Statistics) Add(outcome TagOutcome) Statistics {
	if outcome.FloorExempt() {
		return s
	}
	s.Checked++
	switch outcome.Kind {
	case OutcomeDeleted, OutcomeWouldDelete:
		s.Deleted++
	case OutcomeKept:
		s.Kept++
	case OutcomeFailed:
		s.Errors++
	}
	return s
}

func (s Statistics) Merge(other Statistics) Statistics {
	return Statistics{
		Checked: s.Checked + other.Checked,
		Deleted: s.Deleted + other.Deleted,
		Kept:    s.Kept + other.Kept,
		Errors:  s.Errors + other.Errors,
	}
}

func (s Statistics) WithFetchError() Statistics {
	s.Errors++
	return s
}
