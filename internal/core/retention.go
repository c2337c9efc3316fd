package core

import (
	"sort"
	"time"

	"jfrog-cleaner/internal/types"
)

// Decision is the engine verdict for one tag outside the keep-minimum floor.
// Candidates still need the deletion executor; every other decision already
// carries its final outcome.
type Decision struct {
	Tag       types.Tag
	Modified  time.Time
	Candidate bool
	Outcome   types.TagOutcome
}

type Evaluation struct {
	Policy    types.PolicySetting
	Cutoff    time.Time
	Total     int
	Floor     []types.TagOutcome
	Decisions []Decision
	// MalformedFloor lists floor tags kept despite an unparseable timestamp.
	MalformedFloor []types.Tag
}

type datedTag struct {
	tag       types.Tag
	modified  time.Time
	malformed bool
	err       error
}

// Evaluate partitions one image's tags into the keep-minimum floor, tags kept
// for being too recent, tags with unusable timestamps and deletion
// candidates. The input slice is not modified.
func Evaluate(tags []types.Tag, policy types.PolicySetting, now time.Time) Evaluation {
	if now.IsZero() {
		now = time.Now().UTC()
	}
	normalized := normalizePolicy(policy)
	eval := Evaluation{
		Policy: normalized,
		Cutoff: now.AddDate(0, 0, -normalized.DaysOld),
		Total:  len(tags),
	}
	if len(tags) == 0 {
		return eval
	}

	sorted := sortNewestFirst(tags)
	floorSize := normalized.KeepMinimum
	if floorSize > len(sorted) {
		floorSize = len(sorted)
	}
	for _, entry := range sorted[:floorSize] {
		eval.Floor = append(eval.Floor, types.TagOutcome{
			Tag:        entry.tag,
			Kind:       types.OutcomeKept,
			KeepReason: types.KeepReasonFloorExempt,
			Modified:   entry.modified,
		})
		if entry.malformed {
			eval.MalformedFloor = append(eval.MalformedFloor, entry.tag)
		}
	}
	for _, entry := range sorted[floorSize:] {
		eval.Decisions = append(eval.Decisions, decide(entry, eval.Cutoff))
	}
	return eval
}

func decide(entry datedTag, cutoff time.Time) Decision {
	decision := Decision{Tag: entry.tag, Modified: entry.modified}
	switch {
	case entry.malformed:
		decision.Outcome = types.TagOutcome{
			Tag:           entry.tag,
			Kind:          types.OutcomeFailed,
			FailureReason: types.FailureReasonMalformedTimestamp,
			Err:           entry.err.Error(),
		}
	case entry.modified.Before(cutoff):
		decision.Candidate = true
	default:
		decision.Outcome = types.TagOutcome{
			Tag:        entry.tag,
			Kind:       types.OutcomeKept,
			KeepReason: types.KeepReasonTooRecent,
			Modified:   entry.modified,
		}
	}
	return decision
}

// Candidates returns the deletion candidates in processing order.
func (e Evaluation) Candidates() []types.Tag {
	var out []types.Tag
	for _, decision := range e.Decisions {
		if decision.Candidate {
			out = append(out, decision.Tag)
		}
	}
	return out
}

// Apply resolves the evaluation into the ordered outcome stream: floor tags
// first, then every checked tag in newest-first order. execute is called
// once per deletion candidate, sequentially, in that same order.
func (e Evaluation) Apply(execute func(types.Tag) types.TagOutcome) []types.TagOutcome {
	outcomes := make([]types.TagOutcome, 0, len(e.Floor)+len(e.Decisions))
	outcomes = append(outcomes, e.Floor...)
	for _, decision := range e.Decisions {
		if !decision.Candidate {
			outcomes = append(outcomes, decision.Outcome)
			continue
		}
		outcome := execute(decision.Tag)
		outcome.Tag = decision.Tag
		outcome.Modified = decision.Modified
		outcomes = append(outcomes, outcome)
	}
	return outcomes
}

func sortNewestFirst(tags []types.Tag) []datedTag {
	sorted := make([]datedTag, 0, len(tags))
	for _, tag := range tags {
		modified, err := ParseTimestamp(tag.Modified)
		sorted = append(sorted, datedTag{
			tag:       tag,
			modified:  modified,
			malformed: err != nil,
			err:       err,
		})
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].malformed {
			return false
		}
		if sorted[j].malformed {
			return true
		}
		return sorted[i].modified.After(sorted[j].modified)
	})
	return sorted
}

func normalizePolicy(policy types.PolicySetting) types.PolicySetting {
	normalized := policy
	if normalized.DaysOld < 0 {
		normalized.DaysOld = 0
	}
	if normalized.KeepMinimum < 0 {
		normalized.KeepMinimum = 0
	}
	return normalized
}
