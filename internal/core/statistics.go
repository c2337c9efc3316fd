package core

import "jfrog-cleaner/internal/types"

// Fold accumulates one image's outcome stream into its statistics.
func Fold(outcomes []types.TagOutcome) types.Statistics {
	stats := types.Statistics{}
	for _, outcome := range outcomes {
		stats = stats.Add(outcome)
	}
	return stats
}

func MergeAll(all ...types.Statistics) types.Statistics {
	total := types.Statistics{}
	for _, stats := range all {
		total = total.Merge(stats)
	}
	return total
}
