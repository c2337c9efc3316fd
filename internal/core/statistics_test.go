package core

import (
	"testing"

	"github.com/stretchr/testify/require"

	"jfrog-cleaner/internal/types"
)

func TestFoldCountsOutcomes(t *testing.T) {
	outcomes := []types.TagOutcome{
		{Kind: types.OutcomeKept, KeepReason: types.KeepReasonFloorExempt},
		{Kind: types.OutcomeKept, KeepReason: types.KeepReasonTooRecent},
		{Kind: types.OutcomeWouldDelete},
		{Kind: types.OutcomeDeleted},
		{Kind: types.OutcomeFailed, FailureReason: types.FailureReasonDeletionError},
	}
	require.Equal(t, types.Statistics{Checked: 4, Deleted: 2, Kept: 1, Errors: 1}, Fold(outcomes))
}

func TestMergeLaws(t *testing.T) {
	a := types.Statistics{Checked: 3, Deleted: 2, Kept: 1}
	b := types.Statistics{Checked: 5, Deleted: 1, Kept: 3, Errors: 1}
	c := types.Statistics{Checked: 1, Errors: 1}

	require.Equal(t, a, a.Merge(types.Statistics{}))
	require.Equal(t, a.Merge(b), b.Merge(a))
	require.Equal(t, a.Merge(b).Merge(c), a.Merge(b.Merge(c)))
	require.Equal(t, types.Statistics{Checked: 9, Deleted: 3, Kept: 4, Errors: 2}, MergeAll(a, b, c))
	require.Equal(t, types.Statistics{}, MergeAll())
}

func TestMergeDoesNotAlias(t *testing.T) {
	a := types.Statistics{Checked: 1}
	merged := a.Merge(types.Statistics{Checked: 2})
	require.Equal(t, 1, a.Checked)
	require.Equal(t, 3, merged.Checked)
}
