package types

type OutcomeKind string

const (
	OutcomeDeleted     OutcomeKind = "deleted"
	OutcomeWouldDelete OutcomeKind = "would-delete"
	OutcomeKept        OutcomeKind = "kept"
	OutcomeFailed      OutcomeKind = "failed"
)

type KeepReason string

const (
	KeepReasonNone        KeepReason = ""
	KeepReasonFloorExempt KeepReason = "floor-exempt"
	KeepReasonTooRecent   KeepReason = "too-recent"
)

type FailureReason string

const (
	FailureReasonNone               FailureReason = ""
	FailureReasonMalformedTimestamp FailureReason = "malformed-timestamp"
	FailureReasonDeletionError      FailureReason = "deletion-error"
)

type OverrideMode string

const (
	OverrideModeFallback OverrideMode = "fallback"
	OverrideModeStrict   OverrideMode = "strict"
)
