package types

import (
	"fmt"
	"time"
)

// Tag is one manifest reported by the registry. Modified is kept raw so the
// retention engine decides what an unparsable timestamp means.
type Tag struct {
	Identifier string `json:"tag" yaml:"tag"`
	Path       string `json:"path" yaml:"path"`
	Modified   string `json:"modified" yaml:"modified"`
}

type ImageSpec struct {
	Repository string
	Image      string
}

func (s ImageSpec) String() string {
	return fmt.Sprintf("%s/%s", s.Repository, s.Image)
}

type RepositoryGroup struct {
	Repository string
	Images     []string
}

type TagOutcome struct {
	Tag           Tag           `yaml:"tag"`
	Kind          OutcomeKind   `yaml:"outcome"`
	KeepReason    KeepReason    `yaml:"keep_reason,omitempty"`
	FailureReason FailureReason `yaml:"failure_reason,omitempty"`
	Modified      time.Time     `yaml:"modified,omitempty"`
	Err           string        `yaml:"error,omitempty"`
}

func (o TagOutcome) FloorExempt() bool {
	return o.Kind == OutcomeKept && o.KeepReason == KeepReasonFloorExempt
}
