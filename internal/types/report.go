package types

import "time"

type ImageReport struct {
	Repository string        `yaml:"repository"`
	Image      string        `yaml:"image"`
	Policy     PolicySetting `yaml:"policy"`
	Cutoff     time.Time     `yaml:"cutoff"`
	TotalTags  int           `yaml:"total_tags"`
	FloorCount int           `yaml:"floor_count"`
	Outcomes   []TagOutcome  `yaml:"outcomes,omitempty"`
	Stats      Statistics    `yaml:"stats"`
	Skipped    string        `yaml:"skipped,omitempty"`
	FetchError string        `yaml:"fetch_error,omitempty"`
}

type RepositoryReport struct {
	Repository string        `yaml:"repository"`
	Images     []ImageReport `yaml:"images"`
	Stats      Statistics    `yaml:"stats"`
	FetchError string        `yaml:"fetch_error,omitempty"`
}

type RunReport struct {
	RunID        string             `yaml:"run_id"`
	DryRun       bool               `yaml:"dry_run"`
	StartedAt    time.Time          `yaml:"started_at"`
	FinishedAt   time.Time          `yaml:"finished_at"`
	Repositories []RepositoryReport `yaml:"repositories"`
	Totals       Statistics         `yaml:"totals"`
}
