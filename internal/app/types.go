package app

import "jfrog-cleaner/internal/types"

type CleanupRequest struct {
	URL              string
	Username         string
	Password         string
	TimeoutSec       int
	Images           []string
	DaysOld          int
	KeepMinimum      int
	DryRun           bool
	OverrideMode     string
	RepositoryConfig []types.RepositoryConfigEntry
	ImageConfig      []types.ImageConfigEntry
	Workers          int
	DeleteRate       float64
	VerifyCatalog    bool
	FailOnErrors     bool
	ReportPath       string
	MetricsPath      string
}

type CleanupResult struct {
	RunID  string
	Report types.RunReport
}

type ValidateRequest struct {
	Cleanup CleanupRequest
}

type ValidateResult struct {
	Images           []types.ResolvedImage
	Groups           []types.RepositoryGroup
	UnusedOverrides  []string
	DryRun           bool
	OverrideMode     types.OverrideMode
	RepositoryCount  int
	RegistryEndpoint string
}

type ScheduleRequest struct {
	Cleanup    CleanupRequest
	Expression string
	RunOnStart bool
}
