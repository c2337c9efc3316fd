package app

import (
	"os"
	"time"

	"github.com/google/uuid"

	"jfrog-cleaner/internal/adapters"
	"jfrog-cleaner/internal/ports"
	"jfrog-cleaner/internal/types"
)

// Service wires the retention engine to its collaborators. A nil Registry
// is built from the request's registry settings on every run.
type Service struct {
	Registry ports.RegistryPort
	Reporter ports.ReportPort
	Clock    func() time.Time
	NewRunID func() string
}

func NewService() Service {
	return Service{
		Reporter: adapters.NewConsoleReportAdapter(os.Stdout),
		Clock:    time.Now,
		NewRunID: uuid.NewString,
	}
}

func (s Service) registry(cfg types.RegistryConfig) ports.RegistryPort {
	if s.Registry != nil {
		return s.Registry
	}
	return adapters.NewArtifactoryAdapter(cfg)
}

func (s Service) reporter() ports.ReportPort {
	if s.Reporter != nil {
		return s.Reporter
	}
	return discardReporter{}
}

func (s Service) runID() string {
	if s.NewRunID != nil {
		return s.NewRunID()
	}
	return uuid.NewString()
}

func timeNow(clock func() time.Time) time.Time {
	if clock == nil {
		return time.Now().UTC()
	}
	return clock().UTC()
}

type discardReporter struct{}

func (discardReporter) ConfigSummary([]types.ResolvedImage, bool) {}
func (discardReporter) RepositoryStarted(types.RepositoryGroup) {}
func (discardReporter) ImageFinished(types.ImageReport) {}
func (discardReporter) RepositoryFinished(types.RepositoryReport) {}
func (discardReporter) RunFinished(types.RunReport) {}

var _ ports.ReportPort = discardReporter{}
