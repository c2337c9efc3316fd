package ports

import "jfrog-cleaner/internal/types"

type ReportPort interface {
	ConfigSummary(images []types.ResolvedImage, dryRun bool)
	RepositoryStarted(group types.RepositoryGroup)
	ImageFinished(report types.ImageReport)
	RepositoryFinished(report types.RepositoryReport)
	RunFinished(report types.RunReport)
}

type ReportWriterPort interface {
	WriteRunReport(report types.RunReport) error
}

type MetricsPort interface {
	Record(report types.RunReport) error
}
