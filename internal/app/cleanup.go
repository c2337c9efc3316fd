package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"jfrog-cleaner/internal/adapters"
	"jfrog-cleaner/internal/core"
	"jfrog-cleaner/internal/ports"
	"jfrog-cleaner/internal/types"
)

const catalogSkipReason = "not present in repository catalog"

// Cleanup runs one retention pass over every configured image. Configuration
// is validated before any registry call; fetch and delete failures are
// recorded in the report and never abort the run.
func (s Service) Cleanup(ctx context.Context, req CleanupRequest) (CleanupResult, error) {
	plan, err := buildPlan(req)
	if err != nil {
		return CleanupResult{}, err
	}
	runID := s.runID()
	logger := log.With().Str("run_id", runID).Logger()
	for _, name := range plan.Unused {
		logger.Warn().Str("image", name).Msg("image_config entry matches no configured image")
	}

	reporter := s.reporter()
	reporter.ConfigSummary(plan.Images, req.DryRun)

	registry := s.registry(plan.Registry)
	run := repositoryRun{
		registry:      registry,
		executor:      newDeletionExecutor(registry, req.DryRun, req.DeleteRate),
		policy:        plan.Policy,
		verifyCatalog: req.VerifyCatalog,
		clock:         s.Clock,
	}

	report := types.RunReport{
		RunID:     runID,
		DryRun:    req.DryRun,
		StartedAt: timeNow(s.Clock),
	}
	logger.Info().
		Int("repositories", len(plan.Groups)).
		Int("images", len(plan.Images)).
		Bool("dry_run", req.DryRun).
		Msg("cleanup started")

	report.Repositories = processRepositories(ctx, plan.Groups, req.Workers, run.process, func(repo types.RepositoryReport, group types.RepositoryGroup) {
		reporter.RepositoryStarted(group)
		for _, image := range repo.Images {
			reporter.ImageFinished(image)
		}
		reporter.RepositoryFinished(repo)
	})
	stats := make([]types.Statistics, 0, len(report.Repositories))
	for _, repo := range report.Repositories {
		stats = append(stats, repo.Stats)
	}
	report.Totals = core.MergeAll(stats...)
	report.FinishedAt = timeNow(s.Clock)
	reporter.RunFinished(report)

	logger.Info().
		Int("checked", report.Totals.Checked).
		Int("deleted", report.Totals.Deleted).
		Int("kept", report.Totals.Kept).
		Int("errors", report.Totals.Errors).
		Msg("cleanup finished")

	result := CleanupResult{RunID: runID, Report: report}
	if err := writeArtifacts(req, report); err != nil {
		return result, err
	}
	if err := ctx.Err(); err != nil {
		return result, err
	}
	if req.FailOnErrors && report.Totals.Errors > 0 {
		return result, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("cleanup finished with %d errors", report.Totals.Errors))
	}
	return result, nil
}

func writeArtifacts(req CleanupRequest, report types.RunReport) error {
	var writers []ports.ReportWriterPort
	if req.ReportPath != "" {
		writers = append(writers, adapters.NewReportFileAdapter(req.ReportPath))
	}
	for _, writer := range writers {
		if err := writer.WriteRunReport(report); err != nil {
			return err
		}
	}
	if req.MetricsPath != "" {
		var metrics ports.MetricsPort = adapters.NewPrometheusTextfileAdapter(req.MetricsPath)
		if err := metrics.Record(report); err != nil {
			return err
		}
	}
	return nil
}

type repositoryRun struct {
	registry      ports.RegistryPort
	executor      *deletionExecutor
	policy        ports.PolicyPort
	verifyCatalog bool
	clock         func() time.Time
}

func (r repositoryRun) process(ctx context.Context, group types.RepositoryGroup) types.RepositoryReport {
	assert.NotEmpty(ctx, group.Repository, "repository group name must be set")
	logger := log.With().Str("repository", group.Repository).Logger()
	report := types.RepositoryReport{Repository: group.Repository}

	var catalog map[string]struct{}
	if r.verifyCatalog {
		names, err := r.registry.ListImages(ctx, group.Repository)
		if err != nil {
			logger.Error().Err(err).Msg("failed to fetch repository catalog")
			report.FetchError = err.Error()
			report.Stats = report.Stats.WithFetchError()
			return report
		}
		catalog = make(map[string]struct{}, len(names))
		for _, name := range names {
			catalog[name] = struct{}{}
		}
	}

	stats := make([]types.Statistics, 0, len(group.Images))
	for _, image := range group.Images {
		if ctx.Err() != nil {
			break
		}
		spec := types.ImageSpec{Repository: group.Repository, Image: image}
		imageReport := r.processImage(ctx, spec, catalog)
		report.Images = append(report.Images, imageReport)
		stats = append(stats, imageReport.Stats)
	}
	report.Stats = core.MergeAll(stats...)
	return report
}

func (r repositoryRun) processImage(ctx context.Context, spec types.ImageSpec, catalog map[string]struct{}) types.ImageReport {
	logger := log.With().Str("repository", spec.Repository).Str("image", spec.Image).Logger()
	policy := r.policy.Resolve(spec)
	now := timeNow(r.clock)
	report := types.ImageReport{
		Repository: spec.Repository,
		Image:      spec.Image,
		Policy:     policy,
		Cutoff:     now.AddDate(0, 0, -policy.DaysOld),
	}
	if catalog != nil {
		if _, ok := catalog[spec.Image]; !ok {
			logger.Warn().Msg("configured image not found in repository catalog")
			report.Skipped = catalogSkipReason
			return report
		}
	}

	tags, err := r.registry.ListTags(ctx, spec.Repository, spec.Image)
	if err != nil {
		logger.Error().Err(err).Msg("failed to fetch tags")
		report.FetchError = err.Error()
		report.Stats = report.Stats.WithFetchError()
		return report
	}

	evaluation := core.Evaluate(tags, policy, now)
	logger.Debug().
		Int("tags", evaluation.Total).
		Int("floor", len(evaluation.Floor)).
		Int("candidates", len(evaluation.Candidates())).
		Time("cutoff", evaluation.Cutoff).
		Msg("evaluated retention")
	for _, tag := range evaluation.MalformedFloor {
		logger.Warn().
			Str("path", tag.Path).
			Str("last_modified", tag.Modified).
			Msg("keeping tag with malformed timestamp inside keep-minimum floor")
	}
	outcomes := evaluation.Apply(func(tag types.Tag) types.TagOutcome {
		return r.executor.Execute(ctx, spec.Repository, tag)
	})

	report.Cutoff = evaluation.Cutoff
	report.TotalTags = evaluation.Total
	report.FloorCount = len(evaluation.Floor)
	report.Outcomes = outcomes
	report.Stats = core.Fold(outcomes)
	return report
}

// processRepositories fans groups out over a bounded worker pool and hands
// finished reports to emit in configuration order.
func processRepositories(
	ctx context.Context,
	groups []types.RepositoryGroup,
	workers int,
	process func(context.Context, types.RepositoryGroup) types.RepositoryReport,
	emit func(types.RepositoryReport, types.RepositoryGroup),
) []types.RepositoryReport {
	if len(groups) == 0 {
		return nil
	}
	workerCount := workers
	if workerCount <= 0 {
		workerCount = 1
	}
	if len(groups) < workerCount {
		workerCount = len(groups)
	}

	type indexed struct {
		index  int
		report types.RepositoryReport
	}
	tasks := make(chan int)
	results := make(chan indexed, len(groups))
	var wg sync.WaitGroup
	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for index := range tasks {
				results <- indexed{index: index, report: process(ctx, groups[index])}
			}
		}()
	}
	go func() {
		wg.Wait()
		close(results)
	}()
	go func() {
		defer close(tasks)
		for index := range groups {
			select {
			case tasks <- index:
			case <-ctx.Done():
				return
			}
		}
	}()

	reports := make([]types.RepositoryReport, len(groups))
	ready := make([]bool, len(groups))
	next := 0
	for result := range results {
		reports[result.index] = result.report
		ready[result.index] = true
		for next < len(groups) && ready[next] {
			emit(reports[next], groups[next])
			next++
		}
	}
	return reports[:next]
}
