package adapters

import (
	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/prometheus/client_golang/prometheus"

	"jfrog-cleaner/internal/ports"
	"jfrog-cleaner/internal/types"
)

// PrometheusTextfileAdapter writes run statistics in the node_exporter
// textfile collector format.
type PrometheusTextfileAdapter struct {
	Path string
}

func NewPrometheusTextfileAdapter(path string) PrometheusTextfileAdapter {
	return PrometheusTextfileAdapter{Path: path}
}

func (a PrometheusTextfileAdapter) Record(report types.RunReport) error {
	if a.Path == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("metrics path is empty")
	}
	if err := ensureParent(a.Path); err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	checked := tagGauge("jfrog_cleaner_tags_checked", "Tags evaluated against the retention policy in the last run.")
	deleted := tagGauge("jfrog_cleaner_tags_deleted", "Tags deleted, or selected for deletion in dry-run mode, in the last run.")
	kept := tagGauge("jfrog_cleaner_tags_kept", "Tags kept because they were newer than the cutoff in the last run.")
	failed := tagGauge("jfrog_cleaner_tags_errors", "Errors recorded in the last run.")
	lastRun := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "jfrog_cleaner_last_run_timestamp_seconds",
		Help: "Unix time the last cleanup run finished.",
	})
	dryRun := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "jfrog_cleaner_last_run_dry_run",
		Help: "1 when the last run was a dry run.",
	})
	registry.MustRegister(checked, deleted, kept, failed, lastRun, dryRun)

	for _, repo := range report.Repositories {
		checked.WithLabelValues(repo.Repository).Set(float64(repo.Stats.Checked))
		deleted.WithLabelValues(repo.Repository).Set(float64(repo.Stats.Deleted))
		kept.WithLabelValues(repo.Repository).Set(float64(repo.Stats.Kept))
		failed.WithLabelValues(repo.Repository).Set(float64(repo.Stats.Errors))
	}
	if !report.FinishedAt.IsZero() {
		lastRun.Set(float64(report.FinishedAt.Unix()))
	}
	if report.DryRun {
		dryRun.Set(1)
	}

	if err := prometheus.WriteToTextfile(a.Path, registry); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write metrics textfile").
			WithCause(err)
	}
	return nil
}

func tagGauge(name, help string) *prometheus.GaugeVec {
	return prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: name, Help: help}, []string{"repository"})
}

var _ ports.MetricsPort = PrometheusTextfileAdapter{}
