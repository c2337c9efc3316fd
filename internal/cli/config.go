package cli

import (
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"jfrog-cleaner/internal/app"
	"jfrog-cleaner/internal/types"
)

// cleanupOptions holds the flag overrides shared by every command that
// builds a cleanup request. Config file and environment fill the rest.
type cleanupOptions struct {
	URL           string
	Username      string
	Images        []string
	TimeoutSec    int
	DaysOld       int
	KeepMinimum   int
	DryRun        bool
	OverrideMode  string
	Workers       int
	DeleteRate    float64
	VerifyCatalog bool
	FailOnErrors  bool
	ReportPath    string
	MetricsPath   string
}

func addCleanupFlags(cmd *cobra.Command, opts *cleanupOptions) {
	cmd.Flags().StringVar(&opts.URL, "url", "", "Artifactory base URL (e.g., https://example.jfrog.io/artifactory)")
	cmd.Flags().StringVar(&opts.Username, "username", "", "Artifactory username")
	cmd.Flags().StringSliceVar(&opts.Images, "image", nil, "Image to clean as repository/image-name (repeatable)")
	cmd.Flags().IntVar(&opts.TimeoutSec, "timeout", 30, "HTTP timeout in seconds")
	cmd.Flags().IntVar(&opts.DaysOld, "days-old", 30, "Delete tags older than N days")
	cmd.Flags().IntVar(&opts.KeepMinimum, "keep-minimum", 3, "Always keep the N most recent tags per image")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", true, "Only report deletions without deleting")
	cmd.Flags().StringVar(&opts.OverrideMode, "override-mode", "fallback", "Per-image override mode (fallback or strict)")
	cmd.Flags().IntVar(&opts.Workers, "workers", 1, "Repositories processed concurrently")
	cmd.Flags().Float64Var(&opts.DeleteRate, "delete-rate", 0, "Maximum deletes per second (0 = unlimited)")
	cmd.Flags().BoolVar(&opts.VerifyCatalog, "verify-catalog", true, "Skip configured images missing from the repository catalog")
	cmd.Flags().BoolVar(&opts.FailOnErrors, "fail-on-errors", false, "Exit non-zero when the run recorded errors")
	cmd.Flags().StringVar(&opts.ReportPath, "report", "", "Write the run report as YAML to this path")
	cmd.Flags().StringVar(&opts.MetricsPath, "metrics-file", "", "Write Prometheus textfile metrics to this path")

	_ = viper.BindPFlag("jfrog.url", cmd.Flags().Lookup("url"))
	_ = viper.BindPFlag("jfrog.username", cmd.Flags().Lookup("username"))
	_ = viper.BindPFlag("jfrog.images", cmd.Flags().Lookup("image"))
	_ = viper.BindPFlag("jfrog.timeout_sec", cmd.Flags().Lookup("timeout"))
	_ = viper.BindPFlag("cleanup.days_old", cmd.Flags().Lookup("days-old"))
	_ = viper.BindPFlag("cleanup.keep_minimum", cmd.Flags().Lookup("keep-minimum"))
	_ = viper.BindPFlag("cleanup.dry_run", cmd.Flags().Lookup("dry-run"))
	_ = viper.BindPFlag("cleanup.override_mode", cmd.Flags().Lookup("override-mode"))
	_ = viper.BindPFlag("cleanup.workers", cmd.Flags().Lookup("workers"))
	_ = viper.BindPFlag("cleanup.delete_rate", cmd.Flags().Lookup("delete-rate"))
	_ = viper.BindPFlag("cleanup.verify_catalog", cmd.Flags().Lookup("verify-catalog"))
	_ = viper.BindPFlag("cleanup.fail_on_errors", cmd.Flags().Lookup("fail-on-errors"))
	_ = viper.BindPFlag("output.report", cmd.Flags().Lookup("report"))
	_ = viper.BindPFlag("output.metrics_file", cmd.Flags().Lookup("metrics-file"))
}

func cleanupRequest(cmd *cobra.Command, opts cleanupOptions) (app.CleanupRequest, error) {
	var repositories []types.RepositoryConfigEntry
	if err := viper.UnmarshalKey("repository_config", &repositories); err != nil {
		return app.CleanupRequest{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid repository_config section").
			WithCause(err)
	}
	var images []types.ImageConfigEntry
	if err := viper.UnmarshalKey("image_config", &images); err != nil {
		return app.CleanupRequest{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid image_config section").
			WithCause(err)
	}
	return app.CleanupRequest{
		URL:              resolveString(cmd, opts.URL, "jfrog.url", "url"),
		Username:         resolveString(cmd, opts.Username, "jfrog.username", "username"),
		Password:         viper.GetString("jfrog.password"),
		TimeoutSec:       resolveInt(cmd, opts.TimeoutSec, "jfrog.timeout_sec", "timeout"),
		Images:           resolveStrings(cmd, opts.Images, "jfrog.images", "image"),
		DaysOld:          resolveInt(cmd, opts.DaysOld, "cleanup.days_old", "days-old"),
		KeepMinimum:      resolveInt(cmd, opts.KeepMinimum, "cleanup.keep_minimum", "keep-minimum"),
		DryRun:           resolveBool(cmd, opts.DryRun, "cleanup.dry_run", "dry-run"),
		OverrideMode:     resolveString(cmd, opts.OverrideMode, "cleanup.override_mode", "override-mode"),
		RepositoryConfig: repositories,
		ImageConfig:      images,
		Workers:          resolveInt(cmd, opts.Workers, "cleanup.workers", "workers"),
		DeleteRate:       resolveFloat(cmd, opts.DeleteRate, "cleanup.delete_rate", "delete-rate"),
		VerifyCatalog:    resolveBool(cmd, opts.VerifyCatalog, "cleanup.verify_catalog", "verify-catalog"),
		FailOnErrors:     resolveBool(cmd, opts.FailOnErrors, "cleanup.fail_on_errors", "fail-on-errors"),
		ReportPath:       resolveString(cmd, opts.ReportPath, "output.report", "report"),
		MetricsPath:      resolveString(cmd, opts.MetricsPath, "output.metrics_file", "metrics-file"),
	}, nil
}

func resolveString(cmd *cobra.Command, value string, key string, flagName string) string {
	if cmd == nil {
		if value != "" {
			return value
		}
		return viper.GetString(key)
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	return viper.GetString(key)
}

func resolveStrings(cmd *cobra.Command, values []string, key string, flagName string) []string {
	if cmd == nil {
		if len(values) > 0 {
			return values
		}
		return viper.GetStringSlice(key)
	}
	if flagChanged(cmd, flagName) {
		return values
	}
	return viper.GetStringSlice(key)
}

func resolveBool(cmd *cobra.Command, value bool, key string, flagName string) bool {
	if cmd == nil {
		return value
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	return viper.GetBool(key)
}

func resolveInt(cmd *cobra.Command, value int, key string, flagName string) int {
	if cmd == nil {
		return value
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	return viper.GetInt(key)
}

func resolveFloat(cmd *cobra.Command, value float64, key string, flagName string) float64 {
	if cmd == nil {
		return value
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	return viper.GetFloat64(key)
}

func flagChanged(cmd *cobra.Command, name string) bool {
	if cmd == nil || strings.TrimSpace(name) == "" {
		return false
	}
	if flag := cmd.Flags().Lookup(name); flag != nil {
		return flag.Changed
	}
	if flag := cmd.PersistentFlags().Lookup(name); flag != nil {
		return flag.Changed
	}
	return false
}
