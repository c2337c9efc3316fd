package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"jfrog-cleaner/internal/adapters"
	"jfrog-cleaner/internal/app"
)

func newValidateCommand() *cobra.Command {
	opts := cleanupOptions{}
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration and show the resolved policy per image",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runValidate(cmd, opts)
		},
	}
	addCleanupFlags(cmd, &opts)
	return cmd
}

func runValidate(cmd *cobra.Command, opts cleanupOptions) error {
	req, err := cleanupRequest(cmd, opts)
	if err != nil {
		return err
	}
	service := newAppService(cmd.OutOrStdout())
	result, err := service.Validate(app.ValidateRequest{Cleanup: req})
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	adapters.NewConsoleReportAdapter(out).ConfigSummary(result.Images, result.DryRun)
	fmt.Fprintf(out, "Registry: %s\n", result.RegistryEndpoint)
	for _, group := range result.Groups {
		fmt.Fprintf(out, "  %s: %s\n", group.Repository, strings.Join(group.Images, ", "))
	}
	for _, name := range result.UnusedOverrides {
		fmt.Fprintf(out, "warning: image_config entry %s matches no configured image\n", name)
	}
	fmt.Fprintf(out, "configuration valid: %d images in %d repositories (override mode %s)\n",
		len(result.Images), result.RepositoryCount, result.OverrideMode)
	return nil
}
