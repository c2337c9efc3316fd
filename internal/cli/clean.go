package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"jfrog-cleaner/internal/adapters"
	"jfrog-cleaner/internal/app"
)

func newCleanCommand() *cobra.Command {
	opts := cleanupOptions{}
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Delete tags that fall outside the retention policy",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runClean(cmd.Context(), cmd, opts)
		},
	}
	addCleanupFlags(cmd, &opts)
	return cmd
}

func runClean(ctx context.Context, cmd *cobra.Command, opts cleanupOptions) error {
	req, err := cleanupRequest(cmd, opts)
	if err != nil {
		return err
	}
	service := newAppService(cmd.OutOrStdout())
	_, err = service.Cleanup(ctx, req)
	return err
}

func newAppService(out io.Writer) app.Service {
	service := app.NewService()
	service.Reporter = adapters.NewConsoleReportAdapter(out)
	return service
}
