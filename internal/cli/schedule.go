package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"jfrog-cleaner/internal/app"
)

type scheduleOptions struct {
	cleanupOptions
	Cron       string
	RunOnStart bool
}

func newScheduleCommand() *cobra.Command {
	opts := scheduleOptions{}
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run cleanup repeatedly on a cron schedule",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSchedule(cmd.Context(), cmd, opts)
		},
	}
	addCleanupFlags(cmd, &opts.cleanupOptions)
	cmd.Flags().StringVar(&opts.Cron, "cron", "", "Cron expression (e.g., \"0 3 * * *\" or \"@every 6h\")")
	cmd.Flags().BoolVar(&opts.RunOnStart, "run-on-start", false, "Run one cleanup immediately before waiting for the schedule")
	_ = viper.BindPFlag("schedule.cron", cmd.Flags().Lookup("cron"))
	_ = viper.BindPFlag("schedule.run_on_start", cmd.Flags().Lookup("run-on-start"))
	return cmd
}

func runSchedule(ctx context.Context, cmd *cobra.Command, opts scheduleOptions) error {
	req, err := cleanupRequest(cmd, opts.cleanupOptions)
	if err != nil {
		return err
	}
	scheduler, err := app.NewScheduler(newAppService(cmd.OutOrStdout()), app.ScheduleRequest{
		Cleanup:    req,
		Expression: resolveString(cmd, opts.Cron, "schedule.cron", "cron"),
		RunOnStart: resolveBool(cmd, opts.RunOnStart, "schedule.run_on_start", "run-on-start"),
	})
	if err != nil {
		return err
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := scheduler.Start(ctx); err != nil {
		return err
	}
	if next := scheduler.NextRun(); next != nil {
		log.Info().Time("next_run", *next).Msg("waiting for next scheduled cleanup")
	}
	<-ctx.Done()
	scheduler.Stop()
	return nil
}
