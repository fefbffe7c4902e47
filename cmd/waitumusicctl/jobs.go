package main

import (
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/spf13/cobra"

	"github.com/waitumusic/waitumusic/internal/app"
	"github.com/waitumusic/waitumusic/jobs"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Trigger and inspect background jobs",
}

var jobsWarmupCmd = &cobra.Command{
	Use:   "warmup",
	Short: "Enqueue a catalog cache warmup",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := redisClientOpt()
		if err != nil {
			return err
		}
		client := asynq.NewClient(opts)
		defer client.Close()

		reason, _ := cmd.Flags().GetString("reason")
		task, err := jobs.NewCatalogWarmupTask(reason)
		if err != nil {
			return err
		}
		info, err := client.EnqueueContext(cmd.Context(), task, asynq.MaxRetry(3))
		if err != nil {
			return fmt.Errorf("enqueue warmup: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "enqueued %s (%s)\n", info.ID, info.Queue)
		return nil
	},
}

var jobsInspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Show queue counters for the default queue",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := redisClientOpt()
		if err != nil {
			return err
		}
		inspector := asynq.NewInspector(opts)
		defer inspector.Close()

		info, err := inspector.GetQueueInfo(jobs.QueueDefault)
		if err != nil {
			return fmt.Errorf("inspect queue: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "queue=%s pending=%d active=%d scheduled=%d retry=%d\n",
			info.Queue, info.Pending, info.Active, info.Scheduled, info.Retry)
		return nil
	},
}

func init() {
	jobsWarmupCmd.Flags().String("reason", "manual", "reason recorded in the task payload")
	jobsCmd.AddCommand(jobsWarmupCmd, jobsInspectCmd)
	rootCmd.AddCommand(jobsCmd)
}

func redisClientOpt() (asynq.RedisClientOpt, error) {
	cfg, err := app.LoadConfig()
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}
	return asynq.RedisClientOpt{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB}, nil
}
