package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/brewandco/app/tasks"
	"github.com/shashiranjanraj/brewandco/internal/server"
	"github.com/shashiranjanraj/brewandco/pkg/database"
	"github.com/shashiranjanraj/brewandco/pkg/queue"
	"github.com/shashiranjanraj/brewandco/pkg/schedule"
)

var (
	queueWorkersFlag int
	scheduleOnceFlag string
)

// brewandco queue:work
var queueWorkCmd = &cobra.Command{
	Use:   "queue:work",
	Short: "Start the queue worker",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := server.Boot(); err != nil {
			return err
		}
		server.Integrations(ctx, database.DB)

		workers := queueWorkersFlag
		if workers < 1 {
			workers = 5
		}

		fmt.Printf("🚀 Queue worker started (%d workers). Press Ctrl+C to stop.\n", workers)
		wg := queue.StartWorkers(ctx, workers)

		<-ctx.Done()
		wg.Wait()
		fmt.Println("\n⚡ Queue worker stopped.")
		return nil
	},
}

// brewandco schedule:run
var scheduleRunCmd = &cobra.Command{
	Use:   "schedule:run",
	Short: "Start the task scheduler, or run one task with --task",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := server.Boot(); err != nil {
			return err
		}
		server.Integrations(ctx, database.DB)

		s := schedule.New()
		tasks.Register(s, database.DB)

		if scheduleOnceFlag != "" {
			return s.RunNamed(ctx, scheduleOnceFlag)
		}

		fmt.Println("Registered scheduled tasks:")
		for _, t := range s.List() {
			fmt.Println("  •", t)
		}

		fmt.Println("🕐 Scheduler started. Press Ctrl+C to stop.")
		s.Start(ctx)

		<-ctx.Done()
		s.Wait()
		fmt.Println("\n⚡ Scheduler stopped.")
		return nil
	},
}

func init() {
	queueWorkCmd.Flags().IntVarP(&queueWorkersFlag, "workers", "w", 5, "Number of concurrent workers")
	scheduleRunCmd.Flags().StringVar(&scheduleOnceFlag, "task", "", "Run one task by name and exit")
}
