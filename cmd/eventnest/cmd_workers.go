package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/eventnest/eventnest/app/jobs"
	"github.com/eventnest/eventnest/internal/kernel"
	"github.com/eventnest/eventnest/pkg/cache"
	"github.com/eventnest/eventnest/pkg/database"
	"github.com/eventnest/eventnest/pkg/queue"
)

var queueWorkersFlag int

// eventnest queue:work — dedicated worker process. serve runs workers
// in-process too; this exists for deployments that scale them separately.
var queueWorkCmd = &cobra.Command{
	Use:   "queue:work",
	Short: "Start a standalone queue worker",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := kernel.ConnectStores(); err != nil {
			return err
		}
		if cache.RDB != nil {
			queue.SetDriver(queue.NewRedisDriver(cache.RDB))
		}
		queue.UseDB(database.DB)
		jobs.Configure(database.DB)
		jobs.Register()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		workers := queueWorkersFlag
		if workers < 1 {
			workers = 5
		}

		fmt.Printf("Queue worker started (%d workers). Press Ctrl+C to stop.\n", workers)
		queue.StartWorkers(ctx, workers)

		<-ctx.Done()
		fmt.Println("\nQueue worker stopped.")
		return nil
	},
}

func init() {
	queueWorkCmd.Flags().IntVarP(&queueWorkersFlag, "workers", "w", 5, "Number of concurrent workers")
}
