package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"booructl/internal/ingest"
)

func newUploadCommand(cctx *commandContext) *cobra.Command {
	uploadCmd := &cobra.Command{
		Use:   "upload",
		Short: "Upload a directory of media files",
	}

	uploadCmd.AddCommand(&cobra.Command{
		Use:   "post <directory>",
		Short: "Upload every media file in a directory as individual posts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpload(cmd, cctx, args[0], false)
		},
	})

	uploadCmd.AddCommand(&cobra.Command{
		Use:   "pool <directory>",
		Short: "Upload a directory and group the resulting posts into a pool",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpload(cmd, cctx, args[0], true)
		},
	})

	return uploadCmd
}

func runUpload(cmd *cobra.Command, cctx *commandContext, dir string, asPool bool) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("source directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("source %q is not a directory", dir)
	}

	logger, err := cctx.ensureLogger()
	if err != nil {
		return err
	}
	release, err := cctx.acquireRunLock()
	if err != nil {
		return err
	}
	defer release()

	store, err := cctx.openHistory(logger)
	if err != nil {
		return err
	}
	var recorder ingest.Recorder
	if store != nil {
		defer store.Close()
		recorder = store
	}

	cfg := cctx.config
	client := cctx.newClient(logger)
	uploader := ingest.NewUploader(client, logger, cfg.Settings.DeleteFilesInProgress)
	batcher := ingest.NewBatcher(client, uploader, logger, ingest.BatchOptions{
		PaceDelay:    cfg.PaceDelay(),
		RetryBudget:  cfg.Settings.RetryAttempts,
		SkipOnError:  cfg.Settings.SkipOnError,
		DeleteFolder: cfg.Settings.DeleteFolder,
	}, recorder)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var report *ingest.Report
	var runErr error
	if asPool {
		var pool *booructlPool
		report, pool, runErr = runPool(ctx, batcher, dir)
		if pool != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "Created pool %d (%s) with %d posts\n",
				pool.id, pool.name, pool.size)
		}
	} else {
		report, runErr = batcher.Run(ctx, dir)
	}

	if report != nil && len(report.Outcomes) > 0 {
		fmt.Fprintln(cmd.OutOrStdout(), renderSummaryTable(report))
	}
	return runErr
}

// booructlPool is the slim view of a created pool the summary prints.
type booructlPool struct {
	id   int64
	name string
	size int
}

func runPool(ctx context.Context, batcher *ingest.Batcher, dir string) (*ingest.Report, *booructlPool, error) {
	report, pool, err := batcher.RunPool(ctx, dir)
	if err != nil || pool == nil {
		return report, nil, err
	}
	name := ""
	if len(pool.Names) > 0 {
		name = pool.Names[0]
	}
	return report, &booructlPool{id: pool.ID, name: name, size: len(pool.Posts)}, nil
}
