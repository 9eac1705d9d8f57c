package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"booructl/internal/ingest"
)

func newMergeCommand(cctx *commandContext) *cobra.Command {
	mergeCmd := &cobra.Command{
		Use:   "merge",
		Short: "Merge existing posts",
	}

	mergeCmd.AddCommand(&cobra.Command{
		Use:   "post <pairs-file>",
		Short: "Merge post pairs listed in a file, one \"removeId mergeIntoId\" per line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMerge(cmd, cctx, args[0])
		},
	})

	return mergeCmd
}

func runMerge(cmd *cobra.Command, cctx *commandContext, pairsPath string) error {
	file, err := os.Open(pairsPath)
	if err != nil {
		return fmt.Errorf("open pairs file: %w", err)
	}
	pairs, err := ingest.ParseMergePairs(file)
	file.Close()
	if err != nil {
		return err
	}
	if len(pairs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No merge pairs found")
		return nil
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

	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)
	observer := func(index, total int, outcome ingest.PairOutcome) {
		fmt.Fprintln(out, mergeProgressLine(index, total, outcome, colorize))
	}

	cfg := cctx.config
	merger := ingest.NewMerger(cctx.newClient(logger), logger, cfg.PaceDelay(), cfg.Settings.SkipOnError, observer)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	outcomes, err := merger.Run(ctx, pairs)
	if err != nil {
		return err
	}

	failed := 0
	for _, outcome := range outcomes {
		if outcome.Err != nil {
			failed++
		}
	}
	fmt.Fprintf(out, "Merged %d of %d pairs\n", len(outcomes)-failed, len(outcomes))
	if failed > 0 {
		return fmt.Errorf("%d merge pairs failed", failed)
	}
	return nil
}
