package main

import (
	"fmt"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"reelscore/internal/batch"
	"reelscore/internal/ingest"
	"reelscore/internal/store"
	"reelscore/internal/visioncache"
)

func newAnalyzeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <bundle.json>",
		Short: "Analyze a single video bundle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := ingest.Load(args[0])
			if err != nil {
				return err
			}
			return runBatch(ctx, cmd, []batch.Input{input})
		},
	}
}

func newBatchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "batch <bundle-dir>",
		Short: "Analyze every bundle in a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs, err := ingest.LoadDir(args[0])
			if err != nil {
				return err
			}
			return runBatch(ctx, cmd, inputs)
		},
	}
}

func runBatch(ctx *commandContext, cmd *cobra.Command, inputs []batch.Input) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := ctx.ensureLogger()
	if err != nil {
		return err
	}

	signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return ctx.withBatchLock(func() error {
		return ctx.withStore(func(st *store.Store) error {
			cache := visioncache.New(filepath.Join(cfg.Paths.VisionCacheDir, "observations.json"), logger)
			orch := batch.New(cfg, st, logger, nil, cache)

			summary, err := orch.Run(signalCtx, inputs)
			if err != nil {
				return err
			}
			if ctx.jsonMode() {
				return writeJSON(cmd, summary)
			}
			renderBatchSummary(cmd, summary)
			return nil
		})
	})
}

func renderBatchSummary(cmd *cobra.Command, summary batch.Summary) {
	out := cmd.OutOrStdout()

	rows := make([][]string, 0, len(summary.Outcomes))
	for _, outcome := range summary.Outcomes {
		note := outcome.Err
		if outcome.Skipped {
			note = "unchanged content, reused prior analysis"
		}
		rows = append(rows, []string{
			outcome.VideoID,
			colorizeStatus(out, string(outcome.Status), string(outcome.Status)),
			strconv.Itoa(outcome.PreScore),
			strconv.Itoa(outcome.Matches),
			note,
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Video", "Status", "Pre", "Matches", "Note"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft},
	))

	fmt.Fprintf(out, "Batch %s: %s videos in %s (%.1f/min): %d succeeded, %d skipped, %d failed\n",
		summary.BatchID,
		humanize.Comma(int64(summary.Total)),
		summary.Duration.Round(time.Millisecond),
		summary.VideosPerMinute,
		summary.Succeeded,
		summary.Skipped,
		summary.Failed,
	)
}
