package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"booructl/internal/booru"
	"booructl/internal/history"
	"booructl/internal/logging"
	"booructl/internal/scan"
)

// Recorder receives terminal per-file outcomes. *history.Store satisfies it.
type Recorder interface {
	Record(ctx context.Context, entry history.Entry) error
}

// Outcome is the terminal result for one file in a batch.
type Outcome struct {
	Path     string
	PostID   booru.PostID
	Artist   string
	Attempts int
	Err      error
}

// Report aggregates a batch run. Report-only: it is never persisted by the
// driver itself (the optional history ledger is a separate audit trail).
type Report struct {
	RunID    string
	Outcomes []Outcome
}

// Succeeded returns the post IDs of successful files in processing order.
func (r *Report) Succeeded() []booru.PostID {
	var ids []booru.PostID
	for _, outcome := range r.Outcomes {
		if outcome.Err == nil {
			ids = append(ids, outcome.PostID)
		}
	}
	return ids
}

// BatchOptions configures the outer retry tier and batch-level policy.
// RetryBudget counts retries after the initial attempt; a failed file waits
// PaceDelay multiplied by the retries used so far, growing linearly. This
// tier is independent of the transport layer's fixed backoff.
type BatchOptions struct {
	PaceDelay    time.Duration
	RetryBudget  int
	SkipOnError  bool
	DeleteFolder bool
}

// Batcher iterates a directory of media files through the Uploader,
// applying pacing, the outer retry tier, and the skip-vs-abort policy.
type Batcher struct {
	uploader *Uploader
	api      API
	logger   *slog.Logger
	opts     BatchOptions
	recorder Recorder
	sleeper  func(time.Duration)
}

// NewBatcher constructs the batch driver. recorder may be nil.
func NewBatcher(api API, uploader *Uploader, logger *slog.Logger, opts BatchOptions, recorder Recorder) *Batcher {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Batcher{
		uploader: uploader,
		api:      api,
		logger:   logger,
		opts:     opts,
		recorder: recorder,
		sleeper:  time.Sleep,
	}
}

// WithSleeper overrides how pacing and retry waits are performed. Tests only.
func (b *Batcher) WithSleeper(sleeper func(time.Duration)) *Batcher {
	if sleeper != nil {
		b.sleeper = sleeper
	}
	return b
}

// Run processes every media file in dir, one at a time, in filename order.
// On abort the partial report accompanies the triggering error.
func (b *Batcher) Run(ctx context.Context, dir string) (*Report, error) {
	files, err := scan.ListMedia(dir)
	if err != nil {
		return nil, err
	}

	report := &Report{RunID: uuid.NewString()}
	b.logger.Info("starting batch", "run_id", report.RunID, "dir", dir, "files", len(files))

	for index, file := range files {
		b.logger.Info("uploading file",
			"file", file, "position", index+1, "total", len(files))

		outcome := b.processWithRetries(ctx, file)
		report.Outcomes = append(report.Outcomes, outcome)
		b.record(ctx, report.RunID, outcome)

		if outcome.Err != nil && !b.opts.SkipOnError {
			return report, outcome.Err
		}

		// Inter-request pacing applies after every file regardless of outcome.
		b.sleeper(b.opts.PaceDelay)
	}

	b.logger.Info("batch finished",
		"run_id", report.RunID, "succeeded", len(report.Succeeded()), "total", len(files))

	if b.opts.DeleteFolder {
		if err := scan.RemoveDirIfEmpty(dir); err != nil {
			b.logger.Warn("source directory not removed", "dir", dir, "error", err)
		} else {
			b.logger.Info("source directory removed", "dir", dir)
		}
	}
	return report, nil
}

// RunPool uploads the directory like Run and then groups the resulting
// posts into a pool named after the directory.
func (b *Batcher) RunPool(ctx context.Context, dir string) (*Report, *booru.Pool, error) {
	report, err := b.Run(ctx, dir)
	if err != nil {
		return report, nil, err
	}
	ids := report.Succeeded()
	if len(ids) == 0 {
		return report, nil, fmt.Errorf("no posts uploaded, pool not created")
	}

	poolName := filepath.Base(filepath.Clean(dir))
	pool, err := b.api.CreatePostPool(ctx, &booru.CreatePool{
		Names: []string{poolName},
		Posts: ids,
	})
	if err != nil {
		return report, nil, err
	}
	b.logger.Info("pool created", "pool_id", pool.ID, "name", poolName, "posts", len(ids))
	return report, pool, nil
}

// processWithRetries drives the outer retry tier for one file: retry until
// the budget is exhausted or the error is permanent, waiting a linearly
// growing delay between attempts.
func (b *Batcher) processWithRetries(ctx context.Context, file string) Outcome {
	outcome := Outcome{Path: file}
	for {
		outcome.Attempts++
		postID, artist, err := b.uploader.Process(ctx, file)
		if err == nil {
			outcome.PostID = postID
			outcome.Artist = artist
			outcome.Err = nil
			b.logger.Info("finished file", "file", file, "post_id", postID, "attempts", outcome.Attempts)
			return outcome
		}
		outcome.Err = err

		retriesUsed := outcome.Attempts - 1
		if permanent(err) || retriesUsed >= b.opts.RetryBudget {
			b.logger.Error("file failed",
				"file", file, "attempts", outcome.Attempts, "error", err,
				"skip_on_error", b.opts.SkipOnError)
			return outcome
		}

		delay := b.opts.PaceDelay * time.Duration(retriesUsed+1)
		b.logger.Warn("upload failed, retrying file",
			"file", file, "attempt", outcome.Attempts,
			"retry_budget", b.opts.RetryBudget, "delay", delay, "error", err)
		b.sleeper(delay)
	}
}

func (b *Batcher) record(ctx context.Context, runID string, outcome Outcome) {
	if b.recorder == nil {
		return
	}
	entry := history.Entry{
		RunID:      runID,
		SourcePath: outcome.Path,
		Status:     history.StatusSucceeded,
		PostID:     int64(outcome.PostID),
		Artist:     outcome.Artist,
	}
	if outcome.Err != nil {
		entry.Status = history.StatusFailed
		if b.opts.SkipOnError {
			entry.Status = history.StatusSkipped
		}
		entry.Error = outcome.Err.Error()
		entry.PostID = 0
	}
	if err := b.recorder.Record(ctx, entry); err != nil {
		b.logger.Warn("history record failed", "file", outcome.Path, "error", err)
	}
}
