package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"booructl/internal/booru"
	"booructl/internal/logging"
)

// PairOutcome is the terminal result for one merge pair.
type PairOutcome struct {
	Pair MergePair
	Err  error
}

// MergeObserver is notified after each pair completes. Used by the CLI for
// progress rendering; cosmetic only.
type MergeObserver func(index, total int, outcome PairOutcome)

// Merger performs version-checked merges of existing post pairs, one at a
// time, with the same skip-vs-abort policy as the batch driver.
type Merger struct {
	api         API
	logger      *slog.Logger
	pace        time.Duration
	skipOnError bool
	observer    MergeObserver
	sleeper     func(time.Duration)
}

// NewMerger constructs the post-merge driver. observer may be nil.
func NewMerger(api API, logger *slog.Logger, pace time.Duration, skipOnError bool, observer MergeObserver) *Merger {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Merger{
		api:         api,
		logger:      logger,
		pace:        pace,
		skipOnError: skipOnError,
		observer:    observer,
		sleeper:     time.Sleep,
	}
}

// WithSleeper overrides how pacing waits are performed. Tests only.
func (m *Merger) WithSleeper(sleeper func(time.Duration)) *Merger {
	if sleeper != nil {
		m.sleeper = sleeper
	}
	return m
}

// Run merges each pair in order. On abort the outcomes so far accompany the
// triggering error.
func (m *Merger) Run(ctx context.Context, pairs []MergePair) ([]PairOutcome, error) {
	outcomes := make([]PairOutcome, 0, len(pairs))
	for index, pair := range pairs {
		err := m.mergePair(ctx, pair)
		outcome := PairOutcome{Pair: pair, Err: err}
		outcomes = append(outcomes, outcome)
		if m.observer != nil {
			m.observer(index, len(pairs), outcome)
		}

		if err != nil {
			m.logger.Error("merge pair failed",
				"remove", pair.Remove, "merge_into", pair.MergeInto, "error", err)
			if !m.skipOnError {
				return outcomes, err
			}
		} else {
			m.logger.Info("merged posts", "remove", pair.Remove, "merge_into", pair.MergeInto)
		}

		m.sleeper(m.pace)
	}
	return outcomes, nil
}

// mergePair fetches both posts' current versions and submits the merge.
// A missing version is fatal for the pair and never retried.
func (m *Merger) mergePair(ctx context.Context, pair MergePair) error {
	removeVersion, err := m.fetchVersion(ctx, pair.Remove)
	if err != nil {
		return err
	}
	mergeToVersion, err := m.fetchVersion(ctx, pair.MergeInto)
	if err != nil {
		return err
	}

	_, err = m.api.MergePosts(ctx, &booru.MergeRequest{
		RemovePostVersion: removeVersion,
		RemovePost:        pair.Remove,
		MergeToVersion:    mergeToVersion,
		MergeToPost:       pair.MergeInto,
		ReplaceContent:    false,
	})
	return err
}

func (m *Merger) fetchVersion(ctx context.Context, id booru.PostID) (int64, error) {
	post, err := m.api.GetPost(ctx, id)
	if err != nil {
		return 0, err
	}
	if post.Version == nil {
		return 0, fmt.Errorf("%w: post %d", ErrMissingVersion, id)
	}
	return *post.Version, nil
}
