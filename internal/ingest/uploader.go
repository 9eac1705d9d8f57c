package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"booructl/internal/booru"
	"booructl/internal/logging"
	"booructl/internal/scan"
	"booructl/internal/sidecar"
)

// Uploader drives one media file through the reconciliation pipeline:
// temp upload, reverse search, sidecar draft, duplicate resolution, then a
// single create or update call.
type Uploader struct {
	api         API
	logger      *slog.Logger
	deleteAfter bool
}

// NewUploader constructs the per-file orchestrator. When deleteAfter is set
// a confirmed success removes the media file and its sidecars.
func NewUploader(api API, logger *slog.Logger, deleteAfter bool) *Uploader {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Uploader{api: api, logger: logger, deleteAfter: deleteAfter}
}

// Process uploads one file and reconciles it against server duplicate
// detection. Returns the resulting post ID and the creator name extracted
// from the sidecars, when present.
func (u *Uploader) Process(ctx context.Context, mediaPath string) (booru.PostID, string, error) {
	file, err := os.Open(mediaPath)
	if err != nil {
		return 0, "", fmt.Errorf("open media file: %w", err)
	}
	token, err := u.api.UploadTemporaryFile(ctx, filepath.Base(mediaPath), file)
	file.Close()
	if err != nil {
		return 0, "", err
	}

	search, err := u.api.ReverseSearch(ctx, token)
	if err != nil {
		return 0, "", err
	}

	meta, err := sidecar.Load(mediaPath, u.logger)
	if err != nil {
		return 0, "", err
	}
	draft := draftFromMetadata(meta, token)

	decision := Resolve(search)
	draft.Relations = decision.Relations

	var post *booru.Post
	if decision.Update() {
		// An exact match always updates in place; the create path must not
		// run for this file.
		payload, err := mergeIntoExisting(decision.Exact, draft)
		if err != nil {
			return 0, "", err
		}
		u.logger.Info("exact match found, updating post",
			"file", mediaPath, "post_id", decision.Exact.ID)
		post, err = u.api.UpdatePost(ctx, decision.Exact.ID, payload)
		if err != nil {
			return 0, "", err
		}
	} else {
		post, err = u.api.CreatePost(ctx, draft.createPayload())
		if err != nil {
			return 0, "", err
		}
	}

	if u.deleteAfter {
		if err := scan.CleanupFile(mediaPath); err != nil {
			u.logger.Warn("cleanup after upload failed", "file", mediaPath, "error", err)
		}
	}
	return post.ID, meta.Creator, nil
}
