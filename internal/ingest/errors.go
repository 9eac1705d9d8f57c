package ingest

import (
	"context"
	"errors"

	"booructl/internal/booru"
	"booructl/internal/sidecar"
)

var (
	// ErrMissingVersion marks a post that lacks the server version required
	// for a version-checked update or merge. Fatal for the item.
	ErrMissingVersion = errors.New("missing post version")
	// ErrParse marks malformed local input such as a merge-pairs file.
	// Fatal for the whole read.
	ErrParse = errors.New("parse error")
)

// permanent reports whether err can never succeed on a repeat attempt. The
// outer per-file retry tier consults this so malformed input and version
// conflicts fail fast instead of burning the retry budget.
func permanent(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return true
	case errors.Is(err, ErrMissingVersion), errors.Is(err, ErrParse):
		return true
	case errors.Is(err, sidecar.ErrMalformed):
		return true
	case errors.Is(err, booru.ErrVersionConflict), errors.Is(err, booru.ErrNotFound):
		return true
	default:
		return false
	}
}
