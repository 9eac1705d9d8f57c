// Package ingest implements the upload reconciliation pipeline: the
// per-file decision logic that combines local sidecar metadata with server
// duplicate-detection results into a single idempotent create-or-update
// call, plus the batch and post-merge drivers that apply pacing, the outer
// retry tier, and the skip-vs-abort failure policy.
//
// Two retry tiers exist on purpose. The transport layer (package booru)
// owns a fixed-backoff budget around each API call; this package owns a
// second per-file budget with a linearly growing delay. Permanent failures
// such as malformed sidecars, missing versions, and version conflicts skip
// both tiers.
package ingest
