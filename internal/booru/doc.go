// Package booru implements the authenticated transport to a szurubooru-style
// image-board API.
//
// The Client serializes requests, attaches the precomputed Token
// authorization header, and wraps every call in a fixed-backoff retry loop
// that distinguishes transient failures from permanent ones. It owns the
// inner of the two retry tiers; the outer per-file tier lives in the ingest
// package. The package also defines the wire models shared by the
// reconciliation pipeline.
//
// The client knows nothing about sidecars, merging, or batch policy; it is a
// plain request/response layer.
package booru
