// Package sidecar parses the metadata companions that may sit next to a
// media file: a .txt tag list and a .json descriptor carrying source URLs,
// site-specific tag payloads, a creator name, and a safety rating.
//
// Sidecar suffixes append to the full media filename (img.png.txt, not
// img.txt). Parsing is pure once the bytes are read; a malformed descriptor
// is fatal for its file and tagged with ErrMalformed so the retry tiers
// fail fast instead of retrying it.
package sidecar
