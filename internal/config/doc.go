// Package config loads, normalizes, and validates booructl configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// BOORUCTL_TOKEN. The Config type centralizes every knob the CLI needs: the
// remote server, the token credentials, and the two independent retry tiers
// (fixed transport backoff vs. linearly growing per-file delay).
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
