// Package config loads, normalizes, and validates dubscore configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, loads a working-directory .env file, and
// honours environment fallbacks such as DUBSCORE_FFMPEG. The Config type
// centralizes every knob the analyzer and CLI need, including scoring weight
// overrides that are turned into quality tables at startup.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
