// Package config loads, normalizes, and validates qrsafe's TOML
// configuration.
//
// Load resolves the config file location (explicit path, then
// ~/.config/qrsafe/config.toml, then ./qrsafe.toml), decodes it over
// Default(), expands ~ in path fields, and validates the result. A missing
// file is not an error; the defaults are usable as-is except for the LLM API
// key, which gates the summarization feature.
package config
