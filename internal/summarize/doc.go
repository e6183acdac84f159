// Package summarize shortens oversized form payloads through an
// OpenAI-compatible chat completions endpoint so they fit inside a QR code.
package summarize
