// Package pipeline coordinates form validation, payload serialization,
// oversized-payload summarization, QR rendering, and history retention.
package pipeline
