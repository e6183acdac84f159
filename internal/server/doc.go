// Package server exposes form templates, QR generation, payload viewing, and
// history over a JSON HTTP API.
package server
