// Command qrsafe turns structured form records into password-gated QR codes,
// serves the HTTP API, and manages the retained history.
package main
