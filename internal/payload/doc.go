// Package payload owns the textual wire format of a record: serialization to
// the line-oriented plaintext and the URL-safe codec wrapped around it.
//
// Decode(Encode(s)) == s holds for all valid UTF-8 input. Decode
// distinguishes a missing payload (ErrMissing) from a corrupt one
// (ErrCorrupt) so callers can present different messages for each.
package payload
