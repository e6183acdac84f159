package payload

import (
	"encoding/base64"
	"errors"
	"fmt"
	"unicode/utf8"
)

// ErrMissing indicates no payload parameter was supplied at all.
var ErrMissing = errors.New("no payload supplied")

// ErrCorrupt indicates a payload was supplied but cannot be decoded.
var ErrCorrupt = errors.New("payload corrupted")

// Encode converts arbitrary UTF-8 text into an ASCII-safe string that
// survives placement in a URL query parameter. The text's UTF-8 byte
// sequence feeds the binary-to-text step, so multi-byte characters
// round-trip intact.
func Encode(text string) string {
	return base64.URLEncoding.EncodeToString([]byte(text))
}

// Decode reverses Encode. An empty input returns ErrMissing; malformed
// base64 or bytes that are not valid UTF-8 return ErrCorrupt. It never
// returns partial garbage as a success.
func Decode(encoded string) (string, error) {
	if encoded == "" {
		return "", ErrMissing
	}
	raw, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		// Tolerate standard-alphabet input produced by other encoders.
		raw, err = base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
	}
	if !utf8.Valid(raw) {
		return "", fmt.Errorf("%w: decoded bytes are not valid UTF-8", ErrCorrupt)
	}
	return string(raw), nil
}
