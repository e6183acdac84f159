package payload

import (
	"errors"
	"strings"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := []string{
		"",
		"plain ascii",
		"Password: secret123\nForm Type: X\n\nName: Y\n",
		"multi-byte: héllo wörld — 日本語 🎉",
		"newlines\nand\ttabs\r\n",
		strings.Repeat("я", 500),
	}
	for _, text := range cases {
		if text == "" {
			continue // empty encodes to empty, which Decode treats as missing
		}
		encoded := Encode(text)
		for _, r := range encoded {
			if r > 127 {
				t.Fatalf("encoded output not ASCII-safe: %q", encoded)
			}
		}
		decoded, err := Decode(encoded)
		if err != nil {
			t.Fatalf("Decode(%q) failed: %v", encoded, err)
		}
		if decoded != text {
			t.Fatalf("round trip mismatch: got %q, want %q", decoded, text)
		}
	}
}

func TestDecodeMissing(t *testing.T) {
	_, err := Decode("")
	if !errors.Is(err, ErrMissing) {
		t.Fatalf("expected ErrMissing, got %v", err)
	}
}

func TestDecodeCorrupt(t *testing.T) {
	_, err := Decode("!!!not base64!!!")
	if !errors.Is(err, ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt, got %v", err)
	}
}

func TestDecodeInvalidUTF8(t *testing.T) {
	// Valid base64 of bytes that are not valid UTF-8.
	_, err := Decode("gP8=")
	if !errors.Is(err, ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt for invalid UTF-8, got %v", err)
	}
}

func TestDecodeMissingAndCorruptDistinct(t *testing.T) {
	_, missingErr := Decode("")
	_, corruptErr := Decode("%%%")
	if errors.Is(missingErr, ErrCorrupt) || errors.Is(corruptErr, ErrMissing) {
		t.Fatal("missing and corrupt errors must stay distinct")
	}
}

func TestDecodeAcceptsStandardAlphabet(t *testing.T) {
	// btoa-produced payloads use the standard alphabet with padding.
	decoded, err := Decode("aGVsbG8=")
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if decoded != "hello" {
		t.Fatalf("got %q, want hello", decoded)
	}
}
