package gate

import (
	"strings"
)

// State describes where a viewer sits in the unlock flow.
type State string

const (
	// StateLoading is the initial state before a payload has been examined.
	StateLoading State = "loading"
	// StateAwaitingPassword holds protected content until a matching password arrives.
	StateAwaitingPassword State = "awaiting_password"
	// StateUnlocked exposes the protected content. Terminal.
	StateUnlocked State = "unlocked"
	// StateError means the payload could not be loaded. Terminal, content never visible.
	StateError State = "error"
)

const passwordLinePrefix = "Password: "

// Gate controls reveal of a decoded payload. Construction examines the
// payload for a leading "Password: <p>\n" line; when present the gate opens
// only for that password or the configured master password, and the password
// line itself is never exposed.
type Gate struct {
	state          State
	recordPassword string
	masterPassword string
	content        string
	reason         string
}

// FromPayload builds a gate for decoded payload text. masterPassword may be
// empty, which disables the override entirely.
func FromPayload(decoded, masterPassword string) *Gate {
	g := &Gate{state: StateLoading, masterPassword: masterPassword}

	if rest, password, ok := splitPasswordLine(decoded); ok {
		g.recordPassword = password
		g.content = rest
		g.state = StateAwaitingPassword
		return g
	}

	// No embedded password line: the payload is password-free.
	g.content = decoded
	g.state = StateUnlocked
	return g
}

// Failed builds a terminal error gate with a user-facing reason.
func Failed(reason string) *Gate {
	return &Gate{state: StateError, reason: reason}
}

func splitPasswordLine(decoded string) (rest, password string, ok bool) {
	if !strings.HasPrefix(decoded, passwordLinePrefix) {
		return "", "", false
	}
	newline := strings.IndexByte(decoded, '\n')
	if newline < 0 {
		return "", "", false
	}
	return decoded[newline+1:], decoded[len(passwordLinePrefix):newline], true
}

// State returns the current gate state.
func (g *Gate) State() State { return g.state }

// Reason returns the failure description for gates in StateError.
func (g *Gate) Reason() string { return g.reason }

// Submit attempts to unlock with a candidate password. It returns true and
// transitions to StateUnlocked when the candidate matches the record password
// or the master password. A mismatch discards the candidate and leaves the
// state untouched; there is no lockout.
func (g *Gate) Submit(candidate string) bool {
	switch g.state {
	case StateUnlocked:
		return true
	case StateAwaitingPassword:
		if candidate == g.recordPassword || (g.masterPassword != "" && candidate == g.masterPassword) {
			g.state = StateUnlocked
			return true
		}
		return false
	default:
		return false
	}
}

// Content returns the protected text. It is only available once unlocked.
func (g *Gate) Content() (string, bool) {
	if g.state != StateUnlocked {
		return "", false
	}
	return g.content, true
}
