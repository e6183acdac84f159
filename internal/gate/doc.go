// Package gate implements the decode-side access gate: a small state machine
// (Loading → AwaitingPassword | Unlocked | Error) that strips the optional
// leading password line from a payload and holds the remainder back until a
// matching password is submitted.
package gate
