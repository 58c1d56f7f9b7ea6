// Package state keeps per-user conversation sessions in memory.
// It is domain-agnostic: the session type is a type parameter and callers
// mutate it through Update, which serializes work for the same user.
package state
