// Package repository round-trips the two aggregates through the key-value
// store: each named record is serialized and written in full on every
// mutation, and an absent key loads as the default empty state.
package repository

// Persisted record names. Values are JSON; there is no schema version
// field, so any format change is a breaking change.
const (
	KeyUserAuth          = "user-auth"
	KeyConnectedAccounts = "connected-accounts"
	KeyScheduledPosts    = "scheduled-posts"
)
