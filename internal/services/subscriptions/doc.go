// Package subscriptions owns the recurring charges each user tracks.
//
// Subpackages:
//   - subscription: record model, form normalization and stats
//   - storage: persistence interfaces and the SQLite implementation
package subscriptions
