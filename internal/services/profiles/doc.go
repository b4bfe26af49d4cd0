// Package profiles keeps the personal details attached to each account.
//
// Subpackages:
//   - profile: profile model and input validation
//   - storage: persistence interfaces and the SQLite implementation
package profiles
