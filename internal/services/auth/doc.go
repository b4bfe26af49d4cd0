// Package auth owns user identity: accounts, password credentials and
// browser sessions.
//
// Subpackages:
//   - user: user model and email normalization
//   - credential: password policy and bcrypt hashing
//   - session: signed session tokens carried in the browser cookie
//   - storage: persistence interfaces and the SQLite implementation
package auth
