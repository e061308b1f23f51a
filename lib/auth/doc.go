// Package auth handles user registration and credential verification for the
// collection server. Passwords are stored as hex-encoded SHA-256 digests in
// the users table of the backing store; plaintext never leaves this package.
package auth
