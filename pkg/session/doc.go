// Package session owns the authenticated state of the current principal and
// orchestrates login against the identity provider: credential validation,
// teller-role entry check, and the orthogonal administrator flag. Every
// attempt is audited with a specific success or failure reason.
package session
