// Package directory abstracts the external identity provider behind a small
// capability interface: credential validation and group-membership lookup
// against a single configured realm. The production implementation talks to
// Keycloak; a Fake serves tests.
package directory
