// Package cli implements the tellerguard command tree: teller login,
// dual-control approval, and vault encrypt/decrypt operations.
package cli
