// Package approval implements dual-control authorization: destructive
// account operations require a second principal who re-authenticates with
// their own credentials and holds the administrator group. Every decision,
// granted or denied, produces an audit event.
package approval
