// Package notify sends best-effort mail notifications about dual-control
// approval outcomes over SMTP.
package notify
