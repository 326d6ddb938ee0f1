// Package metrics defines Prometheus metrics for the tellerguard core,
// covering authentication, dual-control approvals, audit sink health,
// vault operations, directory lookups, and mail delivery.
package metrics
