// Package config loads the tellerguard YAML configuration: the Keycloak
// directory realm, the audit sink selection, the vault key-storage location,
// optional SMTP notification, and the metrics endpoint.
package config
