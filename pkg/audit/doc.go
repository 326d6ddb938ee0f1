// Package audit provides the security audit trail: structured, enriched
// records of every authentication, authorization, and financial-transaction
// event, appended to an external sink (Kafka or a structured log).
//
// Every event carries forensic enrichment (device network fingerprint, host
// principal identifier, application integrity metadata). Enrichment and sink
// writes degrade gracefully: a failure substitutes placeholder text or a
// local diagnostic write, never an error to the business caller.
package audit
