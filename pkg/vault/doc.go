// Package vault provides confidentiality for sensitive string values across
// persistence boundaries. Values are encrypted with AES-256-CBC under a
// process-wide key that lives in the platform keyring and never leaves it in
// raw form; the persisted format is base64(IV || ciphertext).
//
// The key is created once on first use and reused across process runs. There
// is no key rotation or versioning.
package vault
