package vault

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
	"go.uber.org/zap"

	"github.com/fincorehq/tellerguard/pkg/config"
	"github.com/fincorehq/tellerguard/pkg/metrics"
)

const (
	ivSize  = 16
	keySize = 32 // AES-256
)

var (
	// ErrMalformedCiphertext reports ciphertext that cannot be decrypted:
	// bad base64, truncation, or a padding mismatch after decryption.
	ErrMalformedCiphertext = errors.New("malformed ciphertext")

	// ErrKeyStore reports that the platform key store could not provide
	// a usable key.
	ErrKeyStore = errors.New("key store unavailable")
)

// Vault encrypts and decrypts sensitive strings with AES-256-CBC under a
// persistent key held in the OS keyring. Construct exactly one Vault per
// process and share it by reference.
type Vault struct {
	block  cipher.Block
	logger *zap.Logger
}

// New loads the AES key named by cfg from the OS keyring, creating and
// persisting a fresh 256-bit key on first use.
func New(cfg config.Vault, logger *zap.Logger) (*Vault, error) {
	key, err := loadOrCreateKey(cfg.KeyringService, cfg.KeyName, logger)
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: creating cipher: %v", ErrKeyStore, err)
	}

	return &Vault{block: block, logger: logger.Named("vault")}, nil
}

func loadOrCreateKey(service, name string, logger *zap.Logger) ([]byte, error) {
	encoded, err := keyring.Get(service, name)
	switch {
	case err == nil:
		key, decodeErr := base64.StdEncoding.DecodeString(encoded)
		if decodeErr != nil || len(key) != keySize {
			return nil, fmt.Errorf("%w: stored key %s/%s is corrupt", ErrKeyStore, service, name)
		}
		return key, nil

	case errors.Is(err, keyring.ErrNotFound):
		key := make([]byte, keySize)
		if _, randErr := rand.Read(key); randErr != nil {
			return nil, fmt.Errorf("%w: generating key: %v", ErrKeyStore, randErr)
		}
		if setErr := keyring.Set(service, name, base64.StdEncoding.EncodeToString(key)); setErr != nil {
			return nil, fmt.Errorf("%w: persisting key %s/%s: %v", ErrKeyStore, service, name, setErr)
		}
		logger.Info("created new encryption key in key store",
			zap.String("service", service),
			zap.String("key", name))
		return key, nil

	default:
		return nil, fmt.Errorf("%w: reading key %s/%s: %v", ErrKeyStore, service, name, err)
	}
}

// Encrypt returns base64(IV || AES-256-CBC(PKCS#7(plaintext))) under a fresh
// random 16-byte IV. The empty string is returned unchanged: empty values are
// deliberately not obfuscated so that absent fields stay recognizably absent.
func (v *Vault) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}

	iv := make([]byte, ivSize)
	if _, err := rand.Read(iv); err != nil {
		metrics.VaultOperations.WithLabelValues("encrypt", "error").Inc()
		return "", fmt.Errorf("generating IV: %w", err)
	}

	padded := pkcs7Pad([]byte(plaintext), aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(v.block, iv).CryptBlocks(ciphertext, padded)

	metrics.VaultOperations.WithLabelValues("encrypt", "success").Inc()
	return base64.StdEncoding.EncodeToString(append(iv, ciphertext...)), nil
}

// Decrypt is the inverse of Encrypt. The empty string is returned unchanged.
// Malformed input fails with ErrMalformedCiphertext, never with silently
// wrong plaintext from a padding mismatch.
func (v *Vault) Decrypt(encoded string) (string, error) {
	if encoded == "" {
		return "", nil
	}

	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", v.rejectCiphertext("invalid base64", err)
	}
	if len(raw) < ivSize+aes.BlockSize || (len(raw)-ivSize)%aes.BlockSize != 0 {
		return "", v.rejectCiphertext("truncated input", fmt.Errorf("%d bytes", len(raw)))
	}

	iv, ciphertext := raw[:ivSize], raw[ivSize:]
	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(v.block, iv).CryptBlocks(plaintext, ciphertext)

	unpadded, err := pkcs7Unpad(plaintext, aes.BlockSize)
	if err != nil {
		return "", v.rejectCiphertext("padding", err)
	}

	metrics.VaultOperations.WithLabelValues("decrypt", "success").Inc()
	return string(unpadded), nil
}

// rejectCiphertext logs and wraps a decrypt rejection. The ciphertext itself
// is never logged.
func (v *Vault) rejectCiphertext(cause string, err error) error {
	metrics.VaultOperations.WithLabelValues("decrypt", "error").Inc()
	v.logger.Warn("rejecting malformed ciphertext",
		zap.String("cause", cause),
		zap.String("error", err.Error()))
	return fmt.Errorf("%w: %s: %v", ErrMalformedCiphertext, cause, err)
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	return append(data, bytes.Repeat([]byte{byte(n)}, n)...)
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, errors.New("invalid padded length")
	}
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize {
		return nil, errors.New("padding mismatch")
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, errors.New("padding mismatch")
		}
	}
	return data[:len(data)-n], nil
}
