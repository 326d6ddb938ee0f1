package audit

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net"
	"os"
	"os/user"

	"github.com/fincorehq/tellerguard/pkg/system"
)

// Enrichment resolution must never raise: every function here returns a
// printable string and substitutes a placeholder naming the failure cause
// when the environment cannot be queried. Audit logging degrades gracefully
// instead of blocking the business flow.

// DeviceFingerprint returns the MAC address of the first operational
// non-loopback, non-tunnel network interface.
func DeviceFingerprint() string {
	ifaces, err := net.Interfaces()
	if err != nil {
		return "mac unavailable: " + err.Error()
	}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		if addr := iface.HardwareAddr.String(); addr != "" {
			return addr
		}
	}
	return "mac not found"
}

// PrincipalIdentifier returns the host OS identity the process runs as,
// formatted as "uid (username)".
func PrincipalIdentifier() string {
	current, err := user.Current()
	if err != nil {
		return "principal unavailable: " + err.Error()
	}
	return fmt.Sprintf("%s (%s)", current.Uid, current.Username)
}

// Integrity returns the application integrity metadata: build name and
// version, the on-disk path of the running binary and its SHA-256 digest.
func Integrity() AppIntegrity {
	meta := AppIntegrity{
		Name:    system.Name,
		Version: system.Version,
	}

	path, err := os.Executable()
	if err != nil {
		meta.Path = "path unavailable: " + err.Error()
		meta.SHA256 = "hash unavailable: executable path unknown"
		return meta
	}
	meta.Path = path
	meta.SHA256 = fileSHA256(path)
	return meta
}

func fileSHA256(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return "hash unavailable: " + err.Error()
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "hash unavailable: " + err.Error()
	}
	return hex.EncodeToString(h.Sum(nil))
}

func enrich() Enrichment {
	return Enrichment{
		DeviceFingerprint:   DeviceFingerprint(),
		PrincipalIdentifier: PrincipalIdentifier(),
		App:                 Integrity(),
	}
}
