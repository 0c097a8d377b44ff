package utils

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/denisbrodbeck/machineid"
)

// HWID is a stable, privacy-preserving identifier for this device. It is sent
// with every API request so the server can correlate a device's sessions.
var HWID = hwid()

func hwid() string {
	id, err := machineid.ProtectedID("lorekeep")
	if err != nil {
		return "unknown"
	}
	sum := sha256.Sum256([]byte(id))
	return hex.EncodeToString(sum[:8])
}
