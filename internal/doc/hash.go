package doc

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// SHA256Hex computes the lowercase hex SHA-256 digest of raw file bytes.
// This is the fingerprint format carried in Preimage.SHA256.
func SHA256Hex(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// Matches reports whether the preimage fingerprint matches the live file
// state. A nil preimage matches anything. Unset fields are not checked;
// hashes compare case-insensitively.
func (p *Preimage) Matches(exists bool, data []byte) bool {
	if p == nil {
		return true
	}
	if p.Exists != nil && *p.Exists != exists {
		return false
	}
	if p.SHA256 != "" && !strings.EqualFold(p.SHA256, SHA256Hex(data)) {
		return false
	}
	if p.Size != nil && *p.Size != int64(len(data)) {
		return false
	}
	return true
}
