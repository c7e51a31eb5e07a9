package util

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
)

// SHA256HexFromReader streams r through SHA-256. Policy IDs are the
// hash of the uploaded file, so re-uploading the same document maps to
// the same policy.
func SHA256HexFromReader(r io.Reader) (string, error) {
	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// SHA256Hex hashes b in memory. Used for per-chunk content hashes.
func SHA256Hex(b []byte) string {
	x := sha256.Sum256(b)
	return hex.EncodeToString(x[:])
}
