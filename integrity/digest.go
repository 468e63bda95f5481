package integrity

import (
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"io"
	"os"
	"strings"
)

// Algorithm names the digest used for every comparison, local and remote.
const Algorithm = "sha256"

// NewHash returns a fresh hash for Algorithm.
func NewHash() hash.Hash {
	return sha256.New()
}

// Sum formats the final digest of h.
func Sum(h hash.Hash) string {
	return hex.EncodeToString(h.Sum(nil))
}

// Digest streams the file at path through the hash.
func Digest(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", ioErr("open", path, err)
	}
	defer f.Close()

	h := NewHash()
	if _, err := io.Copy(h, f); err != nil {
		return "", ioErr("read", path, err)
	}

	return Sum(h), nil
}

func DigestReader(r io.Reader) (string, error) {
	h := NewHash()
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}

	return Sum(h), nil
}

// Equal compares two hex digests ignoring case.
func Equal(a string, b string) bool {
	return strings.EqualFold(a, b)
}
