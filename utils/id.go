package utils

import (
	"crypto/rand"
	"math/big"
	"strings"
)

// URL-safe charset without the ambiguous O, I, l, 0, 1
const idCharset = "ABCDEFGHJKMNPQRSTUVWXYZabcdefghijkmnpqrstuvwxyz23456789"

// NewID generates a random URL-safe paste ID of the given length using
// crypto/rand. Lengths outside 4..32 fall back to 10.
func NewID(length int) (string, error) {
	if length < 4 || length > 32 {
		length = 10
	}
	result := make([]byte, length)
	for i := range result {
		idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(idCharset))))
		if err != nil {
			return "", err
		}
		result[i] = idCharset[idx.Int64()]
	}
	return string(result), nil
}

// IsValidID checks that an ID has a plausible length and contains only
// charset characters, so malformed path parameters never reach the store.
func IsValidID(id string) bool {
	if len(id) < 4 || len(id) > 32 {
		return false
	}
	for _, char := range id {
		if !strings.ContainsRune(idCharset, char) {
			return false
		}
	}
	return true
}
