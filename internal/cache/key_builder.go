package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// AnswerKey builds the storage key for a question:
// answer:<sha256 of the normalized question>.
// Hashing keeps keys bounded no matter how long the question is.
func AnswerKey(question string) string {
	sum := sha256.Sum256([]byte(Normalize(question)))
	return "answer:" + hex.EncodeToString(sum[:])
}
