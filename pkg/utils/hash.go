package utils

import (
	"crypto/md5"
	"fmt"
)

// HashString is a cache-key hash, not a security hash.
func HashString(input string) string {
	hash := md5.Sum([]byte(input))
	return fmt.Sprintf("%x", hash)
}

// QuestionKey builds the cache key for a question/context pair. Context is
// part of the key because first-person questions resolve differently per user.
func QuestionKey(question, userContext string) string {
	return HashString(question + "|" + userContext)
}
