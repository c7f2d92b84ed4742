package middleware

import (
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
)

const (
	// UserKeyKey is the context key for the caller's user key.
	UserKeyKey = "user_key"
	// UserKeyHeader identifies the caller that owns saved calculations.
	UserKeyHeader = "X-User-Key"
	// AnonymousUserKey is used when no header is sent.
	AnonymousUserKey = "anonymous"

	maxUserKeyLength = 128
)

// UserKey reads X-User-Key into the context. Missing or blank values become
// AnonymousUserKey; overlong values are truncated on a rune boundary and
// invalid UTF-8 is dropped, so the key is always storable as TEXT.
func UserKey() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := truncateUserKey(strings.ToValidUTF8(strings.TrimSpace(c.GetHeader(UserKeyHeader)), ""))
		if key == "" {
			key = AnonymousUserKey
		}
		c.Set(UserKeyKey, key)
		c.Next()
	}
}

// GetUserKey returns the caller's user key, or AnonymousUserKey when unset.
func GetUserKey(c *gin.Context) string {
	if v, exists := c.Get(UserKeyKey); exists {
		if key, ok := v.(string); ok && key != "" {
			return key
		}
	}
	return AnonymousUserKey
}

// truncateUserKey cuts key to at most maxUserKeyLength bytes without
// splitting a multi-byte rune.
func truncateUserKey(key string) string {
	if len(key) <= maxUserKeyLength {
		return key
	}
	cut := maxUserKeyLength
	for cut > 0 && !utf8.RuneStart(key[cut]) {
		cut--
	}
	return key[:cut]
}
