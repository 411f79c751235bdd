package transcode

import (
	"regexp"
	"strconv"
	"strings"
	"sync"
)

// TokenPrefix starts every placeholder token.
const TokenPrefix = "__b_"

var tokenPattern = regexp.MustCompile(`__b_\d+`)

// Codec maps placeholder tokens to the values they stand for.
// The map is never cleared, so sequence numbers stay unique for the lifetime
// of the Codec.
type Codec struct {
	mu     sync.Mutex
	next   uint64
	values map[string]any
}

// NewCodec creates an empty Codec.
func NewCodec() *Codec {
	return &Codec{values: make(map[string]any)}
}

// Encode returns the markup form of value. Strings and numbers are returned
// as text; anything else is stored and replaced by a fresh token.
func (c *Codec) Encode(value any) string {
	if s, ok := primitive(value); ok {
		return s
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	token := TokenPrefix + strconv.FormatUint(c.next, 10)
	c.next++
	c.values[token] = value
	return token
}

// Decode returns the value behind token. Input that is not a known token is
// returned unchanged.
func (c *Codec) Decode(token string) any {
	if !IsToken(token) {
		return token
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if v, ok := c.values[token]; ok {
		return v
	}
	return token
}

// Len returns the number of stored values.
func (c *Codec) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.values)
}

// IsToken reports whether s has the exact shape of a placeholder token.
func IsToken(s string) bool {
	if !strings.HasPrefix(s, TokenPrefix) || len(s) == len(TokenPrefix) {
		return false
	}
	for _, r := range s[len(TokenPrefix):] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Strip removes every token-shaped substring from s.
func Strip(s string) string {
	return tokenPattern.ReplaceAllString(s, "")
}

// primitive formats strings and numbers. ok is false for every other type.
func primitive(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case int:
		return strconv.Itoa(v), true
	case int8:
		return strconv.FormatInt(int64(v), 10), true
	case int16:
		return strconv.FormatInt(int64(v), 10), true
	case int32:
		return strconv.FormatInt(int64(v), 10), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case uint:
		return strconv.FormatUint(uint64(v), 10), true
	case uint8:
		return strconv.FormatUint(uint64(v), 10), true
	case uint16:
		return strconv.FormatUint(uint64(v), 10), true
	case uint32:
		return strconv.FormatUint(uint64(v), 10), true
	case uint64:
		return strconv.FormatUint(v, 10), true
	case uintptr:
		return strconv.FormatUint(uint64(v), 10), true
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	default:
		return "", false
	}
}
