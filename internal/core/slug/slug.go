// Package slug normalizes human-readable property identifiers.
package slug

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var numericID = regexp.MustCompile(`^\d+$`)

// Key - normalized forms of a raw slug
type Key struct {
	Raw       string
	Decoded   string
	Lower     string
	NumericID string // empty when the trailing segment is not purely numeric
}

func (k Key) HasNumericID() bool {
	return k.NumericID != ""
}

// Normalize never fails: on a decode error the returned key falls back to the raw
// string and the error is returned only so the caller can log it.
func Normalize(raw string) (Key, error) {
	var decodeErr error

	decoded, err := url.PathUnescape(raw)
	if err != nil {
		decodeErr = fmt.Errorf("failed to decode slug %q: %w", raw, err)
		decoded = raw
	}

	return Key{
		Raw:       raw,
		Decoded:   decoded,
		Lower:     strings.ToLower(decoded),
		NumericID: trailingNumericID(decoded),
	}, decodeErr
}

// Decode returns the percent-decoded form or the input itself if it cannot be decoded.
func Decode(raw string) string {
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// Equal compares two stored/requested slugs ignoring encoding and case.
func Equal(a, b string) bool {
	return strings.ToLower(Decode(a)) == strings.ToLower(Decode(b))
}

func trailingNumericID(s string) string {
	idx := strings.LastIndex(s, "-")
	if idx < 0 {
		return ""
	}
	candidate := s[idx+1:]
	if !numericID.MatchString(candidate) {
		return ""
	}
	return candidate
}
