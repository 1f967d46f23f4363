package auth

import (
	"encoding/base64"
	"strings"
	"unicode/utf8"
)

// basicPrefix is the literal scheme prefix of a Basic Authorization
// header, including the single separating space.
const basicPrefix = "Basic "

// ExtractBasicToken returns the base64 payload of a Basic Authorization
// header value. The second return is false unless the header starts
// with the literal "Basic " prefix.
func ExtractBasicToken(header string) (string, bool) {
	if !strings.HasPrefix(header, basicPrefix) {
		return "", false
	}
	return header[len(basicPrefix):], true
}

// DecodeToken decodes a standard-base64 token into its UTF-8 payload.
// Invalid base64 or a non-UTF-8 payload yields false, never an error.
func DecodeToken(token string) (string, bool) {
	if token == "" {
		return "", false
	}
	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return "", false
	}
	if !utf8.Valid(raw) {
		return "", false
	}
	return string(raw), true
}

// SplitCredentials splits a decoded "email:password" pair on the first
// colon only, so the password may itself contain colons. Absent a
// separator it returns empty strings and false.
func SplitCredentials(decoded string) (email, password string, ok bool) {
	email, password, ok = strings.Cut(decoded, ":")
	if !ok {
		return "", "", false
	}
	return email, password, true
}
