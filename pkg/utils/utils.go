package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// GenerateRequestHash returns a SHA256 hex digest over the given parts. Parts
// are separated by a NUL byte so ("ab", "c") and ("a", "bc") differ.
func GenerateRequestHash(parts ...string) string {
	hash := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return hex.EncodeToString(hash[:])
}

// IsValidFileExtension checks if the file extension is in the allowed list.
// An empty list allows every file.
func IsValidFileExtension(filename string, allowedExtensions []string) bool {
	if len(allowedExtensions) == 0 {
		return true
	}
	ext := filepath.Ext(filename)
	for _, allowedExt := range allowedExtensions {
		if strings.EqualFold(ext, allowedExt) {
			return true
		}
	}
	return false
}

// CapitalizeWords capitalizes the first letter of each word in a string.
func CapitalizeWords(s string) string {
	// strings.Title is deprecated.
	return cases.Title(language.Und, cases.NoLower).String(s)
}

// IsEmptyString checks if a string is empty or only whitespace.
func IsEmptyString(s string) bool {
	return strings.TrimSpace(s) == ""
}

// TruncateString truncates a string to maxLength, appending "..." when cut.
func TruncateString(s string, maxLength int) string {
	if len(s) <= maxLength {
		return s
	}
	if maxLength <= 3 {
		return s[:maxLength]
	}
	return s[:maxLength-3] + "..."
}
