package tools

import (
	"strings"

	"github.com/google/uuid"
)

const tokenLen = 6

// UniqueFileName prefixes the URL's base name with a short random token.
func UniqueFileName(rawURL string) string {
	token := strings.ReplaceAll(uuid.NewString(), "-", "")[:tokenLen]
	return token + "-" + BaseName(rawURL)
}
