package tools

import (
	"net/url"
	"path"
	"strings"
)

// HTTPSURL replaces the scheme of rawURL with https and leaves every other
// byte untouched. Input without a scheme gets one prepended the way a URL
// with an empty authority is rebuilt, so "www.google.de" becomes
// "https:///www.google.de".
func HTTPSURL(rawURL string) string {
	rest := rawURL
	if i := schemeEnd(rawURL); i > 0 {
		rest = rawURL[i+1:]
	}
	if strings.HasPrefix(rest, "//") {
		return "https:" + rest
	}
	if !strings.HasPrefix(rest, "/") {
		rest = "/" + rest
	}
	return "https://" + rest
}

// schemeEnd returns the index of the ':' terminating a valid scheme, or -1.
func schemeEnd(s string) int {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z':
		case '0' <= c && c <= '9' || c == '+' || c == '-' || c == '.':
			if i == 0 {
				return -1
			}
		case c == ':':
			if i == 0 {
				return -1
			}
			return i
		default:
			return -1
		}
	}
	return -1
}

// BaseName returns the last segment of the URL path, or "image" when the
// path has none.
func BaseName(rawURL string) string {
	const fallback = "image"
	u, err := url.Parse(rawURL)
	if err != nil || u.Path == "" {
		return fallback
	}
	name := path.Base(u.Path)
	if name == "/" || name == "." || name == ".." {
		return fallback
	}
	return name
}
