package discovery

import (
	"bytes"
	"path/filepath"
	"strings"
)

// normalizePath turns a relative path into the slash-separated form used for
// ignore and glob matching.
//
// Steps, in order:
//  1. OS separators become forward slashes
//  2. Runs of slashes collapse to one
//  3. Leading "./" prefixes are dropped
//  4. A trailing slash is dropped
func normalizePath(p string) string {
	p = filepath.ToSlash(p)

	if strings.Contains(p, "//") {
		var b strings.Builder
		b.Grow(len(p))
		prevSlash := false
		for i := 0; i < len(p); i++ {
			if p[i] == '/' {
				if !prevSlash {
					b.WriteByte('/')
				}
				prevSlash = true
				continue
			}
			b.WriteByte(p[i])
			prevSlash = false
		}
		p = b.String()
	}

	for strings.HasPrefix(p, "./") {
		p = p[2:]
	}

	if p == "." {
		return ""
	}

	return strings.TrimSuffix(p, "/")
}

// normalizeContent prepares raw ignore-file bytes for line splitting.
//
// A UTF-8 byte order mark is stripped (repeatedly, so the result is
// idempotent), then CRLF and lone CR line endings become LF.
func normalizeContent(content []byte) []byte {
	if len(content) == 0 {
		return content
	}

	for len(content) >= 3 && content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		content = content[3:]
	}
	if len(content) == 0 {
		return content
	}

	content = bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
	content = bytes.ReplaceAll(content, []byte("\r"), []byte("\n"))

	return content
}

// splitPath splits a normalized path into its non-empty segments.
func splitPath(path string) []string {
	if path == "" {
		return []string{}
	}

	parts := strings.Split(path, "/")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
