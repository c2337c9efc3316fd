// Package shared provides common utility functions used across multiple
// packages in the jfrog-cleaner codebase.
package shared

import (
	"fmt"
	"net/url"
	"os"
	"strings"
)

// HTTPStatusErrorWithBody creates a formatted error that includes the
// response body for non-2xx HTTP responses.
func HTTPStatusErrorWithBody(status int, url string, body string) error {
	return fmt.Errorf("status=%d url=%s response=%s", status, url, body)
}

// EscapePath escapes each segment of a slash separated path while keeping
// the separators intact.
func EscapePath(value string) string {
	segments := strings.Split(strings.Trim(value, "/"), "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return strings.Join(segments, "/")
}

// ExpandEnv expands ${VAR} and $VAR references; unset variables expand to
// the empty string.
func ExpandEnv(value string) string {
	return strings.TrimSpace(os.ExpandEnv(value))
}
