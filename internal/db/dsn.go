package db

import (
	"regexp"
	"strings"
)

// IsPostgresDSN reports whether the DSN selects the postgres driver.
// Anything else (a plain path, file: URI or :memory:) goes to sqlite.
func IsPostgresDSN(dsn string) bool {
	lower := strings.ToLower(strings.TrimSpace(dsn))
	return strings.HasPrefix(lower, "postgres://") ||
		strings.HasPrefix(lower, "postgresql://") ||
		strings.Contains(lower, "host=")
}

var passwordRegex = regexp.MustCompile(`(password=|:)([^@\s:]+)(@)`)

// MaskDSN hides the password part of a DSN for log output.
func MaskDSN(dsn string) string {
	if strings.Contains(dsn, "password=") {
		re := regexp.MustCompile(`(password=)([^\s]+)`)
		return re.ReplaceAllString(dsn, `${1}***`)
	}
	if strings.Contains(dsn, "@") {
		return passwordRegex.ReplaceAllString(dsn, `${1}***${3}`)
	}
	return dsn
}
