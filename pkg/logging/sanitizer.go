package logging

import (
	"net/url"
	"regexp"
	"strings"
)

// RedactedText is the replacement text for sensitive data.
const RedactedText = "[REDACTED]"

var (
	// password=xxx, pwd=xxx, pass=xxx up to the next delimiter
	passwordPattern = regexp.MustCompile(`(?i)(password|pwd|pass)=[^;&\s]+`)

	// user:pass@host inside free text
	connStringPattern = regexp.MustCompile(`://[^:/\s]+:[^@\s]+@`)
)

// SanitizeConnectionString removes credentials from a connection URL or
// key/value connection string. Use this before logging any connectionUrl.
func SanitizeConnectionString(connStr string) string {
	if connStr == "" {
		return ""
	}

	if u, err := url.Parse(connStr); err == nil && u.Scheme != "" && u.Host != "" {
		if _, hasPassword := u.User.Password(); hasPassword {
			u.User = url.UserPassword(u.User.Username(), RedactedText)
		}
		q := u.Query()
		for key := range q {
			if passwordPattern.MatchString(key + "=x") {
				q.Set(key, RedactedText)
			}
		}
		u.RawQuery = q.Encode()
		// url.String escapes the brackets of the marker; undo that for readability.
		return unescapeMarker(u.String())
	}

	return passwordPattern.ReplaceAllString(connStr, "${1}="+RedactedText)
}

// SanitizeError sanitizes error messages that might contain credentials.
// Driver errors frequently echo the connection string back.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}

	sanitized := passwordPattern.ReplaceAllString(err.Error(), "${1}="+RedactedText)
	return connStringPattern.ReplaceAllString(sanitized, "://"+RedactedText+"@")
}

// unescapeMarker undoes the URL escaping url.URL.String applies to the
// redaction marker.
func unescapeMarker(s string) string {
	return strings.ReplaceAll(s, url.QueryEscape(RedactedText), RedactedText)
}
