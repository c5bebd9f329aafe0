// Package sql screens user-supplied SQL identifiers before they are stored.
package sql

import (
	"strings"

	libinjection "github.com/corazawaf/libinjection-go"
)

// MaxIdentifierLength matches the longest identifier PostgreSQL and SQL
// Server accept without truncation.
const MaxIdentifierLength = 128

// Identifier is a named identifier value to screen, e.g. {"tableName", "orders"}.
type Identifier struct {
	Field string
	Value string
}

// InjectionFinding describes an identifier rejected by the screen.
type InjectionFinding struct {
	Field       string // Payload field that failed the check
	Value       string // The value that was checked
	Fingerprint string // libinjection fingerprint, empty for non-libinjection failures
	Reason      string
}

// CheckIdentifier screens one identifier. Returns nil when it is clean.
//
// An identifier fails when it is longer than MaxIdentifierLength, contains
// a statement terminator, comment marker or quote, or when libinjection
// recognises it as an injection payload.
//
// Example:
//
//	CheckIdentifier("tableName", "orders")               // nil
//	CheckIdentifier("tableName", "orders; DROP TABLE x") // Reason: "contains ';'"
func CheckIdentifier(field, value string) *InjectionFinding {
	if len(value) > MaxIdentifierLength {
		return &InjectionFinding{Field: field, Value: value, Reason: "is too long"}
	}

	for _, token := range []string{";", "--", "/*", "*/", "'", "\""} {
		if strings.Contains(value, token) {
			return &InjectionFinding{Field: field, Value: value, Reason: "contains '" + token + "'"}
		}
	}

	if isSQLi, fingerprint := libinjection.IsSQLi(value); isSQLi {
		return &InjectionFinding{
			Field:       field,
			Value:       value,
			Fingerprint: string(fingerprint),
			Reason:      "looks like SQL injection",
		}
	}

	return nil
}

// CheckIdentifiers screens identifiers in order and returns the first finding.
func CheckIdentifiers(ids ...Identifier) *InjectionFinding {
	for _, id := range ids {
		if finding := CheckIdentifier(id.Field, id.Value); finding != nil {
			return finding
		}
	}
	return nil
}
