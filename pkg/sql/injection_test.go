package sql

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckIdentifier(t *testing.T) {
	tests := []struct {
		name       string
		value      string
		wantReject bool
	}{
		{name: "plain table", value: "orders", wantReject: false},
		{name: "snake case column", value: "customer_id", wantReject: false},
		{name: "schema with digits", value: "sales_2024", wantReject: false},
		{name: "mixed case", value: "OrderLines", wantReject: false},
		{name: "statement terminator", value: "orders; DROP TABLE users", wantReject: true},
		{name: "line comment", value: "orders--", wantReject: true},
		{name: "block comment", value: "orders/**/", wantReject: true},
		{name: "single quote", value: "x' OR '1'='1", wantReject: true},
		{name: "double quote", value: `"orders"`, wantReject: true},
		{name: "tautology", value: "1 OR 1=1", wantReject: true},
		{name: "union select", value: "1 UNION SELECT password FROM users", wantReject: true},
		{name: "too long", value: strings.Repeat("a", MaxIdentifierLength+1), wantReject: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			finding := CheckIdentifier("tableName", tt.value)
			if !tt.wantReject {
				assert.Nil(t, finding)
				return
			}
			require.NotNil(t, finding)
			assert.Equal(t, "tableName", finding.Field)
			assert.Equal(t, tt.value, finding.Value)
			assert.NotEmpty(t, finding.Reason)
		})
	}
}

func TestCheckIdentifiers_ReturnsFirstFinding(t *testing.T) {
	finding := CheckIdentifiers(
		Identifier{Field: "schemaName", Value: "public"},
		Identifier{Field: "tableName", Value: "orders;"},
		Identifier{Field: "columnName", Value: "x' --"},
	)
	require.NotNil(t, finding)
	assert.Equal(t, "tableName", finding.Field)

	assert.Nil(t, CheckIdentifiers(
		Identifier{Field: "schemaName", Value: "public"},
		Identifier{Field: "tableName", Value: "orders"},
	))
}
