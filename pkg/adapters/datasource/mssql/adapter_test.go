package mssql

import (
	"testing"

	"github.com/microsoft/go-mssqldb/azuread"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekaya-inc/element-catalog/pkg/adapters/datasource"
)

func TestDriverURL(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantURL    string
		wantDriver string
	}{
		{
			name:       "sqlserver scheme kept",
			input:      "sqlserver://sa:pw@db.local:1433?database=sales",
			wantURL:    "sqlserver://sa:pw@db.local:1433?database=sales",
			wantDriver: "sqlserver",
		},
		{
			name:       "mssql alias rewritten",
			input:      "mssql://sa:pw@db.local:1433?database=sales",
			wantURL:    "sqlserver://sa:pw@db.local:1433?database=sales",
			wantDriver: "sqlserver",
		},
		{
			name:       "fedauth uses azure driver",
			input:      "sqlserver://db.database.windows.net?database=sales&fedauth=ActiveDirectoryDefault",
			wantURL:    "sqlserver://db.database.windows.net?database=sales&fedauth=ActiveDirectoryDefault",
			wantDriver: azuread.DriverName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotURL, gotDriver, err := driverURL(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.wantURL, gotURL)
			assert.Equal(t, tt.wantDriver, gotDriver)
		})
	}
}

func TestRegistered(t *testing.T) {
	assert.True(t, datasource.IsRegistered("sqlserver"))
	assert.True(t, datasource.IsRegistered("mssql"))
}
