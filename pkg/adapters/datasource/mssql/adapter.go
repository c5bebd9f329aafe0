package mssql

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"

	_ "github.com/microsoft/go-mssqldb" // SQL Server driver
	"github.com/microsoft/go-mssqldb/azuread"

	"github.com/ekaya-inc/element-catalog/pkg/adapters/datasource"
)

// Adapter provides SQL Server connectivity for connection tests.
type Adapter struct {
	db *sql.DB
}

// NewAdapter opens connectionURL. "mssql://" is accepted as an alias of
// "sqlserver://". URLs carrying a fedauth parameter use the Azure AD driver.
func NewAdapter(ctx context.Context, connectionURL string) (*Adapter, error) {
	connStr, driver, err := driverURL(connectionURL)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driver, connStr)
	if err != nil {
		return nil, fmt.Errorf("open sql server connection: %w", err)
	}
	db.SetMaxOpenConns(1)

	return &Adapter{db: db}, nil
}

// driverURL normalizes the scheme and picks the database/sql driver name.
func driverURL(connectionURL string) (string, string, error) {
	u, err := url.Parse(connectionURL)
	if err != nil {
		return "", "", fmt.Errorf("parse sql server url: %w", err)
	}
	u.Scheme = "sqlserver"

	driver := "sqlserver"
	if u.Query().Get("fedauth") != "" {
		driver = azuread.DriverName
	}
	return u.String(), driver, nil
}

// TestConnection verifies the database is reachable with valid credentials.
func (a *Adapter) TestConnection(ctx context.Context) error {
	if err := a.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}

	var result int
	if err := a.db.QueryRowContext(ctx, "SELECT 1").Scan(&result); err != nil {
		return fmt.Errorf("test query failed: %w", err)
	}

	return nil
}

// Close releases the connection.
func (a *Adapter) Close() error {
	return a.db.Close()
}

var _ datasource.ConnectionTester = (*Adapter)(nil)
