package mssql

import (
	"context"

	"github.com/ekaya-inc/element-catalog/pkg/adapters/datasource"
)

func init() {
	datasource.Register(datasource.AdapterRegistration{
		Info: datasource.AdapterInfo{
			Type:        "mssql",
			DisplayName: "Microsoft SQL Server",
			Schemes:     []string{"sqlserver", "mssql"},
		},
		Factory: func(ctx context.Context, connectionURL string) (datasource.ConnectionTester, error) {
			return NewAdapter(ctx, connectionURL)
		},
	})
}
