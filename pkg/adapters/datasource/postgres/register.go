package postgres

import (
	"context"

	"github.com/ekaya-inc/element-catalog/pkg/adapters/datasource"
)

func init() {
	datasource.Register(datasource.AdapterRegistration{
		Info: datasource.AdapterInfo{
			Type:        "postgres",
			DisplayName: "PostgreSQL",
			Schemes:     []string{"postgres", "postgresql"},
		},
		Factory: func(ctx context.Context, connectionURL string) (datasource.ConnectionTester, error) {
			return NewAdapter(ctx, connectionURL)
		},
	})
}
