//go:build integration

package postgres

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekaya-inc/element-catalog/pkg/testhelpers"
)

func TestAdapter_TestConnection(t *testing.T) {
	catalogDB := testhelpers.GetCatalogDB(t)
	ctx := context.Background()

	adapter, err := NewAdapter(ctx, catalogDB.ConnStr)
	require.NoError(t, err)
	defer adapter.Close()

	assert.NoError(t, adapter.TestConnection(ctx))
}

func TestAdapter_TestConnectionWrongPassword(t *testing.T) {
	catalogDB := testhelpers.GetCatalogDB(t)
	ctx := context.Background()

	bad := strings.Replace(catalogDB.ConnStr, "test_password", "wrong", 1)
	adapter, err := NewAdapter(ctx, bad)
	require.NoError(t, err)
	defer adapter.Close()

	assert.Error(t, adapter.TestConnection(ctx))
}
