package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ekaya-inc/element-catalog/pkg/apperrors"
	"github.com/ekaya-inc/element-catalog/pkg/repositories/memory"
)

func TestElementDetailService_SeededCatalog(t *testing.T) {
	catalog := memory.NewStore().Catalog()
	ctx := context.Background()
	_, err := NewSeedService(catalog, "", zap.NewNop()).Seed(ctx)
	require.NoError(t, err)

	svc := NewElementDetailService(catalog, zap.NewNop())
	details, err := svc.ListDetailed(ctx)
	require.NoError(t, err)
	require.Len(t, details, 100)

	for _, d := range details {
		require.NotNil(t, d.Category, d.Name)
		assert.Equal(t, d.CategoryID, d.Category.ID)
		require.NotNil(t, d.OwnerGroup, d.Name)
		assert.Equal(t, d.OwnerGroupID, d.OwnerGroup.ID)
		assert.NotNil(t, d.Definitions)
		assert.NotNil(t, d.QualityRules)
		require.NotEmpty(t, d.Mappings, d.Name)
		for _, m := range d.Mappings {
			assert.Equal(t, d.ID, m.ElementID)
			require.NotNil(t, m.DatabaseConfig)
			assert.Equal(t, m.DatabaseConfigID, m.DatabaseConfig.ID)
		}
	}

	one, err := svc.GetDetailed(ctx, details[0].ID)
	require.NoError(t, err)
	assert.Equal(t, details[0], one)
}

func TestElementDetailService_GetMissing(t *testing.T) {
	svc := NewElementDetailService(memory.NewStore().Catalog(), zap.NewNop())

	_, err := svc.GetDetailed(context.Background(), 42)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}
