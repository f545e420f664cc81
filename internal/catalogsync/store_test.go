package catalogsync

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/fekuna/omnipos-catalog-sync/internal/model"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisReportStore(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	s := NewRedisReportStore(client)

	empty, err := s.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	imp := model.NewSyncReport(model.ResourceProducts, model.ModeImport)
	imp.Total = 5
	imp.RecordImported()
	imp.Finish()
	cats := model.NewSyncReport(model.ResourceCategories, "")
	cats.Total = 2
	cats.Finish()

	require.NoError(t, s.Save(ctx, &imp))
	require.NoError(t, s.Save(ctx, &cats))
	mr.HSet(reportsKey, "orders", "{not json")

	all, err := s.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2, "undecodable entries are skipped")
	assert.Equal(t, 5, all["products:import"].Total)
	assert.Equal(t, 1, all["products:import"].Imported)
	assert.Equal(t, imp.Message, all["products:import"].Message)
	assert.Equal(t, 2, all["categories"].Total)
}
