package draft

import (
	"context"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "ficha:borrador:test"

func setupStore(t *testing.T) *Store {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := newStoreWithClient(client, testKey)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestLoadMissingKeyIsEmptyRecord(t *testing.T) {
	s := setupStore(t)
	rec, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, rec)
	assert.Empty(t, rec)
	assert.False(t, rec.Has("principales", "principales-sector"))
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	rec := Record{}
	rec.Set("principales", "principales-sector", "05")
	rec.Set("ubicacion", "ubicacion-barrio", "SAN JOSÉ")
	require.NoError(t, s.Save(ctx, rec))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "05", got.Get("principales", "principales-sector"))
	assert.Equal(t, "SAN JOSÉ", got.Get("ubicacion", "ubicacion-barrio"))
	assert.Equal(t, "", got.Get("ubicacion", "ubicacion-calle"))
}

func TestCaptureMergesWithoutClobbering(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	rec := Record{}
	rec.Set("principales", "principales-sector", "05")
	require.NoError(t, s.Save(ctx, rec))

	require.NoError(t, s.Capture(ctx, "linderos", "linderos-norte", "CON EL PREDIO 02-0041"))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "05", got.Get("principales", "principales-sector"))
	assert.Equal(t, "CON EL PREDIO 02-0041", got.Get("linderos", "linderos-norte"))
}

func TestConcurrentCapturesAllLand(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	fields := []string{"norte", "sur", "oriente", "occidente"}
	var wg sync.WaitGroup
	for _, f := range fields {
		wg.Add(1)
		go func(f string) {
			defer wg.Done()
			assert.NoError(t, s.Capture(ctx, "linderos", "linderos-"+f, "LINDERO "+f))
		}(f)
	}
	wg.Wait()

	got, err := s.Load(ctx)
	require.NoError(t, err)
	for _, f := range fields {
		assert.Equal(t, "LINDERO "+f, got.Get("linderos", "linderos-"+f))
	}
}

func TestClear(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	rec := Record{}
	rec.Set("principales", "principales-sector", "05")
	require.NoError(t, s.Save(ctx, rec))
	require.NoError(t, s.Clear(ctx))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}
