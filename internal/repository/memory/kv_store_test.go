package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/ThanhNhiet/KLTN2025-Nhom043-SoLienLacDienTu-sub004/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKVStore(t *testing.T) {
	ctx := context.Background()
	s := NewKVStore()

	_, err := s.Get(ctx, domain.AccessTokenKey)
	require.ErrorIs(t, err, domain.ErrKeyNotFound)

	require.NoError(t, s.Set(ctx, domain.AccessTokenKey, "tok-1"))
	got, err := s.Get(ctx, domain.AccessTokenKey)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", got)

	require.NoError(t, s.Set(ctx, domain.AccessTokenKey, "tok-2"))
	got, err = s.Get(ctx, domain.AccessTokenKey)
	require.NoError(t, err)
	assert.Equal(t, "tok-2", got)

	require.NoError(t, s.Delete(ctx, domain.AccessTokenKey))
	_, err = s.Get(ctx, domain.AccessTokenKey)
	require.ErrorIs(t, err, domain.ErrKeyNotFound)
}

func TestKVStore_Concurrent(t *testing.T) {
	ctx := context.Background()
	s := NewKVStore()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("k-%d", i)
			_ = s.Set(ctx, key, "v")
			_, _ = s.Get(ctx, key)
		}(i)
	}
	wg.Wait()

	for i := 0; i < 20; i++ {
		_, err := s.Get(ctx, fmt.Sprintf("k-%d", i))
		require.NoError(t, err)
	}
}
