package engine

import (
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/RollCut/internal/model"
)

func TestCache_HitReturnsEqualLayout(t *testing.T) {
	cache := NewCache(nil)

	first, err := cache.Optimize(pairingDemands(), filmRoll)
	require.NoError(t, err)
	second, err := cache.Optimize(pairingDemands(), filmRoll)
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("cached layout differs (-first +second):\n%s", diff)
	}
	hits, misses := cache.Stats()
	assert.Equal(t, 1, hits)
	assert.Equal(t, 1, misses)
	assert.Equal(t, 1, cache.Len())
}

func TestCache_CallersCannotCorruptEntries(t *testing.T) {
	cache := NewCache(New(model.DefaultSettings()))

	first, err := cache.Optimize(pairingDemands(), filmRoll)
	require.NoError(t, err)
	first.Rows[0].Placements[0].Piece.Label = "tampered"
	first.Rows = first.Rows[:1]

	second, err := cache.Optimize(pairingDemands(), filmRoll)
	require.NoError(t, err)
	require.Len(t, second.Rows, 3)
	assert.NotEqual(t, "tampered", second.Rows[0].Placements[0].Piece.Label)
}

func TestCache_KeyCoversInputs(t *testing.T) {
	settings := model.DefaultSettings()
	base, err := CacheKey(pairingDemands(), filmRoll, settings)
	require.NoError(t, err)

	reordered := pairingDemands()
	reordered[0], reordered[1] = reordered[1], reordered[0]
	k, err := CacheKey(reordered, filmRoll, settings)
	require.NoError(t, err)
	assert.NotEqual(t, base, k)

	k, err = CacheKey(pairingDemands(), model.RollParameters{WidthCm: 152, BladeWidthCm: 1}, settings)
	require.NoError(t, err)
	assert.NotEqual(t, base, k)

	settings.MaxPieces = 10
	k, err = CacheKey(pairingDemands(), filmRoll, settings)
	require.NoError(t, err)
	assert.NotEqual(t, base, k)

	again, err := CacheKey(pairingDemands(), filmRoll, model.DefaultSettings())
	require.NoError(t, err)
	assert.Equal(t, base, again)
}

func TestCache_ErrorsAreNotCached(t *testing.T) {
	cache := NewCache(nil)
	demands := []model.PieceDemand{{ID: "w", Label: "Vitrine", WidthCm: 300, HeightCm: 10, Quantity: 1}}

	_, err := cache.Optimize(demands, filmRoll)
	var tooWide *PieceTooWideError
	require.ErrorAs(t, err, &tooWide)
	assert.Equal(t, 0, cache.Len())
}

func TestCache_ConcurrentUse(t *testing.T) {
	cache := NewCache(nil)
	want, err := Optimize(pairingDemands(), filmRoll)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]model.Layout, 16)
	errs := make([]error, len(results))
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = cache.Optimize(pairingDemands(), filmRoll)
		}(i)
	}
	wg.Wait()

	for i := range results {
		require.NoError(t, errs[i])
		assert.Empty(t, cmp.Diff(want, results[i]))
	}
	assert.Equal(t, 1, cache.Len())
}

func TestCache_Reset(t *testing.T) {
	cache := NewCache(nil)
	_, err := cache.Optimize(pairingDemands(), filmRoll)
	require.NoError(t, err)

	cache.Reset()
	assert.Equal(t, 0, cache.Len())
	hits, misses := cache.Stats()
	assert.Zero(t, hits)
	assert.Zero(t, misses)
}
