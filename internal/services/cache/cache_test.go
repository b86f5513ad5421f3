package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"churn-retention-engine/internal/models"
)

func testCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := NewFromClient(client, time.Hour)
	t.Cleanup(func() { _ = cache.Close() })
	return cache, mr
}

func cacheRecord() *models.CustomerRecord {
	return &models.CustomerRecord{
		Gender:         "Female",
		Age:            42,
		Married:        "Yes",
		TenureInMonths: 24,
		Contract:       "Month-to-Month",
		Offer:          "None",
		MonthlyCharge:  70,
		TotalRevenue:   1680,
	}
}

func cacheOutcome() *models.Outcome {
	return &models.Outcome{
		Prediction: models.PredictionResult{
			Label:            models.ChurnLabelChurned,
			ChurnProbability: 0.8,
			ThresholdUsed:    0.25,
			RiskLevel:        models.RiskLevelCritical,
		},
		Revenue: models.RevenueAssessment{
			CLV:           2520,
			RevenueAtRisk: 2016,
			Priority:      models.PriorityP1,
		},
	}
}

func TestCache_MissThenHit(t *testing.T) {
	cache, _ := testCache(t)
	ctx := context.Background()
	rec := cacheRecord()

	assert.Nil(t, cache.Get(ctx, rec))

	cache.Put(ctx, rec, cacheOutcome())

	got := cache.Get(ctx, rec)
	require.NotNil(t, got)
	assert.Equal(t, cacheOutcome(), got)
}

func TestCache_EquivalentRecordsShareAKey(t *testing.T) {
	rec := cacheRecord()

	shouty := cacheRecord()
	shouty.Contract = "  MONTH-TO-MONTH "
	shouty.Gender = "FEMALE"

	key1, err := Key(rec)
	require.NoError(t, err)
	key2, err := Key(shouty)
	require.NoError(t, err)
	assert.Equal(t, key1, key2)

	different := cacheRecord()
	different.MonthlyCharge = 71
	key3, err := Key(different)
	require.NoError(t, err)
	assert.NotEqual(t, key1, key3)
}

func TestCache_EntriesExpire(t *testing.T) {
	cache, mr := testCache(t)
	ctx := context.Background()
	rec := cacheRecord()

	cache.Put(ctx, rec, cacheOutcome())
	require.NotNil(t, cache.Get(ctx, rec))

	mr.FastForward(2 * time.Hour)

	assert.Nil(t, cache.Get(ctx, rec))
}

func TestCache_CorruptEntryIsAMiss(t *testing.T) {
	cache, mr := testCache(t)
	ctx := context.Background()
	rec := cacheRecord()

	key, err := Key(rec)
	require.NoError(t, err)
	require.NoError(t, mr.Set(key, "not json"))

	assert.Nil(t, cache.Get(ctx, rec))
}

func TestCache_UnreachableServerIsAMiss(t *testing.T) {
	cache, mr := testCache(t)
	mr.Close()

	assert.Nil(t, cache.Get(context.Background(), cacheRecord()))
	// Put on a dead server must not panic.
	cache.Put(context.Background(), cacheRecord(), cacheOutcome())
}
