package redis_test

import (
	"context"
	"testing"
	"time"

	"marketplace/internal/adapters/out/redis"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/model/kernel"

	"github.com/mediocregopher/radix/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

type EarningsCacheTestSuite struct {
	suite.Suite
	container testcontainers.Container
	pool      *radix.Pool
}

func (suite *EarningsCacheTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	suite.container = container
	suite.Require().NoError(err)

	endpoint, err := container.Endpoint(ctx, "")
	suite.Require().NoError(err)

	suite.pool, err = redis.NewPool(endpoint, 2)
	suite.Require().NoError(err)
}

func (suite *EarningsCacheTestSuite) SetupTest() {
	suite.Require().NoError(suite.pool.Do(radix.Cmd(nil, "FLUSHALL")))
}

func (suite *EarningsCacheTestSuite) TearDownSuite() {
	if suite.pool != nil {
		suite.Require().NoError(suite.pool.Close())
	}
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *EarningsCacheTestSuite) TestMissThenHit() {
	ctx := context.Background()
	cache := redis.NewEarningsCache(suite.pool, time.Minute)
	shipperID := kernel.NewUUID()

	_, ok, err := cache.Get(ctx, shipperID)
	suite.Require().NoError(err)
	suite.False(ok)

	completedAt := time.Date(2024, 3, 14, 9, 30, 0, 0, time.UTC)
	want := queries.ShipperEarnings{
		Total: decimal.NewFromInt(28000),
		Today: decimal.NewFromInt(12000),
		Week:  decimal.NewFromInt(12000),
		Month: decimal.NewFromInt(28000),
		History: []queries.EarningRecord{{
			OrderID:     kernel.NewUUID(),
			CompletedAt: completedAt,
			ShippingFee: decimal.NewFromInt(15000),
			Amount:      decimal.NewFromInt(12000),
		}},
	}
	suite.Require().NoError(cache.Set(ctx, shipperID, want))

	got, ok, err := cache.Get(ctx, shipperID)
	suite.Require().NoError(err)
	suite.Require().True(ok)
	suite.True(want.Total.Equal(got.Total))
	suite.True(want.Month.Equal(got.Month))
	suite.Require().Len(got.History, 1)
	suite.True(want.History[0].OrderID.IsEqual(got.History[0].OrderID))
	suite.True(completedAt.Equal(got.History[0].CompletedAt))
	suite.True(want.History[0].Amount.Equal(got.History[0].Amount))

	var ttl int
	suite.Require().NoError(suite.pool.Do(radix.Cmd(&ttl, "TTL", "earnings:shipper:"+shipperID.String())))
	suite.InDelta(60, ttl, 2)
}

func (suite *EarningsCacheTestSuite) TestInvalidateForcesRecompute() {
	ctx := context.Background()
	cache := redis.NewEarningsCache(suite.pool, time.Minute)
	shipperID, other := kernel.NewUUID(), kernel.NewUUID()

	before := queries.ShipperEarnings{Total: decimal.NewFromInt(12000), History: []queries.EarningRecord{}}
	suite.Require().NoError(cache.Set(ctx, shipperID, before))
	suite.Require().NoError(cache.Set(ctx, other, before))

	got, ok, err := cache.Get(ctx, shipperID)
	suite.Require().NoError(err)
	suite.Require().True(ok)
	suite.True(before.Total.Equal(got.Total))

	// A completion lands: the stale summary must not be served again.
	suite.Require().NoError(cache.Invalidate(ctx, shipperID))

	_, ok, err = cache.Get(ctx, shipperID)
	suite.Require().NoError(err)
	suite.False(ok)

	_, ok, err = cache.Get(ctx, other)
	suite.Require().NoError(err)
	suite.True(ok, "other shippers keep their entries")

	suite.Require().NoError(cache.Invalidate(ctx, shipperID), "invalidating a missing key is fine")
}

func (suite *EarningsCacheTestSuite) TestCorruptEntryIsDropped() {
	ctx := context.Background()
	cache := redis.NewEarningsCache(suite.pool, time.Minute)
	shipperID := kernel.NewUUID()
	key := "earnings:shipper:" + shipperID.String()

	suite.Require().NoError(suite.pool.Do(radix.Cmd(nil, "SET", key, "{not json")))

	_, ok, err := cache.Get(ctx, shipperID)
	suite.Require().NoError(err)
	suite.False(ok)

	var exists int
	suite.Require().NoError(suite.pool.Do(radix.Cmd(&exists, "EXISTS", key)))
	suite.Zero(exists)
}

func TestEarningsCacheTestSuite(t *testing.T) {
	suite.Run(t, new(EarningsCacheTestSuite))
}
