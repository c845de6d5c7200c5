//go:build integration

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"almanah/pkg/testutil/containers"
)

type RedisCountsSuite struct {
	suite.Suite
	redis  *containers.RedisContainer
	counts *RedisCounts
}

func TestRedisCountsSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisCountsSuite))
}

func (s *RedisCountsSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
	s.counts = NewRedisCounts(s.redis.Client)
}

func (s *RedisCountsSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisCountsSuite) TestRoundTripAndExpiry() {
	ctx := context.Background()

	_, ok, err := s.counts.GetCount(ctx, "all")
	s.Require().NoError(err)
	s.False(ok)

	s.Require().NoError(s.counts.SetCount(ctx, "all", 50, time.Minute))
	n, ok, err := s.counts.GetCount(ctx, "all")
	s.Require().NoError(err)
	s.True(ok)
	s.Equal(50, n)

	ttl, err := s.redis.Client.TTL(ctx, countKeyPrefix+"all").Result()
	s.Require().NoError(err)
	s.Greater(ttl, time.Duration(0))
}
