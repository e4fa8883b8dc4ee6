package redisstore

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/Faaz345/playsplit/clock/mocks"
)

type RedisStoreTestSuite struct {
	suite.Suite
	mr     *miniredis.Miniredis
	rdb    *redis.Client
	client *Client
	now    time.Time
	ctx    context.Context
}

func (s *RedisStoreTestSuite) SetupTest() {
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr
	s.rdb = redis.NewClient(&redis.Options{Addr: mr.Addr()})

	s.now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ctrl := gomock.NewController(s.T())
	clk := mocks.NewMockClock(ctrl)
	clk.EXPECT().Now().DoAndReturn(func() time.Time { return s.now }).AnyTimes()

	s.client = NewFromClient(s.rdb, "test:", clk, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.ctx = context.Background()
}

func (s *RedisStoreTestSuite) TearDownTest() {
	s.rdb.Close()
	s.mr.Close()
}

func TestRedisStoreTestSuite(t *testing.T) {
	suite.Run(t, new(RedisStoreTestSuite))
}

func (s *RedisStoreTestSuite) TestRateLimitBlocksAfterLimit() {
	for i := 0; i < 3; i++ {
		res, err := s.client.CheckRateLimit(s.ctx, "ip:1.2.3.4", 3, time.Minute)
		s.Require().NoError(err)
		s.True(res.Allowed)
		s.Equal(int64(2-i), res.Remaining)
	}

	res, err := s.client.CheckRateLimit(s.ctx, "ip:1.2.3.4", 3, time.Minute)
	s.Require().NoError(err)
	s.False(res.Allowed)
	s.Equal(int64(0), res.Remaining)
	s.Equal(s.now.Add(time.Minute), res.ResetAt)

	// другой ключ считается отдельно
	other, err := s.client.CheckRateLimit(s.ctx, "ip:5.6.7.8", 3, time.Minute)
	s.Require().NoError(err)
	s.True(other.Allowed)
}

func (s *RedisStoreTestSuite) TestRateLimitWindowSlides() {
	for i := 0; i < 2; i++ {
		_, err := s.client.CheckRateLimit(s.ctx, "user:1", 2, time.Minute)
		s.Require().NoError(err)
	}
	res, err := s.client.CheckRateLimit(s.ctx, "user:1", 2, time.Minute)
	s.Require().NoError(err)
	s.False(res.Allowed)

	s.now = s.now.Add(61 * time.Second)

	res, err = s.client.CheckRateLimit(s.ctx, "user:1", 2, time.Minute)
	s.Require().NoError(err)
	s.True(res.Allowed)
	s.True(s.mr.Exists("test:ratelimit:user:1"))
}

func (s *RedisStoreTestSuite) TestIdempotencyLifecycle() {
	stored, err := s.client.CheckAndSetIdempotency(s.ctx, "evt_1", time.Hour)
	s.Require().NoError(err)
	s.Nil(stored)

	_, err = s.client.CheckAndSetIdempotency(s.ctx, "evt_1", time.Hour)
	s.ErrorIs(err, ErrKeyExists)

	s.Require().NoError(s.client.MarkIdempotencyComplete(s.ctx, "evt_1", []byte("ok"), time.Hour))

	stored, err = s.client.CheckAndSetIdempotency(s.ctx, "evt_1", time.Hour)
	s.Require().NoError(err)
	s.Equal([]byte("ok"), stored)
}

func (s *RedisStoreTestSuite) TestIdempotencyFailureReleasesKey() {
	_, err := s.client.CheckAndSetIdempotency(s.ctx, "evt_2", time.Hour)
	s.Require().NoError(err)
	s.Require().NoError(s.client.MarkIdempotencyFailed(s.ctx, "evt_2"))

	s.False(s.mr.Exists("test:idempotency:evt_2"))

	stored, err := s.client.CheckAndSetIdempotency(s.ctx, "evt_2", time.Hour)
	s.Require().NoError(err)
	s.Nil(stored)
}

func (s *RedisStoreTestSuite) TestLockIsExclusive() {
	lock, err := s.client.AcquireLock(s.ctx, "job:reminders", time.Minute)
	s.Require().NoError(err)

	_, err = s.client.AcquireLock(s.ctx, "job:reminders", time.Minute)
	s.ErrorIs(err, ErrLockHeld)

	s.Require().NoError(lock.Release(s.ctx))

	again, err := s.client.AcquireLock(s.ctx, "job:reminders", time.Minute)
	s.Require().NoError(err)
	s.NotNil(again)
}

func (s *RedisStoreTestSuite) TestPublishReachesSubscriber() {
	sub := s.client.Subscribe(s.ctx, "events")
	defer sub.Close()
	_, err := sub.Receive(s.ctx)
	s.Require().NoError(err)

	s.Require().NoError(s.client.Publish(s.ctx, "events", []byte(`{"event":"ping"}`)))

	msg, err := sub.ReceiveMessage(s.ctx)
	s.Require().NoError(err)
	s.Equal("test:events", msg.Channel)
	s.Equal(`{"event":"ping"}`, msg.Payload)
}
