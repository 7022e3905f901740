package lease_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/rpg-dungeon/internal/errors"
	"github.com/KirkDiggler/rpg-dungeon/internal/pkg/clock"
	mockclock "github.com/KirkDiggler/rpg-dungeon/internal/pkg/clock/mock"
	"github.com/KirkDiggler/rpg-dungeon/internal/repositories/lease"
	"github.com/KirkDiggler/rpg-dungeon/internal/testutils"
)

const ttl = 30 * time.Second

type LeaseTestSuite struct {
	suite.Suite
	setup   func() (lease.Repository, func(time.Duration), func())
	repo    lease.Repository
	expire  func(time.Duration)
	cleanup func()
	ctx     context.Context
}

func TestMemoryLease(t *testing.T) {
	suite.Run(t, &LeaseTestSuite{setup: func() (lease.Repository, func(time.Duration), func()) {
		fixed := clock.NewFixed(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
		return lease.NewMemory(fixed), fixed.Advance, func() {}
	}})
}

func TestRedisLease(t *testing.T) {
	suite.Run(t, &LeaseTestSuite{setup: func() (lease.Repository, func(time.Duration), func()) {
		client, mr, cleanup := testutils.CreateTestRedis(t)
		repo, err := lease.NewRedis(&lease.RedisConfig{Client: client})
		if err != nil {
			t.Fatalf("NewRedis() failed: %v", err)
		}
		return repo, mr.FastForward, cleanup
	}})
}

func (s *LeaseTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.repo, s.expire, s.cleanup = s.setup()
}

func (s *LeaseTestSuite) TearDownTest() {
	s.cleanup()
}

func (s *LeaseTestSuite) acquire(holder string) error {
	_, err := s.repo.Acquire(s.ctx, lease.AcquireInput{PlayerID: "p1", Holder: holder, TTL: ttl})
	return err
}

func (s *LeaseTestSuite) TestSecondSessionIsRejected() {
	s.Require().NoError(s.acquire("session-a"))

	err := s.acquire("session-b")

	s.True(errors.IsAlreadyExists(err))
}

func (s *LeaseTestSuite) TestOtherPlayersAreIndependent() {
	s.Require().NoError(s.acquire("session-a"))

	_, err := s.repo.Acquire(s.ctx, lease.AcquireInput{PlayerID: "p2", Holder: "session-b", TTL: ttl})

	s.NoError(err)
}

func (s *LeaseTestSuite) TestReleaseFreesTheLease() {
	s.Require().NoError(s.acquire("session-a"))

	out, err := s.repo.Release(s.ctx, lease.ReleaseInput{PlayerID: "p1", Holder: "session-a"})
	s.Require().NoError(err)
	s.True(out.Released)

	s.NoError(s.acquire("session-b"))
}

func (s *LeaseTestSuite) TestReleaseByAnotherHolderIsIgnored() {
	s.Require().NoError(s.acquire("session-a"))

	out, err := s.repo.Release(s.ctx, lease.ReleaseInput{PlayerID: "p1", Holder: "session-b"})
	s.Require().NoError(err)
	s.False(out.Released)

	s.True(errors.IsAlreadyExists(s.acquire("session-c")))
}

func (s *LeaseTestSuite) TestExpiredLeaseCanBeTaken() {
	s.Require().NoError(s.acquire("session-a"))

	s.expire(ttl + time.Second)

	s.NoError(s.acquire("session-b"))
	_, err := s.repo.Renew(s.ctx, lease.RenewInput{PlayerID: "p1", Holder: "session-a", TTL: ttl})
	s.True(errors.IsNotFound(err))
}

func (s *LeaseTestSuite) TestRenewKeepsTheLeaseAlive() {
	s.Require().NoError(s.acquire("session-a"))

	s.expire(ttl - time.Second)
	_, err := s.repo.Renew(s.ctx, lease.RenewInput{PlayerID: "p1", Holder: "session-a", TTL: ttl})
	s.Require().NoError(err)
	s.expire(ttl - time.Second)

	s.True(errors.IsAlreadyExists(s.acquire("session-b")))
}

func (s *LeaseTestSuite) TestValidation() {
	_, err := s.repo.Acquire(s.ctx, lease.AcquireInput{PlayerID: "p1"})
	s.True(errors.IsInvalidArgument(err))

	_, err = s.repo.Release(s.ctx, lease.ReleaseInput{Holder: "x"})
	s.True(errors.IsInvalidArgument(err))
}

func TestRedisLeaseExpiryFollowsClock(t *testing.T) {
	ctrl := gomock.NewController(t)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := mockclock.NewMockClock(ctrl)
	c.EXPECT().Now().Return(now).Times(2)

	client, _, cleanup := testutils.CreateTestRedis(t)
	defer cleanup()
	repo, err := lease.NewRedis(&lease.RedisConfig{Client: client, Clock: c})
	require.NoError(t, err)

	ctx := context.Background()
	acquired, err := repo.Acquire(ctx, lease.AcquireInput{PlayerID: "p1", Holder: "session-a", TTL: ttl})
	require.NoError(t, err)
	assert.Equal(t, now.Add(ttl), acquired.ExpiresAt)

	renewed, err := repo.Renew(ctx, lease.RenewInput{PlayerID: "p1", Holder: "session-a", TTL: 2 * ttl})
	require.NoError(t, err)
	assert.Equal(t, now.Add(2*ttl), renewed.ExpiresAt)
}
