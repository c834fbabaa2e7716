package lockout

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type MemoryStoreSuite struct {
	suite.Suite
	store *MemoryStore
	now   time.Time
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoreSuite))
}

func (s *MemoryStoreSuite) SetupTest() {
	s.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.store = NewMemoryStore(WithClock(func() time.Time { return s.now }))
}

func (s *MemoryStoreSuite) advance(d time.Duration) {
	s.now = s.now.Add(d)
}

func (s *MemoryStoreSuite) TestRecordFailure() {
	ctx := context.Background()

	s.Run("first failure starts a window at one", func() {
		count, err := s.store.RecordFailure(ctx, "198.51.100.7", 15*time.Minute)
		s.NoError(err)
		s.Equal(1, count)
	})

	s.Run("subsequent failures increment inside the window", func() {
		s.advance(time.Minute)
		count, err := s.store.RecordFailure(ctx, "198.51.100.7", 15*time.Minute)
		s.NoError(err)
		s.Equal(2, count)
	})

	s.Run("a lapsed window restarts the count", func() {
		s.advance(20 * time.Minute)
		count, err := s.store.RecordFailure(ctx, "198.51.100.7", 15*time.Minute)
		s.NoError(err)
		s.Equal(1, count)
	})
}

func (s *MemoryStoreSuite) TestFailures() {
	ctx := context.Background()

	s.Run("missing key reports zero", func() {
		count, remaining, err := s.store.Failures(ctx, "unknown")
		s.NoError(err)
		s.Zero(count)
		s.Zero(remaining)
	})

	s.Run("active window reports count and time left", func() {
		_, err := s.store.RecordFailure(ctx, "k", 15*time.Minute)
		s.NoError(err)
		s.advance(5 * time.Minute)

		count, remaining, err := s.store.Failures(ctx, "k")
		s.NoError(err)
		s.Equal(1, count)
		s.Equal(10*time.Minute, remaining)
	})

	s.Run("lapsed window reports zero", func() {
		s.advance(11 * time.Minute)
		count, remaining, err := s.store.Failures(ctx, "k")
		s.NoError(err)
		s.Zero(count)
		s.Zero(remaining)
	})
}

func (s *MemoryStoreSuite) TestExtend() {
	ctx := context.Background()

	_, err := s.store.RecordFailure(ctx, "k", time.Minute)
	s.NoError(err)

	s.NoError(s.store.Extend(ctx, "k", 30*time.Minute))
	s.advance(10 * time.Minute)

	count, remaining, err := s.store.Failures(ctx, "k")
	s.NoError(err)
	s.Equal(1, count)
	s.Equal(20*time.Minute, remaining)
}

func (s *MemoryStoreSuite) TestClear() {
	ctx := context.Background()

	s.Run("clearing an existing key removes it", func() {
		_, err := s.store.RecordFailure(ctx, "k", time.Minute)
		s.NoError(err)
		s.NoError(s.store.Clear(ctx, "k"))

		count, _, err := s.store.Failures(ctx, "k")
		s.NoError(err)
		s.Zero(count)
	})

	s.Run("clearing a missing key is a no-op", func() {
		s.NoError(s.store.Clear(ctx, "never-existed"))
	})
}
