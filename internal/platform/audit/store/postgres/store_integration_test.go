//go:build integration

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"taskgate/internal/platform/audit"
	"taskgate/internal/platform/audit/store/postgres"
	"taskgate/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	pg    *containers.PostgresContainer
	store *postgres.Store
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.pg = containers.NewPostgresContainer(s.T())
	s.store = postgres.New(s.pg.DB)
	s.Require().NoError(s.store.Migrate(context.Background()))
}

func (s *PostgresStoreSuite) SetupTest() {
	_, err := s.pg.DB.Exec("TRUNCATE audit_events")
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) TestAppendAndListRecent() {
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i, action := range []audit.AuditEvent{
		audit.EventLoginFailed,
		audit.EventLockoutTriggered,
		audit.EventAuthRedirect,
	} {
		err := s.store.Append(ctx, audit.Event{
			Action:    string(action),
			Path:      "/dashboard",
			ClientIP:  "203.0.113.9",
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		})
		s.Require().NoError(err)
	}

	events, err := s.store.ListRecent(ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(events, 3)

	s.Equal(string(audit.EventAuthRedirect), events[0].Action, "newest first")
	s.Equal(string(audit.EventLoginFailed), events[2].Action)
	s.Equal(audit.CategorySecurity, events[0].Category)
	s.Equal("203.0.113.9", events[0].ClientIP)
}

func (s *PostgresStoreSuite) TestListRecentHonorsLimit() {
	ctx := context.Background()

	for i := range 5 {
		err := s.store.Append(ctx, audit.Event{
			Action:    string(audit.EventLoginFailed),
			Timestamp: time.Now().UTC().Add(time.Duration(i) * time.Second),
		})
		s.Require().NoError(err)
	}

	events, err := s.store.ListRecent(ctx, 2)
	s.Require().NoError(err)
	s.Len(events, 2)
}

func (s *PostgresStoreSuite) TestAppendFillsDerivedFields() {
	ctx := context.Background()

	err := s.store.Append(ctx, audit.Event{Action: string(audit.EventLogout)})
	s.Require().NoError(err)

	events, err := s.store.ListRecent(ctx, 1)
	s.Require().NoError(err)
	s.Require().Len(events, 1)
	s.Equal(audit.CategoryOperations, events[0].Category)
	s.False(events[0].Timestamp.IsZero())
}

func (s *PostgresStoreSuite) TestMigrateIsIdempotent() {
	s.NoError(s.store.Migrate(context.Background()))
}
