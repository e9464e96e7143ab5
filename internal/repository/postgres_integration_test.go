//go:build integration

package repository_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"go.uber.org/zap"

	"github.com/spec-kit/demand-analytics/internal/domain"
	"github.com/spec-kit/demand-analytics/internal/persistence"
	"github.com/spec-kit/demand-analytics/internal/repository"
)

type PostgresRepositorySuite struct {
	suite.Suite
	containers []testcontainers.Container
	pool       *pgxpool.Pool
	redis      *redis.Client
	demands    repository.DemandRepository
}

func TestPostgresRepositorySuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresRepositorySuite))
}

func (s *PostgresRepositorySuite) SetupSuite() {
	ctx := context.Background()

	pg, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("analytics"),
		tcpostgres.WithUsername("analytics"),
		tcpostgres.WithPassword("analytics"),
		tcpostgres.BasicWaitStrategies(),
	)
	s.Require().NoError(err)
	s.containers = append(s.containers, pg)

	dsn, err := pg.ConnectionString(ctx, "sslmode=disable")
	s.Require().NoError(err)
	s.pool, err = pgxpool.New(ctx, dsn)
	s.Require().NoError(err)
	s.Require().NoError(persistence.RunMigrations(ctx, s.pool, filepath.Join("..", "..", persistence.DefaultMigrationsDir), zap.NewNop()))

	rc, err := tcredis.Run(ctx, "redis:7-alpine")
	s.Require().NoError(err)
	s.containers = append(s.containers, rc)

	addr, err := rc.ConnectionString(ctx)
	s.Require().NoError(err)
	opts, err := redis.ParseURL(addr)
	s.Require().NoError(err)
	s.redis = redis.NewClient(opts)
	s.Require().NoError(s.redis.Ping(ctx).Err())

	s.demands = repository.NewDemandRepository(s.pool)
}

func (s *PostgresRepositorySuite) TearDownSuite() {
	ctx := context.Background()
	if s.redis != nil {
		_ = s.redis.Close()
	}
	if s.pool != nil {
		s.pool.Close()
	}
	for _, c := range s.containers {
		_ = c.Terminate(ctx)
	}
}

func (s *PostgresRepositorySuite) SetupTest() {
	ctx := context.Background()
	_, err := s.pool.Exec(ctx, `TRUNCATE demands, operators, categories, organizational_units`)
	s.Require().NoError(err)
	s.Require().NoError(s.redis.FlushAll(ctx).Err())

	_, err = s.pool.Exec(ctx, `
		INSERT INTO organizational_units (id, name, acronym, deleted_at) VALUES
			('unit-1', 'Public Works', 'PW', NULL),
			('unit-gone', 'Old Unit', 'OU', now())`)
	s.Require().NoError(err)

	rows := []struct {
		id, status, neighborhood string
		created                  time.Time
		resolved                 *time.Time
		deleted                  bool
	}{
		{"d1", "OPEN", "Jardim América", base, nil, false},
		{"d2", "RESOLVED", "Centro", base.Add(24 * time.Hour), ptr(base.Add(30 * time.Hour)), false},
		{"d3", "CLOSED", "50% Centro", base.Add(48 * time.Hour), ptr(base.Add(49 * time.Hour)), false},
		{"d4", "OPEN", "Centro", base.Add(72 * time.Hour), nil, true},
	}
	for _, r := range rows {
		var deletedAt *time.Time
		if r.deleted {
			deletedAt = ptr(base)
		}
		_, err := s.pool.Exec(ctx, `
			INSERT INTO demands (id, protocol, title, status, priority, source, organizational_unit_id, category_id,
			                     neighborhood, created_at, resolved_at, deleted_at)
			VALUES ($1, $1, 'title', $2, 'LOW', 'APP', 'unit-1', 'cat-1', $3, $4, $5, $6)`,
			r.id, r.status, r.neighborhood, r.created, r.resolved, deletedAt)
		s.Require().NoError(err)
	}
}

func (s *PostgresRepositorySuite) TestListExcludesSoftDeleted() {
	records, err := s.demands.List(context.Background(), domain.FilterCriteria{})
	s.Require().NoError(err)
	s.Equal([]string{"d3", "d2", "d1"}, ids(records))
}

func (s *PostgresRepositorySuite) TestNeighborhoodFilterIsCaseInsensitiveSubstring() {
	records, err := s.demands.List(context.Background(), domain.FilterCriteria{Neighborhood: ptr("CENTRO")})
	s.Require().NoError(err)
	s.Equal([]string{"d3", "d2"}, ids(records))

	literal, err := s.demands.List(context.Background(), domain.FilterCriteria{Neighborhood: ptr("50%")})
	s.Require().NoError(err)
	s.Equal([]string{"d3"}, ids(literal))
}

func (s *PostgresRepositorySuite) TestListResolvedWithLimit() {
	records, err := s.demands.ListResolved(context.Background(), domain.FilterCriteria{}, 1)
	s.Require().NoError(err)
	s.Equal([]string{"d3"}, ids(records))
	s.Require().NotNil(records[0].ResolvedAt)
}

func (s *PostgresRepositorySuite) TestListCreatedSince() {
	records, err := s.demands.ListCreatedSince(context.Background(), domain.FilterCriteria{}, base.Add(24*time.Hour))
	s.Require().NoError(err)
	s.Equal([]string{"d2", "d3"}, ids(records))
}

func (s *PostgresRepositorySuite) TestNameLookupSkipsSoftDeleted() {
	lookup := repository.NewNameRepository(s.pool, repository.TableOrganizationalUnits)
	names, err := lookup.LookupNames(context.Background(), []string{"unit-1", "unit-gone", "unit-missing"})
	s.Require().NoError(err)
	s.Equal(map[string]string{"unit-1": "Public Works"}, names)
}

func (s *PostgresRepositorySuite) TestCachedNameLookupReadsThrough() {
	ctx := context.Background()
	recorder := &countingRecorder{}
	cached := repository.NewCachedNameLookup(
		repository.NewNameRepository(s.pool, repository.TableOrganizationalUnits),
		s.redis, repository.TableOrganizationalUnits, time.Minute, recorder, zap.NewNop(),
	)

	first, err := cached.LookupNames(ctx, []string{"unit-1", "unit-missing"})
	s.Require().NoError(err)
	s.Equal(map[string]string{"unit-1": "Public Works"}, first)
	s.Equal(0, recorder.hits)

	_, err = s.pool.Exec(ctx, `UPDATE organizational_units SET name = 'Renamed' WHERE id = 'unit-1'`)
	s.Require().NoError(err)

	second, err := cached.LookupNames(ctx, []string{"unit-1"})
	s.Require().NoError(err)
	s.Equal(map[string]string{"unit-1": "Public Works"}, second, "served from cache until the ttl expires")
	s.Equal(1, recorder.hits)
}

type countingRecorder struct {
	hits, misses int
}

func (r *countingRecorder) RecordCacheLookup(_ string, hits, misses int) {
	r.hits += hits
	r.misses += misses
}
