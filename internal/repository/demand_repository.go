package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/demand-analytics/internal/domain"
)

// DemandRepository is the read-only query surface the report engine consumes.
type DemandRepository interface {
	// List returns every demand matching filter, newest first.
	List(ctx context.Context, filter domain.FilterCriteria) ([]domain.Demand, error)
	// ListResolved returns matching demands with a resolution timestamp, most recently
	// resolved first. A non-positive limit returns all of them.
	ListResolved(ctx context.Context, filter domain.FilterCriteria, limit int) ([]domain.Demand, error)
	// ListAssigned returns matching demands that have an assigned operator.
	ListAssigned(ctx context.Context, filter domain.FilterCriteria) ([]domain.Demand, error)
	// ListCreatedSince returns matching demands created at or after since.
	ListCreatedSince(ctx context.Context, filter domain.FilterCriteria, since time.Time) ([]domain.Demand, error)
}

const demandColumns = `id, protocol, title, status, priority, source, organizational_unit_id, category_id,
                    neighborhood, requester_name, assigned_operator_id, created_at, resolved_at, sla_deadline`

type demandRepository struct {
	pool *pgxpool.Pool
}

// NewDemandRepository instantiates the postgres-backed repository.
func NewDemandRepository(pool *pgxpool.Pool) DemandRepository {
	return &demandRepository{pool: pool}
}

func (r *demandRepository) List(ctx context.Context, filter domain.FilterCriteria) ([]domain.Demand, error) {
	q := newDemandQuery(filter)
	return r.query(ctx, q.sql("ORDER BY created_at DESC, id", 0), q.args)
}

func (r *demandRepository) ListResolved(ctx context.Context, filter domain.FilterCriteria, limit int) ([]domain.Demand, error) {
	q := newDemandQuery(filter)
	q.where("resolved_at IS NOT NULL")
	return r.query(ctx, q.sql("ORDER BY resolved_at DESC, id", limit), q.args)
}

func (r *demandRepository) ListAssigned(ctx context.Context, filter domain.FilterCriteria) ([]domain.Demand, error) {
	q := newDemandQuery(filter)
	q.where("assigned_operator_id IS NOT NULL")
	return r.query(ctx, q.sql("ORDER BY created_at DESC, id", 0), q.args)
}

func (r *demandRepository) ListCreatedSince(ctx context.Context, filter domain.FilterCriteria, since time.Time) ([]domain.Demand, error) {
	q := newDemandQuery(filter)
	q.where("created_at >= " + q.bind(since))
	return r.query(ctx, q.sql("ORDER BY created_at, id", 0), q.args)
}

func (r *demandRepository) query(ctx context.Context, query string, args []any) ([]domain.Demand, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDemands(rows)
}

// demandQuery accumulates WHERE clauses with positional placeholders.
type demandQuery struct {
	clauses []string
	args    []any
}

func newDemandQuery(filter domain.FilterCriteria) *demandQuery {
	q := &demandQuery{clauses: []string{"deleted_at IS NULL"}}

	if filter.DateFrom != nil {
		q.where("created_at >= " + q.bind(*filter.DateFrom))
	}
	if filter.DateTo != nil {
		q.where("created_at <= " + q.bind(*filter.DateTo))
	}
	if filter.OrganizationalUnitID != nil {
		q.where("organizational_unit_id = " + q.bind(*filter.OrganizationalUnitID))
	}
	if filter.CategoryID != nil {
		q.where("category_id = " + q.bind(*filter.CategoryID))
	}
	if filter.Status != nil {
		q.where("status = " + q.bind(string(*filter.Status)))
	}
	if filter.Priority != nil {
		q.where("priority = " + q.bind(string(*filter.Priority)))
	}
	if filter.Source != nil {
		q.where("source = " + q.bind(string(*filter.Source)))
	}
	if filter.Neighborhood != nil && strings.TrimSpace(*filter.Neighborhood) != "" {
		pattern := "%" + escapeLike(strings.TrimSpace(*filter.Neighborhood)) + "%"
		q.where("neighborhood ILIKE " + q.bind(pattern))
	}
	return q
}

func (q *demandQuery) bind(arg any) string {
	q.args = append(q.args, arg)
	return fmt.Sprintf("$%d", len(q.args))
}

func (q *demandQuery) where(clause string) {
	q.clauses = append(q.clauses, clause)
}

func (q *demandQuery) sql(orderBy string, limit int) string {
	query := fmt.Sprintf(`SELECT %s FROM demands WHERE %s %s`, demandColumns, strings.Join(q.clauses, " AND "), orderBy)
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}
	return query
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func scanDemands(rows pgx.Rows) ([]domain.Demand, error) {
	var result []domain.Demand
	for rows.Next() {
		var d domain.Demand
		if err := rows.Scan(
			&d.ID,
			&d.Protocol,
			&d.Title,
			&d.Status,
			&d.Priority,
			&d.Source,
			&d.OrganizationalUnitID,
			&d.CategoryID,
			&d.Neighborhood,
			&d.RequesterName,
			&d.AssignedOperatorID,
			&d.CreatedAt,
			&d.ResolvedAt,
			&d.SLADeadline,
		); err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	return result, rows.Err()
}
