package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NameTable identifies a reference table that can be resolved id -> name.
type NameTable string

const (
	TableOrganizationalUnits NameTable = "organizational_units"
	TableCategories          NameTable = "categories"
	TableOperators           NameTable = "operators"
)

// NameRepository resolves display names of one reference table in a single round trip.
type NameRepository struct {
	pool  *pgxpool.Pool
	table NameTable
}

// NewNameRepository builds a lookup over table.
func NewNameRepository(pool *pgxpool.Pool, table NameTable) *NameRepository {
	return &NameRepository{pool: pool, table: table}
}

// Table returns the reference table this repository reads.
func (r *NameRepository) Table() NameTable {
	return r.table
}

// LookupNames returns names for the ids that exist and are not soft-deleted.
func (r *NameRepository) LookupNames(ctx context.Context, ids []string) (map[string]string, error) {
	names := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}
	query := fmt.Sprintf(`SELECT id, name FROM %s WHERE id = ANY($1) AND deleted_at IS NULL`, r.table)
	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		names[id] = name
	}
	return names, rows.Err()
}
