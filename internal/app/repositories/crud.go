package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/yigit/cyberclub/internal/pkg/apperrors"
	"github.com/yigit/cyberclub/internal/pkg/dberrors"
	"github.com/yigit/cyberclub/internal/pkg/logger"
)

// DBTX is the subset of *pgxpool.Pool the repositories use. Transactions and
// pgxmock pools satisfy it too.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Table describes how one entity maps onto its table
type Table[T any] struct {
	Name string
	// Columns are selected and returned in this order; Scan must match it
	Columns []string
	OrderBy string
	Scan    func(row pgx.Row) (*T, error)
	// Values returns the insertable columns of an entity. id and created_at
	// are left to column defaults.
	Values   func(entity *T) map[string]any
	NotFound error
}

func (t Table[T]) returning() string {
	return "RETURNING " + strings.Join(t.Columns, ", ")
}

// CrudRepository implements list/get/create/update/delete for one table
type CrudRepository[T any] struct {
	db    DBTX
	sb    squirrel.StatementBuilderType
	table Table[T]
}

// NewCrudRepository creates a new CrudRepository
func NewCrudRepository[T any](db DBTX, table Table[T]) *CrudRepository[T] {
	return &CrudRepository[T]{
		db:    db,
		sb:    squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		table: table,
	}
}

// validID reports whether id can name a row at all. Malformed ids resolve
// to NotFound without a round trip.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// List returns every row in the table's display order
func (r *CrudRepository[T]) List(ctx context.Context) ([]*T, error) {
	return r.listWhere(ctx, nil)
}

func (r *CrudRepository[T]) listWhere(ctx context.Context, pred squirrel.Sqlizer) ([]*T, error) {
	q := r.sb.Select(r.table.Columns...).From(r.table.Name)
	if pred != nil {
		q = q.Where(pred)
	}
	if r.table.OrderBy != "" {
		q = q.OrderBy(r.table.OrderBy)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		logger.Error().Err(err).Str("table", r.table.Name).Msg("Error building list SQL")
		return nil, fmt.Errorf("failed to build list %s query: %w", r.table.Name, err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("table", r.table.Name).Msg("Error executing list query")
		return nil, fmt.Errorf("error querying %s: %w", r.table.Name, err)
	}
	defer rows.Close()

	items := []*T{}
	for rows.Next() {
		item, err := r.table.Scan(rows)
		if err != nil {
			logger.Error().Err(err).Str("table", r.table.Name).Msg("Error scanning row during list")
			return nil, fmt.Errorf("error scanning %s row: %w", r.table.Name, err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Str("table", r.table.Name).Msg("Error iterating rows")
		return nil, fmt.Errorf("error iterating %s rows: %w", r.table.Name, err)
	}

	return items, nil
}

// GetByID retrieves one row
func (r *CrudRepository[T]) GetByID(ctx context.Context, id string) (*T, error) {
	if !validID(id) {
		return nil, r.table.NotFound
	}

	sql, args, err := r.sb.Select(r.table.Columns...).
		From(r.table.Name).
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get %s query: %w", r.table.Name, err)
	}

	return r.scanOne(r.db.QueryRow(ctx, sql, args...), "get", id)
}

// GetOneWhere retrieves the first row matching pred
func (r *CrudRepository[T]) GetOneWhere(ctx context.Context, pred squirrel.Sqlizer) (*T, error) {
	sql, args, err := r.sb.Select(r.table.Columns...).
		From(r.table.Name).
		Where(pred).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get %s query: %w", r.table.Name, err)
	}

	return r.scanOne(r.db.QueryRow(ctx, sql, args...), "get", "")
}

// Create inserts entity and returns the stored row, defaults included
func (r *CrudRepository[T]) Create(ctx context.Context, entity *T) (*T, error) {
	sql, args, err := r.sb.Insert(r.table.Name).
		SetMap(r.table.Values(entity)).
		Suffix(r.table.returning()).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Str("table", r.table.Name).Msg("Error building create SQL")
		return nil, fmt.Errorf("failed to build create %s query: %w", r.table.Name, err)
	}

	created, err := r.table.Scan(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if dberrors.IsCheckViolation(err) {
			return nil, checkViolation(err)
		}
		logger.Error().Err(err).Str("table", r.table.Name).Msg("Error executing create query")
		return nil, fmt.Errorf("error creating %s: %w", r.table.Name, err)
	}
	return created, nil
}

// Update applies changes (column -> value) in a single statement and returns
// the updated row. Columns not in changes keep their stored value.
func (r *CrudRepository[T]) Update(ctx context.Context, id string, changes map[string]any) (*T, error) {
	if !validID(id) {
		return nil, r.table.NotFound
	}
	if len(changes) == 0 {
		return r.GetByID(ctx, id)
	}

	sql, args, err := r.sb.Update(r.table.Name).
		SetMap(changes).
		Where(squirrel.Eq{"id": id}).
		Suffix(r.table.returning()).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Str("table", r.table.Name).Msg("Error building update SQL")
		return nil, fmt.Errorf("failed to build update %s query: %w", r.table.Name, err)
	}

	return r.scanOne(r.db.QueryRow(ctx, sql, args...), "update", id)
}

// Delete removes a row and returns it as it was
func (r *CrudRepository[T]) Delete(ctx context.Context, id string) (*T, error) {
	if !validID(id) {
		return nil, r.table.NotFound
	}

	sql, args, err := r.sb.Delete(r.table.Name).
		Where(squirrel.Eq{"id": id}).
		Suffix(r.table.returning()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build delete %s query: %w", r.table.Name, err)
	}

	return r.scanOne(r.db.QueryRow(ctx, sql, args...), "delete", id)
}

func (r *CrudRepository[T]) scanOne(row pgx.Row, op, id string) (*T, error) {
	item, err := r.table.Scan(row)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows), dberrors.IsInvalidTextRepresentation(err):
			return nil, r.table.NotFound
		case dberrors.IsCheckViolation(err):
			return nil, checkViolation(err)
		}
		logger.Error().Err(err).Str("table", r.table.Name).Str("op", op).Str("id", id).Msg("Error scanning row")
		return nil, fmt.Errorf("error during %s on %s: %w", op, r.table.Name, err)
	}
	return item, nil
}

// checkViolation reports a rejected CHECK constraint as a validation error
func checkViolation(err error) error {
	var pgErr *pgconn.PgError
	constraint := ""
	if errors.As(err, &pgErr) {
		constraint = pgErr.ConstraintName
	}
	return apperrors.NewCustomError(apperrors.ErrValidationFailed, "Value rejected by the database").
		WithDetails(map[string]interface{}{"constraint": constraint})
}
