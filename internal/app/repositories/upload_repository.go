package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/cyberclub/internal/pkg/logger"
)

// uploadColumn is a column that may hold an /uploads reference
type uploadColumn struct {
	table, column string
}

var uploadColumns = []uploadColumn{
	{"posts", "image"},
	{"events", "image"},
	{"members", "image"},
	{"classes", "content_file"},
	{"ctfs", "preview"},
}

// UploadRepository answers questions about upload references across every
// content table.
type UploadRepository struct {
	db DBTX
	sb squirrel.StatementBuilderType
}

// NewUploadRepository creates a new UploadRepository
func NewUploadRepository(db DBTX) *UploadRepository {
	return &UploadRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// UploadReferenced reports whether any row still points at ref
func (r *UploadRepository) UploadReferenced(ctx context.Context, ref string) (bool, error) {
	selects := make([]string, 0, len(uploadColumns))
	args := make([]any, 0, len(uploadColumns))
	for _, uc := range uploadColumns {
		sql, colArgs, err := squirrel.Select("1").From(uc.table).Where(squirrel.Eq{uc.column: ref}).ToSql()
		if err != nil {
			return false, fmt.Errorf("failed to build upload reference query: %w", err)
		}
		selects = append(selects, sql)
		args = append(args, colArgs...)
	}

	sql, args, err := r.sb.Select().
		Column(squirrel.Expr("EXISTS ("+strings.Join(selects, " UNION ALL ")+")", args...)).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build upload reference query: %w", err)
	}

	var exists bool
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		logger.Error().Err(err).Str("ref", ref).Msg("Error checking upload references")
		return false, fmt.Errorf("error checking upload references: %w", err)
	}
	return exists, nil
}
