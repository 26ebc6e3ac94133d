package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/yigit/cyberclub/internal/app/models"
	"github.com/yigit/cyberclub/internal/pkg/apperrors"
	"github.com/yigit/cyberclub/internal/pkg/logger"
)

var postColumns = []string{"id", "title", "content", "image", "likes", "liked_by", "created_at"}

func scanPost(row pgx.Row) (*models.Post, error) {
	p := &models.Post{}
	if err := row.Scan(&p.ID, &p.Title, &p.Content, &p.Image, &p.Likes, &p.LikedBy, &p.CreatedAt); err != nil {
		return nil, err
	}
	if p.LikedBy == nil {
		p.LikedBy = []string{}
	}
	return p, nil
}

// PostRepository handles post database operations
type PostRepository struct {
	*CrudRepository[models.Post]
}

// NewPostRepository creates a new PostRepository
func NewPostRepository(db DBTX) *PostRepository {
	return &PostRepository{NewCrudRepository(db, Table[models.Post]{
		Name:    "posts",
		Columns: postColumns,
		OrderBy: "created_at DESC",
		Scan:    scanPost,
		Values: func(p *models.Post) map[string]any {
			return map[string]any{
				"title":   p.Title,
				"content": p.Content,
				"image":   p.Image,
			}
		},
		NotFound: apperrors.ErrPostNotFound,
	})}
}

// ToggleLike adds userID to the post's likers, or removes it if present, in
// one conditional UPDATE. likes and liked_by change together, so concurrent
// toggles by different users cannot lose updates.
func (r *PostRepository) ToggleLike(ctx context.Context, postID, userID string) (*models.Post, error) {
	if !validID(postID) {
		return nil, r.table.NotFound
	}

	sql := `UPDATE posts SET
		likes = CASE WHEN $2 = ANY(liked_by) THEN likes - 1 ELSE likes + 1 END,
		liked_by = CASE WHEN $2 = ANY(liked_by) THEN array_remove(liked_by, $2) ELSE array_append(liked_by, $2) END
	WHERE id = $1
	` + r.table.returning()

	post, err := r.scanOne(r.db.QueryRow(ctx, sql, postID, userID), "toggle like", postID)
	if err != nil {
		return nil, err
	}

	logger.Debug().Str("postID", postID).Str("userID", userID).Int("likes", post.Likes).Msg("Post like toggled")
	return post, nil
}
