package repositories

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/cyberclub/internal/app/models"
	"github.com/yigit/cyberclub/internal/pkg/apperrors"
)

const (
	postID = "3f1c2a8e-9b4d-4e6f-8a1b-2c3d4e5f6a7b"
	userID = "9a8b7c6d-5e4f-4a3b-8c2d-1e0f9a8b7c6d"
)

var created = time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock
}

func postRows() *pgxmock.Rows {
	return pgxmock.NewRows(postColumns)
}

func TestListPostsNewestFirst(t *testing.T) {
	mock := newMock(t)
	repo := NewPostRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, title, content, image, likes, liked_by, created_at FROM posts ORDER BY created_at DESC")).
		WillReturnRows(postRows().
			AddRow(postID, "Newer", "body", "", 1, []string{userID}, created.Add(time.Hour)).
			AddRow("5e6f7a8b-9c0d-4e1f-8a2b-3c4d5e6f7a8b", "Older", "body", "/uploads/post-1-2.png", 0, []string{}, created))

	posts, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "Newer", posts[0].Title)
	assert.Equal(t, []string{userID}, posts[0].LikedBy)
	assert.Equal(t, "/uploads/post-1-2.png", posts[1].Image)
}

func TestGetPostNotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewPostRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("FROM posts WHERE id = $1 LIMIT 1")).
		WithArgs(postID).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), postID)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	assert.Equal(t, apperrors.ErrPostNotFound, err)
}

func TestMalformedIDIsNotFoundWithoutQuery(t *testing.T) {
	mock := newMock(t)
	repo := NewPostRepository(mock)

	_, err := repo.GetByID(context.Background(), "not-a-uuid")
	assert.Equal(t, apperrors.ErrPostNotFound, err)

	_, err = repo.Update(context.Background(), "42", map[string]any{"title": "x"})
	assert.Equal(t, apperrors.ErrPostNotFound, err)

	_, err = repo.Delete(context.Background(), "")
	assert.Equal(t, apperrors.ErrPostNotFound, err)
}

func TestCreatePostReturnsStoredRow(t *testing.T) {
	mock := newMock(t)
	repo := NewPostRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO posts (content,image,title) VALUES ($1,$2,$3) RETURNING id, title")).
		WithArgs("body", "", "Hello").
		WillReturnRows(postRows().AddRow(postID, "Hello", "body", "", 0, []string{}, created))

	post, err := repo.Create(context.Background(), &models.Post{Title: "Hello", Content: "body"})
	require.NoError(t, err)
	assert.Equal(t, postID, post.ID)
	assert.Equal(t, created, post.CreatedAt)
}

func TestUpdateTouchesOnlySuppliedColumns(t *testing.T) {
	mock := newMock(t)
	repo := NewPostRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE posts SET title = $1 WHERE id = $2 RETURNING id, title, content, image, likes, liked_by, created_at")).
		WithArgs("Renamed", postID).
		WillReturnRows(postRows().AddRow(postID, "Renamed", "kept", "", 0, []string{}, created))

	post, err := repo.Update(context.Background(), postID, map[string]any{"title": "Renamed"})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", post.Title)
	assert.Equal(t, "kept", post.Content)
}

func TestUpdateMissingRowIsNotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewPostRepository(mock)

	mock.ExpectQuery("UPDATE posts SET").
		WithArgs("Renamed", postID).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.Update(context.Background(), postID, map[string]any{"title": "Renamed"})
	assert.Equal(t, apperrors.ErrPostNotFound, err)
}

func TestEmptyUpdateReadsCurrentRow(t *testing.T) {
	mock := newMock(t)
	repo := NewPostRepository(mock)

	mock.ExpectQuery("SELECT (.+) FROM posts WHERE id").
		WithArgs(postID).
		WillReturnRows(postRows().AddRow(postID, "Same", "body", "", 0, []string{}, created))

	post, err := repo.Update(context.Background(), postID, nil)
	require.NoError(t, err)
	assert.Equal(t, "Same", post.Title)
}

func TestDeleteReturnsRemovedRow(t *testing.T) {
	mock := newMock(t)
	repo := NewPostRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("DELETE FROM posts WHERE id = $1 RETURNING")).
		WithArgs(postID).
		WillReturnRows(postRows().AddRow(postID, "Gone", "body", "/uploads/post-1-1.png", 0, []string{}, created))

	post, err := repo.Delete(context.Background(), postID)
	require.NoError(t, err)
	assert.Equal(t, "/uploads/post-1-1.png", post.Image)

	mock.ExpectQuery("DELETE FROM posts").WithArgs(postID).WillReturnError(pgx.ErrNoRows)
	_, err = repo.Delete(context.Background(), postID)
	assert.Equal(t, apperrors.ErrPostNotFound, err)
}

func TestToggleLikeIsOneStatement(t *testing.T) {
	mock := newMock(t)
	repo := NewPostRepository(mock)

	mock.ExpectQuery(`UPDATE posts SET\s+likes = CASE WHEN \$2 = ANY\(liked_by\)`).
		WithArgs(postID, userID).
		WillReturnRows(postRows().AddRow(postID, "T", "C", "", 1, []string{userID}, created))

	post, err := repo.ToggleLike(context.Background(), postID, userID)
	require.NoError(t, err)
	assert.Equal(t, 1, post.Likes)
	assert.True(t, post.LikedByUser(userID))
}

func TestToggleLikeMissingPost(t *testing.T) {
	mock := newMock(t)
	repo := NewPostRepository(mock)

	mock.ExpectQuery("UPDATE posts SET").
		WithArgs(postID, userID).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.ToggleLike(context.Background(), postID, userID)
	assert.Equal(t, apperrors.ErrPostNotFound, err)
}

func TestListUpcomingEvents(t *testing.T) {
	mock := newMock(t)
	repo := NewEventRepository(mock)
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM events WHERE date >= $1 ORDER BY date ASC")).
		WithArgs(now).
		WillReturnRows(pgxmock.NewRows([]string{"id", "title", "description", "date", "location", "image", "created_at"}).
			AddRow(postID, "Workshop", "desc", now.Add(48*time.Hour), "Lab 1", "", created))

	events, err := repo.ListByPeriod(context.Background(), models.PeriodUpcoming, now)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.True(t, events[0].IsUpcoming(now))
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users (email,name,password,role) VALUES ($1,$2,$3,$4)")).
		WithArgs("ada@club.edu", "Ada", "hash", models.RoleUser).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: UsersEmailConstraint})

	_, err := repo.Create(context.Background(), &models.User{Name: "Ada", Email: "ada@club.edu", Password: "hash", Role: models.RoleUser})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestEmailExists(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS ( SELECT 1 FROM users WHERE email = $1 )")).
		WithArgs("ada@club.edu").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.EmailExists(context.Background(), "ada@club.edu")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestCreateCheckViolationIsValidationError(t *testing.T) {
	mock := newMock(t)
	repo := NewEventRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO events (date,description,image,location,title) VALUES ($1,$2,$3,$4,$5)")).
		WithArgs(created, "", "", "", "").
		WillReturnError(&pgconn.PgError{Code: "23514", ConstraintName: "events_title_check"})

	_, err := repo.Create(context.Background(), &models.Event{Title: "", Date: created})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	var ce *apperrors.CustomError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "events_title_check", ce.Details["constraint"])
}

func TestUploadReferencedChecksEveryTable(t *testing.T) {
	mock := newMock(t)
	repo := NewUploadRepository(mock)
	ref := "/uploads/post-1-abc.png"

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS (SELECT 1 FROM posts WHERE image = $1 UNION ALL "+
		"SELECT 1 FROM events WHERE image = $2 UNION ALL SELECT 1 FROM members WHERE image = $3 UNION ALL "+
		"SELECT 1 FROM classes WHERE content_file = $4 UNION ALL SELECT 1 FROM ctfs WHERE preview = $5)")).
		WithArgs(ref, ref, ref, ref, ref).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	referenced, err := repo.UploadReferenced(context.Background(), ref)
	require.NoError(t, err)
	assert.True(t, referenced)
}
