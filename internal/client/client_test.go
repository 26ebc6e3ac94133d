package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/cyberclub/internal/app/models"
	"github.com/yigit/cyberclub/internal/app/models/dto"
	"github.com/yigit/cyberclub/internal/app/routes"
	"github.com/yigit/cyberclub/internal/app/services"
	"github.com/yigit/cyberclub/internal/pkg/apperrors"
	"github.com/yigit/cyberclub/internal/pkg/auth"
	"github.com/yigit/cyberclub/internal/pkg/filestorage"
	"github.com/yigit/cyberclub/internal/testutil"
)

const (
	adminEmail    = "root@club.edu"
	adminPassword = "rootpass1"
)

// newTestServer runs the real router over in-memory stores
func newTestServer(t *testing.T) *Client {
	t.Helper()
	gin.SetMode(gin.TestMode)

	storage, err := filestorage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	acceptor := filestorage.NewAcceptor(storage)
	jwtService := auth.NewJWTService(auth.JWTConfig{SecretKey: "client-test", AccessTokenExp: time.Hour, TokenIssuer: "test"})
	log := zerolog.Nop()

	svcs := &services.Services{
		Auth:    services.NewAuthService(testutil.NewUserStore(), jwtService, auth.PasswordHasher{Cost: 4}, log),
		Posts:   services.NewPostService(testutil.NewPostStore(), acceptor, log),
		Events:  services.NewEventService(testutil.NewEventStore(), acceptor, log),
		Members: services.NewContentService[models.Member, dto.MemberInput](testutil.NewMemberStore(), acceptor, services.MemberDefinition(), log),
		Classes: services.NewContentService[models.Class, dto.ClassInput](testutil.NewClassStore(), acceptor, services.ClassDefinition(), log),
		CTFs:    services.NewContentService[models.CTF, dto.CTFInput](testutil.NewCTFStore(), acceptor, services.CTFDefinition(), log),
		Contact: services.NewContactService(testutil.NewContactStore(), nil, log),
	}
	_, err = svcs.Auth.EnsureAdmin(context.Background(), "Root", adminEmail, adminPassword)
	require.NoError(t, err)

	router := gin.New()
	routes.SetupRouter(router, routes.NewHandlers(svcs, acceptor, jwtService, nil, nil, log))
	routes.SetupStatic(router, storage.BasePath())

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return New(srv.URL + "/api")
}

func adminAuth(t *testing.T, c *Client) AuthContext {
	t.Helper()
	a, err := c.Login(context.Background(), adminEmail, adminPassword)
	require.NoError(t, err)
	require.True(t, a.IsAdmin())
	return a
}

func TestRegisterLoginMe(t *testing.T) {
	c := newTestServer(t)
	ctx := context.Background()

	user, err := c.Register(ctx, "Ada", "Ada@Club.edu", "hunter22x")
	require.NoError(t, err)
	assert.Equal(t, "ada@club.edu", user.Email)

	a, err := c.Login(ctx, "ADA@club.edu", "hunter22x")
	require.NoError(t, err)
	assert.True(t, a.Authenticated())
	assert.False(t, a.IsAdmin())
	assert.False(t, a.Expired(time.Now()))
	assert.True(t, a.Expired(time.Now().Add(2*time.Hour)))

	me, err := c.Me(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, user.ID, me.ID)

	_, err = c.Register(ctx, "Ada again", "ada@club.edu", "hunter22x")
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	_, err = c.Login(ctx, "ada@club.edu", "wrong-password")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, dto.ErrorCodeInvalidCredentials, apiErr.Code)
}

func TestGuardedCallWithoutLogin(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.Posts().Create(context.Background(), AuthContext{}, NewPayload(map[string]any{"title": "x"}))
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.Zero(t, hits.Load())
}

func TestPostLifecycle(t *testing.T) {
	c := newTestServer(t)
	ctx := context.Background()
	admin := adminAuth(t, c)

	posts := c.Posts()
	created, err := posts.Create(ctx, admin, NewPayload(map[string]any{"title": "Hello", "content": "World"}))
	require.NoError(t, err)
	assert.Equal(t, 0, created.Likes)

	list, err := posts.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)

	liked, err := c.LikePost(ctx, admin, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, liked.Likes)
	assert.Equal(t, []string{admin.User.ID}, liked.LikedBy)

	unliked, err := c.LikePost(ctx, admin, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, unliked.Likes)

	updated, err := posts.Update(ctx, admin, created.ID, NewPayload(nil).Set("title", "Hello again"))
	require.NoError(t, err)
	assert.Equal(t, "Hello again", updated.Title)
	assert.Equal(t, "World", updated.Content)

	require.NoError(t, posts.Delete(ctx, admin, created.ID))
	_, err = posts.Get(ctx, created.ID)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestNonAdminCannotWrite(t *testing.T) {
	c := newTestServer(t)
	ctx := context.Background()

	_, err := c.Register(ctx, "Bob", "bob@club.edu", "hunter22x")
	require.NoError(t, err)
	bob, err := c.Login(ctx, "bob@club.edu", "hunter22x")
	require.NoError(t, err)

	_, err = c.Members().Create(ctx, bob, NewPayload(map[string]any{"name": "Bob", "role": "Chair"}))
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	_, err = c.Users(ctx, bob)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestRegistryClassWithFileAndLinks(t *testing.T) {
	c := newTestServer(t)
	ctx := context.Background()
	admin := adminAuth(t, c)

	entry, err := NewRegistry(c).Lookup("Classes")
	require.NoError(t, err)

	file := &FileUpload{Name: "intro.pdf", Content: strings.NewReader("%PDF-1.4 intro slides")}
	payload, err := entry.Schema.Payload(map[string]string{
		"title":        "Intro to pwn",
		"description":  "Stack basics",
		"date":         "2024-11-02",
		"time":         "18:00",
		"capacity":     "30",
		"contentLinks": `[{"label":"Slides","url":"https://example.com/s"}]`,
	}, file, true)
	require.NoError(t, err)
	assert.True(t, payload.Multipart())
	assert.Equal(t, "contentFile", file.Field)

	item, err := entry.Create(ctx, admin, payload)
	require.NoError(t, err)
	class := item.(*models.Class)
	assert.True(t, strings.HasPrefix(class.ContentFile, "/uploads/class-"), class.ContentFile)
	require.Len(t, class.ContentLinks, 1)
	assert.Equal(t, "Slides", class.ContentLinks[0].Label)
	require.NotNil(t, class.Capacity)
	assert.Equal(t, 30, *class.Capacity)

	// the stored file is served back under its reference path
	resp, err := http.Get(strings.TrimSuffix(c.BaseURL(), "/api") + class.ContentFile)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	items, err := entry.Fetch(ctx, AuthContext{})
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestRegistryRejectsDisallowedUpload(t *testing.T) {
	c := newTestServer(t)
	ctx := context.Background()
	admin := adminAuth(t, c)

	entry, err := NewRegistry(c).Lookup(KindPosts)
	require.NoError(t, err)

	file := &FileUpload{Name: "payload.exe", Content: strings.NewReader("MZ\x90\x00")}
	payload, err := entry.Schema.Payload(map[string]string{"title": "t", "content": "c"}, file, true)
	require.NoError(t, err)

	_, err = entry.Create(ctx, admin, payload)
	assert.ErrorIs(t, err, apperrors.ErrUnsupportedMediaType)

	items, err := entry.Fetch(ctx, admin)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestContactScenario(t *testing.T) {
	c := newTestServer(t)
	ctx := context.Background()
	admin := adminAuth(t, c)

	msg, err := c.SubmitContact(ctx, "A", "a@x.com", "hi")
	require.NoError(t, err)
	assert.Equal(t, models.MessageNew, msg.Status)

	inbox, err := c.Messages(ctx, admin)
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	assert.Equal(t, msg.ID, inbox[0].ID)

	entry, err := NewRegistry(c).Lookup(KindMessages)
	require.NoError(t, err)
	payload, err := entry.Schema.Payload(map[string]string{"status": "Read"}, nil, false)
	require.NoError(t, err)
	item, err := entry.Update(ctx, admin, msg.ID, payload)
	require.NoError(t, err)
	assert.Equal(t, models.MessageRead, item.(*models.ContactMessage).Status)

	require.NoError(t, c.DeleteMessage(ctx, admin, msg.ID))
	_, err = c.Message(ctx, admin, msg.ID)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestUsersAdministration(t *testing.T) {
	c := newTestServer(t)
	ctx := context.Background()
	admin := adminAuth(t, c)

	user, err := c.Register(ctx, "Eve", "eve@club.edu", "hunter22x")
	require.NoError(t, err)

	promoted, err := c.SetRole(ctx, admin, user.ID, models.RoleAdmin)
	require.NoError(t, err)
	assert.True(t, promoted.IsAdmin())

	_, err = c.SetRole(ctx, admin, user.ID, "root")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	require.NoError(t, c.DeleteUser(ctx, admin, user.ID))
	users, err := c.Users(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, users, 1)

	entry, err := NewRegistry(c).Lookup(KindUsers)
	require.NoError(t, err)
	_, err = entry.Get(ctx, admin, user.ID)
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestEventsByPeriod(t *testing.T) {
	c := newTestServer(t)
	ctx := context.Background()
	admin := adminAuth(t, c)

	future := time.Now().Add(48 * time.Hour).UTC().Format(time.RFC3339)
	past := time.Now().Add(-48 * time.Hour).UTC().Format(time.RFC3339)
	for _, date := range []string{future, past} {
		_, err := c.Events().Create(ctx, admin, NewPayload(map[string]any{
			"title": "Meetup " + date, "description": "d", "date": date, "location": "Lab",
		}))
		require.NoError(t, err)
	}

	upcoming, err := c.EventsByPeriod(ctx, models.PeriodUpcoming)
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	assert.True(t, upcoming[0].Date.After(time.Now()))
}

func TestSchemaPayloadValidation(t *testing.T) {
	reg := NewRegistry(New(DefaultBaseURL))
	classes, err := reg.Lookup(KindClasses)
	require.NoError(t, err)
	members, err := reg.Lookup(KindMembers)
	require.NoError(t, err)
	ctfs, err := reg.Lookup(KindCTFs)
	require.NoError(t, err)

	tests := []struct {
		name   string
		schema FormSchema
		values map[string]string
		file   *FileUpload
		create bool
		field  string
	}{
		{name: "unknown field", schema: members.Schema, values: map[string]string{"shoe": "42"}, field: "shoe"},
		{name: "missing required", schema: members.Schema, values: map[string]string{"name": "x"}, create: true, field: "role"},
		{name: "bad number", schema: classes.Schema, values: map[string]string{"capacity": "lots"}, field: "capacity"},
		{name: "bad links", schema: classes.Schema, values: map[string]string{"contentLinks": "[oops"}, field: "contentLinks"},
		{name: "bad choice", schema: ctfs.Schema, values: map[string]string{"previewType": "gif"}, field: "previewType"},
		{name: "file not accepted", schema: members.Schema, file: &FileUpload{Name: "a.png", Content: strings.NewReader("")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.schema.Payload(tt.values, tt.file, tt.create)
			require.ErrorIs(t, err, apperrors.ErrValidationFailed)
			if tt.field != "" {
				var ce *apperrors.CustomError
				require.True(t, errors.As(err, &ce))
				assert.Equal(t, tt.field, ce.Field)
			}
		})
	}

	// a partial update needs no required fields
	p, err := members.Schema.Payload(map[string]string{"bio": "hi"}, nil, false)
	require.NoError(t, err)
	assert.False(t, p.Multipart())
	assert.Equal(t, "hi", p.Fields["bio"])
}

func TestRegistryLookup(t *testing.T) {
	reg := NewRegistry(New(DefaultBaseURL))
	assert.Len(t, reg.Kinds(), 7)

	_, err := reg.Lookup("widgets")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "posts")

	posts, err := reg.Lookup(KindPosts)
	require.NoError(t, err)
	assert.False(t, posts.AdminList)
	field, ok := posts.Schema.Field("title")
	require.True(t, ok)
	assert.True(t, field.Required)
}

func TestNonJSONErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := New(srv.URL).Posts().List(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "upstream unavailable", apiErr.Message)
	assert.Nil(t, apiErr.Unwrap())
}
