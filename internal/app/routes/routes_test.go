package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/cyberclub/internal/app/models"
	"github.com/yigit/cyberclub/internal/app/models/dto"
	"github.com/yigit/cyberclub/internal/app/services"
	"github.com/yigit/cyberclub/internal/pkg/auth"
	"github.com/yigit/cyberclub/internal/pkg/filestorage"
	"github.com/yigit/cyberclub/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type api struct {
	t          *testing.T
	router     *gin.Engine
	uploads    string
	adminToken string
	userToken  string
	userID     string
}

func newAPI(t *testing.T) *api {
	t.Helper()
	uploads := t.TempDir()
	storage, err := filestorage.NewLocalStorage(uploads)
	require.NoError(t, err)
	acceptor := filestorage.NewAcceptor(storage)

	jwtService := auth.NewJWTService(auth.JWTConfig{SecretKey: "api-test", AccessTokenExp: time.Hour, TokenIssuer: "test"})
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

	router := gin.New()
	SetupRouter(router, NewHandlers(svcs, acceptor, jwtService, nil, nil, log))
	SetupStatic(router, uploads)

	a := &api{t: t, router: router, uploads: uploads}

	_, err = svcs.Auth.EnsureAdmin(context.Background(), "Root", "root@club.edu", "rootpass1")
	require.NoError(t, err)
	a.adminToken = a.login("root@club.edu", "rootpass1")

	var user models.User
	a.decode(a.do(http.MethodPost, "/api/auth/register", "",
		jsonBody(map[string]string{"name": "Ada", "email": "Ada@Club.edu", "password": "hunter22x"})), http.StatusCreated, &user)
	a.userID = user.ID
	a.userToken = a.login("ada@club.edu", "hunter22x")
	return a
}

type body struct {
	reader      io.Reader
	contentType string
}

func jsonBody(v any) body {
	raw, _ := json.Marshal(v)
	return body{bytes.NewReader(raw), "application/json"}
}

func formBody(t *testing.T, fields map[string]string, fileField, fileName string, content []byte) body {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if fileField != "" {
		part, err := w.CreateFormFile(fileField, fileName)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return body{&buf, w.FormDataContentType()}
}

func (a *api) do(method, path, token string, b body) *httptest.ResponseRecorder {
	var r io.Reader
	if b.reader != nil {
		r = b.reader
	}
	req := httptest.NewRequest(method, path, r)
	if b.contentType != "" {
		req.Header.Set("Content-Type", b.contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *api) decode(w *httptest.ResponseRecorder, status int, v any) {
	a.t.Helper()
	require.Equal(a.t, status, w.Code, w.Body.String())
	if v != nil {
		require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), v))
	}
}

func (a *api) login(email, password string) string {
	a.t.Helper()
	var resp dto.TokenResponse
	a.decode(a.do(http.MethodPost, "/api/auth/login", "",
		jsonBody(map[string]string{"email": email, "password": password})), http.StatusOK, &resp)
	return resp.Token
}

func (a *api) errorCode(w *httptest.ResponseRecorder) dto.ErrorCode {
	a.t.Helper()
	var resp dto.ErrorResponse
	require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	assert.NotEmpty(a.t, resp.Message)
	return resp.Code
}

func (a *api) createPost(title string) models.Post {
	a.t.Helper()
	var post models.Post
	a.decode(a.do(http.MethodPost, "/api/posts", a.adminToken,
		jsonBody(map[string]string{"title": title, "content": "body"})), http.StatusCreated, &post)
	return post
}

func TestCreatePostRequiresAdmin(t *testing.T) {
	a := newAPI(t)
	payload := map[string]string{"title": "Hello", "content": "World"}

	w := a.do(http.MethodPost, "/api/posts", "", jsonBody(payload))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, dto.ErrorCodeUnauthorized, a.errorCode(w))

	w = a.do(http.MethodPost, "/api/posts", a.userToken, jsonBody(payload))
	assert.Equal(t, http.StatusForbidden, w.Code)

	var created models.Post
	a.decode(a.do(http.MethodPost, "/api/posts", a.adminToken, jsonBody(payload)), http.StatusCreated, &created)

	var posts []models.Post
	a.decode(a.do(http.MethodGet, "/api/posts", "", body{}), http.StatusOK, &posts)
	require.Len(t, posts, 1)
	assert.Equal(t, created.ID, posts[0].ID)
}

func TestListsAreNewestFirst(t *testing.T) {
	a := newAPI(t)
	for _, title := range []string{"first", "second", "third"} {
		a.createPost(title)
		time.Sleep(2 * time.Millisecond)
	}

	var posts []models.Post
	a.decode(a.do(http.MethodGet, "/api/posts", "", body{}), http.StatusOK, &posts)
	require.Len(t, posts, 3)
	assert.Equal(t, "third", posts[0].Title)
	assert.Equal(t, "first", posts[2].Title)

	for _, date := range []string{"2024-01-01", "2025-01-01", "2023-01-01"} {
		a.decode(a.do(http.MethodPost, "/api/classes", a.adminToken, jsonBody(map[string]any{
			"title": "c" + date, "description": "d", "date": date, "time": "18:00",
		})), http.StatusCreated, nil)
	}
	var classes []models.Class
	a.decode(a.do(http.MethodGet, "/api/classes", "", body{}), http.StatusOK, &classes)
	require.Len(t, classes, 3)
	assert.Equal(t, "c2025-01-01", classes[0].Title)
	assert.Equal(t, "c2023-01-01", classes[2].Title)
}

func TestEmptyListIsArray(t *testing.T) {
	a := newAPI(t)
	w := a.do(http.MethodGet, "/api/members", "", body{})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestMissingIDsAreNotFoundForEveryResource(t *testing.T) {
	a := newAPI(t)
	ids := []string{uuid.NewString(), "not-a-uuid"}

	for _, resource := range []string{"posts", "events", "members", "classes", "ctfs", "contact"} {
		for _, id := range ids {
			path := "/api/" + resource + "/" + id
			if resource == "contact" {
				w := a.do(http.MethodPut, path+"/status", a.adminToken, jsonBody(map[string]string{"status": "read"}))
				assert.Equal(t, http.StatusNotFound, w.Code, path)
			} else {
				w := a.do(http.MethodPut, path, a.adminToken, jsonBody(map[string]string{"title": "x"}))
				assert.Equal(t, http.StatusNotFound, w.Code, path)
			}

			w := a.do(http.MethodDelete, path, a.adminToken, body{})
			assert.Equal(t, http.StatusNotFound, w.Code, path)
			assert.Equal(t, dto.ErrorCodeResourceNotFound, a.errorCode(w))

			w = a.do(http.MethodGet, path, a.adminToken, body{})
			assert.Equal(t, http.StatusNotFound, w.Code, path)
		}
	}

	for _, id := range ids {
		w := a.do(http.MethodDelete, "/api/auth/users/"+id, a.adminToken, body{})
		assert.Equal(t, http.StatusNotFound, w.Code)
	}
}

func TestToggleLikeOverHTTP(t *testing.T) {
	a := newAPI(t)
	post := a.createPost("likeable")
	path := "/api/posts/" + post.ID + "/like"

	assert.Equal(t, http.StatusUnauthorized, a.do(http.MethodPost, path, "", body{}).Code)

	var liked models.Post
	a.decode(a.do(http.MethodPost, path, a.userToken, body{}), http.StatusOK, &liked)
	assert.Equal(t, 1, liked.Likes)
	assert.Equal(t, []string{a.userID}, liked.LikedBy)

	var unliked models.Post
	a.decode(a.do(http.MethodPost, path, a.userToken, body{}), http.StatusOK, &unliked)
	assert.Equal(t, 0, unliked.Likes)
	assert.Empty(t, unliked.LikedBy)
}

func TestConcurrentLikesFromTwoUsers(t *testing.T) {
	a := newAPI(t)
	post := a.createPost("race")
	path := "/api/posts/" + post.ID + "/like"

	var wg sync.WaitGroup
	for _, token := range []string{a.userToken, a.adminToken} {
		wg.Add(1)
		go func(token string) {
			defer wg.Done()
			assert.Equal(t, http.StatusOK, a.do(http.MethodPost, path, token, body{}).Code)
		}(token)
	}
	wg.Wait()

	var got models.Post
	a.decode(a.do(http.MethodGet, "/api/posts/"+post.ID, "", body{}), http.StatusOK, &got)
	assert.Equal(t, 2, got.Likes)
	assert.Len(t, got.LikedBy, 2)
}

func TestDisallowedUploadCreatesNothing(t *testing.T) {
	a := newAPI(t)

	w := a.do(http.MethodPost, "/api/posts", a.adminToken,
		formBody(t, map[string]string{"title": "t", "content": "c"}, "image", "payload.exe", []byte("MZ\x90\x00")))
	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
	assert.Equal(t, dto.ErrorCodeUnsupportedMediaType, a.errorCode(w))

	var posts []models.Post
	a.decode(a.do(http.MethodGet, "/api/posts", "", body{}), http.StatusOK, &posts)
	assert.Empty(t, posts)

	post := a.createPost("keeps its image")
	w = a.do(http.MethodPut, "/api/posts/"+post.ID, a.adminToken,
		formBody(t, nil, "image", "payload.exe", []byte("MZ")))
	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)

	entries, err := os.ReadDir(a.uploads)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestMultipartUploadIsServed(t *testing.T) {
	a := newAPI(t)

	var post models.Post
	a.decode(a.do(http.MethodPost, "/api/posts", a.adminToken,
		formBody(t, map[string]string{"title": "With image", "content": "c"}, "image", "cat.png", testutil.PNG)),
		http.StatusCreated, &post)
	require.True(t, strings.HasPrefix(post.Image, "/uploads/post-"), post.Image)

	w := a.do(http.MethodGet, post.Image, "", body{})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, testutil.PNG, w.Body.Bytes())

	a.decode(a.do(http.MethodDelete, "/api/posts/"+post.ID, a.adminToken, body{}), http.StatusOK, nil)
	_, err := os.Stat(filepath.Join(a.uploads, filepath.Base(post.Image)))
	assert.True(t, os.IsNotExist(err))
}

func TestEveryUploadFieldAcceptsAFile(t *testing.T) {
	a := newAPI(t)

	var event models.Event
	a.decode(a.do(http.MethodPost, "/api/events", a.adminToken,
		formBody(t, map[string]string{"title": "Meetup", "description": "d", "date": "2030-01-02T18:00:00Z", "location": "Lab 1"}, "image", "hall.png", testutil.PNG)),
		http.StatusCreated, &event)
	assert.True(t, strings.HasPrefix(event.Image, "/uploads/event-"), event.Image)

	var ctf models.CTF
	a.decode(a.do(http.MethodPost, "/api/ctfs", a.adminToken,
		formBody(t, map[string]string{"title": "baby-rop", "author": "ada", "description": "d"}, "preview", "shot.png", testutil.PNG)),
		http.StatusCreated, &ctf)
	assert.True(t, strings.HasPrefix(ctf.Preview, "/uploads/ctf-"), ctf.Preview)

	var class models.Class
	a.decode(a.do(http.MethodPost, "/api/classes", a.adminToken,
		formBody(t, map[string]string{"title": "Forensics", "description": "d", "date": "2030-01-02", "time": "18:00"}, "contentFile", "slides.pdf", []byte("%PDF-1.4\n"))),
		http.StatusCreated, &class)
	assert.True(t, strings.HasPrefix(class.ContentFile, "/uploads/class-"), class.ContentFile)
}

func TestMultipartTextReferenceWithoutFile(t *testing.T) {
	a := newAPI(t)

	var post models.Post
	a.decode(a.do(http.MethodPost, "/api/posts", a.adminToken,
		formBody(t, map[string]string{"title": "Linked", "content": "c", "image": "https://cdn.example/cat.png"}, "", "", nil)),
		http.StatusCreated, &post)
	assert.Equal(t, "https://cdn.example/cat.png", post.Image)

	w := a.do(http.MethodPut, "/api/posts/"+post.ID, a.adminToken,
		formBody(t, map[string]string{"image": strings.Repeat("x", 3000)}, "", "", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrorCodeValidationFailed, a.errorCode(w))
}

func TestDeletingABorrowerKeepsTheOwnersUpload(t *testing.T) {
	a := newAPI(t)

	var owner models.Post
	a.decode(a.do(http.MethodPost, "/api/posts", a.adminToken,
		formBody(t, map[string]string{"title": "Owner", "content": "c"}, "image", "cat.png", testutil.PNG)),
		http.StatusCreated, &owner)
	var borrower models.Post
	a.decode(a.do(http.MethodPost, "/api/posts", a.adminToken,
		jsonBody(map[string]string{"title": "Borrower", "content": "c", "image": owner.Image})),
		http.StatusCreated, &borrower)

	a.decode(a.do(http.MethodDelete, "/api/posts/"+borrower.ID, a.adminToken, body{}), http.StatusOK, nil)

	_, err := os.Stat(filepath.Join(a.uploads, filepath.Base(owner.Image)))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, a.do(http.MethodGet, owner.Image, "", body{}).Code)
}

func TestClassContentLinks(t *testing.T) {
	a := newAPI(t)
	fields := map[string]string{
		"title": "Web exploitation", "description": "XSS and friends", "date": "2024-10-01", "time": "18:00",
		"contentLinks": `[{"label":"Slides","url":"https://s"},{"label":"Lab","url":"https://l"}]`,
		"capacity":     "30",
	}

	var class models.Class
	a.decode(a.do(http.MethodPost, "/api/classes", a.adminToken, formBody(t, fields, "", "", nil)), http.StatusCreated, &class)
	assert.Equal(t, []models.ContentLink{{Label: "Slides", URL: "https://s"}, {Label: "Lab", URL: "https://l"}}, class.ContentLinks)
	require.NotNil(t, class.Capacity)
	assert.Equal(t, 30, *class.Capacity)

	fields["contentLinks"] = `[{"label":`
	w := a.do(http.MethodPost, "/api/classes", a.adminToken, formBody(t, fields, "", "", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrorCodeValidationFailed, a.errorCode(w))

	w = a.do(http.MethodPut, "/api/classes/"+class.ID, a.adminToken,
		jsonBody(map[string]any{"contentLinks": `[{"label":"Only","url":"https://o"}]`}))
	var updated models.Class
	a.decode(w, http.StatusOK, &updated)
	assert.Equal(t, []models.ContentLink{{Label: "Only", URL: "https://o"}}, updated.ContentLinks)
	assert.Equal(t, "Web exploitation", updated.Title)
}

func TestPartialUpdateKeepsOtherFields(t *testing.T) {
	a := newAPI(t)
	var ctf models.CTF
	a.decode(a.do(http.MethodPost, "/api/ctfs", a.adminToken,
		jsonBody(map[string]string{"title": "baby-heap", "author": "ada", "description": "tcache"})), http.StatusCreated, &ctf)
	assert.Equal(t, models.PreviewImage, ctf.PreviewType)

	var updated models.CTF
	a.decode(a.do(http.MethodPut, "/api/ctfs/"+ctf.ID, a.adminToken,
		jsonBody(map[string]string{"previewType": "link", "videoLink": "https://yt"})), http.StatusOK, &updated)
	assert.Equal(t, "baby-heap", updated.Title)
	assert.Equal(t, "tcache", updated.Description)
	assert.Equal(t, models.PreviewLink, updated.PreviewType)
}

func TestEventsUpcomingFilter(t *testing.T) {
	a := newAPI(t)
	future := time.Now().Add(48 * time.Hour).UTC().Format(time.RFC3339)
	past := time.Now().Add(-48 * time.Hour).UTC().Format(time.RFC3339)
	for _, date := range []string{future, past} {
		a.decode(a.do(http.MethodPost, "/api/events", a.adminToken, jsonBody(map[string]string{
			"title": date, "description": "d", "location": "Lab", "date": date,
		})), http.StatusCreated, nil)
	}

	var upcoming []models.Event
	a.decode(a.do(http.MethodGet, "/api/events?when=upcoming", "", body{}), http.StatusOK, &upcoming)
	require.Len(t, upcoming, 1)
	assert.Equal(t, future, upcoming[0].Title)

	assert.Equal(t, http.StatusBadRequest, a.do(http.MethodGet, "/api/events?when=soon", "", body{}).Code)
}

func TestContactScenario(t *testing.T) {
	a := newAPI(t)

	var msg models.ContactMessage
	a.decode(a.do(http.MethodPost, "/api/contact", "",
		jsonBody(map[string]string{"name": "A", "email": "a@x.com", "message": "hi"})), http.StatusCreated, &msg)
	assert.Equal(t, models.MessageNew, msg.Status)

	assert.Equal(t, http.StatusUnauthorized, a.do(http.MethodGet, "/api/contact", "", body{}).Code)
	assert.Equal(t, http.StatusForbidden, a.do(http.MethodGet, "/api/contact", a.userToken, body{}).Code)

	var inbox []models.ContactMessage
	a.decode(a.do(http.MethodGet, "/api/contact", a.adminToken, body{}), http.StatusOK, &inbox)
	require.Len(t, inbox, 1)
	assert.Equal(t, msg.ID, inbox[0].ID)

	var deleted dto.MessageResponse
	a.decode(a.do(http.MethodDelete, "/api/contact/"+msg.ID, a.adminToken, body{}), http.StatusOK, &deleted)
	assert.NotEmpty(t, deleted.Message)
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodGet, "/api/contact/"+msg.ID, a.adminToken, body{}).Code)
}

func TestAuthEndpoints(t *testing.T) {
	a := newAPI(t)

	w := a.do(http.MethodPost, "/api/auth/register", "",
		jsonBody(map[string]string{"name": "Dup", "email": "ADA@club.edu", "password": "hunter22x"}))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, dto.ErrorCodeResourceAlreadyExists, a.errorCode(w))

	w = a.do(http.MethodPost, "/api/auth/login", "",
		jsonBody(map[string]string{"email": "ada@club.edu", "password": "wrongpass1"}))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, dto.ErrorCodeInvalidCredentials, a.errorCode(w))

	var me models.User
	a.decode(a.do(http.MethodGet, "/api/auth/me", a.userToken, body{}), http.StatusOK, &me)
	assert.Equal(t, "ada@club.edu", me.Email)
	assert.NotContains(t, fmt.Sprint(a.do(http.MethodGet, "/api/auth/me", a.userToken, body{}).Body), "password")

	assert.Equal(t, http.StatusForbidden, a.do(http.MethodGet, "/api/auth/users", a.userToken, body{}).Code)
	var users []models.User
	a.decode(a.do(http.MethodGet, "/api/auth/users", a.adminToken, body{}), http.StatusOK, &users)
	assert.Len(t, users, 2)

	w = a.do(http.MethodPut, "/api/auth/users/"+a.userID+"/role", a.adminToken, jsonBody(map[string]string{"role": "root"}))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var promoted models.User
	a.decode(a.do(http.MethodPut, "/api/auth/users/"+a.userID+"/role", a.adminToken,
		jsonBody(map[string]string{"role": "admin"})), http.StatusOK, &promoted)
	assert.Equal(t, models.RoleAdmin, promoted.Role)

	a.decode(a.do(http.MethodDelete, "/api/auth/users/"+a.userID, a.adminToken, body{}), http.StatusOK, nil)
}

func TestPing(t *testing.T) {
	a := newAPI(t)
	w := a.do(http.MethodGet, "/ping", "", body{})
	assert.Equal(t, http.StatusOK, w.Code)

	var health dto.HealthResponse
	a.decode(a.do(http.MethodGet, "/api/health", "", body{}), http.StatusOK, &health)
	assert.Equal(t, "ok", health.Status)
}
