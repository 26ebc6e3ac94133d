package bootstrap

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/cyberclub/internal/app/models"
	"github.com/yigit/cyberclub/internal/app/models/dto"
	appRoutes "github.com/yigit/cyberclub/internal/app/routes"
	"github.com/yigit/cyberclub/internal/app/services"
	"github.com/yigit/cyberclub/internal/config"
	"github.com/yigit/cyberclub/internal/pkg/auth"
	"github.com/yigit/cyberclub/internal/pkg/filestorage"
	"github.com/yigit/cyberclub/internal/pkg/ratelimit"
	"github.com/yigit/cyberclub/internal/testutil"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Server.Mode = "test"
	cfg.Server.CORSOrigins = "https://club.example.edu, https://admin.example.edu"
	cfg.Server.MaxBodyMB = 1
	cfg.Server.RequestTimeout = 5 * time.Second
	cfg.RateLimit.RPS = 100
	cfg.RateLimit.Burst = 100
	return cfg
}

func testDeps(t *testing.T) *Dependencies {
	t.Helper()
	storage, err := filestorage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	acceptor := filestorage.NewAcceptor(storage)
	jwtService := auth.NewJWTService(auth.JWTConfig{SecretKey: "k", AccessTokenExp: time.Hour, TokenIssuer: "t"})
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
	limiter := ratelimit.NewIPRateLimiter(100, 100)

	return &Dependencies{
		Services:    svcs,
		Handlers:    appRoutes.NewHandlers(svcs, acceptor, jwtService, nil, limiter, log),
		JWTService:  jwtService,
		FileStorage: storage,
		Acceptor:    acceptor,
		Limiter:     limiter,
		Logger:      log,
	}
}

func TestSMTPConfigSplitsRecipients(t *testing.T) {
	cfg := &config.Config{}
	cfg.SMTP.Host = "smtp.club.edu"
	cfg.SMTP.Port = 2525
	cfg.SMTP.NotifyTo = " board@club.edu, ,chair@club.edu "

	smtp := SMTPConfig(cfg)
	assert.Equal(t, []string{"board@club.edu", "chair@club.edu"}, smtp.NotifyTo)
	assert.Equal(t, 2525, smtp.Port)
	assert.True(t, smtp.Enabled())

	assert.False(t, SMTPConfig(&config.Config{}).Enabled())
}

func TestCORSConfigWildcard(t *testing.T) {
	cfg := &config.Config{}
	cfg.Server.CORSOrigins = "*"
	c := CORSConfig(cfg)
	assert.True(t, c.AllowAllOrigins)
	assert.Empty(t, c.AllowOrigins)

	c = CORSConfig(testConfig())
	assert.False(t, c.AllowAllOrigins)
	assert.Equal(t, []string{"https://club.example.edu", "https://admin.example.edu"}, c.AllowOrigins)
}

func TestSetupRouterMiddlewareChain(t *testing.T) {
	router := SetupRouter(testConfig(), testDeps(t), zerolog.Nop())
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
	req.Header.Set("Origin", "https://club.example.edu")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", strings.TrimSpace(w.Body.String()))
	assert.Equal(t, "https://club.example.edu", w.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
}

func TestSetupRouterRejectsForeignOrigin(t *testing.T) {
	router := SetupRouter(testConfig(), testDeps(t), zerolog.Nop())
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/posts", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestSetupRouterBodyLimit(t *testing.T) {
	router := SetupRouter(testConfig(), testDeps(t), zerolog.Nop())
	gin.SetMode(gin.TestMode)

	big := strings.Repeat("a", 2<<20)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(`{"name":"x","email":"x@y.z","message":"`+big+`"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Contains(t, w.Body.String(), "UPL_002")
}

func TestSetupRouterServesSwaggerAndPing(t *testing.T) {
	router := SetupRouter(testConfig(), testDeps(t), zerolog.Nop())
	gin.SetMode(gin.TestMode)

	for _, path := range []string{"/ping", "/swagger/doc.json"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}
