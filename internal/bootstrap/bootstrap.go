package bootstrap

import (
	"cmp"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	appMigrations "github.com/yigit/cyberclub/internal/app/migrations"
	appRepos "github.com/yigit/cyberclub/internal/app/repositories"
	appRoutes "github.com/yigit/cyberclub/internal/app/routes"
	appServices "github.com/yigit/cyberclub/internal/app/services"
	"github.com/yigit/cyberclub/internal/config"
	"github.com/yigit/cyberclub/internal/db"
	appMiddleware "github.com/yigit/cyberclub/internal/middleware"
	pkgAuth "github.com/yigit/cyberclub/internal/pkg/auth"
	"github.com/yigit/cyberclub/internal/pkg/email"
	"github.com/yigit/cyberclub/internal/pkg/filestorage"
	"github.com/yigit/cyberclub/internal/pkg/logger"
	"github.com/yigit/cyberclub/internal/pkg/ratelimit"
	"github.com/yigit/cyberclub/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos       *appRepos.Repositories
	Services    *appServices.Services
	Handlers    *appRoutes.Handlers
	JWTService  *pkgAuth.JWTService
	FileStorage *filestorage.LocalStorage
	Acceptor    *filestorage.Acceptor
	Limiter     *ratelimit.IPRateLimiter
	Logger      zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	lgr := SetupLogger(cfg)
	return cfg, lgr, nil
}

// SetupLogger configures the global logger from cfg and returns it
func SetupLogger(cfg *config.Config) zerolog.Logger {
	logLevel := logger.ParseLevel(cfg.Logging.Level)
	prettyLog := strings.EqualFold(cfg.Logging.Format, "text")

	lgr := logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return lgr
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	applied, err := appMigrations.NewMigrator(database.Pool, lgr).Up(ctx)
	if err != nil {
		database.Close()
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Int("applied", applied).Msg("Database migrations successfully applied.")

	return database, nil
}

// BuildDependencies initializes repositories, services and handlers.
func BuildDependencies(ctx context.Context, cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}
	deps.Repos = appRepos.NewRepositories(database.Pool)

	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}
	deps.Acceptor = filestorage.NewAcceptor(deps.FileStorage)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: cmp.Or(cfg.JWT.AccessTokenExpiration, 7*24*time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	mailer := email.NewEmailService(SMTPConfig(cfg), logger.Component("email"))
	deps.Services = appServices.NewServices(deps.Repos, deps.JWTService, deps.Acceptor, mailer, lgr)

	if err := seed.CreateDefaultData(ctx, cfg, deps.Services.Auth, lgr); err != nil {
		// Startup continues; the admin can be created on the next boot.
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	deps.Limiter = ratelimit.NewIPRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	deps.Handlers = appRoutes.NewHandlers(deps.Services, deps.Acceptor, deps.JWTService, database.Pool, deps.Limiter, lgr)

	return deps, nil
}

// SMTPConfig maps the smtp config section onto the mailer settings
func SMTPConfig(cfg *config.Config) email.SMTPConfig {
	var notifyTo []string
	for _, addr := range strings.Split(cfg.SMTP.NotifyTo, ",") {
		if addr = strings.TrimSpace(addr); addr != "" {
			notifyTo = append(notifyTo, addr)
		}
	}
	return email.SMTPConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
		NotifyTo: notifyTo,
	}
}

// CORSConfig builds the gin-contrib/cors settings for the configured origins
func CORSConfig(cfg *config.Config) cors.Config {
	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", appMiddleware.HeaderRequestID},
		ExposeHeaders:    []string{appMiddleware.HeaderRequestID},
		MaxAge:           12 * time.Hour,
		AllowCredentials: false,
	}

	origins := cfg.AllowedOrigins()
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = origins
	}
	return corsCfg
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(
		appMiddleware.Recovery(),
		appMiddleware.RequestID(),
		appMiddleware.RequestLogger(logger.Component("http")),
		appMiddleware.SecurityHeaders(),
		cors.New(CORSConfig(cfg)),
		appMiddleware.BodyLimit(int64(cfg.Server.MaxBodyMB)<<20),
		appMiddleware.RequestTimeout(cmp.Or(cfg.Server.RequestTimeout, 15*time.Second)),
	)

	appRoutes.SetupSwagger(router, cfg.Server.PublicURL)
	appRoutes.SetupStatic(router, deps.FileStorage.BasePath())
	appRoutes.SetupRouter(router, deps.Handlers)

	return router
}
