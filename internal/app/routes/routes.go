package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/cyberclub/internal/app/controllers"
	"github.com/yigit/cyberclub/internal/app/services"
	"github.com/yigit/cyberclub/internal/middleware"
	"github.com/yigit/cyberclub/internal/pkg/filestorage"
	"github.com/yigit/cyberclub/internal/pkg/ratelimit"
)

// Handlers bundles the controllers and middleware the router mounts
type Handlers struct {
	Auth    *controllers.AuthController
	Posts   *controllers.PostController
	Events  *controllers.EventController
	Members *controllers.MemberController
	Classes *controllers.ClassController
	CTFs    *controllers.CTFController
	Contact *controllers.ContactController
	Health  *controllers.HealthController

	AuthMiddleware *middleware.AuthMiddleware
	// Limiter throttles login, register and contact submission. nil disables
	// throttling.
	Limiter *ratelimit.IPRateLimiter
}

type uploadCategorizer interface {
	UploadCategory() (filestorage.Category, bool)
}

// uploadField returns the multipart field svc reads its file from
func uploadField(acceptor *filestorage.Acceptor, svc uploadCategorizer) string {
	category, ok := svc.UploadCategory()
	if !ok {
		return ""
	}
	policy, ok := acceptor.Policy(category)
	if !ok {
		return ""
	}
	return policy.Field
}

// NewHandlers builds every controller on top of svcs
func NewHandlers(
	svcs *services.Services,
	acceptor *filestorage.Acceptor,
	verifier middleware.TokenVerifier,
	db controllers.Pinger,
	limiter *ratelimit.IPRateLimiter,
	logger zerolog.Logger,
) *Handlers {
	return &Handlers{
		Auth:           controllers.NewAuthController(svcs.Auth, logger),
		Posts:          controllers.NewPostController(svcs.Posts, uploadField(acceptor, svcs.Posts), logger),
		Events:         controllers.NewEventController(svcs.Events, uploadField(acceptor, svcs.Events), logger),
		Members:        controllers.NewMemberController(svcs.Members, uploadField(acceptor, svcs.Members), logger),
		Classes:        controllers.NewClassController(svcs.Classes, uploadField(acceptor, svcs.Classes), logger),
		CTFs:           controllers.NewCTFController(svcs.CTFs, uploadField(acceptor, svcs.CTFs), logger),
		Contact:        controllers.NewContactController(svcs.Contact, logger),
		Health:         controllers.NewHealthController(db),
		AuthMiddleware: middleware.NewAuthMiddleware(verifier),
		Limiter:        limiter,
	}
}

// crudHandlers is the handler set every content resource exposes
type crudHandlers interface {
	List(c *gin.Context)
	Get(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

// mountContent registers public reads and admin writes for one resource
func mountContent(group *gin.RouterGroup, h crudHandlers, admin []gin.HandlerFunc) {
	group.GET("", h.List)
	group.GET("/:id", h.Get)

	protected := group.Group("", admin...)
	{
		protected.POST("", h.Create)
		protected.PUT("/:id", h.Update)
		protected.DELETE("/:id", h.Delete)
	}
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, h *Handlers) {
	throttle := func(handlers ...gin.HandlerFunc) []gin.HandlerFunc {
		if h.Limiter == nil {
			return handlers
		}
		return append([]gin.HandlerFunc{middleware.RateLimit(h.Limiter)}, handlers...)
	}
	admin := h.AuthMiddleware.AdminOnly()

	router.GET("/ping", h.Health.Ping)

	api := router.Group("/api")
	api.GET("/health", h.Health.Health)

	// --- Auth routes ---
	auth := api.Group("/auth")
	{
		auth.POST("/register", throttle(h.Auth.Register)...)
		auth.POST("/login", throttle(h.Auth.Login)...)
		auth.GET("/me", h.AuthMiddleware.JWTAuth(), h.Auth.Me)

		users := auth.Group("/users", admin...)
		{
			users.GET("", h.Auth.ListUsers)
			users.PUT("/:id/role", h.Auth.SetRole)
			users.DELETE("/:id", h.Auth.DeleteUser)
		}
	}

	// --- Content routes: public reads, admin writes ---
	posts := api.Group("/posts")
	mountContent(posts, h.Posts, admin)
	posts.POST("/:id/like", h.AuthMiddleware.JWTAuth(), h.Posts.Like)

	mountContent(api.Group("/events"), h.Events, admin)
	mountContent(api.Group("/members"), h.Members, admin)
	mountContent(api.Group("/classes"), h.Classes, admin)
	mountContent(api.Group("/ctfs"), h.CTFs, admin)

	// --- Contact: public submission, admin inbox ---
	contact := api.Group("/contact")
	{
		contact.POST("", throttle(h.Contact.Submit)...)

		inbox := contact.Group("", admin...)
		{
			inbox.GET("", h.Contact.List)
			inbox.GET("/:id", h.Contact.Get)
			inbox.PUT("/:id/status", h.Contact.UpdateStatus)
			inbox.DELETE("/:id", h.Contact.Delete)
		}
	}
}

// SetupStatic serves stored uploads read-only under /uploads
func SetupStatic(router *gin.Engine, dir string) {
	router.Static(filestorage.URLPrefix, dir)
}
