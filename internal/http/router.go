// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// CORS, security headers, per-route authorization, idempotency, and rate
// limiting.
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	_ "github.com/swadrive/swadrive-backend/docs"
	"github.com/swadrive/swadrive-backend/internal/auth"
	"github.com/swadrive/swadrive-backend/internal/config"
	"github.com/swadrive/swadrive-backend/internal/http/handlers"
	"github.com/swadrive/swadrive-backend/internal/http/middleware"
	"github.com/swadrive/swadrive-backend/internal/services"
)

// Banner is the plain-text body of GET /.
const Banner = "SwaDrive Backend is running"

// Idempotency scopes. Task creation is keyed per user; chat messages per
// user and chat.
const (
	scopeCreateTask = "tasks.create"
)

func chatMessagesScope(c *gin.Context) string { return "chats/" + c.Param("id") + "/messages" }
func createTaskScope(*gin.Context) string     { return scopeCreateTask }

// route is one API endpoint with its access requirement.
type route struct {
	method  string
	path    string
	access  auth.Access
	handler gin.HandlerFunc
	// idemScope enables Idempotency-Key handling when non-nil.
	idemScope func(*gin.Context) string
}

// apiRoutes is the full API surface mounted under the base path.
func apiRoutes(h *handlers.Handlers) []route {
	return []route{
		// Accounts
		{method: http.MethodPost, path: "/register", access: auth.Public, handler: h.Register},
		{method: http.MethodPost, path: "/login", access: auth.Public, handler: h.Login},

		// Customer tasks
		{method: http.MethodPost, path: "/tasks", access: auth.CustomerOnly, handler: h.CreateTask, idemScope: createTaskScope},
		{method: http.MethodGet, path: "/tasks/:id", access: auth.CustomerOnly, handler: h.GetTask},
		{method: http.MethodPut, path: "/tasks/:id", access: auth.CustomerOnly, handler: h.UpdateTask},
		{method: http.MethodDelete, path: "/tasks/:id", access: auth.CustomerOnly, handler: h.DeleteTask},
		{method: http.MethodGet, path: "/my-tasks", access: auth.CustomerOnly, handler: h.MyTasks},
		{method: http.MethodGet, path: "/my-completed-tasks", access: auth.CustomerOnly, handler: h.MyCompletedTasks},

		// Helpers
		{method: http.MethodGet, path: "/open-tasks", access: auth.HelperOnly, handler: h.OpenTasks},
		{method: http.MethodGet, path: "/helper/tasks/:id", access: auth.HelperOnly, handler: h.HelperTask},
		{method: http.MethodPost, path: "/tasks/:id/accept", access: auth.HelperOnly, handler: h.AcceptTask},
		{method: http.MethodGet, path: "/my-assigned-tasks", access: auth.HelperOnly, handler: h.MyAssignedTasks},
		{method: http.MethodPost, path: "/tasks/:id/complete", access: auth.HelperOnly, handler: h.CompleteTask},

		// Reviews and notifications
		{method: http.MethodPost, path: "/tasks/:id/review", access: auth.CustomerOnly, handler: h.ReviewTask},
		{method: http.MethodGet, path: "/notifications", access: auth.CustomerOnly, handler: h.ListNotifications},
		{method: http.MethodPut, path: "/notifications/:id/read", access: auth.CustomerOnly, handler: h.MarkNotificationRead},

		// Chats
		{method: http.MethodPost, path: "/chats/start", access: auth.Authenticated, handler: h.StartChat},
		{method: http.MethodGet, path: "/chats", access: auth.Authenticated, handler: h.ListChats},
		{method: http.MethodGet, path: "/chats/:id/messages", access: auth.Authenticated, handler: h.ListMessages},
		{method: http.MethodPost, path: "/chats/:id/messages", access: auth.Authenticated, handler: h.SendMessage, idemScope: chatMessagesScope},
	}
}

// Services bundles the application services behind the API.
type Services struct {
	Guard         *auth.Guard
	Accounts      *services.AccountService
	Tasks         *services.TaskService
	Assignments   *services.AssignmentService
	Reviews       *services.ReviewService
	Notifications *services.NotificationService
	Chats         *services.ChatService
	Idempotency   *services.IdempotencyService
}

// NewServices builds the service graph over db.
func NewServices(db *gorm.DB, cfg config.Config) *Services {
	notif := services.NewNotificationService(db)
	iss := auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	return &Services{
		Guard:         auth.NewGuard(iss),
		Accounts:      services.NewAccountService(db, iss, cfg.Auth.BcryptCost),
		Tasks:         services.NewTaskService(db),
		Assignments:   services.NewAssignmentService(db, notif),
		Reviews:       services.NewReviewService(db, notif),
		Notifications: notif,
		Chats:         services.NewChatService(db, notif),
		Idempotency:   services.NewIdempotencyService(db, cfg.IdempotencyTTL),
	}
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine and mounts the API under cfg.APIBasePath.
//
// Global middleware order:
//  1. OpenTelemetry
//  2. RequestID
//  3. access log (redacting unless LOG_REDACT=false)
//  4. Recovery
//  5. body size limit
//  6. Metrics
//  7. gzip (optional)
//  8. CORS and security headers
//
// Each API route then runs Authorize, the idempotency validator (creating
// routes only) and the rate limiter, in that order, so limits apply per
// identity and replays bypass them.
func RegisterRoutes(r *gin.Engine, svc *Services, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))
	r.Use(middleware.RequestID())
	if cfg.LogRedact {
		r.Use(middleware.RedactingLogger(middleware.RedactOptions{}))
	} else {
		r.Use(middleware.Logger())
	}
	r.Use(middleware.Recovery())
	r.Use(limitBody(cfg.MaxBodyBytes))
	r.Use(middleware.Metrics())
	if cfg.GzipEnabled {
		r.Use(gzip.Gzip(gzip.DefaultCompression))
	}
	r.Use(corsMiddleware(cfg.CORS))
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		EnablePolicy: true,
	}))

	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, Banner) })
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	h := handlers.New(handlers.Deps{
		Accounts:      svc.Accounts,
		Tasks:         svc.Tasks,
		Assignments:   svc.Assignments,
		Reviews:       svc.Reviews,
		Notifications: svc.Notifications,
		Chats:         svc.Chats,
		Idempotency:   svc.Idempotency,
	})
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP())

	api := groupWithPrefix(r, cfg.APIBasePath)
	for _, rt := range apiRoutes(h) {
		chain := []gin.HandlerFunc{middleware.Authorize(svc.Guard, rt.access)}
		if rt.idemScope != nil {
			chain = append(chain, middleware.IdempotencyValidator(
				middleware.IdempotencyOptions{MaxLen: 200, Scope: rt.idemScope},
				svc.Idempotency.Lookup,
			))
		}
		chain = append(chain, rl.Handler(), rt.handler)
		api.Handle(rt.method, rt.path, chain...)
	}
}

// corsMiddleware allows the configured origins, or any origin without
// credentials when the list is empty.
func corsMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	cc := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "If-None-Match", middleware.HeaderIdempotencyKey},
		ExposeHeaders: []string{"X-Request-ID", "ETag", middleware.HeaderIdempotencyReplayed, "Retry-After"},
		MaxAge:        12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 0 {
		cc.AllowAllOrigins = true
	} else {
		cc.AllowOrigins = cfg.AllowedOrigins
	}
	return cors.New(cc)
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
