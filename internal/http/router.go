package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/inventrackpro/inventrack/internal/config"
	"github.com/inventrackpro/inventrack/internal/http/handlers"
	"github.com/inventrackpro/inventrack/internal/http/middlewares"
	"github.com/inventrackpro/inventrack/internal/observability"
	"github.com/inventrackpro/inventrack/internal/session"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// UsersStore is everything the API needs from user storage; both the
// postgres repo and the in-memory test repo satisfy it.
type UsersStore interface {
	handlers.UserReader
	handlers.UserWriter
	handlers.ProfileStore
}

// Deps carries the storage and observability collaborators so tests can
// swap in in-memory implementations.
type Deps struct {
	Users    UsersStore
	Products handlers.ProductsStore
	Sessions session.Store
	Prom     *observability.Prom
	Metrics  http.Handler
	Ping     func() error
}

func NewRouter(log *slog.Logger, cfg config.Config, deps Deps) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// middleware

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(otelgin.Middleware("inventrack-api"))
	r.Use(middlewares.RequestLogger(log))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(middlewares.MaxBodyBytes(1 << 20))
	r.Use(middlewares.RequireJSON())

	if deps.Prom != nil {
		r.Use(deps.Prom.GinHandleMiddleware())
	}

	// health + metrics

	h := handlers.NewHealthHandler(deps.Ping)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	if deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(deps.Metrics))
	}

	// wire up handlers

	authHandler := handlers.NewAuthHandler(deps.Users, deps.Users, deps.Sessions, cfg, deps.Prom)
	profileHandler := handlers.NewProfileHandler(deps.Users)
	productsHandler := handlers.NewProductsHandler(deps.Products)

	authMw := middlewares.NewAuthMiddleware(deps.Sessions, deps.Users, cfg.SessionTTL)

	// credential endpoints get a tight per-IP window
	loginLimiter := middlewares.NewRateLimiter(10, time.Minute)
	apiLimiter := middlewares.NewRateLimiter(120, time.Minute)

	api := r.Group("/api")

	api.POST("/register", loginLimiter.RateLimiterMiddleware(middlewares.KeyByIP), authHandler.Register)
	api.POST("/login", loginLimiter.RateLimiterMiddleware(middlewares.KeyByIP), authHandler.Login)
	api.POST("/logout", apiLimiter.RateLimiterMiddleware(middlewares.KeyByIP), authHandler.Logout)

	// the user-or-IP limiter must run after RequireAuth so the user id is
	// already resolved; otherwise it only ever sees the IP
	authed := api.Group("")
	authed.Use(authMw.RequireAuth())
	authed.Use(apiLimiter.RateLimiterMiddleware(middlewares.KeyByUserOrIP))

	authed.GET("/user", authHandler.CurrentUser)
	authed.PATCH("/profile", profileHandler.UpdateProfile)
	authed.PATCH("/password", profileHandler.UpdatePassword)

	authed.POST("/products", productsHandler.CreateProduct)
	authed.GET("/products", productsHandler.ListProducts)
	authed.GET("/products/:id", productsHandler.GetProductById)
	authed.PATCH("/products/:id", productsHandler.UpdateProduct)
	authed.DELETE("/products/:id", productsHandler.DeleteProduct)

	return r
}
