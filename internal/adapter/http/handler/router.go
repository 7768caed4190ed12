package handler

import (
	"passimpay-gateway/config"
	"passimpay-gateway/internal/adapter/http/middleware"
	redisStore "passimpay-gateway/internal/adapter/storage/redis"
	"passimpay-gateway/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	CheckoutSvc    ports.CheckoutService
	CallbackSvc    ports.CallbackService
	AuthSvc        ports.AuthService
	TokenSvc       ports.TokenService
	OrderRepo      ports.OrderRepository
	Ledger         ports.TransactionLedger
	ReturnCfg      config.ReturnConfig
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 16)) // 64 KB: payloads here are tiny

	// Health check (deep — verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// Rate limit rules
	rules := middleware.DefaultRateLimitRules()

	// Helper: return rate limiter middleware if store is available, else noop.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	// --- Payment routes (public: buyer browser + processor callbacks) ---
	checkoutHandler := NewCheckoutHandler(deps.CheckoutSvc)
	callbackHandler := NewCallbackHandler(deps.CallbackSvc, deps.ReturnCfg)
	payments := r.Group("/payments")
	{
		payments.GET("/checkout/:order_id", rl("checkout"), checkoutHandler.Checkout)
		payments.GET("/callback/passimpay", rl("callback"), callbackHandler.Callback)
		payments.POST("/callback/passimpay", rl("callback"), callbackHandler.Callback)
	}

	// API v1 routes
	v1 := r.Group("/api/v1")

	// --- Public routes (no auth) ---
	authHandler := NewAuthHandler(deps.AuthSvc)
	auth := v1.Group("/auth")
	{
		auth.POST("/login", rl("auth_login"), authHandler.Login)
	}

	// --- JWT-authenticated routes (ops API) ---
	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)
	opsHandler := NewOpsHandler(deps.OrderRepo, deps.Ledger)
	ops := v1.Group("/ops", jwtAuth)
	{
		ops.GET("/orders/:id", rl("ops"), opsHandler.GetOrder)
		ops.GET("/transactions", rl("ops"), opsHandler.ListTransactions)
	}

	return r
}
