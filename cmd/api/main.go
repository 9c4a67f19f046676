package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/HANSBIANDJI/bksmell/docs"

	"github.com/HANSBIANDJI/bksmell/db"
	"github.com/HANSBIANDJI/bksmell/internal/catalog"
	"github.com/HANSBIANDJI/bksmell/internal/config"
	"github.com/HANSBIANDJI/bksmell/internal/httpx"
	"github.com/HANSBIANDJI/bksmell/internal/order"
	"github.com/HANSBIANDJI/bksmell/internal/payment"
	"github.com/HANSBIANDJI/bksmell/internal/realtime"
	"github.com/HANSBIANDJI/bksmell/internal/user"
)

// @title        bksmell API
// @version      1.0
// @description  Perfume storefront backend: catalog, orders, payments, realtime notifications.
// @BasePath     /api
func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("APP_ENV") != "production" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	cfg := config.Load()

	if err := db.Migrate(cfg.DatabaseURL); err != nil {
		logger.Fatal().Err(err).Msg("migrations failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres connect failed")
	}
	defer pool.Close()

	hub := realtime.NewHub(logger)
	defer hub.Close()
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		hub.AttachRedis(ctx, rdb, "bksmell:events")
	}

	tokens := user.NewTokenIssuer(cfg.JWTSecret, 24*time.Hour)
	users := user.NewService(user.NewPGRepo(pool), tokens)
	orders := order.NewService(order.NewPGRepo(pool), hub)
	perfumes := catalog.NewPGRepo(pool)
	payments := payment.NewService(
		payment.NewPGRepo(pool),
		orders,
		payment.NewStripeClient(cfg.StripeAPIBase, cfg.StripeSecretKey),
		cfg.StripeWebhookSecret,
		logger,
	)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := newRouter(routerDeps{
		cfg:      cfg,
		log:      logger,
		pool:     pool,
		tokens:   tokens,
		users:    users,
		orders:   orders,
		catalog:  perfumes,
		payments: payments,
		hub:      hub,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("api listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

type routerDeps struct {
	cfg      config.Config
	log      zerolog.Logger
	pool     *pgxpool.Pool
	tokens   *user.TokenIssuer
	users    *user.Service
	orders   *order.Service
	catalog  catalog.Repository
	payments *payment.Service
	hub      *realtime.Hub
}

func newRouter(d routerDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), httpx.RequestID(), httpx.Logger(d.log), httpx.CORS(d.cfg.FrontendURL))

	r.GET("/health", healthHandler(d.pool))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	api.Use(httpx.OptionalAuth(d.tokens))

	api.POST("/auth/register", registerHandler(d.users))
	api.POST("/auth/login", loginHandler(d.users))
	api.GET("/auth/profile", httpx.RequireAuth(d.tokens), profileHandler(d.users, d.orders))

	api.POST("/orders", createOrderHandler(d.orders))
	api.GET("/orders", httpx.RequireAuth(d.tokens), httpx.RequireAdmin(), listOrdersHandler(d.orders))
	api.GET("/orders/:id", getOrderHandler(d.orders))
	api.PATCH("/orders/:id/status", httpx.RequireAuth(d.tokens), httpx.RequireAdmin(), updateOrderStatusHandler(d.orders))
	api.POST("/orders/:id/cancel", cancelOrderHandler(d.orders))

	api.POST("/payments/intent", createPaymentIntentHandler(d.payments))
	api.POST("/payments/webhook", paymentWebhookHandler(d.payments))
	api.GET("/payments/:id/status", paymentStatusHandler(d.payments))
	api.GET("/payments/methods", paymentMethodsHandler())

	api.GET("/perfumes", listPerfumesHandler(d.catalog))
	api.GET("/perfumes/:id", getPerfumeHandler(d.catalog))
	api.POST("/perfumes", httpx.RequireAuth(d.tokens), httpx.RequireAdmin(), createPerfumeHandler(d.catalog))
	api.PUT("/perfumes/:id", httpx.RequireAuth(d.tokens), httpx.RequireAdmin(), updatePerfumeHandler(d.catalog))
	api.DELETE("/perfumes/:id", httpx.RequireAuth(d.tokens), httpx.RequireAdmin(), deletePerfumeHandler(d.catalog))
	api.GET("/categories", listCategoriesHandler(d.catalog))
	api.POST("/categories", httpx.RequireAuth(d.tokens), httpx.RequireAdmin(), createCategoryHandler(d.catalog))

	api.GET("/realtime/events", realtimeEventsHandler(d.hub))
	api.POST("/realtime/countdown", httpx.RequireAuth(d.tokens), httpx.RequireAdmin(), countdownHandler(d.hub))

	return r
}

func healthHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"status":    "unhealthy",
				"database":  "disconnected",
				"timestamp": time.Now().UTC().Format(time.RFC3339),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"database":  "connected",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}
