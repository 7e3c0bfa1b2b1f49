package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"catalog-api/internal/config"
	"catalog-api/internal/database"
	custommiddleware "catalog-api/internal/middleware"
	"catalog-api/internal/pagination"
	"catalog-api/internal/repository"
	"catalog-api/internal/response"
	"catalog-api/internal/service"
	"catalog-api/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     database.Service
	redis  *redis.Client
}

func NewServer(cfg *config.Config, logger *zap.Logger, db database.Service) (*Server, error) {
	s := &Server{
		config: cfg,
		logger: logger,
		db:     db,
	}

	if cfg.RateLimit.Enabled {
		s.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := s.redis.Ping(ctx).Err(); err != nil {
			// the limiter fails open, so a missing redis only costs throttling
			logger.Warn("Redis unreachable, rate limiting will let requests through",
				zap.String("addr", cfg.Redis.Addr()),
				zap.Error(err),
			)
		}
	}

	s.Server = &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           s.routes(),
		IdleTimeout:       time.Minute,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	return s, nil
}

func (s *Server) routes() http.Handler {
	cfg := s.config
	logger := s.logger

	router := chi.NewRouter()
	router.NotFound(transport.NotFound)
	router.MethodNotAllowed(transport.MethodNotAllowed)

	router.Use(custommiddleware.DefaultMiddlewareStack(logger)...)
	router.Use(custommiddleware.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.IsDevelopment()))
	if s.redis != nil {
		router.Use(custommiddleware.RateLimitMiddleware(s.redis, custommiddleware.RateLimitConfig{
			RequestsPerWindow: cfg.RateLimit.Requests,
			Window:            cfg.RateLimit.Window,
			KeyPrefix:         "catalog:ratelimit",
		}, logger))
	}
	router.Use(custommiddleware.RequireJSON(logger))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	router.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		health := s.db.Health()
		status := http.StatusOK
		if health["status"] != "up" {
			status = http.StatusServiceUnavailable
		}
		response.JSON(w, status, health)
	})

	// Initialize repositories
	repos := repository.NewRepositories(s.db.DB())
	txRunner := repository.NewTxRunner(s.db.DB())

	// Initialize services
	categoryService := service.NewCategoryService(repos.Categories, txRunner)
	productService := service.NewProductService(repos.Products, repos.Discounts, txRunner)
	discountService := service.NewDiscountService(txRunner)

	pages := pagination.Config{
		DefaultPageSize: cfg.Pagination.DefaultPageSize,
		MaxPageSize:     cfg.Pagination.MaxPageSize,
	}

	// Initialize handlers
	categoryHandler := transport.NewCategoryHandler(categoryService, logger)
	productHandler := transport.NewProductHandler(productService, pages, logger)
	discountHandler := transport.NewDiscountHandler(discountService, logger)

	authMiddleware := custommiddleware.AuthMiddleware(cfg.JWT.Secret, logger)
	requireAdmin := custommiddleware.RequireAdmin(logger)
	admin := func(next http.Handler) http.Handler {
		return authMiddleware(requireAdmin(next))
	}

	router.Route("/api", func(r chi.Router) {
		categoryHandler.RegisterRoutes(r, admin)
		productHandler.RegisterRoutes(r, admin)
		discountHandler.RegisterRoutes(r)
	})

	return router
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis client", zap.Error(err))
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	_ = s.logger.Sync()
	return nil
}
