package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"coqueta/internal/config"
	"coqueta/internal/media"
	"coqueta/internal/messaging"
	custommiddleware "coqueta/internal/middleware"
	"coqueta/internal/service"
	"coqueta/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	store  *Store
	redis  *redis.Client
}

// NewServer wires services and handlers over the injected clients
func NewServer(cfg *config.Config, logger *zap.Logger, store *Store, redisClient *redis.Client, host media.MediaHost) *Server {
	router := chi.NewRouter()

	router.Use(custommiddleware.DefaultMiddlewareStack()...)
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(cfg.Server.AllowedOrigins, !cfg.IsProduction()))

	s := &Server{
		config: cfg,
		logger: logger,
		store:  store,
		redis:  redisClient,
	}

	router.Get("/health", s.health)

	// Initialize services
	builder := service.NewCartBuilder(store.Products)
	composer := messaging.NewComposer(cfg.Messaging.Phone, cfg.Messaging.BaseURL)
	checkoutService := service.NewCheckoutService(builder, composer)
	catalogService := service.NewCatalogService(store.Products, store.Categories, store.Subcategories)
	productService := service.NewProductService(store.Products, logger)
	categoryService := service.NewCategoryService(store.Categories, logger)
	saleService := service.NewSaleService(store.Sales, store.Products, store.Tx, logger)
	authService := service.NewAuthService(cfg.Admin, cfg.JWT)

	// Initialize handlers
	catalogHandler := transport.NewCatalogHandler(catalogService, checkoutService, logger)
	checkoutHandler := transport.NewCheckoutHandler(checkoutService, logger)
	uploadHandler := transport.NewUploadHandler(media.NewRelay(host, cfg.Cloudinary.Folder, logger), logger)
	adminHandler := transport.NewAdminHandler(productService, categoryService, logger)
	saleHandler := transport.NewSaleHandler(builder, saleService, logger)
	authHandler := transport.NewAuthHandler(authService, logger)

	requireAdmin := []func(http.Handler) http.Handler{
		custommiddleware.AuthMiddleware(cfg.JWT.Secret, logger),
		custommiddleware.RequireAdmin(logger),
	}

	// Register routes
	catalogHandler.RegisterRoutes(router)
	checkoutHandler.RegisterRoutes(router, s.rateLimit("checkout"))
	uploadHandler.RegisterRoutes(router, append(requireAdmin,
		s.rateLimit("upload"),
		middleware.RequestSize(cfg.Server.MaxUploadBytes),
	)...)

	router.Route("/api/admin", func(r chi.Router) {
		r.With(s.rateLimit("login")).Post("/login", authHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(requireAdmin...)
			adminHandler.RegisterRoutes(r)
			saleHandler.RegisterRoutes(r)
		})
	})

	s.Server = &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}
	return s
}

// rateLimit limits one route family per client
func (s *Server) rateLimit(route string) func(http.Handler) http.Handler {
	if s.redis == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return custommiddleware.RateLimitMiddleware(s.redis, custommiddleware.RateLimitConfig{
		RequestsPerWindow: s.config.RateLimit.Requests,
		Window:            s.config.RateLimit.Window,
		KeyPrefix:         "ratelimit:" + route,
	}, s.logger)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	store := s.store.Health(r.Context())

	status := http.StatusOK
	if store["status"] != "up" {
		status = http.StatusServiceUnavailable
	}

	body := map[string]interface{}{"status": "ok", "store": store}
	if status != http.StatusOK {
		body["status"] = "degraded"
	}
	if s.redis != nil {
		if err := s.redis.Ping(r.Context()).Err(); err != nil {
			body["redis"] = "down"
		} else {
			body["redis"] = "up"
		}
	}
	custommiddleware.RespondWithJSON(w, status, body)
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if s.store != nil {
		if err := s.store.Close(ctx); err != nil {
			s.logger.Error("Failed to close store", zap.Error(err))
		}
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis client", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
