package router

import (
	"net/http"

	"sweetshop/internal/config"
	"sweetshop/internal/handlers"
	"sweetshop/internal/middleware"
	"sweetshop/internal/services"
	"sweetshop/internal/storage"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

func SetupRouter(sweets storage.SweetStore, users storage.UserStore, cfg config.Config, logger zerolog.Logger) *mux.Router {
	jwtSecret := cfg.JWTSecret
	if jwtSecret == "" {
		jwtSecret = "default-secret-key-change-in-production"
		logger.Warn().Msg("JWT_SECRET not set, using default key")
	}

	sweetService := services.NewSweetService(sweets, logger)
	userService := services.NewUserService(users, logger)
	authService := services.NewAuthService(jwtSecret, logger)

	authHandler := handlers.NewAuthHandler(userService, authService, logger)
	sweetHandler := handlers.NewSweetHandler(sweetService, logger)

	r := mux.NewRouter()

	rateLimiter := middleware.NewRateLimiter(rate.Limit(10), 20)

	r.Use(middleware.ErrorHandling(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS())
	r.Use(rateLimiter.Middleware())

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"OK","message":"Sweet Shop API is running"}`))
	}).Methods("GET")

	auth := api.PathPrefix("/auth").Subrouter()
	auth.Use(middleware.RequestValidation())
	auth.HandleFunc("/register", authHandler.Register).Methods("POST")
	auth.HandleFunc("/login", authHandler.Login).Methods("POST")

	// The literal /search path is registered before /{id} so it wins.
	sweetRoutes := api.PathPrefix("/sweets").Subrouter()
	sweetRoutes.Use(middleware.Authentication(authService, logger))
	sweetRoutes.HandleFunc("", sweetHandler.GetSweets).Methods("GET")
	sweetRoutes.HandleFunc("/search", sweetHandler.SearchSweets).Methods("GET")
	sweetRoutes.HandleFunc("/{id}", sweetHandler.GetSweet).Methods("GET")
	sweetRoutes.HandleFunc("/{id}/purchase", sweetHandler.PurchaseSweet).Methods("POST")

	admin := sweetRoutes.PathPrefix("").Subrouter()
	admin.Use(middleware.RequireAdmin())
	admin.Use(middleware.RequestValidation())
	admin.HandleFunc("", sweetHandler.CreateSweet).Methods("POST")
	admin.HandleFunc("/{id}", sweetHandler.UpdateSweet).Methods("PUT")
	admin.HandleFunc("/{id}", sweetHandler.DeleteSweet).Methods("DELETE")
	admin.HandleFunc("/{id}/restock", sweetHandler.RestockSweet).Methods("POST")

	return r
}
