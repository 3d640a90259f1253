package api

import (
	"net/http"
	"time"

	"codeprep/internal/api/handler"
	"codeprep/internal/app/service"
	"codeprep/internal/common/security"
	"codeprep/internal/domain/repository"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	authService *service.AuthService,
	problemService *service.ProblemService,
	gradingService *service.GradingService,
	attemptRepo repository.AttemptRepository,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(120 * time.Second))

	// Puts claims in the context when an "Authorization: Bearer T" token is
	// present; enforcement happens per route group.
	r.Use(jwtauth.Verifier(security.TokenAuth))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	r.Route("/api", func(api chi.Router) {
		authHandler := handler.NewAuthHandler(authService)
		api.Route("/auth", authHandler.RegisterRoutes)

		codingHandler := handler.NewCodingHandler(problemService, gradingService, attemptRepo)
		api.Route("/coding", codingHandler.RegisterRoutes)
	})

	return r
}
