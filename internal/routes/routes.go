package routes

import (
	"net/http"

	"github.com/GuoYangtuo/potato-timer/internal/app"
	"github.com/GuoYangtuo/potato-timer/internal/handler"
	"github.com/GuoYangtuo/potato-timer/internal/middleware"
)

func SetupRoutes(a *app.App) http.Handler {
	// Handlers
	auth := handler.NewAuthHandler(a.AuthService)
	goal := handler.NewGoalHandler(a.GoalService, a.CompletionService)
	motivation := handler.NewMotivationHandler(a.MotivationService, a.EngagementService)
	tag := handler.NewTagHandler(a.TagService)
	upload := handler.NewUploadHandler(a.UploadService, a.Cfg.UploadMaxBytes)
	version := handler.NewVersionHandler(a.Cfg)

	required := middleware.RequireAuth(a.AuthService)
	optional := middleware.OptionalAuth(a.AuthService)
	loginLimiter := middleware.RateLimitLogin()

	mux := http.NewServeMux()

	// Health + version
	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"message":"ok"}`))
	})
	mux.HandleFunc("GET /api/version/check", version.Check)

	// Auth
	mux.HandleFunc("POST /api/auth/login", loginLimiter(auth.Login))
	mux.HandleFunc("GET /api/auth/profile", required(auth.Profile))
	mux.HandleFunc("PUT /api/auth/profile", required(auth.UpdateProfile))

	// Goals
	mux.HandleFunc("POST /api/goals", required(goal.Create))
	mux.HandleFunc("GET /api/goals", required(goal.List))
	mux.HandleFunc("GET /api/goals/public", goal.Public)
	mux.HandleFunc("GET /api/goals/{id}", required(goal.Detail))
	mux.HandleFunc("PUT /api/goals/{id}", required(goal.Update))
	mux.HandleFunc("DELETE /api/goals/{id}", required(goal.Delete))
	mux.HandleFunc("POST /api/goals/{id}/complete", required(goal.Complete))
	mux.HandleFunc("GET /api/goals/{id}/completions", required(goal.Completions))
	mux.HandleFunc("GET /api/goals/{id}/session", required(goal.Session))

	// Motivations
	mux.HandleFunc("POST /api/motivations", required(motivation.Create))
	mux.HandleFunc("GET /api/motivations/public", optional(motivation.Public))
	mux.HandleFunc("GET /api/motivations/my", required(motivation.Mine))
	mux.HandleFunc("GET /api/motivations/favorites", required(motivation.Favorites))
	mux.HandleFunc("GET /api/motivations/{id}", optional(motivation.Detail))
	mux.HandleFunc("PUT /api/motivations/{id}", required(motivation.Update))
	mux.HandleFunc("DELETE /api/motivations/{id}", required(motivation.Delete))
	mux.HandleFunc("POST /api/motivations/{id}/like", required(motivation.Like))
	mux.HandleFunc("DELETE /api/motivations/{id}/like", required(motivation.Unlike))
	mux.HandleFunc("POST /api/motivations/{id}/favorite", required(motivation.Favorite))
	mux.HandleFunc("DELETE /api/motivations/{id}/favorite", required(motivation.Unfavorite))

	// Tags
	mux.HandleFunc("GET /api/tags", optional(tag.List))
	mux.HandleFunc("GET /api/tags/popular", tag.Popular)

	// Upload
	mux.HandleFunc("POST /api/upload", required(upload.Upload))
	mux.HandleFunc("POST /api/upload/files", required(upload.UploadMany))

	return middleware.Chain(mux,
		middleware.Recover,
		middleware.RequestLogging,
	)
}
