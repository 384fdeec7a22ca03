package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/KirillBaranov27/universal-tourist-guide-app-api/internal/application"
	"github.com/KirillBaranov27/universal-tourist-guide-app-api/internal/domain"
	"github.com/KirillBaranov27/universal-tourist-guide-app-api/internal/logging"
	"github.com/KirillBaranov27/universal-tourist-guide-app-api/internal/middleware"
)

type contextKey string

const userKey contextKey = "user"

type Options struct {
	ProjectName        string
	Version            string
	APIPrefix          string
	CORSAllowedOrigins []string
	// RateLimitRequests per RateLimitWindow and client IP; zero disables it.
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

type Handler struct {
	service *application.Service
	opts    Options
}

func NewRouter(service *application.Service, opts Options) http.Handler {
	if opts.APIPrefix == "" {
		opts.APIPrefix = "/api/v1"
	}
	if len(opts.CORSAllowedOrigins) == 0 {
		opts.CORSAllowedOrigins = []string{"*"}
	}
	h := &Handler{service: service, opts: opts}

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.AccessLog)
	r.Use(middleware.PrometheusMetrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	if opts.RateLimitRequests > 0 {
		r.Use(httprate.LimitByIP(opts.RateLimitRequests, opts.RateLimitWindow))
	}

	r.Get("/", h.handleRoot)
	r.Get("/health", h.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route(opts.APIPrefix, func(api chi.Router) {
		api.Post("/auth/register", h.handleRegister)
		api.Post("/auth/login", h.handleLogin)
		api.With(h.requireAuth).Get("/auth/me", h.handleMe)

		api.Get("/landmarks", h.handleListLandmarks)
		api.Get("/landmarks/nearby", h.handleNearbyLandmarks)
		api.Get("/landmarks/filters/cities", h.handleListCities)
		api.Get("/landmarks/filters/categories", h.handleListCategories)
		api.Get("/filters/all", h.handleFilterOptions)
		api.Get("/landmarks/{id}", h.handleGetLandmark)
		api.With(h.requireAuth).Post("/landmarks", h.handleCreateLandmark)
		api.With(h.requireAuth).Put("/landmarks/{id}", h.handleUpdateLandmark)
		api.With(h.requireAuth).Delete("/landmarks/{id}", h.handleDeleteLandmark)

		api.Group(func(auth chi.Router) {
			auth.Use(h.requireAuth)
			auth.Get("/favorites", h.handleListFavorites)
			auth.Post("/favorites", h.handleAddFavorite)
			auth.Delete("/favorites/{landmark_id}", h.handleRemoveFavorite)
			auth.Get("/favorites/check/{landmark_id}", h.handleCheckFavorite)
		})

		api.Get("/reviews/landmark/{id}", h.handleListLandmarkReviews)
		api.Get("/reviews/landmark/{id}/summary", h.handleReviewSummary)
		api.With(h.requireAuth).Get("/reviews/user", h.handleListUserReviews)
		api.With(h.requireAuth).Post("/reviews", h.handleSaveReview)
		api.With(h.requireAuth).Put("/reviews/{landmark_id}", h.handleUpdateReview)
		api.With(h.requireAuth).Delete("/reviews/{landmark_id}", h.handleDeleteReview)

		api.Get("/discussions", h.handleListDiscussions)
		api.Get("/discussions/{id}", h.handleGetDiscussion)
		api.Get("/discussions/{id}/answers", h.handleListAnswers)
		api.With(h.requireAuth).Post("/discussions", h.handleCreateDiscussion)
		api.With(h.requireAuth).Put("/discussions/{id}", h.handleUpdateDiscussion)
		api.With(h.requireAuth).Delete("/discussions/{id}", h.handleDeleteDiscussion)
		api.With(h.requireAuth).Post("/discussions/{id}/answers", h.handleCreateAnswer)
		api.With(h.requireAuth).Put("/discussions/answers/{id}", h.handleUpdateAnswer)
		api.With(h.requireAuth).Delete("/discussions/answers/{id}", h.handleDeleteAnswer)
		api.With(h.requireAuth).Post("/discussions/answers/{id}/vote", h.handleVoteAnswer)

		api.Get("/cities/profile/{city}", h.handleCityProfile)
		api.Get("/cities/stats/{city}", h.handleCityStats)
		api.Get("/cities/popular", h.handlePopularCities)
		api.Get("/cities/{city}/landmarks/filtered", h.handleCityLandmarks)
		api.Get("/cities/{city}/categories", h.handleCityCategories)
		api.Get("/cities/{city}/discussions", h.handleCityDiscussions)
		api.Post("/cities/{city}/landmarks/search", h.handleSearchCityLandmarks)

		api.With(h.requireAuth).Get("/profile", h.handleGetProfile)
		api.With(h.requireAuth).Put("/profile", h.handleUpdateProfile)
		api.With(h.requireAuth).Delete("/profile", h.handleDeleteProfile)
		api.With(h.requireAuth).Get("/profile/stats", h.handleProfileStats)
		api.Get("/users/{id}/profile", h.handlePublicProfile)
		api.Get("/users/{id}/stats", h.handlePublicStats)

		api.Group(func(auth chi.Router) {
			auth.Use(h.requireAuth)
			auth.Get("/notifications", h.handleListNotifications)
			auth.Get("/notifications/stats", h.handleNotificationStats)
			auth.Post("/notifications/mark-read", h.handleMarkRead)
			auth.Post("/notifications/archive", h.handleArchiveNotifications)
			auth.Post("/notifications/test", h.handleTestNotification)
			auth.Delete("/notifications/cleanup/read", h.handleCleanupRead)
			auth.Post("/notifications/{id}/read", h.handleMarkOneRead)
			auth.Delete("/notifications/{id}", h.handleDeleteNotification)
		})
	})

	return r
}

func (h *Handler) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": h.opts.ProjectName,
		"status":  "running",
		"version": h.opts.Version,
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "healthy"})
}

// requireAuth resolves the bearer token to a user and rejects the request
// with 401 when there is none.
func (h *Handler) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			w.Header().Set("WWW-Authenticate", "Bearer")
			writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "Not authenticated"})
			return
		}
		u, err := h.service.Authenticate(r.Context(), token)
		if err != nil {
			w.Header().Set("WWW-Authenticate", "Bearer")
			h.writeError(w, r, err)
			return
		}
		ctx := context.WithValue(r.Context(), userKey, u)
		ctx = logging.ContextWithUserID(ctx, u.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
		return "", false
	}
	token := strings.TrimSpace(authHeader[7:])
	return token, token != ""
}

// currentUser is only valid behind requireAuth.
func currentUser(ctx context.Context) domain.User {
	u, _ := ctx.Value(userKey).(domain.User)
	return u
}
