package rest

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// Router builds the HTTP handler. Everything except signup, login, the
// email probes, health and metrics sits behind the guard.
func (s *RESTServer) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(s.instrument)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	r.Get("/health", s.health)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Post("/signup", s.signup)
	r.Post("/login", s.login)
	r.Get("/check-email", s.checkEmail)
	r.Get("/check-login-email", s.checkEmail)

	r.Group(func(r chi.Router) {
		r.Use(s.guard)

		r.Get("/profile", s.profile)
		r.Post("/account-update", s.updateAccount)
		r.Post("/reset-password", s.resetPassword)
		r.Delete("/delete-account", s.deleteAccount)

		r.Route("/detections", newRecordHandler(s, s.svc.Detections, "detection", newDetection).routes)
		r.Route("/claims", newRecordHandler(s, s.svc.Claims, "claim", newClaim).routes)

		r.Group(func(r chi.Router) {
			r.Use(adminOnly)

			r.Get("/users", s.listUsers)
			r.Delete("/users/{id}", s.deleteUser)
			r.Get("/admin/profile", s.adminProfile)
		})
	})

	return r
}

func (s *RESTServer) health(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		if err := s.db.PingContext(r.Context()); err != nil {
			s.logger.Error(r.Context(), "health check failed", "error", err)
			respondWithError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
