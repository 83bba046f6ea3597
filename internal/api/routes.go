package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Routes builds the full HTTP handler of the service.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.config.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(s.config.AppHost+"/swagger/doc.json"),
	))
	r.Get("/ws", s.ServeWsHandler)
	r.Get("/health", s.HealthCheckHandler)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/files/{key}", s.ServeObjectHandler)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Mdrive is running. API documentation: /swagger/index.html"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", s.RegisterHandler)
		r.Post("/auth/login", s.LoginHandler)
		r.Post("/auth/refresh", s.RefreshTokenHandler)

		r.Group(func(r chi.Router) {
			r.Use(s.AuthMiddleware)

			r.Post("/auth/logout", s.LogoutHandler)
			r.Get("/me", s.GetCurrentUserHandler)

			r.Get("/sessions", s.ListSessionsHandler)
			r.Delete("/sessions/{sessionId}", s.DeleteSessionHandler)
			r.Post("/sessions/terminate_all", s.TerminateAllSessionsHandler)

			r.Get("/drive", s.GetDriveHandler)
			r.Post("/drive/onboard", s.OnboardHandler)

			r.Post("/folders", s.CreateFolderHandler)
			r.Get("/folders/{folderId}", s.GetFolderHandler)
			r.Get("/folders/{folderId}/path", s.GetFolderPathHandler)
			r.Patch("/folders/{folderId}", s.RenameFolderHandler)
			r.Delete("/folders/{folderId}", s.DeleteFolderHandler)

			r.Post("/files", s.UploadFileHandler)
			r.Get("/files/{fileId}/download", s.DownloadFileHandler)
			r.Patch("/files/{fileId}", s.MoveFileHandler)
			r.Delete("/files/{fileId}", s.DeleteFileHandler)

			r.Get("/events", s.GetEventsHandler)
		})
	})

	return r
}
