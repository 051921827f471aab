package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/isdelr/socialsync-api/internal/api/handlers"
	"github.com/isdelr/socialsync-api/internal/auth"
	"github.com/isdelr/socialsync-api/internal/config"
	"github.com/isdelr/socialsync-api/internal/database"
	"github.com/isdelr/socialsync-api/internal/services"
	"github.com/isdelr/socialsync-api/internal/websocket"
)

// Dependencies groups everything the router wires into handlers.
type Dependencies struct {
	Config  *config.Config
	DB      *database.DB
	Tokens  *auth.TokenManager
	Revoker auth.Revoker
	Hub     *websocket.Hub

	Users   services.UserServiceProvider
	Events  services.EventServiceProvider
	Tasks   services.TaskServiceProvider
	Agenda  services.AgendaServiceProvider
	Uploads services.UploadServiceProvider
	Images  services.ImageServiceProvider
}

// NewRouter creates and configures a new Chi router.
func NewRouter(deps Dependencies) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Credentials are allowed so the session cookie crosses origins.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	userHandler := handlers.NewUserHandler(deps.Users, deps.Tokens, deps.Revoker, deps.Config.IsProduction())
	eventHandler := handlers.NewEventHandler(deps.Events)
	taskHandler := handlers.NewTaskHandler(deps.Tasks)
	agendaHandler := handlers.NewAgendaHandler(deps.Agenda)
	uploadHandler := handlers.NewUploadHandler(deps.Uploads, deps.Config.UploadMaxBytes)
	imageHandler := handlers.NewImageHandler(deps.Images)
	healthHandler := handlers.NewHealthHandler(deps.DB)
	wsHandler := handlers.NewWebSocketHandler(deps.Hub, deps.Config.AllowedOrigins)

	requireAuth := auth.Middleware(deps.Tokens, deps.Revoker)

	r.Route("/api", func(r chi.Router) {
		r.Get("/ping", healthHandler.Ping)
		r.Get("/health", healthHandler.Health)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", userHandler.Register)
			r.Post("/login", userHandler.Login)
			r.Post("/logout", userHandler.Logout)
			r.With(requireAuth).Get("/me", userHandler.GetMe)
		})

		// Everything below requires a valid session.
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.Get("/ws", wsHandler.Serve)

			r.Route("/events", func(r chi.Router) {
				r.Get("/", eventHandler.GetAll)
				r.Post("/", eventHandler.Create)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", eventHandler.Get)
					r.Put("/", eventHandler.Update)
					r.Delete("/", eventHandler.Delete)
				})
			})

			r.Route("/tasks", func(r chi.Router) {
				r.Get("/", taskHandler.GetAll)
				r.Post("/", taskHandler.Create)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", taskHandler.Get)
					r.Put("/", taskHandler.Update)
					r.Delete("/", taskHandler.Delete)
				})
			})

			r.Get("/agenda", agendaHandler.Agenda)
			r.Get("/calendar", agendaHandler.Calendar)
			r.Post("/upload", uploadHandler.Upload)
			r.Get("/images/search", imageHandler.Search)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"Not found"}`))
	})

	return r
}
