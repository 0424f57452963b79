package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/tasktrack/tasktrack-go/internal/middleware"
	"github.com/tasktrack/tasktrack-go/internal/service"
)

// Services bundles the business services the HTTP layer dispatches to.
type Services struct {
	Auth     *service.AuthService
	Projects *service.ProjectService
	Tasks    *service.TaskService
}

// NewRouter builds the complete HTTP API. jwtSecret verifies session tokens
// on every route below /api except register and login.
func NewRouter(svc Services, jwtSecret string) http.Handler {
	authHandler := NewAuthHandler(svc.Auth)
	projectHandler := NewProjectHandler(svc.Projects)
	taskHandler := NewTaskHandler(svc.Tasks)

	r := chi.NewRouter()
	r.Use(middleware.RequestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("API is running..."))
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/users/register", authHandler.HandleRegister)
		r.Post("/users/login", authHandler.HandleLogin)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(jwtSecret))

			r.Get("/users/me", authHandler.HandleMe)

			r.Post("/projects", projectHandler.HandleCreate)
			r.Get("/projects", projectHandler.HandleList)
			r.Get("/projects/{id}", projectHandler.HandleGet)
			r.Put("/projects/{id}", projectHandler.HandleUpdate)
			r.Delete("/projects/{id}", projectHandler.HandleDelete)

			r.Post("/projects/{id}/tasks", taskHandler.HandleCreate)
			r.Get("/projects/{id}/tasks", taskHandler.HandleList)
			r.Put("/projects/tasks/{taskID}", taskHandler.HandleUpdate)
			r.Delete("/projects/tasks/{taskID}", taskHandler.HandleDelete)
			r.Put("/tasks/{taskID}", taskHandler.HandleUpdate)
			r.Delete("/tasks/{taskID}", taskHandler.HandleDelete)
		})
	})

	return r
}
