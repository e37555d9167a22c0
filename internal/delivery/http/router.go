package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"sharedtodo/internal/delivery/http/controllers"
	"sharedtodo/internal/delivery/http/middleware"
	"sharedtodo/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes.
// verifier may be nil, in which case mutating routes are unprotected.
// authController may be nil when auth is not configured.
func NewRouter(
	todoController *controllers.TodoController,
	assigneeController *controllers.AssigneeController,
	authController *controllers.AuthController,
	verifier domain.TokenVerifier,
) *http.ServeMux {
	mux := http.NewServeMux()
	protected := middleware.RequireAuth(verifier)

	// Todos
	mux.HandleFunc("GET /todos", todoController.List)
	mux.HandleFunc("GET /todos/{id}", todoController.Get)
	mux.HandleFunc("POST /todos", protected(todoController.Create))
	mux.HandleFunc("PUT /todos/{id}", protected(todoController.Update))
	mux.HandleFunc("DELETE /todos/{id}", protected(todoController.Delete))
	mux.HandleFunc("POST /classify", todoController.Classify)
	mux.HandleFunc("GET /csv-downloads/todos", todoController.ExportCSV)

	// Assignees
	mux.HandleFunc("GET /assignees", assigneeController.List)
	mux.HandleFunc("GET /assignees/{id}", assigneeController.Get)
	mux.HandleFunc("POST /assignees", protected(assigneeController.Create))
	mux.HandleFunc("PUT /assignees/{id}", protected(assigneeController.Update))
	mux.HandleFunc("DELETE /assignees/{id}", protected(assigneeController.Delete))

	// Auth
	if authController != nil {
		mux.HandleFunc("POST /auth/login", authController.Login)
	}

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
