package main

import (
	"net/http"
)

func composeRoutes(app *application) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", app.homeHandler)
	mux.HandleFunc("GET /api/healthcheck", app.healthCheckHandler)

	mux.HandleFunc("POST /api/auth/register", app.registerUserHandler)
	mux.HandleFunc("POST /api/auth/login", app.loginUserHandler)

	mux.HandleFunc("GET /api/tasks", app.requireAuthenticatedUser(app.getTasksHandler))
	mux.HandleFunc("POST /api/tasks", app.requireAuthenticatedUser(app.createTaskHandler))
	mux.HandleFunc("GET /api/tasks/{id}", app.requireAuthenticatedUser(app.getTaskHandler))
	mux.HandleFunc("PUT /api/tasks/{id}", app.requireAuthenticatedUser(app.updateTaskHandler))
	mux.HandleFunc("DELETE /api/tasks/{id}", app.requireAuthenticatedUser(app.deleteTaskHandler))

	mux.HandleFunc("/", app.notFoundHandler)

	handler := app.enableCORS(app.recoverPanic(mux))
	if app.config.limiter.enabled {
		handler = app.rateLimit(handler)
	}
	return app.logRequests(handler)
}
