package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
)

var (
	errInternalServer     = errors.New("internal server error")
	errInvalidCredentials = errors.New("Invalid credentials")
	errInvalidAuthToken   = errors.New("invalid or missing authentication token")
	errTaskNotFound       = errors.New("Task not found")
	errEndpointNotFound   = errors.New("Endpoint not found")
)

func (app *application) homeHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Task Manager API",
		"version": version,
		"endpoints": map[string]string{
			"auth":  "/api/auth/",
			"tasks": "/api/tasks/",
		},
	})
}

func (app *application) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":      "available",
		"environment": app.config.env,
		"version":     version,
	})
}

func (app *application) notFoundHandler(w http.ResponseWriter, r *http.Request) {
	writeError(w, errEndpointNotFound, http.StatusNotFound)
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		writeError(w, errInternalServer, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write(data)
}

func composeJSONError(err error) string {
	jsonError := map[string]string{
		"error": err.Error(),
	}
	result, err := json.Marshal(jsonError)
	if err != nil {
		log.Error().Err(err).Msg("unable to marshal error body")
		return ""
	}
	return string(result)
}

func writeError(w http.ResponseWriter, err error, statusCode int) {
	h := w.Header()
	h.Del("Content-Length")
	h.Set("Content-Type", "application/json")
	h.Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(statusCode)
	fmt.Fprintln(w, composeJSONError(err))
}
