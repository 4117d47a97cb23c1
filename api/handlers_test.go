package main

import (
	"net/http"
	"testing"

	"github.com/steinfletcher/apitest"
	jsonpath "github.com/steinfletcher/apitest-jsonpath"
)

func TestHome(t *testing.T) {
	app := newTestApplication(t)

	apitest.New().
		Handler(composeRoutes(app)).
		Get("/").
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal("$.message", "Task Manager API")).
		Assert(jsonpath.Equal("$.endpoints.tasks", "/api/tasks/")).
		End()
}

func TestHealthCheck(t *testing.T) {
	app := newTestApplication(t)

	apitest.New().
		Handler(composeRoutes(app)).
		Get("/api/healthcheck").
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal("$.status", "available")).
		Assert(jsonpath.Equal("$.environment", "test")).
		End()
}

func TestUnknownEndpoint(t *testing.T) {
	app := newTestApplication(t)

	apitest.New().
		Handler(composeRoutes(app)).
		Get("/no/such/route").
		Expect(t).
		Status(http.StatusNotFound).
		Assert(jsonpath.Equal("$.error", "Endpoint not found")).
		End()
}

func TestPanicRecoversToGeneric500(t *testing.T) {
	app := newTestApplication(t)
	mux := http.NewServeMux()
	mux.HandleFunc("GET /boom", func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	apitest.New().
		Handler(app.recoverPanic(mux)).
		Get("/boom").
		Expect(t).
		Status(http.StatusInternalServerError).
		Assert(jsonpath.Equal("$.error", "internal server error")).
		End()
}
