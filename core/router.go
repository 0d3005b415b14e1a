package core

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

// NewRouter returns the application router with the standard middleware
// stack. Unmatched paths get the router's 404.
func NewRouter(config Config) chi.Router {
	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.GetHead)

	if config.DebugHeaders {
		r.Use(middleware.SetHeader("X-Cosmic", "1"))
	}

	r.NotFound(http.NotFound)
	return r
}

// RequestID keeps an incoming X-Request-ID or assigns a new UUID, and stores
// it where chi's logger looks for it.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		ctx := context.WithValue(r.Context(), middleware.RequestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
