// Package router wires the student handlers and middleware into a chi router.
package router

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aanand-mishra/students-roster/internal/http/handlers/student"
	"github.com/aanand-mishra/students-roster/internal/http/middleware"
	"github.com/aanand-mishra/students-roster/internal/storage"
)

// New builds the backend router.
//
// Route table:
//
//	GET    /api/students        list all students, newest first
//	POST   /api/students        create a student
//	GET    /api/students/{id}   get one student
//	PUT    /api/students/{id}   update (or create under id) a student
//	DELETE /api/students/{id}   delete a student
func New(store storage.Storage, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.CORS)
	r.Use(middleware.RequestID(logger))
	r.Use(middleware.Logger)
	r.Use(middleware.Recovery)

	r.Route("/api/students", func(r chi.Router) {
		r.Get("/", student.GetList(store))
		r.Post("/", student.New(store))
		r.Get("/{id}", student.GetByID(store))
		r.Put("/{id}", student.Update(store))
		r.Delete("/{id}", student.Delete(store))
	})

	return r
}
