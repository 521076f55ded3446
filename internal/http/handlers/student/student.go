// Package student contains all HTTP handlers for the Student resource.
//
// HANDLER PATTERN USED HERE: THE CLOSURE / FACTORY PATTERN
// ────────────────────────────────────────────────────────
// The router expects handler functions with the signature:
//
//	func(http.ResponseWriter, *http.Request)
//
// That signature has no room for extra parameters like a database, so each
// handler is built by a factory that receives its dependencies and returns
// the function the router needs:
//
//	r.Post("/", student.New(storage))
//	//          ^^^^^^^^^^^^^^^^^^^^
//	//  New(storage) runs ONCE at startup; the returned func runs per request.
package student

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/aanand-mishra/students-roster/internal/http/middleware"
	"github.com/aanand-mishra/students-roster/internal/storage"
	"github.com/aanand-mishra/students-roster/internal/types"
	"github.com/aanand-mishra/students-roster/internal/utils/response"
	"github.com/aanand-mishra/students-roster/internal/validation"
)

// DuplicateEmailMessage is the 400 message for an email that is already
// registered. Clients look for its "already exist" suffix.
func DuplicateEmailMessage(email string) string {
	return fmt.Sprintf("Student with email %s already exist", email)
}

// ─────────────────────────────────────────────────────────────────────────────
// New handles POST /students
//
// Request body:
//
//	{ "name": "Bob Lee", "email": "bob@x.com", "branch": "EE" }
//
// Success response (201 Created): the stored student, with id and created_at.
//
// Error responses:
//
//	400 Bad Request  empty body, malformed JSON, failed validation, duplicate email
//	500 Internal     database error
//
// ─────────────────────────────────────────────────────────────────────────────
func New(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := middleware.Log(r.Context())
		log.Info("creating a student")

		draft, ok := decodeDraft(w, r)
		if !ok {
			return
		}

		created, err := storage.CreateStudent(r.Context(), draft)
		if err != nil {
			writeStorageError(w, log, "error creating student", draft, err)
			return
		}

		log.Info("student created", slog.Int64("id", created.ID))
		response.WriteJSON(w, http.StatusCreated, created)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetByID handles GET /students/{id}
//
// Error responses:
//
//	400 Bad Request  id is not a valid integer
//	404 Not Found    no such student
//	500 Internal     database error
//
// ─────────────────────────────────────────────────────────────────────────────
func GetByID(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := middleware.Log(r.Context())

		id, ok := pathID(w, r)
		if !ok {
			return
		}
		log.Info("getting a student", slog.Int64("id", id))

		student, err := storage.GetStudentByID(r.Context(), id)
		if err != nil {
			writeStorageError(w, log, "error getting student", types.StudentDraft{}, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, student)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetList handles GET /students
// Returns a JSON array of all students, newest first.
// Returns an empty array [] (not null) when there are no students.
// ─────────────────────────────────────────────────────────────────────────────
func GetList(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := middleware.Log(r.Context())
		log.Info("getting all students")

		students, err := storage.GetStudents(r.Context())
		if err != nil {
			log.Error("error getting students", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError(err))
			return
		}

		response.WriteJSON(w, http.StatusOK, students)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Update handles PUT /students/{id}
// Replaces name, email and branch. An unknown id creates the student.
//
// Success response (200 OK): the stored student.
//
// Error responses:
//
//	400 Bad Request  invalid id, empty body, failed validation, email of another student
//	500 Internal     database error
//
// ─────────────────────────────────────────────────────────────────────────────
func Update(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := middleware.Log(r.Context())

		id, ok := pathID(w, r)
		if !ok {
			return
		}
		log.Info("updating a student", slog.Int64("id", id))

		draft, ok := decodeDraft(w, r)
		if !ok {
			return
		}

		updated, err := storage.UpdateStudentByID(r.Context(), id, draft)
		if err != nil {
			writeStorageError(w, log, "error updating student", draft, err)
			return
		}

		log.Info("student updated", slog.Int64("id", id))
		response.WriteJSON(w, http.StatusOK, updated)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Delete handles DELETE /students/{id}
//
// Success response: 204 No Content.
//
// Error responses:
//
//	400 Bad Request  invalid id
//	404 Not Found    no such student
//	500 Internal     database error
//
// ─────────────────────────────────────────────────────────────────────────────
func Delete(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := middleware.Log(r.Context())

		id, ok := pathID(w, r)
		if !ok {
			return
		}
		log.Info("deleting a student", slog.Int64("id", id))

		if err := storage.DeleteStudentByID(r.Context(), id); err != nil {
			writeStorageError(w, log, "error deleting student", types.StudentDraft{}, err)
			return
		}

		log.Info("student deleted", slog.Int64("id", id))
		w.WriteHeader(http.StatusNoContent)
	}
}

// pathID parses the {id} URL segment. On failure it has already written
// the 400 response.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.WriteJSON(w, http.StatusBadRequest,
			response.GeneralError(errors.New("invalid id: must be an integer")))
		return 0, false
	}
	return id, true
}

// decodeDraft reads and validates the JSON body. On failure it has already
// written the 400 response.
func decodeDraft(w http.ResponseWriter, r *http.Request) (types.StudentDraft, bool) {
	var draft types.StudentDraft

	err := json.NewDecoder(r.Body).Decode(&draft)
	if errors.Is(err, io.EOF) {
		response.WriteJSON(w, http.StatusBadRequest,
			response.GeneralError(errors.New("request body is empty")))
		return draft, false
	}
	if err != nil {
		response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
		return draft, false
	}

	if errs := validation.Struct(draft); errs != nil {
		response.WriteJSON(w, http.StatusBadRequest, response.ValidationError(errs))
		return draft, false
	}

	return draft, true
}

func writeStorageError(w http.ResponseWriter, log *slog.Logger, msg string, draft types.StudentDraft, err error) {
	switch {
	case errors.Is(err, storage.ErrEmailExists):
		response.WriteJSON(w, http.StatusBadRequest,
			response.Message(DuplicateEmailMessage(draft.Email)))
	case errors.Is(err, storage.ErrNotFound):
		response.WriteJSON(w, http.StatusNotFound, response.GeneralError(err))
	default:
		log.Error(msg, slog.String("error", err.Error()))
		response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
	}
}
