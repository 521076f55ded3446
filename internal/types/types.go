// Package types holds the data structures shared by the backend and the
// terminal client. Keeping them in one place prevents import cycles:
// handlers, storage, the HTTP client and the roster controllers can all
// import types without depending on each other.
package types

import "time"

// RequestIDHeader carries the correlation ID between client and server.
const RequestIDHeader = "X-Request-ID"

// Student is a persisted student record as the server returns it.
//
// ID and CreatedAt are assigned by the server. A Student obtained from the
// API always has a non-zero ID.
type Student struct {
	ID        int64     `json:"id"         db:"id"`
	Name      string    `json:"name"       db:"name"`
	Email     string    `json:"email"      db:"email"`
	Branch    string    `json:"branch"     db:"branch"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// StudentDraft is the payload for create and update requests.
//
// It deliberately has no ID field: a draft composed for creation cannot
// carry one, and updates take the ID from the URL path.
//
// validate:"..." tags are checked by go-playground/validator, on the server
// before anything is stored and in the client forms before anything is sent.
// "branch" is a custom tag registered in internal/validation.
type StudentDraft struct {
	Name   string `json:"name"   validate:"required,min=3"`
	Email  string `json:"email"  validate:"required,email"`
	Branch string `json:"branch" validate:"required,branch"`
}

// Draft returns the editable part of s.
func (s Student) Draft() StudentDraft {
	return StudentDraft{Name: s.Name, Email: s.Email, Branch: s.Branch}
}
