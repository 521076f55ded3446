// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface.
//
// Queries go through sqlx so rows scan straight into types.Student by their
// db:"..." tags. The schema lives in embedded goose migrations that are
// applied every time the database is opened.
//
// Importing go-sqlite3 registers the "sqlite3" driver with database/sql, and
// its sqlite3.Error is used to recognise unique-constraint violations.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"

	"github.com/aanand-mishra/students-roster/internal/storage"
	"github.com/aanand-mishra/students-roster/internal/storage/sqlite/migrations"
	"github.com/aanand-mishra/students-roster/internal/types"
)

const studentColumns = "id, name, email, branch, created_at"

// SQLite is the concrete implementation of storage.Storage.
// *sqlx.DB wraps a *sql.DB connection pool and is safe for concurrent use.
type SQLite struct {
	Db *sqlx.DB

	now func() time.Time
}

// New opens the SQLite database at path, migrates it to the latest schema
// and returns a ready-to-use *SQLite.
func New(ctx context.Context, path string) (*SQLite, error) {
	db, err := sqlx.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}

	// SQLite serialises writers; a single connection avoids "database is
	// locked" errors under concurrent requests.
	db.SetMaxOpenConns(1)

	if err := Migrate(ctx, db.DB); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite.New: %w", err)
	}

	return &SQLite{Db: db, now: time.Now}, nil
}

// Migrate applies every pending embedded migration. It is idempotent.
func Migrate(ctx context.Context, db *sql.DB) error {
	provider, err := goose.NewProvider(goose.DialectSQLite3, db, migrations.FS)
	if err != nil {
		return fmt.Errorf("migrate: new provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("migrate: up: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (s *SQLite) Close() error {
	return s.Db.Close()
}

// CreateStudent inserts a new row. The email check runs first so the common
// case produces ErrEmailExists without relying on the driver error; the
// UNIQUE constraint still catches a concurrent insert.
func (s *SQLite) CreateStudent(ctx context.Context, draft types.StudentDraft) (types.Student, error) {
	exists, err := s.emailTaken(ctx, draft.Email, 0)
	if err != nil {
		return types.Student{}, fmt.Errorf("CreateStudent: %w", err)
	}
	if exists {
		return types.Student{}, storage.ErrEmailExists
	}

	student := types.Student{
		Name:      draft.Name,
		Email:     draft.Email,
		Branch:    draft.Branch,
		CreatedAt: s.now().UTC(),
	}

	result, err := s.Db.ExecContext(ctx,
		"INSERT INTO students (name, email, branch, created_at) VALUES (?, ?, ?, ?)",
		student.Name, student.Email, student.Branch, student.CreatedAt,
	)
	if err != nil {
		return types.Student{}, fmt.Errorf("CreateStudent: exec: %w", mapConstraint(err))
	}

	student.ID, err = result.LastInsertId()
	if err != nil {
		return types.Student{}, fmt.Errorf("CreateStudent: last insert id: %w", err)
	}

	return student, nil
}

// GetStudentByID fetches exactly one student matched by primary key.
func (s *SQLite) GetStudentByID(ctx context.Context, id int64) (types.Student, error) {
	var student types.Student
	err := s.Db.GetContext(ctx, &student,
		"SELECT "+studentColumns+" FROM students WHERE id = ? LIMIT 1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Student{}, fmt.Errorf("no student found with id %d: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return types.Student{}, fmt.Errorf("GetStudentByID: %w", err)
	}
	return student, nil
}

// GetStudents returns all students, newest first.
func (s *SQLite) GetStudents(ctx context.Context) ([]types.Student, error) {
	students := make([]types.Student, 0)
	err := s.Db.SelectContext(ctx, &students,
		"SELECT "+studentColumns+" FROM students ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, fmt.Errorf("GetStudents: %w", err)
	}
	return students, nil
}

// UpdateStudentByID replaces a student's data with the draft's values.
// An email may stay unchanged; it only conflicts when another student has it.
// When no student has the ID, one is created under that ID.
func (s *SQLite) UpdateStudentByID(ctx context.Context, id int64, draft types.StudentDraft) (types.Student, error) {
	taken, err := s.emailTaken(ctx, draft.Email, id)
	if err != nil {
		return types.Student{}, fmt.Errorf("UpdateStudentByID: %w", err)
	}
	if taken {
		return types.Student{}, storage.ErrEmailExists
	}

	result, err := s.Db.ExecContext(ctx,
		"UPDATE students SET name = ?, email = ?, branch = ? WHERE id = ?",
		draft.Name, draft.Email, draft.Branch, id,
	)
	if err != nil {
		return types.Student{}, fmt.Errorf("UpdateStudentByID: exec: %w", mapConstraint(err))
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return types.Student{}, fmt.Errorf("UpdateStudentByID: rows affected: %w", err)
	}

	if affected == 0 {
		_, err = s.Db.ExecContext(ctx,
			"INSERT INTO students (id, name, email, branch, created_at) VALUES (?, ?, ?, ?, ?)",
			id, draft.Name, draft.Email, draft.Branch, s.now().UTC(),
		)
		if err != nil {
			return types.Student{}, fmt.Errorf("UpdateStudentByID: insert: %w", mapConstraint(err))
		}
	}

	// Re-fetch so the caller gets exactly what is stored.
	return s.GetStudentByID(ctx, id)
}

// DeleteStudentByID removes a student row by primary key.
func (s *SQLite) DeleteStudentByID(ctx context.Context, id int64) error {
	result, err := s.Db.ExecContext(ctx, "DELETE FROM students WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("DeleteStudentByID: exec: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("DeleteStudentByID: rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("no student found with id %d: %w", id, storage.ErrNotFound)
	}
	return nil
}

// emailTaken reports whether a student other than exceptID uses email.
func (s *SQLite) emailTaken(ctx context.Context, email string, exceptID int64) (bool, error) {
	var n int
	err := s.Db.GetContext(ctx, &n,
		"SELECT COUNT(*) FROM students WHERE email = ? AND id != ?", email, exceptID)
	if err != nil {
		return false, fmt.Errorf("email lookup: %w", err)
	}
	return n > 0, nil
}

func mapConstraint(err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return storage.ErrEmailExists
	}
	return err
}
