// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface using Go's standard database/sql package.
//
// WHY SQLite?
// ───────────
// SQLite gives us a real relational engine with no separate server
// process. By default it runs on ":memory:", and even when pointed at a
// file New drops and recreates every table, so state never outlives the
// process, exactly like the in-memory backend.
//
// The blank import below registers the sqlite3 driver with database/sql.
package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/juju/clock"

	"github.com/aanand-mishra/enrollment-api/internal/storage"

	// Blank import: side-effect only (registers the "sqlite3" driver).
	_ "github.com/mattn/go-sqlite3"
)

// schema is executed on every startup. Each table carries a seq column so
// listings come back in insertion order.
const schema = `
	DROP TABLE IF EXISTS enrollments;
	DROP TABLE IF EXISTS students;
	DROP TABLE IF EXISTS courses;

	CREATE TABLE students (
		seq        INTEGER PRIMARY KEY AUTOINCREMENT,
		id         TEXT      NOT NULL UNIQUE,
		full_name  TEXT      NOT NULL,
		email      TEXT      NOT NULL,
		age        INTEGER   NOT NULL,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP
	);

	CREATE TABLE courses (
		seq         INTEGER PRIMARY KEY AUTOINCREMENT,
		id          TEXT      NOT NULL UNIQUE,
		name        TEXT      NOT NULL,
		description TEXT      NOT NULL,
		credits     REAL      NOT NULL,
		created_at  TIMESTAMP NOT NULL,
		updated_at  TIMESTAMP
	);

	CREATE TABLE enrollments (
		seq         INTEGER PRIMARY KEY AUTOINCREMENT,
		student_id  TEXT      NOT NULL,
		course_id   TEXT      NOT NULL,
		enrolled_at TIMESTAMP NOT NULL
	);
	CREATE INDEX enrollments_student ON enrollments (student_id);
	CREATE INDEX enrollments_course  ON enrollments (course_id);
`

// SQLite is the concrete implementation of storage.Storage.
// It holds a *sql.DB which is a connection pool managed by database/sql.
type SQLite struct {
	Db *sql.DB

	students    *StudentStore
	courses     *CourseStore
	enrollments *EnrollmentStore
}

var _ storage.Storage = (*SQLite)(nil)

// New opens the SQLite database at path (a file path or ":memory:"),
// recreates the schema and returns a ready-to-use *SQLite.
func New(path string, clk clock.Clock, newID storage.IDGenerator) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}

	// A ":memory:" database exists per connection, so the pool is pinned
	// to a single connection. That also serialises every statement.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite.New: create schema: %w", err)
	}

	return &SQLite{
		Db:          db,
		students:    &StudentStore{db: db, clock: clk, newID: newID},
		courses:     &CourseStore{db: db, clock: clk, newID: newID},
		enrollments: &EnrollmentStore{db: db, clock: clk},
	}, nil
}

func (s *SQLite) Students() storage.StudentStore       { return s.students }
func (s *SQLite) Courses() storage.CourseStore         { return s.courses }
func (s *SQLite) Enrollments() storage.EnrollmentStore { return s.enrollments }

// Close closes the underlying connection pool.
func (s *SQLite) Close() error {
	return s.Db.Close()
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// inTx runs fn inside a transaction, committing on success.
func inTx(db *sql.DB, op string, fn func(tx *sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("%s: begin: %w", op, err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit: %w", op, err)
	}
	return nil
}
