package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/juju/clock"

	"github.com/aanand-mishra/enrollment-api/internal/storage"
	"github.com/aanand-mishra/enrollment-api/internal/types"
)

const studentColumns = "id, full_name, email, age, created_at, updated_at"

// StudentStore implements storage.StudentStore on the students table.
type StudentStore struct {
	db    *sql.DB
	clock clock.Clock
	newID storage.IDGenerator
}

var _ storage.StudentStore = (*StudentStore)(nil)

// Create inserts a new row. Values go through ? placeholders, never string
// concatenation, so user input is always treated as data.
func (s *StudentStore) Create(in types.StudentInput) (types.Student, error) {
	student := storage.NewStudent(s.newID(), in, s.clock.Now().UTC())

	_, err := s.db.Exec(
		"INSERT INTO students (id, full_name, email, age, created_at) VALUES (?, ?, ?, ?, ?)",
		student.ID, student.FullName, student.Email, student.Age, student.CreatedAt,
	)
	if err != nil {
		return types.Student{}, fmt.Errorf("StudentStore.Create: exec: %w", err)
	}
	return student, nil
}

func (s *StudentStore) GetAll() ([]types.Student, error) {
	rows, err := s.db.Query("SELECT " + studentColumns + " FROM students ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("StudentStore.GetAll: query: %w", err)
	}
	defer rows.Close()

	students := make([]types.Student, 0)
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("StudentStore.GetAll: scan row: %w", err)
		}
		students = append(students, student)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("StudentStore.GetAll: rows iteration: %w", err)
	}
	return students, nil
}

func (s *StudentStore) GetByID(id string) (types.Student, error) {
	return getStudent(s.db, id)
}

func (s *StudentStore) GetByEmail(email string) (types.Student, error) {
	row := s.db.QueryRow(
		"SELECT "+studentColumns+" FROM students WHERE email = ? ORDER BY seq LIMIT 1", email)
	student, err := scanStudent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Student{}, storage.ErrNotFound
	}
	if err != nil {
		return types.Student{}, fmt.Errorf("StudentStore.GetByEmail: scan: %w", err)
	}
	return student, nil
}

// Update reads, merges and writes back inside one transaction.
func (s *StudentStore) Update(id string, patch types.StudentPatch) (types.Student, error) {
	var updated types.Student
	err := inTx(s.db, "StudentStore.Update", func(tx *sql.Tx) error {
		current, err := getStudent(tx, id)
		if err != nil {
			return err
		}
		updated = storage.MergeStudent(current, patch, s.clock.Now().UTC())
		_, err = tx.Exec(
			"UPDATE students SET full_name = ?, email = ?, age = ?, updated_at = ? WHERE id = ?",
			updated.FullName, updated.Email, updated.Age, *updated.UpdatedAt, id,
		)
		if err != nil {
			return fmt.Errorf("StudentStore.Update: exec: %w", err)
		}
		return nil
	})
	if err != nil {
		return types.Student{}, err
	}
	return updated, nil
}

func (s *StudentStore) Remove(id string) (types.Student, error) {
	var removed types.Student
	err := inTx(s.db, "StudentStore.Remove", func(tx *sql.Tx) error {
		var err error
		if removed, err = getStudent(tx, id); err != nil {
			return err
		}
		if _, err := tx.Exec("DELETE FROM students WHERE id = ?", id); err != nil {
			return fmt.Errorf("StudentStore.Remove: exec: %w", err)
		}
		return nil
	})
	if err != nil {
		return types.Student{}, err
	}
	return removed, nil
}

// querier lets the lookup helpers run on the pool or inside a transaction.
type querier interface {
	QueryRow(query string, args ...any) *sql.Row
}

func getStudent(q querier, id string) (types.Student, error) {
	row := q.QueryRow("SELECT "+studentColumns+" FROM students WHERE id = ? LIMIT 1", id)
	student, err := scanStudent(row)
	if errors.Is(err, sql.ErrNoRows) {
		// sql.ErrNoRows is the sentinel for "nothing matched"; translate it
		// so callers never see a database/sql detail.
		return types.Student{}, storage.NotFound(storage.KindStudent, id)
	}
	if err != nil {
		return types.Student{}, fmt.Errorf("getStudent: scan: %w", err)
	}
	return student, nil
}

// scanStudent reads the columns listed in studentColumns, in that order.
func scanStudent(row rowScanner) (types.Student, error) {
	var (
		student   types.Student
		updatedAt sql.NullTime
	)
	err := row.Scan(
		&student.ID,
		&student.FullName,
		&student.Email,
		&student.Age,
		&student.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		return types.Student{}, err
	}
	student.CreatedAt = student.CreatedAt.UTC()
	if updatedAt.Valid {
		t := updatedAt.Time.UTC()
		student.UpdatedAt = &t
	}
	return student, nil
}
