package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/juju/clock"

	"github.com/aanand-mishra/enrollment-api/internal/storage"
	"github.com/aanand-mishra/enrollment-api/internal/types"
)

const courseColumns = "id, name, description, credits, created_at, updated_at"

// CourseStore implements storage.CourseStore on the courses table.
type CourseStore struct {
	db    *sql.DB
	clock clock.Clock
	newID storage.IDGenerator
}

var _ storage.CourseStore = (*CourseStore)(nil)

func (s *CourseStore) Create(in types.CourseInput) (types.Course, error) {
	course := storage.NewCourse(s.newID(), in, s.clock.Now().UTC())

	_, err := s.db.Exec(
		"INSERT INTO courses (id, name, description, credits, created_at) VALUES (?, ?, ?, ?, ?)",
		course.ID, course.Name, course.Description, course.Credits, course.CreatedAt,
	)
	if err != nil {
		return types.Course{}, fmt.Errorf("CourseStore.Create: exec: %w", err)
	}
	return course, nil
}

func (s *CourseStore) GetAll() ([]types.Course, error) {
	rows, err := s.db.Query("SELECT " + courseColumns + " FROM courses ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("CourseStore.GetAll: query: %w", err)
	}
	defer rows.Close()

	courses := make([]types.Course, 0)
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("CourseStore.GetAll: scan row: %w", err)
		}
		courses = append(courses, course)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("CourseStore.GetAll: rows iteration: %w", err)
	}
	return courses, nil
}

func (s *CourseStore) GetByID(id string) (types.Course, error) {
	return getCourse(s.db, id)
}

func (s *CourseStore) Update(id string, patch types.CoursePatch) (types.Course, error) {
	var updated types.Course
	err := inTx(s.db, "CourseStore.Update", func(tx *sql.Tx) error {
		current, err := getCourse(tx, id)
		if err != nil {
			return err
		}
		updated = storage.MergeCourse(current, patch, s.clock.Now().UTC())
		_, err = tx.Exec(
			"UPDATE courses SET name = ?, description = ?, credits = ?, updated_at = ? WHERE id = ?",
			updated.Name, updated.Description, updated.Credits, *updated.UpdatedAt, id,
		)
		if err != nil {
			return fmt.Errorf("CourseStore.Update: exec: %w", err)
		}
		return nil
	})
	if err != nil {
		return types.Course{}, err
	}
	return updated, nil
}

func (s *CourseStore) Remove(id string) (types.Course, error) {
	var removed types.Course
	err := inTx(s.db, "CourseStore.Remove", func(tx *sql.Tx) error {
		var err error
		if removed, err = getCourse(tx, id); err != nil {
			return err
		}
		if _, err := tx.Exec("DELETE FROM courses WHERE id = ?", id); err != nil {
			return fmt.Errorf("CourseStore.Remove: exec: %w", err)
		}
		return nil
	})
	if err != nil {
		return types.Course{}, err
	}
	return removed, nil
}

func getCourse(q querier, id string) (types.Course, error) {
	row := q.QueryRow("SELECT "+courseColumns+" FROM courses WHERE id = ? LIMIT 1", id)
	course, err := scanCourse(row)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Course{}, storage.NotFound(storage.KindCourse, id)
	}
	if err != nil {
		return types.Course{}, fmt.Errorf("getCourse: scan: %w", err)
	}
	return course, nil
}

func scanCourse(row rowScanner) (types.Course, error) {
	var (
		course    types.Course
		updatedAt sql.NullTime
	)
	err := row.Scan(
		&course.ID,
		&course.Name,
		&course.Description,
		&course.Credits,
		&course.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		return types.Course{}, err
	}
	course.CreatedAt = course.CreatedAt.UTC()
	if updatedAt.Valid {
		t := updatedAt.Time.UTC()
		course.UpdatedAt = &t
	}
	return course, nil
}
