package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/juju/clock"

	"github.com/aanand-mishra/enrollment-api/internal/storage"
	"github.com/aanand-mishra/enrollment-api/internal/types"
)

// EnrollmentStore implements storage.EnrollmentStore on the enrollments
// table. Like the memory store it does not check that the ids exist.
type EnrollmentStore struct {
	db    *sql.DB
	clock clock.Clock
}

var _ storage.EnrollmentStore = (*EnrollmentStore)(nil)

func (s *EnrollmentStore) GetAll() ([]types.Enrollment, error) {
	return s.list("EnrollmentStore.GetAll", "")
}

func (s *EnrollmentStore) GetByStudentID(studentID string) ([]types.Enrollment, error) {
	return s.list("EnrollmentStore.GetByStudentID", "WHERE student_id = ?", studentID)
}

func (s *EnrollmentStore) GetByCourseID(courseID string) ([]types.Enrollment, error) {
	return s.list("EnrollmentStore.GetByCourseID", "WHERE course_id = ?", courseID)
}

func (s *EnrollmentStore) Exists(studentID, courseID string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(
		"SELECT EXISTS (SELECT 1 FROM enrollments WHERE student_id = ? AND course_id = ?)",
		studentID, courseID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("EnrollmentStore.Exists: scan: %w", err)
	}
	return exists, nil
}

func (s *EnrollmentStore) Create(studentID, courseID string) (types.Enrollment, error) {
	enrollment := types.Enrollment{
		StudentID:  studentID,
		CourseID:   courseID,
		EnrolledAt: s.clock.Now().UTC(),
	}
	_, err := s.db.Exec(
		"INSERT INTO enrollments (student_id, course_id, enrolled_at) VALUES (?, ?, ?)",
		enrollment.StudentID, enrollment.CourseID, enrollment.EnrolledAt,
	)
	if err != nil {
		return types.Enrollment{}, fmt.Errorf("EnrollmentStore.Create: exec: %w", err)
	}
	return enrollment, nil
}

func (s *EnrollmentStore) RemoveByStudentID(studentID string) (int, error) {
	return s.remove("EnrollmentStore.RemoveByStudentID", "student_id", studentID)
}

func (s *EnrollmentStore) RemoveByCourseID(courseID string) (int, error) {
	return s.remove("EnrollmentStore.RemoveByCourseID", "course_id", courseID)
}

func (s *EnrollmentStore) list(op, where string, args ...any) ([]types.Enrollment, error) {
	rows, err := s.db.Query(
		"SELECT student_id, course_id, enrolled_at FROM enrollments "+where+" ORDER BY seq", args...)
	if err != nil {
		return nil, fmt.Errorf("%s: query: %w", op, err)
	}
	defer rows.Close()

	enrollments := make([]types.Enrollment, 0)
	for rows.Next() {
		var e types.Enrollment
		if err := rows.Scan(&e.StudentID, &e.CourseID, &e.EnrolledAt); err != nil {
			return nil, fmt.Errorf("%s: scan row: %w", op, err)
		}
		e.EnrolledAt = e.EnrolledAt.UTC()
		enrollments = append(enrollments, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows iteration: %w", op, err)
	}
	return enrollments, nil
}

// remove deletes every row whose column equals id. column is always one
// of our own constants, never caller input.
func (s *EnrollmentStore) remove(op, column, id string) (int, error) {
	result, err := s.db.Exec("DELETE FROM enrollments WHERE "+column+" = ?", id)
	if err != nil {
		return 0, fmt.Errorf("%s: exec: %w", op, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: rows affected: %w", op, err)
	}
	return int(n), nil
}
