package memory

import (
	"sync"

	"github.com/juju/clock"

	"github.com/aanand-mishra/enrollment-api/internal/storage"
	"github.com/aanand-mishra/enrollment-api/internal/types"
)

// EnrollmentStore keeps enrollments in a slice; every lookup is a linear
// scan in insertion order.
type EnrollmentStore struct {
	mu      sync.RWMutex
	clock   clock.Clock
	records []types.Enrollment
}

var _ storage.EnrollmentStore = (*EnrollmentStore)(nil)

func NewEnrollmentStore(clk clock.Clock) *EnrollmentStore {
	return &EnrollmentStore{clock: clk}
}

func (s *EnrollmentStore) GetAll() ([]types.Enrollment, error) {
	return s.filter(func(types.Enrollment) bool { return true }), nil
}

func (s *EnrollmentStore) GetByStudentID(studentID string) ([]types.Enrollment, error) {
	return s.filter(func(e types.Enrollment) bool { return e.StudentID == studentID }), nil
}

func (s *EnrollmentStore) GetByCourseID(courseID string) ([]types.Enrollment, error) {
	return s.filter(func(e types.Enrollment) bool { return e.CourseID == courseID }), nil
}

func (s *EnrollmentStore) Exists(studentID, courseID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, e := range s.records {
		if e.StudentID == studentID && e.CourseID == courseID {
			return true, nil
		}
	}
	return false, nil
}

func (s *EnrollmentStore) Create(studentID, courseID string) (types.Enrollment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	enrollment := types.Enrollment{
		StudentID:  studentID,
		CourseID:   courseID,
		EnrolledAt: s.clock.Now().UTC(),
	}
	s.records = append(s.records, enrollment)
	return enrollment, nil
}

func (s *EnrollmentStore) RemoveByStudentID(studentID string) (int, error) {
	return s.removeWhere(func(e types.Enrollment) bool { return e.StudentID == studentID }), nil
}

func (s *EnrollmentStore) RemoveByCourseID(courseID string) (int, error) {
	return s.removeWhere(func(e types.Enrollment) bool { return e.CourseID == courseID }), nil
}

func (s *EnrollmentStore) filter(keep func(types.Enrollment) bool) []types.Enrollment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.Enrollment, 0)
	for _, e := range s.records {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

// removeWhere compacts records in place and returns how many were dropped.
func (s *EnrollmentStore) removeWhere(drop func(types.Enrollment) bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.records[:0]
	for _, e := range s.records {
		if !drop(e) {
			kept = append(kept, e)
		}
	}
	removed := len(s.records) - len(kept)
	clear(s.records[len(kept):])
	s.records = kept
	return removed
}
