package memory

import (
	"sync"

	"github.com/juju/clock"

	"github.com/aanand-mishra/enrollment-api/internal/storage"
	"github.com/aanand-mishra/enrollment-api/internal/types"
)

// StudentStore keeps student records in memory.
type StudentStore struct {
	mu      sync.RWMutex
	clock   clock.Clock
	newID   storage.IDGenerator
	records map[string]types.Student
	order   []string
}

var _ storage.StudentStore = (*StudentStore)(nil)

func NewStudentStore(clk clock.Clock, newID storage.IDGenerator) *StudentStore {
	return &StudentStore{
		clock:   clk,
		newID:   newID,
		records: make(map[string]types.Student),
	}
}

func (s *StudentStore) Create(in types.StudentInput) (types.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	student := storage.NewStudent(s.newID(), in, s.clock.Now().UTC())
	s.records[student.ID] = student
	s.order = append(s.order, student.ID)
	return student, nil
}

func (s *StudentStore) GetAll() ([]types.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	students := make([]types.Student, 0, len(s.order))
	for _, id := range s.order {
		students = append(students, s.records[id])
	}
	return students, nil
}

func (s *StudentStore) GetByID(id string) (types.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if student, ok := s.records[id]; ok {
		return student, nil
	}
	return types.Student{}, storage.NotFound(storage.KindStudent, id)
}

// GetByEmail scans in insertion order; email is compared as given.
func (s *StudentStore) GetByEmail(email string) (types.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range s.order {
		if student := s.records[id]; student.Email == email {
			return student, nil
		}
	}
	return types.Student{}, storage.ErrNotFound
}

func (s *StudentStore) Update(id string, patch types.StudentPatch) (types.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.records[id]
	if !ok {
		return types.Student{}, storage.NotFound(storage.KindStudent, id)
	}
	updated := storage.MergeStudent(current, patch, s.clock.Now().UTC())
	s.records[id] = updated
	return updated, nil
}

func (s *StudentStore) Remove(id string) (types.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	student, ok := s.records[id]
	if !ok {
		return types.Student{}, storage.NotFound(storage.KindStudent, id)
	}
	delete(s.records, id)
	s.order = removeID(s.order, id)
	return student, nil
}
