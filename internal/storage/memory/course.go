package memory

import (
	"sync"

	"github.com/juju/clock"

	"github.com/aanand-mishra/enrollment-api/internal/storage"
	"github.com/aanand-mishra/enrollment-api/internal/types"
)

// CourseStore keeps course records in memory.
type CourseStore struct {
	mu      sync.RWMutex
	clock   clock.Clock
	newID   storage.IDGenerator
	records map[string]types.Course
	order   []string
}

var _ storage.CourseStore = (*CourseStore)(nil)

func NewCourseStore(clk clock.Clock, newID storage.IDGenerator) *CourseStore {
	return &CourseStore{
		clock:   clk,
		newID:   newID,
		records: make(map[string]types.Course),
	}
}

func (s *CourseStore) Create(in types.CourseInput) (types.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	course := storage.NewCourse(s.newID(), in, s.clock.Now().UTC())
	s.records[course.ID] = course
	s.order = append(s.order, course.ID)
	return course, nil
}

func (s *CourseStore) GetAll() ([]types.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	courses := make([]types.Course, 0, len(s.order))
	for _, id := range s.order {
		courses = append(courses, s.records[id])
	}
	return courses, nil
}

func (s *CourseStore) GetByID(id string) (types.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if course, ok := s.records[id]; ok {
		return course, nil
	}
	return types.Course{}, storage.NotFound(storage.KindCourse, id)
}

func (s *CourseStore) Update(id string, patch types.CoursePatch) (types.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.records[id]
	if !ok {
		return types.Course{}, storage.NotFound(storage.KindCourse, id)
	}
	updated := storage.MergeCourse(current, patch, s.clock.Now().UTC())
	s.records[id] = updated
	return updated, nil
}

func (s *CourseStore) Remove(id string) (types.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	course, ok := s.records[id]
	if !ok {
		return types.Course{}, storage.NotFound(storage.KindCourse, id)
	}
	delete(s.records, id)
	s.order = removeID(s.order, id)
	return course, nil
}
