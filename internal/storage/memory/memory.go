// Package memory is the default storage backend: every collection lives in
// process memory and is gone on restart.
//
// Each store keeps a map for id lookups plus a slice of ids that remembers
// insertion order, and guards both with its own sync.RWMutex so reads may
// overlap each other but never a write.
package memory

import (
	"github.com/juju/clock"

	"github.com/aanand-mishra/enrollment-api/internal/storage"
)

// Memory bundles the three in-memory stores.
type Memory struct {
	students    *StudentStore
	courses     *CourseStore
	enrollments *EnrollmentStore
}

var _ storage.Storage = (*Memory)(nil)

// New returns an empty in-memory backend. clk stamps timestamps and newID
// assigns student and course ids.
func New(clk clock.Clock, newID storage.IDGenerator) *Memory {
	return &Memory{
		students:    NewStudentStore(clk, newID),
		courses:     NewCourseStore(clk, newID),
		enrollments: NewEnrollmentStore(clk),
	}
}

func (m *Memory) Students() storage.StudentStore       { return m.students }
func (m *Memory) Courses() storage.CourseStore         { return m.courses }
func (m *Memory) Enrollments() storage.EnrollmentStore { return m.enrollments }

// Close is a no-op; there is nothing to release.
func (m *Memory) Close() error { return nil }

// removeID deletes the first occurrence of id from order.
func removeID(order []string, id string) []string {
	for i, v := range order {
		if v == id {
			return append(order[:i], order[i+1:]...)
		}
	}
	return order
}
