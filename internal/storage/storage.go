// Package storage defines the store contracts: what any backend must
// satisfy to hold students, courses and enrollments for this application.
//
// WHY INTERFACES?
// ───────────────
// The coordinator and the HTTP handlers should not know or care which
// backend they are talking to. By depending only on these interfaces:
//
//   - Switching backends = implement the interfaces, change one line in
//     main.go (or one key in the config file). Zero handler changes.
//
//   - Writing tests = every backend runs the same behavioural suite
//     (see storage/storagetest).
//
// Each store exclusively owns its own collection. Stores never call each
// other; anything that spans two collections lives in the coordinator.
package storage

import "github.com/aanand-mishra/enrollment-api/internal/types"

// StudentStore owns student records.
type StudentStore interface {
	// Create assigns a new id, normalises FullName (trim) and Email
	// (trim + lower-case) and stamps CreatedAt. It does NOT check email
	// uniqueness. That policy belongs to the caller.
	Create(in types.StudentInput) (types.Student, error)

	// GetAll returns every student in insertion order. Returns an empty
	// slice (not nil) when there are none.
	GetAll() ([]types.Student, error)

	// GetByID returns a *NotFoundError when no student has that id.
	GetByID(id string) (types.Student, error)

	// GetByEmail is an exact-match lookup on the stored (already
	// lower-cased) email.
	GetByEmail(email string) (types.Student, error)

	// Update merges the non-nil, non-empty fields of patch over the stored
	// record and stamps UpdatedAt. ID and CreatedAt never change.
	Update(id string, patch types.StudentPatch) (types.Student, error)

	// Remove deletes the record and returns it. Enrollments are untouched.
	Remove(id string) (types.Student, error)
}

// CourseStore owns course records. Same shape as StudentStore without the
// email lookup.
type CourseStore interface {
	Create(in types.CourseInput) (types.Course, error)
	GetAll() ([]types.Course, error)
	GetByID(id string) (types.Course, error)
	Update(id string, patch types.CoursePatch) (types.Course, error)
	Remove(id string) (types.Course, error)
}

// EnrollmentStore owns enrollment records. It performs no validation of
// the ids it is given.
type EnrollmentStore interface {
	GetAll() ([]types.Enrollment, error)
	GetByStudentID(studentID string) ([]types.Enrollment, error)
	GetByCourseID(courseID string) ([]types.Enrollment, error)
	Exists(studentID, courseID string) (bool, error)
	Create(studentID, courseID string) (types.Enrollment, error)

	// RemoveByStudentID and RemoveByCourseID return how many records
	// were removed; zero is not an error.
	RemoveByStudentID(studentID string) (int, error)
	RemoveByCourseID(courseID string) (int, error)
}

// Storage is the aggregate a backend hands to the rest of the program.
type Storage interface {
	Students() StudentStore
	Courses() CourseStore
	Enrollments() EnrollmentStore

	// Close releases whatever the backend holds (a no-op in memory).
	Close() error
}
