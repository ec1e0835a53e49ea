// Package coordinator enforces the rules that span more than one store:
// email uniqueness, enrollment references, duplicate enrollments and
// cascading deletes. It holds no data of its own.
//
// Every compound operation runs under the coordinator's lock, so a check
// and the write that depends on it can never interleave with another
// compound operation. In particular an EnrollStudent cannot slip between a
// student delete and the cascade that follows it. Plain reads take the
// read side of the lock and may run together.
package coordinator

import (
	"errors"
	"fmt"
	"sync"

	"github.com/aanand-mishra/enrollment-api/internal/storage"
	"github.com/aanand-mishra/enrollment-api/internal/types"
)

// UnknownName replaces the display name of a student or course that an
// enrollment still references but that no longer exists.
const UnknownName = "Unknown"

// Coordinator orchestrates calls across the three stores.
type Coordinator struct {
	mu          sync.RWMutex
	students    storage.StudentStore
	courses     storage.CourseStore
	enrollments storage.EnrollmentStore
}

// New returns a Coordinator over the stores of st.
func New(st storage.Storage) *Coordinator {
	return &Coordinator{
		students:    st.Students(),
		courses:     st.Courses(),
		enrollments: st.Enrollments(),
	}
}

// CreateStudentUnique creates a student unless another student already
// owns the (normalised) email.
func (c *Coordinator) CreateStudentUnique(in types.StudentInput) (types.Student, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.checkEmailFree(in.Email); err != nil {
		return types.Student{}, err
	}
	return c.students.Create(in)
}

// UpdateStudentUnique applies patch to the student. The email uniqueness
// check only runs when the incoming email differs from the current one
// ignoring case.
func (c *Coordinator) UpdateStudentUnique(id string, patch types.StudentPatch) (types.Student, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	current, err := c.students.GetByID(id)
	if err != nil {
		return types.Student{}, err
	}
	if patch.Email != nil && storage.NormalizeEmail(*patch.Email) != "" &&
		storage.NormalizeEmail(*patch.Email) != current.Email {
		if err := c.checkEmailFree(*patch.Email); err != nil {
			return types.Student{}, err
		}
	}
	return c.students.Update(id, patch)
}

func (c *Coordinator) checkEmailFree(email string) error {
	_, err := c.students.GetByEmail(storage.NormalizeEmail(email))
	switch {
	case err == nil:
		return &storage.ConflictError{
			Reason:  storage.ReasonDuplicateEmail,
			Message: fmt.Sprintf("A student with email %q already exists", storage.NormalizeEmail(email)),
		}
	case errors.Is(err, storage.ErrNotFound):
		return nil
	default:
		return fmt.Errorf("checkEmailFree: %w", err)
	}
}

// EnrollStudent links a student to a course. Checks run in a fixed order
// and the first failure wins: student exists, course exists, pair not
// already enrolled.
func (c *Coordinator) EnrollStudent(studentID, courseID string) (types.EnrollmentView, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	student, err := c.students.GetByID(studentID)
	if err != nil {
		return types.EnrollmentView{}, err
	}
	course, err := c.courses.GetByID(courseID)
	if err != nil {
		return types.EnrollmentView{}, err
	}

	exists, err := c.enrollments.Exists(studentID, courseID)
	if err != nil {
		return types.EnrollmentView{}, fmt.Errorf("EnrollStudent: exists: %w", err)
	}
	if exists {
		return types.EnrollmentView{}, &storage.ConflictError{
			Reason:  storage.ReasonDuplicateEnrollment,
			Message: fmt.Sprintf("Student %q is already enrolled in %q", student.FullName, course.Name),
		}
	}

	enrollment, err := c.enrollments.Create(studentID, courseID)
	if err != nil {
		return types.EnrollmentView{}, fmt.Errorf("EnrollStudent: create: %w", err)
	}
	return types.EnrollmentView{
		Enrollment:  enrollment,
		StudentName: student.FullName,
		CourseName:  course.Name,
	}, nil
}

// DeleteStudentCascade removes the student and every enrollment that
// references it, returning the student and how many enrollments went.
func (c *Coordinator) DeleteStudentCascade(id string) (types.Student, int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	student, err := c.students.Remove(id)
	if err != nil {
		return types.Student{}, 0, err
	}
	removed, err := c.enrollments.RemoveByStudentID(id)
	if err != nil {
		return types.Student{}, 0, fmt.Errorf("DeleteStudentCascade: remove enrollments: %w", err)
	}
	return student, removed, nil
}

// DeleteCourseCascade is the course counterpart of DeleteStudentCascade.
func (c *Coordinator) DeleteCourseCascade(id string) (types.Course, int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	course, err := c.courses.Remove(id)
	if err != nil {
		return types.Course{}, 0, err
	}
	removed, err := c.enrollments.RemoveByCourseID(id)
	if err != nil {
		return types.Course{}, 0, fmt.Errorf("DeleteCourseCascade: remove enrollments: %w", err)
	}
	return course, removed, nil
}

// ListEnrollmentsEnriched returns every enrollment joined with the current
// student and course names.
func (c *Coordinator) ListEnrollmentsEnriched() ([]types.EnrollmentView, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	enrollments, err := c.enrollments.GetAll()
	if err != nil {
		return nil, fmt.Errorf("ListEnrollmentsEnriched: %w", err)
	}
	return c.enrich(enrollments), nil
}

// ListEnrollmentsForStudent returns the enrollments of one student. The
// student must exist; the courses it points at need not.
func (c *Coordinator) ListEnrollmentsForStudent(id string) (types.Student, []types.EnrollmentView, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	student, err := c.students.GetByID(id)
	if err != nil {
		return types.Student{}, nil, err
	}
	enrollments, err := c.enrollments.GetByStudentID(id)
	if err != nil {
		return types.Student{}, nil, fmt.Errorf("ListEnrollmentsForStudent: %w", err)
	}
	return student, c.enrich(enrollments), nil
}

// ListEnrollmentsForCourse returns the enrollments of one course.
func (c *Coordinator) ListEnrollmentsForCourse(id string) (types.Course, []types.EnrollmentView, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	course, err := c.courses.GetByID(id)
	if err != nil {
		return types.Course{}, nil, err
	}
	enrollments, err := c.enrollments.GetByCourseID(id)
	if err != nil {
		return types.Course{}, nil, fmt.Errorf("ListEnrollmentsForCourse: %w", err)
	}
	return course, c.enrich(enrollments), nil
}

// enrich never fails: a lookup error of any kind yields UnknownName.
func (c *Coordinator) enrich(enrollments []types.Enrollment) []types.EnrollmentView {
	views := make([]types.EnrollmentView, 0, len(enrollments))
	for _, e := range enrollments {
		view := types.EnrollmentView{Enrollment: e, StudentName: UnknownName, CourseName: UnknownName}
		if student, err := c.students.GetByID(e.StudentID); err == nil {
			view.StudentName = student.FullName
		}
		if course, err := c.courses.GetByID(e.CourseID); err == nil {
			view.CourseName = course.Name
		}
		views = append(views, view)
	}
	return views
}
