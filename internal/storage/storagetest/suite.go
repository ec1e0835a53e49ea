// Package storagetest holds the behavioural test suite every
// storage.Storage backend must pass. Backends run it from their own
// _test.go files:
//
//	func TestMemoryBackend(t *testing.T) {
//		suite.Run(t, storagetest.NewSuite(func(clk clock.Clock, ids storage.IDGenerator) (storage.Storage, error) {
//			return memory.New(clk, ids), nil
//		}))
//	}
package storagetest

import (
	"fmt"
	"time"

	"github.com/juju/clock"
	"github.com/juju/clock/testclock"
	"github.com/stretchr/testify/suite"

	"github.com/aanand-mishra/enrollment-api/internal/storage"
	"github.com/aanand-mishra/enrollment-api/internal/types"
)

// Factory builds a fresh, empty backend.
type Factory func(clk clock.Clock, newID storage.IDGenerator) (storage.Storage, error)

// Epoch is the time the suite's test clock starts at.
var Epoch = time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)

// SequentialIDs returns an IDGenerator yielding prefix-1, prefix-2, ...
func SequentialIDs(prefix string) storage.IDGenerator {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

// Suite is the shared store suite.
type Suite struct {
	suite.Suite
	factory Factory

	clock   *testclock.Clock
	storage storage.Storage
}

func NewSuite(factory Factory) *Suite {
	return &Suite{factory: factory}
}

func (s *Suite) SetupTest() {
	s.clock = testclock.NewClock(Epoch)
	st, err := s.factory(s.clock, SequentialIDs("id"))
	s.Require().NoError(err)
	s.storage = st
}

func (s *Suite) TearDownTest() {
	s.Require().NoError(s.storage.Close())
}

func ptr[T any](v T) *T { return &v }

func (s *Suite) createStudent(name, email string, age int) types.Student {
	student, err := s.storage.Students().Create(types.StudentInput{FullName: name, Email: email, Age: age})
	s.Require().NoError(err)
	return student
}

func (s *Suite) createCourse(name string) types.Course {
	course, err := s.storage.Courses().Create(types.CourseInput{Name: name, Description: name + " basics", Credits: 3})
	s.Require().NoError(err)
	return course
}

func (s *Suite) TestStudentCreateNormalises() {
	student := s.createStudent("  Ana Reyes ", " Ana.Reyes@X.com ", 19)

	s.Equal("id-1", student.ID)
	s.Equal("Ana Reyes", student.FullName)
	s.Equal("ana.reyes@x.com", student.Email)
	s.Equal(19, student.Age)
	s.True(Epoch.Equal(student.CreatedAt))
	s.Nil(student.UpdatedAt)

	found, err := s.storage.Students().GetByID(student.ID)
	s.Require().NoError(err)
	s.Equal("ana.reyes@x.com", found.Email)
	s.True(student.CreatedAt.Equal(found.CreatedAt))
}

func (s *Suite) TestStudentLookups() {
	s.Run("by email is exact on the stored value", func() {
		student := s.createStudent("Maria Santos", "Maria.Santos@Email.com", 20)

		found, err := s.storage.Students().GetByEmail("maria.santos@email.com")
		s.Require().NoError(err)
		s.Equal(student.ID, found.ID)

		_, err = s.storage.Students().GetByEmail("Maria.Santos@Email.com")
		s.ErrorIs(err, storage.ErrNotFound)
	})

	s.Run("unknown id is a NotFoundError", func() {
		_, err := s.storage.Students().GetByID("missing")
		s.Require().ErrorIs(err, storage.ErrNotFound)

		var nf *storage.NotFoundError
		s.Require().ErrorAs(err, &nf)
		s.Equal(storage.KindStudent, nf.Kind)
		s.Equal("missing", nf.ID)
	})
}

func (s *Suite) TestStudentGetAllKeepsInsertionOrder() {
	all, err := s.storage.Students().GetAll()
	s.Require().NoError(err)
	s.NotNil(all)
	s.Empty(all)

	a := s.createStudent("A", "a@x.com", 20)
	b := s.createStudent("B", "b@x.com", 21)
	c := s.createStudent("C", "c@x.com", 22)
	_, err = s.storage.Students().Remove(b.ID)
	s.Require().NoError(err)
	d := s.createStudent("D", "d@x.com", 23)

	all, err = s.storage.Students().GetAll()
	s.Require().NoError(err)
	s.Require().Len(all, 3)
	s.Equal([]string{a.ID, c.ID, d.ID}, []string{all[0].ID, all[1].ID, all[2].ID})
}

func (s *Suite) TestStudentUpdate() {
	student := s.createStudent("Juan Dela Cruz", "juan@email.com", 22)

	s.Run("merges present fields only", func() {
		s.clock.Advance(time.Minute)
		updated, err := s.storage.Students().Update(student.ID, types.StudentPatch{
			Email: ptr("  JUAN.dc@Email.com"),
			Age:   ptr(23),
		})
		s.Require().NoError(err)
		s.Equal(student.ID, updated.ID)
		s.Equal("Juan Dela Cruz", updated.FullName)
		s.Equal("juan.dc@email.com", updated.Email)
		s.Equal(23, updated.Age)
		s.True(student.CreatedAt.Equal(updated.CreatedAt))
		s.Require().NotNil(updated.UpdatedAt)
		s.True(Epoch.Add(time.Minute).Equal(*updated.UpdatedAt))
	})

	s.Run("empty patch only stamps updatedAt", func() {
		before, err := s.storage.Students().GetByID(student.ID)
		s.Require().NoError(err)

		s.clock.Advance(time.Hour)
		updated, err := s.storage.Students().Update(student.ID, types.StudentPatch{})
		s.Require().NoError(err)
		s.Equal(before.FullName, updated.FullName)
		s.Equal(before.Email, updated.Email)
		s.Equal(before.Age, updated.Age)
		s.Require().NotNil(updated.UpdatedAt)
		s.True(s.clock.Now().Equal(*updated.UpdatedAt))

		stored, err := s.storage.Students().GetByID(student.ID)
		s.Require().NoError(err)
		s.Require().NotNil(stored.UpdatedAt)
		s.True(updated.UpdatedAt.Equal(*stored.UpdatedAt))
	})

	s.Run("blank values are ignored", func() {
		updated, err := s.storage.Students().Update(student.ID, types.StudentPatch{
			FullName: ptr("   "),
			Age:      ptr(0),
		})
		s.Require().NoError(err)
		s.Equal("Juan Dela Cruz", updated.FullName)
		s.Equal(23, updated.Age)
	})

	s.Run("unknown id", func() {
		_, err := s.storage.Students().Update("missing", types.StudentPatch{})
		s.ErrorIs(err, storage.ErrNotFound)
	})
}

func (s *Suite) TestStudentRemove() {
	student := s.createStudent("Carlos Garcia", "carlos@email.com", 21)

	removed, err := s.storage.Students().Remove(student.ID)
	s.Require().NoError(err)
	s.Equal(student.ID, removed.ID)

	_, err = s.storage.Students().GetByID(student.ID)
	s.ErrorIs(err, storage.ErrNotFound)

	_, err = s.storage.Students().Remove(student.ID)
	s.ErrorIs(err, storage.ErrNotFound)
}

func (s *Suite) TestCourseLifecycle() {
	course, err := s.storage.Courses().Create(types.CourseInput{
		Name:        " Data Structures ",
		Description: " Arrays, trees and graphs ",
		Credits:     3.5,
	})
	s.Require().NoError(err)
	s.Equal("Data Structures", course.Name)
	s.Equal("Arrays, trees and graphs", course.Description)
	s.Equal(3.5, course.Credits)

	twin := s.createCourse("Data Structures")
	all, err := s.storage.Courses().GetAll()
	s.Require().NoError(err)
	s.Require().Len(all, 2, "course names are not unique")
	s.Equal(course.ID, all[0].ID)
	s.Equal(twin.ID, all[1].ID)

	s.clock.Advance(time.Second)
	updated, err := s.storage.Courses().Update(course.ID, types.CoursePatch{Credits: ptr(4.0)})
	s.Require().NoError(err)
	s.Equal("Data Structures", updated.Name)
	s.Equal(4.0, updated.Credits)
	s.Require().NotNil(updated.UpdatedAt)

	removed, err := s.storage.Courses().Remove(course.ID)
	s.Require().NoError(err)
	s.Equal(course.ID, removed.ID)

	_, err = s.storage.Courses().GetByID(course.ID)
	var nf *storage.NotFoundError
	s.Require().ErrorAs(err, &nf)
	s.Equal(storage.KindCourse, nf.Kind)

	_, err = s.storage.Courses().Update(course.ID, types.CoursePatch{})
	s.ErrorIs(err, storage.ErrNotFound)
	_, err = s.storage.Courses().Remove(course.ID)
	s.ErrorIs(err, storage.ErrNotFound)
}

func (s *Suite) TestEnrollments() {
	es := s.storage.Enrollments()

	all, err := es.GetAll()
	s.Require().NoError(err)
	s.NotNil(all)
	s.Empty(all)

	// The store itself never validates ids.
	e1, err := es.Create("s1", "c1")
	s.Require().NoError(err)
	s.True(Epoch.Equal(e1.EnrolledAt))
	s.clock.Advance(time.Second)
	_, err = es.Create("s1", "c2")
	s.Require().NoError(err)
	_, err = es.Create("s2", "c1")
	s.Require().NoError(err)
	_, err = es.Create("s3", "c3")
	s.Require().NoError(err)

	ok, err := es.Exists("s1", "c2")
	s.Require().NoError(err)
	s.True(ok)
	ok, err = es.Exists("s2", "c2")
	s.Require().NoError(err)
	s.False(ok)

	byStudent, err := es.GetByStudentID("s1")
	s.Require().NoError(err)
	s.Require().Len(byStudent, 2)
	s.Equal("c1", byStudent[0].CourseID)
	s.Equal("c2", byStudent[1].CourseID)

	byCourse, err := es.GetByCourseID("c1")
	s.Require().NoError(err)
	s.Require().Len(byCourse, 2)
	s.Equal("s1", byCourse[0].StudentID)
	s.Equal("s2", byCourse[1].StudentID)

	n, err := es.RemoveByStudentID("s1")
	s.Require().NoError(err)
	s.Equal(2, n)

	n, err = es.RemoveByStudentID("s1")
	s.Require().NoError(err)
	s.Equal(0, n)

	n, err = es.RemoveByCourseID("c1")
	s.Require().NoError(err)
	s.Equal(1, n)

	all, err = es.GetAll()
	s.Require().NoError(err)
	s.Require().Len(all, 1)
	s.Equal("s3", all[0].StudentID)
	s.Equal("c3", all[0].CourseID)
	s.True(Epoch.Add(time.Second).Equal(all[0].EnrolledAt))
}
