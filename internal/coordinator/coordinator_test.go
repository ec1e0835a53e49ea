package coordinator

import (
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/juju/clock"
	"github.com/juju/clock/testclock"
	"github.com/stretchr/testify/suite"
	"golang.org/x/sync/errgroup"

	"github.com/aanand-mishra/enrollment-api/internal/storage"
	"github.com/aanand-mishra/enrollment-api/internal/storage/memory"
	"github.com/aanand-mishra/enrollment-api/internal/storage/storagetest"
	"github.com/aanand-mishra/enrollment-api/internal/types"
)

type CoordinatorSuite struct {
	suite.Suite
	storage *memory.Memory
	coord   *Coordinator
}

func TestCoordinatorSuite(t *testing.T) {
	suite.Run(t, new(CoordinatorSuite))
}

func (s *CoordinatorSuite) SetupTest() {
	s.storage = memory.New(testclock.NewClock(storagetest.Epoch), storagetest.SequentialIDs("id"))
	s.coord = New(s.storage)
}

func (s *CoordinatorSuite) student(name, email string) types.Student {
	student, err := s.coord.CreateStudentUnique(types.StudentInput{FullName: name, Email: email, Age: 20})
	s.Require().NoError(err)
	return student
}

func (s *CoordinatorSuite) course(name string) types.Course {
	course, err := s.storage.Courses().Create(types.CourseInput{Name: name, Description: "d", Credits: 3})
	s.Require().NoError(err)
	return course
}

func (s *CoordinatorSuite) enrollmentCount() int {
	all, err := s.storage.Enrollments().GetAll()
	s.Require().NoError(err)
	return len(all)
}

func (s *CoordinatorSuite) TestCreateStudentUnique() {
	s.Run("round trip lower-cases email", func() {
		created := s.student("Ana Reyes", "Ana.Reyes@X.com")

		found, err := s.storage.Students().GetByID(created.ID)
		s.Require().NoError(err)
		s.Equal("ana.reyes@x.com", found.Email)

		byEmail, err := s.storage.Students().GetByEmail("ana.reyes@x.com")
		s.Require().NoError(err)
		s.Equal(created.ID, byEmail.ID)
	})

	s.Run("rejects an email differing only by case", func() {
		_, err := s.coord.CreateStudentUnique(types.StudentInput{FullName: "Other", Email: " ANA.REYES@x.com", Age: 30})
		s.Require().ErrorIs(err, storage.ErrConflict)

		var conflict *storage.ConflictError
		s.Require().ErrorAs(err, &conflict)
		s.Equal(storage.ReasonDuplicateEmail, conflict.Reason)

		all, err := s.storage.Students().GetAll()
		s.Require().NoError(err)
		s.Len(all, 1)
	})
}

func (s *CoordinatorSuite) TestUpdateStudentUnique() {
	ana := s.student("Ana Reyes", "ana@x.com")
	juan := s.student("Juan Dela Cruz", "juan@x.com")

	s.Run("same email with different case is not a conflict", func() {
		updated, err := s.coord.UpdateStudentUnique(ana.ID, types.StudentPatch{Email: ptr("ANA@X.COM")})
		s.Require().NoError(err)
		s.Equal("ana@x.com", updated.Email)
	})

	s.Run("taking another student's email is a conflict", func() {
		_, err := s.coord.UpdateStudentUnique(ana.ID, types.StudentPatch{Email: ptr("Juan@X.com")})
		s.Require().ErrorIs(err, storage.ErrConflict)

		unchanged, err := s.storage.Students().GetByID(ana.ID)
		s.Require().NoError(err)
		s.Equal("ana@x.com", unchanged.Email)

		owner, err := s.storage.Students().GetByEmail("juan@x.com")
		s.Require().NoError(err)
		s.Equal(juan.ID, owner.ID)
	})

	s.Run("a free email is applied", func() {
		updated, err := s.coord.UpdateStudentUnique(ana.ID, types.StudentPatch{Email: ptr("ana.reyes@x.com"), FullName: ptr("Ana R.")})
		s.Require().NoError(err)
		s.Equal("ana.reyes@x.com", updated.Email)
		s.Equal("Ana R.", updated.FullName)
	})

	s.Run("unknown student", func() {
		_, err := s.coord.UpdateStudentUnique("missing", types.StudentPatch{})
		s.ErrorIs(err, storage.ErrNotFound)
	})
}

func (s *CoordinatorSuite) TestEnrollStudentCheckOrder() {
	st := s.student("Maria Santos", "maria@x.com")
	c := s.course("Web Development")

	cases := []struct {
		name      string
		studentID string
		courseID  string
		kind      string
	}{
		{"both missing reports the student", "nobody", "nothing", storage.KindStudent},
		{"missing student", "nobody", c.ID, storage.KindStudent},
		{"missing course", st.ID, "nothing", storage.KindCourse},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			_, err := s.coord.EnrollStudent(tc.studentID, tc.courseID)
			var nf *storage.NotFoundError
			s.Require().ErrorAs(err, &nf)
			s.Equal(tc.kind, nf.Kind)

			ok, err := s.storage.Enrollments().Exists(tc.studentID, tc.courseID)
			s.Require().NoError(err)
			s.False(ok)
			s.Equal(0, s.enrollmentCount())
		})
	}
}

func (s *CoordinatorSuite) TestEnrollStudentDuplicate() {
	st := s.student("Maria Santos", "maria@x.com")
	c := s.course("Web Development")

	view, err := s.coord.EnrollStudent(st.ID, c.ID)
	s.Require().NoError(err)
	s.Equal(st.ID, view.StudentID)
	s.Equal(c.ID, view.CourseID)
	s.Equal("Maria Santos", view.StudentName)
	s.Equal("Web Development", view.CourseName)
	s.True(storagetest.Epoch.Equal(view.EnrolledAt))

	_, err = s.coord.EnrollStudent(st.ID, c.ID)
	s.Require().ErrorIs(err, storage.ErrConflict)
	var conflict *storage.ConflictError
	s.Require().ErrorAs(err, &conflict)
	s.Equal(storage.ReasonDuplicateEnrollment, conflict.Reason)
	s.Equal(1, s.enrollmentCount())
}

func (s *CoordinatorSuite) TestScenario() {
	s1 := s.student("S One", "one@x.com")
	s2 := s.student("S Two", "two@x.com")
	c1 := s.course("C1")

	_, err := s.coord.EnrollStudent(s1.ID, c1.ID)
	s.Require().NoError(err)
	_, err = s.coord.EnrollStudent(s2.ID, c1.ID)
	s.Require().NoError(err)

	_, err = s.coord.EnrollStudent(s1.ID, c1.ID)
	s.Require().ErrorIs(err, storage.ErrConflict)

	deleted, removed, err := s.coord.DeleteStudentCascade(s1.ID)
	s.Require().NoError(err)
	s.Equal(s1.ID, deleted.ID)
	s.Equal(1, removed)

	ok, err := s.storage.Enrollments().Exists(s1.ID, c1.ID)
	s.Require().NoError(err)
	s.False(ok)

	ok, err = s.storage.Enrollments().Exists(s2.ID, c1.ID)
	s.Require().NoError(err)
	s.True(ok, "other students' enrollments are kept")
}

func (s *CoordinatorSuite) TestDeleteCascades() {
	a := s.student("A", "a@x.com")
	b := s.student("B", "b@x.com")
	c1 := s.course("C1")
	c2 := s.course("C2")
	for _, pair := range [][2]string{{a.ID, c1.ID}, {a.ID, c2.ID}, {b.ID, c1.ID}} {
		_, err := s.coord.EnrollStudent(pair[0], pair[1])
		s.Require().NoError(err)
	}

	s.Run("student", func() {
		_, removed, err := s.coord.DeleteStudentCascade(a.ID)
		s.Require().NoError(err)
		s.Equal(2, removed)
		s.Equal(1, s.enrollmentCount())
	})

	s.Run("course with nothing left still succeeds", func() {
		_, removed, err := s.coord.DeleteCourseCascade(c2.ID)
		s.Require().NoError(err)
		s.Equal(0, removed)
	})

	s.Run("course", func() {
		deleted, removed, err := s.coord.DeleteCourseCascade(c1.ID)
		s.Require().NoError(err)
		s.Equal(c1.ID, deleted.ID)
		s.Equal(1, removed)
		s.Equal(0, s.enrollmentCount())
	})

	s.Run("missing ids", func() {
		_, _, err := s.coord.DeleteStudentCascade(a.ID)
		s.ErrorIs(err, storage.ErrNotFound)
		_, _, err = s.coord.DeleteCourseCascade(c1.ID)
		s.ErrorIs(err, storage.ErrNotFound)
	})
}

func (s *CoordinatorSuite) TestListingsTolerateDanglingReferences() {
	st := s.student("Ana Reyes", "ana@x.com")
	c := s.course("Databases")
	_, err := s.coord.EnrollStudent(st.ID, c.ID)
	s.Require().NoError(err)

	// Bypass the coordinator to leave stale references behind.
	_, err = s.storage.Enrollments().Create("ghost-student", c.ID)
	s.Require().NoError(err)
	_, err = s.storage.Enrollments().Create(st.ID, "ghost-course")
	s.Require().NoError(err)

	views, err := s.coord.ListEnrollmentsEnriched()
	s.Require().NoError(err)
	s.Require().Len(views, 3)
	s.Equal("Ana Reyes", views[0].StudentName)
	s.Equal("Databases", views[0].CourseName)
	s.Equal(UnknownName, views[1].StudentName)
	s.Equal("Databases", views[1].CourseName)
	s.Equal("Ana Reyes", views[2].StudentName)
	s.Equal(UnknownName, views[2].CourseName)

	student, forStudent, err := s.coord.ListEnrollmentsForStudent(st.ID)
	s.Require().NoError(err)
	s.Equal(st.ID, student.ID)
	s.Require().Len(forStudent, 2)
	s.Equal(UnknownName, forStudent[1].CourseName)

	course, forCourse, err := s.coord.ListEnrollmentsForCourse(c.ID)
	s.Require().NoError(err)
	s.Equal(c.ID, course.ID)
	s.Len(forCourse, 2)

	_, _, err = s.coord.ListEnrollmentsForStudent("ghost-student")
	s.ErrorIs(err, storage.ErrNotFound)
	_, _, err = s.coord.ListEnrollmentsForCourse("ghost-course")
	s.ErrorIs(err, storage.ErrNotFound)
}

func (s *CoordinatorSuite) TestConcurrentCallersKeepInvariants() {
	coord := New(memory.New(clock.WallClock, storage.NewUUID))

	var created, conflicts atomic.Int32
	var g errgroup.Group
	for i := 0; i < 32; i++ {
		g.Go(func() error {
			_, err := coord.CreateStudentUnique(types.StudentInput{FullName: "Same", Email: "same@x.com", Age: 20})
			switch {
			case err == nil:
				created.Add(1)
			case errors.Is(err, storage.ErrConflict):
				conflicts.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	s.Require().NoError(g.Wait())
	s.Equal(int32(1), created.Load())
	s.Equal(int32(31), conflicts.Load())

	st, err := coord.CreateStudentUnique(types.StudentInput{FullName: "Racer", Email: "racer@x.com", Age: 20})
	s.Require().NoError(err)
	c, err := coord.courses.Create(types.CourseInput{Name: "Race", Description: "d", Credits: 1})
	s.Require().NoError(err)

	var enrolled atomic.Int32
	var race errgroup.Group
	for i := 0; i < 32; i++ {
		race.Go(func() error {
			_, err := coord.EnrollStudent(st.ID, c.ID)
			if err == nil {
				enrolled.Add(1)
				return nil
			}
			if errors.Is(err, storage.ErrConflict) || errors.Is(err, storage.ErrNotFound) {
				return nil
			}
			return fmt.Errorf("unexpected: %w", err)
		})
	}
	race.Go(func() error {
		_, _, err := coord.DeleteStudentCascade(st.ID)
		return err
	})
	s.Require().NoError(race.Wait())
	s.LessOrEqual(enrolled.Load(), int32(1))

	// Whatever the interleaving, no enrollment may outlive its student.
	left, err := coord.enrollments.GetByStudentID(st.ID)
	s.Require().NoError(err)
	s.Empty(left)
}

func ptr[T any](v T) *T { return &v }
