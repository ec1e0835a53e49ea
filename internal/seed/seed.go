// Package seed fills a fresh backend with a small sample data set so the
// API has something to show right after startup.
package seed

import (
	"fmt"

	"github.com/aanand-mishra/enrollment-api/internal/coordinator"
	"github.com/aanand-mishra/enrollment-api/internal/storage"
	"github.com/aanand-mishra/enrollment-api/internal/types"
)

var students = []types.StudentInput{
	{FullName: "Maria Santos", Email: "maria.santos@email.com", Age: 20},
	{FullName: "Juan Dela Cruz", Email: "juan.delacruz@email.com", Age: 22},
	{FullName: "Ana Reyes", Email: "ana.reyes@email.com", Age: 19},
	{FullName: "Carlos Garcia", Email: "carlos.garcia@email.com", Age: 21},
}

var courses = []types.CourseInput{
	{Name: "Introduction to Computer Science", Description: "Fundamentals of computing and programming", Credits: 3},
	{Name: "Data Structures", Description: "Arrays, linked lists, trees, graphs, and algorithms", Credits: 3},
	{Name: "Web Development", Description: "HTML, CSS, JavaScript, and modern frameworks", Credits: 4},
	{Name: "Database Management", Description: "SQL, NoSQL, and database design principles", Credits: 3},
}

// enrollments pairs indexes into students and courses: each student takes
// two courses.
var enrollments = [][2]int{
	{0, 0}, {0, 2},
	{1, 0}, {1, 1},
	{2, 1}, {2, 3},
	{3, 2}, {3, 3},
}

// Summary counts what Run created.
type Summary struct {
	Students    int
	Courses     int
	Enrollments int
}

// Run creates the sample data through the same paths the API uses, so every
// uniqueness and reference rule applies. Seeding a backend that already
// holds one of the sample emails fails with a conflict.
func Run(coord *coordinator.Coordinator, courseStore storage.CourseStore) (Summary, error) {
	var sum Summary

	studentIDs := make([]string, 0, len(students))
	for _, in := range students {
		s, err := coord.CreateStudentUnique(in)
		if err != nil {
			return sum, fmt.Errorf("seed: student %q: %w", in.Email, err)
		}
		studentIDs = append(studentIDs, s.ID)
		sum.Students++
	}

	courseIDs := make([]string, 0, len(courses))
	for _, in := range courses {
		c, err := courseStore.Create(in)
		if err != nil {
			return sum, fmt.Errorf("seed: course %q: %w", in.Name, err)
		}
		courseIDs = append(courseIDs, c.ID)
		sum.Courses++
	}

	for _, pair := range enrollments {
		if _, err := coord.EnrollStudent(studentIDs[pair[0]], courseIDs[pair[1]]); err != nil {
			return sum, fmt.Errorf("seed: enrollment %v: %w", pair, err)
		}
		sum.Enrollments++
	}

	return sum, nil
}
