// Package types holds all shared data structures (models) used across
// the application. Keeping them in one place prevents import cycles:
// handlers, storage, the coordinator and utils can all import types
// without depending on each other.
//
// There are three kinds of struct here:
//
//  1. Records (Student, Course, Enrollment): what the stores own.
//  2. Inputs (StudentInput, ...): the already-validated fields of a create.
//  3. Patches (StudentPatch, CoursePatch): partial updates. Every field is
//     a pointer: nil means "not sent, keep the current value".
//
// Struct tags serve two purposes:
//
//  1. json:"..." controls how the field appears when encoded to JSON.
//  2. validate:"..." rules checked by the go-playground/validator package
//     (see internal/validation for the custom "notblank" rule).
package types

import "time"

// Student represents a student record in our system.
type Student struct {
	ID        string     `json:"id"`
	FullName  string     `json:"fullName"`
	Email     string     `json:"email"`
	Age       int        `json:"age"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// Course represents a course record. Course names are not unique.
type Course struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Credits     float64    `json:"credits"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

// Enrollment links one student to one course. Its identity is the
// (StudentID, CourseID) pair; enrollments are never updated.
type Enrollment struct {
	StudentID  string    `json:"studentId"`
	CourseID   string    `json:"courseId"`
	EnrolledAt time.Time `json:"enrolledAt"`
}

// EnrollmentView is an Enrollment joined with the display names of the
// student and course it references, resolved at read time.
type EnrollmentView struct {
	Enrollment
	StudentName string `json:"studentName"`
	CourseName  string `json:"courseName"`
}

// StudentInput carries the fields of a new student.
type StudentInput struct {
	FullName string `json:"fullName" validate:"required,notblank"`
	Email    string `json:"email"    validate:"required,email"`
	Age      int    `json:"age"      validate:"required,gt=0"`
}

// StudentPatch carries a partial student update.
type StudentPatch struct {
	FullName *string `json:"fullName" validate:"omitnil,notblank"`
	Email    *string `json:"email"    validate:"omitnil,email"`
	Age      *int    `json:"age"      validate:"omitnil,gt=0"`
}

// CourseInput carries the fields of a new course.
type CourseInput struct {
	Name        string  `json:"name"        validate:"required,notblank"`
	Description string  `json:"description" validate:"required,notblank"`
	Credits     float64 `json:"credits"     validate:"required,gt=0"`
}

// CoursePatch carries a partial course update.
type CoursePatch struct {
	Name        *string  `json:"name"        validate:"omitnil,notblank"`
	Description *string  `json:"description" validate:"omitnil,notblank"`
	Credits     *float64 `json:"credits"     validate:"omitnil,gt=0"`
}

// EnrollmentInput is the body of an enrollment request.
type EnrollmentInput struct {
	StudentID string `json:"studentId" validate:"required,notblank"`
	CourseID  string `json:"courseId"  validate:"required,notblank"`
}
