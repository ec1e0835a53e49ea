package storage

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aanand-mishra/enrollment-api/internal/types"
)

// IDGenerator supplies a globally unique opaque id on every call.
type IDGenerator func() string

// NewUUID is the default IDGenerator (random v4 UUIDs).
func NewUUID() string {
	return uuid.NewString()
}

// NormalizeEmail trims and lower-cases an email address. Both backends and
// the coordinator's uniqueness check go through it so they agree on the
// stored form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NewStudent builds a fresh student record from validated input.
func NewStudent(id string, in types.StudentInput, now time.Time) types.Student {
	return types.Student{
		ID:        id,
		FullName:  strings.TrimSpace(in.FullName),
		Email:     NormalizeEmail(in.Email),
		Age:       in.Age,
		CreatedAt: now,
	}
}

// MergeStudent applies the present, non-empty fields of p over s and
// stamps UpdatedAt, even when p is empty.
func MergeStudent(s types.Student, p types.StudentPatch, now time.Time) types.Student {
	if p.FullName != nil && strings.TrimSpace(*p.FullName) != "" {
		s.FullName = strings.TrimSpace(*p.FullName)
	}
	if p.Email != nil && strings.TrimSpace(*p.Email) != "" {
		s.Email = NormalizeEmail(*p.Email)
	}
	if p.Age != nil && *p.Age > 0 {
		s.Age = *p.Age
	}
	s.UpdatedAt = &now
	return s
}

// NewCourse builds a fresh course record from validated input.
func NewCourse(id string, in types.CourseInput, now time.Time) types.Course {
	return types.Course{
		ID:          id,
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Credits:     in.Credits,
		CreatedAt:   now,
	}
}

// MergeCourse is the course counterpart of MergeStudent.
func MergeCourse(c types.Course, p types.CoursePatch, now time.Time) types.Course {
	if p.Name != nil && strings.TrimSpace(*p.Name) != "" {
		c.Name = strings.TrimSpace(*p.Name)
	}
	if p.Description != nil && strings.TrimSpace(*p.Description) != "" {
		c.Description = strings.TrimSpace(*p.Description)
	}
	if p.Credits != nil && *p.Credits > 0 {
		c.Credits = *p.Credits
	}
	c.UpdatedAt = &now
	return c
}
