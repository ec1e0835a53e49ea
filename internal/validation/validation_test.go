package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/enrollment-api/internal/types"
)

func ptr[T any](v T) *T { return &v }

func TestStudentInput(t *testing.T) {
	tests := []struct {
		name    string
		in      types.StudentInput
		details []string
	}{
		{
			name: "valid",
			in:   types.StudentInput{FullName: "Ana Reyes", Email: "Ana.Reyes@X.com", Age: 19},
		},
		{
			name:    "everything missing",
			in:      types.StudentInput{},
			details: []string{"field fullName is required", "field email is required", "field age is required"},
		},
		{
			name:    "blank name, bad email, negative age",
			in:      types.StudentInput{FullName: "   ", Email: "not-an-email", Age: -2},
			details: []string{"field fullName must be a non-empty string", "field email must be a valid email address", "field age must be greater than 0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.in)
			if tt.details == nil {
				require.NoError(t, err)
				return
			}
			var verr *Error
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.details, verr.Details)
		})
	}
}

func TestPatchesSkipAbsentFields(t *testing.T) {
	require.NoError(t, Struct(types.StudentPatch{}))
	require.NoError(t, Struct(types.CoursePatch{Credits: ptr(1.5)}))

	err := Struct(types.StudentPatch{FullName: ptr(""), Age: ptr(0)})
	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"field fullName must be a non-empty string", "field age must be greater than 0"}, verr.Details)
}

func TestCourseAndEnrollmentInput(t *testing.T) {
	require.NoError(t, Struct(types.CourseInput{Name: "Databases", Description: "SQL", Credits: 3}))

	err := Struct(types.CourseInput{Name: "Databases", Description: " ", Credits: -1})
	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Details, 2)

	err = Struct(types.EnrollmentInput{StudentID: "s1"})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"field courseId is required"}, verr.Details)
	assert.EqualError(t, err, "validation failed: field courseId is required")
}

func TestNonStructIsNotAValidationError(t *testing.T) {
	err := Struct(42)
	require.Error(t, err)
	var verr *Error
	assert.NotErrorAs(t, err, &verr)
}
