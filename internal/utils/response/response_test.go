package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/enrollment-api/internal/storage"
	"github.com/aanand-mishra/enrollment-api/internal/validation"
)

func TestFromError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", &validation.Error{Details: []string{"field age is required"}}, http.StatusBadRequest},
		{"not found", storage.NotFound(storage.KindStudent, "x"), http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("lookup: %w", storage.NotFound(storage.KindCourse, "y")), http.StatusNotFound},
		{"conflict", &storage.ConflictError{Reason: storage.ReasonDuplicateEmail, Message: "taken"}, http.StatusConflict},
		{"other", errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := FromError(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, StatusError, body.Status)
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestListEncodesEmptySliceAndCount(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, WriteJSON(rec, http.StatusOK, List("none", []string{})))

	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, []any{}, got["data"])
	assert.Equal(t, float64(0), got["count"])
	assert.NotContains(t, got, "error")
}

func TestNotFoundMessage(t *testing.T) {
	_, body := FromError(storage.NotFound(storage.KindStudent, "abc"))
	assert.Equal(t, `Student with ID "abc" not found`, body.Error)
}
