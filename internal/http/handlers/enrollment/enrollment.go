// Package enrollment contains the HTTP handlers for enrollments. All of
// them go through the coordinator: creation needs the existence and
// duplicate checks, listings need the name join.
package enrollment

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aanand-mishra/enrollment-api/internal/coordinator"
	"github.com/aanand-mishra/enrollment-api/internal/metrics"
	"github.com/aanand-mishra/enrollment-api/internal/storage"
	"github.com/aanand-mishra/enrollment-api/internal/types"
	"github.com/aanand-mishra/enrollment-api/internal/utils/request"
	"github.com/aanand-mishra/enrollment-api/internal/utils/response"
)

// New handles POST /api/enrollments
//
//	{ "studentId": "...", "courseId": "..." }
//
// Responses: 201 with the enrollment plus studentName/courseName, 404 when
// either side is missing (student checked first), 409 on a duplicate.
func New(coord *coordinator.Coordinator, m *metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("creating an enrollment")

		var in types.EnrollmentInput
		if err := request.Decode(w, r, &in); err != nil {
			response.WriteError(w, err)
			return
		}

		view, err := coord.EnrollStudent(in.StudentID, in.CourseID)
		if err != nil {
			var conflict *storage.ConflictError
			switch {
			case errors.As(err, &conflict):
				m.ObserveConflict(conflict.Reason)
			case !errors.Is(err, storage.ErrNotFound):
				slog.Error("error creating enrollment", slog.String("error", err.Error()))
			}
			response.WriteError(w, err)
			return
		}

		m.EnrollmentsCreated.Inc()
		slog.Info("enrollment created",
			slog.String("studentId", view.StudentID),
			slog.String("courseId", view.CourseID))
		response.WriteJSON(w, http.StatusCreated, response.OK("Enrollment created successfully", view))
	}
}

// GetList handles GET /api/enrollments
func GetList(coord *coordinator.Coordinator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("getting all enrollments")

		views, err := coord.ListEnrollmentsEnriched()
		if err != nil {
			slog.Error("error getting enrollments", slog.String("error", err.Error()))
			response.WriteError(w, err)
			return
		}
		response.WriteJSON(w, http.StatusOK, response.List("Enrollments retrieved successfully", views))
	}
}

// GetByStudent handles GET /api/enrollments/student/{id}
func GetByStudent(coord *coordinator.Coordinator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		slog.Info("getting enrollments for student", slog.String("id", id))

		student, views, err := coord.ListEnrollmentsForStudent(id)
		if err != nil {
			response.WriteError(w, err)
			return
		}
		response.WriteJSON(w, http.StatusOK,
			response.List(fmt.Sprintf("Enrollments for student %q", student.FullName), views))
	}
}

// GetByCourse handles GET /api/enrollments/course/{id}
func GetByCourse(coord *coordinator.Coordinator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		slog.Info("getting enrollments for course", slog.String("id", id))

		course, views, err := coord.ListEnrollmentsForCourse(id)
		if err != nil {
			response.WriteError(w, err)
			return
		}
		response.WriteJSON(w, http.StatusOK,
			response.List(fmt.Sprintf("Enrollments for course %q", course.Name), views))
	}
}
