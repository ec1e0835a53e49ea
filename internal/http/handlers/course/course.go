// Package course contains the HTTP handlers for the Course resource.
//
// Courses carry no uniqueness rule, so create, read and update talk to the
// CourseStore directly. Delete goes through the coordinator, which removes
// the course's enrollments with it.
package course

import (
	"errors"
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

// New handles POST /api/courses
//
//	{ "name": "Data Structures", "description": "Trees and graphs", "credits": 3 }
func New(courses storage.CourseStore, m *metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("creating a course")

		var in types.CourseInput
		if err := request.Decode(w, r, &in); err != nil {
			response.WriteError(w, err)
			return
		}

		course, err := courses.Create(in)
		if err != nil {
			slog.Error("error creating course", slog.String("error", err.Error()))
			response.WriteError(w, err)
			return
		}

		m.CoursesCreated.Inc()
		slog.Info("course created", slog.String("id", course.ID))
		response.WriteJSON(w, http.StatusCreated, response.OK("Course created successfully", course))
	}
}

// GetByID handles GET /api/courses/{id}
func GetByID(courses storage.CourseStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		slog.Info("getting a course", slog.String("id", id))

		course, err := courses.GetByID(id)
		if err != nil {
			response.WriteError(w, err)
			return
		}
		response.WriteJSON(w, http.StatusOK, response.OK("Course retrieved successfully", course))
	}
}

// GetList handles GET /api/courses
func GetList(courses storage.CourseStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("getting all courses")

		all, err := courses.GetAll()
		if err != nil {
			slog.Error("error getting courses", slog.String("error", err.Error()))
			response.WriteError(w, err)
			return
		}
		response.WriteJSON(w, http.StatusOK, response.List("Courses retrieved successfully", all))
	}
}

// Update handles PUT /api/courses/{id} as a partial update.
func Update(courses storage.CourseStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		slog.Info("updating a course", slog.String("id", id))

		var patch types.CoursePatch
		if err := request.Decode(w, r, &patch); err != nil {
			response.WriteError(w, err)
			return
		}

		updated, err := courses.Update(id, patch)
		if err != nil {
			if !errors.Is(err, storage.ErrNotFound) {
				slog.Error("error updating course", slog.String("id", id), slog.String("error", err.Error()))
			}
			response.WriteError(w, err)
			return
		}

		slog.Info("course updated", slog.String("id", id))
		response.WriteJSON(w, http.StatusOK, response.OK("Course updated successfully", updated))
	}
}

// Delete handles DELETE /api/courses/{id}
func Delete(coord *coordinator.Coordinator, m *metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		slog.Info("deleting a course", slog.String("id", id))

		deleted, removed, err := coord.DeleteCourseCascade(id)
		if err != nil {
			if !errors.Is(err, storage.ErrNotFound) {
				slog.Error("error deleting course", slog.String("id", id), slog.String("error", err.Error()))
			}
			response.WriteError(w, err)
			return
		}

		m.ObserveCascade(storage.KindCourse, removed)
		slog.Info("course deleted", slog.String("id", id), slog.Int("enrollmentsRemoved", removed))
		response.WriteJSON(w, http.StatusOK,
			response.Deleted("Course deleted successfully", deleted, removed))
	}
}
