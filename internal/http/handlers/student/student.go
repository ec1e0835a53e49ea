// Package student contains all HTTP handlers related to the Student resource.
//
// HANDLER PATTERN: CLOSURE / FACTORY
// ────────────────────────────────────────────────────────────
// Each exported function receives its dependencies once, at route
// registration, and returns the http.HandlerFunc that runs on every
// request:
//
//	r.Post("/", student.New(coord, m))
//
// Writes go through the coordinator because they carry the email
// uniqueness rule and the enrollment cascade; plain reads go straight to
// the StudentStore.
package student

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

// ─────────────────────────────────────────────────────────────────────────────
// New handles POST /api/students
//
// Request body (JSON):
//
//	{ "fullName": "Ana Reyes", "email": "ana.reyes@email.com", "age": 19 }
//
// Responses: 201 with the created student, 400 on a bad body, 409 when the
// email is already taken.
// ─────────────────────────────────────────────────────────────────────────────
func New(coord *coordinator.Coordinator, m *metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("creating a student")

		var in types.StudentInput
		if err := request.Decode(w, r, &in); err != nil {
			response.WriteError(w, err)
			return
		}

		student, err := coord.CreateStudentUnique(in)
		if err != nil {
			fail(w, m, "error creating student", "", err)
			return
		}

		m.StudentsCreated.Inc()
		slog.Info("student created", slog.String("id", student.ID))
		response.WriteJSON(w, http.StatusCreated, response.OK("Student created successfully", student))
	}
}

// GetByID handles GET /api/students/{id}
func GetByID(students storage.StudentStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		slog.Info("getting a student", slog.String("id", id))

		student, err := students.GetByID(id)
		if err != nil {
			response.WriteError(w, err)
			return
		}
		response.WriteJSON(w, http.StatusOK, response.OK("Student retrieved successfully", student))
	}
}

// GetList handles GET /api/students
// Returns an empty array [] (not null) when there are no students.
func GetList(students storage.StudentStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("getting all students")

		all, err := students.GetAll()
		if err != nil {
			slog.Error("error getting students", slog.String("error", err.Error()))
			response.WriteError(w, err)
			return
		}
		response.WriteJSON(w, http.StatusOK, response.List("Students retrieved successfully", all))
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Update handles PUT /api/students/{id}
// A partial update: fields left out of the body keep their current value.
//
//	{ "email": "new@email.com" }
//
// Responses: 200 with the updated student, 400, 404, or 409 when the new
// email belongs to another student.
// ─────────────────────────────────────────────────────────────────────────────
func Update(coord *coordinator.Coordinator, m *metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		slog.Info("updating a student", slog.String("id", id))

		var patch types.StudentPatch
		if err := request.Decode(w, r, &patch); err != nil {
			response.WriteError(w, err)
			return
		}

		updated, err := coord.UpdateStudentUnique(id, patch)
		if err != nil {
			fail(w, m, "error updating student", id, err)
			return
		}

		slog.Info("student updated", slog.String("id", id))
		response.WriteJSON(w, http.StatusOK, response.OK("Student updated successfully", updated))
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Delete handles DELETE /api/students/{id}
// Removes the student and every enrollment that references it.
//
//	{ "status": "ok", "data": { ...student }, "enrollmentsRemoved": 2 }
// ─────────────────────────────────────────────────────────────────────────────
func Delete(coord *coordinator.Coordinator, m *metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		slog.Info("deleting a student", slog.String("id", id))

		deleted, removed, err := coord.DeleteStudentCascade(id)
		if err != nil {
			fail(w, m, "error deleting student", id, err)
			return
		}

		m.ObserveCascade(storage.KindStudent, removed)
		slog.Info("student deleted",
			slog.String("id", id),
			slog.Int("enrollmentsRemoved", removed))
		response.WriteJSON(w, http.StatusOK,
			response.Deleted("Student deleted successfully", deleted, removed))
	}
}

// fail logs unexpected errors, counts conflicts and writes the response.
func fail(w http.ResponseWriter, m *metrics.Metrics, msg, id string, err error) {
	var conflict *storage.ConflictError
	switch {
	case errors.As(err, &conflict):
		m.ObserveConflict(conflict.Reason)
	case !errors.Is(err, storage.ErrNotFound):
		slog.Error(msg, slog.String("id", id), slog.String("error", err.Error()))
	}
	response.WriteError(w, err)
}
