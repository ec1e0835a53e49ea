// Package router wires every HTTP route to its handler.
//
// Route table:
//
//	GET    /                              → health check + endpoint map
//	POST   /api/students                  → create a student
//	GET    /api/students                  → list students
//	GET    /api/students/{id}             → get one student
//	PUT    /api/students/{id}             → partial update
//	DELETE /api/students/{id}             → delete + cascade enrollments
//	POST   /api/courses                   → create a course
//	GET    /api/courses                   → list courses
//	GET    /api/courses/{id}              → get one course
//	PUT    /api/courses/{id}              → partial update
//	DELETE /api/courses/{id}              → delete + cascade enrollments
//	POST   /api/enrollments               → enroll a student in a course
//	GET    /api/enrollments               → list enrollments with names
//	GET    /api/enrollments/student/{id}  → enrollments of one student
//	GET    /api/enrollments/course/{id}   → enrollments of one course
//	GET    /metrics                       → Prometheus exposition
package router

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aanand-mishra/enrollment-api/internal/coordinator"
	"github.com/aanand-mishra/enrollment-api/internal/http/handlers/course"
	"github.com/aanand-mishra/enrollment-api/internal/http/handlers/enrollment"
	"github.com/aanand-mishra/enrollment-api/internal/http/handlers/student"
	"github.com/aanand-mishra/enrollment-api/internal/http/middleware"
	"github.com/aanand-mishra/enrollment-api/internal/metrics"
	"github.com/aanand-mishra/enrollment-api/internal/storage"
	"github.com/aanand-mishra/enrollment-api/internal/utils/response"
)

// Deps is everything the handlers close over.
type Deps struct {
	Log         *slog.Logger
	Storage     storage.Storage
	Coordinator *coordinator.Coordinator
	Metrics     *metrics.Metrics
	Gatherer    prometheus.Gatherer
}

// New builds the application's http.Handler.
func New(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.Logger(d.Log))
	r.Use(chimw.Recoverer)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.WriteJSON(w, http.StatusNotFound,
			response.GeneralError(fmt.Errorf("Route %s %s not found", r.Method, r.URL.Path)))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.WriteJSON(w, http.StatusMethodNotAllowed,
			response.GeneralError(fmt.Errorf("Method %s not allowed on %s", r.Method, r.URL.Path)))
	})

	r.Get("/", health)
	r.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))

	students := d.Storage.Students()
	courses := d.Storage.Courses()

	r.Route("/api/students", func(r chi.Router) {
		r.Post("/", student.New(d.Coordinator, d.Metrics))
		r.Get("/", student.GetList(students))
		r.Get("/{id}", student.GetByID(students))
		r.Put("/{id}", student.Update(d.Coordinator, d.Metrics))
		r.Delete("/{id}", student.Delete(d.Coordinator, d.Metrics))
	})

	r.Route("/api/courses", func(r chi.Router) {
		r.Post("/", course.New(courses, d.Metrics))
		r.Get("/", course.GetList(courses))
		r.Get("/{id}", course.GetByID(courses))
		r.Put("/{id}", course.Update(courses))
		r.Delete("/{id}", course.Delete(d.Coordinator, d.Metrics))
	})

	r.Route("/api/enrollments", func(r chi.Router) {
		r.Post("/", enrollment.New(d.Coordinator, d.Metrics))
		r.Get("/", enrollment.GetList(d.Coordinator))
		r.Get("/student/{id}", enrollment.GetByStudent(d.Coordinator))
		r.Get("/course/{id}", enrollment.GetByCourse(d.Coordinator))
	})

	return r
}

func health(w http.ResponseWriter, _ *http.Request) {
	response.WriteJSON(w, http.StatusOK, response.OK("Student Course System API is running", map[string]string{
		"students":    "/api/students",
		"courses":     "/api/courses",
		"enrollments": "/api/enrollments",
		"metrics":     "/metrics",
	}))
}
