// Package metrics provides the Prometheus counters recorded by the HTTP
// layer. The core (stores and coordinator) stays free of observability;
// handlers record outcomes after the core has answered.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/aanand-mishra/enrollment-api/internal/storage"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	StudentsCreated     prometheus.Counter
	CoursesCreated      prometheus.Counter
	EnrollmentsCreated  prometheus.Counter
	EnrollmentsCascaded *prometheus.CounterVec
	Conflicts           *prometheus.CounterVec
}

// New creates the metrics and registers them with reg. Pass a fresh
// prometheus.NewRegistry() in tests so repeated construction is safe.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		StudentsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "enrollment_api_students_created_total",
			Help: "Total number of students created",
		}),
		CoursesCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "enrollment_api_courses_created_total",
			Help: "Total number of courses created",
		}),
		EnrollmentsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "enrollment_api_enrollments_created_total",
			Help: "Total number of enrollments created",
		}),
		EnrollmentsCascaded: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "enrollment_api_enrollments_cascaded_total",
			Help: "Enrollments removed because their student or course was deleted",
		}, []string{"parent"}),
		Conflicts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "enrollment_api_conflicts_total",
			Help: "Writes rejected by a uniqueness rule",
		}, []string{"reason"}),
	}
}

// ObserveCascade records n enrollments removed along with a parent of kind
// (storage.KindStudent or storage.KindCourse).
func (m *Metrics) ObserveCascade(kind string, n int) {
	m.EnrollmentsCascaded.WithLabelValues(kind).Add(float64(n))
}

// ObserveConflict records a rejected write.
func (m *Metrics) ObserveConflict(reason storage.ConflictReason) {
	m.Conflicts.WithLabelValues(string(reason)).Inc()
}
