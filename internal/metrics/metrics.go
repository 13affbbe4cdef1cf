package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	availabilityRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "barber_booking",
			Name:      "availability_requests_total",
			Help:      "Availability computations by cache outcome.",
		},
		[]string{"cache"},
	)

	availabilityDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "barber_booking",
			Name:      "availability_duration_seconds",
			Help:      "Time spent fetching and computing availability.",
			Buckets:   prometheus.DefBuckets,
		},
	)

	appointmentCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "barber_booking",
			Name:      "appointment_created_total",
			Help:      "Appointment creation attempts by outcome.",
		},
		[]string{"outcome"},
	)

	appointmentTransition = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "barber_booking",
			Name:      "appointment_transition_total",
			Help:      "Appointment status changes.",
		},
		[]string{"status"},
	)

	scheduleDecision = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "barber_booking",
			Name:      "schedule_request_decision_total",
			Help:      "Schedule change requests approved or rejected.",
		},
		[]string{"decision"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			availabilityRequests,
			availabilityDuration,
			appointmentCreated,
			appointmentTransition,
			scheduleDecision,
		)
	})
}

func ObserveAvailability(cacheHit bool, elapsed time.Duration) {
	label := "miss"
	if cacheHit {
		label = "hit"
	}
	availabilityRequests.WithLabelValues(label).Inc()
	availabilityDuration.Observe(elapsed.Seconds())
}

func IncAppointmentCreated(outcome string) {
	appointmentCreated.WithLabelValues(outcome).Inc()
}

func IncAppointmentTransition(status string) {
	appointmentTransition.WithLabelValues(status).Inc()
}

func IncScheduleDecision(decision string) {
	scheduleDecision.WithLabelValues(decision).Inc()
}
