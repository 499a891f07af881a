package observability

import "github.com/prometheus/client_golang/prometheus"

var (
	// TaskTransitions counts successful lifecycle moves by target status.
	TaskTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swadrive_task_transitions_total",
			Help: "Task lifecycle transitions by resulting status.",
		},
		[]string{"to"},
	)

	// AcceptConflicts counts accept attempts that lost the race or found
	// the task already taken.
	AcceptConflicts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "swadrive_accept_conflicts_total",
			Help: "Accept attempts rejected because the task was no longer open.",
		},
	)

	// NotificationsDropped counts notifications that could not be stored.
	NotificationsDropped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swadrive_notifications_dropped_total",
			Help: "Best-effort notifications that failed to persist, by type.",
		},
		[]string{"type"},
	)

	// AuthFailures counts rejected requests at the access guard.
	AuthFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swadrive_auth_failures_total",
			Help: "Requests rejected by the access guard, by reason.",
		},
		[]string{"reason"},
	)
)

func init() {
	prometheus.MustRegister(TaskTransitions, AcceptConflicts, NotificationsDropped, AuthFailures)
}
