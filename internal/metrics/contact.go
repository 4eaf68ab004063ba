package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	contactSubmissions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "contact_submissions_total",
		Help: "Stored contact form submissions",
	})

	contactNotifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "contact_notifications_total",
		Help: "Operator notification attempts by outcome",
	}, []string{"status"}) // sent, failed

	contactStatusUpdates = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "contact_status_updates_total",
		Help: "Contact message flag changes by flag",
	}, []string{"field"}) // read, replied

	statusChecks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "status_checks_total",
		Help: "Recorded client status checks",
	})
)

// RecordContactSubmission records a new contact form submission
func RecordContactSubmission() {
	contactSubmissions.Inc()
}

// RecordNotification records the outcome of an operator notification
func RecordNotification(err error) {
	if err != nil {
		contactNotifications.WithLabelValues("failed").Inc()
		return
	}
	contactNotifications.WithLabelValues("sent").Inc()
}

// RecordStatusUpdate records which flags a status update touched
func RecordStatusUpdate(read, replied bool) {
	if read {
		contactStatusUpdates.WithLabelValues("read").Inc()
	}
	if replied {
		contactStatusUpdates.WithLabelValues("replied").Inc()
	}
}

// RecordStatusCheck records a new status check
func RecordStatusCheck() {
	statusChecks.Inc()
}
