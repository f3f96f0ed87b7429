package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Recorder counts password reset submissions by outcome kind.
type Recorder struct {
	submissions *prometheus.CounterVec
}

// NewRecorder registers the submission counter with reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	submissions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "passreset",
		Name:      "submissions_total",
		Help:      "Password reset submissions by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(submissions)

	return &Recorder{submissions: submissions}
}

// ObserveSubmission counts one submission with the given outcome kind.
func (r *Recorder) ObserveSubmission(outcome string) {
	r.submissions.WithLabelValues(outcome).Inc()
}
