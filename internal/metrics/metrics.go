// Package metrics defines the SDK's prometheus instrumentation.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Set bundles the SDK counters. All observe helpers are nil-safe so callers
// can run without metrics wired.
type Set struct {
	Handshakes   *prometheus.CounterVec
	Reauth       *prometheus.CounterVec
	PushMessages *prometheus.CounterVec
}

// New constructs an unregistered Set.
func New() *Set {
	return &Set{
		Handshakes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "authproxy",
			Name:      "handshakes_total",
			Help:      "Login handshakes by outcome.",
		}, []string{"outcome"}),
		Reauth: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "authproxy",
			Name:      "reauth_attempts_total",
			Help:      "Automatic re-authentication attempts by outcome.",
		}, []string{"outcome"}),
		PushMessages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "authproxy",
			Name:      "push_messages_total",
			Help:      "Push messages delivered, split by decode success.",
		}, []string{"decoded"}),
	}
}

// Register registers all collectors on r.
func (s *Set) Register(r prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{s.Handshakes, s.Reauth, s.PushMessages} {
		if err := r.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// ObserveHandshake counts one login handshake.
func (s *Set) ObserveHandshake(outcome string) {
	if s == nil {
		return
	}
	s.Handshakes.WithLabelValues(outcome).Inc()
}

// ObserveReauth counts one automatic re-authentication attempt.
func (s *Set) ObserveReauth(outcome string) {
	if s == nil {
		return
	}
	s.Reauth.WithLabelValues(outcome).Inc()
}

// ObservePush counts one delivered push message.
func (s *Set) ObservePush(decoded bool) {
	if s == nil {
		return
	}
	s.PushMessages.WithLabelValues(strconv.FormatBool(decoded)).Inc()
}
