package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Operational counters served on /metrics.
var (
	CheckinAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fitledger_checkin_attempts_total",
		Help: "Check-in attempts by outcome (granted, unauthorized, already_completed, invalid_status, error).",
	}, []string{"result"})

	CreditGrants = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fitledger_credit_grants_total",
		Help: "Successful credit grants by credit type.",
	}, []string{"credit_type"})

	HoursUnlocked = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fitledger_hours_unlocked_total",
		Help: "Professor hours moved from locked to available by check-ins.",
	})
)
