package monitor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	controllerUp = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "controllermon_controller_up",
		Help: "Whether the controller answered its latest probe (1=online, 0=offline).",
	}, []string{"host"})

	transitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "controllermon_transitions_total",
		Help: "State transitions observed per controller.",
	}, []string{"host", "state"})

	notificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "controllermon_notifications_total",
		Help: "Notification delivery attempts by kind and outcome.",
	}, []string{"kind", "outcome"})
)
