package ai

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	generationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "taskscore",
		Subsystem: "ai",
		Name:      "generation_duration_seconds",
		Help:      "Duration of model generation requests",
	}, []string{"provider", "model"})

	generationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "taskscore",
		Subsystem: "ai",
		Name:      "generation_failures_total",
		Help:      "Number of failed model generation requests",
	}, []string{"provider", "model"})
)
