// Package metrics records generation runs as Prometheus metrics
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jakechorley/timetable-engine/pkg/core/scheduler"
)

// Recorder owns a private registry so runs can be written out as a textfile
// for the node exporter without a long-lived HTTP endpoint
type Recorder struct {
	registry      *prometheus.Registry
	phaseDuration *prometheus.HistogramVec
	runs          *prometheus.CounterVec
	sessions      prometheus.Gauge
	placed        prometheus.Gauge
	placementRate prometheus.Gauge
	warnings      prometheus.Gauge
	overwork      prometheus.Gauge
	entries       prometheus.Counter
}

// NewRecorder registers the generation collectors
func NewRecorder() *Recorder {
	registry := prometheus.NewRegistry()

	phaseDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "timetable_phase_duration_seconds",
		Help:    "Duration of each generation phase in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"phase"})

	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "timetable_generation_runs_total",
		Help: "Generation runs by final phase, result and winning strategy",
	}, []string{"phase", "result", "strategy"})

	sessions := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "timetable_sessions",
		Help: "Sessions expanded in the last run",
	})

	placed := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "timetable_sessions_placed",
		Help: "Sessions placed in the last run",
	})

	placementRate := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "timetable_placement_rate",
		Help: "Placed sessions over total sessions in the last run",
	})

	warnings := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "timetable_warnings",
		Help: "Warnings raised by the last run",
	})

	overwork := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "timetable_overwork_alerts",
		Help: "Faculty at or above the overwork threshold in the last run",
	})

	entries := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "timetable_entries_created_total",
		Help: "Timetable entries written to storage",
	})

	registry.MustRegister(phaseDuration, runs, sessions, placed, placementRate, warnings, overwork, entries)

	return &Recorder{
		registry:      registry,
		phaseDuration: phaseDuration,
		runs:          runs,
		sessions:      sessions,
		placed:        placed,
		placementRate: placementRate,
		warnings:      warnings,
		overwork:      overwork,
		entries:       entries,
	}
}

// Registry exposes the underlying registry
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveOutcome records a finished run. Phases that never ran are skipped.
func (r *Recorder) ObserveOutcome(out *scheduler.Outcome) {
	if r == nil || out == nil {
		return
	}

	for phase, d := range map[string]float64{
		"context":  out.Timings.Context.Seconds(),
		"bounds":   out.Timings.Bounds.Seconds(),
		"strategy": out.Timings.Strategy.Seconds(),
		"refine":   out.Timings.Refine.Seconds(),
		"report":   out.Timings.Report.Seconds(),
	} {
		if d > 0 {
			r.phaseDuration.WithLabelValues(phase).Observe(d)
		}
	}

	result := "failure"
	if out.Success {
		result = "success"
	}
	strategy := out.Strategy
	if strategy == "" {
		strategy = "none"
	}
	r.runs.WithLabelValues(string(out.Phase), result, strategy).Inc()

	r.sessions.Set(float64(out.TotalSessions))
	r.placed.Set(float64(len(out.Assignments)))
	r.placementRate.Set(out.PlacementRate)
	r.warnings.Set(float64(len(out.Warnings)))
	r.overwork.Set(float64(len(out.OverworkAlerts)))
}

// ObservePersisted counts entries written to storage
func (r *Recorder) ObservePersisted(n int) {
	if r == nil {
		return
	}
	r.entries.Add(float64(n))
}

// WriteTextfile writes the registry in the Prometheus text format
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
