// Package metrics records run statistics as Prometheus metrics and writes
// them in the text exposition format, for node_exporter's textfile
// collector.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/TFMV/findexec/internal/dispatch"
	"github.com/TFMV/findexec/internal/walk"
)

// Recorder holds the collectors for one run.
type Recorder struct {
	registry *prometheus.Registry

	dirsVisited       prometheus.Counter
	filesExamined     prometheus.Counter
	permissionSkips   prometheus.Counter
	matches           prometheus.Counter
	traversalDuration prometheus.Gauge
	cycles            prometheus.Counter
	outcomes          *prometheus.CounterVec
}

// New returns a Recorder backed by its own registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		dirsVisited: factory.NewCounter(prometheus.CounterOpts{
			Name: "findexec_directories_visited_total",
			Help: "Directories opened and enumerated",
		}),
		filesExamined: factory.NewCounter(prometheus.CounterOpts{
			Name: "findexec_files_examined_total",
			Help: "Regular files tested against the filter",
		}),
		permissionSkips: factory.NewCounter(prometheus.CounterOpts{
			Name: "findexec_permission_skips_total",
			Help: "Files and directories skipped for lack of access",
		}),
		matches: factory.NewCounter(prometheus.CounterOpts{
			Name: "findexec_matches_total",
			Help: "Files that passed the filter",
		}),
		traversalDuration: factory.NewGauge(prometheus.GaugeOpts{
			Name: "findexec_traversal_duration_seconds",
			Help: "Wall time of the directory traversal",
		}),
		cycles: factory.NewCounter(prometheus.CounterOpts{
			Name: "findexec_dispatch_cycles_total",
			Help: "Spawn and wait cycles started",
		}),
		outcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "findexec_dispatch_outcomes_total",
			Help: "Spawn and wait cycles by outcome",
		}, []string{"outcome"}),
	}
}

// RecordTraversal adds the statistics of a traversal or watch session.
func (r *Recorder) RecordTraversal(s walk.Stats) {
	r.dirsVisited.Add(float64(s.DirsVisited))
	r.filesExamined.Add(float64(s.FilesExamined))
	r.permissionSkips.Add(float64(s.PermissionSkips))
	r.matches.Add(float64(s.Matches))
	r.traversalDuration.Set(s.ElapsedTime.Seconds())
}

// RecordDispatch adds the statistics of an execution run.
func (r *Recorder) RecordDispatch(s dispatch.Stats) {
	r.cycles.Add(float64(s.Cycles))
	for kind, n := range s.Outcomes {
		r.outcomes.WithLabelValues(kind.String()).Add(float64(n))
	}
}

// Gatherer exposes the underlying registry.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// WriteFile atomically writes every metric to path.
func (r *Recorder) WriteFile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
