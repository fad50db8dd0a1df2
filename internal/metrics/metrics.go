package metrics

import (
	"net/http"
	"time"

	"github.com/OFFIS-RIT/famtree/backend/pkg/common"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	tablesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "famtree_tables_total",
		Help: "Family tables processed by entry point and operation",
	}, []string{"source", "operation"})

	tableFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "famtree_table_failures_total",
		Help: "Family tables rejected before a tree could be built",
	}, []string{"source", "reason"})

	peopleTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "famtree_people_total",
		Help: "People read from all processed tables",
	})

	relationshipsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "famtree_relationships_total",
		Help: "Relationships derived by type",
	}, []string{"type"})

	findingsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "famtree_validation_findings_total",
		Help: "Validation findings by severity",
	}, []string{"severity"})

	processDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "famtree_process_duration_seconds",
		Help:    "Time spent turning one table into a tree or report",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
	}, []string{"operation"})
)

// Source names the entry point a table came through.
type Source string

const (
	SourceHTTP   Source = "http"
	SourceWorker Source = "worker"
)

// Operation names what was done with a table.
type Operation string

const (
	OperationParse    Operation = "parse"
	OperationValidate Operation = "validate"
	OperationSample   Operation = "sample"
)

// ObserveTree records a successfully built tree.
func ObserveTree(source Source, op Operation, people int, relationships []common.Relationship, took time.Duration) {
	tablesTotal.WithLabelValues(string(source), string(op)).Inc()
	peopleTotal.Add(float64(people))
	for _, rel := range relationships {
		relationshipsTotal.WithLabelValues(string(rel.Type)).Inc()
	}
	processDuration.WithLabelValues(string(op)).Observe(took.Seconds())
}

// ObserveReport records a finished validation.
func ObserveReport(source Source, report common.ValidationReport, took time.Duration) {
	tablesTotal.WithLabelValues(string(source), string(OperationValidate)).Inc()
	peopleTotal.Add(float64(report.PersonCount))
	findingsTotal.WithLabelValues("error").Add(float64(len(report.Errors)))
	findingsTotal.WithLabelValues("warning").Add(float64(len(report.Warnings)))
	processDuration.WithLabelValues(string(OperationValidate)).Observe(took.Seconds())
}

// ObserveFailure records a table that could not be read.
func ObserveFailure(source Source, reason string) {
	tableFailures.WithLabelValues(string(source), reason).Inc()
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
