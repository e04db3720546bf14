package exporter

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	METRIC_ERROR_COUNT            = "error_count"
	METRIC_TREASURY_CREATED_COUNT = "treasury_created_count"
	METRIC_DEPOSIT_COUNT          = "deposit_count"
	METRIC_PROPOSAL_CREATED_COUNT = "proposal_created_count"
	METRIC_SIGNATURE_COUNT        = "signature_count"
	METRIC_EXECUTION_COUNT        = "execution_count"
	METRIC_REJECTION_COUNT        = "rejection_count"
)

var (
	once       sync.Once
	counters   map[string]prometheus.Counter
	rejections *prometheus.CounterVec
)

// Init registers the metrics with the default registry. Calling it more than once
// is harmless.
func Init() {
	once.Do(func() {
		counters = make(map[string]prometheus.Counter)

		register := func(name, help string) {
			counter := prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "multisig",
				Subsystem: "treasury",
				Name:      name,
				Help:      help,
			})
			prometheus.MustRegister(counter)
			counters[name] = counter
		}

		register(METRIC_ERROR_COUNT, "Counts the number of internal errors")
		register(METRIC_TREASURY_CREATED_COUNT, "Counts the number of created treasuries")
		register(METRIC_DEPOSIT_COUNT, "Counts the number of deposits")
		register(METRIC_PROPOSAL_CREATED_COUNT, "Counts the number of created proposals")
		register(METRIC_SIGNATURE_COUNT, "Counts the number of accepted sign requests")
		register(METRIC_EXECUTION_COUNT, "Counts the number of executed proposals")

		rejections = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "multisig",
			Subsystem: "treasury",
			Name:      METRIC_REJECTION_COUNT,
			Help:      "Counts the number of rejected requests by error kind",
		}, []string{"kind"})
		prometheus.MustRegister(rejections)
	})
}

func GetCounter(name string) prometheus.Counter {
	Init()
	return counters[name]
}

func GetRejectionCounter(kind string) prometheus.Counter {
	Init()
	return rejections.WithLabelValues(kind)
}

func IncErrorCount() {
	GetCounter(METRIC_ERROR_COUNT).Inc()
}

func IncTreasuryCreatedCount() {
	GetCounter(METRIC_TREASURY_CREATED_COUNT).Inc()
}

func IncDepositCount() {
	GetCounter(METRIC_DEPOSIT_COUNT).Inc()
}

func IncProposalCreatedCount() {
	GetCounter(METRIC_PROPOSAL_CREATED_COUNT).Inc()
}

func IncSignatureCount() {
	GetCounter(METRIC_SIGNATURE_COUNT).Inc()
}

func IncExecutionCount() {
	GetCounter(METRIC_EXECUTION_COUNT).Inc()
}

func IncRejectionCount(kind string) {
	GetRejectionCounter(kind).Inc()
}
