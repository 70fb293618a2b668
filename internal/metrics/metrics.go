// Registers:
//
//	#moonflow_snapshot_success_total
//	#moonflow_snapshot_errors_total
//	#moonflow_archive_bytes_total
//	#go_* and process_* system metrics
//
// and exposes them on the configured address using the Prometheus HTTP
// handler.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const defaultAddress = "0.0.0.0:2112"

var (
	once            sync.Once
	snapshotSuccess *prometheus.CounterVec
	snapshotErrors  *prometheus.CounterVec
	archiveBytes    *prometheus.CounterVec
)

func Init(address string) {
	once.Do(func() {
		if address == "" {
			address = defaultAddress
		}

		snapshotSuccess = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "moonflow_snapshot_success_total",
				Help: "Number of endpoint snapshots archived successfully",
			},
			[]string{"endpoint"},
		)

		snapshotErrors = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "moonflow_snapshot_errors_total",
				Help: "Number of failed fetch/upload attempts",
			},
			[]string{"endpoint"},
		)

		archiveBytes = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "moonflow_archive_bytes_total",
				Help: "Bytes of snapshot bodies uploaded to storage",
			},
			[]string{"endpoint"},
		)

		_ = prometheus.Register(snapshotSuccess)
		_ = prometheus.Register(snapshotErrors)
		_ = prometheus.Register(archiveBytes)
		_ = prometheus.Register(collectors.NewGoCollector())
		_ = prometheus.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

		go func() {
			http.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(address, nil); err != nil {
				panic("metrics server failed: " + err.Error())
			}
		}()
	})
}

// IncrementSuccess increases the success counter for a given endpoint.
func IncrementSuccess(endpoint string) {
	if snapshotSuccess != nil {
		snapshotSuccess.WithLabelValues(endpoint).Inc()
	}
}

// IncrementError increases the error counter for a given endpoint.
func IncrementError(endpoint string) {
	if snapshotErrors != nil {
		snapshotErrors.WithLabelValues(endpoint).Inc()
	}
}

// AddArchiveBytes records the size of an uploaded snapshot body.
func AddArchiveBytes(endpoint string, n int) {
	if archiveBytes != nil {
		archiveBytes.WithLabelValues(endpoint).Add(float64(n))
	}
}
