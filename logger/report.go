package logger

import (
	"context"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	gnet "github.com/shirou/gopsutil/v3/net"

	"github.com/aws/aws-sdk-go-v2/aws"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

type endpointStat struct {
	requests int64
	bytes    int64
}

var (
	errorsClient    int64
	errorsRecorder  int64
	warnsClient     int64
	warnsRecorder   int64
	requestsTotal   int64
	rateLimitedHits int64
	archiveWrites   int64
	endpoints       sync.Map // map[string]*endpointStat
)

func recordWarn(component string) {
	if strings.Contains(component, "client") {
		atomic.AddInt64(&warnsClient, 1)
	} else if strings.Contains(component, "recorder") {
		atomic.AddInt64(&warnsRecorder, 1)
	}
}

func recordError(component string) {
	if strings.Contains(component, "client") {
		atomic.AddInt64(&errorsClient, 1)
	} else if strings.Contains(component, "recorder") {
		atomic.AddInt64(&errorsRecorder, 1)
	}
}

// IncrementRequest records a completed API request and the size of its body.
func IncrementRequest(endpoint string, size int) {
	atomic.AddInt64(&requestsTotal, 1)
	recordEndpoint(endpoint, size)
}

// IncrementRateLimited records a request rejected by the service rate limit.
func IncrementRateLimited() {
	atomic.AddInt64(&rateLimitedHits, 1)
}

// IncrementArchiveWrite records a snapshot uploaded to S3.
func IncrementArchiveWrite(size int64) {
	atomic.AddInt64(&archiveWrites, 1)
	recordEndpoint("s3_archive_write", int(size))
}

func recordEndpoint(name string, size int) {
	v, _ := endpoints.LoadOrStore(name, &endpointStat{})
	es := v.(*endpointStat)
	atomic.AddInt64(&es.requests, 1)
	atomic.AddInt64(&es.bytes, int64(size))
}

// StartReport begins periodic logging of system and request statistics.
func StartReport(ctx context.Context, log *Log, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		for {
			select {
			case <-ctx.Done():
				ticker.Stop()
				return
			case <-ticker.C:
				logReport(ctx, log)
			}
		}
	}()
}

func logReport(ctx context.Context, log *Log) {
	cpuPercent, _ := cpu.Percent(0, false)
	memStats, _ := mem.VirtualMemory()
	netStats, _ := gnet.IOCounters(false)
	endpointData := map[string]map[string]int64{}
	endpoints.Range(func(k, v any) bool {
		name := k.(string)
		es := v.(*endpointStat)
		endpointData[name] = map[string]int64{
			"requests": atomic.LoadInt64(&es.requests),
			"bytes":    atomic.LoadInt64(&es.bytes),
		}
		return true
	})

	cpuPct := 0.0
	if len(cpuPercent) > 0 {
		cpuPct = cpuPercent[0]
	}

	bytesSent := uint64(0)
	bytesRecv := uint64(0)
	if len(netStats) > 0 {
		bytesSent = netStats[0].BytesSent
		bytesRecv = netStats[0].BytesRecv
	}

	fields := Fields{
		"errors_client":    atomic.LoadInt64(&errorsClient),
		"errors_recorder":  atomic.LoadInt64(&errorsRecorder),
		"warns_client":     atomic.LoadInt64(&warnsClient),
		"warns_recorder":   atomic.LoadInt64(&warnsRecorder),
		"requests_total":   atomic.LoadInt64(&requestsTotal),
		"rate_limited":     atomic.LoadInt64(&rateLimitedHits),
		"archive_writes":   atomic.LoadInt64(&archiveWrites),
		"goroutines":       runtime.NumGoroutine(),
		"cpu_percent":      cpuPct,
		"memory_mb":        int64(memStats.Used) / 1024 / 1024,
		"endpoints":        endpointData,
		"net_bytes_sent":   int64(bytesSent),
		"net_bytes_recv":   int64(bytesRecv),
	}

	log.WithComponent("report").WithFields(fields).Info("runtime report")

	var data []cwtypes.MetricDatum
	data = append(data,
		cwtypes.MetricDatum{MetricName: aws.String("CPUPercent"), Unit: cwtypes.StandardUnitPercent, Value: aws.Float64(cpuPct)},
		cwtypes.MetricDatum{MetricName: aws.String("MemoryMB"), Unit: cwtypes.StandardUnitMegabytes, Value: aws.Float64(float64(memStats.Used) / 1024 / 1024)},
		cwtypes.MetricDatum{MetricName: aws.String("ErrorsClient"), Unit: cwtypes.StandardUnitCount, Value: aws.Float64(float64(fields["errors_client"].(int64)))},
		cwtypes.MetricDatum{MetricName: aws.String("ErrorsRecorder"), Unit: cwtypes.StandardUnitCount, Value: aws.Float64(float64(fields["errors_recorder"].(int64)))},
		cwtypes.MetricDatum{MetricName: aws.String("RequestsTotal"), Unit: cwtypes.StandardUnitCount, Value: aws.Float64(float64(fields["requests_total"].(int64)))},
		cwtypes.MetricDatum{MetricName: aws.String("RateLimited"), Unit: cwtypes.StandardUnitCount, Value: aws.Float64(float64(fields["rate_limited"].(int64)))},
		cwtypes.MetricDatum{MetricName: aws.String("ArchiveWrites"), Unit: cwtypes.StandardUnitCount, Value: aws.Float64(float64(fields["archive_writes"].(int64)))},
		cwtypes.MetricDatum{MetricName: aws.String("NetBytesSent"), Unit: cwtypes.StandardUnitBytes, Value: aws.Float64(float64(bytesSent))},
		cwtypes.MetricDatum{MetricName: aws.String("NetBytesRecv"), Unit: cwtypes.StandardUnitBytes, Value: aws.Float64(float64(bytesRecv))},
	)

	for name, stats := range endpointData {
		data = append(data,
			cwtypes.MetricDatum{
				MetricName: aws.String("EndpointRequests"),
				Unit:       cwtypes.StandardUnitCount,
				Dimensions: []cwtypes.Dimension{{Name: aws.String("Endpoint"), Value: aws.String(name)}},
				Value:      aws.Float64(float64(stats["requests"])),
			},
			cwtypes.MetricDatum{
				MetricName: aws.String("EndpointBytes"),
				Unit:       cwtypes.StandardUnitBytes,
				Dimensions: []cwtypes.Dimension{{Name: aws.String("Endpoint"), Value: aws.String(name)}},
				Value:      aws.Float64(float64(stats["bytes"])),
			},
		)
	}

	publishMetrics(ctx, data)
}
