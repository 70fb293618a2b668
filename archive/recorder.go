// Package archive polls configured API endpoints on a fixed interval and
// stores the raw JSON bodies in S3. Payloads are archived verbatim; their
// schemas belong to the service.
package archive

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"moonflow/config"
	"moonflow/internal/metrics"
	"moonflow/logger"
	"moonflow/moondev"
)

const snapshotHistory = 50

// Fetcher retrieves one endpoint body. Satisfied by *moondev.Client.
type Fetcher interface {
	Raw(ctx context.Context, path string) (moondev.Document, error)
}

// Snapshot records the outcome of one archived poll, for the status
// dashboard.
type Snapshot struct {
	Endpoint string    `json:"endpoint"`
	Key      string    `json:"key"`
	Bytes    int       `json:"bytes"`
	Time     time.Time `json:"time"`
	Error    string    `json:"error,omitempty"`
}

// Recorder drives the poll/upload loop.
type Recorder struct {
	cfg      config.RecorderConfig
	prefix   string
	fetcher  Fetcher
	uploader Uploader
	log      *logger.Log

	mu      sync.RWMutex
	running bool
	recent  []Snapshot
}

// NewRecorder wires a fetcher and an uploader to the configured endpoint
// list.
func NewRecorder(cfg config.RecorderConfig, prefix string, fetcher Fetcher, uploader Uploader) *Recorder {
	return &Recorder{
		cfg:      cfg,
		prefix:   strings.Trim(prefix, "/"),
		fetcher:  fetcher,
		uploader: uploader,
		log:      logger.GetLogger(),
	}
}

// Start polls every configured endpoint each interval until the context is
// cancelled. Fetch and upload failures are logged and counted, never fatal.
func (r *Recorder) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return fmt.Errorf("recorder already running")
	}
	r.running = true
	r.mu.Unlock()

	log := r.log.WithComponent("recorder")
	log.WithFields(logger.Fields{
		"endpoints": len(r.cfg.Endpoints),
		"interval":  r.cfg.Interval.String(),
	}).Info("starting recorder")

	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	// First sweep immediately so a fresh daemon archives something before
	// the first full interval elapses.
	r.sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Info("recorder stopped")
			return nil
		case <-ticker.C:
			r.sweep(ctx)
		}
	}
}

func (r *Recorder) sweep(ctx context.Context) {
	for _, endpoint := range r.cfg.Endpoints {
		if ctx.Err() != nil {
			return
		}
		r.archiveOne(ctx, endpoint)
	}
}

func (r *Recorder) archiveOne(ctx context.Context, endpoint string) {
	log := r.log.WithComponent("recorder").WithFields(logger.Fields{"endpoint": endpoint})

	now := time.Now().UTC()
	snap := Snapshot{Endpoint: endpoint, Time: now}

	body, err := r.fetcher.Raw(ctx, endpoint)
	if err != nil {
		snap.Error = err.Error()
		r.remember(snap)
		metrics.IncrementError(endpoint)
		log.WithError(err).Error("fetch failed")
		return
	}

	snap.Key = objectKey(r.prefix, endpoint, now)
	snap.Bytes = len(body)

	if err := r.uploader.Upload(ctx, snap.Key, body); err != nil {
		snap.Error = err.Error()
		r.remember(snap)
		metrics.IncrementError(endpoint)
		log.WithError(err).Error("upload failed")
		return
	}

	r.remember(snap)
	metrics.IncrementSuccess(endpoint)
	metrics.AddArchiveBytes(endpoint, len(body))
	logger.IncrementArchiveWrite(int64(len(body)))
	log.WithFields(logger.Fields{"key": snap.Key, "bytes": snap.Bytes}).Info("snapshot archived")
}

func (r *Recorder) remember(snap Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.recent = append(r.recent, snap)
	if len(r.recent) > snapshotHistory {
		r.recent = append([]Snapshot(nil), r.recent[len(r.recent)-snapshotHistory:]...)
	}
}

// Snapshots returns the most recent poll outcomes, oldest first.
func (r *Recorder) Snapshots() []Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Snapshot, len(r.recent))
	copy(out, r.recent)
	return out
}

// objectKey builds the date-partitioned archive key, e.g.
// moonflow/api_liquidations_1h/date=2026-08-23/20260823T101530Z.json
func objectKey(prefix, endpoint string, ts time.Time) string {
	name := strings.Trim(endpoint, "/")
	name = strings.TrimSuffix(name, ".json")
	name = strings.TrimSuffix(name, ".txt")
	name = strings.ReplaceAll(name, "/", "_")

	key := fmt.Sprintf("%s/date=%s/%s.json", name, ts.Format("2006-01-02"), ts.Format("20060102T150405Z"))
	if prefix != "" {
		key = prefix + "/" + key
	}
	return key
}
