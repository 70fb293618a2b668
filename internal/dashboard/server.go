// Package dashboard hosts the Gin-powered status page for the recorder
// daemon: recent logs, recent archived snapshots and basic runtime info.
package dashboard

import (
	"context"
	"errors"
	"html/template"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"moonflow/archive"
	"moonflow/config"
	"moonflow/logger"
)

// Server hosts the monitoring dashboard.
type Server struct {
	cfg        config.DashboardConfig
	log        *logger.Log
	logStore   *logStore
	recorder   *archive.Recorder
	httpServer *http.Server
	started    time.Time
}

// NewServer constructs a dashboard server when the dashboard feature is
// enabled. When the dashboard is disabled the returned server is nil.
func NewServer(cfg config.DashboardConfig, log *logger.Log, recorder *archive.Recorder) *Server {
	if !cfg.Enabled {
		return nil
	}

	cfg.Address = normalizeAddress(cfg.Address)

	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = 5 * time.Second
	}
	if cfg.LogHistory <= 0 {
		cfg.LogHistory = 200
	}

	logStore := newLogStore(cfg.LogHistory)
	log.AddHook(logStore)

	return &Server{
		cfg:      cfg,
		log:      log,
		logStore: logStore,
		recorder: recorder,
		started:  time.Now(),
	}
}

// Run starts the dashboard HTTP server and blocks until the provided context
// is cancelled or the underlying HTTP server exits with an error.
func (s *Server) Run(ctx context.Context, appName string) error {
	if s == nil {
		return nil
	}

	defer s.logStore.close()

	router, err := s.buildRouter(appName)
	if err != nil {
		return err
	}

	s.httpServer = &http.Server{
		Addr:    s.cfg.Address,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		<-errCh
		return nil
	case err := <-errCh:
		return err
	}
}

// Address reports the network address the dashboard server listens on.
func (s *Server) Address() string {
	if s == nil {
		return ""
	}
	return s.cfg.Address
}

func (s *Server) buildRouter(appName string) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	page, err := template.New("index").Parse(indexTemplate)
	if err != nil {
		return nil, err
	}
	router.SetHTMLTemplate(page)

	router.GET("/", func(c *gin.Context) {
		c.HTML(http.StatusOK, "index", gin.H{
			"App":       appName,
			"RefreshMs": int(s.cfg.RefreshInterval / time.Millisecond),
		})
	})

	router.GET("/api/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"app":       appName,
			"uptime":    time.Since(s.started).Round(time.Second).String(),
			"snapshots": s.snapshots(),
			"logs":      s.logStore.snapshot(),
		})
	})

	router.GET("/api/snapshots", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.snapshots())
	})

	router.GET("/api/logs", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.logStore.snapshot())
	})

	return router, nil
}

func (s *Server) snapshots() []archive.Snapshot {
	if s.recorder == nil {
		return nil
	}
	return s.recorder.Snapshots()
}

func normalizeAddress(addr string) string {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return ":8090"
	}
	if !strings.Contains(addr, ":") {
		return net.JoinHostPort(addr, "8090")
	}
	return addr
}

const indexTemplate = `<!DOCTYPE html>
<html>
<head>
<title>{{ .App }} status</title>
<style>
body { font-family: monospace; background: #101418; color: #d7dde3; margin: 2em; }
h1 { color: #6fc3ff; }
table { border-collapse: collapse; width: 100%; margin-bottom: 2em; }
td, th { border: 1px solid #2a3540; padding: 4px 8px; text-align: left; }
.err { color: #ff7a7a; }
</style>
</head>
<body>
<h1>{{ .App }}</h1>
<div id="uptime"></div>
<h2>Recent snapshots</h2>
<table id="snapshots"><tr><th>time</th><th>endpoint</th><th>key</th><th>bytes</th><th>error</th></tr></table>
<h2>Recent logs</h2>
<table id="logs"><tr><th>time</th><th>level</th><th>component</th><th>message</th></tr></table>
<script>
async function refresh() {
  const res = await fetch('/api/status');
  const data = await res.json();
  document.getElementById('uptime').textContent = 'uptime: ' + data.uptime;
  const snaps = document.getElementById('snapshots');
  snaps.innerHTML = '<tr><th>time</th><th>endpoint</th><th>key</th><th>bytes</th><th>error</th></tr>';
  (data.snapshots || []).slice().reverse().forEach(s => {
    const row = snaps.insertRow();
    row.insertCell().textContent = s.time;
    row.insertCell().textContent = s.endpoint;
    row.insertCell().textContent = s.key || '';
    row.insertCell().textContent = s.bytes;
    const err = row.insertCell();
    err.textContent = s.error || '';
    err.className = s.error ? 'err' : '';
  });
  const logs = document.getElementById('logs');
  logs.innerHTML = '<tr><th>time</th><th>level</th><th>component</th><th>message</th></tr>';
  (data.logs || []).slice().reverse().forEach(l => {
    const row = logs.insertRow();
    row.insertCell().textContent = l.timestamp;
    row.insertCell().textContent = l.level;
    row.insertCell().textContent = l.component || '';
    row.insertCell().textContent = l.message;
  });
}
refresh();
setInterval(refresh, {{ .RefreshMs }});
</script>
</body>
</html>`
