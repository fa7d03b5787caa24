package cli

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rileyhilliard/pidash/internal/config"
	"github.com/rileyhilliard/pidash/internal/ui"
)

func init() {
	ui.DisableColors()
}

const systemDoc = `{
  "cpu": {"usage_percent": 42, "count": 4, "frequency_mhz": 1500},
  "memory": {"percent": 61.5, "used_gb": 2.3, "total_gb": 3.7},
  "temperature": {"celsius": 68.2, "fahrenheit": 154.8},
  "storage": {"percent": 30, "used_gb": 9, "free_gb": 20, "total_gb": 29},
  "network": {"bytes_sent": 1048576, "bytes_recv": 2097152, "packets_sent": 1200, "packets_recv": 3400},
  "system": {"hostname": "raspberrypi", "system": "Linux", "release": "6.1.21", "machine": "aarch64"},
  "uptime": {"hours": 26.5},
  "timestamp": "2024-03-01T12:00:00"
}`

// piServer serves /api/system with metrics and /api/health with health.
func piServer(t *testing.T, metrics, health string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/system", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, metrics)
	})
	mux.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, health)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(endpoint string) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Endpoint = endpoint
	cfg.Timeout = 2 * time.Second
	cfg.Network.Enabled = false
	return cfg
}

// syncBuffer is a bytes.Buffer safe for one writer and one reader.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
