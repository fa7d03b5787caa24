// Package poller talks to the metrics endpoint. Fetch performs exactly one
// request per call and reports the outcome as a tagged Result; it never
// panics or retries.
package poller

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rileyhilliard/pidash/internal/errors"
	"github.com/rileyhilliard/pidash/internal/logger"
	"github.com/rileyhilliard/pidash/internal/snapshot"
)

// Default endpoint paths served by the Pi info server.
const (
	DefaultMetricsPath = "/api/system"
	DefaultHealthPath  = "/api/health"
	DefaultTimeout     = 10 * time.Second
)

// maxBody caps how much of a response we read. The metrics document is ~1KB.
const maxBody = 1 << 20

// Options configures a Poller.
type Options struct {
	Endpoint    string // base URL, e.g. http://raspberrypi.local:5000
	MetricsPath string
	HealthPath  string
	Timeout     time.Duration
	UserAgent   string

	// Client overrides the HTTP client. Timeout is ignored when set.
	Client *http.Client
	Logger logger.Logger
}

// Result is the outcome of one Fetch. Exactly one of Snapshot and Err is set.
type Result struct {
	Snapshot *snapshot.Snapshot
	Err      error
	Latency  time.Duration
}

// OK reports whether the fetch produced a snapshot that may be applied:
// no error, and no error marker from the server.
func (r Result) OK() bool {
	return r.Err == nil && !r.Snapshot.Rejected()
}

// Poller fetches snapshots from one endpoint.
type Poller struct {
	metricsURL string
	healthURL  string
	userAgent  string
	client     *http.Client
	log        logger.Logger
}

// New validates the endpoint and builds a Poller.
func New(opts Options) (*Poller, error) {
	base, err := parseEndpoint(opts.Endpoint)
	if err != nil {
		return nil, err
	}

	if opts.MetricsPath == "" {
		opts.MetricsPath = DefaultMetricsPath
	}
	if opts.HealthPath == "" {
		opts.HealthPath = DefaultHealthPath
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "pidash"
	}
	if opts.Logger == nil {
		opts.Logger = logger.Noop()
	}

	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}

	return &Poller{
		metricsURL: joinPath(base, opts.MetricsPath),
		healthURL:  joinPath(base, opts.HealthPath),
		userAgent:  opts.UserAgent,
		client:     client,
		log:        opts.Logger,
	}, nil
}

// MetricsURL returns the full metrics URL.
func (p *Poller) MetricsURL() string {
	return p.metricsURL
}

// HealthURL returns the full health URL.
func (p *Poller) HealthURL() string {
	return p.healthURL
}

// Fetch performs a single GET against the metrics endpoint.
func (p *Poller) Fetch(ctx context.Context) Result {
	start := time.Now()
	snap, err := p.fetch(ctx)
	res := Result{Snapshot: snap, Err: err, Latency: time.Since(start)}
	if err != nil {
		p.log.Debug("fetch %s failed after %s: %s", p.metricsURL, res.Latency, errors.Summary(err))
	} else {
		p.log.Debug("fetch %s ok in %s", p.metricsURL, res.Latency)
	}
	return res
}

func (p *Poller) fetch(ctx context.Context) (snap *snapshot.Snapshot, err error) {
	defer func() {
		if r := recover(); r != nil {
			snap = nil
			err = errors.New(errors.ErrFetch, fmt.Sprintf("Fetch panicked: %v", r), "")
		}
	}()

	body, err := p.get(ctx, p.metricsURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	return snapshot.Decode(io.LimitReader(body, maxBody))
}

// HealthReport is the /api/health document.
type HealthReport struct {
	Status    string        `json:"status"`
	Timestamp string        `json:"timestamp"`
	Latency   time.Duration `json:"-"`
}

// Healthy reports whether the server said it was healthy.
func (h HealthReport) Healthy() bool {
	return strings.EqualFold(h.Status, "healthy")
}

// Health calls the health endpoint.
func (p *Poller) Health(ctx context.Context) (HealthReport, error) {
	start := time.Now()
	body, err := p.get(ctx, p.healthURL)
	if err != nil {
		return HealthReport{}, err
	}
	defer body.Close()

	var report HealthReport
	if err := json.NewDecoder(io.LimitReader(body, maxBody)).Decode(&report); err != nil {
		return HealthReport{}, errors.WrapWithCode(err, errors.ErrDecode,
			"Health response isn't valid JSON", "")
	}
	report.Latency = time.Since(start)
	return report, nil
}

func (p *Poller) get(ctx context.Context, target string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrFetch,
			"Couldn't build request for "+target, "")
	}
	req.Header.Set("User-Agent", p.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrFetch,
			"Couldn't reach "+target,
			"Check that the host is up and the endpoint is correct")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, errors.New(errors.ErrFetch,
			fmt.Sprintf("%s returned %s", target, resp.Status),
			"The server answered but not with a metrics document")
	}
	return resp.Body, nil
}

func parseEndpoint(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, errors.New(errors.ErrConfig,
			"No endpoint configured",
			"Set endpoint in .pidash.yaml or pass --endpoint http://host:5000")
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Endpoint %q isn't a valid URL", raw),
			"Use the form http://host:port")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errors.New(errors.ErrConfig,
			fmt.Sprintf("Endpoint scheme %q isn't supported", u.Scheme),
			"Use http:// or https://")
	}
	return u, nil
}

func joinPath(base *url.URL, path string) string {
	u := *base
	u.Path = strings.TrimRight(u.Path, "/") + "/" + strings.TrimLeft(path, "/")
	u.RawQuery = ""
	return u.String()
}

// Address returns host:port of an endpoint, defaulting the port from the
// scheme. The connectivity watcher dials this.
func Address(endpoint string) (string, error) {
	u, err := parseEndpoint(endpoint)
	if err != nil {
		return "", err
	}
	if u.Port() != "" {
		return u.Host, nil
	}
	if u.Scheme == "https" {
		return u.Hostname() + ":443", nil
	}
	return u.Hostname() + ":80", nil
}
