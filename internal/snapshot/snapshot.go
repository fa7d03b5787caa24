// Package snapshot defines the shape of one poll result from the metrics
// endpoint. Every sub-record is optional; accessors return zero values for
// anything the payload left out so consumers never have to nil-check.
package snapshot

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/rileyhilliard/pidash/internal/errors"
)

// CPU holds processor load and identity.
type CPU struct {
	UsagePercent float64 `json:"usage_percent"`
	Count        int     `json:"count"`
	FrequencyMHz float64 `json:"frequency_mhz"`
}

// Memory holds RAM usage in gigabytes.
type Memory struct {
	Percent     float64 `json:"percent"`
	UsedGB      float64 `json:"used_gb"`
	TotalGB     float64 `json:"total_gb"`
	AvailableGB float64 `json:"available_gb"`
}

// Temperature holds the SoC temperature in both scales.
type Temperature struct {
	Celsius    float64 `json:"celsius"`
	Fahrenheit float64 `json:"fahrenheit"`
}

// Storage holds root filesystem usage in gigabytes.
type Storage struct {
	Percent float64 `json:"percent"`
	UsedGB  float64 `json:"used_gb"`
	FreeGB  float64 `json:"free_gb"`
	TotalGB float64 `json:"total_gb"`
}

// Network holds cumulative interface counters.
type Network struct {
	BytesSent   uint64 `json:"bytes_sent"`
	BytesRecv   uint64 `json:"bytes_recv"`
	PacketsSent uint64 `json:"packets_sent"`
	PacketsRecv uint64 `json:"packets_recv"`
}

// System identifies the host.
type System struct {
	Hostname  string `json:"hostname"`
	Machine   string `json:"machine"`
	System    string `json:"system"`
	Release   string `json:"release"`
	Processor string `json:"processor"`
}

// Uptime is how long the host has been up.
type Uptime struct {
	Hours   float64 `json:"hours"`
	Seconds int64   `json:"seconds"`
	Days    int64   `json:"days"`
}

// Snapshot is one full metric payload.
type Snapshot struct {
	CPUInfo         *CPU         `json:"cpu,omitempty"`
	MemoryInfo      *Memory      `json:"memory,omitempty"`
	TemperatureInfo *Temperature `json:"temperature,omitempty"`
	StorageInfo     *Storage     `json:"storage,omitempty"`
	NetworkInfo     *Network     `json:"network,omitempty"`
	SystemInfo      *System      `json:"system,omitempty"`
	UptimeInfo      *Uptime      `json:"uptime,omitempty"`
	Timestamp       string       `json:"timestamp,omitempty"`

	// Error is set by the server when it failed to collect metrics.
	Error Marker `json:"error,omitempty"`
}

// Marker is the payload's error flag. The server may send any JSON value;
// null, false, "" and 0 leave it unset, anything else decodes to a
// printable reason.
type Marker string

func (m *Marker) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}

	switch x := v.(type) {
	case nil:
		*m = ""
	case bool:
		*m = ""
		if x {
			*m = "error flag set"
		}
	case string:
		*m = Marker(x)
	case float64:
		*m = ""
		if x != 0 {
			*m = Marker(bytes.TrimSpace(data))
		}
	default:
		var buf bytes.Buffer
		if err := json.Compact(&buf, data); err != nil {
			return err
		}
		*m = Marker(buf.String())
	}
	return nil
}

// emptyPayload marks a snapshot decoded from a JSON null body.
const emptyPayload = "empty payload"

// Rejected reports whether the snapshot carries an error marker and must not
// be applied to any state.
func (s *Snapshot) Rejected() bool {
	return s == nil || s.Error != ""
}

// Reason returns the error marker, or "empty payload" for a nil snapshot.
func (s *Snapshot) Reason() string {
	if s == nil {
		return emptyPayload
	}
	return string(s.Error)
}

func (s *Snapshot) CPU() CPU {
	if s == nil || s.CPUInfo == nil {
		return CPU{}
	}
	return *s.CPUInfo
}

func (s *Snapshot) Memory() Memory {
	if s == nil || s.MemoryInfo == nil {
		return Memory{}
	}
	return *s.MemoryInfo
}

func (s *Snapshot) Temperature() Temperature {
	if s == nil || s.TemperatureInfo == nil {
		return Temperature{}
	}
	return *s.TemperatureInfo
}

func (s *Snapshot) Storage() Storage {
	if s == nil || s.StorageInfo == nil {
		return Storage{}
	}
	return *s.StorageInfo
}

func (s *Snapshot) Network() Network {
	if s == nil || s.NetworkInfo == nil {
		return Network{}
	}
	return *s.NetworkInfo
}

func (s *Snapshot) System() System {
	if s == nil || s.SystemInfo == nil {
		return System{}
	}
	return *s.SystemInfo
}

func (s *Snapshot) Uptime() Uptime {
	if s == nil || s.UptimeInfo == nil {
		return Uptime{}
	}
	return *s.UptimeInfo
}

// Decode parses one JSON payload. A literal null body decodes to a rejected
// snapshot rather than a parse failure.
func Decode(r io.Reader) (*Snapshot, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrFetch,
			"Couldn't read metrics response", "")
	}

	trimmed := bytes.TrimSpace(raw)
	if bytes.Equal(trimmed, []byte("null")) {
		return &Snapshot{Error: emptyPayload}, nil
	}

	var snap Snapshot
	if err := json.Unmarshal(trimmed, &snap); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrDecode,
			"Metrics response isn't valid JSON",
			"Check that the endpoint serves the /api/system document")
	}
	return &snap, nil
}
