package doctor

import (
	"context"
	stderrors "errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeResolver struct {
	addrs []string
	err   error
	asked string
}

func (f *fakeResolver) LookupHost(ctx context.Context, host string) ([]string, error) {
	f.asked = host
	return f.addrs, f.err
}

func TestResolveCheck(t *testing.T) {
	ok := &fakeResolver{addrs: []string{"192.168.1.20"}}
	res := (&ResolveCheck{Endpoint: "http://raspberrypi.local:5000", Resolver: ok}).Run(context.Background())
	assert.Equal(t, StatusPass, res.Status)
	assert.Equal(t, "raspberrypi.local", ok.asked)
	assert.Contains(t, res.Message, "192.168.1.20")

	failing := &fakeResolver{err: stderrors.New("no such host")}
	res = (&ResolveCheck{Endpoint: "http://raspberrypi.local:5000", Resolver: failing}).Run(context.Background())
	assert.Equal(t, StatusFail, res.Status)
	assert.Contains(t, res.Suggestion, "mDNS")

	res = (&ResolveCheck{Endpoint: "http://pi.lan", Resolver: failing}).Run(context.Background())
	assert.Equal(t, StatusFail, res.Status)
	assert.NotContains(t, res.Suggestion, "mDNS")
}

func TestResolveCheck_IPSkipsLookup(t *testing.T) {
	r := &fakeResolver{err: stderrors.New("should not be called")}
	res := (&ResolveCheck{Endpoint: "http://10.0.0.5:5000", Resolver: r}).Run(context.Background())
	assert.Equal(t, StatusPass, res.Status)
	assert.Empty(t, r.asked)
}

func TestReachCheck(t *testing.T) {
	var dialed string
	up := func(ctx context.Context, network, address string) (net.Conn, error) {
		dialed = address
		client, server := net.Pipe()
		server.Close()
		return client, nil
	}
	res := (&ReachCheck{Endpoint: "http://pi.lan", Timeout: time.Second, Dial: up}).Run(context.Background())
	assert.Equal(t, StatusPass, res.Status)
	assert.Equal(t, "pi.lan:80", dialed)

	down := func(ctx context.Context, network, address string) (net.Conn, error) {
		return nil, stderrors.New("connection refused")
	}
	res = (&ReachCheck{Endpoint: "https://pi.lan", Timeout: time.Second, Dial: down}).Run(context.Background())
	assert.Equal(t, StatusFail, res.Status)
	assert.Contains(t, res.Message, "pi.lan:443")
}

func TestReachCheck_BadEndpoint(t *testing.T) {
	res := (&ReachCheck{Endpoint: "ftp://pi"}).Run(context.Background())
	assert.Equal(t, StatusFail, res.Status)
}
