package shared

import (
	"net"
	"net/url"
	"sync"
	"time"
)

// Connectivity reports whether the network is reachable before a search is issued.
type Connectivity interface {
	Online() bool
}

// StaticConnectivity is a fixed answer, used when probing is disabled and in tests.
type StaticConnectivity bool

func (s StaticConnectivity) Online() bool { return bool(s) }

// AlwaysOnline never blocks a search.
const AlwaysOnline = StaticConnectivity(true)

// Probe dials the provider host and caches the answer for ttl.
type Probe struct {
	addr    string
	timeout time.Duration
	ttl     time.Duration
	dial    func(network, address string, timeout time.Duration) (net.Conn, error)

	mu      sync.Mutex
	checked time.Time
	online  bool
}

// NewProbe creates a [Probe] for the host of rawURL (port 443/80 inferred from the scheme).
func NewProbe(rawURL string, timeout time.Duration) *Probe {
	return &Probe{
		addr:    probeAddr(rawURL),
		timeout: timeout,
		ttl:     5 * time.Second,
		dial:    net.DialTimeout,
	}
}

// Online dials the provider at most once per ttl.
func (p *Probe) Online() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.checked.IsZero() && time.Since(p.checked) < p.ttl {
		return p.online
	}

	conn, err := p.dial("tcp", p.addr, p.timeout)
	p.online = err == nil
	p.checked = time.Now()
	if conn != nil {
		conn.Close()
	}
	return p.online
}

func probeAddr(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	if u.Port() != "" {
		return u.Host
	}
	if u.Scheme == "http" {
		return net.JoinHostPort(u.Hostname(), "80")
	}
	return net.JoinHostPort(u.Hostname(), "443")
}
