package probe

import (
	"context"
	"errors"
	"net"
	"net/url"
	"strings"
	"time"
)

type DNSClass string

const (
	DNSResolves    DNSClass = "RESOLVES"
	DNSNoAddress   DNSClass = "NO_A_RECORD"
	DNSNXDomain    DNSClass = "NXDOMAIN"
	DNSTemporary   DNSClass = "SERVFAIL_or_TIMEOUT"
	DNSInvalidName DNSClass = "INVALID_NAME"
)

var dnsTimeout = 3 * time.Second

// DNSStatus is what the preflight check reports about the upstream host.
type DNSStatus struct {
	Host          string
	Class         DNSClass
	IPs           []net.IP
	ResolverError string
}

// CheckDNS resolves the host of rawURL (or rawURL itself when it is a bare host).
func CheckDNS(ctx context.Context, rawURL string) DNSStatus {
	s := DNSStatus{Host: hostOf(rawURL)}
	if s.Host == "" || strings.Contains(s.Host, "/") {
		s.Class = DNSInvalidName
		return s
	}

	ctx, cancel := context.WithTimeout(ctx, dnsTimeout)
	defer cancel()

	ips, err := net.DefaultResolver.LookupIP(ctx, "ip", s.Host)
	switch {
	case err == nil && len(ips) > 0:
		s.IPs = ips
		s.Class = DNSResolves
	case err == nil:
		s.Class = DNSNoAddress
	default:
		s.ResolverError = err.Error()
		s.Class = DNSTemporary
		var de *net.DNSError
		if errors.As(err, &de) && de.IsNotFound {
			s.Class = DNSNXDomain
		}
	}
	return s
}

func hostOf(raw string) string {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return raw
	}
	return u.Hostname()
}
