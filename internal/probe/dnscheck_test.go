package probe

import (
	"context"
	"testing"
)

func TestCheckDNS_Localhost(t *testing.T) {
	s := CheckDNS(context.Background(), "http://localhost:8080/x")
	if s.Host != "localhost" {
		t.Fatalf("want host localhost, got %q", s.Host)
	}
	if s.Class != DNSResolves {
		t.Logf("localhost did not resolve here (%s: %s)", s.Class, s.ResolverError)
	}
}

func TestCheckDNS_InvalidName(t *testing.T) {
	if s := CheckDNS(context.Background(), ""); s.Class != DNSInvalidName {
		t.Fatalf("want INVALID_NAME, got %s", s.Class)
	}
}
