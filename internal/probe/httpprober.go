package probe

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hamed0406/slotwatch/internal/domain"
)

const (
	userAgent    = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	acceptHeader = "text/plain, */*; q=0.01"
	maxBodyBytes = 1 << 20
)

// HTTPProber posts the form payload the booking site's own page sends.
type HTTPProber struct {
	Client   *http.Client
	Endpoint string
	SiteURL  string
}

func NewHTTPProber(endpoint, siteURL string, timeout time.Duration) *HTTPProber {
	return &HTTPProber{
		Client:   &http.Client{Timeout: timeout},
		Endpoint: endpoint,
		SiteURL:  siteURL,
	}
}

func (p *HTTPProber) Probe(ctx context.Context, r domain.ProbeRequest) (RawResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.Endpoint, strings.NewReader(r.Form().Encode()))
	if err != nil {
		return RawResponse{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=UTF-8")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	req.Header.Set("Accept", acceptHeader)
	if p.SiteURL != "" {
		req.Header.Set("Referer", p.SiteURL)
		if o := origin(p.SiteURL); o != "" {
			req.Header.Set("Origin", o)
		}
	}

	resp, err := p.Client.Do(req)
	if err != nil {
		return RawResponse{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return RawResponse{StatusCode: resp.StatusCode}, err
	}
	if resp.StatusCode/100 != 2 {
		return RawResponse{StatusCode: resp.StatusCode, Body: body}, &StatusError{Code: resp.StatusCode}
	}
	return RawResponse{StatusCode: resp.StatusCode, Body: body}, nil
}

// origin reduces a site URL to scheme://host.
func origin(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}
