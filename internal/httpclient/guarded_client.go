// Package httpclient wraps http.Client with the URL hygiene the d2 client
// needs: an allow-list of schemes, a redirect cap, and sane transport
// timeouts. Private and loopback hosts are allowed by default because
// DHIS2-style instances routinely run on intranets and localhost; callers
// that proxy untrusted URLs can opt in to blocking them.
package httpclient

import (
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/HISPSA/d2/errors"
)

// GuardedClient wraps http.Client with URL validation
type GuardedClient struct {
	*http.Client
	allowedSchemes   []string
	blockPrivateHost bool
	maxRedirects     int
}

// Options customizes a GuardedClient
type Options struct {
	AllowedSchemes   []string // Default: ["http", "https"]
	MaxRedirects     *int     // Default: 10
	BlockPrivateHost bool     // Default: false (API servers are often on LANs)
}

// New creates a guarded HTTP client with the given per-request timeout
func New(timeout time.Duration) *GuardedClient {
	return NewWithOptions(timeout, Options{})
}

// NewWithOptions creates a guarded HTTP client with custom options
func NewWithOptions(timeout time.Duration, opts Options) *GuardedClient {
	maxRedirects := 10
	if opts.MaxRedirects != nil {
		maxRedirects = *opts.MaxRedirects
	}

	allowedSchemes := []string{"http", "https"}
	if opts.AllowedSchemes != nil {
		allowedSchemes = opts.AllowedSchemes
	}

	client := &GuardedClient{
		Client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:          100,
				IdleConnTimeout:       90 * time.Second,
				TLSHandshakeTimeout:   10 * time.Second,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
		allowedSchemes:   allowedSchemes,
		blockPrivateHost: opts.BlockPrivateHost,
		maxRedirects:     maxRedirects,
	}

	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if len(via) >= client.maxRedirects {
			return errors.Newf("stopped after %d redirects", client.maxRedirects)
		}
		if err := client.validateURL(req.URL); err != nil {
			return errors.Wrap(err, "redirect blocked")
		}
		return nil
	}

	return client
}

// validateURL checks a URL against the client's policy before a request
func (c *GuardedClient) validateURL(u *url.URL) error {
	scheme := strings.ToLower(u.Scheme)
	allowed := false
	for _, s := range c.allowedSchemes {
		if scheme == s {
			allowed = true
			break
		}
	}
	if !allowed {
		return errors.Newf("scheme %q not allowed (allowed: %v)", scheme, c.allowedSchemes)
	}

	if u.User != nil {
		// Credentials belong in headers, not the URL: http://user@evil.com/
		return errors.New("URL must not embed credentials")
	}

	hostname := u.Hostname()
	if hostname == "" {
		return errors.New("URL missing hostname")
	}

	if c.blockPrivateHost {
		if isLocalhost(hostname) {
			return errors.New("localhost access blocked")
		}
		if ip := net.ParseIP(hostname); ip != nil && isPrivateIP(ip) {
			return errors.Newf("private IP address blocked: %s", hostname)
		}
	}

	return nil
}

// ValidateURL validates a URL string before creating a request
func (c *GuardedClient) ValidateURL(urlStr string) (*url.URL, error) {
	u, err := url.Parse(urlStr)
	if err != nil {
		return nil, errors.Wrap(err, "invalid URL")
	}

	if err := c.validateURL(u); err != nil {
		return nil, err
	}

	return u, nil
}

// Do executes an HTTP request after validating its URL
func (c *GuardedClient) Do(req *http.Request) (*http.Response, error) {
	if err := c.validateURL(req.URL); err != nil {
		return nil, errors.Wrap(err, "request blocked")
	}
	return c.Client.Do(req)
}

// isPrivateIP checks if an IP is in private or special-use ranges
func isPrivateIP(ip net.IP) bool {
	return ip.IsLoopback() ||
		ip.IsPrivate() ||
		ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast() ||
		ip.IsMulticast() ||
		ip.IsUnspecified()
}

// isLocalhost checks for localhost name variants
func isLocalhost(hostname string) bool {
	hostname = strings.ToLower(hostname)
	return hostname == "localhost" ||
		hostname == "localhost.localdomain" ||
		strings.HasSuffix(hostname, ".localhost")
}
