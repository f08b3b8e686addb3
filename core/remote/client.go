// Package remote compares local strategy and binary artifacts against their
// published sources and downloads them when they differ.
package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"zapret-launcher/internal/constants"
	"zapret-launcher/internal/debuglog"
)

const (
	// NetworkDialTimeout bounds connection setup only. Transfers have no overall timeout.
	NetworkDialTimeout = 5 * time.Second

	// fetchInterval paces consecutive strategy script requests.
	fetchInterval = 100 * time.Millisecond
)

// ErrHTTPStatus is wrapped by fetch errors caused by a non-2xx response.
var ErrHTTPStatus = errors.New("unexpected HTTP status")

// CreateHTTPClient builds a client with dial and handshake timeouts and no request timeout.
func CreateHTTPClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   NetworkDialTimeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:          100,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		},
	}
}

// IsNetworkError reports whether err comes from the transport rather than the server.
func IsNetworkError(err error) bool {
	if err == nil {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}

// GetNetworkErrorMessage turns a transport error into a short user-facing message.
func GetNetworkErrorMessage(err error) string {
	if err == nil {
		return "Unknown network error"
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return fmt.Sprintf("DNS error: cannot resolve hostname (%s)", dnsErr.Name)
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return "Network error: cannot connect to server"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "Network timeout: connection timed out"
	}
	if errors.Is(err, context.Canceled) {
		return "Request canceled"
	}
	return fmt.Sprintf("Network error: %s", err.Error())
}

// Client fetches the bypass binary, strategy scripts and the hosts document.
type Client struct {
	HTTP *http.Client

	BinaryURL       string
	StrategyBaseURL string
	HostsURL        string
	// Scripts are the script names published under StrategyBaseURL.
	Scripts []string

	limiter *rate.Limiter
	sink    debuglog.Sink
}

// NewClient returns a client for the default endpoints.
func NewClient(sink debuglog.Sink) *Client {
	if sink == nil {
		sink = debuglog.Discard
	}
	return &Client{
		HTTP:            CreateHTTPClient(),
		BinaryURL:       constants.WinwsURL,
		StrategyBaseURL: constants.StrategyRepoURL,
		HostsURL:        constants.HostsURL,
		Scripts:         append([]string(nil), constants.RemoteStrategyScripts...),
		limiter:         rate.NewLimiter(rate.Every(fetchInterval), 1),
		sink:            sink,
	}
}

// Fetch downloads url. A non-2xx response returns an error wrapping ErrHTTPStatus.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("Fetch: failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", constants.UserAgent)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		if IsNetworkError(err) {
			return nil, fmt.Errorf("Fetch %s: %s: %w", url, GetNetworkErrorMessage(err), err)
		}
		return nil, fmt.Errorf("Fetch %s: request failed: %w", url, err)
	}
	defer debuglog.CloseWithLog("Fetch: close body", resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("Fetch %s: %w: %d", url, ErrHTTPStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("Fetch %s: failed to read response: %w", url, err)
	}
	return body, nil
}

// FetchText downloads url and returns the body as text.
func (c *Client) FetchText(ctx context.Context, url string) (string, error) {
	body, err := c.Fetch(ctx, url)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (c *Client) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	return c.limiter.Wait(ctx)
}
