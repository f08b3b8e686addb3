// Package resolver turns a host name into the ipset entry that covers it.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/miekg/dns"

	"zapret-launcher/internal/constants"
	"zapret-launcher/internal/debuglog"
)

// ErrNoAddress is returned when no server knows an address for the host.
var ErrNoAddress = errors.New("no address found")

const queryTimeout = 3 * time.Second

// Resolver queries a fixed list of DNS servers in order.
type Resolver struct {
	Servers []string
	client  *dns.Client
}

func New(servers ...string) *Resolver {
	if len(servers) == 0 {
		servers = constants.DefaultDNSServers
	}
	return &Resolver{
		Servers: servers,
		client:  &dns.Client{Timeout: queryTimeout},
	}
}

// exchange sends one question to each server until one answers.
func (r *Resolver) exchange(ctx context.Context, name string, qtype uint16) (*dns.Msg, error) {
	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(name), qtype)
	msg.RecursionDesired = true

	var lastErr error
	for _, server := range r.Servers {
		resp, _, err := r.client.ExchangeContext(ctx, msg, server)
		if err != nil {
			debuglog.DebugLog("Resolver: %s %s via %s: %v", dns.TypeToString[qtype], name, server, err)
			lastErr = err
			continue
		}
		return resp, nil
	}
	if lastErr == nil {
		lastErr = errors.New("no DNS servers configured")
	}
	return nil, lastErr
}

// srvTarget returns the target of the game service record for host, if one exists.
func (r *Resolver) srvTarget(ctx context.Context, host string) (string, bool) {
	resp, err := r.exchange(ctx, constants.SRVServicePrefix+host, dns.TypeSRV)
	if err != nil || resp.Rcode != dns.RcodeSuccess {
		return "", false
	}
	for _, rr := range resp.Answer {
		if srv, ok := rr.(*dns.SRV); ok {
			return strings.TrimSuffix(srv.Target, "."), true
		}
	}
	return "", false
}

// LookupIP returns the first address of host, preferring A over AAAA.
func (r *Resolver) LookupIP(ctx context.Context, host string) (net.IP, error) {
	var lastErr error
	for _, qtype := range []uint16{dns.TypeA, dns.TypeAAAA} {
		resp, err := r.exchange(ctx, host, qtype)
		if err != nil {
			lastErr = err
			continue
		}
		for _, rr := range resp.Answer {
			switch v := rr.(type) {
			case *dns.A:
				return v.A, nil
			case *dns.AAAA:
				return v.AAAA, nil
			}
		}
	}
	if lastErr != nil {
		return nil, fmt.Errorf("LookupIP %s: %w", host, lastErr)
	}
	return nil, fmt.Errorf("LookupIP %s: %w", host, ErrNoAddress)
}

// Resolve follows the game service record when present and returns the /24 of the
// IPv4 address, or the IPv6 address as is.
func (r *Resolver) Resolve(ctx context.Context, host string) (string, error) {
	host = strings.TrimSpace(host)
	target := host
	if t, ok := r.srvTarget(ctx, host); ok {
		debuglog.DebugLog("Resolver: %s -> SRV %s", host, t)
		target = t
	}

	ip, err := r.LookupIP(ctx, target)
	if err != nil {
		return "", fmt.Errorf("Resolve: %w", err)
	}
	if v4 := ip.To4(); v4 != nil {
		return fmt.Sprintf("%d.%d.%d.0/24", v4[0], v4[1], v4[2]), nil
	}
	return ip.String(), nil
}
