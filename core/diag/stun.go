// Package diag holds network checks used to confirm the bypass is effective.
package diag

import (
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/pion/stun"

	"zapret-launcher/internal/debuglog"
)

// ErrSTUNTimeout is returned when the server does not answer in time.
var ErrSTUNTimeout = errors.New("STUN request timed out")

// DefaultSTUNTimeout is the CheckSTUN timeout when none is given.
const DefaultSTUNTimeout = 5 * time.Second

// CheckSTUN asks serverAddr for the external address of this host over UDP.
func CheckSTUN(serverAddr string, timeout time.Duration) (string, error) {
	if timeout <= 0 {
		timeout = DefaultSTUNTimeout
	}
	conn, err := net.Dial("udp", serverAddr)
	if err != nil {
		return "", fmt.Errorf("CheckSTUN: failed to dial STUN server: %w", err)
	}
	defer debuglog.CloseWithLog("CheckSTUN: close conn", conn)

	c, err := stun.NewClient(conn)
	if err != nil {
		return "", fmt.Errorf("CheckSTUN: failed to create STUN client: %w", err)
	}
	defer debuglog.CloseWithLog("CheckSTUN: close client", c)

	message := stun.MustBuild(stun.TransactionID, stun.BindingRequest)

	type result struct {
		ip  string
		err error
	}
	done := make(chan result, 1)
	go func() {
		var xorAddr stun.XORMappedAddress
		var eventErr error
		err := c.Do(message, func(res stun.Event) {
			if res.Error != nil {
				eventErr = res.Error
				return
			}
			eventErr = xorAddr.GetFrom(res.Message)
		})
		if err == nil {
			err = eventErr
		}
		if err != nil {
			done <- result{err: err}
			return
		}
		done <- result{ip: xorAddr.IP.String()}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			return "", fmt.Errorf("CheckSTUN: request failed: %w", r.err)
		}
		debuglog.DebugLog("CheckSTUN: %s reports %s", serverAddr, r.ip)
		return r.ip, nil
	case <-time.After(timeout):
		return "", fmt.Errorf("CheckSTUN %s: %w", serverAddr, ErrSTUNTimeout)
	}
}
