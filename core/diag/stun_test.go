package diag

import (
	"errors"
	"net"
	"testing"
	"time"

	"github.com/pion/stun"
)

// serveSTUN answers binding requests with the sender's address until the socket closes.
func serveSTUN(t *testing.T, pc net.PacketConn) {
	t.Helper()
	buf := make([]byte, 1500)
	for {
		n, addr, err := pc.ReadFrom(buf)
		if err != nil {
			return
		}
		req := &stun.Message{Raw: append([]byte(nil), buf[:n]...)}
		if err := req.Decode(); err != nil {
			continue
		}
		udp := addr.(*net.UDPAddr)
		resp, err := stun.Build(
			stun.NewTransactionIDSetter(req.TransactionID),
			stun.BindingSuccess,
			&stun.XORMappedAddress{IP: udp.IP, Port: udp.Port},
			stun.Fingerprint,
		)
		if err != nil {
			continue
		}
		_, _ = pc.WriteTo(resp.Raw, addr)
	}
}

func TestCheckSTUN(t *testing.T) {
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to listen: %v", err)
	}
	defer pc.Close()
	go serveSTUN(t, pc)

	ip, err := CheckSTUN(pc.LocalAddr().String(), 2*time.Second)
	if err != nil {
		t.Fatalf("CheckSTUN failed: %v", err)
	}
	if ip != "127.0.0.1" {
		t.Errorf("Expected 127.0.0.1, got %s", ip)
	}
}

func TestCheckSTUN_Timeout(t *testing.T) {
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to listen: %v", err)
	}
	defer pc.Close()

	_, err = CheckSTUN(pc.LocalAddr().String(), 200*time.Millisecond)
	if !errors.Is(err, ErrSTUNTimeout) {
		t.Errorf("Expected ErrSTUNTimeout, got %v", err)
	}
}
