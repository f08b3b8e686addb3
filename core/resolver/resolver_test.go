package resolver

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/miekg/dns"
)

func startServer(t *testing.T, records map[uint16][]string) string {
	t.Helper()
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to listen: %v", err)
	}

	handler := dns.HandlerFunc(func(w dns.ResponseWriter, req *dns.Msg) {
		resp := new(dns.Msg)
		resp.SetReply(req)
		q := req.Question[0]
		for _, s := range records[q.Qtype] {
			rr, err := dns.NewRR(s)
			if err != nil {
				t.Errorf("bad record %q: %v", s, err)
				continue
			}
			if rr.Header().Name == q.Name {
				resp.Answer = append(resp.Answer, rr)
			}
		}
		_ = w.WriteMsg(resp)
	})

	started := make(chan struct{})
	srv := &dns.Server{PacketConn: pc, Handler: handler, NotifyStartedFunc: func() { close(started) }}
	go func() { _ = srv.ActivateAndServe() }()
	<-started
	t.Cleanup(func() { _ = srv.Shutdown() })
	return pc.LocalAddr().String()
}

func TestResolve(t *testing.T) {
	addr := startServer(t, map[uint16][]string{
		dns.TypeSRV:  {"_minecraft._tcp.play.example. 60 IN SRV 0 5 25565 mc.example."},
		dns.TypeA:    {"mc.example. 60 IN A 203.0.113.77", "plain.example. 60 IN A 198.51.100.9"},
		dns.TypeAAAA: {"v6.example. 60 IN AAAA 2001:db8::1"},
	})
	r := New(addr)

	cases := []struct {
		host string
		want string
	}{
		{"play.example", "203.0.113.0/24"},
		{"plain.example", "198.51.100.0/24"},
		{"v6.example", "2001:db8::1"},
	}
	for _, tc := range cases {
		t.Run(tc.host, func(t *testing.T) {
			got, err := r.Resolve(context.Background(), tc.host)
			if err != nil {
				t.Fatalf("Resolve failed: %v", err)
			}
			if got != tc.want {
				t.Errorf("Expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestResolve_NoAddress(t *testing.T) {
	r := New(startServer(t, nil))
	_, err := r.Resolve(context.Background(), "nothing.example")
	if !errors.Is(err, ErrNoAddress) {
		t.Errorf("Expected ErrNoAddress, got %v", err)
	}
}
