package remote

import (
	"context"
	"crypto/md5"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"zapret-launcher/core/strategy"
	"zapret-launcher/internal/debuglog"
	"zapret-launcher/internal/fsrepo"
)

func script(args string) string {
	return "@echo off\r\nstart \"zapret\" /min \"%BIN%winws.exe\" " + args + "\r\n"
}

func newTestClient(srv *httptest.Server) *Client {
	c := NewClient(nil)
	c.HTTP = srv.Client()
	c.BinaryURL = srv.URL + "/winws.exe"
	c.StrategyBaseURL = srv.URL + "/"
	c.HostsURL = srv.URL + "/hosts"
	return c
}

func TestCheckBinaryUpdate(t *testing.T) {
	remote := []byte("remote binary v2")
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		_, _ = w.Write(remote)
	}))
	defer srv.Close()
	c := newTestClient(srv)
	dir := t.TempDir()

	t.Run("missing local binary", func(t *testing.T) {
		updated, err := c.CheckBinaryUpdate(context.Background(), filepath.Join(dir, "absent.exe"))
		if err != nil {
			t.Fatalf("CheckBinaryUpdate failed: %v", err)
		}
		if !updated {
			t.Error("Expected update needed for missing binary")
		}
		if n := atomic.LoadInt32(&hits); n != 0 {
			t.Errorf("Expected no fetch, got %d requests", n)
		}
	})

	t.Run("same content", func(t *testing.T) {
		path := filepath.Join(dir, "same.exe")
		if err := os.WriteFile(path, remote, 0644); err != nil {
			t.Fatal(err)
		}
		updated, err := c.CheckBinaryUpdate(context.Background(), path)
		if err != nil {
			t.Fatalf("CheckBinaryUpdate failed: %v", err)
		}
		if updated {
			t.Error("Expected up to date")
		}
	})

	t.Run("different content", func(t *testing.T) {
		path := filepath.Join(dir, "old.exe")
		if err := os.WriteFile(path, []byte("old"), 0644); err != nil {
			t.Fatal(err)
		}
		updated, err := c.CheckBinaryUpdate(context.Background(), path)
		if err != nil {
			t.Fatalf("CheckBinaryUpdate failed: %v", err)
		}
		if !updated {
			t.Error("Expected update")
		}
		got, _ := os.ReadFile(path)
		if md5.Sum(got) != md5.Sum(remote) {
			t.Error("Expected local binary to be replaced")
		}
	})
}

func TestBinaryFailuresReachSink(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		_, _ = w.Write([]byte("bin"))
	}))
	defer srv.Close()
	c := newTestClient(srv)
	var lines []string
	c.sink = debuglog.SinkFunc(func(line string) { lines = append(lines, line) })

	t.Run("unreadable local binary", func(t *testing.T) {
		lines = nil
		if _, err := c.CheckBinaryUpdate(context.Background(), t.TempDir()); err == nil {
			t.Fatal("Expected error for a directory in place of the binary")
		}
		if len(lines) != 1 || !strings.Contains(lines[0], "cannot read local winws.exe") {
			t.Errorf("Expected one error line, got %v", lines)
		}
		if n := atomic.LoadInt32(&hits); n != 0 {
			t.Errorf("Expected no fetch, got %d requests", n)
		}
	})

	t.Run("blocked target directory", func(t *testing.T) {
		lines = nil
		blocker := filepath.Join(t.TempDir(), "bin")
		if err := os.WriteFile(blocker, []byte("file"), 0644); err != nil {
			t.Fatal(err)
		}
		if err := c.DownloadBinary(context.Background(), filepath.Join(blocker, "winws.exe")); err == nil {
			t.Fatal("Expected error when the bin path is a file")
		}
		if len(lines) != 1 || !strings.Contains(lines[0], "cannot create") {
			t.Errorf("Expected one error line, got %v", lines)
		}
	})
}

func TestDownloadBinary(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("bin"))
	}))
	defer srv.Close()
	c := newTestClient(srv)

	path := filepath.Join(t.TempDir(), "bin", "winws.exe")
	if err := c.DownloadBinary(context.Background(), path); err != nil {
		t.Fatalf("DownloadBinary failed: %v", err)
	}
	if got, _ := os.ReadFile(path); string(got) != "bin" {
		t.Errorf("Expected 'bin', got %q", got)
	}
}

func TestCheckStrategyUpdates(t *testing.T) {
	published := map[string]string{
		"/same.bat":    script("--same"),
		"/changed.bat": script("--new"),
		"/fresh.bat":   script("--fresh"),
		"/nomark.bat":  "@echo off\r\n",
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := published[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	c := newTestClient(srv)
	c.Scripts = []string{"same.bat", "changed.bat", "missing.bat", "fresh.bat", "nomark.bat"}

	store := strategy.NewStore(fsrepo.NewMemory("/data"), nil)
	if err := store.Write("same", "--same\n"); err != nil {
		t.Fatal(err)
	}
	if err := store.Write("changed", "--old"); err != nil {
		t.Fatal(err)
	}

	updates, err := c.CheckStrategyUpdates(context.Background(), store)
	if err != nil {
		t.Fatalf("CheckStrategyUpdates failed: %v", err)
	}
	want := "changed.bat,fresh.bat"
	if got := strings.Join(updates, ","); got != want {
		t.Errorf("Expected updates %q, got %q", want, got)
	}
}

func TestCheckStrategyUpdates_TransportErrorAborts(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	c := newTestClient(srv)
	srv.Close()
	c.Scripts = []string{"a.bat"}

	store := strategy.NewStore(fsrepo.NewMemory("/data"), nil)
	if _, err := c.CheckStrategyUpdates(context.Background(), store); err == nil {
		t.Fatal("Expected transport error")
	}
}

func TestApplyStrategyUpdate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/general (ALT).bat" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(script("--wf-tcp=80 %LISTS%")))
	}))
	defer srv.Close()
	c := newTestClient(srv)

	store := strategy.NewStore(fsrepo.NewMemory("/data"), nil)
	conv := strategy.NewConverter(store)

	if err := c.ApplyStrategyUpdate(context.Background(), "general (ALT).bat", conv); err != nil {
		t.Fatalf("ApplyStrategyUpdate failed: %v", err)
	}
	got, err := store.Read("general (ALT)")
	if err != nil {
		t.Fatalf("Expected converted strategy: %v", err)
	}
	if got != "--wf-tcp=80 %LISTS%" {
		t.Errorf("Expected converted args, got %q", got)
	}

	err = c.ApplyStrategyUpdate(context.Background(), "absent.bat", conv)
	if !errors.Is(err, ErrHTTPStatus) {
		t.Errorf("Expected ErrHTTPStatus, got %v", err)
	}
}

func TestIsNetworkError(t *testing.T) {
	if IsNetworkError(nil) {
		t.Error("nil is not a network error")
	}
	if !IsNetworkError(context.Canceled) {
		t.Error("Expected context.Canceled to count as network error")
	}
	if IsNetworkError(errors.New("plain")) {
		t.Error("Expected plain error not to count")
	}
}
