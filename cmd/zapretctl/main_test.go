package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func run(t *testing.T, root string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	mainCommand.SetOut(&out)
	mainCommand.SetErr(&out)
	mainCommand.SetArgs(append([]string{"--root", root, "--exec-dir", root}, args...))
	err := mainCommand.Execute()
	return out.String(), err
}

func TestCommandList(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "strategies")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"beta", "alpha"} {
		if err := os.WriteFile(filepath.Join(dir, name+".zapret"), []byte("--wf-tcp=80"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	out, err := run(t, root, "list")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out, "1. alpha") || !strings.Contains(out, "2. beta") {
		t.Errorf("Expected sorted numbered strategies, got %q", out)
	}
}

func TestCommandGameFilter(t *testing.T) {
	root := t.TempDir()

	if _, err := run(t, root, "game-filter", "on"); err != nil {
		t.Fatalf("game-filter on failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "utils", "game_filter.enabled")); err != nil {
		t.Errorf("Expected marker file: %v", err)
	}
	if _, err := run(t, root, "game-filter", "maybe"); err == nil {
		t.Error("Expected invalid argument error")
	}
}

func TestCommandIpsetAdd(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "ipset-configs")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "games.txt"), []byte("10.0.0.0/24"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := run(t, root, "ipset", "add", "games.txt", "203.0.113.7"); err != nil {
		t.Fatalf("ipset add failed: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "games.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "10.0.0.0/24\n203.0.113.0/24\n" {
		t.Errorf("Unexpected ipset content %q", data)
	}

	out, err := run(t, root, "ipset", "list")
	if err != nil {
		t.Fatalf("ipset list failed: %v", err)
	}
	if strings.TrimSpace(out) != "games.txt" {
		t.Errorf("Expected games.txt, got %q", out)
	}
}

func TestCommandStartRequiresStrategy(t *testing.T) {
	if _, err := run(t, t.TempDir(), "start"); err == nil {
		t.Error("Expected missing strategy error")
	}
}
