package strategy

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"zapret-launcher/internal/debuglog"
	"zapret-launcher/internal/fsrepo"
)

type fixedToggle bool

func (f fixedToggle) Enabled() bool { return bool(f) }

func newListsRepo(t *testing.T, files ...string) *fsrepo.Memory {
	t.Helper()
	repo := fsrepo.NewMemory(filepath.Join("data", "zapret-winws"))
	for _, f := range files {
		if err := repo.Write(f, []byte("x\n")); err != nil {
			t.Fatal(err)
		}
	}
	return repo
}

func TestBuilder_SubstitutesAllTokens(t *testing.T) {
	repo := newListsRepo(t, filepath.Join("lists", "ipset-all.txt"))
	b := NewBuilder(repo, nil)

	raw := "  --wf-udp=443,%GameFilter% --dpi-desync-fake-quic=\"%BIN%quic.bin\" %IPSET% --hostlist=\"%LISTS%list-general.txt\"  "
	for _, enabled := range []bool{true, false} {
		got := b.Build(raw, fixedToggle(enabled), IpsetDefault)

		for _, token := range []string{TokenGameFilter, TokenBin, TokenIpset, TokenLists} {
			if strings.Contains(got, token) {
				t.Errorf("Token %s left in %q", token, got)
			}
		}
		if got != strings.TrimSpace(got) {
			t.Errorf("Result not trimmed: %q", got)
		}

		wantPorts := "443,12 "
		if enabled {
			wantPorts = "443,1024-65535 "
		}
		if !strings.Contains(got, wantPorts) {
			t.Errorf("Expected port range %q in %q", wantPorts, got)
		}

		bin := repo.Abs("bin") + string(filepath.Separator) + "quic.bin"
		if !strings.Contains(got, bin) {
			t.Errorf("Expected bin path %q in %q", bin, got)
		}
		ipset := fmt.Sprintf(`--ipset="%s"`, repo.Abs(filepath.Join("lists", "ipset-all.txt")))
		if !strings.Contains(got, ipset) {
			t.Errorf("Expected %s in %q", ipset, got)
		}
	}
}

func TestBuilder_ListsFallbackExclusivity(t *testing.T) {
	repo := newListsRepo(t,
		filepath.Join("lists", "list-general.txt"),
		filepath.Join("lists", "list-discord.txt"),
		filepath.Join("lists", "list-exclude-excluded.txt"),
		filepath.Join("lists", "ipset-all.txt"),
		filepath.Join("lists", "list-notes.md"),
	)
	b := NewBuilder(repo, nil)

	t.Run("explicit lists token", func(t *testing.T) {
		got := b.Build(`--hostlist="%LISTS%list-general.txt"`, fixedToggle(false), IpsetDefault)
		if strings.Count(got, "--hostlist=") != 1 {
			t.Errorf("Fallback must not run when %%LISTS%% is present: %q", got)
		}
		want := repo.Abs("lists") + string(filepath.Separator) + "list-general.txt"
		if !strings.Contains(got, want) {
			t.Errorf("Expected %q in %q", want, got)
		}
	})

	t.Run("fallback scan", func(t *testing.T) {
		got := b.Build("--wf-tcp=80", fixedToggle(false), IpsetDefault)
		if n := strings.Count(got, "--hostlist="); n != 2 {
			t.Fatalf("Expected 2 fallback hostlists, got %d in %q", n, got)
		}
		for _, name := range []string{"list-general.txt", "list-discord.txt"} {
			flag := fmt.Sprintf(`--hostlist="%s"`, repo.Abs(filepath.Join("lists", name)))
			if !strings.Contains(got, flag) {
				t.Errorf("Missing %s in %q", flag, got)
			}
		}
		if strings.Contains(got, "excluded") || strings.Contains(got, "notes") {
			t.Errorf("Excluded lists leaked into %q", got)
		}
		if !strings.HasPrefix(got, "--wf-tcp=80 --hostlist=") {
			t.Errorf("Hostlists must be appended after the template: %q", got)
		}
	})

	t.Run("template with trailing newline", func(t *testing.T) {
		got := b.Build("--wf-tcp=80 --dpi-desync=fake\r\n", fixedToggle(false), IpsetDefault)
		if strings.ContainsAny(got, "\r\n") {
			t.Errorf("Line breaks left in %q", got)
		}
		if !strings.HasPrefix(got, "--wf-tcp=80 --dpi-desync=fake --hostlist=") {
			t.Errorf("Expected hostlists right after the template, got %q", got)
		}
	})

	t.Run("no lists dir", func(t *testing.T) {
		got := NewBuilder(fsrepo.NewMemory("empty"), nil).Build("--wf-tcp=80 ", fixedToggle(false), IpsetDefault)
		if got != "--wf-tcp=80" {
			t.Errorf("Build = %q", got)
		}
	})
}

func TestBuilder_EmitsDecisions(t *testing.T) {
	var lines []string
	sink := debuglog.SinkFunc(func(line string) { lines = append(lines, line) })
	b := NewBuilder(newListsRepo(t, filepath.Join("lists", "list-general.txt")), sink)

	b.Build("%IPSET%", fixedToggle(true), IpsetNone)

	joined := strings.Join(lines, "\n")
	for _, want := range []string{"game filter: wide", "%IPSET%:", "ipset-none-hide.txt", "fallback hostlist"} {
		if !strings.Contains(joined, want) {
			t.Errorf("Expected log line containing %q, got:\n%s", want, joined)
		}
	}
}

func TestIsFallbackHostlist(t *testing.T) {
	cases := []struct {
		name string
		want bool
	}{
		{"list-general.txt", true},
		{"list-youtube.txt", true},
		{"list-exclude-excluded.txt", false},
		{"ipset-all.txt", false},
		{"list-general.txt.bak", false},
	}
	for _, tc := range cases {
		if got := IsFallbackHostlist(tc.name); got != tc.want {
			t.Errorf("IsFallbackHostlist(%q) = %v, want %v", tc.name, got, tc.want)
		}
	}
}
