package bundle

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestCopyDir(t *testing.T) {
	src := filepath.Join(t.TempDir(), "zapret")
	dst := filepath.Join(t.TempDir(), "data")
	writeFile(t, filepath.Join(src, "strategies", "a.zapret"), "--a")
	writeFile(t, filepath.Join(src, "lists", "list-general.txt"), "example.com")
	writeFile(t, filepath.Join(src, "bin", "winws.exe"), "new")
	writeFile(t, filepath.Join(dst, "bin", "winws.exe"), "old")

	if err := CopyDir(src, dst, nil); err != nil {
		t.Fatalf("CopyDir failed: %v", err)
	}

	cases := map[string]string{
		"strategies/a.zapret":    "--a",
		"lists/list-general.txt": "example.com",
		"bin/winws.exe":          "new",
	}
	for rel, want := range cases {
		got, err := os.ReadFile(filepath.Join(dst, filepath.FromSlash(rel)))
		if err != nil {
			t.Errorf("Expected %s to be copied: %v", rel, err)
			continue
		}
		if string(got) != want {
			t.Errorf("%s: expected %q, got %q", rel, want, got)
		}
	}
}

func TestCopyDir_MissingSource(t *testing.T) {
	if err := CopyDir(filepath.Join(t.TempDir(), "absent"), t.TempDir(), nil); err == nil {
		t.Error("Expected error for missing source")
	}
}

func TestCopyMissing(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	writeFile(t, filepath.Join(src, "kept.zapret"), "legacy")
	writeFile(t, filepath.Join(src, "new.zapret"), "legacy")
	writeFile(t, filepath.Join(dst, "kept.zapret"), "current")

	n, err := CopyMissing(src, dst)
	if err != nil {
		t.Fatalf("CopyMissing failed: %v", err)
	}
	if n != 1 {
		t.Errorf("Expected 1 copied file, got %d", n)
	}
	if got, _ := os.ReadFile(filepath.Join(dst, "kept.zapret")); string(got) != "current" {
		t.Errorf("Expected existing file untouched, got %q", got)
	}
	if got, _ := os.ReadFile(filepath.Join(dst, "new.zapret")); string(got) != "legacy" {
		t.Errorf("Expected new file copied, got %q", got)
	}
}
