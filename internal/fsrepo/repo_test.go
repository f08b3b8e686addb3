package fsrepo

import (
	"path/filepath"
	"testing"
)

func TestRepos(t *testing.T) {
	repos := map[string]Repo{
		"disk":   NewDisk(t.TempDir()),
		"memory": NewMemory(filepath.Join("root", "data")),
	}

	for name, repo := range repos {
		t.Run(name, func(t *testing.T) {
			if _, err := repo.List("strategies"); !IsNotExist(err) {
				t.Fatalf("Expected not-exist for missing dir, got %v", err)
			}

			if err := repo.Write(filepath.Join("strategies", "b.zapret"), []byte("B")); err != nil {
				t.Fatalf("Write failed: %v", err)
			}
			if err := repo.Write(filepath.Join("strategies", "a.zapret"), []byte("A")); err != nil {
				t.Fatalf("Write failed: %v", err)
			}
			if err := repo.Write(filepath.Join("strategies", "nested", "c.zapret"), []byte("C")); err != nil {
				t.Fatalf("Write failed: %v", err)
			}

			names, err := repo.List("strategies")
			if err != nil {
				t.Fatalf("List failed: %v", err)
			}
			if len(names) != 2 {
				t.Fatalf("Expected 2 files (nested dir excluded), got %v", names)
			}

			if err := repo.Append(filepath.Join("strategies", "a.zapret"), []byte("+")); err != nil {
				t.Fatalf("Append failed: %v", err)
			}
			data, err := repo.Read(filepath.Join("strategies", "a.zapret"))
			if err != nil || string(data) != "A+" {
				t.Errorf("Read = %q, %v; want \"A+\"", data, err)
			}

			if err := repo.Append("missing.txt", []byte("x")); !IsNotExist(err) {
				t.Errorf("Append to missing file should fail with not-exist, got %v", err)
			}

			if err := repo.Remove(filepath.Join("strategies", "a.zapret")); err != nil {
				t.Fatalf("Remove failed: %v", err)
			}
			if err := repo.Remove(filepath.Join("strategies", "a.zapret")); err != nil {
				t.Errorf("Second remove should be a no-op, got %v", err)
			}
			if repo.Exists(filepath.Join("strategies", "a.zapret")) {
				t.Error("File should be gone after Remove")
			}
			if got := repo.Abs("lists"); got != filepath.Join(repo.Root(), "lists") {
				t.Errorf("Abs = %q", got)
			}
		})
	}
}
