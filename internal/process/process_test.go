package process

import (
	"errors"
	"testing"
)

func TestFindByName(t *testing.T) {
	list := func() ([]ProcessInfo, error) {
		return []ProcessInfo{
			{PID: 10, Name: "explorer.exe"},
			{PID: 20, Name: "WINWS.EXE"},
			{PID: 30, Name: "winws.exe"},
		}, nil
	}

	found, err := FindByName(list, "winws.exe")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(found) != 2 {
		t.Fatalf("Expected 2 processes, got %d", len(found))
	}
	if found[0].PID != 20 || found[1].PID != 30 {
		t.Errorf("Unexpected PIDs: %+v", found)
	}
}

func TestFindByName_ListError(t *testing.T) {
	boom := errors.New("boom")
	_, err := FindByName(func() ([]ProcessInfo, error) { return nil, boom }, "winws.exe")
	if !errors.Is(err, boom) {
		t.Errorf("Expected list error, got %v", err)
	}
}
