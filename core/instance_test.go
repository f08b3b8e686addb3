package core

import (
	"errors"
	"testing"

	"zapret-launcher/internal/process"
)

func TestOtherInstance(t *testing.T) {
	procs := []process.ProcessInfo{
		{PID: 10, Name: "Zust.exe"},
		{PID: 20, Name: "explorer.exe"},
	}
	list := func() ([]process.ProcessInfo, error) { return procs, nil }

	if otherInstance(list, "zust.exe", 10) {
		t.Error("Expected own process to be ignored")
	}
	procs = append(procs, process.ProcessInfo{PID: 11, Name: "zust.exe"})
	if !otherInstance(list, "Zust.exe", 10) {
		t.Error("Expected second instance to be detected")
	}

	failing := func() ([]process.ProcessInfo, error) { return nil, errors.New("denied") }
	if otherInstance(failing, "zust.exe", 10) {
		t.Error("Expected listing failure to report no instance")
	}
}
