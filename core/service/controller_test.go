package service

import (
	"errors"
	"strings"
	"testing"

	"zapret-launcher/core/strategy"
	"zapret-launcher/internal/constants"
	"zapret-launcher/internal/debuglog"
	"zapret-launcher/internal/fsrepo"
)

type fakeManager struct {
	calls     []string
	created   []string
	createErr error
	startErr  error
	stopErr   error
	tcpErr    error
}

func (f *fakeManager) KillProcess(image string) error {
	f.calls = append(f.calls, "kill "+image)
	return nil
}

func (f *fakeManager) StopService(name string) error {
	f.calls = append(f.calls, "stop "+name)
	return f.stopErr
}

func (f *fakeManager) DeleteService(name string) error {
	f.calls = append(f.calls, "delete "+name)
	return nil
}

func (f *fakeManager) CreateService(name, displayName, commandLine string) error {
	f.calls = append(f.calls, "create "+name)
	f.created = append(f.created, commandLine)
	return f.createErr
}

func (f *fakeManager) StartService(name string) error {
	f.calls = append(f.calls, "start "+name)
	return f.startErr
}

func (f *fakeManager) EnableTCPTimestamps() error {
	f.calls = append(f.calls, "tcp")
	return f.tcpErr
}

type memoryKV map[string]string

func (m memoryKV) Get(key string) (string, bool, error) {
	v, ok := m[key]
	return v, ok, nil
}

func (m memoryKV) Set(key, value string) error {
	m[key] = value
	return nil
}

type fixture struct {
	ctrl    *Controller
	manager *fakeManager
	pointer memoryKV
	lines   []string
}

func newFixture(t *testing.T, strategies map[string]string) *fixture {
	t.Helper()
	repo := fsrepo.NewMemory("/data")
	for name, body := range strategies {
		if err := repo.Write("strategies/"+name+constants.StrategyExtension, []byte(body)); err != nil {
			t.Fatalf("Failed to seed strategy %s: %v", name, err)
		}
	}
	f := &fixture{manager: &fakeManager{}, pointer: memoryKV{}}
	sink := debuglog.SinkFunc(func(line string) { f.lines = append(f.lines, line) })
	f.ctrl = NewController(Config{
		Store:      strategy.NewStore(repo, sink),
		Builder:    strategy.NewBuilder(repo, sink),
		GameFilter: strategy.NewGameFilter(repo),
		Manager:    f.manager,
		Pointer:    f.pointer,
		Sink:       sink,
		BinaryPath: `C:\zapret\bin\winws.exe`,
	})
	return f
}

func TestController_StopRunsEveryStep(t *testing.T) {
	f := newFixture(t, nil)
	f.manager.stopErr = errors.New("service does not exist")

	report := f.ctrl.Stop()

	want := []string{
		"kill winws.exe",
		"stop WinDivert", "delete WinDivert",
		"stop WinDivert14", "delete WinDivert14",
		"stop zapret", "delete zapret",
	}
	if strings.Join(f.manager.calls, ",") != strings.Join(want, ",") {
		t.Errorf("Expected calls %v, got %v", want, f.manager.calls)
	}
	if report.Err() == nil {
		t.Error("Expected report to carry the stop failures")
	}
	if f.ctrl.State().Running {
		t.Error("Expected stopped state after Stop")
	}
}

func TestController_StopWhenStopped(t *testing.T) {
	f := newFixture(t, map[string]string{"alpha": "--a"})

	for i := 0; i < 2; i++ {
		if err := f.ctrl.Stop().Err(); err != nil {
			t.Fatalf("Expected stop from stopped state to succeed, got %v", err)
		}
	}
	if f.ctrl.State().Running {
		t.Error("Expected stopped state")
	}
	if got := f.ctrl.Current(); got != constants.NoActiveStrategy {
		t.Errorf("Expected pointer untouched, got %q", got)
	}
}

func TestController_StartBadIndex(t *testing.T) {
	for _, index := range []int{0, -1, 3} {
		f := newFixture(t, map[string]string{"alpha": "--a", "beta": "--b"})
		f.pointer[constants.PointerValueName] = "beta"

		err := f.ctrl.Start(index, strategy.IpsetDefault)
		if !errors.Is(err, ErrStrategyNotFound) {
			t.Errorf("index %d: expected ErrStrategyNotFound, got %v", index, err)
		}
		if f.pointer[constants.PointerValueName] != "beta" {
			t.Errorf("index %d: pointer changed to %q", index, f.pointer[constants.PointerValueName])
		}
		for _, c := range f.manager.calls {
			if strings.HasPrefix(c, "create ") {
				t.Errorf("index %d: unexpected %q", index, c)
			}
		}
		if len(f.lines) == 0 || !strings.Contains(f.lines[len(f.lines)-1], "not found") {
			t.Errorf("index %d: expected a not-found log line, got %v", index, f.lines)
		}
	}
}

func TestController_StartInstallsService(t *testing.T) {
	f := newFixture(t, map[string]string{
		"alpha": "--wf-tcp=80 %LISTS%",
		"beta":  "--wf-udp=443,%GameFilter%",
	})

	if err := f.ctrl.Start(2, strategy.IpsetDefault); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	if len(f.manager.created) != 1 {
		t.Fatalf("Expected 1 created service, got %d", len(f.manager.created))
	}
	want := `"C:\zapret\bin\winws.exe" --wf-udp=443,` + constants.GameFilterNarrow
	if !strings.HasPrefix(f.manager.created[0], want) {
		t.Errorf("Expected command line to start with %q, got %q", want, f.manager.created[0])
	}
	if f.pointer[constants.PointerValueName] != "beta" {
		t.Errorf("Expected pointer beta, got %q", f.pointer[constants.PointerValueName])
	}
	if got := f.ctrl.Current(); got != "beta" {
		t.Errorf("Expected Current beta, got %q", got)
	}
	if st := f.ctrl.State(); !st.Running || st.Strategy != "beta" {
		t.Errorf("Expected running beta, got %v", st)
	}

	// Stop must precede the install.
	if f.manager.calls[0] != "kill winws.exe" {
		t.Errorf("Expected Start to stop first, got %v", f.manager.calls)
	}
}

func TestController_StartFailureKeepsPointer(t *testing.T) {
	f := newFixture(t, map[string]string{"alpha": "--a"})
	f.pointer[constants.PointerValueName] = "old"
	f.manager.startErr = errors.New("access denied")
	f.manager.tcpErr = errors.New("netsh failed")

	if err := f.ctrl.Start(1, strategy.IpsetDefault); err == nil {
		t.Fatal("Expected start failure")
	}
	if f.pointer[constants.PointerValueName] != "old" {
		t.Errorf("Expected pointer unchanged, got %q", f.pointer[constants.PointerValueName])
	}
	if f.ctrl.State().Running {
		t.Error("Expected stopped state after failed start")
	}
}

func TestController_CurrentWithoutPointer(t *testing.T) {
	f := newFixture(t, nil)
	if got := f.ctrl.Current(); got != constants.NoActiveStrategy {
		t.Errorf("Expected %q, got %q", constants.NoActiveStrategy, got)
	}
}

func TestController_StartByName(t *testing.T) {
	f := newFixture(t, map[string]string{"alpha": "--a", "beta": "--b"})

	if err := f.ctrl.StartByName("missing", strategy.IpsetDefault); !errors.Is(err, ErrStrategyNotFound) {
		t.Errorf("Expected ErrStrategyNotFound, got %v", err)
	}
	if err := f.ctrl.StartByName("alpha", strategy.IpsetDefault); err != nil {
		t.Fatalf("StartByName failed: %v", err)
	}
	if f.pointer[constants.PointerValueName] != "alpha" {
		t.Errorf("Expected pointer alpha, got %q", f.pointer[constants.PointerValueName])
	}
}
