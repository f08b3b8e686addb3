// Package service drives the Windows service that runs the bypass binary.
package service

import (
	"errors"
	"fmt"
	"sync"

	"zapret-launcher/core/strategy"
	"zapret-launcher/internal/constants"
	"zapret-launcher/internal/debuglog"
)

// ErrStrategyNotFound is returned when a start index is outside the current listing.
var ErrStrategyNotFound = errors.New("strategy not found")

// Manager is the OS service capability the controller drives.
type Manager interface {
	// KillProcess terminates every process with the given image name and its children.
	KillProcess(image string) error
	StopService(name string) error
	DeleteService(name string) error
	// CreateService registers an auto-start service running commandLine verbatim.
	CreateService(name, displayName, commandLine string) error
	StartService(name string) error
	// EnableTCPTimestamps applies the network stack setting strategies depend on.
	EnableTCPTimestamps() error
}

// KeyValueStore persists the active strategy outside the data directory.
type KeyValueStore interface {
	// Get returns ok=false when the key was never written.
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
}

// State is the lifecycle state of the bypass service as seen by this process.
type State struct {
	Running  bool
	Strategy string
}

func (s State) String() string {
	if !s.Running {
		return "stopped"
	}
	return "running: " + s.Strategy
}

// Controller starts and stops the bypass service. Concurrent Start calls are not
// serialized; the OS service manager is the only synchronization point and the
// last successful start wins the pointer.
type Controller struct {
	store   *strategy.Store
	builder *strategy.Builder
	filter  strategy.Toggle
	manager Manager
	pointer KeyValueStore
	sink    debuglog.Sink

	binaryPath string

	mu    sync.Mutex
	state State
}

// Config wires the controller to its collaborators.
type Config struct {
	Store      *strategy.Store
	Builder    *strategy.Builder
	GameFilter strategy.Toggle
	Manager    Manager
	Pointer    KeyValueStore
	Sink       debuglog.Sink
	BinaryPath string
}

func NewController(cfg Config) *Controller {
	sink := cfg.Sink
	if sink == nil {
		sink = debuglog.Discard
	}
	return &Controller{
		store:      cfg.Store,
		builder:    cfg.Builder,
		filter:     cfg.GameFilter,
		manager:    cfg.Manager,
		pointer:    cfg.Pointer,
		sink:       sink,
		binaryPath: cfg.BinaryPath,
	}
}

// State returns the last state this controller produced.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// Current returns the persisted active strategy, or constants.NoActiveStrategy.
func (c *Controller) Current() string {
	name, ok := c.ActiveStrategy()
	if !ok {
		return constants.NoActiveStrategy
	}
	return name
}

// ActiveStrategy returns the persisted active strategy and whether one exists.
func (c *Controller) ActiveStrategy() (string, bool) {
	if c.pointer == nil {
		return "", false
	}
	name, ok, err := c.pointer.Get(constants.PointerValueName)
	if err != nil {
		debuglog.DebugLog("Controller.ActiveStrategy: %v", err)
		return "", false
	}
	if !ok || name == "" {
		return "", false
	}
	return name, true
}

// Step is one cleanup action of Stop.
type Step struct {
	Name string
	Err  error
}

// StopReport collects the outcome of every cleanup step.
type StopReport struct {
	Steps []Step
}

func (r *StopReport) add(name string, err error) {
	r.Steps = append(r.Steps, Step{Name: name, Err: err})
}

// Err joins the failures of all steps, or returns nil.
func (r StopReport) Err() error {
	var errs []error
	for _, s := range r.Steps {
		if s.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.Name, s.Err))
		}
	}
	return errors.Join(errs...)
}

// Stop kills the bypass binary and removes its service and driver registrations.
// Every step runs regardless of earlier failures, in any state.
func (c *Controller) Stop() StopReport {
	var report StopReport

	report.add("kill "+constants.WinwsExecName, c.manager.KillProcess(constants.WinwsExecName))

	for _, name := range constants.DriverServices {
		debuglog.Emitf(c.sink, debuglog.LevelInfo, "removing service %s...", name)
		report.add("stop "+name, c.manager.StopService(name))
		report.add("delete "+name, c.manager.DeleteService(name))
	}

	for _, s := range report.Steps {
		if s.Err != nil {
			debuglog.DebugLog("Controller.Stop: %s: %v", s.Name, s.Err)
		}
	}
	c.setState(State{})
	debuglog.Emitf(c.sink, debuglog.LevelInfo, "zapret services stopped and removed")
	return report
}

// Start restarts the bypass service with the strategy at the 1-based index of the
// current listing. The index is only meaningful against a listing fetched just before.
func (c *Controller) Start(index int, sel strategy.IpsetSelector) error {
	c.Stop()

	names := c.store.List()
	if index < 1 || index > len(names) {
		debuglog.Emitf(c.sink, debuglog.LevelError, "error: strategy #%d not found (%d available)", index, len(names))
		return fmt.Errorf("Start: index %d: %w", index, ErrStrategyNotFound)
	}
	name := names[index-1]

	raw, err := c.store.Read(name)
	if err != nil {
		debuglog.Emitf(c.sink, debuglog.LevelError, "error: cannot read strategy %s: %v", name, err)
		return fmt.Errorf("Start: %w", err)
	}
	args := c.builder.Build(raw, c.filter, sel)
	commandLine := fmt.Sprintf(`"%s" %s`, c.binaryPath, args)
	debuglog.LogTextFragment("Controller", debuglog.LevelVerbose, "service command line", commandLine, 500)

	if err := c.manager.EnableTCPTimestamps(); err != nil {
		debuglog.WarnLog("Controller.Start: failed to enable TCP timestamps: %v", err)
	}

	if err := c.manager.CreateService(constants.ServiceName, constants.ServiceDisplayName, commandLine); err != nil {
		debuglog.Emitf(c.sink, debuglog.LevelError, "failed to install service for %s: %v", name, err)
		return fmt.Errorf("Start: install service: %w", err)
	}
	if err := c.manager.StartService(constants.ServiceName); err != nil {
		debuglog.Emitf(c.sink, debuglog.LevelError, "failed to start service for %s: %v", name, err)
		return fmt.Errorf("Start: start service: %w", err)
	}

	c.setState(State{Running: true, Strategy: name})
	if c.pointer != nil {
		if err := c.pointer.Set(constants.PointerValueName, name); err != nil {
			debuglog.Emitf(c.sink, debuglog.LevelWarn, "started %s but could not remember it: %v", name, err)
			return fmt.Errorf("Start: persist active strategy: %w", err)
		}
	}
	debuglog.Emitf(c.sink, debuglog.LevelInfo, "started: %s", name)
	return nil
}

// StartByName resolves name against the current listing and starts it.
func (c *Controller) StartByName(name string, sel strategy.IpsetSelector) error {
	idx := c.store.IndexOf(name)
	if idx == 0 {
		debuglog.Emitf(c.sink, debuglog.LevelError, "error: strategy %s not found", name)
		return fmt.Errorf("StartByName %s: %w", name, ErrStrategyNotFound)
	}
	return c.Start(idx, sel)
}
