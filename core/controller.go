// Package core wires the strategy, service, sync and hosts components into the
// commands the tray UI and the CLI expose.
package core

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"zapret-launcher/core/bundle"
	"zapret-launcher/core/diag"
	"zapret-launcher/core/hosts"
	"zapret-launcher/core/remote"
	"zapret-launcher/core/resolver"
	"zapret-launcher/core/service"
	"zapret-launcher/core/settings"
	"zapret-launcher/core/strategy"
	"zapret-launcher/internal/constants"
	"zapret-launcher/internal/debuglog"
	"zapret-launcher/internal/fsrepo"
	"zapret-launcher/internal/platform"
	"zapret-launcher/internal/winsvc"
)

// legacyStopDelay lets the service manager release the binary before the legacy folder is removed.
const legacyStopDelay = 500 * time.Millisecond

// SilentFlag starts the launcher hidden in the tray.
const SilentFlag = "--silent"

// Options configures an AppController. Zero values select the production defaults.
type Options struct {
	// Root is the data directory; empty means the per-user default.
	Root string
	// ExecDir holds the bundled resources, settings and logs; empty means the executable's directory.
	ExecDir string

	Manager    service.Manager
	Pointer    service.KeyValueStore
	Sink       debuglog.Sink
	HTTPClient *http.Client
	AutoStart  AutoStarter

	// HostsPath overrides the system hosts file.
	HostsPath string
	// FlushDNS overrides the resolver cache flush after a hosts write.
	FlushDNS func() error
	// DNSServers overrides the servers used by Resolve.
	DNSServers []string
}

// AutoStarter registers the launcher to run at user logon.
type AutoStarter interface {
	SetAutoStart(enabled bool) error
}

// AppController is the single entry point for every user command.
type AppController struct {
	Paths *platform.Paths
	Sink  debuglog.Sink

	Store      *strategy.Store
	Converter  *strategy.Converter
	Builder    *strategy.Builder
	GameFilter *strategy.GameFilter
	Lists      *strategy.Lists

	Service  *service.Controller
	Remote   *remote.Client
	Hosts    *hosts.Merger
	Resolver *resolver.Resolver
	Settings *settings.Store

	autoStart AutoStarter
}

// NewAppController builds the controller and creates the data directories.
func NewAppController(opts Options) (*AppController, error) {
	root := opts.Root
	if root == "" {
		var err error
		if root, err = platform.DefaultRoot(); err != nil {
			return nil, fmt.Errorf("NewAppController: %w", err)
		}
	}
	paths := platform.NewPaths(root, opts.ExecDir)
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("NewAppController: cannot create directories: %w", err)
	}

	sink := opts.Sink
	if sink == nil {
		sink = debuglog.Discard
	}
	manager := opts.Manager
	if manager == nil {
		manager = winsvc.NewManager()
	}
	pointer := opts.Pointer
	if pointer == nil {
		pointer = winsvc.NewRegistry(constants.PointerKeyPath)
	}

	autoStart := opts.AutoStart
	if autoStart == nil {
		autoStart = winsvc.NewAutoStart(constants.AppName, fmt.Sprintf(`"%s" %s`, exePath(), SilentFlag))
	}

	repo := fsrepo.NewDisk(paths.Root())
	ac := &AppController{
		Paths:      paths,
		Sink:       sink,
		Store:      strategy.NewStore(repo, sink),
		Builder:    strategy.NewBuilder(repo, sink),
		GameFilter: strategy.NewGameFilter(repo),
		Lists:      strategy.NewLists(repo, sink),
		Resolver:   resolver.New(opts.DNSServers...),
		Settings:   settings.Open(paths.SettingsPath()),
		autoStart:  autoStart,
	}
	ac.Converter = strategy.NewConverter(ac.Store)
	ac.Service = service.NewController(service.Config{
		Store:      ac.Store,
		Builder:    ac.Builder,
		GameFilter: ac.GameFilter,
		Manager:    manager,
		Pointer:    pointer,
		Sink:       sink,
		BinaryPath: paths.Binary(),
	})

	ac.Remote = remote.NewClient(sink)
	if opts.HTTPClient != nil {
		ac.Remote.HTTP = opts.HTTPClient
	}
	ac.Hosts = hosts.NewMerger(ac.Remote, sink)
	if opts.HostsPath != "" {
		ac.Hosts.Path = opts.HostsPath
	}
	if opts.FlushDNS != nil {
		ac.Hosts.Flush = opts.FlushDNS
	}

	debuglog.DebugLog("NewAppController: root=%s execDir=%s", paths.Root(), paths.ExecDir())
	return ac, nil
}

// ListStrategies returns the strategy names in the order start indices refer to.
func (ac *AppController) ListStrategies() []string {
	return ac.Store.List()
}

// CurrentStrategy returns the active strategy or the no-strategy placeholder.
func (ac *AppController) CurrentStrategy() string {
	return ac.Service.Current()
}

// StartStrategy starts the strategy at the 1-based index of ListStrategies.
func (ac *AppController) StartStrategy(index int, sel strategy.IpsetSelector) error {
	return ac.Service.Start(index, sel)
}

// StartStrategyByName starts the named strategy.
func (ac *AppController) StartStrategyByName(name string, sel strategy.IpsetSelector) error {
	return ac.Service.StartByName(name, sel)
}

// StopStrategy removes the bypass service. Failures of individual steps are joined.
func (ac *AppController) StopStrategy() error {
	return ac.Service.Stop().Err()
}

// SetGameFilter switches the port profile and records it in the settings.
func (ac *AppController) SetGameFilter(enabled bool) error {
	if err := ac.GameFilter.Set(enabled); err != nil {
		debuglog.Emitf(ac.Sink, debuglog.LevelError, "failed to toggle game filter: %v", err)
		return fmt.Errorf("SetGameFilter: %w", err)
	}
	if _, err := ac.Settings.Update(func(s *settings.Settings) { s.GameFilter = enabled }); err != nil {
		debuglog.WarnLog("SetGameFilter: settings not saved: %v", err)
	}
	debuglog.Emitf(ac.Sink, debuglog.LevelInfo, "game filter: %t", enabled)
	return nil
}

// SaveSettings persists s and applies its game filter and autostart toggles.
func (ac *AppController) SaveSettings(s settings.Settings) error {
	prev := ac.Settings.Get()
	if err := ac.Settings.Save(s); err != nil {
		return err
	}
	if ac.GameFilter.Enabled() != s.GameFilter {
		if err := ac.GameFilter.Set(s.GameFilter); err != nil {
			return fmt.Errorf("SaveSettings: %w", err)
		}
	}
	if prev.AutoStart != s.AutoStart {
		if err := ac.autoStart.SetAutoStart(s.AutoStart); err != nil {
			return fmt.Errorf("SaveSettings: autostart: %w", err)
		}
		debuglog.Emitf(ac.Sink, debuglog.LevelInfo, "autostart: %t", s.AutoStart)
	}
	return nil
}

// exePath is the running executable, or its bare name when it cannot be resolved.
func exePath() string {
	exe, err := os.Executable()
	if err != nil {
		return constants.AppID + ".exe"
	}
	return exe
}

// ConvertScripts imports legacy batch scripts as strategies.
func (ac *AppController) ConvertScripts(paths []string) ([]string, error) {
	return ac.Converter.ConvertFiles(paths)
}

// UpdateBinary replaces the bypass binary when the published one differs and
// downloads it when it is missing. It reports whether the binary changed.
func (ac *AppController) UpdateBinary(ctx context.Context) (bool, error) {
	path := ac.Paths.Binary()
	updated, err := ac.Remote.CheckBinaryUpdate(ctx, path)
	if err != nil || !updated {
		return false, err
	}
	if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
		if err := ac.Remote.DownloadBinary(ctx, path); err != nil {
			return false, err
		}
	}
	return true, nil
}

// CheckStrategyUpdates lists the published scripts that differ from local strategies.
func (ac *AppController) CheckStrategyUpdates(ctx context.Context) ([]string, error) {
	return ac.Remote.CheckStrategyUpdates(ctx, ac.Store)
}

// ApplyStrategyUpdates downloads and converts the given published scripts.
func (ac *AppController) ApplyStrategyUpdates(ctx context.Context, scripts []string) error {
	return ac.Remote.ApplyStrategyUpdates(ctx, scripts, ac.Converter)
}

// FetchHosts downloads and parses the hosts override document.
func (ac *AppController) FetchHosts(ctx context.Context) (hosts.Document, error) {
	content, err := ac.Hosts.Fetch(ctx)
	if err != nil {
		return hosts.Document{}, err
	}
	return hosts.Parse(content), nil
}

// ApplyHosts writes every entry of the override document into the hosts file.
func (ac *AppController) ApplyHosts(ctx context.Context) error {
	doc, err := ac.FetchHosts(ctx)
	if err != nil {
		return err
	}
	var lines []string
	for _, c := range doc.Categories {
		lines = append(lines, c.Lines...)
	}
	return ac.Hosts.SaveSelection(lines)
}

// SaveHostsSelection writes the chosen entries into the hosts file.
func (ac *AppController) SaveHostsSelection(lines []string) error {
	return ac.Hosts.SaveSelection(lines)
}

// RemoveHosts drops the managed block from the hosts file.
func (ac *AppController) RemoveHosts() error {
	return ac.Hosts.Remove()
}

// SyncBundle copies the shipped bundle over the data root. Files in use are skipped.
func (ac *AppController) SyncBundle() error {
	src := ac.Paths.BundleDir()
	debuglog.Emitf(ac.Sink, debuglog.LevelInfo, "sync started: %s", src)
	if err := bundle.CopyDir(src, ac.Paths.Root(), ac.Sink); err != nil {
		debuglog.Emitf(ac.Sink, debuglog.LevelError, "sync failed: %v", err)
		return fmt.Errorf("SyncBundle: %w", err)
	}
	debuglog.Emitf(ac.Sink, debuglog.LevelInfo, "sync finished (files in use skipped)")
	return nil
}

// HasLegacyFolder reports whether an older installation left its folder behind.
func (ac *AppController) HasLegacyFolder() bool {
	info, err := os.Stat(ac.Paths.LegacyDir())
	return err == nil && info.IsDir()
}

// MigrateLegacy removes the legacy folder. With copyStrategies its strategies are
// imported first without overwriting. The active strategy is restarted afterwards.
func (ac *AppController) MigrateLegacy(copyStrategies bool) error {
	if !ac.HasLegacyFolder() {
		return nil
	}
	debuglog.Emitf(ac.Sink, debuglog.LevelInfo, "legacy folder detected, migrating")

	active, hadActive := ac.Service.ActiveStrategy()
	ac.Service.Stop()
	time.Sleep(legacyStopDelay)

	if copyStrategies {
		src := filepath.Join(ac.Paths.LegacyDir(), constants.ResourceDirName, constants.StrategiesDirName)
		if n, err := bundle.CopyMissing(src, ac.Paths.Strategies()); err != nil {
			debuglog.DebugLog("MigrateLegacy: %v", err)
		} else {
			debuglog.Emitf(ac.Sink, debuglog.LevelInfo, "imported %d strategies from legacy folder", n)
		}
	}

	if err := os.RemoveAll(ac.Paths.LegacyDir()); err != nil {
		debuglog.Emitf(ac.Sink, debuglog.LevelError, "error deleting legacy folder: %v", err)
		return fmt.Errorf("MigrateLegacy: %w", err)
	}
	debuglog.Emitf(ac.Sink, debuglog.LevelInfo, "legacy folder deleted")

	if hadActive && ac.Store.Exists(active) {
		debuglog.Emitf(ac.Sink, debuglog.LevelInfo, "restarting strategy %s", active)
		return ac.Service.StartByName(active, strategy.IpsetDefault)
	}
	return nil
}

// ListFiles returns the editable lists.
func (ac *AppController) ListFiles() []string {
	return ac.Lists.Files()
}

func (ac *AppController) ReadList(name string) (string, error) {
	return ac.Lists.Read(name)
}

func (ac *AppController) SaveList(name, content string) error {
	return ac.Lists.Save(name, content)
}

// CustomIpsets returns the user ipset files selectable at start.
func (ac *AppController) CustomIpsets() []string {
	return ac.Lists.CustomIpsets()
}

// AddIP appends the /24 of ip to an ipset file.
func (ac *AppController) AddIP(file, ip string) error {
	return ac.Lists.AddIP(file, ip)
}

// ResolveToIpset resolves host and appends the resulting entry to file.
func (ac *AppController) ResolveToIpset(ctx context.Context, host, file string) (string, error) {
	entry, err := ac.Resolver.Resolve(ctx, host)
	if err != nil {
		debuglog.Emitf(ac.Sink, debuglog.LevelError, "resolve %s failed: %v", host, err)
		return "", err
	}
	if file == "" {
		return entry, nil
	}
	if err := ac.Lists.AppendEntry(file, entry); err != nil {
		return "", err
	}
	return entry, nil
}

// CheckSTUN returns the external address reported by server, or the default server.
func (ac *AppController) CheckSTUN(server string) (string, error) {
	if server == "" {
		server = constants.DefaultSTUNServer
	}
	return diag.CheckSTUN(server, diag.DefaultSTUNTimeout)
}

// OpenStrategiesDir shows the strategies folder in the file manager.
func (ac *AppController) OpenStrategiesDir() error {
	return platform.OpenFolder(ac.Paths.Strategies())
}

// OpenIpsetDir shows the custom ipset folder in the file manager.
func (ac *AppController) OpenIpsetDir() error {
	return platform.OpenFolder(ac.Paths.IpsetConfigs())
}
