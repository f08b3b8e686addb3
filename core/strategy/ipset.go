package strategy

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"zapret-launcher/internal/constants"
	"zapret-launcher/internal/debuglog"
	"zapret-launcher/internal/fsrepo"
)

// IpsetSelector picks the ipset file passed to the bypass binary.
// The zero value selects the default "all" list.
type IpsetSelector string

const (
	IpsetDefault IpsetSelector = ""
	IpsetNone    IpsetSelector = "none"
	IpsetAny     IpsetSelector = "any"
)

// ResolveIpset returns the relative path the selector points to. A named selector
// prefers the custom ipset directory and falls back to the same name under lists.
func ResolveIpset(repo fsrepo.Repo, sel IpsetSelector) string {
	switch sel {
	case IpsetDefault:
		return filepath.Join(constants.ListsDirName, constants.IpsetAllFileName)
	case IpsetNone:
		return filepath.Join(constants.ListsDirName, constants.IpsetNoneFileName)
	case IpsetAny:
		return filepath.Join(constants.ListsDirName, constants.IpsetAnyFileName)
	}
	custom := filepath.Join(constants.IpsetConfigsDirName, string(sel))
	if repo.Exists(custom) {
		return custom
	}
	return filepath.Join(constants.ListsDirName, string(sel))
}

// Lists manages hostlists and ipsets next to the strategies.
type Lists struct {
	repo fsrepo.Repo
	sink debuglog.Sink
}

func NewLists(repo fsrepo.Repo, sink debuglog.Sink) *Lists {
	if sink == nil {
		sink = debuglog.Discard
	}
	return &Lists{repo: repo, sink: sink}
}

// Files returns the user-visible list files; reserved "-hide" files are left out.
func (l *Lists) Files() []string {
	names, err := l.repo.List(constants.ListsDirName)
	if err != nil {
		return []string{}
	}
	out := make([]string, 0, len(names))
	for _, n := range names {
		if strings.HasSuffix(n, constants.ListExtension) && !strings.Contains(n, constants.HiddenListMarker) {
			out = append(out, n)
		}
	}
	return out
}

func (l *Lists) Read(name string) (string, error) {
	data, err := l.repo.Read(filepath.Join(constants.ListsDirName, filepath.Base(name)))
	if err != nil {
		return "", fmt.Errorf("Lists.Read %s: %w", name, err)
	}
	return string(data), nil
}

func (l *Lists) Save(name, content string) error {
	if err := l.repo.Write(filepath.Join(constants.ListsDirName, filepath.Base(name)), []byte(content)); err != nil {
		return fmt.Errorf("Lists.Save %s: %w", name, err)
	}
	return nil
}

// CustomIpsets lists user-added ipset files, creating their directory on first use.
func (l *Lists) CustomIpsets() []string {
	if err := l.repo.MkdirAll(constants.IpsetConfigsDirName); err != nil {
		debuglog.WarnLog("Lists.CustomIpsets: %v", err)
	}
	names, err := l.repo.List(constants.IpsetConfigsDirName)
	if err != nil {
		return []string{}
	}
	out := make([]string, 0, len(names))
	for _, n := range names {
		if strings.HasSuffix(n, constants.ListExtension) {
			out = append(out, n)
		}
	}
	return out
}

// SubnetOf turns a dotted IPv4 address into its /24 network.
func SubnetOf(ip string) (string, error) {
	parts := strings.Split(strings.TrimSpace(ip), ".")
	if len(parts) != 4 {
		return "", fmt.Errorf("invalid IP format %q, expected x.x.x.x", ip)
	}
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || n > 255 {
			return "", fmt.Errorf("invalid IP format %q, expected x.x.x.x", ip)
		}
	}
	return fmt.Sprintf("%s.%s.%s.0/24", parts[0], parts[1], parts[2]), nil
}

// AddIP appends the /24 of ip to a custom ipset.
func (l *Lists) AddIP(file, ip string) error {
	subnet, err := SubnetOf(ip)
	if err != nil {
		return fmt.Errorf("AddIP: %w", err)
	}
	return l.AppendEntry(file, subnet)
}

// AppendEntry appends one line to a custom ipset. The default "all" ipset may also be
// targeted and lives under lists when no custom copy exists.
func (l *Lists) AppendEntry(file, entry string) error {
	file = filepath.Base(file)
	target := filepath.Join(constants.IpsetConfigsDirName, file)
	if !l.repo.Exists(target) {
		if file != constants.IpsetAllFileName {
			debuglog.Emitf(l.sink, debuglog.LevelWarn, "ipset file %s not found", file)
			return fmt.Errorf("AppendEntry: ipset %s: %w", file, ErrNotFound)
		}
		target = filepath.Join(constants.ListsDirName, constants.IpsetAllFileName)
	}

	line := entry + "\n"
	if existing, err := l.repo.Read(target); err == nil && len(existing) > 0 && existing[len(existing)-1] != '\n' {
		line = "\n" + line
	}
	if err := l.repo.Append(target, []byte(line)); err != nil {
		return fmt.Errorf("AppendEntry: %w", err)
	}
	debuglog.Emitf(l.sink, debuglog.LevelInfo, "added %s to %s", entry, file)
	return nil
}
