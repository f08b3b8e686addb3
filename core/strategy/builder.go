package strategy

import (
	"fmt"
	"path/filepath"
	"strings"

	"zapret-launcher/internal/constants"
	"zapret-launcher/internal/debuglog"
	"zapret-launcher/internal/fsrepo"
)

// Template placeholders.
const (
	TokenGameFilter = "%GameFilter%"
	TokenBin        = "%BIN%"
	TokenIpset      = "%IPSET%"
	TokenLists      = "%LISTS%"
)

// substitution replaces one placeholder with the value its resolver returns.
type substitution struct {
	token   string
	resolve func() string
}

// Builder expands strategy templates into the final argument string.
type Builder struct {
	repo fsrepo.Repo
	sink debuglog.Sink
}

func NewBuilder(repo fsrepo.Repo, sink debuglog.Sink) *Builder {
	if sink == nil {
		sink = debuglog.Discard
	}
	return &Builder{repo: repo, sink: sink}
}

func (b *Builder) dirWithSeparator(dir string) string {
	return b.repo.Abs(dir) + string(filepath.Separator)
}

// Build expands raw after trimming it. Substitutions run in a fixed order so a later value can never
// reintroduce an earlier placeholder. Hostlists are then injected either through
// %LISTS% or, for templates without it, by appending one --hostlist flag per list file.
func (b *Builder) Build(raw string, filter Toggle, sel IpsetSelector) string {
	steps := []substitution{
		{TokenGameFilter, func() string {
			mode := "narrow"
			if filter != nil && filter.Enabled() {
				mode = "wide"
			}
			value := PortRange(filter)
			debuglog.Emitf(b.sink, debuglog.LevelInfo, "game filter: %s (%s)", mode, value)
			return value
		}},
		{TokenBin, func() string {
			dir := b.dirWithSeparator(constants.BinDirName)
			debuglog.Emitf(b.sink, debuglog.LevelInfo, "%s: %s", TokenBin, dir)
			return dir
		}},
		{TokenIpset, func() string {
			path := b.repo.Abs(ResolveIpset(b.repo, sel))
			debuglog.Emitf(b.sink, debuglog.LevelInfo, "%s: %s", TokenIpset, path)
			return fmt.Sprintf(`--ipset="%s"`, path)
		}},
	}

	args := strings.TrimSpace(raw)
	for _, step := range steps {
		args = strings.ReplaceAll(args, step.token, step.resolve())
	}

	if strings.Contains(args, TokenLists) {
		listsDir := b.dirWithSeparator(constants.ListsDirName)
		debuglog.Emitf(b.sink, debuglog.LevelInfo, "%s: %s", TokenLists, listsDir)
		args = strings.ReplaceAll(args, TokenLists, listsDir)
	} else {
		args += b.fallbackHostlists()
	}

	return strings.TrimSpace(args)
}

// fallbackHostlists keeps templates written before %LISTS% existed working.
func (b *Builder) fallbackHostlists() string {
	names, err := b.repo.List(constants.ListsDirName)
	if err != nil {
		debuglog.DebugLog("Builder: lists dir unavailable: %v", err)
		return ""
	}
	debuglog.Emitf(b.sink, debuglog.LevelInfo, "%s: fallback hostlist", TokenLists)

	var sb strings.Builder
	for _, n := range names {
		if !IsFallbackHostlist(n) {
			continue
		}
		fmt.Fprintf(&sb, ` --hostlist="%s"`, b.repo.Abs(filepath.Join(constants.ListsDirName, n)))
	}
	return sb.String()
}

// IsFallbackHostlist reports whether a lists file is picked up by the fallback scan.
func IsFallbackHostlist(name string) bool {
	return strings.HasPrefix(name, constants.HostlistPrefix) &&
		strings.HasSuffix(name, constants.ListExtension) &&
		!strings.Contains(name, constants.HostlistExcludeWord)
}
