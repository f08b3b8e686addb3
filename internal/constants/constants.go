package constants

// Application identity
const (
	AppID       = "zust"
	AppName     = "Zust"
	DataDirName = "zapret-winws"
	LogPrefix   = "[ZUST]"
)

// Can be overridden at build time using -ldflags="-X zapret-launcher/internal/constants.AppVersion=..."
var (
	AppVersion = "v0.3.0"
)

// Directory names under the data root
const (
	StrategiesDirName   = "strategies"
	ListsDirName        = "lists"
	IpsetConfigsDirName = "ipset-configs"
	BinDirName          = "bin"
	UtilsDirName        = "utils"
	ResourceDirName     = "zapret"
	LegacyDirName       = "_up_"
)

// File names
const (
	WinwsExecName       = "winws.exe"
	GameFilterMarker    = "game_filter.enabled"
	StrategyExtension   = ".zapret"
	BatExtension        = ".bat"
	ListExtension       = ".txt"
	SettingsFileName    = "settings.json"
	LatestLogFileName   = "latest.log"
	MainLogFileName     = "zapret-launcher.log"
	IpsetAllFileName    = "ipset-all.txt"
	IpsetNoneFileName   = "ipset-none-hide.txt"
	IpsetAnyFileName    = "ipset-any-hide.txt"
	HiddenListMarker    = "-hide"
	HostlistPrefix      = "list-"
	HostlistExcludeWord = "excluded"
)

// Windows service layout
const (
	ServiceName        = "zapret"
	ServiceDisplayName = "zapret"
	PointerKeyPath     = `System\CurrentControlSet\Services\zapret`
	PointerValueName   = "zapret-discord-youtube"
)

// DriverServices are removed on every stop, the bypass service last.
var DriverServices = []string{"WinDivert", "WinDivert14", ServiceName}

// Game filter port profiles
const (
	GameFilterWide   = "1024-65535"
	GameFilterNarrow = "12"
)

// Remote endpoints
const (
	WinwsURL        = "https://github.com/bol-van/zapret-win-bundle/raw/refs/heads/master/zapret-winws/winws.exe"
	StrategyRepoURL = "https://raw.githubusercontent.com/Flowseal/zapret-discord-youtube/refs/heads/main/"
	HostsURL        = "https://raw.githubusercontent.com/ImMALWARE/dns.malw.link/refs/heads/master/hosts"
	UserAgent       = "zapret-launcher/1.0"
)

// RemoteStrategyScripts are the script names published in the strategy repository.
var RemoteStrategyScripts = []string{
	"general (ALT).bat",
	"general (ALT2).bat",
	"general (ALT3).bat",
	"general (ALT4).bat",
	"general (ALT5).bat",
	"general (ALT6).bat",
	"general (ALT7).bat",
	"general (ALT8).bat",
	"general (ALT9).bat",
	"general (ALT10).bat",
	"general (ALT11).bat",
	"general.bat",
	"general (FAKE TLS AUTO ALT).bat",
	"general (FAKE TLS AUTO ALT2).bat",
	"general (FAKE TLS AUTO ALT3).bat",
	"general (FAKE TLS AUTO).bat",
	"general (SIMPLE FAKE ALT).bat",
	"general (SIMPLE FAKE ALT2).bat",
	"general (SIMPLE FAKE).bat",
}

// Hosts block markers and document phrases. The remote document is maintained in Russian.
const (
	HostsStartMarker     = "### dns.malw.link: hosts file"
	HostsEndMarker       = "### dns.malw.link: end hosts file"
	HostsUpdatedPhrase   = "Последнее обновление"
	HostsUnknownDate     = "Неизвестно"
	HostsDefaultCategory = "Базовая"
	HostsDefaultPrefix   = "базов"
)

// NoActiveStrategy is shown when no strategy was ever started.
const NoActiveStrategy = "Отсутствует"

// Network constants
const (
	DefaultSTUNServer = "stun.l.google.com:19302"
	SRVServicePrefix  = "_minecraft._tcp."
)

// DefaultDNSServers are used by the host resolver.
var DefaultDNSServers = []string{"1.1.1.1:53", "8.8.8.8:53", "9.9.9.9:53"}
