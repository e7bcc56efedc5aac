package common

import (
	"flag"
	"time"

	"github.com/google/uuid"
)

var Version = "v0.2.0"
var SystemName = "PixVault"

var (
	Port         = flag.Int("port", 3000, "the listening port")
	PrintVersion = flag.Bool("version", false, "print version and exit")
	PrintHelp    = flag.Bool("help", false, "print help and exit")
	LogDir       = flag.String("log-dir", "", "specify the log directory")
)

// SessionSecret is regenerated on every start unless overridden by config.
var SessionSecret = uuid.New().String()

var (
	SQLitePath = "data/pixvault.db"
	// UploadPath is where image bytes live on disk. Stored names are
	// uuid-based, the original filename is only kept in the DB record.
	UploadPath    = "upload"
	ServerAddress = "http://localhost:3000"
)

var (
	JWTSecret        = ""
	JWTRefreshSecret = ""
)

const (
	JWTAccessTokenDuration  = 2 * time.Hour
	JWTRefreshTokenDuration = 7 * 24 * time.Hour
)

var ItemsPerPage = 10

// Role constants
const (
	RoleCommonUser = 1
	RoleAdminUser  = 10
	RoleRootUser   = 100
)

// Status constants
const (
	UserStatusEnabled  = 1
	UserStatusDisabled = 2
)

// Rate limit configuration
var (
	GlobalApiRateLimitNum      = 180
	GlobalApiRateLimitDuration = 3 * time.Minute

	CriticalRateLimitNum      = 20
	CriticalRateLimitDuration = 20 * time.Minute
)

func PrintHelpMessage() {
	println(SystemName + " " + Version)
	println("Usage: pixvault [--port <port>] [--log-dir <dir>] [--version] [--help]")
	flag.PrintDefaults()
}
