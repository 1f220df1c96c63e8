package gateway

import (
	"runtime"
	"time"
)

const (
	// The current version of the SDK.
	SDKVersion = "1.0.0"

	// DefaultBaseURL is the origin of the hosted license API.
	DefaultBaseURL = "https://your-project.supabase.co/functions/v1"

	// DefaultTimeout bounds every request made by a Client.
	DefaultTimeout = 30 * time.Second

	// DefaultHeartbeatInterval is used when a heartbeat is started without
	// a positive interval.
	DefaultHeartbeatInterval = 5 * time.Minute

	// HeartbeatStopTimeout is how long StopHeartbeat waits for the loop to
	// exit before giving up on it.
	HeartbeatStopTimeout = 5 * time.Second

	// APIKeyHeader carries the API credential on every request.
	APIKeyHeader = "x-api-key"
)

var (
	// Logger is a leveled logger implementation used for printing debug,
	// informational, warning, and error messages. Clients use it unless
	// configured with WithLogger.
	Logger LoggerInterface = &LeveledLogger{Level: LogLevelError}

	userAgent = "gateway-sdk/" + SDKVersion + " go/" + runtime.Version() + " " + runtime.GOOS + "/" + runtime.GOARCH
)
