package config

import "time"

// Application constants
const (
	// Application Info
	AppName       = "YSI Analyzer"
	AppVersion    = "1.0.0"
	EnvPrefix     = "YSI"
	ConfigFileEnv = "YSI_CONFIG_FILE"

	// Analysis limits
	DefaultMaxPlates      = 100
	DefaultMaxUploadBytes = 32 << 20 // 32MB per request
	DefaultPolicy         = "strict"

	// Output names
	DefaultExportFilename = "YSI_Analyzer_Raw_Results.xlsx"
	DefaultScratchSubdir  = "ysi-analyzer"

	// Rate Limiting
	DefaultRateLimit = 20 // requests per second
	DefaultBurstSize = 40

	// Network Timeouts
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 2 * time.Minute
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultRequestTimeout  = 90 * time.Second

	// Log Settings
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
	DefaultLogFile   = "logs/ysi-analyzer.log"

	// Endpoints
	APIBasePath     = "/api/v1"
	HealthEndpoint  = "/api/health"
	MetricsEndpoint = "/metrics"
)
