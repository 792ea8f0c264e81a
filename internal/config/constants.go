package config

import (
	"time"

	"hrpulse/pkg/contracts"
)

// Application constants
const (
	// Application Info
	AppName    = "HR Pulse"
	AppVersion = contracts.Version

	// Rate Limiting
	DefaultRateLimit = 100 // requests per second
	DefaultBurstSize = 50

	// File Paths (relative to executable)
	DefaultDataDir    = "data"
	DefaultLogsDir    = "logs"
	DefaultReportsDir = "data/reports"

	// Uploads
	DefaultMaxUploadBytes  = 20 << 20 // 20 MiB
	DefaultUploadTTL       = 30 * time.Minute
	DefaultMaxUploads      = 32
	DefaultJanitorInterval = time.Minute
	UploadFormField        = "file"
	WorkbookExtension      = ".xlsx"
	ExportExtension        = ".csv"

	// Log Settings
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	// API Endpoints
	APIBasePath     = "/api"
	MetricsEndpoint = "/metrics"
)
