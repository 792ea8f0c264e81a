// Package config provides centralized configuration management for HR Pulse.
// It handles loading configuration from multiple sources, validation, and provides
// a type-safe API for accessing configuration values throughout the application.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority), including a local .env file
//	2. Configuration file (YAML)
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern HRP_* for namespacing:
//
//	HRP_SERVER_PORT=8080
//	HRP_LOGGING_LEVEL=debug
//	HRP_UPLOAD_MAX_SIZE_BYTES=20971520
//	HRP_UPLOAD_TTL=30m
//	HRP_CONFIG_FILE=/etc/hrpulse/config.yaml
//
// # Path Management
//
// The Paths type resolves all file system paths relative to the executable:
//
//	paths, err := config.GetPaths()
//	reportPath := paths.GetReportPath("gaps.csv")
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Testing
//
// Use config.Default() for a configuration that needs no environment, and
// config.PathsFrom(t.TempDir()) for paths rooted in a scratch directory.
package config
