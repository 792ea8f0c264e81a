// Package app wires HR Pulse together and runs it.
//
// NewApplication loads configuration through the config package, builds the
// slog logger, resolves and creates the data, reports and logs directories,
// and then calls New, which takes already loaded dependencies and is what
// tests use.
//
// # Initialization Flow
//
//	1. Load configuration (.env, environment, optional YAML file)
//	2. Initialize logging and OpenTelemetry (Prometheus exporter)
//	3. Create the workbook store and the analysis and health services
//	4. Build the chi router and middleware chain
//	5. Configure the HTTP server
//
// # Lifecycle
//
// Start launches the store janitor and the listener. Stop shuts the server
// down within Server.ShutdownTimeout, closes the store and flushes the
// telemetry providers. Run blocks on SIGINT or SIGTERM and then calls Stop.
//
// Initialization errors are returned to the caller; the package never calls
// os.Exit.
package app
