// Package app wires the YSI Analyzer together and manages its lifecycle.
//
// # Initialization Flow
//
//	1. Load configuration (defaults, YAML file, YSI_* environment)
//	2. Initialize the JSON logger and OpenTelemetry providers
//	3. Resolve and create the logs and scratch directories
//	4. Build the plate builder, exporter, analysis and health services
//	5. Set up the chi router, middleware and handlers
//	6. Create the HTTP server
//
// # Usage
//
//	a, err := app.NewApplication()
//	if err != nil {
//	    return err
//	}
//	return a.Run()
//
// New accepts an already loaded configuration and logger, which is what the
// tests use.
//
// # Graceful Shutdown
//
// Run blocks until SIGINT or SIGTERM, then drains in-flight requests within
// Server.ShutdownTimeout and flushes the telemetry providers.
//
// # Error Handling
//
// All initialization errors are returned to the caller. The package never
// calls os.Exit.
package app
