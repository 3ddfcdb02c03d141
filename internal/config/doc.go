// Package config loads the service configuration.
//
// Values are layered: Default(), then an optional YAML file, then YSI_*
// environment variables, each overriding the one before:
//
//	YSI_SERVER_PORT=8080
//	YSI_ANALYSIS_CONCENTRATION_POLICY=lenient
//	YSI_ANALYSIS_MAX_UPLOAD_BYTES=33554432
//	YSI_LOGGING_LEVEL=debug
//	YSI_TELEMETRY_TRACE_EXPORTER=stdout
//
// The YAML file is the one named by YSI_CONFIG_FILE, or the first of
// config.yaml, configs/config.yaml and <executable dir>/config.yaml that
// exists. Relative paths are resolved against the executable directory
// through Paths.
//
// Load validates the result and normalizes enumerations such as the
// concentration policy and log output. Tests use Default() directly.
package config
