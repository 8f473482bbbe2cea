// Package config provides configuration management for mdnav.
//
// Configuration is loaded from a YAML file with environment variable
// overrides. Every field has a default, so running without a file is valid.
//
// # Configuration Loading
//
//  1. From a YAML file only:
//     cfg, err := config.LoadConfig("mdnav.yaml")
//
//  2. From a YAML file with environment variable overrides:
//     cfg, err := config.LoadConfigWithEnvOverrides("mdnav.yaml")
//
// Unknown keys are rejected with the closest known key as a hint:
//
//	configuration validation failed: server.listen_adress: unknown field (did you mean "listen_address"?)
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention MDNAV_SECTION_FIELD:
//
//   - MDNAV_SERVER_LISTEN_ADDRESS overrides server.listen_address
//   - MDNAV_HISTORY_ENABLED overrides history.enabled
//   - MDNAV_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// # Configuration Precedence
//
//  1. Default values (defined in defaults.go)
//  2. Values from YAML file
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// # Example Configuration
//
//	query:
//	  default_format: plain
//	server:
//	  listen_address: "127.0.0.1:8080"
//	  max_body_bytes: 10485760
//	history:
//	  enabled: true
//	  path: ~/.mdnav/history.db
//	  retention_days: 30
//	  prune_schedule: "0 3 * * *"
//	watch:
//	  debounce: 100ms
//	telemetry:
//	  logging:
//	    level: info
//	    format: json
//	  metrics:
//	    enabled: true
//	    path: /metrics
package config
