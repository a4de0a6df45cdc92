// Package config loads runtime configuration for the Piauí Eventos CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. A .env file in the working directory (if any) and EVENTOS_* environment
//     variables (see parseEnv).
//  3. Optional JSON file (see parseJson) selected via -c / -config or
//     $EVENTOS_CONFIG.
//  4. Command-line flags (see parseFlags), which override everything else.
//
// Supported flags
//
//	-a string   base URL of the backend REST API
//	-s string   path of the local SQLite store
//	-t int      per-request timeout (seconds)
//	-r int      minimum interval between background session revalidations (seconds)
//	-b          enable the bearer-token fallback
//	-l string   log level (debug, info, warn, error)
//
// # JSON schema
//
// Durations accept strings like "15s" or integer nanoseconds:
//
//	{
//	  "api_base_url": "https://eventos.example/api",
//	  "storage_path": "eventos.db",
//	  "request_timeout": "15s",
//	  "revalidate_interval": "30s",
//	  "bearer_fallback": false,
//	  "log_level": "info",
//	  "log_format": "text",
//	  "zip_lookup_url": "https://viacep.com.br/ws"
//	}
package config
