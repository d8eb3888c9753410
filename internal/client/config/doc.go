// Package config loads runtime configuration for the notekeeper CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   address:port of the backend gRPC endpoint
//	-t string   access token sent with authenticated calls
//	-d string   SQLite DSN of the key parameter cache
//	-w int      per-request timeout (seconds)
//
// # JSON schema
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "access_token": "eyJhbGciOi...",
//	  "cache_dsn": "notekeeper.db",
//	  "request_timeout": "10s"
//	}
package config
