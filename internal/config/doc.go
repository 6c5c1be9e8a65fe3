// Package config handles configuration loading for coven-board.
//
// # Overview
//
// Configuration is loaded from YAML files with environment variable
// expansion. The config is fully resolved by Load, including environment
// overrides, and is treated as immutable afterwards.
//
// # Configuration File
//
// Default locations (in order):
//
//  1. Path from BOARD_CONFIG environment variable
//  2. $XDG_CONFIG_HOME/coven-board/board.yaml
//  3. ~/.config/coven-board/board.yaml
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	auth:
//	  password: "${BOARD_PASSWORD}"
//
// Syntax: ${VAR_NAME}
//
// # Environment Overrides
//
// Two well-known variables override the auth section even when the file
// sets it:
//
//	BOARD_PASSWORD  overrides auth.password
//	SECRET_KEY      overrides auth.secret_key
//
// # Duration Parsing
//
// Duration values use Go's time.ParseDuration syntax:
//
//	auth:
//	  session_ttl: "24h"
//
// Supported units: ns, us, ms, s, m, h
//
// # Configuration Sections
//
// Server settings:
//
//	server:
//	  http_addr: "0.0.0.0:8080"
//
// Database:
//
//	database:
//	  path: "/var/lib/coven-board/board.db"
//
// Authentication:
//
//	auth:
//	  password: "${BOARD_PASSWORD}"   # Shared board password
//	  secret_key: "${SECRET_KEY}"     # Signs session cookies
//	  session_ttl: "24h"              # Default when omitted
//
// Tailscale:
//
//	tailscale:
//	  enabled: false
//	  hostname: "coven-board"
//	  auth_key: "${TS_AUTHKEY}"
//	  https: true
//	  funnel: false
//
// Logging:
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
//
// # Validation
//
// Load() validates:
//
//   - server.http_addr present (unless tailscale is enabled)
//   - database.path present
//   - auth.password and auth.secret_key present (file or environment)
//   - Duration format validity
package config
