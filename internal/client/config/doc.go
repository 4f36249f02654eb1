// Package config loads runtime configuration for the gophauth CLI.
//
// Sources, lowest precedence first:
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. Command-line flags.
//
// Flags:
//
//	-a string   server base URL (default http://localhost:3001)
//	-t int      request timeout in seconds
//	-i int      health check interval in seconds
//
// JSON:
//
//	{
//	  "server_url": "http://localhost:3001",
//	  "request_timeout": "10s",
//	  "health_check_interval": "5s"
//	}
package config
