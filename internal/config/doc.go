// Package config loads runtime configuration for the authkeeper CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-d string   path of the local database file
//	-n string   storage namespace for persisted session state
//	-t int      session token lifetime (hours)
//
// # JSON schema
//
// The JSON loader uses timex.Duration for the session lifetime, so values
// can be either strings like "24h" or integer nanoseconds:
//
//	{
//	  "database_dsn": "UserDB.db",
//	  "storage_namespace": "authkeeper",
//	  "session_ttl": "24h"
//	}
package config
