// Package config loads and validates the celinker TOML configuration.
//
// Configuration covers the bridge endpoint and credentials, search limits,
// the normalization ruleset path, the audit database location, and logging
// options. Load applies defaults for anything the file omits, expands ~ in
// path fields, and validates the result so downstream packages can assume a
// usable configuration.
package config
