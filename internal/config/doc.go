// Package config loads encore's startup configuration.
//
// # Discovery
//
// Load reads the TOML file at the given path, or ~/.config/encore/config.toml
// when the path is empty. A missing file is not an error: every field has a
// default and encore runs without any configuration.
//
// Before parsing, a .env file in the same directory is loaded into the
// process environment. Variables that are already set are left alone, so
// the shell always wins over the file. The API token is only ever read from
// the environment (ENCORE_API_TOKEN) and never from the TOML file.
//
// # Fields
//
//	api_url        = "https://api.encore.fm"
//	sync_url       = "wss://sync.encore.fm/ws"   # empty: no sync channel
//	control_bind   = "127.0.0.1:7311"            # empty: no control server
//	data_dir       = "~/.local/share/encore"
//	log_file       = "~/.local/share/encore/encore.log"
//	log_level      = "info"
//	strict         = false
//	action_timeout = "10s"
//
// String values are trimmed and paths are tilde-expanded. Empty values fall
// back to defaults, except control_bind, where an explicit empty string
// turns the control server off.
//
// # Errors
//
// Load fails on unreadable files, invalid TOML, a malformed .env file and
// an action_timeout that is not a positive duration.
package config
