// Package config loads partpick's configuration.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/partpick/config.toml (default)
//  3. If the config file doesn't exist, fall back to defaults
//  4. If the file exists but fields are missing/empty, use defaults
//
// After the file, a .env next to it and then the process environment may
// override the connection settings:
//
//   - INVENTREE_URL
//   - INVENTREE_USERNAME
//   - INVENTREE_PASSWORD
//
// # Default Values
//
//   - Config file: ~/.config/partpick/config.toml
//   - Server: http://localhost:8000
//   - Image directory: ~/.cache/partpick/images
//   - Log file: ~/.local/state/partpick/partpick.log
//   - Request timeout: none
//   - Driver id: 1
//
// # TOML Format
//
//	server_url = "http://inventree.local:8000"
//	username = "admin"
//	password = "secret"
//	image_dir = "~/.cache/partpick/images"
//	log_file = "~/.local/state/partpick/partpick.log"
//	debug = false
//	request_timeout = "10s"
//	driver_id = 1
//
// Every field is optional. Tilde expansion is performed on paths.
package config
