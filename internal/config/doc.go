// Package config loads the launcher configuration file.
//
// # Overview
//
// The launcher reads a single TOML file describing where the Drova API lives,
// how the catalog is aggregated, whether card images are cached locally, how
// games are started and where logs go. Every field is optional.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/drova-launcher/config.toml (default)
//  3. If the config file doesn't exist, fall back to Default()
//  4. If the file exists but fields are missing or blank, use defaults
//  5. Apply DROVA_IMAGE_CACHE and DROVA_API_BASE from the environment
//
// # TOML Format
//
//	api_base = "https://services.drova.io"
//	http_timeout = "30s"
//
//	[endpoints]
//	station_products = "/product-manager/serverproduct/list/{station}"
//	products_full    = "/product-manager/product/listfull2?limit=2000"
//	launch_details   = "/product-manager/serverproduct/launch/{station}/{product}"
//	station_info     = "/server-manager/servers/public/{station}"
//	station_hardware = "/server-manager/hardware/list/{station}"
//
//	[catalog]
//	metadata_auth  = false
//	launch_source  = "inline"   # inline | details
//	desktop_policy = "match"    # match | flag
//
//	[images]
//	cache = false
//	dir   = "/tmp/drova-launcher/images"
//	ttl   = "24h"
//
//	[launch]
//	args             = "single" # single | split
//	dry_run          = false
//	exit_after_spawn = false
//
//	[log]
//	file        = "~/.local/state/drova-launcher/launcher.log"
//	level       = "info"
//	max_size_mb = 10
//	max_backups = 3
//	max_age     = 14
//
// Tilde expansion is performed for the config path, images.dir and log.file.
//
// # Error Handling
//
// Load returns errors for:
//   - Path expansion failures (e.g., cannot determine home directory)
//   - File read errors (except os.ErrNotExist, which triggers defaults)
//   - TOML parsing errors
//   - Unknown enum values and malformed durations, naming the field
//
// Missing config files are NOT an error. A station with credentials in the
// environment works without any configuration.
package config
