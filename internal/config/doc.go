// Package config loads and persists the overlay configuration.
//
// # Configuration Discovery
//
// Load resolves the config path in this order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/statsoverlay/config.toml (default)
//  3. If the file doesn't exist, fall back to built-in defaults
//  4. If the file exists but fields are missing or empty, use defaults
//
// STATSOVERLAY_API_KEY, STATSOVERLAY_LOG_PATH and STATSOVERLAY_DISPLAY_MODE
// override the matching file entries.
//
// # Fields
//
//	log_path             Minecraft latest.log (default ~/.minecraft/logs/latest.log)
//	cache_player_ttl     seconds a player stays cached, > 0 (default 240)
//	poll_interval_ms     delay between update ticks, >= 0 (default 100)
//	api_key              Hypixel API key
//	display_mode         bw_overall, bw_solos, bw_doubles, bw_threes, bw_fours or miniwalls
//	render_head_overlay  draw the skin's hat layer (default true)
//	mojang_api_url, session_url, hypixel_api_url
//	                     endpoint overrides, mainly for testing
//
// Out-of-range values and unknown display modes are load errors.
//
// # Persistence
//
// Save writes a complete file. SaveAPIKey rewrites only api_key and is used
// when a new key shows up in chat. Files are written with 0600 permissions
// because they hold the key.
package config
