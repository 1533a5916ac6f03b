// Package config handles loading and parsing the px studio configuration.
//
// # Overview
//
// px reads a single TOML file describing where the studio share is
// mounted, where the external applications live, and the team/farm
// tables that the naming conventions key on. The defaults reproduce the
// studio's standard layout on Bigfoot so a freshly installed px works
// without any configuration file at all.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/px/config.toml (default)
//  3. If the config file doesn't exist, fall back to built-in defaults
//  4. If the file exists but fields are missing/empty, fall back per field
//
// # TOML Format
//
// Example config.toml:
//
//	incoming_dir = "/Volumes/Bigfoot/_incoming"
//	projects_dir = "/Volumes/Bigfoot/Pixelgun_Projects"
//	workers = 8
//
//	[tools]
//	nuke = "/Applications/Nuke12.0v3/Nuke12.0v3.app/Contents/MacOS/Nuke12.0"
//	darktable_cli = "darktable-cli"
//
//	[teams]
//	det = "Detroit Pistons"
//
// All fields are optional. Tilde expansion is performed automatically on
// path fields; darktable_cli may stay a bare command name so it resolves
// through PATH. Setting [teams] or [farm] replaces the whole table.
//
// # Error Handling
//
// Missing config files are NOT an error - defaults are used instead.
// Load returns errors only for unreadable files, malformed TOML, and
// path expansion failures.
package config
