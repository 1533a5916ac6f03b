package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Tools locates the external applications the pipeline drives.
type Tools struct {
	Osascript     string // AppleScript bridge, darwin only
	ConvertScript string // .scpt that runs Photoshop's CR2->TIFF javascript
	Nuke          string // Nuke binary used for proof renders
	DarktableCLI  string // converter used where Photoshop is unavailable
	NukeTemplate  string // proof comp template (.nk) with placeholder tokens
}

// Config captures the studio layout and tool locations px needs.
type Config struct {
	IncomingDir string // shoot days arrive here from the trailer
	ProjectsDir string // root of all client projects
	TemplateDir string // job template copied for new player dirs
	ScratchDir  string // per-run render scratch (nuke scripts, jpegs)
	LogDir      string // per-run log files
	Workers     int    // conversion worker pool size

	Tools Tools
	Teams map[string]string // team code -> club name
	Farm  map[string]string // render farm host -> address
}

const (
	defaultConfigPath = "~/.config/px/config.toml"
	defaultLogDir     = "~/.local/share/px/logs"
	defaultWorkers    = 4
)

// Platform mount points for the Bigfoot share.
const (
	darwinShareRoot = "/Volumes/Bigfoot"
	linuxShareRoot  = "/mnt/bigfoot"
)

// defaultTeams is the NBA club table the naming convention keys on.
var defaultTeams = map[string]string{
	"atl": "Atlanta Hawks",
	"bkn": "Brooklyn Nets",
	"bos": "Boston Celtics",
	"cel": "Cleveland Cavaliers",
	"cha": "Charlotte Hornets",
	"chi": "Chicago Bulls",
	"dal": "Dallas Mavericks",
	"den": "Denver Nuggets",
	"det": "Detroit Pistons",
	"gsw": "Golden State Warriors",
	"hou": "Houston Rockets",
	"ind": "Indiana Pacers",
	"lac": "Los Angeles Clippers",
	"lal": "Los Angeles Lakers",
	"mem": "Memphis Grizzlies",
	"mia": "Miami Heat",
	"mil": "Milwaukee Bucks",
	"min": "Minnesota Timberwolves",
	"nop": "New Orleans Pelicans",
	"nyk": "New York Knicks",
	"okc": "Oklahoma City Thunder",
	"orl": "Orlando Magic",
	"phi": "Philadelphia 76ers",
	"phx": "Phoenix Suns",
	"por": "Portland Trail Blazers",
	"sac": "Sacramento Kings",
	"sas": "San Antonio Spurs",
	"tor": "Toronto Raptors",
	"uta": "Utah Jazz",
	"was": "Washington Wizards",
}

// defaultFarm lists the render farm machines.
var defaultFarm = map[string]string{
	"px10": "10.0.53.110",
	"px11": "10.0.53.111",
	"px12": "10.0.53.112",
	"px13": "10.0.53.113",
	"px14": "10.0.53.114",
}

// Defaults returns the configuration used when no file is present,
// keyed off the platform's mount point for the studio share.
func Defaults() Config {
	root := linuxShareRoot
	if runtime.GOOS == "darwin" {
		root = darwinShareRoot
	}
	return Config{
		IncomingDir: filepath.Join(root, "_incoming"),
		ProjectsDir: filepath.Join(root, "Pixelgun_Projects"),
		TemplateDir: filepath.Join(root, "Pixelgun_Projects", "_XX_XXXX_JobTemplate", "Sections", "_XX_generic_section"),
		ScratchDir:  os.TempDir(),
		LogDir:      mustExpand(defaultLogDir),
		Workers:     defaultWorkers,
		Tools: Tools{
			Osascript:     "/usr/bin/osascript",
			ConvertScript: filepath.Join(root, "Pixelgun_Resources", "photoshop", "convert_img.scpt"),
			Nuke:          "/Applications/Nuke12.0v3/Nuke12.0v3.app/Contents/MacOS/Nuke12.0",
			DarktableCLI:  "darktable-cli",
			NukeTemplate:  filepath.Join(root, "Pixelgun_Resources", "nuke", "proof_comp_template.nk"),
		},
		Teams: defaultTeams,
		Farm:  defaultFarm,
	}
}

type rawConfig struct {
	IncomingDir string `toml:"incoming_dir"`
	ProjectsDir string `toml:"projects_dir"`
	TemplateDir string `toml:"template_dir"`
	ScratchDir  string `toml:"scratch_dir"`
	LogDir      string `toml:"log_dir"`
	Workers     int    `toml:"workers"`

	Tools struct {
		Osascript     string `toml:"osascript"`
		ConvertScript string `toml:"convert_script"`
		Nuke          string `toml:"nuke"`
		DarktableCLI  string `toml:"darktable_cli"`
		NukeTemplate  string `toml:"nuke_template"`
	} `toml:"tools"`

	Teams map[string]string `toml:"teams"`
	Farm  map[string]string `toml:"farm"`
}

// Load locates and parses the px config, falling back to defaults when
// the file is missing. Empty fields fall back individually.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Defaults()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw rawConfig
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	setPath(&cfg.IncomingDir, raw.IncomingDir)
	setPath(&cfg.ProjectsDir, raw.ProjectsDir)
	setPath(&cfg.TemplateDir, raw.TemplateDir)
	setPath(&cfg.ScratchDir, raw.ScratchDir)
	setPath(&cfg.LogDir, raw.LogDir)
	if raw.Workers > 0 {
		cfg.Workers = raw.Workers
	}

	setPath(&cfg.Tools.Osascript, raw.Tools.Osascript)
	setPath(&cfg.Tools.ConvertScript, raw.Tools.ConvertScript)
	setPath(&cfg.Tools.Nuke, raw.Tools.Nuke)
	if s := strings.TrimSpace(raw.Tools.DarktableCLI); s != "" {
		cfg.Tools.DarktableCLI = s
	}
	setPath(&cfg.Tools.NukeTemplate, raw.Tools.NukeTemplate)

	if len(raw.Teams) > 0 {
		cfg.Teams = raw.Teams
	}
	if len(raw.Farm) > 0 {
		cfg.Farm = raw.Farm
	}

	return cfg, nil
}

// TeamName resolves a team code to its club name, falling back to the
// code itself for teams outside the table.
func (c Config) TeamName(code string) string {
	if name, ok := c.Teams[code]; ok {
		return name
	}
	return code
}

func setPath(dst *string, value string) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return
	}
	*dst = mustExpand(trimmed)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
