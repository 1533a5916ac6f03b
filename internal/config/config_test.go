package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	want := Defaults()
	if cfg.IncomingDir != want.IncomingDir {
		t.Fatalf("IncomingDir = %q, want %q", cfg.IncomingDir, want.IncomingDir)
	}
	if cfg.Workers != defaultWorkers {
		t.Fatalf("Workers = %d, want %d", cfg.Workers, defaultWorkers)
	}
	if cfg.Teams["det"] != "Detroit Pistons" {
		t.Fatalf("Teams[det] = %q, want %q", cfg.Teams["det"], "Detroit Pistons")
	}
	if cfg.Farm["px10"] != "10.0.53.110" {
		t.Fatalf("Farm[px10] = %q, want %q", cfg.Farm["px10"], "10.0.53.110")
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
incoming_dir = "  ~/shoots  "
workers = 8

[tools]
nuke = "/opt/Nuke14.0v5/Nuke14.0"

[teams]
tst = "Test Club"
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !strings.HasPrefix(cfg.IncomingDir, home) {
		t.Fatalf("IncomingDir = %q, want it under HOME %q", cfg.IncomingDir, home)
	}
	if cfg.Workers != 8 {
		t.Fatalf("Workers = %d, want 8", cfg.Workers)
	}
	if cfg.Tools.Nuke != "/opt/Nuke14.0v5/Nuke14.0" {
		t.Fatalf("Tools.Nuke = %q, want %q", cfg.Tools.Nuke, "/opt/Nuke14.0v5/Nuke14.0")
	}
	// Overriding the table replaces it entirely.
	if cfg.TeamName("tst") != "Test Club" {
		t.Fatalf("TeamName(tst) = %q, want %q", cfg.TeamName("tst"), "Test Club")
	}
	if cfg.TeamName("det") != "det" {
		t.Fatalf("TeamName(det) = %q, want fallback to code", cfg.TeamName("det"))
	}
	// Untouched fields keep their defaults.
	if cfg.ProjectsDir != Defaults().ProjectsDir {
		t.Fatalf("ProjectsDir = %q, want default %q", cfg.ProjectsDir, Defaults().ProjectsDir)
	}
}

func TestLoad_EmptyValuesUseDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
incoming_dir = "   "
workers = 0
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.IncomingDir != Defaults().IncomingDir {
		t.Fatalf("IncomingDir = %q, want default %q", cfg.IncomingDir, Defaults().IncomingDir)
	}
	if cfg.Workers != defaultWorkers {
		t.Fatalf("Workers = %d, want %d", cfg.Workers, defaultWorkers)
	}
}

func TestLoad_InvalidTOMLFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`incoming_dir = [`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	_, err := Load(path)
	if err == nil {
		t.Fatalf("Load returned nil error, want parse error")
	}
	if !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("Load error = %q, want it to mention parse config", err.Error())
	}
}

func TestTeamName_KnownAndUnknown(t *testing.T) {
	cfg := Defaults()
	if got := cfg.TeamName("orl"); got != "Orlando Magic" {
		t.Fatalf("TeamName(orl) = %q, want %q", got, "Orlando Magic")
	}
	if got := cfg.TeamName("testTeam"); got != "testTeam" {
		t.Fatalf("TeamName(testTeam) = %q, want the code back", got)
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/a/b")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("expandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath returned nil error, want error")
	}
}
