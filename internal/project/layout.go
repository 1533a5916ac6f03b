// Package project maps the directory layout of a client project on
// the shared volume and provides the file operations px runs on it.
package project

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Layout resolves paths inside the studio's project convention:
// <projects>/<project>/Sections/<team>/<player>/... plus the shared
// Source_Pixelgun areas for color cards, settings and proof sheets.
type Layout struct {
	Projects string // projects root on the share
	Template string // generic section template for new player dirs
}

// PlayerSubdirs are created inside every scaffolded player directory.
var PlayerSubdirs = []string{
	"Agisoft", "Mudbox", "Wrap", "_deliverables", "_settings",
	"Maya", "Photoshop", "_acquisition", "_scratch", "_staging",
}

// List returns the project names under the projects root, skipping
// template and system entries.
func (l Layout) List() ([]string, error) {
	entries, err := os.ReadDir(l.Projects)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	var projects []string
	for _, e := range entries {
		name := e.Name()
		if !e.IsDir() || strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".") || name == "Thumbs.db" {
			continue
		}
		projects = append(projects, name)
	}
	sort.Strings(projects)
	return projects, nil
}

// TeamDir returns <projects>/<project>/Sections/<team>.
func (l Layout) TeamDir(project, team string) string {
	return filepath.Join(l.Projects, project, "Sections", team)
}

// PlayerDir returns the player directory inside a team section.
func (l Layout) PlayerDir(project, team, player string) string {
	return filepath.Join(l.TeamDir(project, team), player)
}

// Players lists the player directories of a team section.
func (l Layout) Players(project, team string) ([]string, error) {
	entries, err := os.ReadDir(l.TeamDir(project, team))
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	var players []string
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") || strings.HasPrefix(e.Name(), "_") {
			continue
		}
		players = append(players, e.Name())
	}
	sort.Strings(players)
	return players, nil
}

// ColorChartDir returns the delivery location for a shoot day's color card.
func (l Layout) ColorChartDir(project, date string) string {
	return filepath.Join(l.Projects, project, "Source_Pixelgun", "Color Charts", date)
}

// ColorCorrectionXMP returns the sidecar path for a shoot date.
func (l Layout) ColorCorrectionXMP(project, date string) string {
	return filepath.Join(l.Projects, project, "Source_Pixelgun", "Color_Correction", date, date+"_cc.xmp")
}

// LatestColorCorrectionXMP finds the sidecar of the most recent card
// directory, by modification time.
func (l Layout) LatestColorCorrectionXMP(project string) (string, error) {
	dir := filepath.Join(l.Projects, project, "Source_Pixelgun", "Color_Correction")
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("list color corrections: %w", err)
	}

	var latest string
	var latestMod int64
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if latest == "" || info.ModTime().UnixNano() > latestMod {
			latest = e.Name()
			latestMod = info.ModTime().UnixNano()
		}
	}
	if latest == "" {
		return "", fmt.Errorf("no color correction cards under %s", dir)
	}
	return l.ColorCorrectionXMP(project, latest), nil
}

// ChunkMappingsCSV returns the pose mapping table location for a project.
func (l Layout) ChunkMappingsCSV(project string) string {
	return filepath.Join(l.Projects, project, "Source_Pixelgun", "Settings", "chunk_mappings.csv")
}

// ProofSheetDir returns (and creates) the proof sheet delivery dir.
func (l Layout) ProofSheetDir(project, team string) (string, error) {
	dir := filepath.Join(l.Projects, project, "Source_Pixelgun", "Proof Sheets", team)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create proof sheet dir: %w", err)
	}
	return dir, nil
}

// ScaffoldPlayer materializes a player directory from the job template
// and ensures the standard subdirectories exist. An existing player
// directory is left untouched except for missing subdirectories.
func (l Layout) ScaffoldPlayer(playerDir string) error {
	if _, err := os.Stat(playerDir); os.IsNotExist(err) {
		if err := CopyTree(l.Template, playerDir); err != nil {
			return fmt.Errorf("scaffold player from template: %w", err)
		}
	}
	for _, sub := range PlayerSubdirs {
		if err := os.MkdirAll(filepath.Join(playerDir, sub), 0o755); err != nil {
			return fmt.Errorf("create %s: %w", sub, err)
		}
	}
	return nil
}

// AcquisitionDir returns the raw capture area of a player directory.
func AcquisitionDir(playerDir string) string {
	return filepath.Join(playerDir, "_acquisition")
}

// TiffDir returns the converted output area of a player directory.
func TiffDir(playerDir string) string {
	return filepath.Join(AcquisitionDir(playerDir), "tiff")
}

// ThumbsDir returns the proof thumbnail area of a player directory.
func ThumbsDir(playerDir string) string {
	return filepath.Join(AcquisitionDir(playerDir), "_thumbs")
}

// Poses lists a player's pose directories, preferring the converted
// tiff tree when one exists (older ingests have no tiff subdir). The
// tiff and _thumbs entries themselves are never poses.
func Poses(playerDir string) (paths []string, fromTiff bool, err error) {
	base := AcquisitionDir(playerDir)
	if info, serr := os.Stat(TiffDir(playerDir)); serr == nil && info.IsDir() {
		base = TiffDir(playerDir)
		fromTiff = true
	}

	entries, err := os.ReadDir(base)
	if err != nil {
		return nil, false, fmt.Errorf("list poses: %w", err)
	}
	for _, e := range entries {
		name := e.Name()
		if !e.IsDir() || name == "tiff" || name == "_thumbs" || strings.HasPrefix(name, ".") {
			continue
		}
		paths = append(paths, filepath.Join(base, name))
	}
	sort.Strings(paths)
	return paths, fromTiff, nil
}

// CopyTree recursively copies the directory src to dst.
func CopyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		return CopyFile(path, target)
	})
}

// CopyFile copies a single file, creating the destination directory.
func CopyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}

// Move renames src to dst, falling back to copy+delete when the rename
// crosses devices (the share and local disks usually do).
func Move(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	if info.IsDir() {
		if err := CopyTree(src, dst); err != nil {
			return err
		}
	} else if err := CopyFile(src, dst); err != nil {
		return err
	}
	return os.RemoveAll(src)
}
