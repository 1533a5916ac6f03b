// Package ingest moves a shoot day's camera cards off the incoming
// share into per-player project directories, stamping each file with
// the shoot date.
package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pixelgunstudio/pxtools/internal/checklist"
	"github.com/pixelgunstudio/pxtools/internal/naming"
	"github.com/pixelgunstudio/pxtools/internal/project"
)

// Shoot is one day's worth of captures sitting on the incoming share.
type Shoot struct {
	Dir     string // absolute shoot directory
	Date    string // date stamp, MM_DD_YYYY (the directory basename)
	ShotOn  time.Time
	Players map[string][]naming.Take // player key -> takes, capture order
	Skipped []string                 // directory names that are not takes
}

// ScanShoot reads a shoot-day directory and groups its take directories
// by player. The directory basename must be a date stamp.
func ScanShoot(dir string) (*Shoot, error) {
	date := filepath.Base(dir)
	shotOn, err := naming.ParseShootDate(date)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read shoot dir: %w", err)
	}

	sh := &Shoot{
		Dir:     dir,
		Date:    date,
		ShotOn:  shotOn,
		Players: map[string][]naming.Take{},
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		take, err := naming.ParseTake(e.Name())
		if err != nil {
			sh.Skipped = append(sh.Skipped, e.Name())
			continue
		}
		sh.Players[take.Player] = append(sh.Players[take.Player], take)
	}
	for _, takes := range sh.Players {
		sort.Slice(takes, func(i, j int) bool { return takes[i].Order < takes[j].Order })
	}
	return sh, nil
}

// PlayerNames returns the players of the shoot in stable order, color
// card excluded.
func (s *Shoot) PlayerNames() []string {
	names := make([]string, 0, len(s.Players))
	for name := range s.Players {
		if name == naming.ColorCardKey {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ColorCardTakes returns the shoot's color card takes, if any.
func (s *Shoot) ColorCardTakes() []naming.Take {
	return s.Players[naming.ColorCardKey]
}

// Movement is one planned take relocation.
type Movement struct {
	Take naming.Take
	Src  string
	Dst  string
}

// PlanPlayer lists the moves that would ingest a player, without
// touching the share.
func (s *Shoot) PlanPlayer(player, playerDir string) []Movement {
	takes := s.Players[player]
	moves := make([]Movement, 0, len(takes))
	for _, take := range takes {
		stamped := naming.StampTake(s.Date, take.Raw)
		moves = append(moves, Movement{
			Take: take,
			Src:  filepath.Join(s.Dir, take.Raw),
			Dst:  filepath.Join(project.AcquisitionDir(playerDir), stamped),
		})
	}
	return moves
}

// IngestPlayer scaffolds the player directory and brings every take
// across. Moving a take and simplifying its camera file names are
// strictly ordered per take: the move has to finish before the rename
// pass starts.
func IngestPlayer(ctx context.Context, layout project.Layout, s *Shoot, player, playerDir string, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}

	list := checklist.New("ingest "+player, log)
	list.Add("scaffold player dir", func(context.Context) error {
		return layout.ScaffoldPlayer(playerDir)
	})
	for _, move := range s.PlanPlayer(player, playerDir) {
		move := move
		list.Add("move "+move.Take.Raw, func(context.Context) error {
			return project.Move(move.Src, move.Dst)
		})
		list.Add("clean "+move.Take.Raw, func(context.Context) error {
			return CleanCameraFiles(move.Dst, log)
		})
	}
	return list.Run(ctx)
}

// CleanCameraFiles renames every file under dir to its simplified
// camera name. A rename that would overwrite an existing file is
// logged and skipped; the original name is kept.
func CleanCameraFiles(dir string, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		simplified := naming.SimplifyCameraFile(d.Name())
		if simplified == d.Name() {
			return nil
		}
		target := filepath.Join(filepath.Dir(path), simplified)
		if _, err := os.Stat(target); err == nil {
			log.Error("rename collision, keeping original name",
				zap.String("file", path),
				zap.String("target", simplified))
			return nil
		}
		if err := os.Rename(path, target); err != nil {
			return fmt.Errorf("rename %s: %w", d.Name(), err)
		}
		return nil
	})
}

// cardMarker identifies the reference chart frames among a color card
// take's files.
const cardMarker = "AR008_POLO"

// CopyColorCard copies the shoot's reference chart pair (JPG + CR2)
// into the project's color chart area, named px_color_card_<date>.*.
// It returns how many chart images were found and copied; the caller
// decides whether fewer than two is acceptable.
func CopyColorCard(takeDir, chartDir, date string) (int, error) {
	if err := os.MkdirAll(chartDir, 0o755); err != nil {
		return 0, fmt.Errorf("create chart dir: %w", err)
	}
	entries, err := os.ReadDir(takeDir)
	if err != nil {
		return 0, fmt.Errorf("read color card take: %w", err)
	}

	copied := 0
	for _, e := range entries {
		if e.IsDir() || !strings.Contains(e.Name(), cardMarker) {
			continue
		}
		var dst string
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".jpg", ".jpeg":
			dst = filepath.Join(chartDir, fmt.Sprintf("px_color_card_%s.jpg", date))
		case ".cr2":
			dst = filepath.Join(chartDir, fmt.Sprintf("px_color_card_%s.cr2", date))
		default:
			continue
		}
		if err := project.CopyFile(filepath.Join(takeDir, e.Name()), dst); err != nil {
			return copied, fmt.Errorf("copy chart image: %w", err)
		}
		copied++
	}
	return copied, nil
}
