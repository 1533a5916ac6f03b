package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pixelgunstudio/pxtools/internal/config"
	"github.com/pixelgunstudio/pxtools/internal/ingest"
	"github.com/pixelgunstudio/pxtools/internal/naming"
	"github.com/pixelgunstudio/pxtools/internal/prefs"
	"github.com/pixelgunstudio/pxtools/internal/project"
	"github.com/pixelgunstudio/pxtools/internal/runlog"
	"github.com/pixelgunstudio/pxtools/internal/ui"
)

func newIngestCmd(root *rootOptions) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "ingest [shoot-dir]",
		Short: "Bring a shoot day from the incoming share into the project tree",
		Long: `Ingest scans a shoot-day directory (named MM_DD_YYYY), groups its
take directories by player, and moves each player's takes into the
project tree under date-stamped names. Camera file names are
simplified as they land, and the shoot's color chart pair is copied
into the project's chart area.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.config()
			if err != nil {
				return err
			}
			arg := ""
			if len(args) == 1 {
				arg = args[0]
			}
			return runIngest(cmd, cfg, root, arg, dryRun)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show the planned moves without touching the share")
	return cmd
}

func runIngest(cmd *cobra.Command, cfg config.Config, root *rootOptions, arg string, dryRun bool) error {
	styles := ui.DefaultStyles
	prompter := ui.StdPrompter()
	layout := layoutFor(cfg)

	shootDir, err := pickShootDir(prompter, cfg.IncomingDir, arg)
	if err != nil {
		return err
	}

	shoot, err := ingest.ScanShoot(shootDir)
	if err != nil {
		return err
	}
	fmt.Println(styles.Banner.Render("Ingest " + shoot.Date))
	for _, name := range shoot.Skipped {
		fmt.Println(styles.Warning.Render("skipping (not a take): " + name))
	}
	players := shoot.PlayerNames()
	if len(players) == 0 {
		return fmt.Errorf("no player takes in %s", shootDir)
	}

	log, err := runlog.Open(cfg.LogDir, "ingest_"+shoot.Date)
	if err != nil {
		return err
	}
	runErr := ingestShoot(cmd, root, layout, shoot, players, dryRun, log)
	if cerr := closeRunLog(log); cerr != nil && runErr == nil {
		runErr = cerr
	}
	return runErr
}

func ingestShoot(cmd *cobra.Command, root *rootOptions, layout project.Layout, shoot *ingest.Shoot, players []string, dryRun bool, log *runlog.Log) error {
	ctx := cmd.Context()
	styles := ui.DefaultStyles
	prompter := ui.StdPrompter()

	if err := auditShoot(prompter, styles, shoot, log.Logger); err != nil {
		return err
	}

	saved, _ := prefs.Load(root.prefsPath)
	projectName, err := resolveProject(prompter, layout, "", saved.Project)
	if err != nil {
		return err
	}
	team, err := resolveTeam(prompter, "", saved.Team)
	if err != nil {
		return err
	}
	rememberSelections(root.prefsPath, projectName, team)

	if dryRun {
		return printIngestPlan(styles, layout, shoot, projectName, team, players)
	}

	if err := ingestColorCard(prompter, styles, layout, shoot, projectName, log); err != nil {
		return err
	}

	all, err := prompter.YesNo(fmt.Sprintf("Ingest all %d players?", len(players)))
	if err != nil {
		return err
	}

	ingested := 0
	for _, player := range players {
		if !all {
			yes, err := prompter.YesNo("Ingest " + naming.DisplayName(player) + "?")
			if err != nil {
				return err
			}
			if !yes {
				continue
			}
		}
		playerDir := layout.PlayerDir(projectName, team, player)
		if err := ingest.IngestPlayer(ctx, layout, shoot, player, playerDir, log.Logger); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Error("player ingest failed",
				zap.String("player", player),
				zap.Error(err))
			fmt.Println(styles.Danger.Render("failed: " + naming.DisplayName(player)))
			continue
		}
		ingested++
		fmt.Println(styles.Success.Render("ingested: " + naming.DisplayName(player)))
	}

	fmt.Printf("%s\n", styles.Text.Render(fmt.Sprintf("%d of %d players ingested", ingested, len(players))))
	return nil
}

// pickShootDir resolves the shoot directory argument, or offers the
// date-stamped directories waiting on the incoming share.
func pickShootDir(p *ui.Prompter, incoming, arg string) (string, error) {
	if arg != "" {
		if filepath.IsAbs(arg) {
			return arg, nil
		}
		return filepath.Join(incoming, arg), nil
	}

	entries, err := os.ReadDir(incoming)
	if err != nil {
		return "", fmt.Errorf("read incoming share: %w", err)
	}
	var days []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := naming.ParseShootDate(e.Name()); err == nil {
			days = append(days, e.Name())
		}
	}
	if len(days) == 0 {
		return "", fmt.Errorf("no shoot days on %s", incoming)
	}
	day, err := p.Pick("Which shoot day?", days)
	if err != nil {
		return "", err
	}
	return filepath.Join(incoming, day), nil
}

// auditShoot compares EXIF capture dates against the shoot date and
// lets the operator bail out when the takes look like they belong to a
// different day. Findings go to the run log as well as the terminal.
func auditShoot(p *ui.Prompter, styles ui.Styles, shoot *ingest.Shoot, log *zap.Logger) error {
	mismatches, err := ingest.AuditCaptureDates(shoot.Dir, shoot.ShotOn)
	if err != nil {
		return err
	}
	if len(mismatches) == 0 {
		return nil
	}
	logMismatches(log, shoot.Date, mismatches)
	for _, m := range mismatches {
		fmt.Println(styles.Warning.Render(fmt.Sprintf(
			"capture date mismatch: %s shot %s", m.Path, m.Captured.Format("2006-01-02"))))
	}
	yes, err := p.YesNo(fmt.Sprintf("%d files were captured on a different day. Continue?", len(mismatches)))
	if err != nil {
		return err
	}
	if !yes {
		return fmt.Errorf("ingest aborted")
	}
	return nil
}

// logMismatches records each capture-date finding in the run log.
func logMismatches(log *zap.Logger, shootDate string, mismatches []ingest.Mismatch) {
	for _, m := range mismatches {
		log.Warn("capture date mismatch",
			zap.String("file", m.Path),
			zap.String("shoot", shootDate),
			zap.String("captured", m.Captured.Format("2006-01-02")))
	}
}

func printIngestPlan(styles ui.Styles, layout project.Layout, shoot *ingest.Shoot, projectName, team string, players []string) error {
	for _, player := range players {
		playerDir := layout.PlayerDir(projectName, team, player)
		fmt.Println(styles.Accent.Render(naming.DisplayName(player)))
		for _, move := range shoot.PlanPlayer(player, playerDir) {
			fmt.Printf("  %s -> %s\n", move.Src, move.Dst)
		}
	}
	if takes := shoot.ColorCardTakes(); len(takes) > 0 {
		fmt.Println(styles.Accent.Render("color chart -> " + layout.ColorChartDir(projectName, shoot.Date)))
	}
	return nil
}

func ingestColorCard(p *ui.Prompter, styles ui.Styles, layout project.Layout, shoot *ingest.Shoot, projectName string, log *runlog.Log) error {
	takes := shoot.ColorCardTakes()
	if len(takes) == 0 {
		return nil
	}
	yes, err := p.YesNo("Copy the color chart into the project?")
	if err != nil {
		return err
	}
	if !yes {
		return nil
	}

	take := takes[0].Raw
	if len(takes) > 1 {
		names := make([]string, len(takes))
		for i, t := range takes {
			names[i] = t.Raw
		}
		take, err = p.Pick("Which color card take?", names)
		if err != nil {
			return err
		}
	}

	chartDir := layout.ColorChartDir(projectName, shoot.Date)
	copied, err := ingest.CopyColorCard(filepath.Join(shoot.Dir, take), chartDir, shoot.Date)
	if err != nil {
		log.Error("color chart copy failed",
			zap.String("take", take),
			zap.Error(err))
		return err
	}
	if copied < 2 {
		log.Error("incomplete color chart",
			zap.Int("copied", copied))
		fmt.Println(styles.Warning.Render(fmt.Sprintf("only %d chart images found (want JPG + CR2)", copied)))
		cont, err := p.YesNo("Continue without a complete chart?")
		if err != nil {
			return err
		}
		if !cont {
			return fmt.Errorf("ingest aborted")
		}
		return nil
	}
	fmt.Println(styles.Success.Render("color chart copied to " + chartDir))
	return nil
}
