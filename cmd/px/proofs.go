package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pixelgunstudio/pxtools/internal/config"
	"github.com/pixelgunstudio/pxtools/internal/manifest"
	"github.com/pixelgunstudio/pxtools/internal/naming"
	"github.com/pixelgunstudio/pxtools/internal/prefs"
	"github.com/pixelgunstudio/pxtools/internal/project"
	"github.com/pixelgunstudio/pxtools/internal/proofs"
	"github.com/pixelgunstudio/pxtools/internal/runlog"
	"github.com/pixelgunstudio/pxtools/internal/toolexec"
	"github.com/pixelgunstudio/pxtools/internal/ui"
)

func newProofsCmd(root *rootOptions) *cobra.Command {
	var (
		projectFlag string
		teamFlag    string
		playerFlag  string
	)

	cmd := &cobra.Command{
		Use:   "proofs",
		Short: "Render proof sheets and delivery manifests",
		Long: `Proofs renders every pose of a player through the Nuke comp
template, labels each frame from the project's pose mapping table,
and assembles the renders into a PDF proof sheet plus a CSV delivery
manifest. Pass --player all to sheet an entire team.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.config()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			styles := ui.DefaultStyles
			prompter := ui.StdPrompter()
			layout := layoutFor(cfg)

			saved, _ := prefs.Load(root.prefsPath)
			projectName, err := resolveProject(prompter, layout, projectFlag, saved.Project)
			if err != nil {
				return err
			}
			team, err := resolveTeam(prompter, teamFlag, saved.Team)
			if err != nil {
				return err
			}
			rememberSelections(root.prefsPath, projectName, team)

			var players []string
			switch playerFlag {
			case "all":
				players, err = layout.Players(projectName, team)
				if err != nil {
					return err
				}
			case "":
				all, err := layout.Players(projectName, team)
				if err != nil {
					return err
				}
				player, err := prompter.Pick("Player?", all)
				if err != nil {
					return err
				}
				players = []string{player}
			default:
				players = []string{playerFlag}
			}

			mapping, err := manifest.LoadMapping(layout.ChunkMappingsCSV(projectName))
			if err != nil {
				if !errors.Is(err, os.ErrNotExist) {
					return err
				}
				fmt.Println(styles.Warning.Render("no pose mapping table; sheets will use internal pose names"))
				mapping = manifest.EmptyMapping()
			}

			log, err := runlog.Open(cfg.LogDir, "proofs_"+team)
			if err != nil {
				return err
			}
			runErr := sheetPlayers(ctx, cfg, layout, projectName, team, players, mapping, log)
			if cerr := closeRunLog(log); cerr != nil && runErr == nil {
				runErr = cerr
			}
			return runErr
		},
	}

	cmd.Flags().StringVarP(&projectFlag, "project", "g", "", "project (gig) name")
	cmd.Flags().StringVarP(&teamFlag, "team", "t", "", "team code")
	cmd.Flags().StringVarP(&playerFlag, "player", "p", "", "player directory name, or \"all\"")
	return cmd
}

// sheetPlayers renders a proof sheet per player. A player's failure is
// logged and the loop carries on; only cancellation stops it early.
func sheetPlayers(ctx context.Context, cfg config.Config, layout project.Layout, projectName, team string, players []string, mapping *manifest.Mapping, log *runlog.Log) error {
	styles := ui.DefaultStyles
	failed := 0
	for _, player := range players {
		err := proofs.Run(ctx, proofs.Options{
			Layout:   layout,
			Project:  projectName,
			Team:     team,
			TeamName: cfg.TeamName(team),
			Player:   player,
			Scratch:  cfg.ScratchDir,
			Nuke:     cfg.Tools.Nuke,
			Template: cfg.Tools.NukeTemplate,
			Runner:   toolexec.CommandRunner{},
			Mapping:  mapping,
			Log:      log.Logger,
		})
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			failed++
			log.Error("proof sheet failed",
				zap.String("player", player),
				zap.Error(err))
			fmt.Println(styles.Danger.Render("failed: " + naming.DisplayName(player)))
			continue
		}
		fmt.Println(styles.Success.Render("sheeted: " + naming.DisplayName(player)))
	}

	if failed > 0 {
		fmt.Println(styles.Danger.Render(fmt.Sprintf(
			"%d of %d proof sheets failed", failed, len(players))))
	}
	return nil
}
