package main

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pixelgunstudio/pxtools/internal/config"
	"github.com/pixelgunstudio/pxtools/internal/convert"
	"github.com/pixelgunstudio/pxtools/internal/naming"
	"github.com/pixelgunstudio/pxtools/internal/prefs"
	"github.com/pixelgunstudio/pxtools/internal/runlog"
	"github.com/pixelgunstudio/pxtools/internal/toolexec"
	"github.com/pixelgunstudio/pxtools/internal/ui"
)

func newConvertCmd(root *rootOptions) *cobra.Command {
	var (
		projectFlag string
		teamFlag    string
		playerFlag  string
		poseFlag    string
		cardFlag    string
	)

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert a player's raw captures to 16-bit TIFFs",
		Long: `Convert finds every CR2 under a player's acquisition tree and runs
it through the platform converter (Photoshop on macOS, darktable-cli
elsewhere) into a mirrored tiff tree. Each output is verified to be a
real TIFF; conversions that fail are logged and the batch carries on.`,
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

			player := playerFlag
			if player == "" {
				players, err := layout.Players(projectName, team)
				if err != nil {
					return err
				}
				player, err = prompter.Pick("Player?", players)
				if err != nil {
					return err
				}
			}
			playerDir := layout.PlayerDir(projectName, team, player)

			jobs, err := convert.PlanJobs(playerDir, poseFlag)
			if err != nil {
				return err
			}
			if len(jobs) == 0 {
				fmt.Println(styles.Muted.Render("nothing to convert"))
				return nil
			}
			if err := convert.EnsureTargets(jobs); err != nil {
				return err
			}

			// Photoshop holds documents open across osascript calls;
			// start from a dead instance or the first convert hangs.
			if runtime.GOOS == "darwin" {
				if err := toolexec.KillByName(ctx, "Photoshop"); err != nil {
					fmt.Println(styles.Warning.Render("could not stop Photoshop: " + err.Error()))
				}
			}

			// Every convert gets the shoot's color correction; -c picks
			// an older card, otherwise the newest one applies.
			xmp, err := convert.ResolveSidecarXMP(layout, projectName, cardFlag)
			if err != nil {
				return err
			}
			n, err := convert.WriteSidecars(jobs, xmp)
			if err != nil {
				return err
			}
			fmt.Println(styles.Info.Render(fmt.Sprintf("%d sidecars written from %s", n, filepath.Base(xmp))))
			defer func() {
				if err := convert.RemoveSidecars(jobs); err != nil {
					fmt.Println(styles.Warning.Render("sidecar cleanup: " + err.Error()))
				}
			}()

			log, err := runlog.Open(cfg.LogDir, "convert_"+player)
			if err != nil {
				return err
			}
			summary, runErr := convertBatch(ctx, cfg, jobs, player, log)
			if cerr := closeRunLog(log); cerr != nil && runErr == nil {
				runErr = cerr
			}
			if runErr != nil {
				return runErr
			}

			if summary.Failed > 0 {
				fmt.Println(styles.Danger.Render(fmt.Sprintf(
					"%d of %d conversions failed", summary.Failed, summary.Total)))
			} else {
				fmt.Println(styles.Success.Render(fmt.Sprintf(
					"%d files converted", summary.Total)))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&projectFlag, "project", "g", "", "project (gig) name")
	cmd.Flags().StringVarP(&teamFlag, "team", "t", "", "team code")
	cmd.Flags().StringVarP(&playerFlag, "player", "p", "", "player directory name (last_first)")
	cmd.Flags().StringVarP(&poseFlag, "pose", "d", "", "only convert takes whose pose matches")
	cmd.Flags().StringVarP(&cardFlag, "card", "c", "latest", "color correction card date (default: the newest card)")
	cmd.Flags().Lookup("card").NoOptDefVal = "latest"
	return cmd
}

// convertBatch runs the conversion jobs behind a progress bar, logging
// each result to the run log.
func convertBatch(ctx context.Context, cfg config.Config, jobs []convert.Job, player string, log *runlog.Log) (convert.Summary, error) {
	batch := ui.NewBatch(ctx, "Converting "+naming.DisplayName(player), len(jobs))
	eng := convert.EngineFor(cfg.Tools, toolexec.CommandRunner{})

	summaryCh := make(chan convert.Summary, 1)
	go func() {
		summaryCh <- convert.RunBatch(ctx, eng, jobs, cfg.Workers, func(r convert.Result) {
			name := filepath.Base(r.Job.Source)
			if r.Err != nil {
				log.Error("convert failed",
					zap.String("file", name),
					zap.Error(r.Err))
			} else {
				log.Info("converted",
					zap.String("file", name))
			}
			batch.Done(name, r.Err != nil)
		})
	}()
	showErr := batch.Show()
	summary := <-summaryCh
	if ctx.Err() != nil {
		return summary, ctx.Err()
	}
	if showErr != nil {
		return summary, showErr
	}
	return summary, nil
}
