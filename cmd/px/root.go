package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pixelgunstudio/pxtools/internal/config"
	"github.com/pixelgunstudio/pxtools/internal/logtail"
	"github.com/pixelgunstudio/pxtools/internal/prefs"
	"github.com/pixelgunstudio/pxtools/internal/project"
	"github.com/pixelgunstudio/pxtools/internal/runlog"
	"github.com/pixelgunstudio/pxtools/internal/ui"
)

// rootOptions carries the flags shared by every subcommand.
type rootOptions struct {
	configPath string
	prefsPath  string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "px",
		Short: "Pixelgun studio pipeline tools",
		Long: `px drives the studio capture pipeline: ingesting shoot days from
the incoming share into the project tree, converting raw captures to
16-bit TIFFs, and assembling proof sheets for client delivery.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "",
		"override config path (default ~/.config/px/config.toml)")
	cmd.PersistentFlags().StringVar(&opts.prefsPath, "prefs", "",
		"override prefs path (default ~/.config/px/prefs.toml)")

	cmd.AddCommand(
		newIngestCmd(opts),
		newConvertCmd(opts),
		newProofsCmd(opts),
	)
	return cmd
}

func (o *rootOptions) config() (config.Config, error) {
	return config.Load(o.configPath)
}

func layoutFor(cfg config.Config) project.Layout {
	return project.Layout{Projects: cfg.ProjectsDir, Template: cfg.TemplateDir}
}

// resolveProject answers the project flag, or asks, defaulting to the
// operator's last pick.
func resolveProject(p *ui.Prompter, layout project.Layout, flag, last string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	projects, err := layout.List()
	if err != nil {
		return "", err
	}
	if len(projects) == 0 {
		return "", fmt.Errorf("no projects under %s", layout.Projects)
	}
	if last != "" {
		return p.Line("Project?", last)
	}
	return p.Pick("Project?", projects)
}

// resolveTeam answers the team flag, or asks, defaulting to the
// operator's last pick.
func resolveTeam(p *ui.Prompter, flag, last string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if last == "" {
		last = "default"
	}
	return p.Line("Team?", last)
}

// closeRunLog closes the run log and, when the run recorded problems,
// points the operator at the log and echoes its last few errors.
func closeRunLog(log *runlog.Log) error {
	kept, err := log.Close()
	if err != nil {
		return err
	}
	if !kept {
		return nil
	}
	styles := ui.DefaultStyles
	fmt.Println(styles.Warning.Render("problems recorded in " + log.Path()))
	lines, err := logtail.Problems(log.Path(), 5)
	if err != nil {
		return nil
	}
	for _, line := range lines {
		fmt.Println(styles.Muted.Render("  " + line))
	}
	return nil
}

// rememberSelections persists the project/team pair for next time.
// Prefs are best-effort; a failed save is reported but never fatal.
func rememberSelections(prefsPath, projectName, team string) {
	err := prefs.Save(prefsPath, prefs.Prefs{Project: projectName, Team: team})
	if err != nil {
		fmt.Println(ui.DefaultStyles.Muted.Render("could not save prefs: " + err.Error()))
	}
}
