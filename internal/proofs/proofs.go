// Package proofs produces the client deliverables for a player: per-pose
// proof JPEGs rendered by Nuke, a PDF proof sheet, and the CSV delivery
// manifest.
//
// Nuke is driven the way the artists set it up: a comp template with
// placeholder tokens is instantiated per pose into the scratch dir and
// rendered with `nuke -x -F 1`. The compositing itself is Nuke's
// business; this package only fills in paths and labels.
package proofs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/pixelgunstudio/pxtools/internal/manifest"
	"github.com/pixelgunstudio/pxtools/internal/naming"
	"github.com/pixelgunstudio/pxtools/internal/project"
	"github.com/pixelgunstudio/pxtools/internal/toolexec"
)

// Placeholder tokens in the Nuke comp template.
const (
	tokenHeadPath  = "PATH_TO_PLAYERS_HEAD"
	tokenProofPath = "PATH_TO_PLAYERS_PROOF"
	tokenPoseLabel = "##_##_####_########_########_####"
	tokenShotInfo  = "SHOTINFORMATIONSTRING"
	tokenOutput    = "PROOF_OUTPUT"
)

// Options configure one player's proof run.
type Options struct {
	Layout   project.Layout
	Project  string
	Team     string
	TeamName string // club display name for the sheet title
	Player   string
	Scratch  string // where the .nk scripts and jpegs land
	Nuke     string
	Template string
	Runner   toolexec.Runner
	Mapping  *manifest.Mapping
	Log      *zap.Logger
}

// Run renders the player's poses, writes the delivery manifest and the
// PDF proof sheet, and tidies the renders away. Render failures are
// logged and absorbed; the sheet is built from whatever rendered.
func Run(ctx context.Context, opts Options) error {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	mapping := opts.Mapping
	if mapping == nil {
		mapping = manifest.EmptyMapping()
	}

	playerDir := opts.Layout.PlayerDir(opts.Project, opts.Team, opts.Player)
	poses, _, err := project.Poses(playerDir)
	if err != nil {
		return err
	}
	if len(poses) == 0 {
		return fmt.Errorf("player %s has no poses to proof", opts.Player)
	}
	poses = neutralFirst(poses)

	var entries []manifest.Entry
	var rendered []string
	for i, poseDir := range poses {
		pose := filepath.Base(poseDir)
		label := mapping.Label(naming.PoseFromStamped(pose))

		script := filepath.Join(opts.Scratch, pose+".nk")
		tokens := map[string]string{
			tokenHeadPath:  poseDir,
			tokenProofPath: playerDir,
			tokenPoseLabel: label + " " + naming.TakeToken(pose),
			tokenShotInfo:  "Px: " + pose,
			tokenOutput:    pose,
		}
		if err := InstantiateTemplate(opts.Template, script, tokens); err != nil {
			return err
		}

		if err := opts.Runner.Run(ctx, opts.Nuke, "-x", "-F", "1", script); err != nil {
			log.Error("proof render failed",
				zap.String("pose", pose),
				zap.Error(err))
		} else {
			rendered = append(rendered, filepath.Join(opts.Scratch, pose+".jpg"))
		}

		entries = append(entries, manifest.Entry{
			TakeName:   label,
			Take:       naming.TakeToken(pose),
			PXTakeName: pose,
			Order:      i,
		})
	}

	outDir, err := opts.Layout.ProofSheetDir(opts.Project, opts.Team)
	if err != nil {
		return err
	}
	base := filepath.Join(outDir, naming.ProofBase(filepath.Base(poses[0]))+"_selects")

	if err := manifest.WriteDelivery(base+".csv", entries); err != nil {
		return err
	}

	title := opts.TeamName + " --- " + naming.DisplayName(opts.Player)
	if err := BuildPDF(base+".pdf", title, rendered); err != nil {
		return err
	}

	return Cleanup(opts.Scratch, opts.Player, playerDir, outDir)
}

// neutralFirst moves the neutral pose to the front; the client reads
// the sheet top-down and the neutral is the reference.
func neutralFirst(poses []string) []string {
	for i, p := range poses {
		if strings.Contains(filepath.Base(p), "neutral") {
			reordered := append([]string{p}, append(append([]string{}, poses[:i]...), poses[i+1:]...)...)
			return reordered
		}
	}
	return poses
}

// InstantiateTemplate copies the comp template to dst with every token
// replaced. An existing script from an earlier run is overwritten.
func InstantiateTemplate(src, dst string, tokens map[string]string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("read nuke template: %w", err)
	}

	pairs := make([]string, 0, len(tokens)*2)
	for token, value := range tokens {
		pairs = append(pairs, token, value)
	}
	out := strings.NewReplacer(pairs...).Replace(string(data))

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create scratch dir: %w", err)
	}
	if err := os.WriteFile(dst, []byte(out), 0o644); err != nil {
		return fmt.Errorf("write nuke script: %w", err)
	}
	return nil
}

// Cleanup distributes the rendered jpegs (neutral is copied next to the
// sheet, everything else becomes a thumbnail) and clears the scratch
// files of this player.
func Cleanup(scratch, player, playerDir, proofDir string) error {
	thumbs := project.ThumbsDir(playerDir)
	if err := os.MkdirAll(thumbs, 0o755); err != nil {
		return fmt.Errorf("create thumbs dir: %w", err)
	}

	jpegs, err := filepath.Glob(filepath.Join(scratch, "*"+player+"*.jpg"))
	if err != nil {
		return err
	}
	for _, jpeg := range jpegs {
		name := filepath.Base(jpeg)
		if strings.Contains(name, "neutral") {
			if err := project.CopyFile(jpeg, filepath.Join(proofDir, name)); err != nil {
				return fmt.Errorf("copy neutral proof: %w", err)
			}
		} else if err := project.Move(jpeg, filepath.Join(thumbs, name)); err != nil {
			return fmt.Errorf("move thumb: %w", err)
		}
	}

	leftovers, err := filepath.Glob(filepath.Join(scratch, "*"+player+"*"))
	if err != nil {
		return err
	}
	for _, leftover := range leftovers {
		if err := os.Remove(leftover); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove scratch file: %w", err)
		}
	}
	return nil
}
