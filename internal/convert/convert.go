// Package convert turns Camera RAW captures into 16-bit TIFFs by
// driving an external converter per file.
//
// On the studio's macs the converter is Adobe Photoshop, reached
// through an AppleScript that runs the conversion javascript; anywhere
// else darktable-cli does the work. Either way the color decisions live
// in an XMP sidecar placed next to every CR2 for the duration of the
// run. The conversion itself is a flat batch: every job is independent,
// failures are absorbed into the run log, and the batch always runs to
// the end.
package convert

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"golang.org/x/image/tiff"
	"golang.org/x/sync/errgroup"

	"github.com/pixelgunstudio/pxtools/internal/config"
	"github.com/pixelgunstudio/pxtools/internal/project"
	"github.com/pixelgunstudio/pxtools/internal/toolexec"
)

// Job converts one CR2 into one TIFF.
type Job struct {
	Source string // CR2 under _acquisition/<take>/
	Target string // TIFF under _acquisition/tiff/<take>/
	Take   string // take directory name
}

// Sidecar returns the XMP path that accompanies the job's source file.
func (j Job) Sidecar() string {
	return strings.TrimSuffix(j.Source, filepath.Ext(j.Source)) + ".xmp"
}

// PlanJobs walks a player's acquisition tree and builds one job per
// CR2. A non-empty pose limits the scope to take directories whose name
// contains it, so both full take names and bare pose codes work.
func PlanJobs(playerDir, pose string) ([]Job, error) {
	acq := project.AcquisitionDir(playerDir)
	entries, err := os.ReadDir(acq)
	if err != nil {
		return nil, fmt.Errorf("read acquisition dir: %w", err)
	}

	var jobs []Job
	for _, e := range entries {
		name := e.Name()
		if !e.IsDir() || name == "tiff" || name == "_thumbs" || strings.HasPrefix(name, ".") {
			continue
		}
		if pose != "" && !strings.Contains(name, pose) {
			continue
		}

		files, err := os.ReadDir(filepath.Join(acq, name))
		if err != nil {
			return nil, fmt.Errorf("read take %s: %w", name, err)
		}
		for _, f := range files {
			if f.IsDir() || !strings.EqualFold(filepath.Ext(f.Name()), ".cr2") {
				continue
			}
			base := strings.TrimSuffix(f.Name(), filepath.Ext(f.Name()))
			jobs = append(jobs, Job{
				Source: filepath.Join(acq, name, f.Name()),
				Target: filepath.Join(project.TiffDir(playerDir), name, base+".tif"),
				Take:   name,
			})
		}
	}
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].Source < jobs[j].Source })
	return jobs, nil
}

// EnsureTargets creates the tiff output directories for a batch.
func EnsureTargets(jobs []Job) error {
	for _, j := range jobs {
		if err := os.MkdirAll(filepath.Dir(j.Target), 0o755); err != nil {
			return fmt.Errorf("create tiff dir: %w", err)
		}
	}
	return nil
}

// ResolveSidecarXMP picks the color-correction sidecar for a run: an
// explicit card date, or the newest card on disk when the date is empty
// or "latest". Every conversion runs under a card; a project with no
// cards is an error, not an ungraded convert.
func ResolveSidecarXMP(l project.Layout, projectName, card string) (string, error) {
	if card == "" || card == "latest" {
		return l.LatestColorCorrectionXMP(projectName)
	}
	xmp := l.ColorCorrectionXMP(projectName, card)
	if _, err := os.Stat(xmp); err != nil {
		return "", fmt.Errorf("color correction card %s: %w", card, err)
	}
	return xmp, nil
}

// WriteSidecars copies the color-correction XMP next to every source
// file so the converter picks up the shoot's grade.
func WriteSidecars(jobs []Job, xmp string) (int, error) {
	written := 0
	for _, j := range jobs {
		if err := project.CopyFile(xmp, j.Sidecar()); err != nil {
			return written, fmt.Errorf("write sidecar for %s: %w", filepath.Base(j.Source), err)
		}
		written++
	}
	return written, nil
}

// RemoveSidecars deletes the XMPs a batch wrote. Missing sidecars are
// fine; a failed run may not have written all of them.
func RemoveSidecars(jobs []Job) error {
	for _, j := range jobs {
		if err := os.Remove(j.Sidecar()); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove sidecar: %w", err)
		}
	}
	return nil
}

// Engine converts a single file.
type Engine interface {
	Convert(ctx context.Context, src, dst string) error
}

// Photoshop converts through the AppleScript bridge.
type Photoshop struct {
	Runner    toolexec.Runner
	Osascript string
	Script    string
}

func (p Photoshop) Convert(ctx context.Context, src, dst string) error {
	return p.Runner.Run(ctx, p.Osascript, p.Script, src, dst)
}

// Darktable converts with darktable-cli, passing the sidecar explicitly
// when one is present.
type Darktable struct {
	Runner toolexec.Runner
	Bin    string
}

func (d Darktable) Convert(ctx context.Context, src, dst string) error {
	xmp := strings.TrimSuffix(src, filepath.Ext(src)) + ".xmp"
	if _, err := os.Stat(xmp); err == nil {
		return d.Runner.Run(ctx, d.Bin, src, xmp, dst)
	}
	return d.Runner.Run(ctx, d.Bin, src, dst)
}

// EngineFor picks the converter for this platform.
func EngineFor(tools config.Tools, r toolexec.Runner) Engine {
	if runtime.GOOS == "darwin" {
		return Photoshop{Runner: r, Osascript: tools.Osascript, Script: tools.ConvertScript}
	}
	return Darktable{Runner: r, Bin: tools.DarktableCLI}
}

// Result is the outcome of one job.
type Result struct {
	Job Job
	Err error
}

// Summary counts a finished batch.
type Summary struct {
	Total  int
	Failed int
}

// RunBatch converts every job through a fixed-size worker pool. Job
// failures never abort the batch; each outcome is handed to onDone (in
// completion order, serialized) and failures are only tallied. Only
// context cancellation stops the batch early.
func RunBatch(ctx context.Context, eng Engine, jobs []Job, workers int, onDone func(Result)) Summary {
	if workers < 1 {
		workers = 1
	}

	var mu sync.Mutex
	failed := 0

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, job := range jobs {
		job := job
		g.Go(func() error {
			err := ctx.Err()
			if err == nil {
				err = eng.Convert(ctx, job.Source, job.Target)
			}
			if err == nil {
				err = VerifyTIFF(job.Target)
			}

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed++
			}
			if onDone != nil {
				onDone(Result{Job: job, Err: err})
			}
			return nil
		})
	}
	_ = g.Wait()

	return Summary{Total: len(jobs), Failed: failed}
}

// VerifyTIFF checks that the converter actually produced a TIFF; the
// GUI tools exit zero and leave garbage behind often enough that the
// extension cannot be trusted.
func VerifyTIFF(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open converted file: %w", err)
	}
	defer f.Close()

	if _, err := tiff.DecodeConfig(f); err != nil {
		return fmt.Errorf("%s is not a TIFF: %w", filepath.Base(path), err)
	}
	return nil
}
