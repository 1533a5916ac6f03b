package project

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func mkdirs(t *testing.T, paths ...string) {
	t.Helper()
	for _, p := range paths {
		if err := os.MkdirAll(p, 0o755); err != nil {
			t.Fatalf("MkdirAll(%s): %v", p, err)
		}
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile(%s): %v", path, err)
	}
}

func TestList_SkipsTemplatesAndSystemEntries(t *testing.T) {
	root := t.TempDir()
	mkdirs(t,
		filepath.Join(root, "2K_1018_NBA2K21"),
		filepath.Join(root, "2K_1019_NBA2K22"),
		filepath.Join(root, "_XX_XXXX_JobTemplate"),
		filepath.Join(root, ".DS_Store"),
	)
	writeFile(t, filepath.Join(root, "Thumbs.db"), "")

	l := Layout{Projects: root}
	got, err := l.List()
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(got) != 2 || got[0] != "2K_1018_NBA2K21" || got[1] != "2K_1019_NBA2K22" {
		t.Fatalf("List = %v, want the two projects", got)
	}
}

func TestScaffoldPlayer_CopiesTemplateAndSubdirs(t *testing.T) {
	template := t.TempDir()
	writeFile(t, filepath.Join(template, "_settings", "defaults.json"), "{}")

	playerDir := filepath.Join(t.TempDir(), "carbonel_ray")
	l := Layout{Template: template}
	if err := l.ScaffoldPlayer(playerDir); err != nil {
		t.Fatalf("ScaffoldPlayer returned error: %v", err)
	}

	if _, err := os.Stat(filepath.Join(playerDir, "_settings", "defaults.json")); err != nil {
		t.Fatalf("template file not copied: %v", err)
	}
	for _, sub := range PlayerSubdirs {
		if info, err := os.Stat(filepath.Join(playerDir, sub)); err != nil || !info.IsDir() {
			t.Fatalf("subdir %s missing after scaffold: %v", sub, err)
		}
	}
}

func TestScaffoldPlayer_ExistingDirKept(t *testing.T) {
	playerDir := t.TempDir()
	writeFile(t, filepath.Join(playerDir, "keep.txt"), "data")

	l := Layout{Template: t.TempDir()}
	if err := l.ScaffoldPlayer(playerDir); err != nil {
		t.Fatalf("ScaffoldPlayer returned error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(playerDir, "keep.txt")); err != nil {
		t.Fatalf("existing file lost: %v", err)
	}
}

func TestPoses_PrefersTiffTree(t *testing.T) {
	playerDir := t.TempDir()
	mkdirs(t,
		filepath.Join(playerDir, "_acquisition", "01_12_2020_jefferson_amile_neutral_tk1"),
		filepath.Join(playerDir, "_acquisition", "tiff", "01_12_2020_jefferson_amile_neutral_tk1"),
		filepath.Join(playerDir, "_acquisition", "_thumbs"),
	)

	poses, fromTiff, err := Poses(playerDir)
	if err != nil {
		t.Fatalf("Poses returned error: %v", err)
	}
	if !fromTiff {
		t.Fatalf("fromTiff = false, want true when tiff tree exists")
	}
	if len(poses) != 1 || filepath.Base(poses[0]) != "01_12_2020_jefferson_amile_neutral_tk1" {
		t.Fatalf("Poses = %v, want the tiff pose", poses)
	}
}

func TestPoses_FallsBackToAcquisition(t *testing.T) {
	playerDir := t.TempDir()
	mkdirs(t,
		filepath.Join(playerDir, "_acquisition", "01_12_2020_jefferson_amile_neutral_tk1"),
		filepath.Join(playerDir, "_acquisition", "01_12_2020_jefferson_amile_smile_tk2"),
		filepath.Join(playerDir, "_acquisition", "_thumbs"),
	)

	poses, fromTiff, err := Poses(playerDir)
	if err != nil {
		t.Fatalf("Poses returned error: %v", err)
	}
	if fromTiff {
		t.Fatalf("fromTiff = true, want false without a tiff tree")
	}
	if len(poses) != 2 {
		t.Fatalf("Poses = %v, want 2 poses (no _thumbs)", poses)
	}
}

func TestLatestColorCorrectionXMP(t *testing.T) {
	root := t.TempDir()
	l := Layout{Projects: root}

	old := filepath.Join(root, "job", "Source_Pixelgun", "Color_Correction", "01_03_2020")
	recent := filepath.Join(root, "job", "Source_Pixelgun", "Color_Correction", "02_14_2020")
	mkdirs(t, old, recent)

	past := time.Now().Add(-24 * time.Hour)
	if err := os.Chtimes(old, past, past); err != nil {
		t.Fatalf("Chtimes: %v", err)
	}

	got, err := l.LatestColorCorrectionXMP("job")
	if err != nil {
		t.Fatalf("LatestColorCorrectionXMP returned error: %v", err)
	}
	want := filepath.Join(recent, "02_14_2020_cc.xmp")
	if got != want {
		t.Fatalf("LatestColorCorrectionXMP = %q, want %q", got, want)
	}
}

func TestMove_FileAndDirectory(t *testing.T) {
	src := filepath.Join(t.TempDir(), "take")
	writeFile(t, filepath.Join(src, "A001_C042.CR2"), "raw")

	dst := filepath.Join(t.TempDir(), "_acquisition", "01_12_2020_take")
	if err := Move(src, dst); err != nil {
		t.Fatalf("Move returned error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dst, "A001_C042.CR2")); err != nil {
		t.Fatalf("moved file missing: %v", err)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Fatalf("source still exists after Move")
	}
}
