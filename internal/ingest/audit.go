package ingest

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rwcarlsen/goexif/exif"
)

// Mismatch is a file whose EXIF capture date disagrees with the shoot
// day it was ingested under.
type Mismatch struct {
	Path     string
	Captured time.Time
}

// auditExts are the file types worth probing for EXIF data. CR2 files
// carry a TIFF header goexif can usually read.
var auditExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".cr2":  true,
	".tif":  true,
	".tiff": true,
}

// AuditCaptureDates walks dir and compares each image's EXIF capture
// date against the shoot date. Files without readable EXIF are skipped;
// the trailer's backup rigs strip metadata often enough that a missing
// tag means nothing.
func AuditCaptureDates(dir string, shotOn time.Time) ([]Mismatch, error) {
	var mismatches []Mismatch
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		if !auditExts[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		captured, ok := captureTime(path)
		if !ok {
			return nil
		}
		if !sameDay(captured, shotOn) {
			mismatches = append(mismatches, Mismatch{Path: path, Captured: captured})
		}
		return nil
	})
	return mismatches, err
}

func captureTime(path string) (time.Time, bool) {
	f, err := os.Open(path)
	if err != nil {
		return time.Time{}, false
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return time.Time{}, false
	}
	t, err := x.DateTime()
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
