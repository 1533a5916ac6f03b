package proofs

import (
	"fmt"
	"os"

	"github.com/go-pdf/fpdf"
)

// BuildPDF writes the proof sheet: a title page header followed by each
// rendered pose, one to a page row, on 1920x1080pt landscape pages.
// Images that failed to render are simply absent from the sheet.
func BuildPDF(path, title string, images []string) error {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "L",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: 1080, Ht: 1920},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(true, 0)
	pdf.SetTitle(title, false)
	pdf.AddPage()

	pdf.SetFont("Arial", "", 64)
	pdf.CellFormat(1920, 200, title, "", 1, "C", false, 0, "")

	opts := fpdf.ImageOptions{ReadDpi: true}
	for _, img := range images {
		if _, err := os.Stat(img); err != nil {
			continue
		}
		pdf.ImageOptions(img, 0, pdf.GetY(), 0, 0, true, opts, 0, "")
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write proof sheet: %w", err)
	}
	return nil
}
