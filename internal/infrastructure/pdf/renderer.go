package pdf

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"

	"WeeklyWatch/internal/report"
)

const (
	lineHeight  = 6.0
	fieldIndent = 6.0
)

// Renderer lays out a report document as an A4 PDF using the core
// Helvetica font with a cp1252 translator for accented text.
type Renderer struct {
	Author string
}

var _ report.Renderer = Renderer{}

func (Renderer) Extension() string { return "pdf" }

func (r Renderer) Render(doc report.Document, w io.Writer) error {
	f := fpdf.New("P", "mm", "A4", "")
	tr := f.UnicodeTranslatorFromDescriptor("")

	f.SetTitle(doc.Title, true)
	if r.Author != "" {
		f.SetAuthor(r.Author, true)
	}
	f.SetCreationDate(doc.GeneratedAt)
	f.SetModificationDate(doc.GeneratedAt)
	f.SetCatalogSort(true)
	f.SetAutoPageBreak(true, 15)
	f.AliasNbPages("")
	f.SetFooterFunc(func() {
		f.SetY(-12)
		f.SetFont("Helvetica", "I", 8)
		f.CellFormat(0, 8, fmt.Sprintf("%d/{nb}", f.PageNo()), "", 0, "C", false, 0, "")
	})

	f.AddPage()
	f.SetFont("Helvetica", "B", 16)
	f.CellFormat(0, 10, tr(doc.Title), "", 1, "C", false, 0, "")
	f.Ln(4)

	for _, section := range doc.Sections {
		f.SetFont("Helvetica", "B", 13)
		f.CellFormat(0, 9, tr(section.Heading), "B", 1, "L", false, 0, "")
		f.Ln(2)

		if len(section.Entries) == 0 {
			f.SetFont("Helvetica", "I", 10)
			f.MultiCell(0, lineHeight, tr(section.Empty), "", "L", false)
			f.Ln(4)
			continue
		}

		for _, entry := range section.Entries {
			f.SetFont("Helvetica", "B", 11)
			f.MultiCell(0, lineHeight, tr(entry.Headline), "", "L", false)
			f.SetFont("Helvetica", "", 10)
			for _, field := range entry.Fields {
				f.SetX(f.GetX() + fieldIndent)
				f.MultiCell(0, lineHeight, tr(fmt.Sprintf("%s: %s", field.Label, field.Value)), "", "L", false)
			}
			f.Ln(2)
		}
		f.Ln(3)
	}

	if err := f.Error(); err != nil {
		return fmt.Errorf("layout pdf: %w", err)
	}
	if err := f.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}
