package render

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
	"github.com/rotisserie/eris"
)

// Page layout in points (A4 landscape)
const (
	pdfMargin     = 48.0
	pdfLineFactor = 1.35
	pdfIndent     = 22.0
	pdfFont       = "Helvetica"
)

// WritePDF renders deck as a PDF, one landscape page per slide
func WritePDF(deck Deck, w io.Writer) error {
	if len(deck.Slides) == 0 {
		return eris.New("deck has no slides")
	}

	doc := fpdf.New("L", "pt", "A4", "")
	doc.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	doc.SetAutoPageBreak(true, pdfMargin)
	doc.SetTitle(deck.Title, true)
	doc.SetCreator("cimbrief", true)
	if !deck.GeneratedAt.IsZero() {
		doc.SetCreationDate(deck.GeneratedAt)
	}

	r := &pdfRenderer{doc: doc, tr: doc.UnicodeTranslatorFromDescriptor("")}
	for _, s := range deck.Slides {
		r.slide(s)
	}

	if err := doc.Error(); err != nil {
		return eris.Wrap(err, "layout pdf")
	}
	if err := doc.Output(w); err != nil {
		return eris.Wrap(err, "write pdf")
	}
	return nil
}

type pdfRenderer struct {
	doc *fpdf.Fpdf
	tr  func(string) string
}

func (r *pdfRenderer) slide(s Slide) {
	r.doc.AddPage()
	pageW, pageH := r.doc.GetPageSize()

	if s.Kind == SlideCover {
		r.doc.SetY(pageH / 3)
		r.paragraph(s.Title, "C", 0)
		r.doc.Ln(12)
		for _, p := range s.Subtitle {
			r.paragraph(p, "C", 0)
		}
		return
	}

	r.paragraph(s.Title, "L", 0)
	r.doc.SetDrawColor(79, 129, 189)
	r.doc.Line(pdfMargin, r.doc.GetY()+4, pageW-pdfMargin, r.doc.GetY()+4)
	r.doc.Ln(16)

	number := 0
	for _, p := range s.Body {
		if p.Kind == ParagraphNumbered {
			number++
		} else {
			number = 0
		}
		r.paragraph(p, "L", number)
	}
}

// paragraph writes p; number is the list position for numbered paragraphs
func (r *pdfRenderer) paragraph(p Paragraph, align string, number int) {
	size := float64(p.Size)
	if size == 0 {
		size = BodyFontSize
	}
	style := ""
	if p.Bold {
		style += "B"
	}
	if p.Italic {
		style += "I"
	}
	r.doc.SetFont(pdfFont, style, size)
	lineH := size * pdfLineFactor

	switch p.Kind {
	case ParagraphBlank:
		r.doc.Ln(lineH / 2)
		return
	case ParagraphBullet, ParagraphNumbered:
		marker := "•"
		if p.Kind == ParagraphNumbered {
			marker = fmt.Sprintf("%d.", number)
		}
		left, _, right, _ := r.doc.GetMargins()
		pageW, _ := r.doc.GetPageSize()
		r.doc.SetX(left)
		r.doc.CellFormat(pdfIndent, lineH, r.tr(marker), "", 0, "L", false, 0, "")
		r.doc.MultiCell(pageW-left-right-pdfIndent, lineH, r.tr(p.Text), "", "L", false)
	default:
		r.doc.MultiCell(0, lineH, r.tr(p.Text), "", align, false)
	}
	r.doc.Ln(size * 0.3)
}
