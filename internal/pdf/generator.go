package pdf

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/nurpe/collection-calendar/internal/model"
)

const (
	fontName = "Helvetica"

	pageMargin = 15.0
	cellHeight = 22.0
	chipHeight = 4.5
)

var (
	weekdayLabels = []string{"Segunda", "Terça", "Quarta", "Quinta", "Sexta", "Sábado", "Domingo"}
	monthLabels   = []string{"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
		"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro"}
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

func (g *Generator) Generate(doc model.CalendarDocument) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont(fontName, "B", 16)
	pdf.CellFormat(0, 10, tr(fmt.Sprintf("Calendário de recolha - %s", doc.Zone.DisplayName(doc.Language))), "", 1, "C", false, 0, "")
	pdf.SetFont(fontName, "", 12)
	pdf.CellFormat(0, 7, tr(monthTitle(doc.From)), "", 1, "C", false, 0, "")
	pdf.Ln(3)

	pageWidth, _ := pdf.GetPageSize()
	colWidth := (pageWidth - 2*pageMargin) / 7

	pdf.SetFont(fontName, "B", 10)
	pdf.SetFillColor(229, 231, 235)
	for _, label := range weekdayLabels {
		pdf.CellFormat(colWidth, 7, tr(label), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	if len(doc.Days) > 0 {
		drawGrid(pdf, tr, doc, colWidth)
	}

	if len(doc.Upcoming) > 0 {
		pdf.Ln(4)
		pdf.SetFont(fontName, "B", 12)
		pdf.CellFormat(0, 8, tr("Próximas recolhas"), "", 1, "L", false, 0, "")
		pdf.SetFont(fontName, "", 10)
		for _, item := range doc.Upcoming {
			line := fmt.Sprintf("%s: %s", item.GarbageType.DisplayName(doc.Language), formatDate(item.Date))
			pdf.CellFormat(0, 6, tr(line), "", 1, "L", false, 0, "")
		}
	}

	pdf.Ln(2)
	pdf.SetFont(fontName, "I", 8)
	pdf.SetTextColor(107, 114, 128)
	pdf.CellFormat(0, 5, tr(fmt.Sprintf("Gerado em %s", doc.GeneratedAt.Format("02/01/2006 15:04"))), "", 1, "R", false, 0, "")
	pdf.SetTextColor(0, 0, 0)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func drawGrid(pdf *gofpdf.Fpdf, tr func(string) string, doc model.CalendarDocument, colWidth float64) {
	originX, originY := pdf.GetXY()
	offset := mondayOffset(doc.Days[0].Date)
	rows := (offset + len(doc.Days) + 6) / 7

	for row := 0; row < rows; row++ {
		for col := 0; col < 7; col++ {
			pdf.Rect(originX+float64(col)*colWidth, originY+float64(row)*cellHeight, colWidth, cellHeight, "D")
		}
	}

	for i, day := range doc.Days {
		pos := offset + i
		x := originX + float64(pos%7)*colWidth
		y := originY + float64(pos/7)*cellHeight

		pdf.SetFont(fontName, "B", 10)
		pdf.SetXY(x+1, y+1)
		pdf.CellFormat(colWidth-2, 4, strconv.Itoa(day.Date.Day()), "", 0, "L", false, 0, "")

		pdf.SetFont(fontName, "", 7)
		chipY := y + 6
		for _, gt := range day.GarbageTypes {
			if chipY+chipHeight > y+cellHeight {
				break
			}
			r, gr, b := hexToRGB(gt.ColorHex)
			pdf.SetFillColor(r, gr, b)
			pdf.SetTextColor(255, 255, 255)
			pdf.SetXY(x+1, chipY)
			pdf.CellFormat(colWidth-2, chipHeight, tr(gt.DisplayName(doc.Language)), "", 0, "L", true, 0, "")
			chipY += chipHeight + 0.5
		}
		pdf.SetTextColor(0, 0, 0)
	}

	pdf.SetXY(originX, originY+float64(rows)*cellHeight)
}

func hexToRGB(hex string) (int, int, int) {
	value := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(value) != 6 {
		return 107, 114, 128
	}
	n, err := strconv.ParseUint(value, 16, 32)
	if err != nil {
		return 107, 114, 128
	}
	return int(n >> 16 & 0xff), int(n >> 8 & 0xff), int(n & 0xff)
}

func monthTitle(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return fmt.Sprintf("%s %d", monthLabels[t.Month()-1], t.Year())
}

func mondayOffset(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("02/01/2006")
}
