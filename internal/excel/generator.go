package excel

import (
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/nurpe/collection-calendar/internal/model"
)

const (
	calendarSheet = "Calendario"
	listSheet     = "Recolhas"
	upcomingSheet = "Proximas"

	gridHeaderRow = 4
)

var weekdayLabels = []string{"Seg", "Ter", "Qua", "Qui", "Sex", "Sáb", "Dom"}

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

func (g *Generator) Generate(doc model.CalendarDocument) ([]byte, error) {
	file := excelize.NewFile()
	defer file.Close()

	file.SetSheetName("Sheet1", calendarSheet)
	if err := g.writeGrid(file, doc); err != nil {
		return nil, err
	}

	if _, err := file.NewSheet(listSheet); err != nil {
		return nil, err
	}
	if err := g.writeList(file, doc); err != nil {
		return nil, err
	}

	if _, err := file.NewSheet(upcomingSheet); err != nil {
		return nil, err
	}
	if err := g.writeUpcoming(file, doc); err != nil {
		return nil, err
	}

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) writeGrid(file *excelize.File, doc model.CalendarDocument) error {
	sheet := calendarSheet
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("A1", "Zona")
	set("B1", doc.Zone.DisplayName(doc.Language))
	set("A2", "Período")
	set("B2", fmt.Sprintf("%s - %s", formatDate(doc.From), formatDate(doc.To)))

	headerStyle, err := file.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return err
	}
	for i, label := range weekdayLabels {
		cell, _ := excelize.CoordinatesToCellName(i+1, gridHeaderRow)
		set(cell, label)
		_ = file.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	plainStyle, err := file.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
	})
	if err != nil {
		return err
	}
	styles := map[string]int{}

	if len(doc.Days) == 0 {
		return nil
	}
	offset := mondayOffset(doc.Days[0].Date)
	lastRow := gridHeaderRow
	for i, day := range doc.Days {
		pos := offset + i
		row := gridHeaderRow + 1 + pos/7
		cell, _ := excelize.CoordinatesToCellName(1+pos%7, row)

		lines := []string{fmt.Sprintf("%d", day.Date.Day())}
		for _, gt := range day.GarbageTypes {
			lines = append(lines, gt.DisplayName(doc.Language))
		}
		set(cell, strings.Join(lines, "\n"))

		style := plainStyle
		if len(day.GarbageTypes) > 0 {
			style, err = colorStyle(file, styles, day.GarbageTypes[0].ColorHex)
			if err != nil {
				return err
			}
		}
		_ = file.SetCellStyle(sheet, cell, cell, style)
		lastRow = row
	}

	for row := gridHeaderRow + 1; row <= lastRow; row++ {
		_ = file.SetRowHeight(sheet, row, 60)
	}
	_ = file.SetColWidth(sheet, "A", "G", 18)
	return nil
}

func (g *Generator) writeList(file *excelize.File, doc model.CalendarDocument) error {
	sheet := listSheet
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("A1", "Data")
	set("B1", "Dia")
	set("C1", "Tipos de resíduo")

	row := 2
	for _, day := range doc.Days {
		if len(day.GarbageTypes) == 0 {
			continue
		}
		names := make([]string, 0, len(day.GarbageTypes))
		for _, gt := range day.GarbageTypes {
			names = append(names, gt.DisplayName(doc.Language))
		}
		set(fmt.Sprintf("A%d", row), formatDate(day.Date))
		set(fmt.Sprintf("B%d", row), weekdayLabels[mondayOffset(day.Date)])
		set(fmt.Sprintf("C%d", row), strings.Join(names, ", "))
		row++
	}

	_ = file.SetColWidth(sheet, "A", "A", 14)
	_ = file.SetColWidth(sheet, "B", "B", 8)
	_ = file.SetColWidth(sheet, "C", "C", 45)
	return nil
}

func (g *Generator) writeUpcoming(file *excelize.File, doc model.CalendarDocument) error {
	sheet := upcomingSheet
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("A1", "Tipo de resíduo")
	set("B1", "Próxima recolha")
	for i, item := range doc.Upcoming {
		row := i + 2
		set(fmt.Sprintf("A%d", row), item.GarbageType.DisplayName(doc.Language))
		set(fmt.Sprintf("B%d", row), formatDate(item.Date))
	}

	_ = file.SetColWidth(sheet, "A", "A", 32)
	_ = file.SetColWidth(sheet, "B", "B", 16)
	return nil
}

func colorStyle(file *excelize.File, cache map[string]int, hex string) (int, error) {
	color := strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(hex), "#"))
	if len(color) != 6 {
		color = "E5E7EB"
	}
	if id, ok := cache[color]; ok {
		return id, nil
	}
	id, err := file.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
	})
	if err != nil {
		return 0, err
	}
	cache[color] = id
	return id, nil
}

// mondayOffset is 0 for Monday through 6 for Sunday.
func mondayOffset(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006")
}
