package excel

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"github.com/xuri/excelize/v2"

	"github.com/spracknow-droid/PO-Progress-Status/internal/model"
)

const (
	maxSheetNameLen = 31
	minColWidth     = 8
	maxColWidth     = 50
	dateNumFmt      = "yyyy-mm-dd"
)

// Export 将表格导出为 xlsx：首行为列名，保持列顺序和行顺序，不输出索引列
func Export(t *model.Table, sheetName string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := SanitizeSheetName(sheetName)
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	// 表头
	header := make([]interface{}, len(t.Columns))
	for i, col := range t.Columns {
		header[i] = col
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}
	dateFmt := dateNumFmt
	dateStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &dateFmt})
	if err != nil {
		return nil, fmt.Errorf("create date style: %w", err)
	}

	if len(t.Columns) > 0 {
		if err := f.SetRowStyle(sheet, 1, 1, headerStyle); err != nil {
			return nil, fmt.Errorf("set header style: %w", err)
		}
	}

	// 数据
	for i, r := range t.Rows {
		rowNum := i + 2
		values := make([]interface{}, len(t.Columns))
		for c := range t.Columns {
			if c < len(r) {
				values[c] = r[c].Value()
			}
		}
		cell, _ := excelize.CoordinatesToCellName(1, rowNum)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, fmt.Errorf("write row %d: %w", rowNum, err)
		}
		for c := range t.Columns {
			if c >= len(r) || r[c].Kind != model.CellDate {
				continue
			}
			axis, _ := excelize.CoordinatesToCellName(c+1, rowNum)
			if err := f.SetCellStyle(sheet, axis, axis, dateStyle); err != nil {
				return nil, fmt.Errorf("set date style %s: %w", axis, err)
			}
		}
	}

	// 冻结表头
	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("freeze header: %w", err)
	}

	// 列宽
	for c, w := range columnWidths(t) {
		name, _ := excelize.ColumnNumberToName(c + 1)
		if err := f.SetColWidth(sheet, name, name, w); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", name, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// SanitizeSheetName 处理 Excel 工作表名限制：不超过 31 个字符，且不含 : \ / ? * [ ]
func SanitizeSheetName(name string) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '_'
		}
		return r
	}, strings.TrimSpace(name))
	name = strings.Trim(name, "'")

	if utf8.RuneCountInString(name) > maxSheetNameLen {
		name = string([]rune(name)[:maxSheetNameLen])
	}
	if name == "" {
		return model.CleanedSheetName
	}
	return name
}

// widthCond 歧义宽度字符按半角计算，不受运行环境 locale 影响
var widthCond = &runewidth.Condition{EastAsianWidth: false}

// columnWidths 按内容估算列宽，全角字符按 2 计
func columnWidths(t *model.Table) []float64 {
	widths := make([]float64, len(t.Columns))
	for c, col := range t.Columns {
		widths[c] = float64(widthCond.StringWidth(col))
	}
	for _, r := range t.Rows {
		for c := range t.Columns {
			if c >= len(r) {
				continue
			}
			if w := float64(widthCond.StringWidth(r[c].Text)); w > widths[c] {
				widths[c] = w
			}
		}
	}
	for c := range widths {
		widths[c] += 2
		if widths[c] < minColWidth {
			widths[c] = minColWidth
		}
		if widths[c] > maxColWidth {
			widths[c] = maxColWidth
		}
	}
	return widths
}
