package excel

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"github.com/spracknow-droid/PO-Progress-Status/internal/model"
)

// Loaded 加载结果
type Loaded struct {
	Table     *model.Table
	Format    Format
	MIME      string
	SheetName string
	Sheets    []string
}

// LoadBytes 读取上传文件的第一个工作表，首行作为列名
func LoadBytes(data []byte) (*Loaded, error) {
	if len(data) == 0 {
		return nil, parseErr("빈 파일입니다", nil)
	}

	format, mime := DetectFormat(data)
	var (
		loaded *Loaded
		err    error
	)
	switch format {
	case FormatXLSX:
		loaded, err = loadXLSX(data)
	case FormatXLS:
		loaded, err = loadXLS(data)
	default:
		return nil, parseErr("지원하지 않는 파일 형식입니다 ("+mime+")", nil)
	}
	if err != nil {
		return nil, err
	}
	loaded.Format = format
	loaded.MIME = mime
	return loaded, nil
}

func loadXLSX(data []byte) (*Loaded, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, parseErr("엑셀 파일을 열 수 없습니다", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, parseErr("워크시트가 없습니다", nil)
	}
	sheet := sheets[0]

	formatted, err := f.GetRows(sheet)
	if err != nil {
		return nil, parseErr("워크시트를 읽을 수 없습니다", err)
	}
	raw, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, parseErr("워크시트를 읽을 수 없습니다", err)
	}
	if len(formatted) == 0 || isBlankLine(formatted[0]) {
		return nil, parseErr("머리글 행이 없습니다", nil)
	}

	table := model.NewTable(buildHeader(formatted[0], maxWidth(formatted)))
	for i := 1; i < len(formatted); i++ {
		row := make(model.Row, len(table.Columns))
		blank := true
		for c := range table.Columns {
			text := at(formatted[i], c)
			rawText := text
			if i < len(raw) {
				rawText = at(raw[i], c)
			}
			cell, err := xlsxCell(f, sheet, c+1, i+1, text, rawText)
			if err != nil {
				return nil, parseErr(fmt.Sprintf("%d행을 읽을 수 없습니다", i+1), err)
			}
			if !cell.IsEmpty() {
				blank = false
			}
			row[c] = cell
		}
		if blank {
			continue
		}
		table.AppendRow(row)
	}

	return &Loaded{Table: table, SheetName: sheet, Sheets: sheets}, nil
}

// xlsxCell 根据单元格类型和显示文本推断值类型
func xlsxCell(f *excelize.File, sheet string, col, row int, text, raw string) (model.Cell, error) {
	if text == "" && raw == "" {
		return model.Cell{}, nil
	}
	// 显示文本与原始值一致且不是数值时只可能是文本，不必查询单元格类型
	if text == raw {
		if _, err := strconv.ParseFloat(raw, 64); err != nil {
			return model.StringCell(text), nil
		}
	}

	axis, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return model.Cell{}, err
	}
	typ, err := f.GetCellType(sheet, axis)
	if err != nil {
		return model.Cell{}, err
	}

	switch typ {
	case excelize.CellTypeBool:
		return model.Cell{Kind: model.CellBool, Bool: raw == "1" || strings.EqualFold(raw, "true"), Text: text}, nil
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeError:
		return model.StringCell(text), nil
	case excelize.CellTypeDate:
		if ts, ok := parseDateText(raw); ok {
			return model.Cell{Kind: model.CellDate, Time: ts, Text: text}, nil
		}
		return model.StringCell(text), nil
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return model.StringCell(text), nil
	}
	if text != raw && looksLikeDate(text) {
		ts, err := excelize.ExcelDateToTime(v, false)
		if err == nil {
			return model.Cell{Kind: model.CellDate, Time: ts, Text: text}, nil
		}
	}
	return model.NumberCell(v, text), nil
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006/01/02",
	"2006.01.02",
	"01-02-06",
	"1/2/06",
	"1/2/2006",
	"1/2/06 15:04",
	"01-02-06 15:04",
	time.RFC3339,
}

func parseDateText(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

func looksLikeDate(s string) bool {
	_, ok := parseDateText(s)
	return ok
}

func loadXLS(data []byte) (loaded *Loaded, err error) {
	// xls 解析库遇到损坏的 BIFF 记录会 panic
	defer func() {
		if r := recover(); r != nil {
			loaded = nil
			err = parseErr("xls 파일을 해석할 수 없습니다", fmt.Errorf("%v", r))
		}
	}()

	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, parseErr("xls 파일을 열 수 없습니다", err)
	}
	if wb == nil {
		return nil, parseErr("xls 파일을 열 수 없습니다", errors.New("workbook stream not found"))
	}
	if wb.NumSheets() == 0 {
		return nil, parseErr("워크시트가 없습니다", nil)
	}
	ws := wb.GetSheet(0)
	if ws == nil {
		return nil, parseErr("워크시트를 읽을 수 없습니다", errors.New("sheet 0 is nil"))
	}

	lines := make([][]string, 0, int(ws.MaxRow)+1)
	for i := 0; i <= int(ws.MaxRow); i++ {
		r := sheetRow(ws, i)
		if r == nil {
			lines = append(lines, nil)
			continue
		}
		line := make([]string, r.LastCol())
		for c := r.FirstCol(); c < r.LastCol(); c++ {
			line[c] = r.Col(c)
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 || isBlankLine(lines[0]) {
		return nil, parseErr("머리글 행이 없습니다", nil)
	}

	table := model.NewTable(buildHeader(lines[0], maxWidth(lines)))
	for _, line := range lines[1:] {
		if isBlankLine(line) {
			continue
		}
		row := make(model.Row, len(table.Columns))
		for c := range table.Columns {
			row[c] = xlsCell(at(line, c))
		}
		table.AppendRow(row)
	}

	sheets := make([]string, 0, wb.NumSheets())
	for i := 0; i < wb.NumSheets(); i++ {
		sheets = append(sheets, wb.GetSheet(i).Name)
	}
	return &Loaded{Table: table, SheetName: ws.Name, Sheets: sheets}, nil
}

// sheetRow 取一行，没有任何记录的行返回 nil
func sheetRow(ws *xls.WorkSheet, i int) (r *xls.Row) {
	// 行不存在时 WorkSheet.Row 会解引用空指针
	defer func() {
		if recover() != nil {
			r = nil
		}
	}()
	return ws.Row(i)
}

// xlsCell xls 日期以 RFC3339 文本给出，展示时只保留日期部分
func xlsCell(text string) model.Cell {
	cell := textCell(text)
	if cell.Kind == model.CellDate && strings.Contains(text, "T") {
		if cell.Time.Hour() == 0 && cell.Time.Minute() == 0 && cell.Time.Second() == 0 {
			cell.Text = cell.Time.Format("2006-01-02")
		} else {
			cell.Text = cell.Time.Format("2006-01-02 15:04:05")
		}
	}
	return cell
}

// textCell 仅有显示文本时的类型推断
func textCell(text string) model.Cell {
	if text == "" {
		return model.Cell{}
	}
	if v, err := strconv.ParseFloat(text, 64); err == nil {
		return model.NumberCell(v, text)
	}
	if ts, ok := parseDateText(text); ok {
		return model.Cell{Kind: model.CellDate, Time: ts, Text: text}
	}
	return model.StringCell(text)
}

func at(line []string, i int) string {
	if i < len(line) {
		return line[i]
	}
	return ""
}

func maxWidth(lines [][]string) int {
	w := 0
	for _, l := range lines {
		// 末尾空单元格不计入宽度
		n := len(l)
		for n > 0 && strings.TrimSpace(l[n-1]) == "" {
			n--
		}
		if n > w {
			w = n
		}
	}
	return w
}

func isBlankLine(line []string) bool {
	for _, v := range line {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
