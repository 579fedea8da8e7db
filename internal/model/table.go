package model

import "time"

// CellKind 单元格值类型
type CellKind int

const (
	CellEmpty  CellKind = iota // 空单元格
	CellString                 // 文本
	CellNumber                 // 数值
	CellBool                   // 布尔
	CellDate                   // 日期/时间
)

func (k CellKind) String() string {
	switch k {
	case CellString:
		return "string"
	case CellNumber:
		return "number"
	case CellBool:
		return "bool"
	case CellDate:
		return "date"
	default:
		return "empty"
	}
}

// Cell 单元格
// Text 始终保存表格中显示的文本，Number/Bool/Time 按 Kind 取值
type Cell struct {
	Kind   CellKind  `json:"kind"`
	Text   string    `json:"text"`
	Number float64   `json:"number,omitempty"`
	Bool   bool      `json:"bool,omitempty"`
	Time   time.Time `json:"time,omitempty"`
}

// StringCell 构造文本单元格，空串视为空单元格
func StringCell(s string) Cell {
	if s == "" {
		return Cell{}
	}
	return Cell{Kind: CellString, Text: s}
}

// NumberCell 构造数值单元格
func NumberCell(v float64, text string) Cell {
	return Cell{Kind: CellNumber, Number: v, Text: text}
}

// IsEmpty 是否为空单元格
func (c Cell) IsEmpty() bool {
	return c.Kind == CellEmpty
}

// Value 返回写入 Excel 时使用的值
func (c Cell) Value() interface{} {
	switch c.Kind {
	case CellNumber:
		return c.Number
	case CellBool:
		return c.Bool
	case CellDate:
		return c.Time
	case CellString:
		return c.Text
	default:
		return nil
	}
}

// Row 一行数据，与 Table.Columns 按位置对齐
type Row []Cell

// Table 行式表格
// 列顺序用于展示和导出，不影响过滤语义
type Table struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// NewTable 创建空表
func NewTable(columns []string) *Table {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Table{Columns: cols, Rows: []Row{}}
}

// ColumnIndex 返回列下标，不存在返回 -1
func (t *Table) ColumnIndex(name string) int {
	for i, col := range t.Columns {
		if col == name {
			return i
		}
	}
	return -1
}

// HasColumn 是否包含指定列
func (t *Table) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// RowCount 行数
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// Record 以列名为键返回一行
func (t *Table) Record(row int) map[string]Cell {
	rec := make(map[string]Cell, len(t.Columns))
	for i, col := range t.Columns {
		if i < len(t.Rows[row]) {
			rec[col] = t.Rows[row][i]
		} else {
			rec[col] = Cell{}
		}
	}
	return rec
}

// AppendRow 追加一行，长度不足时补空单元格
func (t *Table) AppendRow(row Row) {
	if len(row) < len(t.Columns) {
		padded := make(Row, len(t.Columns))
		copy(padded, row)
		row = padded
	} else if len(row) > len(t.Columns) {
		row = row[:len(t.Columns)]
	}
	t.Rows = append(t.Rows, row)
}

// DropColumns 返回去掉指定列后的新表，不存在的列忽略
func (t *Table) DropColumns(names ...string) *Table {
	drop := make(map[string]struct{}, len(names))
	for _, n := range names {
		drop[n] = struct{}{}
	}

	keep := make([]int, 0, len(t.Columns))
	cols := make([]string, 0, len(t.Columns))
	for i, col := range t.Columns {
		if _, ok := drop[col]; ok {
			continue
		}
		keep = append(keep, i)
		cols = append(cols, col)
	}

	out := &Table{Columns: cols, Rows: make([]Row, 0, len(t.Rows))}
	for _, r := range t.Rows {
		nr := make(Row, len(keep))
		for j, idx := range keep {
			if idx < len(r) {
				nr[j] = r[idx]
			}
		}
		out.Rows = append(out.Rows, nr)
	}
	return out
}

// Select 返回满足条件的行组成的新表
func (t *Table) Select(keep func(rec map[string]Cell) bool) *Table {
	out := NewTable(t.Columns)
	for i, r := range t.Rows {
		if !keep(t.Record(i)) {
			continue
		}
		nr := make(Row, len(r))
		copy(nr, r)
		out.Rows = append(out.Rows, nr)
	}
	return out
}

// TextRows 以文本形式返回所有行（用于页面展示）
func (t *Table) TextRows(limit int) [][]string {
	n := len(t.Rows)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([][]string, 0, n)
	for _, r := range t.Rows[:n] {
		line := make([]string, len(t.Columns))
		for i := range t.Columns {
			if i < len(r) {
				line[i] = r[i].Text
			}
		}
		out = append(out, line)
	}
	return out
}
