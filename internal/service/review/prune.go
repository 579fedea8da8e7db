package review

import "github.com/spracknow-droid/PO-Progress-Status/internal/model"

// Prune 删除固定黑名单中的列，黑名单里不存在于表中的列直接忽略
// 返回新表，行数与行顺序不变
func Prune(t *model.Table) *model.Table {
	return t.DropColumns(model.DroppedColumns...)
}

// prunedColumns 返回表中实际被删除的列
func prunedColumns(t *model.Table) []string {
	out := make([]string, 0, len(model.DroppedColumns))
	for _, col := range model.DroppedColumns {
		if t.HasColumn(col) {
			out = append(out, col)
		}
	}
	return out
}
