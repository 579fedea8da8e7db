package review

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/spracknow-droid/PO-Progress-Status/internal/model"
)

// Apply 按规则过滤：分类列取值属于规则集合，且（若有数值条件）数值列 >= 下限
// 数值缺失或无法解析的行视为不满足条件；过滤后删除规则指定的列
func Apply(t *model.Table, rule model.Rule) *model.Table {
	floor := decimal.NewFromInt(rule.MinPrice)

	out := t.Select(func(rec map[string]model.Cell) bool {
		group, ok := rec[rule.Column]
		if !ok || !rule.InGroup(group.Text) {
			return false
		}
		if !rule.HasThreshold() {
			return true
		}
		price, ok := NumericValue(rec[rule.PriceColumn])
		if !ok {
			return false
		}
		return price.GreaterThanOrEqual(floor)
	})

	if len(rule.DropColumns) > 0 {
		out = out.DropColumns(rule.DropColumns...)
	}
	return out
}

// NumericValue 取单元格数值；文本单元格允许千分位逗号和首尾空白
func NumericValue(c model.Cell) (decimal.Decimal, bool) {
	switch c.Kind {
	case model.CellNumber:
		return decimal.NewFromFloat(c.Number), true
	case model.CellString:
		s := strings.ReplaceAll(strings.TrimSpace(c.Text), ",", "")
		if s == "" {
			return decimal.Decimal{}, false
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Decimal{}, false
		}
		return d, true
	default:
		return decimal.Decimal{}, false
	}
}

// MissingColumns 返回执行规则所需但表中缺失的列
func MissingColumns(t *model.Table) []string {
	missing := make([]string, 0, len(model.RequiredColumns))
	for _, col := range model.RequiredColumns {
		if !t.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	return missing
}
