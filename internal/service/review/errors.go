package review

import (
	"fmt"
	"strings"

	"github.com/spracknow-droid/PO-Progress-Status/internal/model"
	"github.com/spracknow-droid/PO-Progress-Status/internal/service/excel"
)

// ParseError 文件解析失败，本次上传终止
type ParseError = excel.ParseError

// SchemaMismatch 清洗后缺少规则所需的列；不致命，仅提供清洗数据
type SchemaMismatch struct {
	Missing []string `json:"missing"`
}

func (m *SchemaMismatch) Error() string {
	return fmt.Sprintf("required columns missing: %s", strings.Join(m.Missing, ", "))
}

// Warning 页面上展示的提示
func (m *SchemaMismatch) Warning() string {
	return fmt.Sprintf("데이터에 '%s' 또는 '%s' 컬럼이 없어 필터링을 적용할 수 없습니다.",
		model.ColumnAccountGroup, model.ColumnBookPrice)
}

// UserMessage 将解析失败转换为用户可读的信息
func UserMessage(err error) string {
	return "파일을 읽거나 처리하는 중 오류가 발생했습니다: " + err.Error()
}
