package model

import (
	"fmt"
	"strings"
)

// 业务相关列名
const (
	ColumnAccountGroup = "품목계정그룹" // 品目会计科目组
	ColumnBookPrice    = "장부단가"   // 账面单价
	ColumnOrderDate    = "발주일"    // 下单日期
	ColumnDueDate      = "납기예정일"  // 预计交货日期
)

// DroppedColumns 上传后统一删除的列（不存在则忽略）
var DroppedColumns = []string{
	"No", "순번", "납품", "발주유형", "구매그룹", "예산단위", "예산계정", "라인유형", "계정범주", "품목", "품목그룹",
	"품목규격", "통화", "환율", "단가", "금액", "세무구분", "부가세", "전자결재상태", "발주상태", "가입고수량",
	"입고수량", "송장수량", "저장위치", "공장", "담당자", "요청결재문서번호", "요청번호", "요청순번", "요청일",
	"귀속부서", "요청자", "요청자부서",
}

// RequiredColumns 执行任意规则前必须同时存在的列
var RequiredColumns = []string{ColumnAccountGroup, ColumnBookPrice}

// RuleID 规则标识
type RuleID string

const (
	RuleFixedAssets          RuleID = "fixed_assets"
	RuleHighValueConsumables RuleID = "high_value_consumables"
	RuleHighValueRepairs     RuleID = "high_value_repairs"
)

// Rule 过滤规则：分类列取值集合 + 可选数值下限（>=）+ 过滤后删除的列
type Rule struct {
	ID          RuleID   `json:"id"`
	Title       string   `json:"title"`
	Column      string   `json:"column"`
	Groups      []string `json:"groups"`
	PriceColumn string   `json:"priceColumn,omitempty"`
	MinPrice    int64    `json:"minPrice,omitempty"` // 0 表示不限制
	DropColumns []string `json:"dropColumns,omitempty"`

	SheetName     string `json:"sheetName"`
	FileName      string `json:"fileName"`
	DownloadLabel string `json:"downloadLabel"`
}

// HasThreshold 是否带数值条件
func (r Rule) HasThreshold() bool {
	return r.PriceColumn != "" && r.MinPrice > 0
}

// InGroup 分类值是否在规则集合中
func (r Rule) InGroup(v string) bool {
	for _, g := range r.Groups {
		if g == v {
			return true
		}
	}
	return false
}

// Description 页面上展示的规则说明
func (r Rule) Description() string {
	groups := strings.Join(r.Groups, ", ")
	if !r.HasThreshold() {
		return fmt.Sprintf("'%s' 그룹에 해당하는 데이터만 표시됩니다.", groups)
	}
	return fmt.Sprintf("'%s' 그룹 중 %s가 %s 이상인 데이터만 표시됩니다.", groups, r.PriceColumn, formatManwon(r.MinPrice))
}

// formatManwon 以“万원”为单位显示金额，如 1000000 -> 100만원
func formatManwon(v int64) string {
	if v%10000 == 0 {
		return fmt.Sprintf("%d만원", v/10000)
	}
	return fmt.Sprintf("%d원", v)
}

// Rules 三个固定规则，顺序即页面展示顺序
var Rules = []Rule{
	{
		ID:            RuleFixedAssets,
		Title:         "고정자산 구매 발주 진행 현황",
		Column:        ColumnAccountGroup,
		Groups:        []string{"자산공통", "고정자산-건설중인자산(캐니스터)"},
		SheetName:     "고정자산",
		FileName:      "고정자산_필터링_데이터.xlsx",
		DownloadLabel: "고정자산 데이터 다운로드 (XLSX)",
	},
	{
		ID:            RuleHighValueConsumables,
		Title:         "100만원 이상 소모품 구매 현황",
		Column:        ColumnAccountGroup,
		Groups:        []string{"제조-소모품", "경상개발비-연구소모품"},
		PriceColumn:   ColumnBookPrice,
		MinPrice:      1000000,
		DropColumns:   []string{ColumnOrderDate, ColumnDueDate},
		SheetName:     "고액_소모품_수선비",
		FileName:      "100만원_이상_소모품_데이터.xlsx",
		DownloadLabel: "100만원 이상 소모품 데이터 다운로드 (XLSX)",
	},
	{
		ID:            RuleHighValueRepairs,
		Title:         "600만원 이상 수선비 현황",
		Column:        ColumnAccountGroup,
		Groups:        []string{"제조-수선비", "제조-검교정수수료(생산)", "경상개발비-수선비"},
		PriceColumn:   ColumnBookPrice,
		MinPrice:      6000000,
		DropColumns:   []string{ColumnOrderDate, ColumnDueDate},
		SheetName:     "고액_수선비",
		FileName:      "600만원_이상_수선비_데이터.xlsx",
		DownloadLabel: "600만원 이상 수선비 데이터 다운로드 (XLSX)",
	},
}

// RuleByID 按标识查找规则
func RuleByID(id RuleID) (Rule, bool) {
	for _, r := range Rules {
		if r.ID == id {
			return r, true
		}
	}
	return Rule{}, false
}
