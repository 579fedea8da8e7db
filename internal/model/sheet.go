package model

// ArtifactName 可下载文件标识
type ArtifactName string

const (
	ArtifactCleaned              ArtifactName = "cleaned"
	ArtifactFixedAssets          ArtifactName = ArtifactName(RuleFixedAssets)
	ArtifactHighValueConsumables ArtifactName = ArtifactName(RuleHighValueConsumables)
	ArtifactHighValueRepairs     ArtifactName = ArtifactName(RuleHighValueRepairs)
)

// 全量清洗数据的导出信息
const (
	CleanedTitle         = "정제 데이터프레임"
	CleanedSheetName     = "Sheet1"
	CleanedFileName      = "구매_발주_정제_데이터.xlsx"
	CleanedDownloadLabel = "전체 정제 데이터 다운로드 (XLSX)"
)

// XLSXContentType xlsx 下载的 MIME 类型
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ArtifactInfo 可下载文件的元信息（不含内容）
type ArtifactInfo struct {
	Name      ArtifactName `json:"name"`
	FileName  string       `json:"fileName"`
	SheetName string       `json:"sheetName"`
	Label     string       `json:"label"`
	RowCount  int          `json:"rowCount"`
	Size      int          `json:"size"`
}
