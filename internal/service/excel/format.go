package excel

import (
	"github.com/gabriel-vasile/mimetype"
)

// Format 上传文件格式
type Format string

const (
	FormatXLSX    Format = "xlsx"
	FormatXLS     Format = "xls"
	FormatUnknown Format = "unknown"
)

const (
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	mimeXLS  = "application/vnd.ms-excel"
	mimeZip  = "application/zip"
	mimeOLE  = "application/x-ole-storage"
)

// DetectFormat 根据文件内容识别格式（不依赖扩展名）
func DetectFormat(data []byte) (Format, string) {
	mt := mimetype.Detect(data)
	for m := mt; m != nil; m = m.Parent() {
		switch {
		case m.Is(mimeXLSX):
			return FormatXLSX, mt.String()
		case m.Is(mimeXLS):
			return FormatXLS, mt.String()
		case m.Is(mimeZip):
			// 部分 ERP 导出的 xlsx 文件条目顺序不标准，按 zip 尝试
			return FormatXLSX, mt.String()
		case m.Is(mimeOLE):
			return FormatXLS, mt.String()
		}
	}
	return FormatUnknown, mt.String()
}
