package api

import (
	"fmt"
	"time"

	"github.com/spracknow-droid/PO-Progress-Status/internal/model"
	"github.com/spracknow-droid/PO-Progress-Status/internal/service/review"
)

// TableResponse 页面/接口中展示的表格（文本形式）
type TableResponse struct {
	Columns   []string   `json:"columns"`
	Rows      [][]string `json:"rows"`
	TotalRows int        `json:"totalRows"`
	Truncated bool       `json:"truncated"`
}

// ArtifactResponse 下载文件信息
type ArtifactResponse struct {
	model.ArtifactInfo
	URL string `json:"url"`
}

// ViewResponse 单个规则的过滤结果
type ViewResponse struct {
	ID          model.RuleID     `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Table       TableResponse    `json:"table"`
	Download    ArtifactResponse `json:"download"`
}

// ReportResponse 一次上传的处理结果
type ReportResponse struct {
	RunID          string             `json:"runId"`
	FileName       string             `json:"fileName"`
	Format         string             `json:"format"`
	MIME           string             `json:"mime"`
	SheetName      string             `json:"sheetName"`
	IgnoredSheets  []string           `json:"ignoredSheets"`
	Status         string             `json:"status"`
	InputRows      int                `json:"inputRows"`
	InputColumns   int                `json:"inputColumns"`
	DroppedColumns []string           `json:"droppedColumns"`
	Warning        string             `json:"warning,omitempty"`
	MissingColumns []string           `json:"missingColumns,omitempty"`
	CleanedTitle   string             `json:"cleanedTitle"`
	Cleaned        TableResponse      `json:"cleaned"`
	CleanedFile    ArtifactResponse   `json:"cleanedFile"`
	Views          []ViewResponse     `json:"views"`
	Artifacts      []ArtifactResponse `json:"artifacts"`
	CreatedAt      time.Time          `json:"createdAt"`
}

// newReportResponse 转换处理结果，每个表最多展示 maxRows 行（<=0 不限制）
func newReportResponse(r *review.Report, maxRows int) *ReportResponse {
	resp := &ReportResponse{
		RunID:          r.RunID,
		FileName:       r.FileName,
		Format:         string(r.Format),
		MIME:           r.MIME,
		SheetName:      r.SheetName,
		IgnoredSheets:  []string{},
		Status:         r.Status(),
		InputRows:      r.InputRows,
		InputColumns:   r.InputColumns,
		DroppedColumns: r.DroppedColumns,
		CleanedTitle:   model.CleanedTitle,
		Cleaned:        newTableResponse(r.Cleaned, maxRows),
		Views:          []ViewResponse{},
		Artifacts:      make([]ArtifactResponse, 0, len(r.Artifacts)),
		CreatedAt:      r.CreatedAt,
	}
	// 只处理第一个工作表，其余的在页面上提示
	if len(r.Sheets) > 1 {
		resp.IgnoredSheets = r.Sheets[1:]
	}
	if resp.DroppedColumns == nil {
		resp.DroppedColumns = []string{}
	}
	if r.Mismatch != nil {
		resp.Warning = r.Mismatch.Warning()
		resp.MissingColumns = r.Mismatch.Missing
	}

	for _, a := range r.Artifacts {
		resp.Artifacts = append(resp.Artifacts, newArtifactResponse(a.ArtifactInfo))
	}
	if a, ok := r.Artifact(model.ArtifactCleaned); ok {
		resp.CleanedFile = newArtifactResponse(a.ArtifactInfo)
	}

	for _, v := range r.Views {
		view := ViewResponse{
			ID:          v.Rule.ID,
			Title:       v.Rule.Title,
			Description: v.Rule.Description(),
			Table:       newTableResponse(v.Table, maxRows),
		}
		if a, ok := r.Artifact(model.ArtifactName(v.Rule.ID)); ok {
			view.Download = newArtifactResponse(a.ArtifactInfo)
		}
		resp.Views = append(resp.Views, view)
	}
	return resp
}

func newTableResponse(t *model.Table, maxRows int) TableResponse {
	if t == nil {
		return TableResponse{Columns: []string{}, Rows: [][]string{}}
	}
	rows := t.TextRows(maxRows)
	return TableResponse{
		Columns:   t.Columns,
		Rows:      rows,
		TotalRows: t.RowCount(),
		Truncated: len(rows) < t.RowCount(),
	}
}

func newArtifactResponse(info model.ArtifactInfo) ArtifactResponse {
	return ArtifactResponse{
		ArtifactInfo: info,
		URL:          downloadURL(info.Name),
	}
}

func downloadURL(name model.ArtifactName) string {
	return fmt.Sprintf("/api/download/%s", name)
}
