package review

import (
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/spracknow-droid/PO-Progress-Status/internal/model"
	"github.com/spracknow-droid/PO-Progress-Status/internal/service/excel"
)

// View 一个规则对应的过滤结果
type View struct {
	Rule  model.Rule   `json:"rule"`
	Table *model.Table `json:"table"`
}

// Artifact 可下载的 xlsx 文件
type Artifact struct {
	model.ArtifactInfo
	Data []byte `json:"-"`
}

// Report 一次上传的处理结果
// Mismatch 非空时 Views 为空，只提供清洗数据
type Report struct {
	RunID          string          `json:"runId"`
	FileName       string          `json:"fileName"`
	Format         excel.Format    `json:"format"`
	MIME           string          `json:"mime"`
	SheetName      string          `json:"sheetName"`
	Sheets         []string        `json:"sheets"`
	InputRows      int             `json:"inputRows"`
	InputColumns   int             `json:"inputColumns"`
	DroppedColumns []string        `json:"droppedColumns"`
	Cleaned        *model.Table    `json:"-"`
	Views          []View          `json:"-"`
	Mismatch       *SchemaMismatch `json:"mismatch,omitempty"`
	Artifacts      []Artifact      `json:"artifacts"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// Status ok / fallback
func (r *Report) Status() string {
	if r.Mismatch != nil {
		return model.UploadStatusFallback
	}
	return model.UploadStatusOK
}

// Artifact 按名称查找下载文件
func (r *Report) Artifact(name model.ArtifactName) (Artifact, bool) {
	for _, a := range r.Artifacts {
		if a.Name == name {
			return a, true
		}
	}
	return Artifact{}, false
}

// Run 读取文件并执行完整流程：加载 -> 删列 -> 三个规则 -> 导出
// 返回的 error 为 *ParseError 时表示文件本身无法处理；
// 其他 error 说明导出阶段出现了不应发生的问题
func Run(fileName string, r io.Reader) (*Report, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &ParseError{Reason: "파일을 읽을 수 없습니다", Err: err}
	}
	return RunBytes(fileName, data)
}

// RunBytes 同 Run，直接接收文件内容
func RunBytes(fileName string, data []byte) (*Report, error) {
	loaded, err := excel.LoadBytes(data)
	if err != nil {
		return nil, err
	}

	report := &Report{
		RunID:          uuid.New().String(),
		FileName:       fileName,
		Format:         loaded.Format,
		MIME:           loaded.MIME,
		SheetName:      loaded.SheetName,
		Sheets:         loaded.Sheets,
		InputRows:      loaded.Table.RowCount(),
		InputColumns:   len(loaded.Table.Columns),
		DroppedColumns: prunedColumns(loaded.Table),
		Cleaned:        Prune(loaded.Table),
		CreatedAt:      time.Now(),
	}

	if err := report.addArtifact(model.ArtifactInfo{
		Name:      model.ArtifactCleaned,
		FileName:  model.CleanedFileName,
		SheetName: model.CleanedSheetName,
		Label:     model.CleanedDownloadLabel,
	}, report.Cleaned); err != nil {
		return nil, err
	}

	// 两列需同时存在才执行任何规则，缺一则整体降级
	if missing := MissingColumns(report.Cleaned); len(missing) > 0 {
		report.Mismatch = &SchemaMismatch{Missing: missing}
		return report, nil
	}

	for _, rule := range model.Rules {
		view := View{Rule: rule, Table: Apply(report.Cleaned, rule)}
		report.Views = append(report.Views, view)
		if err := report.addArtifact(model.ArtifactInfo{
			Name:      model.ArtifactName(rule.ID),
			FileName:  rule.FileName,
			SheetName: rule.SheetName,
			Label:     rule.DownloadLabel,
		}, view.Table); err != nil {
			return nil, err
		}
	}

	return report, nil
}

func (r *Report) addArtifact(info model.ArtifactInfo, t *model.Table) error {
	data, err := excel.Export(t, info.SheetName)
	if err != nil {
		return fmt.Errorf("export %s: %w", info.Name, err)
	}
	info.RowCount = t.RowCount()
	info.Size = len(data)
	r.Artifacts = append(r.Artifacts, Artifact{ArtifactInfo: info, Data: data})
	return nil
}
