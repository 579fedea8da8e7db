package review_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/spracknow-droid/PO-Progress-Status/internal/model"
	"github.com/spracknow-droid/PO-Progress-Status/internal/service/excel"
	"github.com/spracknow-droid/PO-Progress-Status/internal/service/review"
)

var fullHeader = []interface{}{"No", "발주번호", "품목", "품목계정그룹", "장부단가", "발주일", "납기예정일", "담당자"}

func TestRun_AllViews(t *testing.T) {
	t.Parallel()

	data := buildUpload(t, fullHeader, [][]interface{}{
		{1, "PO-A", "펌프", "자산공통", 300000, "2025-01-02", "2025-03-01", "김"},
		{2, "PO-B", "장갑", "제조-소모품", 999999, "2025-01-03", "2025-03-02", "이"},
		{3, "PO-C", "센서", "제조-소모품", 1000000, "2025-01-04", "2025-03-03", "박"},
		{4, "PO-D", "기타품", "기타", 50000000, "2025-01-05", "2025-03-04", "최"},
		{5, "PO-E", "설비수리", "제조-수선비", 6000000, "2025-01-06", "2025-03-05", "정"},
	})

	report, err := review.RunBytes("orders.xlsx", data)
	require.NoError(t, err)

	assert.Equal(t, model.UploadStatusOK, report.Status())
	assert.Nil(t, report.Mismatch)
	assert.Equal(t, 5, report.InputRows)
	assert.Equal(t, 8, report.InputColumns)
	assert.Equal(t, []string{"No", "품목", "담당자"}, report.DroppedColumns)
	assert.Equal(t, []string{"발주번호", "품목계정그룹", "장부단가", "발주일", "납기예정일"}, report.Cleaned.Columns)
	assert.Equal(t, 5, report.Cleaned.RowCount(), "scenario D: other groups stay in the cleaned table")

	require.Len(t, report.Views, 3)
	assert.Equal(t, []string{"PO-A"}, firstColumn(report.Views[0].Table))
	assert.Equal(t, []string{"PO-C"}, firstColumn(report.Views[1].Table))
	assert.Equal(t, []string{"PO-E"}, firstColumn(report.Views[2].Table))

	require.Len(t, report.Artifacts, 4)
	wantFiles := []string{
		"구매_발주_정제_데이터.xlsx",
		"고정자산_필터링_데이터.xlsx",
		"100만원_이상_소모품_데이터.xlsx",
		"600만원_이상_수선비_데이터.xlsx",
	}
	for i, a := range report.Artifacts {
		assert.Equal(t, wantFiles[i], a.FileName)
		assert.NotEmpty(t, a.Data)
	}

	repairs, ok := report.Artifact(model.ArtifactHighValueRepairs)
	require.True(t, ok)
	f, err := excelize.OpenReader(bytes.NewReader(repairs.Data))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"고액_수선비"}, f.GetSheetList())
	rows, err := f.GetRows("고액_수선비")
	require.NoError(t, err)
	assert.Equal(t, []string{"발주번호", "품목계정그룹", "장부단가"}, rows[0])
}

func TestRun_MissingPriceColumnFallsBack(t *testing.T) {
	t.Parallel()

	// 缺少 장부단가 时，固定资产视图也不生成
	data := buildUpload(t, []interface{}{"발주번호", "품목계정그룹"}, [][]interface{}{
		{"PO-A", "자산공통"},
	})

	report, err := review.RunBytes("orders.xlsx", data)
	require.NoError(t, err)
	require.NotNil(t, report.Mismatch)
	assert.Equal(t, []string{model.ColumnBookPrice}, report.Mismatch.Missing)
	assert.Equal(t, model.UploadStatusFallback, report.Status())
	assert.Empty(t, report.Views)
	require.Len(t, report.Artifacts, 1)
	assert.Equal(t, model.ArtifactCleaned, report.Artifacts[0].Name)
	assert.Contains(t, report.Mismatch.Warning(), "필터링을 적용할 수 없습니다")
}

func TestRun_MissingBothColumns(t *testing.T) {
	t.Parallel()

	data := buildUpload(t, []interface{}{"No", "발주번호"}, [][]interface{}{
		{1, "PO-A"},
	})

	report, err := review.RunBytes("orders.xlsx", data)
	require.NoError(t, err)
	require.NotNil(t, report.Mismatch)
	assert.Equal(t, model.RequiredColumns, report.Mismatch.Missing)
	assert.Empty(t, report.Views)
	require.Len(t, report.Artifacts, 1)
	assert.Equal(t, "구매_발주_정제_데이터.xlsx", report.Artifacts[0].FileName)
	assert.Equal(t, []string{"발주번호"}, report.Cleaned.Columns)
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	_, err := review.Run("broken.xlsx", bytes.NewReader([]byte("not a workbook")))
	require.Error(t, err)

	var pe *review.ParseError
	require.True(t, errors.As(err, &pe))
	assert.Contains(t, review.UserMessage(err), "파일을 읽거나 처리하는 중 오류가 발생했습니다")
}

func TestRun_Deterministic(t *testing.T) {
	t.Parallel()

	data := buildUpload(t, fullHeader, [][]interface{}{
		{1, "PO-A", "펌프", "자산공통", 300000, "2025-01-02", "2025-03-01", "김"},
		{2, "PO-C", "센서", "제조-소모품", 1000000, "2025-01-04", "2025-03-03", "박"},
	})

	a, err := review.RunBytes("orders.xlsx", data)
	require.NoError(t, err)
	b, err := review.RunBytes("orders.xlsx", data)
	require.NoError(t, err)

	require.Len(t, b.Artifacts, len(a.Artifacts))
	for i := range a.Artifacts {
		assert.True(t, bytes.Equal(a.Artifacts[i].Data, b.Artifacts[i].Data), a.Artifacts[i].FileName)
	}
}

func TestRun_CleanedExportRoundTrip(t *testing.T) {
	t.Parallel()

	data := buildUpload(t, fullHeader, [][]interface{}{
		{1, "PO-A", "펌프", "자산공통", 300000, "2025-01-02", "2025-03-01", "김"},
	})
	report, err := review.RunBytes("orders.xlsx", data)
	require.NoError(t, err)

	cleaned, ok := report.Artifact(model.ArtifactCleaned)
	require.True(t, ok)
	reloaded, err := excel.LoadBytes(cleaned.Data)
	require.NoError(t, err)
	assert.Equal(t, report.Cleaned.Columns, reloaded.Table.Columns)
	assert.Equal(t, report.Cleaned.TextRows(0), reloaded.Table.TextRows(0))
}

func buildUpload(t *testing.T, header []interface{}, rows [][]interface{}) []byte {
	t.Helper()

	wb := excelize.NewFile()
	defer wb.Close()
	require.NoError(t, wb.SetSheetRow("Sheet1", "A1", &header))
	for i, row := range rows {
		row := row
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		require.NoError(t, wb.SetSheetRow("Sheet1", cell, &row))
	}
	buf, err := wb.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func firstColumn(t *model.Table) []string {
	out := make([]string, 0, t.RowCount())
	for _, r := range t.Rows {
		out = append(out, r[0].Text)
	}
	return out
}
