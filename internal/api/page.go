package api

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templateFS embed.FS

// PageTitle 页面标题
const PageTitle = "구매 발주 진행 현황"

// Templates 解析内嵌的页面模板
func Templates() *template.Template {
	return template.Must(template.New("").Funcs(template.FuncMap{
		"thousands": func(n int) string { return humanize.Comma(int64(n)) },
		"filesize":  func(n int) string { return humanize.IBytes(uint64(n)) },
	}).ParseFS(templateFS, "templates/*.html"))
}

type pageData struct {
	Title     string
	Error     string
	Report    *ReportResponse
	MaxUpload string
}

// Index 首页：未上传时显示使用说明，否则展示处理结果或错误
// GET /
func (h *Handler) Index(c *gin.Context) {
	sid := h.session(c)
	data := pageData{
		Title:     PageTitle,
		MaxUpload: humanize.IBytes(uint64(h.cfg.Upload.MaxBytes)),
	}
	if sess, ok := h.sessions.Get(sid); ok {
		data.Error = sess.Error
		if sess.Report != nil {
			data.Report = newReportResponse(sess.Report, h.cfg.Display.MaxRows)
		}
	}
	c.HTML(http.StatusOK, "index.html", data)
}
