package v1

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/NatsionalnoeDostoyanie/glass-rus-test/internal/exporter"
	"github.com/NatsionalnoeDostoyanie/glass-rus-test/internal/importer"
	"github.com/NatsionalnoeDostoyanie/glass-rus-test/internal/model"
	"github.com/NatsionalnoeDostoyanie/glass-rus-test/internal/obs"
	"github.com/NatsionalnoeDostoyanie/glass-rus-test/internal/parser"
)

const (
	contentTypeXLSX      = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	clientExportFilename = "client_catalog.xlsx"
)

// Health 健康检查
// GET /api/health
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// FullExport 全量导出
// POST /api/pricelist/full (multipart: file)
func (h *Handler) FullExport(c *gin.Context) {
	res, ok := h.process(c)
	if !ok {
		return
	}

	data, err := exporter.EncodeFullJSON(res.Priced)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	setReportHeaders(c, res)
	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}

// ClientExport 客户价目表导出
// POST /api/pricelist/client (multipart: file)
func (h *Handler) ClientExport(c *gin.Context) {
	res, ok := h.process(c)
	if !ok {
		return
	}

	data, err := exporter.EncodeClientWorkbook(res.Client, h.pipeline.ClientColumns)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	setReportHeaders(c, res)
	c.Header("Content-Disposition", buildContentDisposition(clientExportFilename))
	c.Data(http.StatusOK, contentTypeXLSX, data)
}

// process 读取上传的工作簿并执行流程；失败时已写出错误响应
func (h *Handler) process(c *gin.Context) (*importer.Result, bool) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "未找到上传文件"})
		return nil, false
	}

	src, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "读取上传文件失败"})
		return nil, false
	}
	defer src.Close()

	wb, err := parser.ReadWorkbook(src)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	defer wb.Close()

	res, err := importer.NewCoordinator(h.pipeline).Process(wb)
	if err != nil {
		obs.Logger.Warn("pricelist_rejected", "filename", fileHeader.Filename, "error", err)
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return nil, false
	}
	return res, true
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, model.ErrStructural),
		errors.Is(err, model.ErrPriceFormat),
		errors.Is(err, model.ErrCategoryConfig):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func setReportHeaders(c *gin.Context, res *importer.Result) {
	c.Header("X-Glassprice-Run-Id", res.RunID)
	c.Header("X-Glassprice-Records", strconv.Itoa(len(res.Priced)))
	c.Header("X-Glassprice-Client-Records", strconv.Itoa(len(res.Client)))
	if res.Report != nil {
		c.Header("X-Glassprice-Dropped-Rows", strconv.Itoa(res.Report.DroppedRows))
	}
}

func buildContentDisposition(filename string) string {
	return fmt.Sprintf("attachment; filename=%q; filename*=UTF-8''%s", filename, url.PathEscape(filename))
}
