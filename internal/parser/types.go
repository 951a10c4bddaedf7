package parser

import "time"

// ParseResult 单个工作表的加载结果
type ParseResult struct {
	SheetName    string        `json:"sheetName"`
	Catalog      string        `json:"catalog"`
	Status       string        `json:"status"` // imported/error
	TotalRows    int           `json:"totalRows"`
	ImportedRows int           `json:"importedRows"`
	DroppedRows  int           `json:"droppedRows"` // 缺少必填字段被丢弃的行
	Errors       []string      `json:"errors,omitempty"`
	Duration     time.Duration `json:"duration"`
}

// ImportReport 工作簿加载报告
type ImportReport struct {
	Filename     string        `json:"filename"`
	TotalSheets  int           `json:"totalSheets"`
	TotalRows    int           `json:"totalRows"`
	ImportedRows int           `json:"importedRows"`
	DroppedRows  int           `json:"droppedRows"`
	Duration     time.Duration `json:"duration"`
	Sheets       []ParseResult `json:"sheets"`
}

// Add 汇总单个工作表结果
func (r *ImportReport) Add(res ParseResult) {
	r.TotalSheets++
	r.TotalRows += res.TotalRows
	r.ImportedRows += res.ImportedRows
	r.DroppedRows += res.DroppedRows
	r.Sheets = append(r.Sheets, res)
}
