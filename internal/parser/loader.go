package parser

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/NatsionalnoeDostoyanie/glass-rus-test/internal/model"
)

// LoadOptions 工作表加载参数
type LoadOptions struct {
	HeadersRowNumber int                         // 表头所在行（从 0 开始），之前的行为标题/图例
	ColumnTypes      map[string]model.ColumnType // 未列出的列按 auto 推断
	FieldEveryRowHas string                      // 必填字段，为空的行被丢弃
	RequiredColumns  []string                    // 保留的列及其顺序
	SheetCatalogs    map[string]string           // 工作表 → 目录标签
}

// SheetLoader 价目表工作表加载器
type SheetLoader struct {
	file *excelize.File
	opts LoadOptions
}

// NewSheetLoader 创建加载器
func NewSheetLoader(file *excelize.File, opts LoadOptions) *SheetLoader {
	return &SheetLoader{
		file: file,
		opts: opts,
	}
}

// OpenWorkbook 打开工作簿文件，调用方负责 Close
func OpenWorkbook(path string) (*excelize.File, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	return f, nil
}

// ReadWorkbook 从流中读取工作簿，调用方负责 Close
func ReadWorkbook(r io.Reader) (*excelize.File, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	return f, nil
}

// LoadSheets 按给定顺序加载多个工作表
func (l *SheetLoader) LoadSheets(sheetNames []string) ([]*model.SheetTable, *ImportReport, error) {
	start := time.Now()
	report := &ImportReport{
		Filename: l.file.Path,
		Sheets:   make([]ParseResult, 0, len(sheetNames)),
	}

	tables := make([]*model.SheetTable, 0, len(sheetNames))
	for _, name := range sheetNames {
		table, res, err := l.LoadSheet(name)
		report.Add(res)
		if err != nil {
			report.Duration = time.Since(start)
			return nil, report, err
		}
		tables = append(tables, table)
	}

	report.Duration = time.Since(start)
	return tables, report, nil
}

// LoadSheet 加载单个工作表
func (l *SheetLoader) LoadSheet(sheetName string) (*model.SheetTable, ParseResult, error) {
	start := time.Now()
	res := ParseResult{SheetName: sheetName, Status: "error"}
	fail := func(err error) (*model.SheetTable, ParseResult, error) {
		res.Errors = append(res.Errors, err.Error())
		res.Duration = time.Since(start)
		return nil, res, err
	}

	catalog, ok := l.opts.SheetCatalogs[sheetName]
	if !ok {
		return fail(model.Structuralf(sheetName, "no catalog label configured"))
	}
	res.Catalog = catalog

	idx, err := l.file.GetSheetIndex(sheetName)
	if err != nil || idx < 0 {
		return fail(model.Structuralf(sheetName, "sheet not found in workbook"))
	}

	rows, err := l.file.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return fail(fmt.Errorf("failed to read sheet %q: %w", sheetName, err))
	}

	headerRow := l.opts.HeadersRowNumber
	if headerRow >= len(rows) {
		return fail(model.Structuralf(sheetName, "header row %d not found (sheet has %d rows)", headerRow, len(rows)))
	}

	colIndex := buildColumnIndex(rows[headerRow])
	positions := make([]int, len(l.opts.RequiredColumns))
	var missing []string
	for i, col := range l.opts.RequiredColumns {
		pos, ok := colIndex[NormalizeColumnName(col)]
		if !ok {
			missing = append(missing, col)
			continue
		}
		positions[i] = pos
	}
	if len(missing) > 0 {
		return fail(model.Structuralf(sheetName, "missing required columns %v", missing))
	}

	keyPos, ok := colIndex[NormalizeColumnName(l.opts.FieldEveryRowHas)]
	if !ok {
		return fail(model.Structuralf(sheetName, "missing mandatory column %q", l.opts.FieldEveryRowHas))
	}

	table := &model.SheetTable{
		SheetName: sheetName,
		Catalog:   catalog,
		Columns:   append([]string(nil), l.opts.RequiredColumns...),
	}

	for rowIdx := headerRow + 1; rowIdx < len(rows); rowIdx++ {
		row := rows[rowIdx]
		res.TotalRows++

		// 跳过空行、小计行等没有必填字段的行
		if strings.TrimSpace(cellAt(row, keyPos)) == "" {
			res.DroppedRows++
			continue
		}

		cells := make(map[string]model.Cell, len(l.opts.RequiredColumns))
		for i, col := range l.opts.RequiredColumns {
			cells[col] = l.coerceCell(col, cellAt(row, positions[i]))
		}
		table.Rows = append(table.Rows, model.Row{
			RowNo: rowIdx + 1,
			Cells: cells,
		})
	}

	res.Status = "imported"
	res.ImportedRows = len(table.Rows)
	res.Duration = time.Since(start)
	return table, res, nil
}

// coerceCell 按列类型转换单元格
func (l *SheetLoader) coerceCell(column, raw string) model.Cell {
	typ, ok := l.opts.ColumnTypes[column]
	if !ok {
		typ = model.ColumnTypeAuto
	}

	if typ == model.ColumnTypeString {
		return model.TextCell(raw)
	}
	if v, ok := ParseNumber(raw); ok {
		return model.NumberCell(raw, v)
	}
	return model.TextCell(raw)
}

// buildColumnIndex 规范化表头 → 列索引，重复列名取第一次出现的位置
func buildColumnIndex(header []string) map[string]int {
	colIndex := make(map[string]int, len(header))
	for i, col := range header {
		name := NormalizeColumnName(col)
		if name == "" {
			continue
		}
		if _, exists := colIndex[name]; !exists {
			colIndex[name] = i
		}
	}
	return colIndex
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
