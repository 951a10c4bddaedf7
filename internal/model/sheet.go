package model

import "strings"

// ColumnType 列的加载类型（dtype）
type ColumnType string

const (
	// ColumnTypeString 强制按文本读取，保留前导零与字母数字编码
	ColumnTypeString ColumnType = "string"
	// ColumnTypeAuto 按单元格内容推断：可解析为数字则为数值，否则为文本
	ColumnTypeAuto ColumnType = "auto"
)

// Valid 是否为受支持的列类型
func (t ColumnType) Valid() bool {
	return t == ColumnTypeString || t == ColumnTypeAuto
}

// CellKind 单元格值类别
type CellKind int

const (
	CellEmpty CellKind = iota
	CellText
	CellNumber
)

// Cell 加载后的单元格
//
// Text 始终保存原始文本；Kind == CellNumber 时 Number 为解析后的数值。
type Cell struct {
	Text   string   `json:"text"`
	Number float64  `json:"number,omitempty"`
	Kind   CellKind `json:"kind"`
}

// TextCell 构造文本单元格（空白文本视为空单元格）
func TextCell(text string) Cell {
	if strings.TrimSpace(text) == "" {
		return Cell{Text: text, Kind: CellEmpty}
	}
	return Cell{Text: text, Kind: CellText}
}

// NumberCell 构造数值单元格
func NumberCell(text string, number float64) Cell {
	return Cell{Text: text, Number: number, Kind: CellNumber}
}

// IsEmpty 单元格是否为空
func (c Cell) IsEmpty() bool {
	return c.Kind == CellEmpty
}

// Row 加载阶段的一行：列名 → 单元格，列顺序由所属 SheetTable.Columns 决定
type Row struct {
	RowNo int             `json:"rowNo"` // Excel 行号（从 1 开始）
	Cells map[string]Cell `json:"cells"`
}

// Get 取列值，缺失列返回空单元格
func (r Row) Get(column string) Cell {
	if c, ok := r.Cells[column]; ok {
		return c
	}
	return Cell{}
}

// SheetTable 单个工作表的加载结果
type SheetTable struct {
	SheetName string   `json:"sheetName"`
	Catalog   string   `json:"catalog"`
	Columns   []string `json:"columns"`
	Rows      []Row    `json:"rows"`
}
