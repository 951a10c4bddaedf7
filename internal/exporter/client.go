package exporter

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/NatsionalnoeDostoyanie/glass-rus-test/internal/model"
)

// ClientSheetName 客户导出的工作表名
const ClientSheetName = "Sheet1"

// BuildClientWorkbook 生成客户价目表：首行表头，无行索引列
func BuildClientWorkbook(records []model.ClientRecord, columns []string) (*excelize.File, error) {
	f := excelize.NewFile()

	header := make([]interface{}, len(columns))
	for i, col := range columns {
		header[i] = col
	}
	if err := f.SetSheetRow(ClientSheetName, "A1", &header); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("写入表头失败: %w", err)
	}

	for i, r := range records {
		row := make([]interface{}, len(columns))
		for j, col := range columns {
			v, err := r.Field(col)
			if err != nil {
				_ = f.Close()
				return nil, err
			}
			// 空文本留空单元格
			if s, ok := v.(string); ok && s == "" {
				v = nil
			}
			row[j] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			_ = f.Close()
			return nil, err
		}
		if err := f.SetSheetRow(ClientSheetName, cell, &row); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("写入第 %d 行失败: %w", i+2, err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err == nil {
		_ = f.SetRowStyle(ClientSheetName, 1, 1, headerStyle)
	}

	lastCol, err := excelize.ColumnNumberToName(len(columns))
	if err == nil {
		_ = f.SetColWidth(ClientSheetName, "A", lastCol, 18)
	}

	return f, nil
}

// EncodeClientWorkbook 生成客户价目表的 xlsx 内容
func EncodeClientWorkbook(records []model.ClientRecord, columns []string) ([]byte, error) {
	f, err := BuildClientWorkbook(records, columns)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode client workbook: %w", err)
	}
	return buf.Bytes(), nil
}
