package importer

import (
	"github.com/NatsionalnoeDostoyanie/glass-rus-test/internal/model"
)

// UnifyOptions 合并参数
type UnifyOptions struct {
	ColumnsToRename  map[string]string // 源列名 → 规范字段名
	WholesaleColumn  string            // 批发价原始列，不重命名
	FixedPriceColumn string            // 固定价原始列，不重命名
}

type assignFunc func(r *model.UnifiedRecord, c model.Cell)

// Unify 按工作表枚举顺序拼接各表，并将源列名映射到规范字段
//
// 不排序、不去重：同一商品出现在两个工作表时产生两条记录（目录不同）。
func Unify(tables []*model.SheetTable, opts UnifyOptions) ([]model.UnifiedRecord, error) {
	total := 0
	for _, t := range tables {
		total += len(t.Rows)
	}
	records := make([]model.UnifiedRecord, 0, total)

	for _, table := range tables {
		plan, err := buildAssignPlan(table, opts)
		if err != nil {
			return nil, err
		}

		for _, row := range table.Rows {
			rec := model.UnifiedRecord{
				SourceSheet: table.SheetName,
				RowNo:       row.RowNo,
				Catalog:     table.Catalog,
			}
			for i, col := range table.Columns {
				plan[i](&rec, row.Get(col))
			}
			records = append(records, rec)
		}
	}

	return records, nil
}

// buildAssignPlan 为表的每一列确定写入的字段
func buildAssignPlan(table *model.SheetTable, opts UnifyOptions) ([]assignFunc, error) {
	plan := make([]assignFunc, len(table.Columns))
	var hasWholesale, hasFixed bool

	for i, col := range table.Columns {
		switch col {
		case opts.WholesaleColumn:
			hasWholesale = true
			plan[i] = func(r *model.UnifiedRecord, c model.Cell) { r.WholesaleRaw = c }
			continue
		case opts.FixedPriceColumn:
			hasFixed = true
			plan[i] = func(r *model.UnifiedRecord, c model.Cell) { r.FixedPrice = c }
			continue
		}

		target, ok := opts.ColumnsToRename[col]
		if !ok {
			return nil, model.Structuralf(table.SheetName, "column %q has no rename entry", col)
		}
		assign := assignByField(target)
		if assign == nil {
			return nil, model.Structuralf(table.SheetName, "column %q renamed to unknown field %q", col, target)
		}
		plan[i] = assign
	}

	if !hasWholesale {
		return nil, model.Structuralf(table.SheetName, "wholesale price column %q missing", opts.WholesaleColumn)
	}
	if !hasFixed {
		return nil, model.Structuralf(table.SheetName, "fixed price column %q missing", opts.FixedPriceColumn)
	}
	return plan, nil
}

func assignByField(field string) assignFunc {
	switch field {
	case model.FieldCategory:
		return func(r *model.UnifiedRecord, c model.Cell) { r.Category = c.Text }
	case model.FieldEurocode:
		return func(r *model.UnifiedRecord, c model.Cell) { r.Eurocode = c.Text }
	case model.FieldArt:
		return func(r *model.UnifiedRecord, c model.Cell) { r.Art = c.Text }
	case model.FieldOldCode:
		return func(r *model.UnifiedRecord, c model.Cell) { r.OldCode = c.Text }
	case model.FieldName:
		return func(r *model.UnifiedRecord, c model.Cell) { r.Name = c.Text }
	}
	return nil
}
