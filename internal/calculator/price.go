package calculator

import (
	"errors"
	"strings"

	"github.com/NatsionalnoeDostoyanie/glass-rus-test/internal/model"
	"github.com/NatsionalnoeDostoyanie/glass-rus-test/internal/parser"
)

// ResolvePrice 批发价为哨兵符号时取固定价，否则取批发价本身
//
// 两个分支都必须是有限数字，否则返回 *model.PriceFormatError。
func ResolvePrice(wholesale, fixed model.Cell, symbol string) (float64, error) {
	column, src := model.FieldWholesaleRaw, wholesale
	if strings.TrimSpace(wholesale.Text) == symbol {
		column, src = model.FieldFixedPrice, fixed
	}

	if src.Kind == model.CellNumber {
		return src.Number, nil
	}
	if v, ok := parser.ParseNumber(src.Text); ok {
		return v, nil
	}
	return 0, &model.PriceFormatError{
		Column: column,
		Value:  src.Text,
		Symbol: symbol,
	}
}

// ResolvePrices 为每条记录确定 price，并移除两列原始价格
func ResolvePrices(records []model.UnifiedRecord, symbol string) ([]model.PricedRecord, error) {
	out := make([]model.PricedRecord, 0, len(records))
	for _, r := range records {
		price, err := ResolvePrice(r.WholesaleRaw, r.FixedPrice, symbol)
		if err != nil {
			var pe *model.PriceFormatError
			if errors.As(err, &pe) {
				pe.Sheet = r.SourceSheet
				pe.RowNo = r.RowNo
			}
			return nil, err
		}
		out = append(out, model.PricedRecord{
			SourceSheet: r.SourceSheet,
			RowNo:       r.RowNo,
			Category:    r.Category,
			Eurocode:    r.Eurocode,
			Art:         r.Art,
			OldCode:     r.OldCode,
			Name:        r.Name,
			Price:       price,
			Catalog:     r.Catalog,
		})
	}
	return out, nil
}
