package calculator

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/NatsionalnoeDostoyanie/glass-rus-test/internal/model"
)

// ProjectOptions 客户导出参数
type ProjectOptions struct {
	Categories  []string                         // 进入客户导出的类别；为空时取 Adjustments 的全部键
	Adjustments map[string]model.PriceAdjustment // 类别 → (extra, multiplier)
}

// ClientPrice 计算客户价：(price + extra) * multiplier
//
// 使用十进制运算，避免 1.05/1.07/1.10 等系数带来的二进制浮点误差。
func ClientPrice(price float64, category string, adjustments map[string]model.PriceAdjustment) (float64, error) {
	adj, ok := adjustments[category]
	if !ok {
		return 0, &model.CategoryConfigError{Category: category}
	}
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, fmt.Errorf("%w: price %v is not a finite number", model.ErrPriceFormat, price)
	}

	v := decimal.NewFromFloat(price).
		Add(decimal.NewFromFloat(adj.Extra)).
		Mul(decimal.NewFromFloat(adj.Multiplier))
	f, _ := v.Float64()
	return f, nil
}

// ProjectClient 过滤出客户类别并计算客户价，保持输入顺序
//
// 不在类别集合内的记录被静默排除；集合内类别缺少调整规则是配置错误。
func ProjectClient(records []model.PricedRecord, opts ProjectOptions) ([]model.ClientRecord, error) {
	include := make(map[string]bool, len(opts.Categories))
	for _, c := range opts.Categories {
		include[c] = true
	}
	if len(include) == 0 {
		for c := range opts.Adjustments {
			include[c] = true
		}
	}

	out := make([]model.ClientRecord, 0, len(records))
	for _, r := range records {
		if !include[r.Category] {
			continue
		}

		price, err := ClientPrice(r.Price, r.Category, opts.Adjustments)
		if err != nil {
			var ce *model.CategoryConfigError
			if errors.As(err, &ce) {
				ce.Art = r.Art
			}
			return nil, err
		}
		out = append(out, model.ClientRecord{
			Catalog:     r.Catalog,
			Category:    r.Category,
			Art:         r.Art,
			Eurocode:    r.Eurocode,
			OldCode:     r.OldCode,
			Name:        r.Name,
			ClientPrice: price,
		})
	}
	return out, nil
}
