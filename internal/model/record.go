package model

import "fmt"

// 规范字段名（重命名表的目标列）
const (
	FieldCategory    = "category"
	FieldEurocode    = "eurocode"
	FieldArt         = "art"
	FieldOldCode     = "oldcode"
	FieldName        = "name"
	FieldCatalog     = "catalog"
	FieldPrice       = "price"
	FieldClientPrice = "client_price"

	FieldWholesaleRaw = "wholesale_raw"
	FieldFixedPrice   = "fixed_price"
)

// RenameTargets 重命名表允许的目标字段
var RenameTargets = []string{FieldCategory, FieldEurocode, FieldArt, FieldOldCode, FieldName}

// ClientColumns 面向客户导出的列（默认顺序）
var ClientColumns = []string{FieldCatalog, FieldCategory, FieldArt, FieldEurocode, FieldOldCode, FieldName, FieldClientPrice}

// UnifiedRecord 合并、重命名后的记录（价格仍为原始单元格）
type UnifiedRecord struct {
	SourceSheet  string
	RowNo        int
	Category     string
	Eurocode     string
	Art          string
	OldCode      string
	FixedPrice   Cell
	Name         string
	WholesaleRaw Cell
	Catalog      string
}

// PricedRecord 已确定批发价的记录，原始价格列已移除
type PricedRecord struct {
	SourceSheet string
	RowNo       int
	Category    string
	Eurocode    string
	Art         string
	OldCode     string
	Name        string
	Price       float64
	Catalog     string
}

// ClientRecord 面向客户的记录
type ClientRecord struct {
	Catalog     string
	Category    string
	Art         string
	Eurocode    string
	OldCode     string
	Name        string
	ClientPrice float64
}

// Field 按列名取值，用于按配置的列顺序投影
func (r ClientRecord) Field(column string) (any, error) {
	switch column {
	case FieldCatalog:
		return r.Catalog, nil
	case FieldCategory:
		return r.Category, nil
	case FieldArt:
		return r.Art, nil
	case FieldEurocode:
		return r.Eurocode, nil
	case FieldOldCode:
		return r.OldCode, nil
	case FieldName:
		return r.Name, nil
	case FieldClientPrice:
		return r.ClientPrice, nil
	}
	return nil, Structuralf("", "unknown client column %q", column)
}

// PriceAdjustment 客户价调整规则：client_price = (price + Extra) * Multiplier
type PriceAdjustment struct {
	Extra      float64 `toml:"extra" json:"extra"`
	Multiplier float64 `toml:"multiplier" json:"multiplier"`
}

func (a PriceAdjustment) String() string {
	return fmt.Sprintf("(+%v)*%v", a.Extra, a.Multiplier)
}
