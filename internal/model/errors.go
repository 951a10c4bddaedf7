package model

import (
	"errors"
	"fmt"
)

// 错误类别，均为整次运行的致命错误
var (
	ErrStructural     = errors.New("structural error")
	ErrPriceFormat    = errors.New("price format error")
	ErrCategoryConfig = errors.New("category config error")
)

// StructuralError 缺少工作表/列，或查找表缺少数据中出现的条目
type StructuralError struct {
	Sheet string
	Msg   string
}

func (e *StructuralError) Error() string {
	if e.Sheet != "" {
		return fmt.Sprintf("sheet %q: %s", e.Sheet, e.Msg)
	}
	return e.Msg
}

func (e *StructuralError) Unwrap() error { return ErrStructural }

// Structuralf 构造结构错误
func Structuralf(sheet, format string, args ...any) error {
	return &StructuralError{Sheet: sheet, Msg: fmt.Sprintf(format, args...)}
}

// PriceFormatError 价格既不是数字也不是哨兵符号
type PriceFormatError struct {
	Sheet  string
	RowNo  int
	Column string
	Value  string
	Symbol string
}

func (e *PriceFormatError) Error() string {
	msg := fmt.Sprintf("price must be a number or %q symbol, got %q", e.Symbol, e.Value)
	if e.Column != "" {
		msg = e.Column + ": " + msg
	}
	if e.Sheet != "" {
		return fmt.Sprintf("sheet %q row %d: %s", e.Sheet, e.RowNo, msg)
	}
	return msg
}

func (e *PriceFormatError) Unwrap() error { return ErrPriceFormat }

// CategoryConfigError 客户记录的类别没有调整规则
type CategoryConfigError struct {
	Category string
	Art      string
}

func (e *CategoryConfigError) Error() string {
	if e.Art != "" {
		return fmt.Sprintf("unknown glass category %q (art %q): no client price adjustment", e.Category, e.Art)
	}
	return fmt.Sprintf("unknown glass category %q: no client price adjustment", e.Category)
}

func (e *CategoryConfigError) Unwrap() error { return ErrCategoryConfig }
