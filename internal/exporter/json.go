package exporter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/NatsionalnoeDostoyanie/glass-rus-test/internal/model"
)

// fullRecord 全量导出的 JSON 结构，空文本导出为 null
type fullRecord struct {
	Category *string `json:"category"`
	Eurocode *string `json:"eurocode"`
	Art      string  `json:"art"`
	OldCode  *string `json:"oldcode"`
	Name     *string `json:"name"`
	Price    float64 `json:"price"`
	Catalog  string  `json:"catalog"`
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// WriteFullJSON 写出全量记录：4 空格缩进，非 ASCII 字符不转义
func WriteFullJSON(w io.Writer, records []model.PricedRecord) error {
	out := make([]fullRecord, 0, len(records))
	for _, r := range records {
		out = append(out, fullRecord{
			Category: nullable(r.Category),
			Eurocode: nullable(r.Eurocode),
			Art:      r.Art,
			OldCode:  nullable(r.OldCode),
			Name:     nullable(r.Name),
			Price:    r.Price,
			Catalog:  r.Catalog,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("failed to encode full export: %w", err)
	}
	return nil
}

// EncodeFullJSON 生成全量导出内容
func EncodeFullJSON(records []model.PricedRecord) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteFullJSON(&buf, records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
