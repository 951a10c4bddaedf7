package parser

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/NatsionalnoeDostoyanie/glass-rus-test/internal/model"
)

var testHeaders = []interface{}{"Вид стекла", "Еврокод", "Код AGC", "Старый Код AGC", "Цена фиксирована", "Наименование", "ОПТ"}

func testLoadOptions() LoadOptions {
	return LoadOptions{
		HeadersRowNumber: 4,
		ColumnTypes: map[string]model.ColumnType{
			"Код AGC":        model.ColumnTypeString,
			"Еврокод":        model.ColumnTypeString,
			"Старый Код AGC": model.ColumnTypeString,
		},
		FieldEveryRowHas: "Код AGC",
		RequiredColumns:  []string{"Вид стекла", "Еврокод", "Код AGC", "Старый Код AGC", "Цена фиксирована", "Наименование", "ОПТ"},
		SheetCatalogs: map[string]string{
			"Иномарки":      "Иномарки",
			"Отечественные": "Отечественные",
		},
	}
}

// buildPriceWorkbook 生成带 4 行标题的价目表，表头位于第 5 行
func buildPriceWorkbook(t *testing.T, sheets map[string][][]interface{}, headers []interface{}) string {
	t.Helper()

	wb := excelize.NewFile()
	t.Cleanup(func() { _ = wb.Close() })

	for name, rows := range sheets {
		if _, err := wb.NewSheet(name); err != nil {
			t.Fatalf("NewSheet %s: %v", name, err)
		}
		title := []interface{}{"Прайс-лист AGC"}
		for i := 1; i <= 4; i++ {
			cell, _ := excelize.CoordinatesToCellName(1, i)
			if err := wb.SetSheetRow(name, cell, &title); err != nil {
				t.Fatalf("SetSheetRow title: %v", err)
			}
		}
		hdr := headers
		if err := wb.SetSheetRow(name, "A5", &hdr); err != nil {
			t.Fatalf("SetSheetRow header: %v", err)
		}
		for i, row := range rows {
			r := row
			cell, _ := excelize.CoordinatesToCellName(1, 6+i)
			if err := wb.SetSheetRow(name, cell, &r); err != nil {
				t.Fatalf("SetSheetRow data: %v", err)
			}
		}
	}
	if err := wb.DeleteSheet("Sheet1"); err != nil {
		t.Fatalf("DeleteSheet: %v", err)
	}

	path := filepath.Join(t.TempDir(), "price.xlsx")
	if err := wb.SaveAs(path); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}
	return path
}

func openTestWorkbook(t *testing.T, path string) *excelize.File {
	t.Helper()

	f, err := OpenWorkbook(path)
	if err != nil {
		t.Fatalf("OpenWorkbook: %v", err)
	}
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestLoadSheet_DropsRowsWithoutKeyAndProjects(t *testing.T) {
	t.Parallel()

	path := buildPriceWorkbook(t, map[string][][]interface{}{
		"Иномарки": {
			{"ветровое", "2001AGN", "00123", "OLD1", 0, "Стекло ветровое", 1500},
			{"Итого", "", "", "", "", "", ""},
			{"заднее", "3001", "A-77", "", 900, "Стекло заднее", "*"},
		},
	}, testHeaders)
	f := openTestWorkbook(t, path)

	table, res, err := NewSheetLoader(f, testLoadOptions()).LoadSheet("Иномарки")
	if err != nil {
		t.Fatalf("LoadSheet: %v", err)
	}
	if len(table.Rows) != 2 || res.ImportedRows != 2 || res.DroppedRows != 1 || res.TotalRows != 3 {
		t.Fatalf("unexpected counts: rows=%d res=%+v", len(table.Rows), res)
	}
	if table.Catalog != "Иномарки" {
		t.Fatalf("catalog got=%q", table.Catalog)
	}
	if got := table.Columns; len(got) != 7 || got[0] != "Вид стекла" || got[6] != "ОПТ" {
		t.Fatalf("columns got=%v", got)
	}

	first := table.Rows[0]
	if first.RowNo != 6 {
		t.Fatalf("RowNo want=6 got=%d", first.RowNo)
	}
	if c := first.Get("Код AGC"); c.Kind != model.CellText || c.Text != "00123" {
		t.Fatalf("art should stay text with leading zeros, got %+v", c)
	}
	if c := first.Get("ОПТ"); c.Kind != model.CellNumber || c.Number != 1500 {
		t.Fatalf("wholesale should be numeric, got %+v", c)
	}

	second := table.Rows[1]
	if second.RowNo != 8 {
		t.Fatalf("RowNo want=8 got=%d", second.RowNo)
	}
	if c := second.Get("ОПТ"); c.Kind != model.CellText || c.Text != "*" {
		t.Fatalf("sentinel should stay text, got %+v", c)
	}
	if c := second.Get("Еврокод"); c.Kind != model.CellText || c.Text != "3001" {
		t.Fatalf("eurocode forced to text, got %+v", c)
	}
	if c := second.Get("Старый Код AGC"); !c.IsEmpty() {
		t.Fatalf("empty oldcode should be empty cell, got %+v", c)
	}
}

func TestLoadSheet_MissingColumn(t *testing.T) {
	t.Parallel()

	path := buildPriceWorkbook(t, map[string][][]interface{}{
		"Иномарки": {{"ветровое", "E1", "A1", "", 0, "n", 10}},
	}, testHeaders[:6])
	f := openTestWorkbook(t, path)

	_, res, err := NewSheetLoader(f, testLoadOptions()).LoadSheet("Иномарки")
	if !errors.Is(err, model.ErrStructural) {
		t.Fatalf("want structural error, got %v", err)
	}
	if res.Status != "error" || len(res.Errors) != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestLoadSheet_UnknownCatalogAndMissingSheet(t *testing.T) {
	t.Parallel()

	path := buildPriceWorkbook(t, map[string][][]interface{}{
		"Иномарки": {{"ветровое", "E1", "A1", "", 0, "n", 10}},
		"Прочее":   {{"ветровое", "E1", "A1", "", 0, "n", 10}},
	}, testHeaders)
	f := openTestWorkbook(t, path)
	loader := NewSheetLoader(f, testLoadOptions())

	if _, _, err := loader.LoadSheet("Прочее"); !errors.Is(err, model.ErrStructural) {
		t.Fatalf("sheet without catalog: want structural error, got %v", err)
	}
	if _, _, err := loader.LoadSheet("Отечественные"); !errors.Is(err, model.ErrStructural) {
		t.Fatalf("absent sheet: want structural error, got %v", err)
	}
}

func TestLoadSheet_HeaderRowBeyondSheet(t *testing.T) {
	t.Parallel()

	path := buildPriceWorkbook(t, map[string][][]interface{}{
		"Иномарки": nil,
	}, testHeaders)
	f := openTestWorkbook(t, path)

	opts := testLoadOptions()
	opts.HeadersRowNumber = 20
	if _, _, err := NewSheetLoader(f, opts).LoadSheet("Иномарки"); !errors.Is(err, model.ErrStructural) {
		t.Fatalf("want structural error, got %v", err)
	}
}

func TestLoadSheets_OrderAndReport(t *testing.T) {
	t.Parallel()

	path := buildPriceWorkbook(t, map[string][][]interface{}{
		"Иномарки": {
			{"ветровое", "E1", "A1", "", 0, "n1", 10},
			{"ветровое", "E2", "A2", "", 0, "n2", 20},
		},
		"Отечественные": {
			{"боковое", "E3", "B1", "", 0, "n3", 30},
			{"", "", "", "", "", "", ""},
		},
	}, testHeaders)
	f := openTestWorkbook(t, path)

	tables, report, err := NewSheetLoader(f, testLoadOptions()).LoadSheets([]string{"Отечественные", "Иномарки"})
	if err != nil {
		t.Fatalf("LoadSheets: %v", err)
	}
	if len(tables) != 2 || tables[0].SheetName != "Отечественные" || tables[1].SheetName != "Иномарки" {
		t.Fatalf("tables out of order: %+v", tables)
	}
	if report.TotalSheets != 2 || report.ImportedRows != 3 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if tables[1].Rows[1].Get("Код AGC").Text != "A2" {
		t.Fatalf("row order not preserved: %+v", tables[1].Rows)
	}
}
