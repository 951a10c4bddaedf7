package importer

import (
	"errors"
	"testing"

	"github.com/NatsionalnoeDostoyanie/glass-rus-test/internal/model"
)

var unifyColumns = []string{"Вид стекла", "Еврокод", "Код AGC", "Старый Код AGC", "Цена фиксирована", "Наименование", "ОПТ"}

func testUnifyOptions() UnifyOptions {
	return UnifyOptions{
		ColumnsToRename: map[string]string{
			"Код AGC":        model.FieldArt,
			"Еврокод":        model.FieldEurocode,
			"Старый Код AGC": model.FieldOldCode,
			"Наименование":   model.FieldName,
			"Вид стекла":     model.FieldCategory,
		},
		WholesaleColumn:  "ОПТ",
		FixedPriceColumn: "Цена фиксирована",
	}
}

func testRow(rowNo int, category, art string, fixed, wholesale model.Cell) model.Row {
	return model.Row{
		RowNo: rowNo,
		Cells: map[string]model.Cell{
			"Вид стекла":       model.TextCell(category),
			"Еврокод":          model.TextCell("E-" + art),
			"Код AGC":          model.TextCell(art),
			"Старый Код AGC":   model.TextCell(""),
			"Цена фиксирована": fixed,
			"Наименование":     model.TextCell("Стекло " + art),
			"ОПТ":              wholesale,
		},
	}
}

func TestUnify_OrderAndRename(t *testing.T) {
	t.Parallel()

	tables := []*model.SheetTable{
		{
			SheetName: "A", Catalog: "Иномарки", Columns: unifyColumns,
			Rows: []model.Row{
				testRow(6, "ветровое", "A1", model.NumberCell("1000", 1000), model.TextCell("*")),
				testRow(7, "заднее", "A2", model.NumberCell("0", 0), model.NumberCell("500", 500)),
			},
		},
		{
			SheetName: "B", Catalog: "Отечественные", Columns: unifyColumns,
			Rows: []model.Row{
				testRow(6, "ветровое", "A1", model.NumberCell("0", 0), model.NumberCell("2000", 2000)),
			},
		},
	}

	records, err := Unify(tables, testUnifyOptions())
	if err != nil {
		t.Fatalf("Unify: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("want 3 records (no dedup), got %d", len(records))
	}

	wantArts := []string{"A1", "A2", "A1"}
	wantCatalogs := []string{"Иномарки", "Иномарки", "Отечественные"}
	for i, r := range records {
		if r.Art != wantArts[i] || r.Catalog != wantCatalogs[i] {
			t.Fatalf("record %d: want art=%s catalog=%s got %+v", i, wantArts[i], wantCatalogs[i], r)
		}
	}

	first := records[0]
	if first.Category != "ветровое" || first.Eurocode != "E-A1" || first.Name != "Стекло A1" || first.OldCode != "" {
		t.Fatalf("renamed fields got=%+v", first)
	}
	if first.WholesaleRaw.Text != "*" || first.FixedPrice.Number != 1000 {
		t.Fatalf("raw price pair got wholesale=%+v fixed=%+v", first.WholesaleRaw, first.FixedPrice)
	}
	if first.SourceSheet != "A" || first.RowNo != 6 {
		t.Fatalf("locator got=%s/%d", first.SourceSheet, first.RowNo)
	}
}

func TestUnify_MissingRenameEntry(t *testing.T) {
	t.Parallel()

	opts := testUnifyOptions()
	delete(opts.ColumnsToRename, "Наименование")

	tables := []*model.SheetTable{{SheetName: "A", Catalog: "Иномарки", Columns: unifyColumns}}
	if _, err := Unify(tables, opts); !errors.Is(err, model.ErrStructural) {
		t.Fatalf("want structural error, got %v", err)
	}
}

func TestUnify_MissingRawPriceColumn(t *testing.T) {
	t.Parallel()

	tables := []*model.SheetTable{{SheetName: "A", Catalog: "Иномарки", Columns: unifyColumns[:6]}}
	if _, err := Unify(tables, testUnifyOptions()); !errors.Is(err, model.ErrStructural) {
		t.Fatalf("want structural error, got %v", err)
	}
}
