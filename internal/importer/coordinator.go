package importer

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/NatsionalnoeDostoyanie/glass-rus-test/internal/calculator"
	"github.com/NatsionalnoeDostoyanie/glass-rus-test/internal/config"
	"github.com/NatsionalnoeDostoyanie/glass-rus-test/internal/exporter"
	"github.com/NatsionalnoeDostoyanie/glass-rus-test/internal/model"
	"github.com/NatsionalnoeDostoyanie/glass-rus-test/internal/obs"
	"github.com/NatsionalnoeDostoyanie/glass-rus-test/internal/parser"
)

// Coordinator 价目表处理协调器：加载 → 合并 → 定价 → 客户投影
type Coordinator struct {
	cfg      config.PipelineConfig
	progress func(ProgressEvent)
}

// NewCoordinator 创建协调器
func NewCoordinator(cfg config.PipelineConfig) *Coordinator {
	return &Coordinator{cfg: cfg}
}

// WithProgress 设置进度回调
func (c *Coordinator) WithProgress(fn func(ProgressEvent)) *Coordinator {
	c.progress = fn
	return c
}

// RunOptions 批处理运行参数
type RunOptions struct {
	InputPath        string
	JSONOutputPath   string
	ClientOutputPath string
}

// Result 一次运行的产物
type Result struct {
	RunID  string
	Report *parser.ImportReport
	Priced []model.PricedRecord
	Client []model.ClientRecord
}

// Process 对已打开的工作簿执行完整流程（不写文件）
func (c *Coordinator) Process(file *excelize.File) (*Result, error) {
	res := &Result{RunID: uuid.New().String()}
	log := obs.Logger.With("run_id", res.RunID)
	start := time.Now()
	log.Info("pipeline_start", "sheets", len(c.cfg.Sheets))

	reportProgress(c.progress, 0, StageLoad)
	loader := parser.NewSheetLoader(file, parser.LoadOptions{
		HeadersRowNumber: c.cfg.HeadersRowNumber,
		ColumnTypes:      c.cfg.ColumnTypes,
		FieldEveryRowHas: c.cfg.FieldEveryRowHas,
		RequiredColumns:  c.cfg.RequiredColumns,
		SheetCatalogs:    c.cfg.SheetCatalogs,
	})
	tables, report, err := loader.LoadSheets(c.cfg.Sheets)
	res.Report = report
	if err != nil {
		return res, fmt.Errorf("load: %w", err)
	}
	for _, s := range report.Sheets {
		log.Info("sheet_loaded",
			"sheet", s.SheetName,
			"catalog", s.Catalog,
			"rows", s.ImportedRows,
			"dropped", s.DroppedRows,
		)
	}

	reportProgress(c.progress, 30, StageUnify)
	unified, err := Unify(tables, UnifyOptions{
		ColumnsToRename:  c.cfg.ColumnsToRename,
		WholesaleColumn:  c.cfg.WholesaleColumn,
		FixedPriceColumn: c.cfg.FixedPriceColumn,
	})
	if err != nil {
		return res, fmt.Errorf("unify: %w", err)
	}

	reportProgress(c.progress, 50, StagePrice)
	res.Priced, err = calculator.ResolvePrices(unified, c.cfg.PriceTypeSymbol)
	if err != nil {
		return res, fmt.Errorf("resolve prices: %w", err)
	}

	reportProgress(c.progress, 70, StageProject)
	res.Client, err = calculator.ProjectClient(res.Priced, calculator.ProjectOptions{
		Categories:  c.cfg.ClientCategories,
		Adjustments: c.cfg.ClientPriceAdjustments,
	})
	if err != nil {
		return res, fmt.Errorf("client projection: %w", err)
	}

	log.Info("pipeline_processed",
		"records", len(res.Priced),
		"client_records", len(res.Client),
		"duration", time.Since(start),
	)
	return res, nil
}

// ProcessFile 打开工作簿、处理并保证关闭
func (c *Coordinator) ProcessFile(path string) (*Result, error) {
	file, err := parser.OpenWorkbook(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return c.Process(file)
}

// Run 执行完整批处理并写出两个产物
//
// 两个产物都在内存中生成完毕后才落盘，流程任一阶段失败时不写任何文件。
func (c *Coordinator) Run(opts RunOptions) (*Result, error) {
	res, err := c.ProcessFile(opts.InputPath)
	if err != nil {
		return res, err
	}
	log := obs.Logger.With("run_id", res.RunID)

	reportProgress(c.progress, 80, StageExportJSON)
	fullJSON, err := exporter.EncodeFullJSON(res.Priced)
	if err != nil {
		return res, err
	}

	reportProgress(c.progress, 90, StageExportClient)
	clientXLSX, err := exporter.EncodeClientWorkbook(res.Client, c.cfg.ClientColumns)
	if err != nil {
		return res, err
	}

	if err := exporter.WriteBytesAtomic(opts.JSONOutputPath, fullJSON); err != nil {
		return res, fmt.Errorf("write %s: %w", opts.JSONOutputPath, err)
	}
	log.Info("export_written", "path", opts.JSONOutputPath, "records", len(res.Priced))

	if err := exporter.WriteBytesAtomic(opts.ClientOutputPath, clientXLSX); err != nil {
		return res, fmt.Errorf("write %s: %w", opts.ClientOutputPath, err)
	}
	log.Info("export_written", "path", opts.ClientOutputPath, "records", len(res.Client))

	reportProgress(c.progress, 100, StageDone)
	return res, nil
}
