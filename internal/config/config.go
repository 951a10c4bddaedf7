package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pelletier/go-toml/v2"

	"github.com/NatsionalnoeDostoyanie/glass-rus-test/internal/model"
)

// AppConfig 应用配置
type AppConfig struct {
	Server   ServerConfig   `toml:"server"`
	Paths    PathsConfig    `toml:"paths"`
	Log      LogConfig      `toml:"log"`
	Pipeline PipelineConfig `toml:"pipeline"`
}

// ServerConfig HTTP 服务配置
type ServerConfig struct {
	Port    int  `toml:"port"`
	DevMode bool `toml:"dev_mode"`
}

// PathsConfig 输入/输出文件路径
type PathsConfig struct {
	Input        string `toml:"input"`
	JSONOutput   string `toml:"json_output"`
	ClientOutput string `toml:"client_output"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // json/text
}

// PipelineConfig 价目表处理流程的全部常量
type PipelineConfig struct {
	HeadersRowNumber       int                              `toml:"headers_row_number"`
	FieldEveryRowHas       string                           `toml:"field_every_row_has"`
	RequiredColumns        []string                         `toml:"required_columns"`
	ColumnTypes            map[string]model.ColumnType      `toml:"column_types"`
	Sheets                 []string                         `toml:"sheets"`
	SheetCatalogs          map[string]string                `toml:"sheet_catalogs"`
	ColumnsToRename        map[string]string                `toml:"columns_to_rename"`
	WholesaleColumn        string                           `toml:"wholesale_column"`
	FixedPriceColumn       string                           `toml:"fixed_price_column"`
	PriceTypeSymbol        string                           `toml:"price_type_symbol"`
	ClientCategories       []string                         `toml:"client_categories"`
	ClientPriceAdjustments map[string]model.PriceAdjustment `toml:"client_price_adjustments"`
	ClientColumns          []string                         `toml:"client_columns"`
}

// LoadConfigInfo 配置加载元信息
type LoadConfigInfo struct {
	Path          string
	FromFile      bool
	PortSpecified bool
}

const (
	SheetAutoGlassAccessoriesGlue = "Автостекло. Аксессуары. Клей"
	SheetRussianAutoIndustry      = "Российский автопром"

	CategoryWindshield = "ветровое"
	CategoryRear       = "заднее"
	CategorySide       = "боковое"
)

// DefaultConfig 默认配置（AGC 价目表）
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:    20262,
			DevMode: false,
		},
		Paths: PathsConfig{
			Input:        filepath.Join("files", "Прайс-лист AGC 2024.03.04 Опт.xlsx"),
			JSONOutput:   filepath.Join("jsons", "all.json"),
			ClientOutput: filepath.Join("files", "client_catalog.xlsx"),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Pipeline: DefaultPipelineConfig(),
	}
}

// DefaultPipelineConfig 默认流程常量
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		HeadersRowNumber: 4,
		FieldEveryRowHas: "Код AGC",
		RequiredColumns: []string{
			"Вид стекла", "Еврокод", "Код AGC", "Старый Код AGC", "Цена фиксирована", "Наименование", "ОПТ",
		},
		ColumnTypes: map[string]model.ColumnType{
			"Код AGC":        model.ColumnTypeString,
			"Еврокод":        model.ColumnTypeString,
			"Старый Код AGC": model.ColumnTypeString,
		},
		Sheets: []string{SheetAutoGlassAccessoriesGlue, SheetRussianAutoIndustry},
		SheetCatalogs: map[string]string{
			SheetAutoGlassAccessoriesGlue: "Иномарки",
			SheetRussianAutoIndustry:      "Отечественные",
		},
		ColumnsToRename: map[string]string{
			"Код AGC":        model.FieldArt,
			"Еврокод":        model.FieldEurocode,
			"Старый Код AGC": model.FieldOldCode,
			"Наименование":   model.FieldName,
			"Вид стекла":     model.FieldCategory,
		},
		WholesaleColumn:  "ОПТ",
		FixedPriceColumn: "Цена фиксирована",
		PriceTypeSymbol:  "*",
		ClientCategories: []string{CategoryWindshield, CategoryRear, CategorySide},
		ClientPriceAdjustments: map[string]model.PriceAdjustment{
			CategoryWindshield: {Extra: 1000, Multiplier: 1.05},
			CategoryRear:       {Extra: 800, Multiplier: 1.07},
			CategorySide:       {Extra: 0, Multiplier: 1.10},
		},
		ClientColumns: append([]string(nil), model.ClientColumns...),
	}
}

// GetExeDir 获取可执行文件所在目录
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// DefaultConfigPath 可执行文件同目录下的 config.toml
func DefaultConfigPath() string {
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}
	return filepath.Join(exeDir, "config.toml")
}

// LoadConfigWithInfo 从 config.toml 加载配置并返回元信息
// path 为空时使用可执行文件同目录下的 config.toml；文件不存在时使用默认配置
func LoadConfigWithInfo(path string) (*AppConfig, LoadConfigInfo, error) {
	if path == "" {
		path = DefaultConfigPath()
	}
	info := LoadConfigInfo{Path: path}
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnvOverrides(config, &info)
			return config, info, nil
		}
		return nil, info, err
	}
	info.FromFile = true

	if err := decode(data, config, &info); err != nil {
		return nil, info, fmt.Errorf("parse %s: %w", path, err)
	}

	applyEnvOverrides(config, &info)
	return config, info, nil
}

// LoadConfig 加载配置
func LoadConfig(path string) (*AppConfig, error) {
	config, _, err := LoadConfigWithInfo(path)
	return config, err
}

// Parse 解析 TOML 内容（未出现的键保留默认值）
func Parse(data []byte) (*AppConfig, error) {
	config := DefaultConfig()
	if err := decode(data, config, &LoadConfigInfo{}); err != nil {
		return nil, err
	}
	return config, nil
}

func decode(data []byte, config *AppConfig, info *LoadConfigInfo) error {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return err
	}
	info.PortSpecified = hasKey(raw, "server", "port")
	resetOverriddenTables(raw, &config.Pipeline)

	return toml.Unmarshal(data, config)
}

func hasKey(raw map[string]any, table, key string) bool {
	tableAny, ok := raw[table]
	if !ok {
		return false
	}
	tableMap, ok := tableAny.(map[string]any)
	if !ok {
		return false
	}
	_, ok = tableMap[key]
	return ok
}

// resetOverriddenTables 文件中出现的表/数组整体替换默认值，而不是与默认值合并
func resetOverriddenTables(raw map[string]any, p *PipelineConfig) {
	present := func(key string) bool { return hasKey(raw, "pipeline", key) }

	if present("required_columns") {
		p.RequiredColumns = nil
	}
	if present("column_types") {
		p.ColumnTypes = nil
	}
	if present("sheets") {
		p.Sheets = nil
	}
	if present("sheet_catalogs") {
		p.SheetCatalogs = nil
	}
	if present("columns_to_rename") {
		p.ColumnsToRename = nil
	}
	if present("client_categories") {
		p.ClientCategories = nil
	}
	if present("client_price_adjustments") {
		p.ClientPriceAdjustments = nil
	}
	if present("client_columns") {
		p.ClientColumns = nil
	}
}

// applyEnvOverrides 环境变量覆盖（.env 由 main 预先加载）
func applyEnvOverrides(config *AppConfig, info *LoadConfigInfo) {
	if v := os.Getenv("GLASSPRICE_INPUT"); v != "" {
		config.Paths.Input = v
	}
	if v := os.Getenv("GLASSPRICE_JSON_OUTPUT"); v != "" {
		config.Paths.JSONOutput = v
	}
	if v := os.Getenv("GLASSPRICE_CLIENT_OUTPUT"); v != "" {
		config.Paths.ClientOutput = v
	}
	if v := os.Getenv("GLASSPRICE_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 {
			config.Server.Port = port
			info.PortSpecified = true
		}
	}
	if v := os.Getenv("GLASSPRICE_LOG_LEVEL"); v != "" {
		config.Log.Level = v
	}
}

// SaveConfig 保存配置
func SaveConfig(config *AppConfig, path string) error {
	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate 在任何 I/O 之前检查配置的一致性
func (c *AppConfig) Validate() error {
	if c.Paths.Input == "" {
		return model.Structuralf("", "paths.input is empty")
	}
	if c.Paths.JSONOutput == "" || c.Paths.ClientOutput == "" {
		return model.Structuralf("", "output paths must be set")
	}
	return c.Pipeline.Validate()
}

// Validate 检查流程常量
func (p *PipelineConfig) Validate() error {
	if p.HeadersRowNumber < 0 {
		return model.Structuralf("", "headers_row_number must be >= 0, got %d", p.HeadersRowNumber)
	}
	if len(p.RequiredColumns) == 0 {
		return model.Structuralf("", "required_columns is empty")
	}

	required := make(map[string]bool, len(p.RequiredColumns))
	for _, col := range p.RequiredColumns {
		if required[col] {
			return model.Structuralf("", "required column %q listed twice", col)
		}
		required[col] = true
	}
	if p.FieldEveryRowHas == "" || !required[p.FieldEveryRowHas] {
		return model.Structuralf("", "field_every_row_has %q must be one of required_columns", p.FieldEveryRowHas)
	}
	for col, typ := range p.ColumnTypes {
		if !typ.Valid() {
			return model.Structuralf("", "column %q has unsupported type %q", col, typ)
		}
	}

	if len(p.Sheets) == 0 {
		return model.Structuralf("", "sheets is empty")
	}
	catalogs := make(map[string]string, len(p.Sheets))
	for _, sheet := range p.Sheets {
		catalog, ok := p.SheetCatalogs[sheet]
		if !ok || catalog == "" {
			return model.Structuralf(sheet, "no catalog label in sheet_catalogs")
		}
		if other, dup := catalogs[catalog]; dup {
			return model.Structuralf(sheet, "catalog label %q already used by sheet %q", catalog, other)
		}
		catalogs[catalog] = sheet
	}

	if !required[p.WholesaleColumn] {
		return model.Structuralf("", "wholesale_column %q must be one of required_columns", p.WholesaleColumn)
	}
	if !required[p.FixedPriceColumn] {
		return model.Structuralf("", "fixed_price_column %q must be one of required_columns", p.FixedPriceColumn)
	}
	if p.WholesaleColumn == p.FixedPriceColumn {
		return model.Structuralf("", "wholesale_column and fixed_price_column must differ")
	}
	if p.PriceTypeSymbol == "" {
		return model.Structuralf("", "price_type_symbol is empty")
	}

	targets := make(map[string]bool, len(model.RenameTargets))
	for _, t := range model.RenameTargets {
		targets[t] = true
	}
	renamed := make(map[string]string, len(p.ColumnsToRename))
	for _, col := range p.RequiredColumns {
		if col == p.WholesaleColumn || col == p.FixedPriceColumn {
			continue
		}
		target, ok := p.ColumnsToRename[col]
		if !ok {
			return model.Structuralf("", "required column %q has no entry in columns_to_rename", col)
		}
		if !targets[target] {
			return model.Structuralf("", "column %q renamed to unknown field %q", col, target)
		}
		if other, dup := renamed[target]; dup {
			return model.Structuralf("", "columns %q and %q both renamed to %q", other, col, target)
		}
		renamed[target] = col
	}
	if renamed[model.FieldArt] != p.FieldEveryRowHas {
		return model.Structuralf("", "field_every_row_has %q must be renamed to %q", p.FieldEveryRowHas, model.FieldArt)
	}
	if _, ok := renamed[model.FieldCategory]; !ok {
		return model.Structuralf("", "no column renamed to %q", model.FieldCategory)
	}

	for _, category := range p.EffectiveClientCategories() {
		adj, ok := p.ClientPriceAdjustments[category]
		if !ok {
			return &model.CategoryConfigError{Category: category}
		}
		if !finite(adj.Extra) || !finite(adj.Multiplier) {
			return fmt.Errorf("%w: adjustment for %q is not finite", model.ErrCategoryConfig, category)
		}
	}

	if len(p.ClientColumns) != len(model.ClientColumns) {
		return model.Structuralf("", "client_columns must be a permutation of %v", model.ClientColumns)
	}
	seen := make(map[string]bool, len(p.ClientColumns))
	for _, col := range p.ClientColumns {
		if seen[col] || !contains(model.ClientColumns, col) {
			return model.Structuralf("", "client_columns must be a permutation of %v", model.ClientColumns)
		}
		seen[col] = true
	}

	return nil
}

// EffectiveClientCategories 客户导出包含的类别；未配置时取调整表的全部键
func (p *PipelineConfig) EffectiveClientCategories() []string {
	if len(p.ClientCategories) > 0 {
		return p.ClientCategories
	}
	out := make([]string, 0, len(p.ClientPriceAdjustments))
	for k := range p.ClientPriceAdjustments {
		out = append(out, k)
	}
	return out
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func contains(items []string, want string) bool {
	for _, it := range items {
		if it == want {
			return true
		}
	}
	return false
}
