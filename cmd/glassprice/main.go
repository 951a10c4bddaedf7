package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/NatsionalnoeDostoyanie/glass-rus-test/internal/config"
	"github.com/NatsionalnoeDostoyanie/glass-rus-test/internal/importer"
	"github.com/NatsionalnoeDostoyanie/glass-rus-test/internal/obs"
	"github.com/NatsionalnoeDostoyanie/glass-rus-test/internal/server"
)

var (
	configPath   = flag.String("config", "", "配置文件路径 (默认: 可执行文件同目录下的 config.toml)")
	envPath      = flag.String("env", ".env", ".env 文件路径 (不存在时忽略)")
	inputPath    = flag.String("input", "", "价目表 xlsx 路径 (覆盖配置文件)")
	jsonOutput   = flag.String("json", "", "全量 JSON 输出路径 (覆盖配置文件)")
	clientOutput = flag.String("client", "", "客户 xlsx 输出路径 (覆盖配置文件)")
	serve        = flag.Bool("serve", false, "以 HTTP 服务方式运行")
	port         = flag.Int("port", 0, "服务端口 (config.toml 优先；仅当未显式配置 port 时生效)")
	logLevel     = flag.String("log-level", "", "日志级别 debug/info/warn/error")
)

func main() {
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Произошла ошибка: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// .env 仅用于本地运行，缺失时忽略
	if err := godotenv.Load(*envPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", *envPath, err)
	}

	cfg, info, err := config.LoadConfigWithInfo(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 命令行参数覆盖配置
	if *inputPath != "" {
		cfg.Paths.Input = *inputPath
	}
	if *jsonOutput != "" {
		cfg.Paths.JSONOutput = *jsonOutput
	}
	if *clientOutput != "" {
		cfg.Paths.ClientOutput = *clientOutput
	}
	if *port > 0 && !info.PortSpecified {
		cfg.Server.Port = *port
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}

	obs.InitLogger(cfg.Log.Level, cfg.Log.Format)
	obs.Logger.Debug("config_loaded", "path", info.Path, "from_file", info.FromFile)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if *serve {
		return runServer(cfg)
	}
	return runBatch(cfg)
}

func runBatch(cfg *config.AppConfig) error {
	coordinator := importer.NewCoordinator(cfg.Pipeline).WithProgress(func(e importer.ProgressEvent) {
		obs.Logger.Debug("pipeline_progress", "stage", e.Stage, "percent", e.Percent)
	})

	res, err := coordinator.Run(importer.RunOptions{
		InputPath:        cfg.Paths.Input,
		JSONOutputPath:   cfg.Paths.JSONOutput,
		ClientOutputPath: cfg.Paths.ClientOutput,
	})
	if err != nil {
		return err
	}

	obs.Logger.Info("pipeline_done",
		"run_id", res.RunID,
		"records", len(res.Priced),
		"client_records", len(res.Client),
		"dropped_rows", res.Report.DroppedRows,
		"duration", res.Report.Duration,
	)
	return nil
}

func runServer(cfg *config.AppConfig) error {
	srv := server.NewServer(cfg)

	errc := make(chan error, 1)
	go func() {
		errc <- srv.Run()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errc:
		return err
	case sig := <-quit:
		obs.Logger.Info("shutdown_signal", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errc
}
