package main

import (
	"fmt"
	"log"
	"time"

	"github.com/windoa/openoa_go_server/config"
	"github.com/windoa/openoa_go_server/internal/api"
	"github.com/windoa/openoa_go_server/internal/api/handler"
	"github.com/windoa/openoa_go_server/internal/database"
	"github.com/windoa/openoa_go_server/internal/openoa"
	"github.com/windoa/openoa_go_server/internal/pkg/cron"
	"github.com/windoa/openoa_go_server/internal/plantdata"
	"github.com/windoa/openoa_go_server/internal/repository"
	"github.com/windoa/openoa_go_server/internal/service"
)

func main() {
	// 加载配置
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化数据库
	db, err := database.New(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}
	log.Println("Database connected")

	// 初始化 Repository
	datasetRepo := repository.NewDatasetRepository(db)
	runRepo := repository.NewAnalysisRunRepository(db)

	// 初始化分析引擎
	var engine openoa.Engine
	switch cfg.Analysis.Mode {
	case "remote":
		timeout := time.Duration(cfg.Analysis.TimeoutSeconds) * time.Second
		engine = openoa.NewRemoteEngine(cfg.Analysis.ServiceURL, timeout)
		log.Printf("Analysis engine: remote (%s)", cfg.Analysis.ServiceURL)
	default:
		engine = openoa.NewMockEngine()
		log.Println("Analysis engine: mock")
	}

	// 初始化 Service
	schema := plantdata.NewSchema(cfg.Schema.Aliases)
	datasetService := service.NewDatasetService(datasetRepo, schema, cfg)
	analysisService := service.NewAnalysisService(datasetService, runRepo, engine, cfg)

	// 启动时加载内置示例数据集
	if err := datasetService.LoadDefault(); err != nil {
		log.Fatalf("Failed to load default dataset: %v", err)
	}

	// 初始化 Handler
	healthHandler := handler.NewHealthHandler(analysisService, cfg)
	uploadHandler := handler.NewUploadHandler(datasetService, cfg)
	dataHandler := handler.NewDataHandler(datasetService)
	analysisHandler := handler.NewAnalysisHandler(analysisService)

	// 初始化 Router
	router := api.NewRouter(
		healthHandler,
		uploadHandler,
		dataHandler,
		analysisHandler,
		cfg,
	)
	engineHTTP := router.Setup()

	// 启动定时清理
	cronService := cron.NewService(datasetService, cfg.Upload.CleanupMinutes)
	cronService.Start()
	defer cronService.Stop()

	// 启动服务器
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Server starting on %s", addr)
	if err := engineHTTP.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
