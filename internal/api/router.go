package api

import (
	"github.com/gin-gonic/gin"

	"github.com/windoa/openoa_go_server/config"
	"github.com/windoa/openoa_go_server/internal/api/handler"
	"github.com/windoa/openoa_go_server/internal/api/middleware"
)

type Router struct {
	healthHandler   *handler.HealthHandler
	uploadHandler   *handler.UploadHandler
	dataHandler     *handler.DataHandler
	analysisHandler *handler.AnalysisHandler
	cfg             *config.Config
}

func NewRouter(
	healthHandler *handler.HealthHandler,
	uploadHandler *handler.UploadHandler,
	dataHandler *handler.DataHandler,
	analysisHandler *handler.AnalysisHandler,
	cfg *config.Config,
) *Router {
	return &Router{
		healthHandler:   healthHandler,
		uploadHandler:   uploadHandler,
		dataHandler:     dataHandler,
		analysisHandler: analysisHandler,
		cfg:             cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	if r.cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.CORS(r.cfg.CORS))

	// 健康检查不带版本前缀
	engine.GET("/health", r.healthHandler.Check)

	api := engine.Group("/api/v1")
	{
		api.GET("/info", r.healthHandler.Info)

		// 数据集
		api.POST("/upload-plant-data", r.uploadHandler.Upload)
		api.POST("/cleanup-old-files", r.uploadHandler.Cleanup)
		api.GET("/sample-data", r.dataHandler.Sample)
		api.GET("/sample-data/metadata", r.dataHandler.SampleMetadata)
		api.GET("/datasets", r.dataHandler.List)
		api.DELETE("/datasets/:id", r.dataHandler.Delete)

		// 分析
		analysis := api.Group("/analysis")
		{
			analysis.GET("/types", r.analysisHandler.Types)
			analysis.GET("/history", r.analysisHandler.History)
			analysis.POST("/aep", r.analysisHandler.AEP)
			analysis.POST("/electrical-losses", r.analysisHandler.ElectricalLosses)
			analysis.POST("/wake-losses", r.analysisHandler.WakeLosses)
			analysis.POST("/turbine-ideal-energy", r.analysisHandler.TurbineIdealEnergy)
			analysis.POST("/eya-gap", r.analysisHandler.EYAGap)
		}
	}

	return engine
}
