package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/windoa/openoa_go_server/config"
	"github.com/windoa/openoa_go_server/internal/model/dto"
	"github.com/windoa/openoa_go_server/internal/pkg/response"
	"github.com/windoa/openoa_go_server/internal/service"
)

// Version API 版本号
const Version = "1.0.0"

type HealthHandler struct {
	analysisService *service.AnalysisService
	cfg             *config.Config
}

func NewHealthHandler(analysisService *service.AnalysisService, cfg *config.Config) *HealthHandler {
	return &HealthHandler{
		analysisService: analysisService,
		cfg:             cfg,
	}
}

// Check 健康检查
// GET /health
func (h *HealthHandler) Check(c *gin.Context) {
	response.Success(c, dto.HealthResponse{
		Status:        "healthy",
		Version:       Version,
		OpenOAVersion: h.analysisService.EngineVersion(),
		Timestamp:     time.Now().Format(time.RFC3339),
	})
}

// Info API 信息
// GET /api/v1/info
func (h *HealthHandler) Info(c *gin.Context) {
	response.Success(c, dto.InfoResponse{
		Name:          "OpenOA API",
		Version:       Version,
		Environment:   h.cfg.Server.Mode,
		OpenOAVersion: h.analysisService.EngineVersion(),
	})
}
