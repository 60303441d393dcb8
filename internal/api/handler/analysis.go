package handler

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"

	"github.com/windoa/openoa_go_server/internal/model/dto"
	"github.com/windoa/openoa_go_server/internal/pkg/response"
	"github.com/windoa/openoa_go_server/internal/plantdata"
	"github.com/windoa/openoa_go_server/internal/service"
)

type AnalysisHandler struct {
	analysisService *service.AnalysisService
}

func NewAnalysisHandler(analysisService *service.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{analysisService: analysisService}
}

// analysisCatalog 分析类型目录（对外展示用）
var analysisCatalog = []dto.AnalysisTypeInfo{
	{
		Type:        plantdata.AnalysisAEP,
		Name:        "Annual Energy Production",
		Description: "Monte Carlo AEP estimate with uncertainty quantification",
		Status:      "available",
		Endpoint:    "/api/v1/analysis/aep",
	},
	{
		Type:        plantdata.AnalysisElectricalLosses,
		Name:        "Electrical Losses",
		Description: "Losses between turbine output and revenue meter",
		Status:      "available",
		Endpoint:    "/api/v1/analysis/electrical-losses",
	},
	{
		Type:        plantdata.AnalysisWakeLosses,
		Name:        "Wake Losses",
		Description: "Internal wake losses estimated from SCADA data",
		Status:      "available",
		Endpoint:    "/api/v1/analysis/wake-losses",
	},
	{
		Type:        plantdata.AnalysisTurbineIdealEnergy,
		Name:        "Turbine Ideal Energy",
		Description: "Gap between ideal and actual turbine-level energy",
		Status:      "available",
		Endpoint:    "/api/v1/analysis/turbine-ideal-energy",
	},
	{
		Type:        plantdata.AnalysisEYAGap,
		Name:        "EYA Gap Analysis",
		Description: "Operational AEP versus pre-construction estimate",
		Status:      "available",
		Endpoint:    "/api/v1/analysis/eya-gap",
	},
}

// Types 分析类型目录
// GET /api/v1/analysis/types
func (h *AnalysisHandler) Types(c *gin.Context) {
	response.Success(c, gin.H{"analysis_types": analysisCatalog})
}

// History 最近的分析运行记录
// GET /api/v1/analysis/history
func (h *AnalysisHandler) History(c *gin.Context) {
	items, err := h.analysisService.ListHistory()
	if err != nil {
		response.ServerError(c, "")
		return
	}
	response.Success(c, gin.H{"runs": items})
}

// AEP POST /api/v1/analysis/aep
func (h *AnalysisHandler) AEP(c *gin.Context) {
	h.run(c, plantdata.AnalysisAEP)
}

// ElectricalLosses POST /api/v1/analysis/electrical-losses
func (h *AnalysisHandler) ElectricalLosses(c *gin.Context) {
	h.run(c, plantdata.AnalysisElectricalLosses)
}

// WakeLosses POST /api/v1/analysis/wake-losses
func (h *AnalysisHandler) WakeLosses(c *gin.Context) {
	h.run(c, plantdata.AnalysisWakeLosses)
}

// TurbineIdealEnergy POST /api/v1/analysis/turbine-ideal-energy
func (h *AnalysisHandler) TurbineIdealEnergy(c *gin.Context) {
	h.run(c, plantdata.AnalysisTurbineIdealEnergy)
}

// EYAGap POST /api/v1/analysis/eya-gap
func (h *AnalysisHandler) EYAGap(c *gin.Context) {
	h.run(c, plantdata.AnalysisEYAGap)
}

// run 各分析端点的公共入口：绑定请求体、调度、映射错误
func (h *AnalysisHandler) run(c *gin.Context, analysisType string) {
	var req dto.AnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		// 空请求体等同于全默认参数
		response.BadRequest(c, "请求参数错误: "+err.Error())
		return
	}

	result, err := h.analysisService.Run(analysisType, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDatasetNotFound):
			response.NotFound(c, err.Error())
		case errors.Is(err, plantdata.ErrIncompleteSchema),
			errors.Is(err, plantdata.ErrInvalidFormat),
			errors.Is(err, plantdata.ErrEmptyFile):
			response.BadRequest(c, err.Error())
		default:
			response.ServerError(c, err.Error())
		}
		return
	}

	response.Success(c, result)
}
