// Package openoa 定义分析引擎的能力接口。
// 分析算法本身属于外部 OpenOA 库，这里只约定调用边界：
// mock 实现用于演示/测试，remote 实现把请求转发给外部服务。
package openoa

import (
	"context"

	"github.com/windoa/openoa_go_server/internal/plantdata"
)

type AEPParams struct {
	Iterations        int    `json:"iterations"`
	UncertaintyMethod string `json:"uncertainty_method,omitempty"`
}

type ElectricalLossesParams struct {
	LossThresholdPct float64 `json:"loss_threshold_pct"`
}

type WakeLossesParams struct {
	BinWidth float64 `json:"bin_width"`
}

type TurbineIdealEnergyParams struct {
	UseLTDistribution bool `json:"use_lt_distribution"`
}

type EYAGapParams struct {
	ExpectedAEPGwh float64 `json:"expected_aep_gwh"`
}

// AEPResult 蒙特卡洛 AEP 分析结果
type AEPResult struct {
	AEPGwh          float64 `json:"aep_gwh"`
	UncertaintyPct  float64 `json:"uncertainty_pct"`
	CapacityFactor  float64 `json:"capacity_factor"`
	PlantCapacityMW float64 `json:"plant_capacity_mw"`
	AnalysisType    string  `json:"analysis_type"`
	Iterations      int     `json:"iterations"`
	Notes           string  `json:"notes,omitempty"`
}

// ElectricalLossesResult 电气损耗分析结果
type ElectricalLossesResult struct {
	TotalLossPct     float64 `json:"total_loss_pct"`
	AnnualLossGwh    float64 `json:"annual_loss_gwh"`
	LossThresholdPct float64 `json:"loss_threshold_pct"`
	AnalysisType     string  `json:"analysis_type"`
	Notes            string  `json:"notes,omitempty"`
}

// WakeLossesResult 尾流损失分析结果
type WakeLossesResult struct {
	WakeLossPct  float64 `json:"wake_loss_pct"`
	BinWidth     float64 `json:"bin_width"`
	NumTurbines  int     `json:"num_turbines"`
	AnalysisType string  `json:"analysis_type"`
	Notes        string  `json:"notes,omitempty"`
}

// TurbineIdealEnergyResult 机组理想发电量分析结果
type TurbineIdealEnergyResult struct {
	IdealEnergyGwh    float64 `json:"ideal_energy_gwh"`
	ActualEnergyGwh   float64 `json:"actual_energy_gwh"`
	UseLTDistribution bool    `json:"use_lt_distribution"`
	AnalysisType      string  `json:"analysis_type"`
	Notes             string  `json:"notes,omitempty"`
}

// EYAGapResult EYA 差距分析结果
type EYAGapResult struct {
	GapPct         float64 `json:"gap_pct"`
	ActualAEPGwh   float64 `json:"actual_aep_gwh"`
	ExpectedAEPGwh float64 `json:"expected_aep_gwh"`
	AnalysisType   string  `json:"analysis_type"`
	Notes          string  `json:"notes,omitempty"`
}

// Engine 分析引擎能力接口。启动时按配置选定一个实现，
// 不在调用点做 mock/real 分支。
type Engine interface {
	Version() string
	RunAEP(ctx context.Context, bundle *plantdata.Bundle, params AEPParams) (*AEPResult, error)
	RunElectricalLosses(ctx context.Context, bundle *plantdata.Bundle, params ElectricalLossesParams) (*ElectricalLossesResult, error)
	RunWakeLosses(ctx context.Context, bundle *plantdata.Bundle, params WakeLossesParams) (*WakeLossesResult, error)
	RunTurbineIdealEnergy(ctx context.Context, bundle *plantdata.Bundle, params TurbineIdealEnergyParams) (*TurbineIdealEnergyResult, error)
	RunEYAGap(ctx context.Context, bundle *plantdata.Bundle, params EYAGapParams) (*EYAGapResult, error)
}
