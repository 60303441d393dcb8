package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/windoa/openoa_go_server/config"
	"github.com/windoa/openoa_go_server/internal/model"
	"github.com/windoa/openoa_go_server/internal/model/dto"
	"github.com/windoa/openoa_go_server/internal/openoa"
	"github.com/windoa/openoa_go_server/internal/plantdata"
	"github.com/windoa/openoa_go_server/internal/repository"
)

var ErrAnalysisExecution = fmt.Errorf("分析执行失败")

// runIDPrefix 运行 id 前缀，沿用前端已识别的命名
var runIDPrefix = map[string]string{
	plantdata.AnalysisAEP:                "aep",
	plantdata.AnalysisElectricalLosses:   "elec_losses",
	plantdata.AnalysisWakeLosses:         "wake_losses",
	plantdata.AnalysisTurbineIdealEnergy: "turbine_ideal",
	plantdata.AnalysisEYAGap:             "eya_gap",
}

// AnalysisService 分析调度器。单次请求内同步完成
// pending → running → {completed, failed} 状态机，
// 引擎调用受配置超时约束。
type AnalysisService struct {
	datasetService *DatasetService
	runRepo        *repository.AnalysisRunRepository
	engine         openoa.Engine
	cfg            *config.Config
}

func NewAnalysisService(
	datasetService *DatasetService,
	runRepo *repository.AnalysisRunRepository,
	engine openoa.Engine,
	cfg *config.Config,
) *AnalysisService {
	return &AnalysisService{
		datasetService: datasetService,
		runRepo:        runRepo,
		engine:         engine,
		cfg:            cfg,
	}
}

// EngineVersion 当前引擎版本（健康检查用）
func (s *AnalysisService) EngineVersion() string {
	return s.engine.Version()
}

// Run 执行一次分析。数据集解析失败直接返回（不留运行记录）；
// 字段校验失败记录为 failed 且不调用引擎；
// 引擎错误被捕获，对外只暴露脱敏消息。
func (s *AnalysisService) Run(analysisType string, req *dto.AnalysisRequest) (*dto.AnalysisResponse, error) {
	if !plantdata.IsAnalysisType(analysisType) {
		return nil, fmt.Errorf("未知的分析类型: %s", analysisType)
	}

	dataset, table, err := s.datasetService.Get(req.DatasetID())
	if err != nil {
		return nil, err
	}

	now := time.Now()
	run := &model.AnalysisRun{
		ID:           newRunID(analysisType),
		AnalysisType: analysisType,
		DatasetID:    dataset.ID,
		Status:       model.RunStatusPending,
		CreatedAt:    now,
	}
	if err := s.runRepo.Create(run); err != nil {
		return nil, err
	}

	run.Status = model.RunStatusRunning
	run.StartedAt = &now
	if err := s.runRepo.Update(run); err != nil {
		return nil, err
	}

	// 字段充足性校验在引擎调用之前
	if err := plantdata.ValidateFor(analysisType, table); err != nil {
		s.fail(run, err.Error())
		return nil, err
	}

	bundle, err := plantdata.Build(table, s.datasetService.PlantMetadata())
	if err != nil {
		s.fail(run, err.Error())
		return nil, err
	}

	timeout := time.Duration(s.cfg.Analysis.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	result, err := s.invoke(ctx, analysisType, bundle, req)
	if err != nil {
		// 原始错误只进日志，客户端只看到脱敏消息
		log.Printf("Analysis %s failed: %v", run.ID, err)
		s.fail(run, fmt.Sprintf("%s: %s", ErrAnalysisExecution, analysisType))
		return nil, ErrAnalysisExecution
	}

	completed := time.Now()
	run.Status = model.RunStatusCompleted
	run.CompletedAt = &completed
	if data, err := json.Marshal(result); err == nil {
		run.ResultJSON = string(data)
	}
	if err := s.runRepo.Update(run); err != nil {
		log.Printf("Failed to persist run %s: %v", run.ID, err)
	}

	return &dto.AnalysisResponse{
		ID:           run.ID,
		Status:       run.Status,
		AnalysisType: analysisType,
		Result:       result,
		CreatedAt:    run.CreatedAt.Format(time.RFC3339),
		CompletedAt:  completed.Format(time.RFC3339),
	}, nil
}

// invoke 按分析类型调用引擎
func (s *AnalysisService) invoke(ctx context.Context, analysisType string, bundle *plantdata.Bundle, req *dto.AnalysisRequest) (interface{}, error) {
	switch analysisType {
	case plantdata.AnalysisAEP:
		iterations := req.Iterations
		if iterations <= 0 {
			iterations = 1000
		}
		if s.cfg.Analysis.MaxIterations > 0 && iterations > s.cfg.Analysis.MaxIterations {
			iterations = s.cfg.Analysis.MaxIterations
		}
		method := req.UncertaintyMethod
		if method == "" {
			method = "bootstrap"
		}
		return s.engine.RunAEP(ctx, bundle, openoa.AEPParams{
			Iterations:        iterations,
			UncertaintyMethod: method,
		})

	case plantdata.AnalysisElectricalLosses:
		threshold := req.LossThresholdPct
		if threshold <= 0 {
			threshold = 5.0
		}
		return s.engine.RunElectricalLosses(ctx, bundle, openoa.ElectricalLossesParams{
			LossThresholdPct: threshold,
		})

	case plantdata.AnalysisWakeLosses:
		binWidth := req.BinWidth
		if binWidth <= 0 {
			binWidth = 1.0
		}
		return s.engine.RunWakeLosses(ctx, bundle, openoa.WakeLossesParams{
			BinWidth: binWidth,
		})

	case plantdata.AnalysisTurbineIdealEnergy:
		useLT := true
		if req.UseLTDistribution != nil {
			useLT = *req.UseLTDistribution
		}
		return s.engine.RunTurbineIdealEnergy(ctx, bundle, openoa.TurbineIdealEnergyParams{
			UseLTDistribution: useLT,
		})

	case plantdata.AnalysisEYAGap:
		return s.engine.RunEYAGap(ctx, bundle, openoa.EYAGapParams{
			ExpectedAEPGwh: req.ExpectedAEPGwh,
		})
	}

	return nil, fmt.Errorf("未知的分析类型: %s", analysisType)
}

// fail 将运行记录置为 failed（error 非空 ⇔ status=failed）
func (s *AnalysisService) fail(run *model.AnalysisRun, message string) {
	completed := time.Now()
	run.Status = model.RunStatusFailed
	run.ErrorMessage = message
	run.CompletedAt = &completed
	if err := s.runRepo.Update(run); err != nil {
		log.Printf("Failed to persist failed run %s: %v", run.ID, err)
	}
}

// ListHistory 最近的分析运行记录
func (s *AnalysisService) ListHistory() ([]*dto.RunHistoryItem, error) {
	limit := s.cfg.Analysis.HistoryLimit
	runs, err := s.runRepo.ListRecent(limit)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.RunHistoryItem, len(runs))
	for i, run := range runs {
		items[i] = &dto.RunHistoryItem{
			ID:           run.ID,
			AnalysisType: run.AnalysisType,
			DatasetID:    run.DatasetID,
			Status:       run.Status,
			ErrorMessage: run.ErrorMessage,
			CreatedAt:    run.CreatedAt.Format(time.RFC3339),
		}
		if run.CompletedAt != nil {
			items[i].CompletedAt = run.CompletedAt.Format(time.RFC3339)
		}
	}
	return items, nil
}

func newRunID(analysisType string) string {
	prefix := runIDPrefix[analysisType]
	if prefix == "" {
		prefix = analysisType
	}
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:6]
	return fmt.Sprintf("%s_%s_%s", prefix, time.Now().Format("20060102_150405"), suffix)
}
