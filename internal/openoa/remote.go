package openoa

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/windoa/openoa_go_server/internal/plantdata"
)

// RemoteEngine 通过 HTTP 调用外部 OpenOA 运行服务。
// 分析算法完全在对端执行，这里只做请求/响应转换。
type RemoteEngine struct {
	baseURL string
	client  *http.Client
	version string
}

func NewRemoteEngine(baseURL string, timeout time.Duration) *RemoteEngine {
	return &RemoteEngine{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		version: "remote",
	}
}

func (e *RemoteEngine) Version() string {
	return e.version
}

// remoteRequest 发送到对端的统一请求体
type remoteRequest struct {
	AnalysisType string            `json:"analysis_type"`
	Params       interface{}       `json:"params"`
	Plant        *plantdata.Bundle `json:"plant"`
}

func (e *RemoteEngine) post(ctx context.Context, analysisType string, params interface{}, bundle *plantdata.Bundle, out interface{}) error {
	body, err := json.Marshal(remoteRequest{
		AnalysisType: analysisType,
		Params:       params,
		Plant:        bundle,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/analysis/%s", e.baseURL, analysisType)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("openoa service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("openoa service error (%d): %s", resp.StatusCode, string(raw))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (e *RemoteEngine) RunAEP(ctx context.Context, bundle *plantdata.Bundle, params AEPParams) (*AEPResult, error) {
	var result AEPResult
	if err := e.post(ctx, plantdata.AnalysisAEP, params, bundle, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (e *RemoteEngine) RunElectricalLosses(ctx context.Context, bundle *plantdata.Bundle, params ElectricalLossesParams) (*ElectricalLossesResult, error) {
	var result ElectricalLossesResult
	if err := e.post(ctx, plantdata.AnalysisElectricalLosses, params, bundle, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (e *RemoteEngine) RunWakeLosses(ctx context.Context, bundle *plantdata.Bundle, params WakeLossesParams) (*WakeLossesResult, error) {
	var result WakeLossesResult
	if err := e.post(ctx, plantdata.AnalysisWakeLosses, params, bundle, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (e *RemoteEngine) RunTurbineIdealEnergy(ctx context.Context, bundle *plantdata.Bundle, params TurbineIdealEnergyParams) (*TurbineIdealEnergyResult, error) {
	var result TurbineIdealEnergyResult
	if err := e.post(ctx, plantdata.AnalysisTurbineIdealEnergy, params, bundle, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (e *RemoteEngine) RunEYAGap(ctx context.Context, bundle *plantdata.Bundle, params EYAGapParams) (*EYAGapResult, error) {
	var result EYAGapResult
	if err := e.post(ctx, plantdata.AnalysisEYAGap, params, bundle, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
