package dto

// AnalysisRequest 各分析端点的统一请求体。
// dataset 与 file_id 等价，均指向已上传数据集的 id，
// 缺省时使用内置示例数据集。
type AnalysisRequest struct {
	Iterations        int     `json:"iterations,omitempty" binding:"omitempty,min=100,max=10000"`
	UncertaintyMethod string  `json:"uncertainty_method,omitempty" binding:"omitempty,oneof=bootstrap jackknife"`
	FileID            string  `json:"file_id,omitempty"`
	Dataset           string  `json:"dataset,omitempty"`
	LossThresholdPct  float64 `json:"loss_threshold_pct,omitempty" binding:"omitempty,min=0,max=100"`
	BinWidth          float64 `json:"bin_width,omitempty" binding:"omitempty,min=0.5,max=5"`
	UseLTDistribution *bool   `json:"use_lt_distribution,omitempty"`
	ExpectedAEPGwh    float64 `json:"expected_aep_gwh,omitempty" binding:"omitempty,min=0"`
}

// DatasetID 解析请求引用的数据集 id，空串表示默认数据集
func (r *AnalysisRequest) DatasetID() string {
	if r.FileID != "" {
		return r.FileID
	}
	return r.Dataset
}

// AnalysisResponse 统一的分析响应包装
type AnalysisResponse struct {
	ID           string      `json:"id"`
	Status       string      `json:"status"`
	AnalysisType string      `json:"analysis_type"`
	Result       interface{} `json:"result"`
	CreatedAt    string      `json:"created_at"`
	CompletedAt  string      `json:"completed_at,omitempty"`
	Error        *string     `json:"error"`
}

// AnalysisTypeInfo 分析类型目录项
type AnalysisTypeInfo struct {
	Type        string `json:"type"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Endpoint    string `json:"endpoint"`
}

// RunHistoryItem 分析历史列表项
type RunHistoryItem struct {
	ID           string `json:"id"`
	AnalysisType string `json:"analysis_type"`
	DatasetID    string `json:"dataset_id"`
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message,omitempty"`
	CreatedAt    string `json:"created_at"`
	CompletedAt  string `json:"completed_at,omitempty"`
}
