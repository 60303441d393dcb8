package dto

// SampleDataSummary 内置示例数据集概要
type SampleDataSummary struct {
	PlantName         string   `json:"plant_name"`
	CapacityMW        float64  `json:"capacity_mw"`
	NumTurbines       int      `json:"num_turbines"`
	RowCount          int      `json:"row_count"`
	Columns           []string `json:"columns"`
	DataAvailable     bool     `json:"data_available"`
	Description       string   `json:"description"`
	AnalysesAvailable []string `json:"analyses_available"`
}

// DatasetListResponse 数据集 id 列表
type DatasetListResponse struct {
	Datasets []string `json:"datasets"`
}

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status        string `json:"status"`
	Version       string `json:"version"`
	OpenOAVersion string `json:"openoa_version,omitempty"`
	Timestamp     string `json:"timestamp"`
}

// InfoResponse API 信息响应
type InfoResponse struct {
	Name          string `json:"name"`
	Version       string `json:"version"`
	Environment   string `json:"environment"`
	OpenOAVersion string `json:"openoa_version,omitempty"`
}
