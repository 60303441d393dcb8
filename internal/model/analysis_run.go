package model

import "time"

// 分析运行状态机：pending → running → {completed, failed}
const (
	RunStatusPending   = "pending"
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// AnalysisRun 单次分析的运行记录
type AnalysisRun struct {
	ID           string     `gorm:"primaryKey;size:64" json:"id"`
	AnalysisType string     `gorm:"size:30;not null;index" json:"analysis_type"`
	DatasetID    string     `gorm:"size:64;index" json:"dataset_id"`
	Status       string     `gorm:"size:20;not null;index" json:"status"`
	ResultJSON   string     `gorm:"type:text" json:"-"`
	ErrorMessage string     `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt    time.Time  `gorm:"index" json:"created_at"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

func (AnalysisRun) TableName() string {
	return "analysis_runs"
}
