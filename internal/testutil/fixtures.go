package testutil

import (
	"fmt"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/windoa/openoa_go_server/internal/model"
)

// TestDataset 创建测试数据集记录
func TestDataset(t *testing.T, db *gorm.DB, opts ...func(*model.Dataset)) *model.Dataset {
	t.Helper()

	expiresAt := time.Now().Add(24 * time.Hour)
	dataset := &model.Dataset{
		ID:            fmt.Sprintf("test_%d", time.Now().UnixNano()),
		Filename:      "scada.csv",
		FileType:      "csv",
		RowCount:      10,
		Columns:       model.StringArray{"time", "power"},
		FileSizeBytes: 1024,
		CreatedAt:     time.Now(),
		ExpiresAt:     &expiresAt,
	}

	for _, opt := range opts {
		opt(dataset)
	}

	if err := db.Create(dataset).Error; err != nil {
		t.Fatalf("Failed to create test dataset: %v", err)
	}

	return dataset
}

// WithID 设置数据集 id
func WithID(id string) func(*model.Dataset) {
	return func(d *model.Dataset) {
		d.ID = id
	}
}

// WithExpiry 设置过期时间
func WithExpiry(at time.Time) func(*model.Dataset) {
	return func(d *model.Dataset) {
		d.ExpiresAt = &at
	}
}

// AsDefault 标记为内置默认数据集（不过期）
func AsDefault() func(*model.Dataset) {
	return func(d *model.Dataset) {
		d.ID = model.DefaultDatasetID
		d.IsDefault = true
		d.ExpiresAt = nil
	}
}

// TestRun 创建测试分析运行记录
func TestRun(t *testing.T, db *gorm.DB, opts ...func(*model.AnalysisRun)) *model.AnalysisRun {
	t.Helper()

	run := &model.AnalysisRun{
		ID:           fmt.Sprintf("aep_%d", time.Now().UnixNano()),
		AnalysisType: "aep",
		DatasetID:    model.DefaultDatasetID,
		Status:       model.RunStatusCompleted,
		CreatedAt:    time.Now(),
	}

	for _, opt := range opts {
		opt(run)
	}

	if err := db.Create(run).Error; err != nil {
		t.Fatalf("Failed to create test run: %v", err)
	}

	return run
}

// WithStatus 设置运行状态
func WithStatus(status string) func(*model.AnalysisRun) {
	return func(r *model.AnalysisRun) {
		r.Status = status
	}
}
