package repository

import (
	"gorm.io/gorm"

	"github.com/windoa/openoa_go_server/internal/model"
)

type AnalysisRunRepository struct {
	db *gorm.DB
}

func NewAnalysisRunRepository(db *gorm.DB) *AnalysisRunRepository {
	return &AnalysisRunRepository{db: db}
}

func (r *AnalysisRunRepository) Create(run *model.AnalysisRun) error {
	return r.db.Create(run).Error
}

func (r *AnalysisRunRepository) Update(run *model.AnalysisRun) error {
	return r.db.Save(run).Error
}

func (r *AnalysisRunRepository) GetByID(id string) (*model.AnalysisRun, error) {
	var run model.AnalysisRun
	err := r.db.Where("id = ?", id).First(&run).Error
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// ListRecent 按创建时间倒序返回最近的运行记录
func (r *AnalysisRunRepository) ListRecent(limit int) ([]*model.AnalysisRun, error) {
	if limit <= 0 {
		limit = 50
	}
	var runs []*model.AnalysisRun
	err := r.db.Order("created_at DESC").Limit(limit).Find(&runs).Error
	return runs, err
}
