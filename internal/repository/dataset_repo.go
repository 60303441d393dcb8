package repository

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/windoa/openoa_go_server/internal/model"
)

type DatasetRepository struct {
	db *gorm.DB
}

func NewDatasetRepository(db *gorm.DB) *DatasetRepository {
	return &DatasetRepository{db: db}
}

func (r *DatasetRepository) Create(dataset *model.Dataset) error {
	return r.db.Create(dataset).Error
}

// Upsert 按主键覆盖写入（默认数据集启动时重建）
func (r *DatasetRepository) Upsert(dataset *model.Dataset) error {
	return r.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(dataset).Error
}

func (r *DatasetRepository) GetByID(id string) (*model.Dataset, error) {
	var dataset model.Dataset
	err := r.db.Where("id = ?", id).First(&dataset).Error
	if err != nil {
		return nil, err
	}
	return &dataset, nil
}

func (r *DatasetRepository) Delete(id string) error {
	return r.db.Delete(&model.Dataset{}, "id = ?", id).Error
}

// ListIDs 返回全部数据集 id，默认数据集排在最前
func (r *DatasetRepository) ListIDs() ([]string, error) {
	var ids []string
	err := r.db.Model(&model.Dataset{}).
		Order("is_default DESC, created_at ASC").
		Pluck("id", &ids).Error
	return ids, err
}

// ListExpired 返回已过期的非默认数据集
func (r *DatasetRepository) ListExpired(now time.Time) ([]*model.Dataset, error) {
	var datasets []*model.Dataset
	err := r.db.Where("is_default = ? AND expires_at IS NOT NULL AND expires_at < ?", false, now).
		Find(&datasets).Error
	return datasets, err
}

func (r *DatasetRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.Dataset{}).Count(&count).Error
	return count, err
}

// ListStoredPaths 返回所有在库文件路径，用于孤儿文件清理
func (r *DatasetRepository) ListStoredPaths() ([]string, error) {
	var paths []string
	err := r.db.Model(&model.Dataset{}).
		Where("stored_path <> ''").
		Pluck("stored_path", &paths).Error
	return paths, err
}
