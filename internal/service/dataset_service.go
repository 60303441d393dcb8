package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/windoa/openoa_go_server/config"
	"github.com/windoa/openoa_go_server/internal/model"
	"github.com/windoa/openoa_go_server/internal/model/dto"
	"github.com/windoa/openoa_go_server/internal/plantdata"
	"github.com/windoa/openoa_go_server/internal/repository"
)

var (
	ErrFileTooLarge        = fmt.Errorf("文件过大")
	ErrUnsupportedFileType = fmt.Errorf("不支持的文件格式，仅支持 CSV 和 JSON")
	ErrDatasetNotFound     = fmt.Errorf("数据集不存在")
	ErrDefaultImmutable    = fmt.Errorf("内置示例数据集不可删除")
)

// legacyDefaultID 旧版前端使用的默认数据集 id，作为输入别名接受
const legacyDefaultID = "default_la_haute_borne"

// DatasetService 数据集注册表。元数据入库、原始文件落盘、
// 解析结果缓存在内存；所有映射变更都在互斥锁内完成，
// 读取方不会看到删除到一半的数据集。
type DatasetService struct {
	repo   *repository.DatasetRepository
	schema *plantdata.Schema
	cfg    *config.Config

	mu     sync.RWMutex
	tables map[string]*plantdata.Table

	plantMeta plantdata.PlantMetadata
}

func NewDatasetService(repo *repository.DatasetRepository, schema *plantdata.Schema, cfg *config.Config) *DatasetService {
	return &DatasetService{
		repo:   repo,
		schema: schema,
		cfg:    cfg,
		tables: make(map[string]*plantdata.Table),
	}
}

// PlantMetadata 返回风电场静态元数据（上传数据集沿用示例场的元数据）
func (s *DatasetService) PlantMetadata() plantdata.PlantMetadata {
	return s.plantMeta
}

// LoadDefault 启动时从内置示例数据构建默认数据集。
// 默认数据集 id 固定、不过期、不可删除。
func (s *DatasetService) LoadDefault() error {
	metaPath := filepath.Join(s.cfg.Sample.DataDir, "plant_meta.json")
	metaBytes, err := os.ReadFile(metaPath)
	if err != nil {
		return fmt.Errorf("failed to read plant metadata: %w", err)
	}
	if err := json.Unmarshal(metaBytes, &s.plantMeta); err != nil {
		return fmt.Errorf("failed to parse plant metadata: %w", err)
	}

	csvPath := filepath.Join(s.cfg.Sample.DataDir, "la_haute_borne.csv")
	content, err := os.ReadFile(csvPath)
	if err != nil {
		return fmt.Errorf("failed to read sample data: %w", err)
	}

	table, err := plantdata.ParseCSV(content, s.schema)
	if err != nil {
		return fmt.Errorf("failed to parse sample data: %w", err)
	}

	dataset := &model.Dataset{
		ID:            model.DefaultDatasetID,
		Filename:      filepath.Base(csvPath),
		FileType:      "csv",
		StoredPath:    csvPath,
		RowCount:      table.RowCount(),
		Columns:       table.Columns,
		ExtraColumns:  table.Extra,
		FileSizeBytes: int64(len(content)),
		IsDefault:     true,
		CreatedAt:     time.Now(),
	}

	if err := s.repo.Upsert(dataset); err != nil {
		return err
	}

	s.mu.Lock()
	s.tables[model.DefaultDatasetID] = table
	s.mu.Unlock()

	log.Printf("Default dataset loaded: %s (%d rows)", s.plantMeta.Name, table.RowCount())
	return nil
}

// Put 入库一个上传文件：校验大小与格式，解析并映射列名，
// 落盘原始文件，写入元数据，缓存解析结果。
func (s *DatasetService) Put(content []byte, filename string) (*model.Dataset, error) {
	// 大小上限在任何解析之前检查
	if int64(len(content)) > s.cfg.Upload.MaxSize {
		return nil, ErrFileTooLarge
	}

	ext := strings.ToLower(filepath.Ext(filename))
	allowed := false
	for _, allowedExt := range s.cfg.Upload.AllowedExtensions {
		if ext == allowedExt {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, ErrUnsupportedFileType
	}

	var table *plantdata.Table
	var err error
	fileType := strings.TrimPrefix(ext, ".")
	switch fileType {
	case "json":
		table, err = plantdata.ParseJSON(content, s.schema)
	default:
		table, err = plantdata.ParseCSV(content, s.schema)
	}
	if err != nil {
		return nil, err
	}

	id := uuid.New().String()
	storedPath := filepath.Join(s.cfg.Upload.Dir, id+ext)
	if err := os.MkdirAll(s.cfg.Upload.Dir, 0755); err != nil {
		return nil, err
	}
	if err := os.WriteFile(storedPath, content, 0644); err != nil {
		return nil, err
	}

	expireHours := s.cfg.Upload.ExpireHours
	if expireHours <= 0 {
		expireHours = 24
	}
	expiresAt := time.Now().Add(time.Duration(expireHours) * time.Hour)

	dataset := &model.Dataset{
		ID:            id,
		Filename:      filename,
		FileType:      fileType,
		StoredPath:    storedPath,
		RowCount:      table.RowCount(),
		Columns:       table.Columns,
		ExtraColumns:  table.Extra,
		FileSizeBytes: int64(len(content)),
		ExpiresAt:     &expiresAt,
	}

	if err := s.repo.Create(dataset); err != nil {
		os.Remove(storedPath)
		return nil, err
	}

	s.mu.Lock()
	s.tables[id] = table
	s.mu.Unlock()

	return dataset, nil
}

// Get 按 id 取数据集。空串与旧版别名解析为默认数据集；
// 内存未命中时从落盘文件重建（进程重启后恢复）。
func (s *DatasetService) Get(id string) (*model.Dataset, *plantdata.Table, error) {
	id = s.resolveID(id)

	dataset, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrDatasetNotFound
		}
		return nil, nil, err
	}

	s.mu.RLock()
	table, ok := s.tables[id]
	s.mu.RUnlock()
	if ok {
		return dataset, table, nil
	}

	table, err = s.reload(dataset)
	if err != nil {
		return nil, nil, err
	}
	return dataset, table, nil
}

// reload 从落盘文件重新解析并回填缓存
func (s *DatasetService) reload(dataset *model.Dataset) (*plantdata.Table, error) {
	content, err := os.ReadFile(dataset.StoredPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrDatasetNotFound
		}
		return nil, err
	}

	var table *plantdata.Table
	if dataset.FileType == "json" {
		table, err = plantdata.ParseJSON(content, s.schema)
	} else {
		table, err = plantdata.ParseCSV(content, s.schema)
	}
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.tables[dataset.ID] = table
	s.mu.Unlock()
	return table, nil
}

func (s *DatasetService) resolveID(id string) string {
	if id == "" || id == legacyDefaultID {
		return model.DefaultDatasetID
	}
	return id
}

// ListIDs 返回全部数据集 id，默认数据集在前
func (s *DatasetService) ListIDs() ([]string, error) {
	return s.repo.ListIDs()
}

// Delete 删除一个上传数据集。默认数据集不可删除。
func (s *DatasetService) Delete(id string) error {
	id = s.resolveID(id)
	if id == model.DefaultDatasetID {
		return ErrDefaultImmutable
	}

	dataset, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDatasetNotFound
		}
		return err
	}

	s.remove(dataset)
	return nil
}

// remove 先摘除注册表项，再释放磁盘文件，
// 并发读取方要么拿到完整数据集要么 NotFound。
func (s *DatasetService) remove(dataset *model.Dataset) {
	s.mu.Lock()
	delete(s.tables, dataset.ID)
	if err := s.repo.Delete(dataset.ID); err != nil {
		log.Printf("Failed to delete dataset row %s: %v", dataset.ID, err)
	}
	s.mu.Unlock()

	if dataset.StoredPath != "" && !dataset.IsDefault {
		if err := os.Remove(dataset.StoredPath); err != nil && !os.IsNotExist(err) {
			log.Printf("Failed to remove dataset file %s: %v", dataset.StoredPath, err)
		}
	}
}

// DeleteExpired 清理所有已过期数据集，返回清理数量
func (s *DatasetService) DeleteExpired() (int, error) {
	expired, err := s.repo.ListExpired(time.Now())
	if err != nil {
		return 0, err
	}

	for _, dataset := range expired {
		s.remove(dataset)
	}

	if len(expired) > 0 {
		log.Printf("Expired datasets removed: %d", len(expired))
	}
	return len(expired), nil
}

// SweepOrphans 删除上传目录中没有对应库记录的文件
func (s *DatasetService) SweepOrphans() int {
	paths, err := s.repo.ListStoredPaths()
	if err != nil {
		log.Printf("Orphan sweep: failed to list stored paths: %v", err)
		return 0
	}
	known := make(map[string]bool, len(paths))
	for _, p := range paths {
		known[p] = true
	}

	entries, err := os.ReadDir(s.cfg.Upload.Dir)
	if err != nil {
		return 0
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		full := filepath.Join(s.cfg.Upload.Dir, entry.Name())
		if !known[full] {
			if err := os.Remove(full); err == nil {
				removed++
			}
		}
	}
	return removed
}

// Count 数据集总数
func (s *DatasetService) Count() (int64, error) {
	return s.repo.Count()
}

// SampleSummary 默认数据集概要
func (s *DatasetService) SampleSummary() (*dto.SampleDataSummary, error) {
	dataset, _, err := s.Get(model.DefaultDatasetID)
	if err != nil {
		return nil, err
	}

	return &dto.SampleDataSummary{
		PlantName:         s.plantMeta.Name,
		CapacityMW:        s.plantMeta.CapacityMW,
		NumTurbines:       len(s.plantMeta.AssetList),
		RowCount:          dataset.RowCount,
		Columns:           dataset.Columns,
		DataAvailable:     true,
		Description:       "Sample SCADA data from La Haute Borne wind plant",
		AnalysesAvailable: plantdata.AnalysisTypes,
	}, nil
}
