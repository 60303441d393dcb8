package cron

import (
	"log"
	"time"

	"github.com/windoa/openoa_go_server/internal/service"
)

// Service 后台定时清理：按固定间隔清除过期数据集与孤儿文件
type Service struct {
	datasetService  *service.DatasetService
	intervalMinutes int
	stopChan        chan struct{}
}

func NewService(datasetService *service.DatasetService, intervalMinutes int) *Service {
	return &Service{
		datasetService:  datasetService,
		intervalMinutes: intervalMinutes,
		stopChan:        make(chan struct{}),
	}
}

// Start 启动定时任务
func (s *Service) Start() {
	go s.runCleanup()
	log.Println("Cron service started (dataset eviction)")
}

// Stop 停止定时任务
func (s *Service) Stop() {
	close(s.stopChan)
	log.Println("Cron service stopped")
}

// runCleanup 按配置间隔执行清理
func (s *Service) runCleanup() {
	minutes := s.intervalMinutes
	if minutes <= 0 {
		minutes = 60
	}

	ticker := time.NewTicker(time.Duration(minutes) * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.cleanupAll()
		}
	}
}

// cleanupAll 执行所有清理任务
func (s *Service) cleanupAll() {
	expired, err := s.datasetService.DeleteExpired()
	if err != nil {
		log.Printf("Cleanup: failed to delete expired datasets: %v", err)
		return
	}
	orphans := s.datasetService.SweepOrphans()

	if expired+orphans > 0 {
		log.Printf("Cleanup summary: expired=%d, orphans=%d", expired, orphans)
	}
}

// RunNow 立即执行一次清理（用于测试或手动触发）
func (s *Service) RunNow() (int, error) {
	log.Println("Manual cleanup triggered...")
	expired, err := s.datasetService.DeleteExpired()
	if err != nil {
		return 0, err
	}
	return expired + s.datasetService.SweepOrphans(), nil
}
