package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/windoa/openoa_go_server/config"
	"github.com/windoa/openoa_go_server/internal/database"
	"github.com/windoa/openoa_go_server/internal/model"
)

var (
	dryRun       = flag.Bool("dry-run", true, "Dry run mode, don't actually delete files")
	expireHours  = flag.Int("expire-hours", 24, "Hours to keep uploaded datasets")
	cleanOrphans = flag.Bool("clean-orphans", true, "Clean files without a matching dataset row")
)

func main() {
	flag.Parse()

	log.Println("Starting cleanup task...")
	log.Printf("Mode: dry-run=%v", *dryRun)

	// 加载配置
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 连接数据库
	db, err := database.New(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	uploadDir := cfg.Upload.Dir
	totalSize := int64(0)
	totalFiles := 0
	deletedSize := int64(0)
	deletedFiles := 0

	// 1. 清理过期的数据集
	log.Printf("Cleaning expired datasets (older than %d hours)...", *expireHours)
	expireTime := time.Now().Add(-time.Duration(*expireHours) * time.Hour)

	var expired []model.Dataset
	err = db.Where("is_default = ? AND created_at < ?", false, expireTime).Find(&expired).Error
	if err != nil {
		log.Fatalf("Failed to query datasets: %v", err)
	}

	for _, dataset := range expired {
		log.Printf("  - %s (%s, %s, %s old)",
			dataset.ID,
			dataset.Filename,
			formatSize(dataset.FileSizeBytes),
			time.Since(dataset.CreatedAt).Round(time.Hour))

		deletedSize += dataset.FileSizeBytes
		if !*dryRun {
			if err := db.Delete(&model.Dataset{}, "id = ?", dataset.ID).Error; err != nil {
				log.Printf("    Failed to delete row: %v", err)
				continue
			}
			if dataset.StoredPath != "" {
				if err := os.Remove(dataset.StoredPath); err != nil && !os.IsNotExist(err) {
					log.Printf("    Failed to delete file: %v", err)
				}
			}
		}
		deletedFiles++
	}
	log.Printf("Found %d expired datasets (total: %s)", deletedFiles, formatSize(deletedSize))

	// 2. 清理没有库记录的孤儿文件
	if *cleanOrphans {
		log.Println("Cleaning orphan upload files...")
		size, count := cleanOrphanFiles(db, uploadDir, *dryRun)
		deletedSize += size
		deletedFiles += count
	}

	// 3. 统计当前占用
	log.Println("Scanning current disk usage...")
	filepath.Walk(uploadDir, func(path string, info os.FileInfo, err error) error {
		if err == nil && !info.IsDir() {
			totalSize += info.Size()
			totalFiles++
		}
		return nil
	})

	// 输出统计
	log.Println(strings.Repeat("=", 60))
	log.Println("Cleanup Summary")
	log.Println(strings.Repeat("=", 60))
	log.Printf("Total files: %d", totalFiles)
	log.Printf("Total size: %s", formatSize(totalSize))
	log.Printf("Deleted entries: %d", deletedFiles)
	log.Printf("Freed space: %s", formatSize(deletedSize))
	if *dryRun {
		log.Println("DRY RUN MODE - No files were actually deleted")
		log.Println("Run with -dry-run=false to actually delete files")
	} else {
		log.Println("Cleanup completed!")
	}
	log.Println(strings.Repeat("=", 60))
}

// cleanOrphanFiles 删除上传目录中没有对应数据集记录的文件
func cleanOrphanFiles(db *gorm.DB, uploadDir string, dryRun bool) (int64, int) {
	var paths []string
	if err := db.Model(&model.Dataset{}).Pluck("stored_path", &paths).Error; err != nil {
		log.Printf("Failed to list stored paths: %v", err)
		return 0, 0
	}
	known := make(map[string]bool, len(paths))
	for _, p := range paths {
		known[p] = true
	}

	entries, err := os.ReadDir(uploadDir)
	if err != nil {
		log.Printf("Failed to read upload dir: %v", err)
		return 0, 0
	}

	var totalSize int64
	var count int
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		full := filepath.Join(uploadDir, entry.Name())
		if known[full] {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		log.Printf("  - %s (%s, orphan)", entry.Name(), formatSize(info.Size()))
		totalSize += info.Size()
		if !dryRun {
			if err := os.Remove(full); err != nil {
				log.Printf("    Failed to delete: %v", err)
				continue
			}
		}
		count++
	}

	log.Printf("Found %d orphan files (total: %s)", count, formatSize(totalSize))
	return totalSize, count
}

// formatSize 格式化文件大小
func formatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
