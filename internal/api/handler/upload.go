package handler

import (
	"errors"
	"fmt"
	"io"

	"github.com/gin-gonic/gin"

	"github.com/windoa/openoa_go_server/config"
	"github.com/windoa/openoa_go_server/internal/model/dto"
	"github.com/windoa/openoa_go_server/internal/pkg/response"
	"github.com/windoa/openoa_go_server/internal/plantdata"
	"github.com/windoa/openoa_go_server/internal/service"
)

type UploadHandler struct {
	datasetService *service.DatasetService
	cfg            *config.Config
}

func NewUploadHandler(datasetService *service.DatasetService, cfg *config.Config) *UploadHandler {
	return &UploadHandler{
		datasetService: datasetService,
		cfg:            cfg,
	}
}

// Upload 上传风电场数据文件（CSV 或 JSON）
// POST /api/v1/upload-plant-data
func (h *UploadHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		response.BadRequest(c, "请上传文件")
		return
	}
	defer file.Close()

	// 大小上限在读取内容之前检查
	if header.Size > h.cfg.Upload.MaxSize {
		response.BadRequest(c, fmt.Sprintf("文件过大，最大支持 %dMB", h.cfg.Upload.MaxSize/1024/1024))
		return
	}

	content, err := io.ReadAll(io.LimitReader(file, h.cfg.Upload.MaxSize+1))
	if err != nil {
		response.ServerError(c, "文件读取失败")
		return
	}

	dataset, err := h.datasetService.Put(content, header.Filename)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFileTooLarge),
			errors.Is(err, service.ErrUnsupportedFileType),
			errors.Is(err, plantdata.ErrInvalidFormat),
			errors.Is(err, plantdata.ErrEmptyFile),
			errors.Is(err, plantdata.ErrMissingRequiredColumn):
			response.BadRequest(c, err.Error())
		default:
			response.ServerError(c, "文件处理失败")
		}
		return
	}

	response.Success(c, dto.UploadPlantDataResponse{
		Status:        "success",
		Message:       "File uploaded and stored successfully",
		FileID:        dataset.ID,
		Filename:      dataset.Filename,
		FileType:      dataset.FileType,
		RowCount:      dataset.RowCount,
		Columns:       dataset.Columns,
		ExtraColumns:  dataset.ExtraColumns,
		FileSizeBytes: dataset.FileSizeBytes,
	})
}

// Cleanup 手动触发过期数据集清理
// POST /api/v1/cleanup-old-files
func (h *UploadHandler) Cleanup(c *gin.Context) {
	removed, err := h.datasetService.DeleteExpired()
	if err != nil {
		response.ServerError(c, "清理失败")
		return
	}
	removed += h.datasetService.SweepOrphans()

	remaining, err := h.datasetService.Count()
	if err != nil {
		response.ServerError(c, "清理失败")
		return
	}

	response.Success(c, dto.CleanupResponse{
		Status:         "success",
		Message:        "Cleanup completed",
		FilesRemoved:   removed,
		FilesRemaining: int(remaining),
	})
}
