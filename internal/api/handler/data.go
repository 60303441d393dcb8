package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/windoa/openoa_go_server/internal/model/dto"
	"github.com/windoa/openoa_go_server/internal/pkg/response"
	"github.com/windoa/openoa_go_server/internal/service"
)

type DataHandler struct {
	datasetService *service.DatasetService
}

func NewDataHandler(datasetService *service.DatasetService) *DataHandler {
	return &DataHandler{datasetService: datasetService}
}

// Sample 内置示例数据集概要
// GET /api/v1/sample-data
func (h *DataHandler) Sample(c *gin.Context) {
	summary, err := h.datasetService.SampleSummary()
	if err != nil {
		response.ServerError(c, "示例数据不可用")
		return
	}
	response.Success(c, summary)
}

// SampleMetadata 风电场完整元数据
// GET /api/v1/sample-data/metadata
func (h *DataHandler) SampleMetadata(c *gin.Context) {
	response.Success(c, h.datasetService.PlantMetadata())
}

// List 全部数据集 id
// GET /api/v1/datasets
func (h *DataHandler) List(c *gin.Context) {
	ids, err := h.datasetService.ListIDs()
	if err != nil {
		response.ServerError(c, "")
		return
	}
	response.Success(c, dto.DatasetListResponse{Datasets: ids})
}

// Delete 删除一个上传数据集
// DELETE /api/v1/datasets/:id
func (h *DataHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	err := h.datasetService.Delete(id)
	switch {
	case err == nil:
		response.Success(c, gin.H{"status": "success", "deleted": id})
	case errors.Is(err, service.ErrDefaultImmutable):
		response.Conflict(c, err.Error())
	case errors.Is(err, service.ErrDatasetNotFound):
		response.NotFound(c, err.Error())
	default:
		response.ServerError(c, "")
	}
}
