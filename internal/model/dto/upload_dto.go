package dto

// UploadPlantDataResponse 上传风电场数据的响应
type UploadPlantDataResponse struct {
	Status        string   `json:"status"`
	Message       string   `json:"message"`
	FileID        string   `json:"file_id"`
	Filename      string   `json:"filename"`
	FileType      string   `json:"file_type"`
	RowCount      int      `json:"row_count"`
	Columns       []string `json:"columns"`
	ExtraColumns  []string `json:"extra_columns,omitempty"`
	FileSizeBytes int64    `json:"file_size_bytes"`
}

// CleanupResponse 手动清理过期文件的响应
type CleanupResponse struct {
	Status         string `json:"status"`
	Message        string `json:"message"`
	FilesRemoved   int    `json:"files_removed"`
	FilesRemaining int    `json:"files_remaining"`
}
