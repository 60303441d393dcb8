package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// DefaultDatasetID 内置示例数据集的固定标识
const DefaultDatasetID = "default"

// StringArray 用于 JSON 数组字段
type StringArray []string

func (s StringArray) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	return json.Marshal(s)
}

func (s *StringArray) Scan(value interface{}) error {
	if value == nil {
		*s = []string{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		if str, ok := value.(string); ok {
			return json.Unmarshal([]byte(str), s)
		}
		return nil
	}
	return json.Unmarshal(bytes, s)
}

// Dataset 已入库数据集的元数据。解析后的行缓存在内存，
// 原始文件落盘，这里只记录描述信息。
type Dataset struct {
	ID            string      `gorm:"primaryKey;size:64" json:"id"`
	Filename      string      `gorm:"size:255" json:"filename"`
	FileType      string      `gorm:"size:10" json:"file_type"` // csv, json
	StoredPath    string      `gorm:"size:500" json:"-"`
	RowCount      int         `json:"row_count"`
	Columns       StringArray `gorm:"type:json" json:"columns"`
	ExtraColumns  StringArray `gorm:"type:json" json:"extra_columns,omitempty"`
	FileSizeBytes int64       `json:"file_size_bytes"`
	IsDefault     bool        `gorm:"default:false" json:"is_default"`
	CreatedAt     time.Time   `json:"created_at"`
	ExpiresAt     *time.Time  `gorm:"index" json:"expires_at,omitempty"` // 默认数据集为 null，永不过期
}

func (Dataset) TableName() string {
	return "datasets"
}
