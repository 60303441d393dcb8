package plantdata

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInvalidFormat = fmt.Errorf("文件格式错误或无法解析")
	ErrEmptyFile     = fmt.Errorf("文件内容为空")
)

// Table 已完成列名映射的解析结果。值保留为字符串，
// 数值解析推迟到 Build 阶段。
type Table struct {
	Columns []string            // 规范字段，按首次出现顺序
	Extra   []string            // 未识别的原始列名
	Rows    []map[string]string // 规范字段 -> 原始值
}

func (t *Table) RowCount() int {
	return len(t.Rows)
}

// HasColumn 判断表中是否存在某个规范字段
func (t *Table) HasColumn(field string) bool {
	for _, c := range t.Columns {
		if c == field {
			return true
		}
	}
	return false
}

// ParseCSV 解析 CSV 内容并应用列名映射
func ParseCSV(content []byte, schema *Schema) (*Table, error) {
	reader := csv.NewReader(bytes.NewReader(content))
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, ErrEmptyFile
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	mapping, err := schema.Map(headers)
	if err != nil {
		return nil, err
	}

	table := &Table{
		Columns: mapping.Canonical(),
		Extra:   mapping.Extra,
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}

		row := make(map[string]string, len(table.Columns))
		for i, h := range headers {
			if i >= len(record) {
				break
			}
			if canonical, ok := mapping.Fields[h]; ok {
				row[canonical] = strings.TrimSpace(record[i])
			}
		}
		table.Rows = append(table.Rows, row)
	}

	if len(table.Rows) == 0 {
		return nil, ErrEmptyFile
	}

	return table, nil
}

// ParseJSON 解析 JSON 数组（对象键视为列名）并应用列名映射
func ParseJSON(content []byte, schema *Schema) (*Table, error) {
	var records []map[string]interface{}
	if err := json.Unmarshal(content, &records); err != nil {
		// 兼容单对象
		var single map[string]interface{}
		if err2 := json.Unmarshal(content, &single); err2 != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
		records = []map[string]interface{}{single}
	}

	if len(records) == 0 {
		return nil, ErrEmptyFile
	}

	// 用首行的键作为表头
	var headers []string
	for k := range records[0] {
		headers = append(headers, k)
	}

	mapping, err := schema.Map(headers)
	if err != nil {
		return nil, err
	}

	table := &Table{
		Columns: mapping.Canonical(),
		Extra:   mapping.Extra,
	}

	for _, record := range records {
		row := make(map[string]string, len(table.Columns))
		for k, v := range record {
			canonical, ok := mapping.Fields[k]
			if !ok {
				continue
			}
			row[canonical] = stringify(v)
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

func stringify(v interface{}) string {
	switch value := v.(type) {
	case string:
		return value
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(value)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", value)
	}
}

// timeLayouts 支持的时间格式，按常见程度排序
var timeLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// parseTime 尝试多种时间格式
func parseTime(value string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// parseFloat 宽容的数值解析，空串和非法值返回 false
func parseFloat(value string) (float64, bool) {
	if value == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
