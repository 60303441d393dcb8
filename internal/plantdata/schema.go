package plantdata

import (
	"fmt"
	"strings"
)

// 规范字段名（OpenOA 数据模式）
const (
	FieldTime              = "time"
	FieldAssetID           = "asset_id"
	FieldPower             = "power"
	FieldWindSpeed         = "wind_speed"
	FieldWindDirection     = "wind_direction"
	FieldTemperature       = "temperature"
	FieldPitchAngle        = "pitch_angle"
	FieldEnergyKWh         = "energy_kwh"
	FieldCurtailmentPct    = "curtailment_pct"
	FieldAvailabilityPct   = "availability_pct"
	FieldLatitude          = "latitude"
	FieldLongitude         = "longitude"
	FieldReanalysisWindSpd = "reanalysis_wind_speed"
	FieldReanalysisDensity = "reanalysis_density"
)

var (
	ErrMissingRequiredColumn = fmt.Errorf("缺少必需的数据列")
)

// requiredFields 入库时必须映射到的规范字段
var requiredFields = []string{FieldTime, FieldPower}

// optionalFields 其余可识别的规范字段
var optionalFields = []string{
	FieldAssetID,
	FieldWindSpeed,
	FieldWindDirection,
	FieldTemperature,
	FieldPitchAngle,
	FieldEnergyKWh,
	FieldCurtailmentPct,
	FieldAvailabilityPct,
	FieldLatitude,
	FieldLongitude,
	FieldReanalysisWindSpd,
	FieldReanalysisDensity,
}

// defaultAliases 默认列名别名表（键为小写）。
// 覆盖 La Haute Borne SCADA 导出以及常见的上传列名写法。
var defaultAliases = map[string]string{
	"date_time":         FieldTime,
	"datetime":          FieldTime,
	"timestamp":         FieldTime,
	"wind_turbine_name": FieldAssetID,
	"turbine":           FieldAssetID,
	"turbine_id":        FieldAssetID,
	"p_avg":             FieldPower,
	"power_kw":          FieldPower,
	"active_power":      FieldPower,
	"ws_avg":            FieldWindSpeed,
	"windspeed":         FieldWindSpeed,
	"wind_speed_ms":     FieldWindSpeed,
	"wa_avg":            FieldWindDirection,
	"wind_dir":          FieldWindDirection,
	"ot_avg":            FieldTemperature,
	"temp":              FieldTemperature,
	"ba_avg":            FieldPitchAngle,
	"energy_kwh":        FieldEnergyKWh,
	"net_energy_kwh":    FieldEnergyKWh,
	"mmtr_supwh":        FieldEnergyKWh,
	"curtail_pct":       FieldCurtailmentPct,
	"avail_pct":         FieldAvailabilityPct,
	"lat":               FieldLatitude,
	"lon":               FieldLongitude,
	"lng":               FieldLongitude,
	"ws_era5":           FieldReanalysisWindSpd,
	"windspeed_era5":    FieldReanalysisWindSpd,
	"ws_merra2":         FieldReanalysisWindSpd,
	"dens_era5":         FieldReanalysisDensity,
	"density_era5":      FieldReanalysisDensity,
}

// Schema 列名映射表。别名表加载一次，之后只读。
type Schema struct {
	aliases map[string]string // 小写原始列名 -> 规范字段
}

// NewSchema 构建映射表，extra 中的别名会覆盖默认表
func NewSchema(extra map[string]string) *Schema {
	aliases := make(map[string]string, len(defaultAliases)+len(optionalFields)+len(extra))
	for k, v := range defaultAliases {
		aliases[k] = v
	}
	// 规范字段名自身也参与匹配（大小写不敏感）
	for _, f := range requiredFields {
		aliases[f] = f
	}
	for _, f := range optionalFields {
		aliases[f] = f
	}
	for k, v := range extra {
		aliases[strings.ToLower(k)] = v
	}
	return &Schema{aliases: aliases}
}

// Mapping 一次列名映射的结果
type Mapping struct {
	Fields map[string]string // 原始列名 -> 规范字段
	Extra  []string          // 未识别的原始列名
}

// Canonical 返回映射后的规范字段集合（按原始列顺序去重）
func (m Mapping) Canonical() []string {
	seen := make(map[string]bool, len(m.Fields))
	var out []string
	for _, canonical := range m.Fields {
		if !seen[canonical] {
			seen[canonical] = true
			out = append(out, canonical)
		}
	}
	return out
}

// Has 判断某个规范字段是否已映射
func (m Mapping) Has(field string) bool {
	for _, canonical := range m.Fields {
		if canonical == field {
			return true
		}
	}
	return false
}

// Map 将原始列名映射到规范字段。只改名，不做类型转换。
// 缺少必需字段时返回 ErrMissingRequiredColumn 并指出字段名。
func (s *Schema) Map(headers []string) (Mapping, error) {
	mapping := Mapping{Fields: make(map[string]string, len(headers))}

	for _, h := range headers {
		key := strings.ToLower(strings.TrimSpace(h))
		if canonical, ok := s.aliases[key]; ok {
			mapping.Fields[h] = canonical
		} else {
			mapping.Extra = append(mapping.Extra, h)
		}
	}

	for _, required := range requiredFields {
		if !mapping.Has(required) {
			return Mapping{}, fmt.Errorf("%w: %s", ErrMissingRequiredColumn, required)
		}
	}

	return mapping, nil
}
