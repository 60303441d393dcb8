package plantdata

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

var ErrIncompleteSchema = fmt.Errorf("数据集缺少该分析所需的字段")

// 分析类型
const (
	AnalysisAEP                = "aep"
	AnalysisElectricalLosses   = "electrical_losses"
	AnalysisWakeLosses         = "wake_losses"
	AnalysisTurbineIdealEnergy = "turbine_ideal_energy"
	AnalysisEYAGap             = "eya_gap"
)

// requiredByAnalysis 各分析类型所需的规范字段集合。
// 校验推迟到分析执行前：字段是否充足取决于分析类型而非数据集本身。
var requiredByAnalysis = map[string][]string{
	AnalysisAEP:                {FieldTime, FieldPower, FieldWindSpeed},
	AnalysisElectricalLosses:   {FieldTime, FieldPower, FieldEnergyKWh},
	AnalysisWakeLosses:         {FieldTime, FieldPower, FieldWindSpeed, FieldWindDirection, FieldAssetID},
	AnalysisTurbineIdealEnergy: {FieldTime, FieldPower, FieldWindSpeed, FieldAssetID},
	AnalysisEYAGap:             {FieldTime, FieldPower, FieldWindSpeed},
}

// AnalysisTypes 全部分析类型，固定顺序
var AnalysisTypes = []string{
	AnalysisAEP,
	AnalysisElectricalLosses,
	AnalysisWakeLosses,
	AnalysisTurbineIdealEnergy,
	AnalysisEYAGap,
}

// IsAnalysisType 判断是否为合法的分析类型
func IsAnalysisType(t string) bool {
	_, ok := requiredByAnalysis[t]
	return ok
}

// PlantMetadata 风电场静态元数据
type PlantMetadata struct {
	Name       string  `json:"name"`
	CapacityMW float64 `json:"capacity"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	AssetList  []Asset `json:"asset_list"`
}

// Asset 单台机组
type Asset struct {
	Name       string  `json:"name"`
	CapacityKW float64 `json:"capacity_kw"`
	Latitude   float64 `json:"latitude,omitempty"`
	Longitude  float64 `json:"longitude,omitempty"`
}

// SCADARecord 单条 SCADA 时序记录
type SCADARecord struct {
	Time          time.Time
	AssetID       string
	PowerKW       float64
	WindSpeed     float64
	WindDirection float64
	Temperature   float64
	PitchAngle    float64
}

// MeterRecord 关口表计读数
type MeterRecord struct {
	Time      time.Time
	EnergyKWh float64
}

// CurtailmentRecord 限电/可用率记录
type CurtailmentRecord struct {
	Time            time.Time
	CurtailmentPct  float64
	AvailabilityPct float64
}

// ReanalysisRecord 再分析参考序列
type ReanalysisRecord struct {
	Time      time.Time
	WindSpeed float64
	Density   float64
}

// Bundle 分析引擎要求的复合对象：元数据 + 四张子表。
// 每次分析调用时重建，不做缓存。
type Bundle struct {
	Metadata    PlantMetadata
	Assets      []Asset
	SCADA       []SCADARecord
	Meter       []MeterRecord
	Curtailment []CurtailmentRecord
	Reanalysis  []ReanalysisRecord
}

// MeanPowerKW SCADA 功率均值，无数据时返回 0
func (b *Bundle) MeanPowerKW() float64 {
	if len(b.SCADA) == 0 {
		return 0
	}
	var sum float64
	for _, r := range b.SCADA {
		sum += r.PowerKW
	}
	return sum / float64(len(b.SCADA))
}

// TotalMeterKWh 表计电量合计
func (b *Bundle) TotalMeterKWh() float64 {
	var sum float64
	for _, r := range b.Meter {
		sum += r.EnergyKWh
	}
	return sum
}

// ValidateFor 校验表的字段是否满足指定分析类型。
// 机组位置由元数据资产表提供，不要求数据列。
func ValidateFor(analysisType string, table *Table) error {
	required, ok := requiredByAnalysis[analysisType]
	if !ok {
		return fmt.Errorf("未知的分析类型: %s", analysisType)
	}

	var missing []string
	for _, field := range required {
		if !table.HasColumn(field) {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("%w: %s", ErrIncompleteSchema, strings.Join(missing, ", "))
	}
	return nil
}

// Build 将映射后的表拆分为分析引擎所需的子表。
// 无法解析的数值按缺失处理；时间无法解析的行被跳过。
func Build(table *Table, meta PlantMetadata) (*Bundle, error) {
	if table == nil || len(table.Rows) == 0 {
		return nil, ErrEmptyFile
	}

	bundle := &Bundle{
		Metadata: meta,
		Assets:   meta.AssetList,
	}

	hasMeter := table.HasColumn(FieldEnergyKWh)
	hasCurtailment := table.HasColumn(FieldCurtailmentPct) || table.HasColumn(FieldAvailabilityPct)
	hasReanalysis := table.HasColumn(FieldReanalysisWindSpd)

	assetPositions := make(map[string]bool)

	for _, row := range table.Rows {
		ts, ok := parseTime(row[FieldTime])
		if !ok {
			continue
		}

		scada := SCADARecord{Time: ts, AssetID: row[FieldAssetID]}
		if v, ok := parseFloat(row[FieldPower]); ok {
			scada.PowerKW = v
		}
		if v, ok := parseFloat(row[FieldWindSpeed]); ok {
			scada.WindSpeed = v
		}
		if v, ok := parseFloat(row[FieldWindDirection]); ok {
			scada.WindDirection = v
		}
		if v, ok := parseFloat(row[FieldTemperature]); ok {
			scada.Temperature = v
		}
		if v, ok := parseFloat(row[FieldPitchAngle]); ok {
			scada.PitchAngle = v
		}
		bundle.SCADA = append(bundle.SCADA, scada)

		if hasMeter {
			if v, ok := parseFloat(row[FieldEnergyKWh]); ok {
				bundle.Meter = append(bundle.Meter, MeterRecord{Time: ts, EnergyKWh: v})
			}
		}

		if hasCurtailment {
			rec := CurtailmentRecord{Time: ts}
			filled := false
			if v, ok := parseFloat(row[FieldCurtailmentPct]); ok {
				rec.CurtailmentPct = v
				filled = true
			}
			if v, ok := parseFloat(row[FieldAvailabilityPct]); ok {
				rec.AvailabilityPct = v
				filled = true
			}
			if filled {
				bundle.Curtailment = append(bundle.Curtailment, rec)
			}
		}

		if hasReanalysis {
			rec := ReanalysisRecord{Time: ts}
			if v, ok := parseFloat(row[FieldReanalysisWindSpd]); ok {
				rec.WindSpeed = v
				if d, ok := parseFloat(row[FieldReanalysisDensity]); ok {
					rec.Density = d
				}
				bundle.Reanalysis = append(bundle.Reanalysis, rec)
			}
		}

		// 数据列中带机组坐标时，补充资产表
		if scada.AssetID != "" && !assetPositions[scada.AssetID] {
			lat, okLat := parseFloat(row[FieldLatitude])
			lon, okLon := parseFloat(row[FieldLongitude])
			if okLat && okLon && !metaHasAsset(meta, scada.AssetID) {
				bundle.Assets = append(bundle.Assets, Asset{
					Name:      scada.AssetID,
					Latitude:  lat,
					Longitude: lon,
				})
			}
			assetPositions[scada.AssetID] = true
		}
	}

	if len(bundle.SCADA) == 0 {
		return nil, fmt.Errorf("%w: 没有可解析的时间戳", ErrInvalidFormat)
	}

	return bundle, nil
}

func metaHasAsset(meta PlantMetadata, name string) bool {
	for _, a := range meta.AssetList {
		if a.Name == name {
			return true
		}
	}
	return false
}
