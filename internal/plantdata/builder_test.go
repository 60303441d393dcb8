package plantdata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMeta() PlantMetadata {
	return PlantMetadata{
		Name:       "Test Plant",
		CapacityMW: 8.2,
		Latitude:   48.45,
		Longitude:  5.59,
		AssetList: []Asset{
			{Name: "T01", CapacityKW: 2050},
			{Name: "T02", CapacityKW: 2050},
		},
	}
}

func fullTable(t *testing.T) *Table {
	t.Helper()

	content := `Wind_turbine_name,Date_time,P_avg,Ws_avg,Wa_avg,Energy_kWh
T01,2014-01-01 00:00:00,642.78,7.12,221.5,107.13
T02,2014-01-01 00:00:00,598.12,6.98,219.8,99.69
T01,2014-01-01 00:10:00,688.31,7.34,224.1,114.72
`
	table, err := ParseCSV([]byte(content), NewSchema(nil))
	require.NoError(t, err)
	return table
}

func TestValidateFor(t *testing.T) {
	table := fullTable(t)

	for _, analysisType := range AnalysisTypes {
		assert.NoError(t, ValidateFor(analysisType, table), analysisType)
	}
}

func TestValidateForIncompleteSchema(t *testing.T) {
	// 只有 time + power
	content := "Date_time,P_avg\n2014-01-01 00:00:00,642.78\n"
	table, err := ParseCSV([]byte(content), NewSchema(nil))
	require.NoError(t, err)

	tests := []struct {
		analysisType string
		missing      []string
	}{
		{AnalysisAEP, []string{FieldWindSpeed}},
		{AnalysisElectricalLosses, []string{FieldEnergyKWh}},
		{AnalysisWakeLosses, []string{FieldAssetID, FieldWindDirection, FieldWindSpeed}},
		{AnalysisTurbineIdealEnergy, []string{FieldAssetID, FieldWindSpeed}},
		{AnalysisEYAGap, []string{FieldWindSpeed}},
	}

	for _, tt := range tests {
		t.Run(tt.analysisType, func(t *testing.T) {
			err := ValidateFor(tt.analysisType, table)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrIncompleteSchema)
			// 错误消息列出全部缺失字段
			for _, field := range tt.missing {
				assert.Contains(t, err.Error(), field)
			}
		})
	}
}

func TestValidateForUnknownType(t *testing.T) {
	err := ValidateFor("nonexistent", fullTable(t))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrIncompleteSchema)
}

func TestBuild(t *testing.T) {
	bundle, err := Build(fullTable(t), testMeta())
	require.NoError(t, err)

	assert.Len(t, bundle.SCADA, 3)
	assert.Len(t, bundle.Meter, 3)
	assert.Len(t, bundle.Assets, 2)
	assert.Equal(t, "T01", bundle.SCADA[0].AssetID)
	assert.InDelta(t, 642.78, bundle.SCADA[0].PowerKW, 0.001)
	assert.InDelta(t, 107.13+99.69+114.72, bundle.TotalMeterKWh(), 0.001)
}

func TestBuildSkipsBadTimestamps(t *testing.T) {
	content := `Date_time,P_avg
2014-01-01 00:00:00,642.78
not-a-date,598.12
2014-01-01 00:10:00,688.31
`
	table, err := ParseCSV([]byte(content), NewSchema(nil))
	require.NoError(t, err)

	bundle, err := Build(table, testMeta())
	require.NoError(t, err)
	assert.Len(t, bundle.SCADA, 2)
}

func TestBuildAllTimestampsBad(t *testing.T) {
	content := "Date_time,P_avg\nbad,642.78\nworse,598.12\n"
	table, err := ParseCSV([]byte(content), NewSchema(nil))
	require.NoError(t, err)

	_, err = Build(table, testMeta())
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestBuildAssetsFromColumns(t *testing.T) {
	content := `Wind_turbine_name,Date_time,P_avg,lat,lon
T09,2014-01-01 00:00:00,642.78,48.45,5.59
T09,2014-01-01 00:10:00,688.31,48.45,5.59
`
	table, err := ParseCSV([]byte(content), NewSchema(nil))
	require.NoError(t, err)

	bundle, err := Build(table, testMeta())
	require.NoError(t, err)

	// 元数据中没有的机组从坐标列补充，且只补一次
	require.Len(t, bundle.Assets, 3)
	assert.Equal(t, "T09", bundle.Assets[2].Name)
	assert.InDelta(t, 48.45, bundle.Assets[2].Latitude, 0.001)
}

func TestBuildNilTable(t *testing.T) {
	_, err := Build(nil, testMeta())
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestBundleMeanPowerKW(t *testing.T) {
	bundle := &Bundle{}
	assert.Zero(t, bundle.MeanPowerKW())

	bundle.SCADA = []SCADARecord{{PowerKW: 100}, {PowerKW: 300}}
	assert.InDelta(t, 200, bundle.MeanPowerKW(), 0.001)
}
