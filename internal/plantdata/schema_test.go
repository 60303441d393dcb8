package plantdata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapAliases(t *testing.T) {
	schema := NewSchema(nil)

	mapping, err := schema.Map([]string{"Date_time", "P_avg", "Ws_avg", "Wind_turbine_name"})
	require.NoError(t, err)

	assert.Equal(t, FieldTime, mapping.Fields["Date_time"])
	assert.Equal(t, FieldPower, mapping.Fields["P_avg"])
	assert.Equal(t, FieldWindSpeed, mapping.Fields["Ws_avg"])
	assert.Equal(t, FieldAssetID, mapping.Fields["Wind_turbine_name"])
	assert.Empty(t, mapping.Extra)
}

func TestMapCaseInsensitive(t *testing.T) {
	schema := NewSchema(nil)

	variants := [][]string{
		{"Date_time", "P_avg"},
		{"DATE_TIME", "P_AVG"},
		{"date_time", "p_avg"},
		{"Date_Time", "P_Avg"},
	}

	var first []string
	for _, headers := range variants {
		mapping, err := schema.Map(headers)
		require.NoError(t, err)

		canonical := mapping.Canonical()
		if first == nil {
			first = canonical
			continue
		}
		// 大小写变化不影响映射结果
		assert.Equal(t, first, canonical)
	}
}

func TestMapCanonicalNamesPassThrough(t *testing.T) {
	schema := NewSchema(nil)

	mapping, err := schema.Map([]string{"time", "power", "wind_speed"})
	require.NoError(t, err)

	assert.True(t, mapping.Has(FieldTime))
	assert.True(t, mapping.Has(FieldPower))
	assert.True(t, mapping.Has(FieldWindSpeed))
}

func TestMapMissingRequired(t *testing.T) {
	schema := NewSchema(nil)

	tests := []struct {
		name    string
		headers []string
		missing string
	}{
		{"缺时间列", []string{"P_avg", "Ws_avg"}, FieldTime},
		{"缺功率列", []string{"Date_time", "Ws_avg"}, FieldPower},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := schema.Map(tt.headers)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMissingRequiredColumn)
			assert.Contains(t, err.Error(), tt.missing)
		})
	}
}

func TestMapExtraColumnsPreserved(t *testing.T) {
	schema := NewSchema(nil)

	mapping, err := schema.Map([]string{"Date_time", "P_avg", "Custom_sensor", "Vibration_x"})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"Custom_sensor", "Vibration_x"}, mapping.Extra)
}

func TestMapCustomAliases(t *testing.T) {
	schema := NewSchema(map[string]string{"Pwr": FieldPower})

	mapping, err := schema.Map([]string{"timestamp", "Pwr"})
	require.NoError(t, err)

	assert.Equal(t, FieldPower, mapping.Fields["Pwr"])
}

func TestMapTrimsWhitespace(t *testing.T) {
	schema := NewSchema(nil)

	mapping, err := schema.Map([]string{" Date_time", "P_avg "})
	require.NoError(t, err)

	assert.True(t, mapping.Has(FieldTime))
	assert.True(t, mapping.Has(FieldPower))
}
