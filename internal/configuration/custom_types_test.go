package configuration

import (
	"testing"

	"github.com/mitchellh/mapstructure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bandHolder struct {
	Band Band `json:"band"`
}

func decodeBand(t *testing.T, input map[string]interface{}) (bandHolder, error) {
	var result bandHolder
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: BandHookFunc(),
		Result:     &result,
	})
	require.NoError(t, err)
	err = decoder.Decode(input)
	return result, err
}

func TestBandHook_List(t *testing.T) {
	// GIVEN
	input := map[string]interface{}{
		"band": []interface{}{200, 500.5},
	}

	// WHEN
	result, err := decodeBand(t, input)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, Band{Low: 200, High: 500.5}, result.Band)
}

func TestBandHook_FloatSlice(t *testing.T) {
	// GIVEN
	input := map[string]interface{}{
		"band": []float64{100, 300},
	}

	// WHEN
	result, err := decodeBand(t, input)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, Band{Low: 100, High: 300}, result.Band)
}

func TestBandHook_String(t *testing.T) {
	// GIVEN
	input := map[string]interface{}{
		"band": "200 - 500",
	}

	// WHEN
	result, err := decodeBand(t, input)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, Band{Low: 200, High: 500}, result.Band)
}

func TestBandHook_Map(t *testing.T) {
	// GIVEN
	input := map[string]interface{}{
		"band": map[string]interface{}{
			"low":  150,
			"high": 450,
		},
	}

	// WHEN
	result, err := decodeBand(t, input)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, Band{Low: 150, High: 450}, result.Band)
}

func TestBandHook_WrongLength(t *testing.T) {
	// GIVEN
	input := map[string]interface{}{
		"band": []interface{}{200},
	}

	// WHEN
	_, err := decodeBand(t, input)

	// THEN
	assert.Error(t, err)
}

func TestBandHook_InvalidString(t *testing.T) {
	// GIVEN
	input := map[string]interface{}{
		"band": "bright",
	}

	// WHEN
	_, err := decodeBand(t, input)

	// THEN
	assert.Error(t, err)
}

func TestBand_Contains(t *testing.T) {
	// GIVEN
	band := Band{Low: 200, High: 500}

	// THEN
	assert.True(t, band.Contains(200))
	assert.True(t, band.Contains(350))
	assert.True(t, band.Contains(500))
	assert.False(t, band.Contains(199.9))
	assert.False(t, band.Contains(500.1))
}
