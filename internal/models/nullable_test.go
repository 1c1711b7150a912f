package models

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFloat(t *testing.T) {
	assert.Equal(t, NullFloat{Float64: 1.5, Valid: true}, Float(1.5))
	assert.False(t, Float(math.NaN()).Valid)
	assert.False(t, Float(math.Inf(-1)).Valid)
}

func TestNullFloatOrAndCoalesce(t *testing.T) {
	assert.Equal(t, 50.0, Null().Or(50))
	assert.Equal(t, 0.0, Float(0).Or(50))

	assert.Equal(t, Float(1), Float(1).Coalesce(Float(2)))
	assert.Equal(t, Float(2), Null().Coalesce(Float(2)))
	assert.Equal(t, Null(), Null().Coalesce(Null()))
}

func TestNullFloatJSON(t *testing.T) {
	type row struct {
		A NullFloat `json:"a"`
		B NullFloat `json:"b"`
	}

	data, err := json.Marshal(row{A: Float(12.5), B: Null()})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":12.5,"b":null}`, string(data))

	var decoded row
	require.NoError(t, json.Unmarshal([]byte(`{"a":3,"b":null}`), &decoded))
	assert.Equal(t, Float(3), decoded.A)
	assert.False(t, decoded.B.Valid)
}

func TestNullFloatString(t *testing.T) {
	assert.Equal(t, "", Null().String())
	assert.Equal(t, "12.5", Float(12.5).String())
}
