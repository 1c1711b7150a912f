package models

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeightsValidate(t *testing.T) {
	assert.NoError(t, DefaultWeights().Validate())
	assert.NoError(t, Weights{}.Validate())
	assert.NoError(t, Weights{Abstention: 3, Under18: 3, Renters: 3, NonParticipation: 3}.Validate())

	err := Weights{Abstention: 1, Under18: 3.1, Renters: 1, NonParticipation: 1}.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidWeight)
	assert.Contains(t, err.Error(), WeightUnder18)

	err = Weights{Abstention: -0.1, Under18: 1, Renters: 1, NonParticipation: math.NaN()}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), WeightAbstention)
}

func TestWeightsFieldErrors(t *testing.T) {
	errs := Weights{Abstention: 1, Under18: 1, Renters: math.Inf(1), NonParticipation: 5}.FieldErrors()

	assert.Equal(t, map[string][]string{
		WeightRenters:       {"must be a finite number"},
		WeightParticipation: {"must be between 0.0 and 3.0"},
	}, errs)
}

func TestWeightsNamed(t *testing.T) {
	w := Weights{Abstention: 0.5, Under18: 1.5, Renters: 2, NonParticipation: 2.5}

	assert.Equal(t, map[string]float64{
		"w_abstention":    0.5,
		"w_under18":       1.5,
		"w_renters":       2,
		"w_participation": 2.5,
	}, w.Named())
}
