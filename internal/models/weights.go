package models

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidWeight is returned when a weight falls outside WeightBounds
var ErrInvalidWeight = errors.New("invalid weight")

// Query parameter / flag names of the four weights
const (
	WeightAbstention    = "w_abstention"
	WeightUnder18       = "w_under18"
	WeightRenters       = "w_renters"
	WeightParticipation = "w_participation"
)

// Weights are the coefficients of the field-priority score. They are a
// per-pass input and are never stored.
type Weights struct {
	Abstention       float64 `json:"w_abstention"`
	Under18          float64 `json:"w_under18"`
	Renters          float64 `json:"w_renters"`
	NonParticipation float64 `json:"w_participation"`
}

// DefaultWeights returns the neutral weighting
func DefaultWeights() Weights {
	return Weights{Abstention: 1, Under18: 1, Renters: 1, NonParticipation: 1}
}

// Bounds describes the adjustable range of a weight
type Bounds struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Step float64 `json:"step"`
}

// WeightBounds is the range offered by the dashboard and the CLI.
// The score engine itself accepts any value.
var WeightBounds = Bounds{Min: 0.0, Max: 3.0, Step: 0.1}

// Named returns the weights keyed by parameter name
func (w Weights) Named() map[string]float64 {
	return map[string]float64{
		WeightAbstention:    w.Abstention,
		WeightUnder18:       w.Under18,
		WeightRenters:       w.Renters,
		WeightParticipation: w.NonParticipation,
	}
}

// FieldErrors lists the out-of-bounds weights by parameter name
func (w Weights) FieldErrors() map[string][]string {
	errs := make(map[string][]string)
	for name, v := range w.Named() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			errs[name] = append(errs[name], "must be a finite number")
			continue
		}
		if v < WeightBounds.Min || v > WeightBounds.Max {
			errs[name] = append(errs[name], fmt.Sprintf("must be between %.1f and %.1f", WeightBounds.Min, WeightBounds.Max))
		}
	}
	return errs
}

// Validate checks the weights against WeightBounds
func (w Weights) Validate() error {
	errs := w.FieldErrors()
	if len(errs) == 0 {
		return nil
	}
	for _, name := range []string{WeightAbstention, WeightUnder18, WeightRenters, WeightParticipation} {
		if msgs, ok := errs[name]; ok {
			return fmt.Errorf("%w: %s %s", ErrInvalidWeight, name, msgs[0])
		}
	}
	return ErrInvalidWeight
}
