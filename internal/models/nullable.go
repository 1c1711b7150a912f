package models

import (
	"encoding/json"
	"math"
	"strconv"
)

// NullFloat is a float64 that may be absent. Missing data stays missing:
// defaults are applied by the consumers that need them, never stored.
type NullFloat struct {
	Float64 float64
	Valid   bool
}

// Float returns a valid NullFloat, or a null one for NaN and infinities.
func Float(v float64) NullFloat {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return NullFloat{}
	}
	return NullFloat{Float64: v, Valid: true}
}

// Null returns the null value.
func Null() NullFloat {
	return NullFloat{}
}

// Or returns the value, or def when null.
func (n NullFloat) Or(def float64) float64 {
	if !n.Valid {
		return def
	}
	return n.Float64
}

// Coalesce returns n when valid, other otherwise.
func (n NullFloat) Coalesce(other NullFloat) NullFloat {
	if n.Valid {
		return n
	}
	return other
}

// String renders the value for CSV output; null is the empty string.
func (n NullFloat) String() string {
	if !n.Valid {
		return ""
	}
	return strconv.FormatFloat(n.Float64, 'f', -1, 64)
}

func (n NullFloat) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Float64)
}

func (n *NullFloat) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*n = NullFloat{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*n = Float(v)
	return nil
}
