package contracts

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
)

// OptFloat is a float that may be missing.
// Missing (Valid == false) is distinct from a real zero at every step.
type OptFloat struct {
	Float64 float64
	Valid   bool
}

// Some returns a present value
func Some(v float64) OptFloat {
	return OptFloat{Float64: v, Valid: true}
}

// None returns a missing value
func None() OptFloat {
	return OptFloat{}
}

// Get returns the value and whether it is present
func (o OptFloat) Get() (float64, bool) {
	return o.Float64, o.Valid
}

// Finite reports whether the value is missing or a finite number
func (o OptFloat) Finite() bool {
	return !o.Valid || (!math.IsNaN(o.Float64) && !math.IsInf(o.Float64, 0))
}

// MarshalJSON encodes missing as null
func (o OptFloat) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.Float64)
}

// UnmarshalJSON decodes null as missing
func (o *OptFloat) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*o = None()
		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	*o = Some(v)
	return nil
}

// Scan implements sql.Scanner
func (o *OptFloat) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*o = None()
	case float64:
		*o = Some(v)
	case float32:
		*o = Some(float64(v))
	case int64:
		*o = Some(float64(v))
	default:
		return fmt.Errorf("cannot scan %T into OptFloat", value)
	}
	return nil
}

// Value implements driver.Valuer
func (o OptFloat) Value() (driver.Value, error) {
	if !o.Valid {
		return nil, nil
	}
	return o.Float64, nil
}
